package hull

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Triangle is one entry of a triangle stream: three vertex indices wound
// counter-clockwise seen from outside, and the face normal. A zero normal is
// derived from the winding.
type Triangle struct {
	Indices [3]int
	Normal  mgl64.Vec3
}

// Build creates and finalizes a hull from a vertex list and a triangle
// stream. On failure no hull is returned.
func Build(vertices []mgl64.Vec3, triangles []Triangle) (*Hull, error) {
	h := New()
	for i, v := range vertices {
		if _, err := h.AddVertex(v); err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
	}

	for i, tri := range triangles {
		for _, idx := range tri.Indices {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("triangle %d: %w: %d", i, ErrInvalidVertex, idx)
			}
		}

		normal := tri.Normal
		if normal.Len() == 0 {
			a := vertices[tri.Indices[0]]
			b := vertices[tri.Indices[1]]
			c := vertices[tri.Indices[2]]
			normal = b.Sub(a).Cross(c.Sub(a))
		}

		err := h.AddFace(VertexID(tri.Indices[0]), VertexID(tri.Indices[1]), VertexID(tri.Indices[2]), normal)
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
	}

	if err := h.Finalize(); err != nil {
		return nil, err
	}

	return h, nil
}

// BoxMesh returns the triangle stream of a box centered on the origin.
func BoxMesh(halfExtents mgl64.Vec3) ([]mgl64.Vec3, []Triangle) {
	x, y, z := halfExtents.X(), halfExtents.Y(), halfExtents.Z()
	vertices := []mgl64.Vec3{
		{-x, -y, -z},
		{x, -y, -z},
		{x, y, -z},
		{-x, y, -z},
		{-x, -y, z},
		{x, -y, z},
		{x, y, z},
		{-x, y, z},
	}

	quads := []struct {
		corners [4]int
		normal  mgl64.Vec3
	}{
		{[4]int{4, 5, 6, 7}, mgl64.Vec3{0, 0, 1}},
		{[4]int{1, 0, 3, 2}, mgl64.Vec3{0, 0, -1}},
		{[4]int{5, 1, 2, 6}, mgl64.Vec3{1, 0, 0}},
		{[4]int{0, 4, 7, 3}, mgl64.Vec3{-1, 0, 0}},
		{[4]int{7, 6, 2, 3}, mgl64.Vec3{0, 1, 0}},
		{[4]int{0, 1, 5, 4}, mgl64.Vec3{0, -1, 0}},
	}

	triangles := make([]Triangle, 0, 12)
	for _, q := range quads {
		c := q.corners
		triangles = append(triangles,
			Triangle{Indices: [3]int{c[0], c[1], c[2]}, Normal: q.normal},
			Triangle{Indices: [3]int{c[0], c[2], c[3]}, Normal: q.normal},
		)
	}

	return vertices, triangles
}

// QuadMesh returns a single upward facing rectangle in the XZ plane, the
// surface of a bounded plane.
func QuadMesh(halfWidth, halfDepth float64) ([]mgl64.Vec3, []Triangle) {
	vertices := []mgl64.Vec3{
		{-halfWidth, 0, halfDepth},
		{halfWidth, 0, halfDepth},
		{halfWidth, 0, -halfDepth},
		{-halfWidth, 0, -halfDepth},
	}
	up := mgl64.Vec3{0, 1, 0}

	return vertices, []Triangle{
		{Indices: [3]int{0, 1, 2}, Normal: up},
		{Indices: [3]int{0, 2, 3}, Normal: up},
	}
}

func NewBox(halfExtents mgl64.Vec3) (*Hull, error) {
	return Build(BoxMesh(halfExtents))
}

func NewQuad(halfWidth, halfDepth float64) (*Hull, error) {
	return Build(QuadMesh(halfWidth, halfDepth))
}
