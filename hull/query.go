package hull

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WorldVertex returns vertex id placed by the given position and orientation.
func (h *Hull) WorldVertex(id VertexID, position mgl64.Vec3, orientation mgl64.Mat3) mgl64.Vec3 {
	return orientation.Mul3x1(h.vertices[id].Position).Add(position)
}

// Support returns the placed vertex with the largest projection on direction.
// It is a linear scan, which is fine for the low vertex counts hulls have.
func (h *Hull) Support(direction, position mgl64.Vec3, orientation mgl64.Mat3) mgl64.Vec3 {
	best := mgl64.Vec3{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	bestProjection := -math.MaxFloat64

	for i := range h.vertices {
		p := h.WorldVertex(VertexID(i), position, orientation)
		if projection := p.Dot(direction); projection > bestProjection {
			bestProjection = projection
			best = p
		}
	}

	return best
}

// ProjectionInterval projects every placed vertex on axis and returns the
// extremes.
func (h *Hull) ProjectionInterval(axis, position mgl64.Vec3, orientation mgl64.Mat3) (float64, float64) {
	if len(h.vertices) == 0 {
		return 0, 0
	}

	lo := h.WorldVertex(0, position, orientation).Dot(axis)
	hi := lo
	for i := 1; i < len(h.vertices); i++ {
		projection := h.WorldVertex(VertexID(i), position, orientation).Dot(axis)
		lo = math.Min(lo, projection)
		hi = math.Max(hi, projection)
	}

	return lo, hi
}

// Bounds returns the axis-aligned extent of the placed hull.
func (h *Hull) Bounds(position mgl64.Vec3, orientation mgl64.Mat3) (mgl64.Vec3, mgl64.Vec3) {
	if len(h.vertices) == 0 {
		return position, position
	}

	lo := h.WorldVertex(0, position, orientation)
	hi := lo
	for i := 1; i < len(h.vertices); i++ {
		p := h.WorldVertex(VertexID(i), position, orientation)
		for k := range 3 {
			lo[k] = math.Min(lo[k], p[k])
			hi[k] = math.Max(hi[k], p[k])
		}
	}

	return lo, hi
}

// FaceArea returns the area of a face, used to pick the dominant face of a
// bounded plane.
func (h *Hull) FaceArea(f FaceID) float64 {
	vertices := h.FaceVertices(f)
	if len(vertices) < 3 {
		return 0
	}

	origin := h.vertices[vertices[0]].Position
	var sum mgl64.Vec3
	for i := 1; i+1 < len(vertices); i++ {
		a := h.vertices[vertices[i]].Position.Sub(origin)
		b := h.vertices[vertices[i+1]].Position.Sub(origin)
		sum = sum.Add(a.Cross(b))
	}

	return sum.Len() / 2
}
