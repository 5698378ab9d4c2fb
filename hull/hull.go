// Package hull stores convex polyhedra as a half-edge mesh.
//
// Vertices, half-edges and faces live in flat slices owned by the Hull and
// reference each other through integer handles, so a hull has no internal
// pointers and can be copied or serialized as plain data. A hull is built
// incrementally with AddVertex and AddFace, then sealed with Finalize; after
// that it is read-only and may be shared by any number of rigid bodies.
package hull

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

type VertexID int
type EdgeID int
type FaceID int

const (
	NoVertex VertexID = -1
	NoEdge   EdgeID   = -1
	NoFace   FaceID   = -1
)

const (
	// CoplanarTolerance is the per-component threshold under which two face
	// normals are considered equal and their faces merged.
	CoplanarTolerance = 1e-6

	// MaxElements bounds every arena. Handles are serialized as int32.
	MaxElements = math.MaxInt32
)

var (
	ErrFinalized        = errors.New("hull: already finalized")
	ErrNotFinalized     = errors.New("hull: not finalized")
	ErrCapacity         = errors.New("hull: capacity exhausted")
	ErrNonFinite        = errors.New("hull: non-finite coordinate")
	ErrInvalidVertex    = errors.New("hull: vertex index out of range")
	ErrDegenerateFace   = errors.New("hull: degenerate face")
	ErrNonManifold      = errors.New("hull: edge shared by more than two faces")
	ErrEmpty            = errors.New("hull: no faces")
	ErrDegenerateVolume = errors.New("hull: zero volume")
	ErrCorrupt          = errors.New("hull: broken half-edge invariant")
)

type Vertex struct {
	Position mgl64.Vec3
}

// HalfEdge is one directed side of an edge. Twin is NoEdge on the border of
// an open surface.
type HalfEdge struct {
	Tail, Head VertexID
	Twin       EdgeID
	Next, Prev EdgeID
	Face       FaceID
	// Direction is the unit vector from Tail to Head.
	Direction mgl64.Vec3

	removed bool
}

type Face struct {
	Edge   EdgeID
	Normal mgl64.Vec3

	removed bool
}

type vertexPair struct {
	tail, head VertexID
}

type Hull struct {
	vertices    []Vertex
	edges       []HalfEdge
	faces       []Face
	uniqueEdges []EdgeID

	// pairs holds one half-edge per undirected edge while building.
	pairs     map[vertexPair]EdgeID
	finalized bool
}

func New() *Hull {
	return &Hull{
		pairs: make(map[vertexPair]EdgeID),
	}
}

// AddVertex appends a vertex and returns its handle.
func (h *Hull) AddVertex(position mgl64.Vec3) (VertexID, error) {
	if h.finalized {
		return NoVertex, ErrFinalized
	}
	if !isFinite(position) {
		return NoVertex, fmt.Errorf("%w: %v", ErrNonFinite, position)
	}
	if len(h.vertices) >= MaxElements {
		return NoVertex, ErrCapacity
	}

	h.vertices = append(h.vertices, Vertex{Position: position})
	return VertexID(len(h.vertices) - 1), nil
}

// AddFace adds the triangle (i0, i1, i2) with the given outward normal. The
// vertices must wind counter-clockwise seen from outside. Shared edges are
// twinned with the faces already present, and when the neighbouring face has
// the same normal the triangle is merged into it.
func (h *Hull) AddFace(i0, i1, i2 VertexID, normal mgl64.Vec3) error {
	if h.finalized {
		return ErrFinalized
	}
	ids := [3]VertexID{i0, i1, i2}
	for _, id := range ids {
		if id < 0 || int(id) >= len(h.vertices) {
			return fmt.Errorf("%w: %d", ErrInvalidVertex, id)
		}
	}
	if i0 == i1 || i1 == i2 || i2 == i0 {
		return fmt.Errorf("%w: repeated vertex in (%d, %d, %d)", ErrDegenerateFace, i0, i1, i2)
	}
	if !isFinite(normal) || normal.Len() < 1e-12 {
		return fmt.Errorf("%w: invalid normal %v", ErrDegenerateFace, normal)
	}
	p0, p1, p2 := h.vertices[i0].Position, h.vertices[i1].Position, h.vertices[i2].Position
	if p1.Sub(p0).Cross(p2.Sub(p0)).Len() < 1e-12 {
		return fmt.Errorf("%w: collinear vertices (%d, %d, %d)", ErrDegenerateFace, i0, i1, i2)
	}
	if len(h.edges)+3 > MaxElements || len(h.faces)+1 > MaxElements {
		return ErrCapacity
	}

	// reject before touching the arena so a failed call leaves no trace
	for k := range 3 {
		tail, head := ids[k], ids[(k+1)%3]
		if _, ok := h.pairs[vertexPair{tail, head}]; ok {
			return fmt.Errorf("%w: (%d, %d)", ErrNonManifold, tail, head)
		}
		if twin, ok := h.pairs[vertexPair{head, tail}]; ok && h.edges[twin].Twin != NoEdge {
			return fmt.Errorf("%w: (%d, %d)", ErrNonManifold, tail, head)
		}
	}

	face := FaceID(len(h.faces))
	first := EdgeID(len(h.edges))
	h.faces = append(h.faces, Face{Edge: first, Normal: normal.Normalize()})

	for k := range 3 {
		tail, head := ids[k], ids[(k+1)%3]
		h.edges = append(h.edges, HalfEdge{
			Tail:      tail,
			Head:      head,
			Twin:      NoEdge,
			Next:      first + EdgeID((k+1)%3),
			Prev:      first + EdgeID((k+2)%3),
			Face:      face,
			Direction: h.vertices[head].Position.Sub(h.vertices[tail].Position).Normalize(),
		})
	}

	for k := range 3 {
		h.linkTwin(first + EdgeID(k))
	}
	for k := range 3 {
		h.mergeIfCoplanar(first + EdgeID(k))
	}

	return nil
}

func (h *Hull) linkTwin(id EdgeID) {
	edge := &h.edges[id]
	if twin, ok := h.pairs[vertexPair{edge.Head, edge.Tail}]; ok {
		edge.Twin = twin
		h.edges[twin].Twin = id
		return
	}
	h.pairs[vertexPair{edge.Tail, edge.Head}] = id
}

func (h *Hull) mergeIfCoplanar(id EdgeID) bool {
	edge := h.edges[id]
	if edge.removed || edge.Twin == NoEdge {
		return false
	}
	twin := h.edges[edge.Twin]
	if edge.Face == twin.Face {
		return false
	}
	if !h.faces[edge.Face].Normal.ApproxEqualThreshold(h.faces[twin.Face].Normal, CoplanarTolerance) {
		return false
	}

	h.mergeFaces(id)
	return true
}

// mergeFaces dissolves the edge pair (id, twin) and folds the face of id into
// the face of its twin.
func (h *Hull) mergeFaces(id EdgeID) {
	edge := h.edges[id]
	twinID := edge.Twin
	twin := h.edges[twinID]
	survivor := twin.Face
	absorbed := edge.Face

	h.faces[survivor].Edge = twin.Prev

	for e := edge.Next; e != id; e = h.edges[e].Next {
		h.edges[e].Face = survivor
	}

	h.edges[twin.Prev].Next = edge.Next
	h.edges[twin.Next].Prev = edge.Prev
	h.edges[edge.Prev].Next = twin.Next
	h.edges[edge.Next].Prev = twin.Prev

	h.faces[absorbed].removed = true
	h.edges[id].removed = true
	h.edges[twinID].removed = true
	delete(h.pairs, vertexPair{edge.Tail, edge.Head})
	delete(h.pairs, vertexPair{edge.Head, edge.Tail})
}

// Finalize builds the unique edge list, compacts the arena and drops the
// construction tables. The hull is immutable afterwards.
func (h *Hull) Finalize() error {
	if h.finalized {
		return ErrFinalized
	}

	edgeMap := make([]EdgeID, len(h.edges))
	faceMap := make([]FaceID, len(h.faces))

	var edgeCount, faceCount int
	for i, e := range h.edges {
		if e.removed {
			edgeMap[i] = NoEdge
			continue
		}
		edgeMap[i] = EdgeID(edgeCount)
		edgeCount++
	}
	for i, f := range h.faces {
		if f.removed {
			faceMap[i] = NoFace
			continue
		}
		faceMap[i] = FaceID(faceCount)
		faceCount++
	}
	if faceCount == 0 {
		return ErrEmpty
	}

	edges := make([]HalfEdge, 0, edgeCount)
	for _, e := range h.edges {
		if e.removed {
			continue
		}
		if e.Twin != NoEdge {
			e.Twin = edgeMap[e.Twin]
		}
		e.Next = edgeMap[e.Next]
		e.Prev = edgeMap[e.Prev]
		e.Face = faceMap[e.Face]
		edges = append(edges, e)
	}

	faces := make([]Face, 0, faceCount)
	for _, f := range h.faces {
		if f.removed {
			continue
		}
		f.Edge = edgeMap[f.Edge]
		faces = append(faces, f)
	}

	unique := make([]EdgeID, 0, len(h.pairs))
	for _, id := range h.pairs {
		unique = append(unique, edgeMap[id])
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

	h.edges = edges
	h.faces = faces
	h.uniqueEdges = unique
	h.pairs = nil
	h.finalized = true

	return h.Validate()
}

func (h *Hull) Finalized() bool {
	return h.finalized
}

func (h *Hull) Vertices() []Vertex {
	return h.vertices
}

func (h *Hull) Edges() []HalfEdge {
	return h.edges
}

func (h *Hull) Faces() []Face {
	return h.faces
}

// UniqueEdges returns one half-edge per undirected edge, in handle order.
// It is empty until the hull is finalized.
func (h *Hull) UniqueEdges() []EdgeID {
	return h.uniqueEdges
}

func (h *Hull) Vertex(id VertexID) Vertex {
	return h.vertices[id]
}

func (h *Hull) Edge(id EdgeID) HalfEdge {
	return h.edges[id]
}

func (h *Hull) Face(id FaceID) Face {
	return h.faces[id]
}

func (h *Hull) VertexCount() int {
	return len(h.vertices)
}

func (h *Hull) FaceCount() int {
	return len(h.faces)
}

// FaceEdges returns the half-edges of a face in loop order, starting at its
// anchor.
func (h *Hull) FaceEdges(f FaceID) []EdgeID {
	start := h.faces[f].Edge
	out := make([]EdgeID, 0, 4)
	for e := start; ; {
		out = append(out, e)
		e = h.edges[e].Next
		if e == start || len(out) > len(h.edges) {
			break
		}
	}
	return out
}

func (h *Hull) FaceEdgeCount(f FaceID) int {
	return len(h.FaceEdges(f))
}

// FaceVertices returns the tail vertex of every edge of the face, in winding
// order.
func (h *Hull) FaceVertices(f FaceID) []VertexID {
	edges := h.FaceEdges(f)
	out := make([]VertexID, len(edges))
	for i, e := range edges {
		out[i] = h.edges[e].Tail
	}
	return out
}

// Validate checks the structural invariants of a finalized hull: every face
// loop closes, prev undoes next, twins are mutual and reversed, every
// half-edge belongs to exactly one face loop and every undirected edge has
// exactly one unique edge. Face normals must be finite.
func (h *Hull) Validate() error {
	if !h.finalized {
		return ErrNotFinalized
	}
	if len(h.faces) == 0 {
		return ErrEmpty
	}

	visited := make([]bool, len(h.edges))
	for f, face := range h.faces {
		if face.Edge < 0 || int(face.Edge) >= len(h.edges) {
			return fmt.Errorf("%w: face %d anchor %d", ErrCorrupt, f, face.Edge)
		}
		if !isFinite(face.Normal) {
			return fmt.Errorf("%w: face %d normal", ErrNonFinite, f)
		}

		e := face.Edge
		for steps := 0; ; steps++ {
			if steps > len(h.edges) {
				return fmt.Errorf("%w: face %d loop does not close", ErrCorrupt, f)
			}
			if visited[e] {
				return fmt.Errorf("%w: edge %d visited twice", ErrCorrupt, e)
			}
			visited[e] = true

			edge := h.edges[e]
			if edge.Face != FaceID(f) {
				return fmt.Errorf("%w: edge %d belongs to face %d, found in face %d", ErrCorrupt, e, edge.Face, f)
			}
			if edge.Next < 0 || int(edge.Next) >= len(h.edges) || h.edges[edge.Next].Prev != e {
				return fmt.Errorf("%w: edge %d next/prev mismatch", ErrCorrupt, e)
			}
			if h.edges[edge.Next].Tail != edge.Head {
				return fmt.Errorf("%w: edge %d is not connected to its successor", ErrCorrupt, e)
			}
			if edge.Twin != NoEdge {
				if edge.Twin < 0 || int(edge.Twin) >= len(h.edges) {
					return fmt.Errorf("%w: edge %d twin %d", ErrCorrupt, e, edge.Twin)
				}
				twin := h.edges[edge.Twin]
				if twin.Twin != e || twin.Tail != edge.Head || twin.Head != edge.Tail {
					return fmt.Errorf("%w: edge %d twin mismatch", ErrCorrupt, e)
				}
			}

			e = edge.Next
			if e == face.Edge {
				break
			}
		}
	}

	for e, ok := range visited {
		if !ok {
			return fmt.Errorf("%w: edge %d is not on any face", ErrCorrupt, e)
		}
	}

	covered := make([]bool, len(h.edges))
	for _, id := range h.uniqueEdges {
		if id < 0 || int(id) >= len(h.edges) {
			return fmt.Errorf("%w: unique edge %d", ErrCorrupt, id)
		}
		halves := []EdgeID{id}
		if twin := h.edges[id].Twin; twin != NoEdge {
			halves = append(halves, twin)
		}
		for _, e := range halves {
			if covered[e] {
				return fmt.Errorf("%w: edge %d listed twice as unique", ErrCorrupt, e)
			}
			covered[e] = true
		}
	}
	for e, ok := range covered {
		if !ok {
			return fmt.Errorf("%w: edge %d has no unique edge", ErrCorrupt, e)
		}
	}

	return nil
}

func isFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
