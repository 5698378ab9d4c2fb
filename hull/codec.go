package hull

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vmihailenco/msgpack/v5"
)

type edgeRecord struct {
	Tail int32 `msgpack:"t"`
	Head int32 `msgpack:"h"`
	Twin int32 `msgpack:"w"`
	Next int32 `msgpack:"n"`
	Prev int32 `msgpack:"p"`
	Face int32 `msgpack:"f"`
}

type faceRecord struct {
	Edge   int32      `msgpack:"e"`
	Normal [3]float64 `msgpack:"n"`
}

type snapshot struct {
	Vertices    [][3]float64 `msgpack:"vertices"`
	Edges       []edgeRecord `msgpack:"edges"`
	Faces       []faceRecord `msgpack:"faces"`
	UniqueEdges []int32      `msgpack:"unique_edges"`
}

// Encode writes a finalized hull as a msgpack document.
func (h *Hull) Encode(w io.Writer) error {
	if !h.finalized {
		return ErrNotFinalized
	}

	snap := snapshot{
		Vertices:    make([][3]float64, len(h.vertices)),
		Edges:       make([]edgeRecord, len(h.edges)),
		Faces:       make([]faceRecord, len(h.faces)),
		UniqueEdges: make([]int32, len(h.uniqueEdges)),
	}
	for i, v := range h.vertices {
		snap.Vertices[i] = v.Position
	}
	for i, e := range h.edges {
		snap.Edges[i] = edgeRecord{
			Tail: int32(e.Tail),
			Head: int32(e.Head),
			Twin: int32(e.Twin),
			Next: int32(e.Next),
			Prev: int32(e.Prev),
			Face: int32(e.Face),
		}
	}
	for i, f := range h.faces {
		snap.Faces[i] = faceRecord{Edge: int32(f.Edge), Normal: f.Normal}
	}
	for i, id := range h.uniqueEdges {
		snap.UniqueEdges[i] = int32(id)
	}

	return msgpack.NewEncoder(w).Encode(&snap)
}

// Decode reads a hull written by Encode. The result is finalized and
// validated; a document that breaks any half-edge invariant is rejected.
func Decode(r io.Reader) (*Hull, error) {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("hull: decode: %w", err)
	}

	h := &Hull{
		vertices:    make([]Vertex, len(snap.Vertices)),
		edges:       make([]HalfEdge, len(snap.Edges)),
		faces:       make([]Face, len(snap.Faces)),
		uniqueEdges: make([]EdgeID, len(snap.UniqueEdges)),
		finalized:   true,
	}

	for i, v := range snap.Vertices {
		p := mgl64.Vec3(v)
		if !isFinite(p) {
			return nil, fmt.Errorf("%w: vertex %d", ErrNonFinite, i)
		}
		h.vertices[i] = Vertex{Position: p}
	}

	inRange := func(id int32, n int) bool { return id >= 0 && int(id) < n }
	for i, e := range snap.Edges {
		if !inRange(e.Tail, len(h.vertices)) || !inRange(e.Head, len(h.vertices)) {
			return nil, fmt.Errorf("%w: edge %d vertex out of range", ErrCorrupt, i)
		}
		if !inRange(e.Next, len(snap.Edges)) || !inRange(e.Prev, len(snap.Edges)) || !inRange(e.Face, len(snap.Faces)) {
			return nil, fmt.Errorf("%w: edge %d link out of range", ErrCorrupt, i)
		}
		if e.Twin != int32(NoEdge) && !inRange(e.Twin, len(snap.Edges)) {
			return nil, fmt.Errorf("%w: edge %d twin out of range", ErrCorrupt, i)
		}
		if e.Tail == e.Head {
			return nil, fmt.Errorf("%w: edge %d is a loop", ErrCorrupt, i)
		}

		tail := h.vertices[e.Tail].Position
		head := h.vertices[e.Head].Position
		h.edges[i] = HalfEdge{
			Tail:      VertexID(e.Tail),
			Head:      VertexID(e.Head),
			Twin:      EdgeID(e.Twin),
			Next:      EdgeID(e.Next),
			Prev:      EdgeID(e.Prev),
			Face:      FaceID(e.Face),
			Direction: head.Sub(tail).Normalize(),
		}
	}

	for i, f := range snap.Faces {
		if !inRange(f.Edge, len(snap.Edges)) {
			return nil, fmt.Errorf("%w: face %d anchor out of range", ErrCorrupt, i)
		}
		h.faces[i] = Face{Edge: EdgeID(f.Edge), Normal: mgl64.Vec3(f.Normal)}
	}

	for i, id := range snap.UniqueEdges {
		if !inRange(id, len(snap.Edges)) {
			return nil, fmt.Errorf("%w: unique edge %d out of range", ErrCorrupt, i)
		}
		h.uniqueEdges[i] = EdgeID(id)
	}

	if err := h.Validate(); err != nil {
		return nil, err
	}

	return h, nil
}
