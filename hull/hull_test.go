package hull

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func vec3AlmostEqual(a, b mgl64.Vec3, eps float64) bool {
	return almostEqual(a.X(), b.X(), eps) &&
		almostEqual(a.Y(), b.Y(), eps) &&
		almostEqual(a.Z(), b.Z(), eps)
}

func mustBox(t *testing.T, halfExtents mgl64.Vec3) *Hull {
	t.Helper()
	h, err := NewBox(halfExtents)
	if err != nil {
		t.Fatalf("NewBox(%v) error = %v", halfExtents, err)
	}
	return h
}

// =============================================================================
// Construction Tests
// =============================================================================

func TestAddVertex(t *testing.T) {
	tests := []struct {
		name    string
		pos     mgl64.Vec3
		wantErr error
	}{
		{name: "origin", pos: mgl64.Vec3{0, 0, 0}},
		{name: "arbitrary", pos: mgl64.Vec3{1.5, -2, 3}},
		{name: "NaN", pos: mgl64.Vec3{math.NaN(), 0, 0}, wantErr: ErrNonFinite},
		{name: "infinite", pos: mgl64.Vec3{0, math.Inf(1), 0}, wantErr: ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			id, err := h.AddVertex(tt.pos)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddVertex() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if id != NoVertex {
					t.Errorf("AddVertex() id = %d, want NoVertex", id)
				}
				if h.VertexCount() != 0 {
					t.Errorf("VertexCount() = %d, want 0", h.VertexCount())
				}
				return
			}
			if id != 0 {
				t.Errorf("AddVertex() id = %d, want 0", id)
			}
		})
	}
}

func TestAddFace_Errors(t *testing.T) {
	newTriangleHull := func() *Hull {
		h := New()
		h.AddVertex(mgl64.Vec3{0, 0, 0})
		h.AddVertex(mgl64.Vec3{1, 0, 0})
		h.AddVertex(mgl64.Vec3{0, 1, 0})
		h.AddVertex(mgl64.Vec3{2, 0, 0})
		return h
	}
	up := mgl64.Vec3{0, 0, 1}

	tests := []struct {
		name    string
		i       [3]VertexID
		normal  mgl64.Vec3
		wantErr error
	}{
		{name: "out of range", i: [3]VertexID{0, 1, 9}, normal: up, wantErr: ErrInvalidVertex},
		{name: "negative index", i: [3]VertexID{-1, 1, 2}, normal: up, wantErr: ErrInvalidVertex},
		{name: "repeated vertex", i: [3]VertexID{0, 0, 2}, normal: up, wantErr: ErrDegenerateFace},
		{name: "collinear", i: [3]VertexID{0, 1, 3}, normal: up, wantErr: ErrDegenerateFace},
		{name: "zero normal", i: [3]VertexID{0, 1, 2}, normal: mgl64.Vec3{}, wantErr: ErrDegenerateFace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTriangleHull()
			err := h.AddFace(tt.i[0], tt.i[1], tt.i[2], tt.normal)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddFace() error = %v, want %v", err, tt.wantErr)
			}
			if len(h.Faces()) != 0 || len(h.Edges()) != 0 {
				t.Errorf("failed AddFace left %d faces and %d edges", len(h.Faces()), len(h.Edges()))
			}
		})
	}
}

func TestAddFace_NonManifold(t *testing.T) {
	h := New()
	h.AddVertex(mgl64.Vec3{0, 0, 0})
	h.AddVertex(mgl64.Vec3{1, 0, 0})
	h.AddVertex(mgl64.Vec3{0, 1, 0})
	h.AddVertex(mgl64.Vec3{0, -1, 0})
	h.AddVertex(mgl64.Vec3{0, 0, 1})

	if err := h.AddFace(0, 1, 2, mgl64.Vec3{0, 0, 1}); err != nil {
		t.Fatalf("first face: %v", err)
	}
	// same directed edge 0->1 again
	if err := h.AddFace(0, 1, 4, mgl64.Vec3{0, -1, 1}); !errors.Is(err, ErrNonManifold) {
		t.Errorf("duplicate directed edge: error = %v, want ErrNonManifold", err)
	}
	// 1->0 twins with 0->1
	if err := h.AddFace(1, 0, 3, mgl64.Vec3{0, 0, -1}); err != nil {
		t.Fatalf("twin face: %v", err)
	}
	// a third face on the same undirected edge
	if err := h.AddFace(1, 0, 4, mgl64.Vec3{0, -1, 1}); !errors.Is(err, ErrNonManifold) {
		t.Errorf("third face on edge: error = %v, want ErrNonManifold", err)
	}
}

func TestAddFace_Twins(t *testing.T) {
	h := New()
	h.AddVertex(mgl64.Vec3{0, 0, 0})
	h.AddVertex(mgl64.Vec3{1, 0, 0})
	h.AddVertex(mgl64.Vec3{0, 1, 0})
	h.AddVertex(mgl64.Vec3{0, 0, 1})

	if err := h.AddFace(0, 1, 2, mgl64.Vec3{0, 0, -1}); err != nil {
		t.Fatal(err)
	}
	if err := h.AddFace(1, 0, 3, mgl64.Vec3{0, -1, 0}); err != nil {
		t.Fatal(err)
	}

	var shared int
	for id, e := range h.Edges() {
		if e.Twin == NoEdge {
			continue
		}
		shared++
		twin := h.Edge(e.Twin)
		if twin.Twin != EdgeID(id) {
			t.Errorf("edge %d: twin.twin = %d", id, twin.Twin)
		}
		if twin.Tail != e.Head || twin.Head != e.Tail {
			t.Errorf("edge %d: twin is not reversed", id)
		}
	}
	if shared != 2 {
		t.Errorf("twinned half-edges = %d, want 2", shared)
	}
}

func TestAddFace_AfterFinalize(t *testing.T) {
	h := mustBox(t, mgl64.Vec3{1, 1, 1})

	if _, err := h.AddVertex(mgl64.Vec3{}); !errors.Is(err, ErrFinalized) {
		t.Errorf("AddVertex() error = %v, want ErrFinalized", err)
	}
	if err := h.AddFace(0, 1, 2, mgl64.Vec3{0, 0, 1}); !errors.Is(err, ErrFinalized) {
		t.Errorf("AddFace() error = %v, want ErrFinalized", err)
	}
	if err := h.Finalize(); !errors.Is(err, ErrFinalized) {
		t.Errorf("Finalize() error = %v, want ErrFinalized", err)
	}
}

// =============================================================================
// Coplanar Merge Tests
// =============================================================================

func TestCoplanarMerge_TwoTriangles(t *testing.T) {
	h := New()
	h.AddVertex(mgl64.Vec3{0, 0, 0})
	h.AddVertex(mgl64.Vec3{1, 0, 0})
	h.AddVertex(mgl64.Vec3{1, 1, 0})
	h.AddVertex(mgl64.Vec3{0, 1, 0})
	normal := mgl64.Vec3{0, 0, 1}

	if err := h.AddFace(0, 1, 2, normal); err != nil {
		t.Fatal(err)
	}
	if err := h.AddFace(0, 2, 3, normal); err != nil {
		t.Fatal(err)
	}
	if err := h.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if h.FaceCount() != 1 {
		t.Fatalf("FaceCount() = %d, want 1", h.FaceCount())
	}
	if got := h.FaceEdgeCount(0); got != 4 {
		t.Errorf("FaceEdgeCount(0) = %d, want 4", got)
	}
	if len(h.Edges()) != 4 {
		t.Errorf("len(Edges()) = %d, want 4 after removing the shared diagonal", len(h.Edges()))
	}
	if len(h.UniqueEdges()) != 4 {
		t.Errorf("len(UniqueEdges()) = %d, want 4", len(h.UniqueEdges()))
	}

	// the loop visits every corner once, in winding order
	want := map[VertexID]bool{0: true, 1: true, 2: true, 3: true}
	for _, v := range h.FaceVertices(0) {
		if !want[v] {
			t.Errorf("unexpected or repeated vertex %d in merged face", v)
		}
		delete(want, v)
	}
	if len(want) != 0 {
		t.Errorf("missing vertices in merged face: %v", want)
	}
}

func TestCoplanarMerge_DifferentNormals(t *testing.T) {
	h := New()
	h.AddVertex(mgl64.Vec3{0, 0, 0})
	h.AddVertex(mgl64.Vec3{1, 0, 0})
	h.AddVertex(mgl64.Vec3{1, 1, 0})
	h.AddVertex(mgl64.Vec3{0, 1, 1})

	if err := h.AddFace(0, 1, 2, mgl64.Vec3{0, 0, 1}); err != nil {
		t.Fatal(err)
	}
	if err := h.AddFace(0, 2, 3, mgl64.Vec3{1, -1, 1}); err != nil {
		t.Fatal(err)
	}
	if err := h.Finalize(); err != nil {
		t.Fatal(err)
	}

	if h.FaceCount() != 2 {
		t.Errorf("FaceCount() = %d, want 2", h.FaceCount())
	}
}

func TestBox_Topology(t *testing.T) {
	h := mustBox(t, mgl64.Vec3{1, 2, 3})

	if h.VertexCount() != 8 {
		t.Errorf("VertexCount() = %d, want 8", h.VertexCount())
	}
	if h.FaceCount() != 6 {
		t.Errorf("FaceCount() = %d, want 6", h.FaceCount())
	}
	if len(h.Edges()) != 24 {
		t.Errorf("len(Edges()) = %d, want 24", len(h.Edges()))
	}
	if len(h.UniqueEdges()) != 12 {
		t.Errorf("len(UniqueEdges()) = %d, want 12", len(h.UniqueEdges()))
	}
	for f := range h.Faces() {
		if n := h.FaceEdgeCount(FaceID(f)); n != 4 {
			t.Errorf("face %d has %d edges, want 4", f, n)
		}
	}
}

// =============================================================================
// Closure Tests
// =============================================================================

func TestClosure(t *testing.T) {
	box := mustBox(t, mgl64.Vec3{1, 1, 1})
	quad, err := NewQuad(5, 5)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		hull   *Hull
		closed bool
	}{
		{name: "box", hull: box, closed: true},
		{name: "quad", hull: quad, closed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.hull
			for id, e := range h.Edges() {
				count := h.FaceEdgeCount(e.Face)

				cursor := EdgeID(id)
				for step := 1; step <= count; step++ {
					cursor = h.Edge(cursor).Next
					if cursor == EdgeID(id) && step != count {
						t.Fatalf("edge %d returned after %d steps, face has %d edges", id, step, count)
					}
				}
				if cursor != EdgeID(id) {
					t.Fatalf("edge %d did not return after %d steps", id, count)
				}
				if h.Edge(e.Prev).Next != EdgeID(id) {
					t.Errorf("edge %d: prev.next != self", id)
				}

				if e.Twin == NoEdge {
					if tt.closed {
						t.Errorf("edge %d has no twin on a closed hull", id)
					}
					continue
				}
				if h.Edge(e.Twin).Twin != EdgeID(id) {
					t.Errorf("edge %d: twin.twin != self", id)
				}
			}
			if err := h.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestValidate_DetectsBrokenLinks(t *testing.T) {
	h := mustBox(t, mgl64.Vec3{1, 1, 1})
	h.edges[0].Prev = h.edges[0].Next

	if err := h.Validate(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Validate() error = %v, want ErrCorrupt", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(h *Hull)
		wantErr error
	}{
		{
			name:    "duplicate unique edge",
			corrupt: func(h *Hull) { h.uniqueEdges = append(h.uniqueEdges, h.uniqueEdges[0]) },
			wantErr: ErrCorrupt,
		},
		{
			name:    "twin listed as unique",
			corrupt: func(h *Hull) { h.uniqueEdges[1] = h.edges[h.uniqueEdges[0]].Twin },
			wantErr: ErrCorrupt,
		},
		{
			name:    "missing unique edge",
			corrupt: func(h *Hull) { h.uniqueEdges = h.uniqueEdges[1:] },
			wantErr: ErrCorrupt,
		},
		{
			name:    "unique edge out of range",
			corrupt: func(h *Hull) { h.uniqueEdges[0] = EdgeID(len(h.edges)) },
			wantErr: ErrCorrupt,
		},
		{
			name:    "NaN face normal",
			corrupt: func(h *Hull) { h.faces[2].Normal = mgl64.Vec3{math.NaN(), 0, 0} },
			wantErr: ErrNonFinite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := mustBox(t, mgl64.Vec3{1, 1, 1})
			tt.corrupt(h)

			if err := h.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NotFinalized(t *testing.T) {
	if err := New().Validate(); !errors.Is(err, ErrNotFinalized) {
		t.Errorf("Validate() error = %v, want ErrNotFinalized", err)
	}
}

func TestFinalize_Empty(t *testing.T) {
	h := New()
	h.AddVertex(mgl64.Vec3{})
	if err := h.Finalize(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Finalize() error = %v, want ErrEmpty", err)
	}
}

// =============================================================================
// Build Tests
// =============================================================================

func TestBuild_DerivesNormals(t *testing.T) {
	vertices, triangles := BoxMesh(mgl64.Vec3{1, 1, 1})
	for i := range triangles {
		triangles[i].Normal = mgl64.Vec3{}
	}

	h, err := Build(vertices, triangles)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if h.FaceCount() != 6 {
		t.Errorf("FaceCount() = %d, want 6", h.FaceCount())
	}
}

func TestBuild_InvalidIndex(t *testing.T) {
	vertices := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	triangles := []Triangle{{Indices: [3]int{0, 1, 5}}}

	h, err := Build(vertices, triangles)
	if !errors.Is(err, ErrInvalidVertex) {
		t.Errorf("Build() error = %v, want ErrInvalidVertex", err)
	}
	if h != nil {
		t.Error("Build() returned a hull on failure")
	}
}
