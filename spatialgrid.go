package rigid

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/rigid/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	CELL_SIZE   = 3
	GRID_WIDTH  = 70 // cells along X
	GRID_HEIGHT = 50 // cells along Y
	GRID_DEPTH  = 70 // cells along Z

	// maxGridCells caps the allocation of a single grid.
	maxGridCells = 1 << 24
)

var (
	ErrInvalidGrid = errors.New("rigid: invalid grid configuration")
	ErrOutOfGrid   = errors.New("rigid: body lies outside the grid")
)

// GridConfig describes the world volume covered by a SpatialGrid: Cells[k]
// cells of CellSize along axis k, starting at Min.
type GridConfig struct {
	CellSize float64
	Cells    [3]int
	Min      mgl64.Vec3
}

// DefaultGridConfig is a 210 x 150 x 210 volume centered on the origin in X
// and Z, with the floor at y = 0.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		CellSize: CELL_SIZE,
		Cells:    [3]int{GRID_WIDTH, GRID_HEIGHT, GRID_DEPTH},
		Min: mgl64.Vec3{
			-GRID_WIDTH / 2 * CELL_SIZE,
			0,
			-GRID_DEPTH / 2 * CELL_SIZE,
		},
	}
}

// Max is the far corner of the grid volume.
func (cfg GridConfig) Max() mgl64.Vec3 {
	return mgl64.Vec3{
		cfg.Min.X() + float64(cfg.Cells[0])*cfg.CellSize,
		cfg.Min.Y() + float64(cfg.Cells[1])*cfg.CellSize,
		cfg.Min.Z() + float64(cfg.Cells[2])*cfg.CellSize,
	}
}

func (cfg GridConfig) validate() error {
	if !(cfg.CellSize > 0) || math.IsInf(cfg.CellSize, 0) {
		return fmt.Errorf("%w: cell size %v", ErrInvalidGrid, cfg.CellSize)
	}
	total := 1
	for k, n := range cfg.Cells {
		if n <= 0 {
			return fmt.Errorf("%w: %d cells on axis %d", ErrInvalidGrid, n, k)
		}
		if total > maxGridCells/n {
			return fmt.Errorf("%w: more than %d cells", ErrInvalidGrid, maxGridCells)
		}
		total *= n
	}
	for k := range 3 {
		if math.IsNaN(cfg.Min[k]) || math.IsInf(cfg.Min[k], 0) {
			return fmt.Errorf("%w: non-finite origin %v", ErrInvalidGrid, cfg.Min)
		}
	}
	return nil
}

// CellKey - integer coordinates of a cell
type CellKey struct {
	X, Y, Z int
}

// Cell holds the dynamic bodies inserted during the current tick and the
// static bodies inserted once for the lifetime of the grid.
type Cell struct {
	dynamics []*actor.RigidBody
	statics  []*actor.RigidBody
	occupied bool
}

// SpatialGrid is a uniform grid over a fixed world volume, used by the broad
// phase to limit the set of narrow phase tests.
type SpatialGrid struct {
	config GridConfig
	cells  []Cell
	// occupied lists the cells holding dynamic bodies, so Clear only visits
	// those.
	occupied []int

	// per-Check scratch
	seen       map[*actor.RigidBody]struct{}
	candidates []*actor.RigidBody
}

func NewSpatialGrid(config GridConfig) (*SpatialGrid, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &SpatialGrid{
		config:   config,
		cells:    make([]Cell, config.Cells[0]*config.Cells[1]*config.Cells[2]),
		occupied: make([]int, 0, 64),
		seen:     make(map[*actor.RigidBody]struct{}),
	}, nil
}

func (sg *SpatialGrid) Config() GridConfig {
	return sg.config
}

// MapPositionToIndices converts a world position to cell coordinates.
// Positions up to one cell outside the volume are clamped to the border
// cells; positions further out are rejected.
func (sg *SpatialGrid) MapPositionToIndices(position mgl64.Vec3) (CellKey, bool) {
	var indices [3]int
	for k := range 3 {
		index, ok := sg.mapAxis(position[k], k)
		if !ok {
			return CellKey{}, false
		}
		indices[k] = index
	}
	return CellKey{X: indices[0], Y: indices[1], Z: indices[2]}, true
}

func (sg *SpatialGrid) mapAxis(p float64, k int) (int, bool) {
	cellSize := sg.config.CellSize
	lo := sg.config.Min[k]
	hi := lo + float64(sg.config.Cells[k])*cellSize

	switch {
	case math.IsNaN(p), p < lo-cellSize, p > hi+cellSize:
		return 0, false
	case p < lo:
		return 0, true
	}

	index := int(math.Floor((p - lo) / cellSize))
	return min(index, sg.config.Cells[k]-1), true
}

// CellCenter returns the world position at the center of a cell.
func (sg *SpatialGrid) CellCenter(key CellKey) mgl64.Vec3 {
	half := sg.config.CellSize / 2
	return mgl64.Vec3{
		sg.config.Min.X() + float64(key.X)*sg.config.CellSize + half,
		sg.config.Min.Y() + float64(key.Y)*sg.config.CellSize + half,
		sg.config.Min.Z() + float64(key.Z)*sg.config.CellSize + half,
	}
}

func (sg *SpatialGrid) index(key CellKey) int {
	return (key.X*sg.config.Cells[1]+key.Y)*sg.config.Cells[2] + key.Z
}

// cellRange maps an AABB to the inclusive range of cells it overlaps.
func (sg *SpatialGrid) cellRange(aabb actor.AABB) (CellKey, CellKey, bool) {
	minKey, ok := sg.MapPositionToIndices(aabb.Min)
	if !ok {
		return CellKey{}, CellKey{}, false
	}
	maxKey, ok := sg.MapPositionToIndices(aabb.Max)
	if !ok {
		return CellKey{}, CellKey{}, false
	}
	return minKey, maxKey, true
}

func (sg *SpatialGrid) forEachCell(minKey, maxKey CellKey, fn func(cell *Cell, index int)) {
	for x := minKey.X; x <= maxKey.X; x++ {
		for y := minKey.Y; y <= maxKey.Y; y++ {
			for z := minKey.Z; z <= maxKey.Z; z++ {
				i := sg.index(CellKey{x, y, z})
				fn(&sg.cells[i], i)
			}
		}
	}
}

// InsertStatic adds a static body to every cell its AABB overlaps. Static
// membership is never cleared.
func (sg *SpatialGrid) InsertStatic(body *actor.RigidBody) error {
	minKey, maxKey, ok := sg.cellRange(body.AABB)
	if !ok {
		return fmt.Errorf("%w: %q spans %v", ErrOutOfGrid, body.Name, body.AABB)
	}

	sg.forEachCell(minKey, maxKey, func(cell *Cell, _ int) {
		cell.statics = append(cell.statics, body)
	})
	return nil
}

// RemoveStatic undoes InsertStatic.
func (sg *SpatialGrid) RemoveStatic(body *actor.RigidBody) {
	minKey, maxKey, ok := sg.cellRange(body.AABB)
	if !ok {
		return
	}

	sg.forEachCell(minKey, maxKey, func(cell *Cell, _ int) {
		for i, other := range cell.statics {
			if other == body {
				cell.statics = append(cell.statics[:i], cell.statics[i+1:]...)
				break
			}
		}
	})
}

// Check inserts a dynamic body into the cells covered by its AABB and returns
// the bodies already sharing one of them: every static body, and the dynamic
// bodies checked earlier in the tick. Each candidate appears once, in
// discovery order. The slice is reused by the next call.
//
// It returns false, without inserting anything, when the AABB leaves the grid.
func (sg *SpatialGrid) Check(body *actor.RigidBody) ([]*actor.RigidBody, bool) {
	minKey, maxKey, ok := sg.cellRange(body.AABB)
	if !ok {
		return nil, false
	}

	clear(sg.seen)
	sg.candidates = sg.candidates[:0]
	collect := func(other *actor.RigidBody) {
		if other == body {
			return
		}
		if _, dup := sg.seen[other]; dup {
			return
		}
		sg.seen[other] = struct{}{}
		sg.candidates = append(sg.candidates, other)
	}

	sg.forEachCell(minKey, maxKey, func(cell *Cell, index int) {
		for _, other := range cell.statics {
			collect(other)
		}
		for _, other := range cell.dynamics {
			collect(other)
		}

		cell.dynamics = append(cell.dynamics, body)
		if !cell.occupied {
			cell.occupied = true
			sg.occupied = append(sg.occupied, index)
		}
	})

	return sg.candidates, true
}

// Clear removes every dynamic body, visiting only the occupied cells.
func (sg *SpatialGrid) Clear() {
	for _, i := range sg.occupied {
		cell := &sg.cells[i]
		clear(cell.dynamics)
		cell.dynamics = cell.dynamics[:0]
		cell.occupied = false
	}
	sg.occupied = sg.occupied[:0]
}

// OccupiedCells is the number of cells currently holding dynamic bodies.
func (sg *SpatialGrid) OccupiedCells() int {
	return len(sg.occupied)
}
