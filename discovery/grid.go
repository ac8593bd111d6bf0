package discovery

import (
	"math"

	"github.com/lixenwraith/planetz/world"
)

// CellKey addresses one cube of the grid
type CellKey struct {
	X, Y, Z int32
}

type gridEntry struct {
	cell CellKey
	pos  world.Vec3
}

// SpatialGrid is a sparse 3D hash grid for proximity queries
// Only occupied cells are stored; it accelerates scans and is never the
// authority for whether an entity exists
type SpatialGrid struct {
	cellSize float64
	cells    map[CellKey]map[string]struct{}
	entries  map[string]gridEntry
}

// NewSpatialGrid creates a grid of cubes with the given edge length (km)
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[CellKey]map[string]struct{}),
		entries:  make(map[string]gridEntry),
	}
}

// CellSize returns the cube edge length
func (g *SpatialGrid) CellSize() float64 {
	return g.cellSize
}

// CellOf returns the cell containing pos
func (g *SpatialGrid) CellOf(pos world.Vec3) CellKey {
	return CellKey{
		X: int32(math.Floor(pos[0] / g.cellSize)),
		Y: int32(math.Floor(pos[1] / g.cellSize)),
		Z: int32(math.Floor(pos[2] / g.cellSize)),
	}
}

// Add inserts id at pos, moving it if already present
// Non-finite positions are rejected
func (g *SpatialGrid) Add(id string, pos world.Vec3) bool {
	if !world.Finite(pos) {
		return false
	}
	cell := g.CellOf(pos)
	if prev, ok := g.entries[id]; ok {
		if prev.cell == cell {
			g.entries[id] = gridEntry{cell: cell, pos: pos}
			return true
		}
		g.unlink(id, prev.cell)
	}
	set, ok := g.cells[cell]
	if !ok {
		set = make(map[string]struct{})
		g.cells[cell] = set
	}
	set[id] = struct{}{}
	g.entries[id] = gridEntry{cell: cell, pos: pos}
	return true
}

// Remove deletes id; absent ids are ignored
func (g *SpatialGrid) Remove(id string) {
	if prev, ok := g.entries[id]; ok {
		g.unlink(id, prev.cell)
		delete(g.entries, id)
	}
}

func (g *SpatialGrid) unlink(id string, cell CellKey) {
	set := g.cells[cell]
	delete(set, id)
	if len(set) == 0 {
		delete(g.cells, cell)
	}
}

// Position returns the stored position of id
func (g *SpatialGrid) Position(id string) (world.Vec3, bool) {
	e, ok := g.entries[id]
	return e.pos, ok
}

// Neighborhood calls fn for every entity in the 3x3x3 block around pos
func (g *SpatialGrid) Neighborhood(pos world.Vec3, fn func(id string, pos world.Vec3)) {
	if !world.Finite(pos) {
		return
	}
	center := g.CellOf(pos)
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				key := CellKey{center.X + dx, center.Y + dy, center.Z + dz}
				for id := range g.cells[key] {
					fn(id, g.entries[id].pos)
				}
			}
		}
	}
}

// Len returns the number of tracked entities
func (g *SpatialGrid) Len() int {
	return len(g.entries)
}

// Cells returns the number of occupied cells
func (g *SpatialGrid) Cells() int {
	return len(g.cells)
}

// Clear removes every entity
func (g *SpatialGrid) Clear() {
	g.cells = make(map[CellKey]map[string]struct{})
	g.entries = make(map[string]gridEntry)
}

// Resize changes the cell size and re-buckets every entity
func (g *SpatialGrid) Resize(cellSize float64) {
	if cellSize <= 0 || cellSize == g.cellSize {
		return
	}
	entries := g.entries
	g.cellSize = cellSize
	g.Clear()
	for id, e := range entries {
		g.Add(id, e.pos)
	}
}
