package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
)

// Neighborhood returns the snapshot agents that may lie within radius of pos,
// excluding the agent itself. Callers still filter by exact distance.
type Neighborhood interface {
	Query(dst []Agent, pos mgl32.Vec3, radius float32, self ecs.Entity) []Agent
}

// Scan is the exhaustive neighborhood: every agent is a candidate.
type Scan []Agent

// Query appends every agent except self.
func (s Scan) Query(dst []Agent, _ mgl32.Vec3, _ float32, self ecs.Entity) []Agent {
	for i := range s {
		if s[i].E == self {
			continue
		}
		dst = append(dst, s[i])
	}
	return dst
}

// SpatialGrid buckets a snapshot into square cells on the XZ plane.
// Queries visit only the cells overlapping the search square.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	minX     float32
	minZ     float32
	cells    [][]int32 // indices into agents
	agents   []Agent
}

// NewSpatialGrid creates a grid covering [-extent, extent] on both axes.
// Agents outside are clamped into the border cells.
func NewSpatialGrid(extent, cellSize float32) *SpatialGrid {
	cols := int(2*extent/cellSize) + 1
	cells := make([][]int32, cols*cols)
	for i := range cells {
		cells[i] = make([]int32, 0, 8)
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     cols,
		minX:     -extent,
		minZ:     -extent,
		cells:    cells,
	}
}

// Rebuild replaces the grid contents with a new snapshot.
func (g *SpatialGrid) Rebuild(agents []Agent) {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.agents = agents
	for i := range agents {
		c, r := g.cell(agents[i].Pos)
		idx := r*g.cols + c
		g.cells[idx] = append(g.cells[idx], int32(i))
	}
}

// Query appends candidates from every cell overlapping the search square.
// Results are in cell order, then snapshot order within a cell.
func (g *SpatialGrid) Query(dst []Agent, pos mgl32.Vec3, radius float32, self ecs.Entity) []Agent {
	c0, r0 := g.cell(mgl32.Vec3{pos.X() - radius, 0, pos.Z() - radius})
	c1, r1 := g.cell(mgl32.Vec3{pos.X() + radius, 0, pos.Z() + radius})
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			for _, i := range g.cells[r*g.cols+c] {
				a := &g.agents[i]
				if a.E == self {
					continue
				}
				dst = append(dst, *a)
			}
		}
	}
	return dst
}

// cell returns the clamped column and row for a position.
func (g *SpatialGrid) cell(pos mgl32.Vec3) (int, int) {
	col := int((pos.X() - g.minX) / g.cellSize)
	row := int((pos.Z() - g.minZ) / g.cellSize)
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}
