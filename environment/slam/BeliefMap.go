package slam

import "gonum.org/v1/gonum/mat"

// BeliefMap is the mutable map of the world the agent builds as it
// explores. Every cell starts Unknown; once a cell is observed it
// keeps its observed kind for the rest of the episode.
type BeliefMap struct {
	cells []Cell
	rows  int
	cols  int
	known int
}

// NewBeliefMap returns an all-Unknown belief map of the given size
func NewBeliefMap(rows, cols int) *BeliefMap {
	cells := make([]Cell, rows*cols)
	for i := range cells {
		cells[i] = Unknown
	}
	return &BeliefMap{cells: cells, rows: rows, cols: cols}
}

// Dims returns the number of rows and columns in the belief map
func (b *BeliefMap) Dims() (rows, cols int) {
	return b.rows, b.cols
}

// StatusAt returns the believed kind of the cell at (row, col)
func (b *BeliefMap) StatusAt(row, col int) Cell {
	return b.cells[row*b.cols+col]
}

// Observe records the true kind of the cell at (row, col), returning
// whether the cell was newly discovered. Observing an already-known
// cell is a no-op: discovery is monotonic and never revised.
func (b *BeliefMap) Observe(row, col int, truth Cell) bool {
	i := row*b.cols + col
	if b.cells[i] != Unknown {
		return false
	}
	b.cells[i] = truth
	b.known++
	return true
}

// Coverage returns the fraction of cells no longer Unknown
func (b *BeliefMap) Coverage() float64 {
	return float64(b.known) / float64(b.rows*b.cols)
}

// Snapshot returns a copy of the belief grid. Mutating the returned
// grid does not affect the belief map.
func (b *BeliefMap) Snapshot() [][]Cell {
	grid := make([][]Cell, b.rows)
	for i := range grid {
		grid[i] = make([]Cell, b.cols)
		copy(grid[i], b.cells[i*b.cols:(i+1)*b.cols])
	}
	return grid
}

// Vector returns the belief map flattened in row-major order as a new
// observation vector
func (b *BeliefMap) Vector() *mat.VecDense {
	obs := make([]float64, len(b.cells))
	for i, c := range b.cells {
		obs[i] = float64(c)
	}
	return mat.NewVecDense(len(obs), obs)
}

// Matrix returns the belief map as a new (rows x cols) matrix
func (b *BeliefMap) Matrix() *mat.Dense {
	data := make([]float64, len(b.cells))
	for i, c := range b.cells {
		data[i] = float64(c)
	}
	return mat.NewDense(b.rows, b.cols, data)
}
