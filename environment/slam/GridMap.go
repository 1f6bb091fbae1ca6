package slam

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// GridMap is the immutable ground-truth layout of a world: a
// rectangular grid of Empty and Wall cells, fixed at construction.
type GridMap struct {
	cells []Cell
	rows  int
	cols  int
}

// NewGridMap constructs a ground-truth map from a rectangular matrix
// of 0/1 integers (0 = Empty, 1 = Wall). A *MapLoadError is returned
// if the matrix is empty, has rows of unequal length, or contains a
// value outside {0, 1}.
func NewGridMap(values [][]int) (*GridMap, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, &MapLoadError{Row: -1, Reason: "map is empty"}
	}

	cols := len(values[0])
	cells := make([]Cell, 0, len(values)*cols)
	for i, row := range values {
		if len(row) != cols {
			return nil, &MapLoadError{
				Row: i,
				Reason: fmt.Sprintf("row has %d cells, want %d", len(row),
					cols),
			}
		}
		for _, v := range row {
			if v != int(Empty) && v != int(Wall) {
				return nil, &MapLoadError{
					Row:    i,
					Reason: fmt.Sprintf("cell value %d outside {0, 1}", v),
				}
			}
			cells = append(cells, Cell(v))
		}
	}

	return &GridMap{cells: cells, rows: len(values), cols: cols}, nil
}

// LoadGridMap reads a ground-truth map from a text file holding a
// whitespace-delimited rectangular matrix of 0/1 integers, one map row
// per line. Blank lines are ignored.
func LoadGridMap(path string) (*GridMap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &MapLoadError{Row: -1, Reason: err.Error()}
	}
	defer file.Close()

	var values [][]int
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		row := make([]int, len(fields))
		for j, field := range fields {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, &MapLoadError{
					Row:    len(values),
					Reason: fmt.Sprintf("cell %d: bad value %q", j, field),
				}
			}
			row[j] = v
		}
		values = append(values, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, &MapLoadError{Row: -1, Reason: err.Error()}
	}

	return NewGridMap(values)
}

// Dims returns the number of rows and columns in the map
func (g *GridMap) Dims() (rows, cols int) {
	return g.rows, g.cols
}

// InBounds returns whether (row, col) lies on the map
func (g *GridMap) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// At returns the true kind of the cell at (row, col)
func (g *GridMap) At(row, col int) Cell {
	if !g.InBounds(row, col) {
		panic(fmt.Sprintf("at: position (%d, %d) out of bounds for map of "+
			"size (%d, %d)", row, col, g.rows, g.cols))
	}
	return g.cells[row*g.cols+col]
}

// IsWall returns whether the cell at (row, col) is a wall
func (g *GridMap) IsWall(row, col int) bool {
	return g.At(row, col) == Wall
}

// FirstEmpty returns the first Empty cell in row-major order, or
// ok = false if the map contains none.
func (g *GridMap) FirstEmpty() (row, col int, ok bool) {
	for i, c := range g.cells {
		if c == Empty {
			return i / g.cols, i % g.cols, true
		}
	}
	return 0, 0, false
}
