package slam

import "testing"

// openRoom returns the ground truth of a 5x5 walled room with a 3x3
// empty interior
func openRoom(t *testing.T) *GridMap {
	t.Helper()
	g, err := NewGridMap([][]int{
		{1, 1, 1, 1, 1},
		{1, 0, 0, 0, 1},
		{1, 0, 0, 0, 1},
		{1, 0, 0, 0, 1},
		{1, 1, 1, 1, 1},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return g
}

func TestScanOpenRoom(t *testing.T) {
	g := openRoom(t)
	b := NewBeliefMap(g.Dims())

	n := NewLidar(g).Scan(b, 1, 1)
	if n != 14 {
		t.Errorf("discovered: got %d, want 14", n)
	}

	U, E, W := Unknown, Empty, Wall
	want := [][]Cell{
		{W, W, W, U, U},
		{W, U, E, E, W},
		{W, E, E, U, U},
		{U, E, U, E, U},
		{U, W, U, U, W},
	}
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			if got := b.StatusAt(row, col); got != want[row][col] {
				t.Errorf("belief (%d, %d): got %v, want %v", row, col, got,
					want[row][col])
			}
		}
	}

	// The scan origin is not observed by the rays themselves
	if b.StatusAt(1, 1) != Unknown {
		t.Errorf("scan origin: got %v, want %v", b.StatusAt(1, 1), Unknown)
	}

	// Rescanning from the same position discovers nothing new
	if n := NewLidar(g).Scan(b, 1, 1); n != 0 {
		t.Errorf("rescan discovered %d cells, want 0", n)
	}
}

func TestScanWallsOcclude(t *testing.T) {
	g, err := NewGridMap([][]int{
		{0, 0, 1, 0},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	b := NewBeliefMap(g.Dims())
	n := NewLidar(g).Scan(b, 0, 0)

	// The eastward ray records (0, 1) and the wall at (0, 2), then
	// stops; (0, 3) stays hidden behind the wall.
	if n != 2 {
		t.Errorf("discovered: got %d, want 2", n)
	}
	if b.StatusAt(0, 1) != Empty || b.StatusAt(0, 2) != Wall {
		t.Error("eastward ray recorded the wrong cells")
	}
	if b.StatusAt(0, 3) != Unknown {
		t.Errorf("cell behind a wall: got %v, want %v", b.StatusAt(0, 3),
			Unknown)
	}
}

func TestScanDiagonalSkipsOrthogonalNeighbours(t *testing.T) {
	// Walls at (0, 1) and (1, 0) do not block the diagonal ray to
	// (0, 0): diagonal rays only traverse full diagonal steps.
	g, err := NewGridMap([][]int{
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, 0},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	b := NewBeliefMap(g.Dims())
	NewLidar(g).Scan(b, 1, 1)

	if b.StatusAt(0, 0) != Empty {
		t.Errorf("diagonal cell: got %v, want %v", b.StatusAt(0, 0), Empty)
	}
}
