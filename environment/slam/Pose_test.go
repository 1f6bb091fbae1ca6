package slam

import "testing"

func TestTurningIsCyclic(t *testing.T) {
	p := Pose{Row: 0, Col: 0, Facing: East}

	want := []Orientation{North, West, South, East}
	for i, w := range want {
		p.TurnLeft()
		if p.Facing != w {
			t.Errorf("turn left %d: got %v, want %v", i+1, p.Facing, w)
		}
	}

	want = []Orientation{South, West, North, East}
	for i, w := range want {
		p.TurnRight()
		if p.Facing != w {
			t.Errorf("turn right %d: got %v, want %v", i+1, p.Facing, w)
		}
	}

	// Opposite turns cancel
	p.TurnLeft()
	p.TurnRight()
	if p.Facing != East {
		t.Errorf("left then right: got %v, want %v", p.Facing, East)
	}
}

func TestTurningNeverMoves(t *testing.T) {
	p := Pose{Row: 3, Col: 7, Facing: South}
	p.TurnLeft()
	p.TurnRight()
	p.TurnRight()
	if p.Row != 3 || p.Col != 7 {
		t.Errorf("position changed to (%d, %d) by turning", p.Row, p.Col)
	}
}

func TestOrientationDelta(t *testing.T) {
	deltas := map[Orientation][2]int{
		East:  {0, 1},
		North: {-1, 0},
		West:  {0, -1},
		South: {1, 0},
	}
	for o, want := range deltas {
		dRow, dCol := o.Delta()
		if dRow != want[0] || dCol != want[1] {
			t.Errorf("%v delta: got (%d, %d), want (%d, %d)", o, dRow, dCol,
				want[0], want[1])
		}
	}
}

func TestMoveForward(t *testing.T) {
	g, err := NewGridMap([][]int{
		{0, 0, 1},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	p := Pose{Row: 0, Col: 0, Facing: East}
	res := p.MoveForward(g)
	if !res.Moved || res.Collided {
		t.Errorf("move into empty cell: got %+v", res)
	}
	if p.Row != 0 || p.Col != 1 {
		t.Errorf("pose after move: got (%d, %d), want (0, 1)", p.Row, p.Col)
	}

	// Into the wall at (0, 2)
	res = p.MoveForward(g)
	if res.Moved || !res.Collided {
		t.Errorf("move into wall: got %+v", res)
	}
	if p.Row != 0 || p.Col != 1 {
		t.Errorf("collision moved the pose to (%d, %d)", p.Row, p.Col)
	}
}

func TestMoveForwardOffGridCollides(t *testing.T) {
	g, err := NewGridMap([][]int{
		{0, 0},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	p := Pose{Row: 0, Col: 0, Facing: West}
	res := p.MoveForward(g)
	if !res.Collided {
		t.Errorf("move off the grid: got %+v, want a collision", res)
	}
	if p.Row != 0 || p.Col != 0 {
		t.Errorf("collision moved the pose to (%d, %d)", p.Row, p.Col)
	}
}
