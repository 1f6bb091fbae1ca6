package slam

import "fmt"

// Orientation is the agent's heading on the grid. The four headings
// are cyclically ordered so that turning left steps forward through
// the cycle East -> North -> West -> South and turning right steps
// backward through it.
type Orientation int

const (
	East Orientation = iota
	North
	West
	South
)

// orientations is the length of the heading cycle
const orientations = 4

// Delta returns the (row, col) displacement of one forward step along
// the heading
func (o Orientation) Delta() (dRow, dCol int) {
	switch o {
	case East:
		return 0, 1
	case North:
		return -1, 0
	case West:
		return 0, -1
	case South:
		return 1, 0
	}
	panic(fmt.Sprintf("delta: no such orientation %d", o))
}

func (o Orientation) String() string {
	switch o {
	case East:
		return "East"
	case North:
		return "North"
	case West:
		return "West"
	case South:
		return "South"
	default:
		return "InvalidOrientation"
	}
}

// Action is an action code accepted by Step
type Action int

const (
	Forward Action = iota
	TurnLeft
	TurnRight
)

// Actions is the number of available actions
const Actions = 3

func (a Action) String() string {
	switch a {
	case Forward:
		return "Forward"
	case TurnLeft:
		return "TurnLeft"
	case TurnRight:
		return "TurnRight"
	default:
		return "InvalidAction"
	}
}

// MoveResult is the outcome of a forward move attempt
type MoveResult struct {
	Moved    bool
	Collided bool
}

// Pose is the agent's position and heading. The position is always an
// in-bounds Empty cell of the ground-truth map.
type Pose struct {
	Row, Col int
	Facing   Orientation
}

// TurnLeft rotates the heading one step forward in the cycle
func (p *Pose) TurnLeft() {
	p.Facing = (p.Facing + 1) % orientations
}

// TurnRight rotates the heading one step backward in the cycle
func (p *Pose) TurnRight() {
	p.Facing = (p.Facing + orientations - 1) % orientations
}

// MoveForward advances the pose one cell along its heading if the
// target cell is free. Walls and off-grid cells both count as
// collisions and leave the pose unchanged. Only forward moves can
// collide; turns are always applied unconditionally.
func (p *Pose) MoveForward(g *GridMap) MoveResult {
	dRow, dCol := p.Facing.Delta()
	row, col := p.Row+dRow, p.Col+dCol

	if !g.InBounds(row, col) || g.IsWall(row, col) {
		return MoveResult{Collided: true}
	}

	p.Row, p.Col = row, col
	return MoveResult{Moved: true}
}
