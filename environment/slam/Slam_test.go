package slam

import (
	"errors"
	"math"
	"testing"

	ts "github.com/samuelfneumann/goslam/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func newOpenRoomEnv(t *testing.T, cutoff int) (*Slam, ts.TimeStep) {
	t.Helper()
	e, step, err := New(NewExplore(cutoff), openRoom(t), 1.0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return e, step
}

func act(a Action) *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(a)})
}

const tolerance = 1e-9

func TestReset(t *testing.T) {
	e, step := newOpenRoomEnv(t, 0)

	if !step.First() {
		t.Errorf("first timestep type: got %v, want %v", step.StepType,
			ts.First)
	}
	if step.Number != 0 {
		t.Errorf("first timestep number: got %d, want 0", step.Number)
	}

	p := e.Pose()
	if p.Row != 1 || p.Col != 1 || p.Facing != East {
		t.Errorf("start pose: got %+v, want (1, 1) facing East", p)
	}

	// Start cell plus the 14 cells visible from it
	if e.Coverage() != 0.6 {
		t.Errorf("coverage after reset: got %v, want 0.6", e.Coverage())
	}

	U, E, W := Unknown, Empty, Wall
	want := [][]Cell{
		{W, W, W, U, U},
		{W, E, E, E, W},
		{W, E, E, U, U},
		{U, E, U, E, U},
		{U, W, U, U, W},
	}
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			got := Cell(step.Observation.AtVec(row*5 + col))
			if got != want[row][col] {
				t.Errorf("observation (%d, %d): got %v, want %v", row, col,
					got, want[row][col])
			}
		}
	}
}

// TestStepTrajectory walks the open room east from its start cell and
// checks every transition: two forward steps see the whole room, after
// which the episode is over and stepping fails until the next reset.
func TestStepTrajectory(t *testing.T) {
	e, _ := newOpenRoomEnv(t, 0)

	// Forward to (1, 2): the scan uncovers 6 cells
	step, last, err := e.Step(act(Forward))
	if err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if last || step.Last() {
		t.Fatal("step 1 should not end the episode")
	}
	if step.Number != 1 {
		t.Errorf("step 1 number: got %d, want 1", step.Number)
	}
	if math.Abs(step.Reward-5.9) > tolerance {
		t.Errorf("step 1 reward: got %v, want 5.9", step.Reward)
	}
	if e.Coverage() != 0.84 {
		t.Errorf("step 1 coverage: got %v, want 0.84", e.Coverage())
	}
	if e.Discovered() != 6 {
		t.Errorf("step 1 discovered: got %d, want 6", e.Discovered())
	}

	// Forward to (1, 3): the remaining 4 cells become visible and the
	// coverage threshold is passed
	step, last, err = e.Step(act(Forward))
	if err != nil {
		t.Fatalf("step 2: %v", err)
	}
	if !last || !step.Last() {
		t.Fatal("step 2 should end the episode")
	}
	if step.End() != ts.TerminalStateReached {
		t.Errorf("end type: got %v, want %v", step.End(),
			ts.TerminalStateReached)
	}
	if math.Abs(step.Reward-3.9) > tolerance {
		t.Errorf("step 2 reward: got %v, want 3.9", step.Reward)
	}
	if e.Coverage() != 1.0 {
		t.Errorf("step 2 coverage: got %v, want 1", e.Coverage())
	}
	if !e.AtGoal(step.Observation) {
		t.Error("fully covered belief should be at goal")
	}

	// The episode is over
	if _, _, err := e.Step(act(Forward)); !errors.Is(err,
		ErrStepAfterDone) {
		t.Errorf("step after done: got %v, want %v", err, ErrStepAfterDone)
	}

	// Reset starts a fresh episode
	step, err = e.Reset()
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !step.First() || e.Coverage() != 0.6 {
		t.Error("reset did not restore the initial episode state")
	}
	if _, _, err := e.Step(act(Forward)); err != nil {
		t.Errorf("step after reset: %v", err)
	}
}

func TestStepCollision(t *testing.T) {
	e, _ := newOpenRoomEnv(t, 0)

	// Face the wall at (1, 0)
	for i := 0; i < 2; i++ {
		step, _, err := e.Step(act(TurnLeft))
		if err != nil {
			t.Fatalf("turn %d: %v", i+1, err)
		}
		// Turning in place reveals nothing, costing only the step
		// penalty
		if step.Reward != StepPenalty {
			t.Errorf("turn %d reward: got %v, want %v", i+1, step.Reward,
				StepPenalty)
		}
		if e.Collided() {
			t.Errorf("turn %d reported a collision", i+1)
		}
	}
	if e.Pose().Facing != West {
		t.Fatalf("facing: got %v, want %v", e.Pose().Facing, West)
	}

	step, _, err := e.Step(act(Forward))
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if !e.Collided() {
		t.Error("forward into a wall should collide")
	}
	if p := e.Pose(); p.Row != 1 || p.Col != 1 {
		t.Errorf("collision moved the agent to (%d, %d)", p.Row, p.Col)
	}
	if want := StepPenalty + CollisionPenalty; math.Abs(step.Reward-
		want) > tolerance {
		t.Errorf("collision reward: got %v, want %v", step.Reward, want)
	}
}

func TestStepInvalidAction(t *testing.T) {
	e, first := newOpenRoomEnv(t, 0)

	for _, a := range []float64{99, -1, 0.5} {
		_, _, err := e.Step(mat.NewVecDense(1, []float64{a}))

		var actionErr *InvalidActionError
		if !errors.As(err, &actionErr) {
			t.Fatalf("action %v: expected *InvalidActionError, got %v", a,
				err)
		}
		if actionErr.Action != a {
			t.Errorf("error action: got %v, want %v", actionErr.Action, a)
		}

		// A rejected action must leave the episode untouched
		if p := e.Pose(); p.Row != 1 || p.Col != 1 || p.Facing != East {
			t.Errorf("action %v changed the pose to %+v", a, p)
		}
		cur := e.CurrentTimeStep()
		if cur.Number != 0 || !mat.Equal(cur.Observation,
			first.Observation) {
			t.Errorf("action %v changed the current timestep", a)
		}
	}
}

func TestStepActionDimensions(t *testing.T) {
	e, _ := newOpenRoomEnv(t, 0)
	if _, _, err := e.Step(mat.NewVecDense(2, []float64{0, 0})); err == nil {
		t.Error("expected an error for a 2-dimensional action")
	}
}

func TestEpisodeEndsWhenFullyCoveredAtReset(t *testing.T) {
	g, err := NewGridMap([][]int{
		{0, 0, 0},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	e, step, err := New(NewExplore(0), g, 1.0)
	if err != nil {
		t.Fatalf("new env: %v", err)
	}

	// The first scan already sees the whole corridor, but termination
	// is only evaluated on Step
	if e.Coverage() != 1.0 {
		t.Fatalf("coverage after reset: got %v, want 1", e.Coverage())
	}
	if step.Last() {
		t.Error("reset should never return a final timestep")
	}

	step, last, err := e.Step(act(TurnLeft))
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !last || step.End() != ts.TerminalStateReached {
		t.Errorf("got (%v, %v), want a terminal step", step.End(), last)
	}
}

func TestStepCutoffTruncates(t *testing.T) {
	e, _ := newOpenRoomEnv(t, 3)

	// Spin in place so coverage never grows past the reset scan
	for i := 0; i < 2; i++ {
		if _, last, err := e.Step(act(TurnLeft)); err != nil || last {
			t.Fatalf("step %d: got (%v, %v)", i+1, last, err)
		}
	}

	step, last, err := e.Step(act(TurnLeft))
	if err != nil {
		t.Fatalf("step 3: %v", err)
	}
	if !last || step.End() != ts.Timeout {
		t.Errorf("step 3: got (%v, %v), want a timeout", step.End(), last)
	}
}

func TestNoStartPosition(t *testing.T) {
	g, err := NewGridMap([][]int{
		{1, 1},
		{1, 1},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, _, err := New(NewExplore(0), g, 1.0); !errors.Is(err,
		ErrNoStartPosition) {
		t.Errorf("got %v, want %v", err, ErrNoStartPosition)
	}
}

// TestDiscoveryIsMonotonic drives a larger map with random actions and
// checks that known cells never become Unknown again and that coverage
// never decreases.
func TestDiscoveryIsMonotonic(t *testing.T) {
	g, err := NewGridMap([][]int{
		{1, 1, 1, 1, 1, 1, 1},
		{1, 0, 0, 0, 1, 0, 1},
		{1, 0, 1, 0, 0, 0, 1},
		{1, 0, 1, 1, 1, 0, 1},
		{1, 0, 0, 0, 0, 0, 1},
		{1, 1, 1, 1, 1, 1, 1},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	e, step, err := New(NewExplore(0), g, 1.0)
	if err != nil {
		t.Fatalf("new env: %v", err)
	}

	rng := rand.New(rand.NewSource(13))
	prev := step.Observation
	prevCoverage := e.Coverage()

	for i := 0; i < 200; i++ {
		a := act(Action(rng.Intn(Actions)))
		step, last, err := e.Step(a)
		if err != nil {
			t.Fatalf("step %d: %v", i+1, err)
		}

		for j := 0; j < prev.Len(); j++ {
			if prev.AtVec(j) != float64(Unknown) &&
				step.Observation.AtVec(j) != prev.AtVec(j) {
				t.Fatalf("step %d: known cell %d changed from %v to %v",
					i+1, j, prev.AtVec(j), step.Observation.AtVec(j))
			}
		}
		if e.Coverage() < prevCoverage {
			t.Fatalf("step %d: coverage fell from %v to %v", i+1,
				prevCoverage, e.Coverage())
		}

		prev = step.Observation
		prevCoverage = e.Coverage()
		if last {
			break
		}
	}
}

func TestSpecs(t *testing.T) {
	e, _ := newOpenRoomEnv(t, 0)

	actionSpec := e.ActionSpec()
	if actionSpec.Shape.Len() != 1 {
		t.Errorf("action shape: got %d, want 1", actionSpec.Shape.Len())
	}
	if actionSpec.LowerBound.AtVec(0) != 0 ||
		actionSpec.UpperBound.AtVec(0) != 2 {
		t.Errorf("action bounds: got [%v, %v], want [0, 2]",
			actionSpec.LowerBound.AtVec(0), actionSpec.UpperBound.AtVec(0))
	}

	obsSpec := e.ObservationSpec()
	if obsSpec.Shape.Len() != 25 {
		t.Errorf("observation shape: got %d, want 25", obsSpec.Shape.Len())
	}
	if obsSpec.LowerBound.AtVec(0) != float64(Unknown) ||
		obsSpec.UpperBound.AtVec(0) != float64(Wall) {
		t.Errorf("observation bounds: got [%v, %v], want [-1, 1]",
			obsSpec.LowerBound.AtVec(0), obsSpec.UpperBound.AtVec(0))
	}
}
