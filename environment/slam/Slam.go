// Package slam implements an active SLAM environment: a partially
// observable 2D grid world in which an agent with a simulated lidar
// incrementally builds a belief map of an unknown ground-truth layout.
//
// The environment is fully deterministic and synchronous. A single
// Slam value is not safe for concurrent use; callers must serialize
// access to it.
package slam

import (
	"fmt"

	env "github.com/samuelfneumann/goslam/environment"
	ts "github.com/samuelfneumann/goslam/timestep"
	"github.com/samuelfneumann/goslam/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// Slam is one reset-to-done episode machine. It owns the immutable
// ground-truth GridMap for its lifetime and recreates the BeliefMap
// and agent Pose on every Reset. Observations are the belief map
// flattened in row-major order, with cells encoded as Unknown = -1,
// Empty = 0, Wall = 1.
type Slam struct {
	env.Task
	grid    *GridMap
	belief  *BeliefMap
	pose    Pose
	lidar   *Lidar
	starter env.Starter

	discount    float64
	currentStep ts.TimeStep

	// Outcome of the most recent Step, read by the registered Task
	collided   bool
	discovered int
}

// New creates a new active SLAM environment on the argument
// ground-truth map and resets it, returning the first timestep. The
// agent starts on the first Empty cell of the map in row-major order,
// facing East. If t is an *Explore, it is registered with the new
// environment.
func New(t env.Task, g *GridMap, discount float64) (*Slam, ts.TimeStep,
	error) {
	return NewWithStarter(t, g, nil, discount)
}

// NewWithStarter is New with the default start-position rule replaced
// by a Starter returning (row, col) start cells, e.g. a
// RandomEmptyStarter.
func NewWithStarter(t env.Task, g *GridMap, s env.Starter,
	discount float64) (*Slam, ts.TimeStep, error) {
	slamEnv := &Slam{
		Task:     t,
		grid:     g,
		lidar:    NewLidar(g),
		starter:  s,
		discount: discount,
	}

	if task, ok := t.(*Explore); ok {
		task.Register(slamEnv)
	}

	step, err := slamEnv.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, err
	}

	return slamEnv, step, nil
}

// Reset begins a new episode: the belief map returns to all-Unknown,
// the agent is placed on its start cell facing East with the cell
// marked Empty in the belief, and an initial lidar scan is performed.
// Reset fails with ErrNoStartPosition if the map has no Empty cell; a
// failed Reset leaves the environment unchanged.
func (s *Slam) Reset() (ts.TimeStep, error) {
	rows, cols := s.grid.Dims()
	belief := NewBeliefMap(rows, cols)

	var pose Pose
	if s.starter != nil {
		start := s.starter.Start()
		pose = Pose{Row: int(start.AtVec(0)), Col: int(start.AtVec(1)),
			Facing: East}
		if !s.grid.InBounds(pose.Row, pose.Col) ||
			s.grid.IsWall(pose.Row, pose.Col) {
			return ts.TimeStep{}, fmt.Errorf("reset: starter returned "+
				"invalid start cell (%d, %d)", pose.Row, pose.Col)
		}
	} else {
		row, col, ok := s.grid.FirstEmpty()
		if !ok {
			return ts.TimeStep{}, ErrNoStartPosition
		}
		pose = Pose{Row: row, Col: col, Facing: East}
	}

	// The agent knows the cell it stands on before the first scan
	belief.Observe(pose.Row, pose.Col, Empty)
	lidar := NewLidar(s.grid)
	lidar.Scan(belief, pose.Row, pose.Col)

	s.belief = belief
	s.pose = pose
	s.collided = false
	s.discovered = 0

	step := ts.New(ts.First, 0, s.discount, belief.Vector(), 0)
	s.currentStep = step
	return step, nil
}

// Step takes one environmental step: a turn action rotates the agent
// in place, Forward attempts to advance it one cell (colliding on
// walls and map edges), and in either case the lidar rescans from the
// resulting position before the transition is scored by the Task.
//
// Step returns ErrStepAfterDone if the episode has terminated and a
// *InvalidActionError for actions outside {0, 1, 2}; a failed Step
// leaves the environment unchanged.
func (s *Slam) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if s.currentStep.Last() {
		return ts.TimeStep{}, false, ErrStepAfterDone
	}
	if action.Len() != 1 {
		return ts.TimeStep{}, false, fmt.Errorf("step: actions must be "+
			"1-dimensional, got %d dimensions", action.Len())
	}

	a := action.AtVec(0)
	code := int(a)
	if float64(code) != a || code < int(Forward) || code > int(TurnRight) {
		return ts.TimeStep{}, false, &InvalidActionError{Action: a}
	}

	s.collided = false
	switch Action(code) {
	case TurnLeft:
		s.pose.TurnLeft()
	case TurnRight:
		s.pose.TurnRight()
	case Forward:
		s.collided = s.pose.MoveForward(s.grid).Collided
	}

	s.discovered = s.lidar.Scan(s.belief, s.pose.Row, s.pose.Col)

	nextObs := s.belief.Vector()
	reward := s.GetReward(s.currentStep.Observation, action, nextObs)
	nextStep := ts.New(ts.Mid, reward, s.discount, nextObs,
		s.currentStep.Number+1)
	last := s.End(&nextStep)

	s.currentStep = nextStep
	return nextStep, last, nil
}

// CurrentTimeStep returns the last TimeStep of the environment
func (s *Slam) CurrentTimeStep() ts.TimeStep {
	return s.currentStep
}

// Pose returns the agent's current position and heading
func (s *Slam) Pose() Pose {
	return s.pose
}

// Collided reports whether the most recent Step collided
func (s *Slam) Collided() bool {
	return s.collided
}

// Discovered returns the number of cells newly discovered by the most
// recent Step's scan
func (s *Slam) Discovered() int {
	return s.discovered
}

// Coverage returns the fraction of belief cells no longer Unknown
func (s *Slam) Coverage() float64 {
	return s.belief.Coverage()
}

// BeliefSnapshot returns a copy of the current belief grid for
// rendering collaborators
func (s *Slam) BeliefSnapshot() [][]Cell {
	return s.belief.Snapshot()
}

// ActionSpec returns the action specification of the environment
func (s *Slam) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{float64(Forward)})
	upperBound := mat.NewVecDense(1, []float64{float64(Actions - 1)})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (s *Slam) ObservationSpec() env.Spec {
	rows, cols := s.grid.Dims()
	shape := mat.NewVecDense(rows*cols, nil)
	lowerBound := constantVec(rows*cols, float64(Unknown))
	upperBound := constantVec(rows*cols, float64(Wall))

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Discrete)
}

// DiscountSpec returns the discounting specification of the
// environment
func (s *Slam) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{s.discount})

	return env.NewSpec(shape, env.Discount, bound, bound, env.Discrete)
}

// RewardSpec returns the reward specification of the environment
func (s *Slam) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{s.Min()})
	upperBound := mat.NewVecDense(1, []float64{s.Max()})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Discrete)
}

func (s *Slam) String() string {
	str := "SLAM | At: (%d, %d)  |  Facing: %v  |  Coverage: %.2f\n%v"
	return fmt.Sprintf(str, s.pose.Row, s.pose.Col, s.pose.Facing,
		s.Coverage(), matutils.Format(s.belief.Matrix()))
}

// constantVec returns a length-n vector with every element set to v
func constantVec(n int, v float64) *mat.VecDense {
	data := make([]float64, n)
	for i := range data {
		data[i] = v
	}
	return mat.NewVecDense(n, data)
}
