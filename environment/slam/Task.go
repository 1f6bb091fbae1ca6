package slam

import (
	"math"

	env "github.com/samuelfneumann/goslam/environment"
	ts "github.com/samuelfneumann/goslam/timestep"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// CollisionPenalty is added to the reward of any step whose
	// forward move collided
	CollisionPenalty float64 = -5.0

	// DiscoveryReward is the reward per newly discovered cell
	DiscoveryReward float64 = 1.0

	// StepPenalty is added to the reward of every step
	StepPenalty float64 = -0.1

	// CoverageThreshold is the belief coverage above which an episode
	// terminates. Termination requires strictly greater coverage.
	CoverageThreshold float64 = 0.95
)

// Explore is the active SLAM exploration task: the agent is rewarded
// for discovering unexplored cells, penalized for collisions and for
// wasted time, and the episode ends once belief coverage exceeds
// CoverageThreshold.
//
// An Explore must be Registered with the Slam environment it scores
// before the environment takes its first step. Whether a step collided
// is not recoverable from belief observations, so the task reads it
// from the environment; discovery counts and coverage are computed
// from the observations themselves.
type Explore struct {
	env       *Slam
	coverage  env.Ender
	stepLimit env.Ender

	registered bool
}

// NewExplore returns a new exploration task. The cutoff argument is
// the driver's per-episode step limit; 0 disables the limit so that
// episodes end on coverage alone.
func NewExplore(cutoff int) *Explore {
	e := &Explore{}
	e.coverage = env.NewFunctionEnder(func(obs *mat.VecDense) bool {
		return coverageOf(obs) > CoverageThreshold
	}, ts.TerminalStateReached)

	if cutoff > 0 {
		e.stepLimit = env.NewStepLimit(cutoff)
	}
	return e
}

// Register ties the task to the environment it scores
func (e *Explore) Register(s *Slam) {
	e.env = s
	e.registered = true
}

// Reward maps a single transition outcome to its scalar reward:
//
//	reward = (collided ? -5 : 0) + newlyDiscovered*1.0 - 0.1
//
// The per-step penalty always applies, regardless of outcome.
func (e *Explore) Reward(collided bool, newlyDiscovered int) float64 {
	reward := StepPenalty
	if collided {
		reward += CollisionPenalty
	}
	return reward + DiscoveryReward*float64(newlyDiscovered)
}

// GetReward returns the reward for the transition from state to
// nextState. The number of newly discovered cells is the growth in
// known cells between the two observations.
func (e *Explore) GetReward(state, _, nextState mat.Vector) float64 {
	collided := false
	if e.registered {
		collided = e.env.Collided()
	}
	return e.Reward(collided, knownCells(nextState)-knownCells(state))
}

// End determines whether the argument TimeStep ends the episode,
// marking it as the last step if so
func (e *Explore) End(t *ts.TimeStep) bool {
	if e.stepLimit != nil && e.stepLimit.End(t) {
		return true
	}
	return e.coverage.End(t)
}

// AtGoal returns whether the argument belief observation exceeds the
// coverage threshold
func (e *Explore) AtGoal(state mat.Matrix) bool {
	v, ok := state.(mat.Vector)
	if !ok {
		return false
	}
	return coverageOf(v) > CoverageThreshold
}

// Min returns the minimum attainable single-step reward
func (e *Explore) Min() float64 {
	return floats.Min([]float64{
		StepPenalty + CollisionPenalty,
		StepPenalty,
	})
}

// Max returns the maximum attainable single-step reward: discovering
// every cell but the starting one in a single scan
func (e *Explore) Max() float64 {
	if !e.registered {
		return math.Inf(1)
	}
	rows, cols := e.env.grid.Dims()
	return StepPenalty + DiscoveryReward*float64(rows*cols-1)
}

// knownCells counts the entries of a belief observation that are no
// longer Unknown
func knownCells(obs mat.Vector) int {
	known := 0
	for i := 0; i < obs.Len(); i++ {
		if obs.AtVec(i) != float64(Unknown) {
			known++
		}
	}
	return known
}

// coverageOf returns the fraction of known entries in a belief
// observation
func coverageOf(obs mat.Vector) float64 {
	return float64(knownCells(obs)) / float64(obs.Len())
}
