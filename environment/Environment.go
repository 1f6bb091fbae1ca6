// Package environment outlines the interfaces and structs needed to implement
// concrete environments
package environment

import (
	"github.com/samuelfneumann/goslam/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when and how episodes end. An Ender modifies the
// argument TimeStep so that its StepType field is timestep.Last and its
// EndType records why the episode ended.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some environment
// as well as the termination condition of episodes
type Task interface {
	// GetReward returns the reward for a transition from state to
	// nextState under action
	GetReward(state, action, nextState mat.Vector) float64

	// End determines whether the argument TimeStep is the last in the
	// episode, adjusting it in place if so
	End(*timestep.TimeStep) bool

	// AtGoal returns whether the argument state satisfies the Task's
	// goal condition
	AtGoal(state mat.Matrix) bool

	// Min and Max return the minimum and maximum attainable rewards
	Min() float64
	Max() float64
}

// Environment implements a simulated environment, which includes a Task to
// complete
type Environment interface {
	Task

	// Reset resets the environment between episodes, returning the
	// first TimeStep of the new episode
	Reset() (timestep.TimeStep, error)

	// Step takes one environmental step given some action, returning
	// the next TimeStep and whether it is the last in the episode
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	// CurrentTimeStep returns the last TimeStep of the environment
	CurrentTimeStep() timestep.TimeStep

	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
