// Package random implements an agent that selects actions uniformly
// at random from a discrete action specification
package random

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goslam/agent"
	"github.com/samuelfneumann/goslam/environment"
	ts "github.com/samuelfneumann/goslam/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Random selects actions uniformly at random from a discrete,
// 1-dimensional action space. It never learns; it exists to drive
// environments with arbitrary valid actions.
type Random struct {
	dist   distuv.Categorical
	offset float64
	seed   uint64
}

// New returns a new Random agent acting in e, sampling with the given
// random seed
func New(e environment.Environment, seed uint64) (agent.Agent, error) {
	spec := e.ActionSpec()
	if spec.Cardinality != environment.Discrete {
		return nil, fmt.Errorf("new: random agents act in discrete action "+
			"spaces only, got %v", spec.Cardinality)
	}
	if spec.Shape.Len() != 1 {
		return nil, fmt.Errorf("new: random agents act in 1-dimensional "+
			"action spaces only, got %d dimensions", spec.Shape.Len())
	}

	lower := spec.LowerBound.AtVec(0)
	upper := spec.UpperBound.AtVec(0)
	actions := int(upper-lower) + 1

	weights := make([]float64, actions)
	for i := range weights {
		weights[i] = 1.0 / float64(actions)
	}

	source := rand.NewSource(seed)
	return &Random{
		dist:   distuv.NewCategorical(weights, source),
		offset: lower,
		seed:   seed,
	}, nil
}

// SelectAction returns a uniformly random action
func (r *Random) SelectAction(_ ts.TimeStep) *mat.VecDense {
	return mat.NewVecDense(1, []float64{r.offset + r.dist.Rand()})
}

// ObserveFirst records the first timestep in an episode
func (r *Random) ObserveFirst(_ ts.TimeStep) error { return nil }

// Observe records that an action lead to some timestep
func (r *Random) Observe(_ mat.Vector, _ ts.TimeStep) error { return nil }

// Step performs a single update to the learner. Random agents never
// learn.
func (r *Random) Step() error { return nil }

// EndEpisode performs cleanup at the end of an episode
func (r *Random) EndEpisode() {}
