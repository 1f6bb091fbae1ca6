package tracker

import (
	ts "github.com/samuelfneumann/goslam/timestep"
)

// unknown is the observation encoding of an undiscovered belief cell
const unknown float64 = -1.0

// Coverage tracks and saves the final belief-map coverage of each
// episode in an active SLAM experiment. Coverage is computed from the
// belief observation itself: the fraction of entries no longer
// Unknown.
type Coverage struct {
	current   float64
	coverages []float64
	filename  string
}

// NewCoverage returns a new Coverage Tracker which saves its data at
// the specified location filename
func NewCoverage(filename string) *Coverage {
	return &Coverage{filename: filename}
}

// Track records the coverage of a timestep's belief observation,
// caching it as the episode's final coverage when the episode's last
// timestep is seen
func (c *Coverage) Track(step ts.TimeStep) {
	obs := step.Observation
	known := 0
	for i := 0; i < obs.Len(); i++ {
		if obs.AtVec(i) != unknown {
			known++
		}
	}
	c.current = float64(known) / float64(obs.Len())

	if step.Last() {
		c.coverages = append(c.coverages, c.current)
		c.current = 0.0
	}
}

// Coverages returns the final coverages of all completed episodes
// tracked so far
func (c *Coverage) Coverages() []float64 {
	return c.coverages
}

// Save saves the data tracked by the Coverage Tracker to disk
func (c *Coverage) Save() {
	saveData(c.filename, c.coverages)
}
