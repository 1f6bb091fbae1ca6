// Package experiment implements functionality for running an experiment
package experiment

import (
	"github.com/samuelfneumann/goslam/experiment/tracker"
)

// Experiment outlines structs that can run experiments. Experiments
// send each environment TimeStep to their tracker.Trackers, which
// cache whatever data they are interested in; Save() then persists all
// cached data. Run() runs episodes until the experiment's total
// timestep budget is exhausted, and RunEpisode() runs a single
// episode.
type Experiment interface {
	Run() error

	// RunEpisode runs a single episode, returning whether the
	// experiment's timestep budget has been exhausted
	RunEpisode() (bool, error)

	// Save persists all tracked data
	Save()

	// Register adds a new tracker.Tracker to the (possibly already
	// running) experiment. Useful to track data only after a
	// specified event.
	Register(t tracker.Tracker)
}
