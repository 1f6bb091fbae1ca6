package experiment

import (
	"time"

	"github.com/samuelfneumann/goslam/agent"
	env "github.com/samuelfneumann/goslam/environment"
	"github.com/samuelfneumann/goslam/experiment/tracker"
	ts "github.com/samuelfneumann/goslam/timestep"
	"github.com/samuelfneumann/goslam/utils/progressbar"
)

// ProgressBarWidth is the character width of the progress bar printed
// by Run
const ProgressBarWidth int = 65

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps     uint
	currentSteps uint
	trackers     []tracker.Tracker
	pbar         *progressbar.ProgressBar
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines the
// experiment's total timestep budget across all episodes, and the t
// parameter lists the tracker.Trackers which determine what data is
// saved.
func NewOnline(e env.Environment, a agent.Agent, steps uint,
	t ...tracker.Tracker) *Online {
	return &Online{
		Environment: e,
		Agent:       a,
		maxSteps:    steps,
		trackers:    t,
	}
}

// Register registers a tracker.Tracker with the Experiment so that
// data generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode of the experiment, returning
// whether or not the experiment's timestep budget has been exhausted
func (o *Online) RunEpisode() (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return false, err
	}
	if err := o.Agent.ObserveFirst(step); err != nil {
		return false, err
	}
	o.track(step)

	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, err
		}

		// Cache the environment step in each Tracker
		o.track(step)

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return false, err
		}
		if err := o.Agent.Step(); err != nil {
			return false, err
		}

		if o.pbar != nil {
			o.pbar.Increment()
		}
	}
	o.Agent.EndEpisode()

	// Return whether or not the max timestep limit has been reached
	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps, displaying a
// progress bar over the experiment's timestep budget
func (o *Online) Run() error {
	o.pbar = progressbar.New(ProgressBarWidth, int(o.maxSteps), time.Second)
	o.pbar.Display()
	defer func() {
		o.pbar.Close()
		o.pbar = nil
	}()

	for {
		ended, err := o.RunEpisode()
		if err != nil {
			return err
		}
		if ended {
			return nil
		}
	}
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() {
	for _, t := range o.trackers {
		t.Save()
	}
}

// track tracks the current timestep by caching its data in each
// tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}
