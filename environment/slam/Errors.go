package slam

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStartPosition is returned by Reset when the ground-truth
	// map contains no empty cell to place the agent on.
	ErrNoStartPosition = errors.New("reset: map contains no empty cell")

	// ErrStepAfterDone is returned by Step when the episode has
	// already terminated. The environment must be Reset before it can
	// be stepped again.
	ErrStepAfterDone = errors.New("step: episode has terminated, Reset " +
		"the environment before stepping")
)

// MapLoadError describes why a ground-truth map could not be
// constructed from its source. Row is the offending row of the map
// source, or -1 when the error is not tied to a single row.
type MapLoadError struct {
	Row    int
	Reason string
}

func (e *MapLoadError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("load map: %v", e.Reason)
	}
	return fmt.Sprintf("load map: row %d: %v", e.Row, e.Reason)
}

// InvalidActionError is returned by Step for any action outside the
// environment's discrete action set. The environment is left
// untouched, so the caller may correct the action and step again.
type InvalidActionError struct {
	Action float64
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("step: invalid action %v, expected an integer in "+
		"[%d, %d]", e.Action, int(Forward), int(TurnRight))
}
