// sim/status.go
package sim

// Status is the feeder operating mode, set by a controller before each step.
type Status string

const (
	StatusGrowth  Status = "growth"
	StatusRestart Status = "restart" // transient: resets the cursor, then behaves as growth
	StatusStarve  Status = "starve"
	StatusHarvest Status = "harvest"
	StatusStop    Status = "stop"
)

// StatusTransition is the outcome of entering a step with a given status.
type StatusTransition struct {
	Effective   Status // status the step runs with and leaves behind
	ResetCursor bool   // cursor goes back to 0 before the step
	Feeding     bool   // step computes feed from the growth curve
}

// transitions is exhaustive over the valid statuses.
var transitions = map[Status]StatusTransition{
	StatusGrowth:  {Effective: StatusGrowth, Feeding: true},
	StatusRestart: {Effective: StatusGrowth, ResetCursor: true, Feeding: true},
	StatusStarve:  {Effective: StatusStarve},
	StatusHarvest: {Effective: StatusHarvest},
	StatusStop:    {Effective: StatusStop},
}

// Transition resolves the status a step is entered with.
func Transition(s Status) (StatusTransition, error) {
	tr, ok := transitions[s]
	if !ok {
		return StatusTransition{}, configErrorf("unknown feeder status %q; valid: growth, restart, starve, harvest, stop", s)
	}
	return tr, nil
}

// IsValidStatus reports whether name is a recognized feeder status.
func IsValidStatus(name string) bool {
	_, ok := transitions[Status(name)]
	return ok
}
