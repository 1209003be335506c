// sim/control.go
package sim

import (
	"math"
)

// PhaseDurations are the lengths (hours) of the phases of one fish
// production cycle. A zero-length phase is skipped.
type PhaseDurations struct {
	Growth  float64
	Starve  float64
	Harvest float64
	Stop    float64
}

// Cycle returns the length of one full cycle.
func (d PhaseDurations) Cycle() float64 {
	return d.Growth + d.Starve + d.Harvest + d.Stop
}

// Validate rejects negative phases and an empty cycle.
func (d PhaseDurations) Validate() error {
	for name, v := range map[string]float64{
		"growth": d.Growth, "starve": d.Starve, "harvest": d.Harvest, "stop": d.Stop,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return configErrorf("control.%s must be a finite non-negative duration, got %v", name, v)
		}
	}
	if d.Cycle() <= 0 {
		return configErrorf("control cycle has zero length")
	}
	return nil
}

// FishControl is the status a controller applies at each global step.
type FishControl []Status

// NewFishControl lays production cycles over the grid: growth, starve,
// harvest, stop, then again from growth if the horizon is longer than a
// cycle. The first growth step of every cycle after the first is a restart,
// so the feeder goes back to the start of the growth curve.
func NewFishControl(grid *TimeGrid, d PhaseDurations) (FishControl, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	cycle := d.Cycle()
	tsim := grid.Sim()
	ctrl := make(FishControl, grid.Steps())
	prevCycle := 0
	for i := range ctrl {
		k := int(math.Floor(tsim[i]/cycle + gridTolerance))
		pos := tsim[i] - float64(k)*cycle
		ctrl[i] = d.phaseAt(pos)
		if k != prevCycle && ctrl[i] == StatusGrowth {
			ctrl[i] = StatusRestart
			prevCycle = k
		}
	}
	return ctrl, nil
}

func (d PhaseDurations) phaseAt(pos float64) Status {
	switch {
	case pos < d.Growth-gridTolerance:
		return StatusGrowth
	case pos < d.Growth+d.Starve-gridTolerance:
		return StatusStarve
	case pos < d.Growth+d.Starve+d.Harvest-gridTolerance:
		return StatusHarvest
	default:
		return StatusStop
	}
}

// At returns the status for global step i.
func (c FishControl) At(i int) Status { return c[i] }
