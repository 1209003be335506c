package sim

import (
	"time"

	"github.com/acuaponia/feedsim/sim/trace"
)

// TimeConfig groups the simulation timeline parameters (hours).
type TimeConfig struct {
	Start   time.Time // calendar time of the first global step
	Step    float64   // global step, one driver window (hr)
	Horizon float64   // total simulated duration (hr)
	Dtsub   float64   // sub-step duration (hr)
}

// SimConfig is everything NewSimulator needs, in base units.
type SimConfig struct {
	Time      TimeConfig
	Fish      FishParams
	Feed      FeedParams
	Control   PhaseDurations
	Nutrients NutrientFractions
	Trace     trace.TraceConfig
}

// Validate checks every section before anything is built.
func (c SimConfig) Validate() error {
	if c.Time.Start.IsZero() {
		return configErrorf("time.start is required")
	}
	if err := c.Fish.Validate(); err != nil {
		return err
	}
	if err := c.Feed.Validate(); err != nil {
		return err
	}
	if err := c.Control.Validate(); err != nil {
		return err
	}
	if err := c.Nutrients.Validate(); err != nil {
		return err
	}
	if !trace.IsValidTraceLevel(string(c.Trace.Level)) {
		return configErrorf("unknown trace level %q; valid: none, windows", c.Trace.Level)
	}
	return nil
}
