// sim/feeder.go
package sim

import (
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// FeedLog is the log name under which the feeder records its feed rate (g/hr).
const FeedLog = "f_feed"

// FeedParams are the feeding parameters of a step.
type FeedParams struct {
	Ratio    float64      // fraction of ideal body mass fed per day
	Schedule FeedSchedule // times of day of the feeding events
}

// Validate rejects parameters that would make the feed rate undefined.
func (p FeedParams) Validate() error {
	if p.Schedule.Len() == 0 {
		return configErrorf("feed schedule is empty; at least one feeding time per day is required")
	}
	if math.IsNaN(p.Ratio) || math.IsInf(p.Ratio, 0) || p.Ratio < 0 {
		return configErrorf("feed ratio must be a finite non-negative fraction, got %v", p.Ratio)
	}
	return nil
}

// StepInput is the per-window input of the feeder.
type StepInput struct {
	TimeOfDay float64 // hour of day at window start
	Params    FeedParams
}

// Feeder delivers feed in proportion to the ideal growth curve of the fish
// it feeds. The controller sets Status before each step; the feeder keeps a
// cursor into the growth curve that advances as it is stepped.
//
// A Feeder is not safe for concurrent use.
type Feeder struct {
	Status Status
	Params FeedParams

	curve  *GrowthCurve
	cursor int
}

// NewFeeder returns a feeder positioned at the start of curve.
func NewFeeder(curve *GrowthCurve, params FeedParams, status Status) (*Feeder, error) {
	if curve == nil || curve.Len() == 0 {
		return nil, configErrorf("feeder needs a non-empty growth curve")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := Transition(status); err != nil {
		return nil, err
	}
	return &Feeder{Status: status, Params: params, curve: curve}, nil
}

// Cursor returns the index of the last growth curve value consumed.
func (f *Feeder) Cursor() int { return f.cursor }

// Curve returns the precomputed ideal growth curve.
func (f *Feeder) Curve() *GrowthCurve { return f.curve }

// Step computes the feed mass-flow rate (g/hr) at every sub-step offset of
// one window.
//
// While growing, the window consumes growth curve indices
// cursor..cursor+len(offsets)-1 and leaves the cursor on the last one, so the
// next window starts on the same index it ended on. Any other status yields
// zero feed and leaves the cursor alone. A failed step changes nothing.
func (f *Feeder) Step(offsets []float64, in StepInput) ([]float64, error) {
	tr, err := Transition(f.Status)
	if err != nil {
		return nil, err
	}
	n := len(offsets)
	if n < 2 {
		return nil, configErrorf("window needs at least two sub-steps, got %d", n)
	}
	out := make([]float64, n)
	if !tr.Feeding {
		f.Status = tr.Effective
		return out, nil
	}

	if err := in.Params.Validate(); err != nil {
		return nil, err
	}
	dt := offsets[1] - offsets[0]
	if !(dt > 0) {
		return nil, configErrorf("sub-step duration must be positive, got %v", dt)
	}
	cursor := f.cursor
	if tr.ResetCursor {
		cursor = 0
	}
	last := cursor + n - 1
	ideal, err := f.curve.Slice(cursor, last)
	if err != nil {
		return nil, err
	}

	for i, off := range offsets {
		if in.Params.Schedule.Contains(off + in.TimeOfDay) {
			out[i] = 1
		}
	}
	floats.Mul(out, ideal)
	floats.Scale(in.Params.Ratio/float64(in.Params.Schedule.Len())/dt, out)

	if tr.ResetCursor {
		logrus.Debugf("feeder restart: cursor %d -> 0", f.cursor)
	}
	f.cursor = last
	f.Status = tr.Effective
	return out, nil
}

// Run steps the feeder over the driver's current window and appends the
// result to the driver's FeedLog.
func (f *Feeder) Run(d Driver, in StepInput) ([]float64, error) {
	out, err := f.Step(d.Window().Offsets, in)
	if err != nil {
		return nil, err
	}
	d.AppendLog(FeedLog, out)
	return out, nil
}
