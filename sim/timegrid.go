// sim/timegrid.go
package sim

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// gridTolerance bounds the rounding error accepted when checking that the
// global step divides the horizon and the sub-step divides the global step.
const gridTolerance = 1e-9

// TimeGrid is the global timeline of a simulation. All times are in hours
// since Start.
//
//   - tsim holds the global steps (window boundaries).
//   - tsubsim holds every sub-step of the whole horizon.
//
// Consecutive windows share their boundary sub-step, so a window spanning
// tsim[i]..tsim[i+1] covers SubStepsPerStep()+1 sub-steps.
type TimeGrid struct {
	Start time.Time // calendar time of tsim[0]
	Step  float64   // global step (hr)
	Dtsub float64   // sub-step (hr)

	tsim       []float64
	tsubsim    []float64
	offsets    []float64
	subPerStep int
}

// NewTimeGrid builds a grid from a calendar start, a global step, the total
// horizon and the sub-step duration, all in hours. The step must be a whole
// multiple of dtsub and the horizon a whole multiple of the step.
func NewTimeGrid(start time.Time, step, horizon, dtsub float64) (*TimeGrid, error) {
	for name, v := range map[string]float64{"step": step, "horizon": horizon, "dtsub": dtsub} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return nil, configErrorf("%s must be a finite positive duration, got %v", name, v)
		}
	}
	nSteps, ok := wholeRatio(horizon, step)
	if !ok || nSteps < 1 {
		return nil, configErrorf("horizon %v hr is not a whole number of %v hr steps", horizon, step)
	}
	subPerStep, ok := wholeRatio(step, dtsub)
	if !ok || subPerStep < 1 {
		return nil, configErrorf("step %v hr is not a whole number of %v hr sub-steps", step, dtsub)
	}

	g := &TimeGrid{
		Start:      start,
		Step:       step,
		Dtsub:      dtsub,
		tsim:       floats.Span(make([]float64, nSteps+1), 0, horizon),
		tsubsim:    floats.Span(make([]float64, nSteps*subPerStep+1), 0, horizon),
		offsets:    floats.Span(make([]float64, subPerStep+1), 0, step),
		subPerStep: subPerStep,
	}
	return g, nil
}

func wholeRatio(a, b float64) (int, bool) {
	r := a / b
	n := math.Round(r)
	return int(n), math.Abs(r-n) <= gridTolerance*math.Max(1, n)
}

// Steps returns the number of global windows.
func (g *TimeGrid) Steps() int { return len(g.tsim) - 1 }

// SubStepsPerStep returns how many sub-step durations fit in one window.
func (g *TimeGrid) SubStepsPerStep() int { return g.subPerStep }

// Horizon returns the total simulated duration in hours.
func (g *TimeGrid) Horizon() float64 { return g.tsim[len(g.tsim)-1] }

// Sim returns a copy of the global step times.
func (g *TimeGrid) Sim() []float64 { return append([]float64(nil), g.tsim...) }

// SubSim returns a copy of the full sub-step timeline.
func (g *TimeGrid) SubSim() []float64 { return append([]float64(nil), g.tsubsim...) }

// Window returns the window spanning tsim[i]..tsim[i+1].
func (g *TimeGrid) Window(i int) (Window, error) {
	if i < 0 || i >= g.Steps() {
		return Window{}, boundsErrorf("window %d outside timeline of %d steps", i, g.Steps())
	}
	return Window{
		Index:   i,
		Start:   g.tsim[i],
		End:     g.tsim[i+1],
		Offsets: append([]float64(nil), g.offsets...),
	}, nil
}

// TimeOfDay returns the wall-clock hour of day (fractional) at tsim[i].
func (g *TimeGrid) TimeOfDay(i int) float64 {
	at := g.Start.Add(time.Duration(math.Round(g.tsim[i]*3600)) * time.Second)
	return float64(at.Hour()) + float64(at.Minute())/60 + float64(at.Second())/3600
}
