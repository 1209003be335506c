// sim/simulator.go
package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/acuaponia/feedsim/sim/trace"
)

// Simulator drives a Feeder over the whole timeline, applying the fish
// control status before every window.
type Simulator struct {
	Config  SimConfig
	Grid    *TimeGrid
	Module  *Module
	Feeder  *Feeder
	Control FishControl
	Trace   *trace.SimulationTrace
	Metrics *Metrics

	ran      bool
	lastRate float64 // last logged feed rate, shared with the next window
}

// NewSimulator validates cfg and assembles the grid, growth curve, feeder and
// controller. The growth curve is built over the grid's sub-step timeline so
// both share the same horizon.
func NewSimulator(cfg SimConfig) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, err := NewTimeGrid(cfg.Time.Start, cfg.Time.Step, cfg.Time.Horizon, cfg.Time.Dtsub)
	if err != nil {
		return nil, err
	}
	curve, err := NewGrowthCurve(cfg.Fish, grid.SubSim())
	if err != nil {
		return nil, err
	}
	if curve.Len() != len(grid.SubSim()) {
		return nil, configErrorf("growth curve covers %d sub-steps, timeline has %d", curve.Len(), len(grid.SubSim()))
	}
	ctrl, err := NewFishControl(grid, cfg.Control)
	if err != nil {
		return nil, err
	}
	feeder, err := NewFeeder(curve, cfg.Feed, ctrl.At(0))
	if err != nil {
		return nil, err
	}
	return &Simulator{
		Config:  cfg,
		Grid:    grid,
		Module:  NewModule(grid),
		Feeder:  feeder,
		Control: ctrl,
		Trace:   trace.NewSimulationTrace(cfg.Trace),
	}, nil
}

// Run steps every global window once. It may only be called once per
// Simulator; the first failing step aborts the run.
func (s *Simulator) Run() error {
	if s.ran {
		return configErrorf("simulator already ran")
	}
	s.ran = true

	logrus.Infof("Starting feeder run: %d windows of %.4g hr, dtsub=%.4g hr, schedule=%v, ratio=%v",
		s.Grid.Steps(), s.Grid.Step, s.Grid.Dtsub, s.Feeder.Params.Schedule.Hours(), s.Feeder.Params.Ratio)
	logrus.Infof("Ideal length growth %.4f cm/day, ideal mass %.2f g -> %.2f g",
		s.Feeder.Curve().LengthRate()*24, s.Feeder.Curve().MassAt(0), s.Feeder.Curve().MassAt(s.Feeder.Curve().Len()-1))

	for i := 0; i < s.Grid.Steps(); i++ {
		if err := s.step(i); err != nil {
			return err
		}
	}

	s.Metrics = NewMetrics(s.Grid.SubSim(), s.Module.Log(FeedLog), s.Grid.Dtsub, s.Config.Nutrients)
	logrus.Infof("Feeder run ended at %.4g hr: %.2f g fed", s.Grid.Horizon(), s.Metrics.TotalFed)
	return nil
}

func (s *Simulator) step(i int) error {
	if err := s.Module.SetWindow(i); err != nil {
		return err
	}
	w := s.Module.Window()
	requested := s.Control.At(i)
	if requested == StatusRestart {
		logrus.Infof("[t=%8.2f hr] restart: feeder returns to the start of the growth curve", w.Start)
	}

	s.Feeder.Status = requested
	before := s.Feeder.Cursor()
	in := StepInput{TimeOfDay: s.Grid.TimeOfDay(i), Params: s.Feeder.Params}
	out, err := s.Feeder.Run(s.Module, in)
	if err != nil {
		return &StepError{Step: i, Clock: w.Start, Status: requested, Err: err}
	}

	events, fed := s.logged(i, out, w.Dt())
	logrus.Debugf("[t=%8.2f hr] status=%s cursor %d -> %d, fed %.3f g", w.Start, requested, before, s.Feeder.Cursor(), fed)

	if s.Trace.Config.Enabled() {
		s.Trace.RecordWindow(trace.WindowRecord{
			Step:         i,
			Clock:        w.Start,
			TimeOfDay:    in.TimeOfDay,
			Requested:    string(requested),
			Applied:      string(s.Feeder.Status),
			CursorBefore: before,
			CursorAfter:  s.Feeder.Cursor(),
			FeedEvents:   events,
			Fed:          fed,
		})
	}
	return nil
}

// logged returns the feed events and fed mass a window adds to the feed log.
// From the second window on, the first sample is merged into the previous
// window's last one, so it only counts by what the merge adds.
func (s *Simulator) logged(i int, out []float64, dt float64) (int, float64) {
	events, fed := 0, 0.0
	rest := out
	if i > 0 {
		merged := mergeBoundary(s.lastRate, out[0])
		if s.lastRate <= 0 && merged > 0 {
			events++
		}
		fed += (merged - s.lastRate) * dt
		rest = out[1:]
	}
	for _, r := range rest {
		if r > 0 {
			events++
			fed += r * dt
		}
	}
	s.lastRate = out[len(out)-1]
	return events, fed
}
