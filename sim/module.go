// sim/module.go
package sim

import "math"

// Window is one driver invocation's block of sub-steps.
type Window struct {
	Index   int       // global step index
	Start   float64   // hours since simulation start
	End     float64   // hours since simulation start
	Offsets []float64 // sub-step offsets relative to Start; first is 0, last is End-Start
}

// Len returns the number of sub-steps in the window.
func (w Window) Len() int { return len(w.Offsets) }

// Dt returns the sub-step duration, or 0 for a degenerate window.
func (w Window) Dt() float64 {
	if len(w.Offsets) < 2 {
		return 0
	}
	return w.Offsets[1] - w.Offsets[0]
}

// Driver is what a simulation entity needs from the run loop: the bounds of
// the window being stepped and somewhere to put its outputs.
type Driver interface {
	Window() Window
	AppendLog(name string, values []float64)
}

// Module is the default Driver. It selects windows off a TimeGrid and keeps
// per-variable logs aligned with the grid's sub-step timeline.
type Module struct {
	Grid *TimeGrid

	window Window
	logs   map[string][]float64
}

// NewModule returns a Module positioned before the first window.
func NewModule(grid *TimeGrid) *Module {
	return &Module{Grid: grid, logs: make(map[string][]float64)}
}

// SetWindow positions the module on global step i.
func (m *Module) SetWindow(i int) error {
	w, err := m.Grid.Window(i)
	if err != nil {
		return err
	}
	m.window = w
	return nil
}

// Window returns the current window.
func (m *Module) Window() Window { return m.window }

// AppendLog appends one window's values to the named log. Windows are
// expected in timeline order. The first value of every window after the
// first lands on the previous window's last sub-step; the shared sample keeps
// the larger of the two, so a complete run leaves each log the same length as
// the sub-step timeline.
func (m *Module) AppendLog(name string, values []float64) {
	log, ok := m.logs[name]
	if ok && len(log) > 0 && len(values) > 0 {
		log[len(log)-1] = mergeBoundary(log[len(log)-1], values[0])
		values = values[1:]
	}
	m.logs[name] = append(log, values...)
}

func mergeBoundary(prev, next float64) float64 {
	return math.Max(prev, next)
}

// Log returns a copy of the named log, or nil if nothing was appended.
func (m *Module) Log(name string) []float64 {
	log, ok := m.logs[name]
	if !ok {
		return nil
	}
	return append([]float64(nil), log...)
}
