// Package trace provides per-window decision recording for feeder runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// WindowRecord captures what the feeder did over one global window.
type WindowRecord struct {
	Step         int     // global step index
	Clock        float64 // hours since simulation start at window start
	TimeOfDay    float64 // hour of day at window start
	Requested    string  // status set by the controller
	Applied      string  // status the feeder ended the step in
	CursorBefore int
	CursorAfter  int
	FeedEvents   int     // sub-steps with non-zero feed (boundary sub-step counted once)
	Fed          float64 // feed mass delivered in the window (g)
}
