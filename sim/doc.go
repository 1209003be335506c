// Package sim provides the discrete-time feeder model of an aquaponics fish
// tank: the feed mass-flow rate delivered at every sub-step of a simulation,
// derived from the ideal growth curve of the fish being fed.
//
// # Reading Guide
//
// Start with these files to understand the model:
//   - growth.go: ideal length/mass trajectory, precomputed once over the horizon
//   - status.go: feeder statuses and the transition applied on entry to a step
//   - feeder.go: the per-window step function and its growth curve cursor
//   - simulator.go: the run loop that applies controller statuses window by window
//
// # Time
//
// All times are hours since the simulation start. A TimeGrid splits the
// horizon into global steps (windows) and each window into sub-steps; two
// consecutive windows share their boundary sub-step. The feeder cursor and
// the Module logs both follow that convention: the cursor ends a window on
// the index the next window starts from, and logs drop the repeated
// boundary value so they line up with the full sub-step timeline.
//
// # Units
//
// Model formulas take plain float64 values in base units (g, cm, hr, K).
// Conversion from user-facing quantities happens at configuration time in
// sim/units.
//
// # Errors
//
// Failures wrap ErrConfig (setup mistakes) or ErrBounds (cursor overrun).
// Both are fatal for a run; there is no partial success for a step.
package sim
