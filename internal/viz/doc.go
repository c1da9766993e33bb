// Package viz provides the live terminal view of a diffusion session.
//
// The view is a Bubble Tea program that paces the engine: every animation
// tick it calls Step a configurable number of times (the speed multiplier)
// and reads the diagnostics once. Batching steps per tick is purely a
// display concern; the numerics are identical to stepping one at a time.
//
//   - [Canvas]: Braille pixel canvas used for the 1D temperature curve
//   - 2D fields render as a shaded character heatmap
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset session
//	M     - Cycle method (explicit / implicit / crank-nicolson)
//	[ ]   - Halve / double the time step
//	+ -   - Faster / slower (steps per tick)
//	Q     - Quit
package viz
