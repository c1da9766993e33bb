// Package engine owns the state of one diffusion simulation session and
// drives the selected scheme step by step.
//
// A session moves through {idle -> running -> diverged | completed}:
// [Engine.Reset] builds a fresh grid and fields atomically, [Engine.Step]
// advances time and refreshes the analytical field, and
// [Engine.Diagnostics] recomputes the error measures in full from the
// current fields on every call. Divergence is sticky and never halts
// stepping; exceeding Tmax does.
//
// Engines are not safe for concurrent use. Each session owns its fields
// exclusively; run one engine per goroutine.
package engine
