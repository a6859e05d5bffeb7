// Package training contains monitors that watch a training loop and consume
// the session, memo and checkpoint contracts of the core package.
//
// Monitors receive lifecycle callbacks (training, epoch and step boundaries)
// from whatever loop drives the training. They compose via Chain, run
// periodic work via EveryFewStepMonitor (checkpointing, loss reporting), and
// implement validation-driven early stopping with best-parameter tracking
// persisted in the session memo, so an interrupted training resumes with its
// bookkeeping intact.
//
// The loop driver itself is not part of this module; any code that calls the
// Monitor methods at the right points can host these monitors.
package training
