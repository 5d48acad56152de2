// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package steptimer provides a frame timer with fixed and variable time steps.
//
// Time is read from a clockwork.Clock so tests can drive it with a fake clock:
//
//	clock := clockwork.NewFakeClock()
//	t := steptimer.New(clock, steptimer.WithFixedTimeStep(time.Second/60))
//	clock.Advance(time.Second / 60)
//	t.Tick(func() { update(t.ElapsedSeconds()) })
//
// Counters use 100ns ticks. A single Tick never measures more than the max
// delta (1/10 s by default), and ResetElapsedTime discards the time since the
// previous Tick, e.g. after resuming from suspend.
package steptimer
