// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package steptimer

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// TicksPerSecond is the resolution of the tick counters: 100ns per tick.
const TicksPerSecond = 10_000_000

// Default tuning.
const (
	// DefaultTargetElapsed is the fixed step length (60 updates per second).
	DefaultTargetElapsed = TicksPerSecond / 60

	// DefaultMaxDelta caps the time measured by one Tick so that a stall
	// (debugger break, window drag) does not cause a burst of catch-up steps.
	DefaultMaxDelta = time.Second / 10
)

// fixedStepTolerance snaps deltas within 1/4 ms of the target to the target, so
// a display running at 59.94Hz does not slowly accumulate drift.
const fixedStepTolerance = TicksPerSecond / 4000

// Timer measures frame time and drives update steps, either once per Tick with
// the measured delta (variable step) or zero or more times per Tick with a fixed
// delta (fixed step).
//
// Timer is not safe for concurrent use.
type Timer struct {
	clock    clockwork.Clock
	last     time.Time
	maxDelta time.Duration

	elapsedTicks  uint64
	totalTicks    uint64
	leftOverTicks uint64

	frameCount       uint64
	framesPerSecond  uint32
	framesThisSecond uint32
	secondCounter    time.Duration

	fixedTimeStep      bool
	targetElapsedTicks uint64
}

// Option configures a Timer.
type Option func(*Timer)

// WithFixedTimeStep enables fixed-step mode with the given target step.
// A non-positive step keeps the default of 1/60 s.
func WithFixedTimeStep(step time.Duration) Option {
	return func(t *Timer) {
		t.fixedTimeStep = true
		if step > 0 {
			t.targetElapsedTicks = DurationToTicks(step)
		}
	}
}

// WithMaxDelta overrides the per-Tick delta cap.
func WithMaxDelta(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.maxDelta = d
		}
	}
}

// New creates a Timer reading time from clock. A nil clock uses the real clock.
func New(clock clockwork.Clock, opts ...Option) *Timer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	t := &Timer{
		clock:              clock,
		maxDelta:           DefaultMaxDelta,
		targetElapsedTicks: DefaultTargetElapsed,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.last = clock.Now()
	return t
}

// Tick measures the time since the previous Tick and calls update for each
// step. In variable mode update runs exactly once. In fixed mode it runs once
// per whole target step accumulated, possibly zero times.
func (t *Timer) Tick(update func()) {
	now := t.clock.Now()
	delta := now.Sub(t.last)
	t.last = now
	if delta < 0 {
		delta = 0
	}

	t.secondCounter += delta

	if delta > t.maxDelta {
		delta = t.maxDelta
	}

	deltaTicks := DurationToTicks(delta)
	lastFrameCount := t.frameCount

	if t.fixedTimeStep {
		if absDiff(deltaTicks, t.targetElapsedTicks) < fixedStepTolerance {
			deltaTicks = t.targetElapsedTicks
		}

		t.leftOverTicks += deltaTicks
		for t.leftOverTicks >= t.targetElapsedTicks {
			t.elapsedTicks = t.targetElapsedTicks
			t.totalTicks += t.targetElapsedTicks
			t.leftOverTicks -= t.targetElapsedTicks
			t.frameCount++

			if update != nil {
				update()
			}
		}
	} else {
		t.elapsedTicks = deltaTicks
		t.totalTicks += deltaTicks
		t.leftOverTicks = 0
		t.frameCount++

		if update != nil {
			update()
		}
	}

	if t.frameCount != lastFrameCount {
		t.framesThisSecond++
	}

	if t.secondCounter >= time.Second {
		t.framesPerSecond = t.framesThisSecond
		t.framesThisSecond = 0
		t.secondCounter %= time.Second
	}
}

// ResetElapsedTime restarts measurement from now. Call it after an intentional
// discontinuity (resume from suspend, blocking load) so the next Tick does not
// try to catch up on the gap.
func (t *Timer) ResetElapsedTime() {
	t.last = t.clock.Now()
	t.leftOverTicks = 0
	t.framesPerSecond = 0
	t.framesThisSecond = 0
	t.secondCounter = 0
}

// ElapsedTicks returns the length of the most recent step in ticks.
func (t *Timer) ElapsedTicks() uint64 { return t.elapsedTicks }

// ElapsedSeconds returns the length of the most recent step in seconds.
func (t *Timer) ElapsedSeconds() float64 { return TicksToSeconds(t.elapsedTicks) }

// TotalTicks returns the time accumulated by all steps in ticks.
func (t *Timer) TotalTicks() uint64 { return t.totalTicks }

// TotalSeconds returns the time accumulated by all steps in seconds.
func (t *Timer) TotalSeconds() float64 { return TicksToSeconds(t.totalTicks) }

// FrameCount returns the number of update steps taken since creation.
func (t *Timer) FrameCount() uint64 { return t.frameCount }

// FramesPerSecond returns the step rate measured over the last full second.
func (t *Timer) FramesPerSecond() uint32 { return t.framesPerSecond }

// IsFixedTimeStep reports whether fixed-step mode is enabled.
func (t *Timer) IsFixedTimeStep() bool { return t.fixedTimeStep }

// SetFixedTimeStep switches between fixed and variable mode.
func (t *Timer) SetFixedTimeStep(fixed bool) { t.fixedTimeStep = fixed }

// TargetElapsedTicks returns the fixed step length in ticks.
func (t *Timer) TargetElapsedTicks() uint64 { return t.targetElapsedTicks }

// SetTargetElapsedTicks sets the fixed step length in ticks. Zero is ignored.
func (t *Timer) SetTargetElapsedTicks(ticks uint64) {
	if ticks > 0 {
		t.targetElapsedTicks = ticks
	}
}

// SetTargetElapsedSeconds sets the fixed step length in seconds.
func (t *Timer) SetTargetElapsedSeconds(seconds float64) {
	t.SetTargetElapsedTicks(SecondsToTicks(seconds))
}

// DurationToTicks converts a duration to ticks.
func DurationToTicks(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d / (time.Second / TicksPerSecond))
}

// TicksToSeconds converts ticks to seconds.
func TicksToSeconds(ticks uint64) float64 {
	return float64(ticks) / TicksPerSecond
}

// SecondsToTicks converts seconds to ticks.
func SecondsToTicks(seconds float64) uint64 {
	if seconds <= 0 {
		return 0
	}
	return uint64(seconds * TicksPerSecond)
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
