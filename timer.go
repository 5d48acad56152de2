package gameloop

import "github.com/gogpu/gameloop/steptimer"

// Timer drives the logic steps of a Session.
//
// Tick advances the timer and calls update once per completed step: at most
// once in variable mode, zero or more times in fixed mode. FrameCount counts
// completed steps.
type Timer interface {
	Tick(update func())
	ElapsedSeconds() float64
	TotalSeconds() float64
	FrameCount() uint64
	ResetElapsedTime()
}

var _ Timer = (*steptimer.Timer)(nil)
