package gameloop

import (
	"errors"
	"fmt"

	"github.com/gogpu/gameloop/backend"
)

var (
	// ErrNilDriver is returned by New when no driver is given.
	ErrNilDriver = errors.New("gameloop: nil driver")

	// ErrClosed is returned by operations on a closed Session.
	ErrClosed = errors.New("gameloop: session closed")

	// ErrSessionFailed wraps the fatal error on every call made after the
	// Session stopped.
	ErrSessionFailed = errors.New("gameloop: session failed")
)

// Stage names the step that produced a fatal error.
type Stage string

// Stages reported by FatalError.
const (
	StageCreateDevice    Stage = "create device"
	StageCreateResources Stage = "create resources"
	StagePresent         Stage = "present"
)

// FatalError is an unrecoverable session failure.
//
// It carries the stage and the driver status code of the failing call.
// Recoverable device loss never produces a FatalError.
type FatalError struct {
	Stage  Stage
	Status backend.Status
	Err    error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("gameloop: %s failed (status 0x%08X): %v", e.Stage, uint32(e.Status), e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }
