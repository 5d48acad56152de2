package gameloop

// State is the lifecycle state of a Session.
type State uint8

const (
	// StateUninitialized is the state of a new Session before Initialize.
	StateUninitialized State = iota

	// StateReady means device and surface exist and the next Tick may render.
	StateReady

	// StateRendering is held while a frame is being recorded and presented.
	StateRendering

	// StateRecovering is held while the device and surface are rebuilt after
	// device loss.
	StateRecovering

	// StateFailed is terminal. Err reports the fatal error.
	StateFailed

	// StateClosed is terminal. All resources have been released.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateRendering:
		return "rendering"
	case StateRecovering:
		return "recovering"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// FrameOutcome is the result of one Tick.
type FrameOutcome uint8

const (
	// FrameSkipped means nothing was presented: no logic step had completed
	// yet, or the resources did not exist.
	FrameSkipped FrameOutcome = iota

	// FrameRendered means the frame was cleared, drawn and presented.
	FrameRendered

	// FrameRecovered means present reported device loss and the device and
	// surface were rebuilt. The frame itself was lost.
	FrameRecovered
)

// String returns the outcome name, also used as the metrics label.
func (o FrameOutcome) String() string {
	switch o {
	case FrameSkipped:
		return "skipped"
	case FrameRendered:
		return "rendered"
	case FrameRecovered:
		return "recovered"
	default:
		return "unknown"
	}
}
