package gameloop

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gameloop/backend"
	"github.com/gogpu/gameloop/device"
	"github.com/gogpu/gameloop/steptimer"
	"github.com/gogpu/gameloop/surface"
	"github.com/jonboulle/clockwork"
)

// Default and minimum output sizes in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
	MinimumWidth  = 320
	MinimumHeight = 200
)

// Session owns the graphics device, the presentation surface and the frame
// loop of one window.
//
// A Session is not safe for concurrent use. All calls, including the host
// notifications, must come from the goroutine that drives Tick.
type Session struct {
	driver  backend.Driver
	opts    options
	timer   Timer
	logger  *slog.Logger
	devices *device.Manager
	surface *surface.Surface

	window        backend.WindowHandle
	width, height int

	state      State
	outcome    FrameOutcome
	recoveries uint64
	err        error
}

// New creates a Session on driver. No GPU object exists until Initialize.
//
// Without WithTimer the Session uses a variable-step steptimer.Timer on the
// real clock.
func New(driver backend.Driver, opts ...Option) (*Session, error) {
	if driver == nil {
		return nil, ErrNilDriver
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.timer == nil {
		o.timer = steptimer.New(clockwork.NewRealClock())
	}

	logger := slog.New(sharedHandler{})
	devices, err := device.NewManager(driver,
		device.WithFeatureLevels(o.levels...),
		device.WithDebugLayer(o.debug),
		device.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("gameloop: %w", err)
	}

	trackDriver(driver)

	return &Session{
		driver:  driver,
		opts:    o,
		timer:   o.timer,
		logger:  logger,
		devices: devices,
		width:   DefaultWidth,
		height:  DefaultHeight,
	}, nil
}

// Initialize binds the Session to window and builds the device and then the
// presentation surface at the given size. Sizes below 1 are stored as 1.
//
// Calling Initialize again rebuilds both. A failure is fatal and returned as
// a *FatalError.
func (s *Session) Initialize(window backend.WindowHandle, width, height int) error {
	if err := s.usable(); err != nil {
		return err
	}

	s.width, s.height = clampSize(width, height)
	if s.surface != nil && s.surface.Window() != window {
		s.surface.Release()
		s.surface = nil
	}
	if s.surface == nil {
		s.surface = surface.New(window, s.logger)
	}
	s.window = window

	s.logger.Info("gameloop: initializing",
		"driver", s.driver.Name(),
		"window", uintptr(window),
		"width", s.width,
		"height", s.height)

	if err := s.rebuild(); err != nil {
		return err
	}
	s.state = StateReady
	return nil
}

// OnWindowSizeChanged rebuilds the presentation surface at the new size.
// The device is kept. Sizes below 1 are stored as 1. Before Initialize only
// the size is recorded.
func (s *Session) OnWindowSizeChanged(width, height int) error {
	if err := s.usable(); err != nil {
		return err
	}

	s.width, s.height = clampSize(width, height)
	if !s.devices.Ready() || s.surface == nil {
		return nil
	}

	s.logger.Debug("gameloop: window size changed", "width", s.width, "height", s.height)
	return s.buildSurface()
}

// Close releases the surface and then the device. Later calls return
// ErrClosed. Close is idempotent.
func (s *Session) Close() error {
	if s.state == StateClosed {
		return nil
	}
	s.releaseAll()
	untrackDriver(s.driver)
	s.state = StateClosed
	s.logger.Info("gameloop: session closed", "recoveries", s.recoveries)
	return nil
}

// DefaultSize returns the preferred initial window size.
func (s *Session) DefaultSize() (width, height int) {
	return DefaultWidth, DefaultHeight
}

// MinimumSize returns the smallest window size a host should allow.
func (s *Session) MinimumSize() (width, height int) {
	return MinimumWidth, MinimumHeight
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// LastOutcome returns the outcome of the most recent Tick.
func (s *Session) LastOutcome() FrameOutcome { return s.outcome }

// OutputSize returns the current output size.
func (s *Session) OutputSize() (width, height int) { return s.width, s.height }

// FeatureLevel returns the feature level of the current device.
func (s *Session) FeatureLevel() backend.FeatureLevel { return s.devices.FeatureLevel() }

// Recoveries counts completed device-loss recoveries.
func (s *Session) Recoveries() uint64 { return s.recoveries }

// Timer returns the frame timer.
func (s *Session) Timer() Timer { return s.timer }

// Err returns the fatal error that stopped the Session, or nil.
func (s *Session) Err() error { return s.err }

// Driver returns the driver the Session renders with.
func (s *Session) Driver() backend.Driver { return s.driver }

// DeviceGeneration counts devices created by the Session.
func (s *Session) DeviceGeneration() uint64 { return s.devices.Generation() }

// SurfaceGeneration counts presentation surfaces created by the Session.
func (s *Session) SurfaceGeneration() uint64 {
	if s.surface == nil {
		return 0
	}
	return s.surface.Generation()
}

// rebuild releases the surface and then the device, and builds both again in
// the opposite order. Shared by Initialize and recovery.
func (s *Session) rebuild() error {
	s.releaseAll()
	if err := s.buildDevice(); err != nil {
		return err
	}
	return s.buildSurface()
}

// buildDevice creates the device.
func (s *Session) buildDevice() error {
	if err := s.devices.Create(); err != nil {
		return s.fail(StageCreateDevice, err)
	}
	level := s.devices.FeatureLevel()
	s.opts.metrics.DeviceCreated(level.Major(), level.Minor())
	return nil
}

// buildSurface creates the presentation resources on the current device.
// Shared by Initialize, resize and recovery.
func (s *Session) buildSurface() error {
	res := s.devices.Resources()
	if res == nil {
		return s.fail(StageCreateResources, fmt.Errorf("gameloop: no device: %w", backend.StatusInvalidCall))
	}
	if err := s.surface.Create(res.Device, s.width, s.height); err != nil {
		return s.fail(StageCreateResources, err)
	}
	s.opts.metrics.SurfaceCreated(s.width, s.height)
	return nil
}

func (s *Session) releaseAll() {
	if s.surface != nil {
		s.surface.Release()
	}
	s.devices.Release()
}

// fail stops the Session. Resources are released; no retry is attempted.
func (s *Session) fail(stage Stage, err error) error {
	fe := &FatalError{Stage: stage, Status: backend.StatusOf(err), Err: err}
	s.err = fe
	s.state = StateFailed
	s.releaseAll()
	s.opts.metrics.Fatal(string(stage))
	s.logger.Error("gameloop: fatal error",
		"stage", string(stage),
		"status", fmt.Sprintf("0x%08X", uint32(fe.Status)),
		"err", err)
	return fe
}

// usable returns the error to report for a call on a terminal Session.
func (s *Session) usable() error {
	switch s.state {
	case StateClosed:
		return ErrClosed
	case StateFailed:
		return fmt.Errorf("%w: %w", ErrSessionFailed, s.err)
	}
	return nil
}

func clampSize(width, height int) (int, int) {
	return max(width, 1), max(height, 1)
}
