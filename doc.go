// Package gameloop manages the graphics device, the presentation surface and
// the frame loop of a real-time graphics application.
//
// # Overview
//
// A Session composes a device.Manager, a surface.Surface and a Timer. The
// host creates it on a backend.Driver, initializes it with a window handle
// and drives Tick once per frame:
//
//	drv, err := backend.Lookup("")
//	if err != nil {
//	    return err
//	}
//	s, err := gameloop.New(drv, gameloop.WithRenderFunc(draw))
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	if err := s.Initialize(window, 800, 600); err != nil {
//	    return err
//	}
//	for running {
//	    if err := s.Tick(); err != nil {
//	        return err // *gameloop.FatalError
//	    }
//	}
//
// # Frame loop
//
// Tick advances the timer, which runs the update callback once per completed
// logic step. The frame is then cleared, bound, drawn and presented with a
// sync interval of 1. No frame is presented before the first logic step.
//
// # Device loss
//
// When present reports the device as removed or reset, the Session releases
// the surface and the device and builds both again before Tick returns. The
// outcome of that Tick is FrameRecovered. Every other failure of device
// creation, resource creation or present is fatal: the Session moves to
// StateFailed and reports a *FatalError.
//
// # Lifecycle notifications
//
// The windowing layer forwards OnActivated, OnDeactivated, OnSuspending,
// OnResuming and OnWindowSizeChanged. Only resizing and resuming change state:
// a resize rebuilds the surface, and resuming resets the timer's elapsed time.
//
// # Logging
//
// gameloop is silent by default. SetLogger installs a *slog.Logger for the
// package, its components and the drivers of open sessions.
package gameloop
