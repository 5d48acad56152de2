package gameloop

import (
	"time"

	"github.com/gogpu/gameloop/backend"
)

// Present arguments: wait for one vertical blank, no flags.
const (
	presentSyncInterval = 1
	presentFlags        = 0
)

// Tick advances the timer by one step and renders a frame.
//
// The update callback runs inside the timer step. Nothing is presented until
// the timer has completed its first step: the first Tick after creation is
// always skipped. Device loss reported by present is recovered before Tick
// returns; any other present failure is fatal and returned as a *FatalError.
//
// Before Initialize, Tick only advances the timer.
func (s *Session) Tick() error {
	if err := s.usable(); err != nil {
		return err
	}

	start := time.Now()
	steps := s.timer.FrameCount()
	s.timer.Tick(func() {
		if s.opts.update != nil {
			s.opts.update(s.timer)
		}
	})

	outcome := FrameSkipped
	var err error
	if steps > 0 {
		outcome, err = s.render()
	}

	s.outcome = outcome
	s.opts.metrics.ObserveFrame(outcome.String(), time.Since(start))
	return err
}

// render clears, draws and presents one frame. It touches the GPU only when
// the device and the surface both exist.
func (s *Session) render() (FrameOutcome, error) {
	dev := s.devices.Resources()
	if dev == nil || s.surface == nil || s.surface.Resources() == nil {
		return FrameSkipped, nil
	}

	s.state = StateRendering
	s.clear()
	if s.opts.render != nil {
		s.opts.render(dev.Context, s.timer)
	}
	return s.present()
}

// clear resets the back buffer and the depth/stencil buffer, binds both and
// sets the viewport to the full output.
func (s *Session) clear() {
	ctx := s.devices.Resources().Context
	res := s.surface.Resources()

	ctx.ClearRenderTargetView(res.RenderTarget, s.opts.clearColor)
	ctx.ClearDepthStencilView(res.DepthStencil, backend.ClearDepth|backend.ClearStencil, 1, 0)
	ctx.SetRenderTargets(res.RenderTarget, res.DepthStencil)

	w, h := s.surface.Size()
	ctx.SetViewport(backend.Viewport{
		Width:    float32(w),
		Height:   float32(h),
		MinDepth: backend.MinDepth,
		MaxDepth: backend.MaxDepth,
	})
}

// present shows the back buffer. Device removed or reset triggers recovery.
func (s *Session) present() (FrameOutcome, error) {
	err := s.surface.Resources().SwapChain.Present(presentSyncInterval, presentFlags)
	switch {
	case err == nil:
		s.state = StateReady
		return FrameRendered, nil
	case backend.IsDeviceLost(err):
		if rerr := s.recover(err); rerr != nil {
			return FrameSkipped, rerr
		}
		return FrameRecovered, nil
	default:
		return FrameSkipped, s.fail(StagePresent, err)
	}
}

// recover rebuilds the device and the surface after device loss, the same
// way Initialize does. Nothing is presented meanwhile.
func (s *Session) recover(cause error) error {
	s.state = StateRecovering
	s.logger.Warn("gameloop: device lost, recreating",
		"status", backend.StatusOf(cause).Error(),
		"device_generation", s.devices.Generation())

	if s.opts.hooks.DeviceLost != nil {
		s.opts.hooks.DeviceLost(cause)
	}

	if err := s.rebuild(); err != nil {
		return err
	}

	s.recoveries++
	s.opts.metrics.DeviceRecovered()
	s.state = StateReady
	s.logger.Info("gameloop: device recovered",
		"feature_level", s.devices.FeatureLevel().String(),
		"recoveries", s.recoveries)
	return nil
}
