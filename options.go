package gameloop

import (
	"github.com/gogpu/gameloop/backend"
	"github.com/gogpu/gameloop/metrics"
	"github.com/gogpu/gputypes"
)

// DefaultClearColor is the render-target clear color: opaque dark blue.
var DefaultClearColor = gputypes.Color{R: 0, G: 0, B: 0.5, A: 1}

// UpdateFunc runs once per completed logic step.
type UpdateFunc func(t Timer)

// RenderFunc records the draw pass of a frame. It runs after the targets are
// cleared and bound and before present.
type RenderFunc func(ctx backend.Context, t Timer)

// Hooks receive the host notifications forwarded by a Session.
// Nil fields are skipped.
type Hooks struct {
	Activated   func()
	Deactivated func()
	Suspending  func()
	Resuming    func()

	// DeviceLost runs after present reported device loss, before the
	// device and surface are rebuilt.
	DeviceLost func(err error)
}

// Option configures a Session during creation.
//
// Example:
//
//	s, err := gameloop.New(drv,
//	    gameloop.WithUpdateFunc(game.Update),
//	    gameloop.WithRenderFunc(game.Draw),
//	)
type Option func(*options)

// options holds optional configuration for Session creation.
type options struct {
	timer      Timer
	clearColor gputypes.Color
	update     UpdateFunc
	render     RenderFunc
	hooks      Hooks
	metrics    *metrics.Metrics
	debug      bool
	levels     []backend.FeatureLevel
}

// defaultOptions returns the default session options.
func defaultOptions() options {
	return options{
		clearColor: DefaultClearColor,
		debug:      debugLayerDefault,
		levels:     backend.DefaultFeatureLevels(),
	}
}

// WithTimer replaces the default variable-step timer.
func WithTimer(t Timer) Option {
	return func(o *options) {
		if t != nil {
			o.timer = t
		}
	}
}

// WithClearColor sets the render-target clear color.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clearColor = c
	}
}

// WithUpdateFunc sets the logic step callback.
func WithUpdateFunc(fn UpdateFunc) Option {
	return func(o *options) {
		o.update = fn
	}
}

// WithRenderFunc sets the draw pass callback.
func WithRenderFunc(fn RenderFunc) Option {
	return func(o *options) {
		o.render = fn
	}
}

// WithHooks sets the lifecycle notification hooks.
func WithHooks(h Hooks) Option {
	return func(o *options) {
		o.hooks = h
	}
}

// WithMetrics records session metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithDebugLayer requests the driver validation layer. Builds with the
// gameloopdebug tag request it by default.
func WithDebugLayer(enabled bool) Option {
	return func(o *options) {
		o.debug = enabled
	}
}

// WithFeatureLevels overrides the candidate feature levels, highest first.
func WithFeatureLevels(levels ...backend.FeatureLevel) Option {
	return func(o *options) {
		if len(levels) > 0 {
			o.levels = append([]backend.FeatureLevel(nil), levels...)
		}
	}
}
