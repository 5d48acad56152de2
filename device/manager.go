// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gameloop/backend"
)

// ErrNilDriver is returned by NewManager when no driver is given.
var ErrNilDriver = errors.New("device: nil driver")

// Resources is a device and its immediate context. Both are always set.
type Resources struct {
	Device  backend.Device
	Context backend.Context
}

// Manager owns the logical device and its immediate context.
//
// The pair is created and replaced as a unit: Resources returns either a
// complete pair or nil.
type Manager struct {
	driver backend.Driver
	levels []backend.FeatureLevel
	debug  bool
	label  string
	logger *slog.Logger

	res        *Resources
	level      backend.FeatureLevel
	generation uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithFeatureLevels overrides the candidate feature levels, highest first.
// An empty list keeps the defaults.
func WithFeatureLevels(levels ...backend.FeatureLevel) Option {
	return func(m *Manager) {
		if len(levels) > 0 {
			m.levels = append([]backend.FeatureLevel(nil), levels...)
		}
	}
}

// WithDebugLayer requests the driver's validation layer.
func WithDebugLayer(enabled bool) Option {
	return func(m *Manager) { m.debug = enabled }
}

// WithLabel sets the device debug label.
func WithLabel(label string) Option {
	return func(m *Manager) { m.label = label }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a Manager for driver. No device is created until Create.
func NewManager(driver backend.Driver, opts ...Option) (*Manager, error) {
	if driver == nil {
		return nil, ErrNilDriver
	}
	m := &Manager{
		driver: driver,
		levels: backend.DefaultFeatureLevels(),
		label:  "gameloop_device",
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	return m, nil
}

// Create releases any existing device and creates a new one on the default
// adapter. On failure the Manager holds no device.
func (m *Manager) Create() error {
	m.Release()

	if m.debug {
		m.logger.Debug("device: debug layer requested", "driver", m.driver.Name())
	}

	dev, ctx, level, err := m.driver.CreateDevice(backend.DeviceRequest{
		FeatureLevels: m.levels,
		Debug:         m.debug,
		Label:         m.label,
	})
	if err != nil {
		return fmt.Errorf("device: create on %s driver: %w", m.driver.Name(), err)
	}
	if dev == nil || ctx == nil {
		if ctx != nil {
			ctx.Release()
		}
		if dev != nil {
			dev.Release()
		}
		return fmt.Errorf("device: %s driver returned an incomplete device: %w", m.driver.Name(), backend.StatusFail)
	}

	m.res = &Resources{Device: dev, Context: ctx}
	m.level = level
	m.generation++

	m.logger.Info("device: created",
		"driver", m.driver.Name(),
		"feature_level", level.String(),
		"generation", m.generation)
	return nil
}

// Release frees the context and then the device. It is a no-op when no device
// exists. The negotiated feature level is kept for introspection.
func (m *Manager) Release() {
	if m.res == nil {
		return
	}
	m.res.Context.Release()
	m.res.Device.Release()
	m.res = nil
	m.logger.Debug("device: released", "generation", m.generation)
}

// Resources returns the current device pair, or nil if none exists.
func (m *Manager) Resources() *Resources { return m.res }

// Ready reports whether a device exists.
func (m *Manager) Ready() bool { return m.res != nil }

// FeatureLevel returns the level negotiated by the most recent Create.
func (m *Manager) FeatureLevel() backend.FeatureLevel { return m.level }

// FeatureLevels returns the candidate levels in preference order.
func (m *Manager) FeatureLevels() []backend.FeatureLevel {
	return append([]backend.FeatureLevel(nil), m.levels...)
}

// Generation counts successful Create calls.
func (m *Manager) Generation() uint64 { return m.generation }

// Driver returns the driver the Manager creates devices on.
func (m *Manager) Driver() backend.Driver { return m.driver }

// DebugLayer reports whether the validation layer is requested.
func (m *Manager) DebugLayer() bool { return m.debug }
