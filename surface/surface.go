// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gameloop/backend"
	"github.com/gogpu/gputypes"
)

const (
	// BackBufferFormat is the pixel format of the swap chain back buffer.
	BackBufferFormat = gputypes.TextureFormatBGRA8Unorm

	// DepthStencilFormat is the format of the depth/stencil buffer.
	DepthStencilFormat = gputypes.TextureFormatDepth24PlusStencil8

	// BufferCount is the number of swap chain buffers.
	BufferCount = 2
)

// ErrNilDevice is returned by Create when no device is given.
var ErrNilDevice = errors.New("surface: nil device")

// Resources is the presentation triple. All three fields are always set.
type Resources struct {
	SwapChain    backend.SwapChain
	RenderTarget backend.RenderTargetView
	DepthStencil backend.DepthStencilView
}

// Surface owns the presentation resources for one window.
type Surface struct {
	window backend.WindowHandle
	logger *slog.Logger

	res           *Resources
	width, height int
	generation    uint64
}

// New creates an empty Surface bound to window. A nil logger discards output.
func New(window backend.WindowHandle, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Surface{window: window, logger: logger}
}

// Create releases the current resources and builds a new triple on dev with
// the given size. Dimensions below 1 are raised to 1.
//
// On failure every partially created object is released, the Surface holds
// no resources and the error is returned.
func (s *Surface) Create(dev backend.Device, width, height int) error {
	s.Release()

	if dev == nil {
		return ErrNilDevice
	}
	width, height = max(width, 1), max(height, 1)

	sc, err := dev.CreateSwapChain(backend.SwapChainDescriptor{
		Window:      s.window,
		Width:       uint32(width),
		Height:      uint32(height),
		Format:      BackBufferFormat,
		BufferCount: BufferCount,
	})
	if err != nil {
		return fmt.Errorf("surface: create swap chain %dx%d: %w", width, height, err)
	}

	rtv, err := dev.CreateRenderTargetView(sc)
	if err != nil {
		sc.Release()
		return fmt.Errorf("surface: create render target view: %w", err)
	}

	dsv, err := dev.CreateDepthStencilView(backend.DepthStencilDescriptor{
		Width:  uint32(width),
		Height: uint32(height),
		Format: DepthStencilFormat,
	})
	if err != nil {
		rtv.Release()
		sc.Release()
		return fmt.Errorf("surface: create depth stencil view: %w", err)
	}

	s.res = &Resources{SwapChain: sc, RenderTarget: rtv, DepthStencil: dsv}
	s.width, s.height = width, height
	s.generation++

	s.logger.Info("surface: created",
		"width", width,
		"height", height,
		"generation", s.generation)
	return nil
}

// Release frees the depth/stencil view, the render-target view and the swap
// chain, in that order. It is a no-op when nothing is held.
func (s *Surface) Release() {
	if s.res == nil {
		return
	}
	s.res.DepthStencil.Release()
	s.res.RenderTarget.Release()
	s.res.SwapChain.Release()
	s.res = nil
	s.logger.Debug("surface: released", "generation", s.generation)
}

// Resources returns the current triple, or nil if none exists.
func (s *Surface) Resources() *Resources { return s.res }

// Ready reports whether the presentation resources exist.
func (s *Surface) Ready() bool { return s.res != nil }

// Size returns the size of the most recent successful Create.
func (s *Surface) Size() (width, height int) { return s.width, s.height }

// Generation counts successful Create calls.
func (s *Surface) Generation() uint64 { return s.generation }

// Window returns the window handle the swap chain is bound to.
func (s *Surface) Window() backend.WindowHandle { return s.window }
