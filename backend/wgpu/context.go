//go:build !nogpu

package wgpu

import (
	"github.com/gogpu/gameloop/backend"
	"github.com/gogpu/gputypes"
)

// frameState is the work recorded on a Context since the last Present.
type frameState struct {
	rtv *RenderTargetView
	dsv *DepthStencilView

	clearColor   *gputypes.Color
	clearFlags   backend.ClearFlags
	clearDepth   float32
	clearStencil uint8

	viewport    backend.Viewport
	hasViewport bool
}

// Context records clears, bindings and the viewport. They are encoded into
// a single render pass by the next Present.
type Context struct {
	dev      *Device
	frame    frameState
	released bool
}

// ClearRenderTargetView records a color clear of rtv.
func (c *Context) ClearRenderTargetView(rtv backend.RenderTargetView, color gputypes.Color) {
	if v, ok := rtv.(*RenderTargetView); ok {
		c.frame.rtv = v
	}
	c.frame.clearColor = &color
}

// ClearDepthStencilView records a depth and/or stencil clear of dsv.
func (c *Context) ClearDepthStencilView(dsv backend.DepthStencilView, flags backend.ClearFlags, depth float32, stencil uint8) {
	if v, ok := dsv.(*DepthStencilView); ok {
		c.frame.dsv = v
	}
	c.frame.clearFlags = flags
	c.frame.clearDepth = depth
	c.frame.clearStencil = stencil
}

// SetRenderTargets binds the color and depth/stencil targets.
func (c *Context) SetRenderTargets(rtv backend.RenderTargetView, dsv backend.DepthStencilView) {
	c.frame.rtv, _ = rtv.(*RenderTargetView)
	c.frame.dsv, _ = dsv.(*DepthStencilView)
}

// SetViewport sets the viewport of the render pass.
func (c *Context) SetViewport(vp backend.Viewport) {
	c.frame.viewport = vp
	c.frame.hasViewport = true
}

// take returns the recorded frame and starts a new one. Bindings persist.
func (c *Context) take() frameState {
	f := c.frame
	c.frame = frameState{rtv: f.rtv, dsv: f.dsv}
	return f
}

// Release drops the recorded state.
func (c *Context) Release() {
	if c.released {
		return
	}
	c.released = true
	c.frame = frameState{}
}

var _ backend.Context = (*Context)(nil)
