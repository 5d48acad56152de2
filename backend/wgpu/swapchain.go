//go:build !nogpu

package wgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gameloop/backend"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// SwapChain is an offscreen back buffer presented by submitting the frame's
// render pass.
type SwapChain struct {
	dev    *Device
	desc   backend.SwapChainDescriptor
	format gputypes.TextureFormat
	tex    hal.Texture

	lastPresent time.Time
	presents    uint64
	released    bool
}

// Present encodes the recorded clears and viewport into one render pass,
// submits it and waits for the GPU. It then paces to syncInterval vertical
// blanks of the driver refresh rate; a sync interval of 0 returns at once.
func (sc *SwapChain) Present(syncInterval, _ uint32) error {
	d := sc.dev
	if sc.released || d.released {
		return fmt.Errorf("wgpu: present: %w", backend.StatusInvalidCall)
	}

	frame := d.ctx.take()
	if frame.rtv != nil && frame.rtv.chain == sc && !frame.rtv.released {
		if err := d.submitFrame(frame); err != nil {
			return err
		}
	}

	sc.presents++
	sc.pace(syncInterval)
	return nil
}

// pace blocks until syncInterval refresh periods have passed since the
// previous Present.
func (sc *SwapChain) pace(syncInterval uint32) {
	drv := sc.dev.drv
	now := drv.clock.Now()
	if syncInterval > 0 && drv.refreshRate > 0 && !sc.lastPresent.IsZero() {
		period := time.Second / time.Duration(drv.refreshRate) * time.Duration(syncInterval)
		if wait := sc.lastPresent.Add(period).Sub(now); wait > 0 {
			drv.clock.Sleep(wait)
			now = drv.clock.Now()
		}
	}
	sc.lastPresent = now
}

// submitFrame records and submits the frame render pass.
// A failed submit means the device is gone; a failed or timed-out wait is
// reported as a reset.
func (d *Device) submitFrame(f frameState) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "present_encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w: %w", backend.StatusFail, err)
	}
	defer encoder.Destroy()
	if err := encoder.BeginEncoding("present_frame"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w: %w", backend.StatusFail, err)
	}

	fence, err := d.device.CreateFence()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("wgpu: create fence: %w: %w", backend.StatusFail, err)
	}
	defer d.device.DestroyFence(fence)

	rp := encoder.BeginRenderPass(framePass(f))
	if f.hasViewport {
		vp := f.viewport
		rp.SetViewport(vp.TopLeftX, vp.TopLeftY, vp.Width, vp.Height, vp.MinDepth, vp.MaxDepth)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("wgpu: end encoding: %w: %w", backend.StatusFail, err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		slogger().Warn("wgpu: submit failed", "err", err)
		return fmt.Errorf("wgpu: submit: %w: %w", backend.StatusDeviceRemoved, err)
	}
	ok, err := d.device.Wait(fence, 1, d.drv.presentTimeout)
	if err != nil {
		slogger().Warn("wgpu: fence wait failed", "err", err)
		return fmt.Errorf("wgpu: wait: %w: %w", backend.StatusDeviceReset, err)
	}
	if !ok {
		slogger().Warn("wgpu: fence wait timed out", "timeout", d.drv.presentTimeout)
		return fmt.Errorf("wgpu: wait timed out after %v: %w", d.drv.presentTimeout, backend.StatusDeviceReset)
	}
	return nil
}

// framePass describes the render pass for the recorded clears. Unclear
// attachments are loaded.
func framePass(f frameState) *hal.RenderPassDescriptor {
	color := hal.RenderPassColorAttachment{
		View:    f.rtv.view,
		LoadOp:  gputypes.LoadOpLoad,
		StoreOp: gputypes.StoreOpStore,
	}
	if f.clearColor != nil {
		color.LoadOp = gputypes.LoadOpClear
		color.ClearValue = *f.clearColor
	}
	desc := &hal.RenderPassDescriptor{
		Label:            "present_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{color},
	}
	if f.dsv != nil && !f.dsv.released {
		ds := &hal.RenderPassDepthStencilAttachment{
			View:              f.dsv.view,
			DepthLoadOp:       gputypes.LoadOpLoad,
			DepthStoreOp:      gputypes.StoreOpStore,
			DepthClearValue:   f.clearDepth,
			StencilLoadOp:     gputypes.LoadOpLoad,
			StencilStoreOp:    gputypes.StoreOpStore,
			StencilClearValue: uint32(f.clearStencil),
		}
		if f.clearFlags&backend.ClearDepth != 0 {
			ds.DepthLoadOp = gputypes.LoadOpClear
		}
		if f.clearFlags&backend.ClearStencil != 0 {
			ds.StencilLoadOp = gputypes.LoadOpClear
		}
		desc.DepthStencilAttachment = ds
	}
	return desc
}

// Size returns the back buffer size.
func (sc *SwapChain) Size() (uint32, uint32) { return sc.desc.Width, sc.desc.Height }

// Format returns the back buffer format.
func (sc *SwapChain) Format() gputypes.TextureFormat { return sc.format }

// Presents counts successful Present calls.
func (sc *SwapChain) Presents() uint64 { return sc.presents }

// Release destroys the back buffer.
func (sc *SwapChain) Release() {
	if sc.released {
		return
	}
	sc.released = true
	if !sc.dev.released {
		sc.dev.device.DestroyTexture(sc.tex)
	}
}

// RenderTargetView is a view over a swap chain back buffer.
type RenderTargetView struct {
	dev      *Device
	chain    *SwapChain
	view     hal.TextureView
	released bool
}

// Release destroys the view.
func (v *RenderTargetView) Release() {
	if v.released {
		return
	}
	v.released = true
	if !v.dev.released {
		v.dev.device.DestroyTextureView(v.view)
	}
}

// DepthStencilView is a depth/stencil texture and its view.
type DepthStencilView struct {
	dev           *Device
	tex           hal.Texture
	view          hal.TextureView
	width, height uint32
	released      bool
}

// Size returns the depth buffer size.
func (v *DepthStencilView) Size() (uint32, uint32) { return v.width, v.height }

// Release destroys the view and its texture.
func (v *DepthStencilView) Release() {
	if v.released {
		return
	}
	v.released = true
	if !v.dev.released {
		v.dev.device.DestroyTextureView(v.view)
		v.dev.device.DestroyTexture(v.tex)
	}
}

var (
	_ backend.SwapChain        = (*SwapChain)(nil)
	_ backend.RenderTargetView = (*RenderTargetView)(nil)
	_ backend.DepthStencilView = (*DepthStencilView)(nil)
)
