//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gameloop/backend"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Device is a HAL device with its queue, adapter and instance.
type Device struct {
	drv      *Driver
	instance hal.Instance
	adapter  hal.Adapter
	info     gputypes.AdapterInfo
	device   hal.Device
	queue    hal.Queue
	label    string

	ctx        *Context
	background hal.ShaderModule
	released   bool
}

// HalDevice returns the underlying hal.Device.
func (d *Device) HalDevice() any { return d.device }

// HalQueue returns the underlying hal.Queue.
func (d *Device) HalQueue() any { return d.queue }

// HalAdapter returns the hal.Adapter the device was opened on.
func (d *Device) HalAdapter() any { return d.adapter }

// AdapterInfo describes the adapter the device was opened on.
func (d *Device) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: d.info.Name, Type: adapterType(d.info.DeviceType)}
}

// Released reports whether Release has been called.
func (d *Device) Released() bool { return d.released }

// CreateSwapChain creates the back buffer texture.
func (d *Device) CreateSwapChain(desc backend.SwapChainDescriptor) (backend.SwapChain, error) {
	if d.released {
		return nil, fmt.Errorf("wgpu: create swap chain: %w", backend.ErrReleased)
	}
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("wgpu: swap chain %dx%d: %w", desc.Width, desc.Height, backend.StatusInvalidCall)
	}

	format := desc.Format
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	tex, err := d.createTexture("back_buffer", desc.Width, desc.Height, format,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc)
	if err != nil {
		return nil, err
	}
	return &SwapChain{dev: d, desc: desc, format: format, tex: tex}, nil
}

// CreateRenderTargetView returns a view over the back buffer of sc.
func (d *Device) CreateRenderTargetView(sc backend.SwapChain) (backend.RenderTargetView, error) {
	if d.released {
		return nil, fmt.Errorf("wgpu: create render target view: %w", backend.ErrReleased)
	}
	chain, ok := sc.(*SwapChain)
	if !ok || chain.dev != d || chain.released {
		return nil, fmt.Errorf("wgpu: render target view: foreign or released swap chain: %w", backend.StatusInvalidCall)
	}
	view, err := d.device.CreateTextureView(chain.tex, &hal.TextureViewDescriptor{
		Label: "back_buffer_rtv",
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create render target view: %w: %w", backend.StatusFail, err)
	}
	return &RenderTargetView{dev: d, chain: chain, view: view}, nil
}

// CreateDepthStencilView creates a depth/stencil texture and its view.
func (d *Device) CreateDepthStencilView(desc backend.DepthStencilDescriptor) (backend.DepthStencilView, error) {
	if d.released {
		return nil, fmt.Errorf("wgpu: create depth stencil view: %w", backend.ErrReleased)
	}
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("wgpu: depth stencil %dx%d: %w", desc.Width, desc.Height, backend.StatusInvalidCall)
	}
	format := desc.Format
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatDepth24PlusStencil8
	}
	tex, err := d.createTexture("depth_stencil", desc.Width, desc.Height, format,
		gputypes.TextureUsageRenderAttachment)
	if err != nil {
		return nil, err
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "depth_stencil_view",
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create depth stencil view: %w: %w", backend.StatusFail, err)
	}
	return &DepthStencilView{dev: d, tex: tex, view: view, width: desc.Width, height: desc.Height}, nil
}

// createTexture creates a single-sampled 2D render attachment.
func (d *Device) createTexture(label string, width, height uint32, format gputypes.TextureFormat, usage gputypes.TextureUsage) (hal.Texture, error) {
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s texture: %w: %w", label, backend.StatusFail, err)
	}
	return tex, nil
}

// Release destroys the device-dependent objects, the device and the instance.
func (d *Device) Release() {
	if d.released {
		return
	}
	d.released = true
	d.destroyBackground()
	d.device.Destroy()
	d.instance.Destroy()
}

var _ backend.Device = (*Device)(nil)
