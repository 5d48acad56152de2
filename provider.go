package gameloop

import (
	"github.com/gogpu/gameloop/surface"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Provider returns a gpucontext.DeviceProvider view of the Session.
//
// Device, Queue and Adapter return the HAL objects of the current driver
// device, for consumers to type-assert (hal.Device, hal.Queue, hal.Adapter
// on the wgpu driver). They return nil while no device exists and on drivers
// without HAL objects, such as the null driver.
//
// The provider resolves the current device on every call, so it stays valid
// across device recovery. Handles obtained before a recovery are stale after
// it. The Session keeps ownership of everything it hands out.
func (s *Session) Provider() gpucontext.DeviceProvider {
	return sessionProvider{s: s}
}

type sessionProvider struct {
	s *Session
}

// halDevice is implemented by drivers built on gogpu/wgpu/hal.
type halDevice interface {
	HalDevice() any
	HalQueue() any
}

type halAdapter interface {
	HalAdapter() any
}

// adapterDescriber is implemented by driver devices that know their adapter.
type adapterDescriber interface {
	AdapterInfo() gpucontext.AdapterInfo
}

func (p sessionProvider) Device() gpucontext.Device {
	if d := p.HalDevice(); d != nil {
		return d
	}
	return nil
}

func (p sessionProvider) Queue() gpucontext.Queue {
	if q := p.HalQueue(); q != nil {
		return q
	}
	return nil
}

func (p sessionProvider) Adapter() gpucontext.Adapter {
	if a, ok := p.device().(halAdapter); ok {
		if h := a.HalAdapter(); h != nil {
			return h
		}
	}
	return nil
}

// AdapterInfo describes the adapter of the current device, or reports
// AdapterTypeUnknown when there is none.
func (p sessionProvider) AdapterInfo() gpucontext.AdapterInfo {
	if d, ok := p.device().(adapterDescriber); ok {
		return d.AdapterInfo()
	}
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

func (p sessionProvider) SurfaceFormat() gputypes.TextureFormat {
	if p.s.surface == nil || !p.s.surface.Ready() {
		return gputypes.TextureFormatUndefined
	}
	return surface.BackBufferFormat
}

// HalDevice returns the HAL device of the current driver device, or nil.
func (p sessionProvider) HalDevice() any {
	if h, ok := p.device().(halDevice); ok {
		return h.HalDevice()
	}
	return nil
}

// HalQueue returns the HAL queue of the current driver device, or nil.
func (p sessionProvider) HalQueue() any {
	if h, ok := p.device().(halDevice); ok {
		return h.HalQueue()
	}
	return nil
}

// device returns the current driver device, or nil.
func (p sessionProvider) device() any {
	res := p.s.devices.Resources()
	if res == nil {
		return nil
	}
	return res.Device
}

var _ gpucontext.DeviceProvider = sessionProvider{}
