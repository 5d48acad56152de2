// Package null provides an in-memory graphics driver.
//
// The null driver issues no GPU work. It counts resource construction and
// release, records context calls, and can inject failures into device
// creation, resource creation, and individual Present calls. It is used by
// tests and as a headless fallback when no GPU is available.
//
//	drv := null.New()
//	drv.FailPresent(3, backend.StatusDeviceReset) // third Present reports a reset
package null

import (
	"fmt"

	"github.com/gogpu/gameloop/backend"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// init registers the null driver on package import.
func init() {
	backend.Register(backend.DriverNull, func() backend.Driver {
		return New()
	})
}

// Call names recorded by the driver.
const (
	CallClearRenderTarget = "ClearRenderTargetView"
	CallClearDepthStencil = "ClearDepthStencilView"
	CallSetRenderTargets  = "SetRenderTargets"
	CallSetViewport       = "SetViewport"
	CallPresent           = "Present"
)

// Object kinds recorded in the release log.
const (
	KindDevice       = "device"
	KindContext      = "context"
	KindSwapChain    = "swapchain"
	KindRenderTarget = "rtv"
	KindDepthStencil = "dsv"
)

// Stats counts resource lifecycle events.
type Stats struct {
	DeviceCreations       int
	SwapChainCreations    int
	RenderTargetCreations int
	DepthStencilCreations int
	Releases              int
	Presents              int

	// Orphaned counts swap chains and views released after their device.
	Orphaned int

	// Live is the number of created objects not yet released. Devices and
	// contexts count separately.
	Live int
}

// Driver is the null driver. It is not safe for concurrent use.
type Driver struct {
	// Supported is the highest feature level the fake adapter accepts.
	Supported backend.FeatureLevel

	// Fail* fields make the matching creation call fail while non-nil.
	FailCreateDevice error
	FailSwapChain    error
	FailRenderTarget error
	FailDepthStencil error

	presentFaults map[int]error
	stats         Stats
	calls         []string
	releases      []string
	nextID        int

	lastDebug    bool
	lastColor    gputypes.Color
	lastViewport backend.Viewport
	lastDepth    float32
	lastStencil  uint8
	lastFlags    backend.ClearFlags
	lastSync     uint32
}

// New creates a null driver supporting feature level 11.1.
func New() *Driver {
	return &Driver{
		Supported:     backend.FeatureLevel11_1,
		presentFaults: make(map[int]error),
	}
}

// Name returns the driver identifier.
func (d *Driver) Name() string { return backend.DriverNull }

// FailPresent makes the nth Present call (1-based, counted across all swap
// chains of this driver) return err.
func (d *Driver) FailPresent(n int, err error) {
	d.presentFaults[n] = err
}

// Stats returns a snapshot of the lifecycle counters.
func (d *Driver) Stats() Stats { return d.stats }

// Calls returns the recorded context and present calls in order.
func (d *Driver) Calls() []string {
	out := make([]string, len(d.calls))
	copy(out, d.calls)
	return out
}

// ResetCalls clears the call log.
func (d *Driver) ResetCalls() { d.calls = d.calls[:0] }

// ReleaseLog returns the kinds of released objects in release order.
func (d *Driver) ReleaseLog() []string {
	out := make([]string, len(d.releases))
	copy(out, d.releases)
	return out
}

// ResetReleaseLog clears the release log.
func (d *Driver) ResetReleaseLog() { d.releases = d.releases[:0] }

// LastClearColor returns the color of the most recent render-target clear.
func (d *Driver) LastClearColor() gputypes.Color { return d.lastColor }

// LastViewport returns the most recently set viewport.
func (d *Driver) LastViewport() backend.Viewport { return d.lastViewport }

// LastDepthStencilClear returns the flags, depth, and stencil of the most
// recent depth/stencil clear.
func (d *Driver) LastDepthStencilClear() (backend.ClearFlags, float32, uint8) {
	return d.lastFlags, d.lastDepth, d.lastStencil
}

// LastSyncInterval returns the sync interval of the most recent Present.
func (d *Driver) LastSyncInterval() uint32 { return d.lastSync }

// LastDebug reports whether the most recent device request asked for the
// debug layer.
func (d *Driver) LastDebug() bool { return d.lastDebug }

// CreateDevice creates a fake device and context.
func (d *Driver) CreateDevice(req backend.DeviceRequest) (backend.Device, backend.Context, backend.FeatureLevel, error) {
	d.lastDebug = req.Debug
	if d.FailCreateDevice != nil {
		return nil, nil, 0, d.FailCreateDevice
	}
	level, ok := backend.Negotiate(req.FeatureLevels, d.Supported)
	if !ok {
		return nil, nil, 0, fmt.Errorf("null: no requested feature level supported (max %v): %w",
			d.Supported, backend.StatusUnsupported)
	}

	d.nextID++
	dev := &Device{drv: d, id: d.nextID, label: req.Label}
	ctx := &Context{drv: d, dev: dev}
	d.stats.DeviceCreations++
	d.stats.Live += 2
	return dev, ctx, level, nil
}

func (d *Driver) release(kind string) {
	d.stats.Releases++
	d.stats.Live--
	d.releases = append(d.releases, kind)
}

// releaseChild releases an object owned by dev.
func (dev *Device) releaseChild(kind string) {
	if dev.released {
		dev.drv.stats.Orphaned++
	}
	dev.drv.release(kind)
}

func (d *Driver) record(call string) {
	d.calls = append(d.calls, call)
}

// Device is a fake logical device.
type Device struct {
	drv      *Driver
	id       int
	label    string
	released bool
}

// ID returns the device identity. Each CreateDevice yields a new ID.
func (dev *Device) ID() int { return dev.id }

// Released reports whether Release has been called.
func (dev *Device) Released() bool { return dev.released }

// AdapterName is the adapter name the null driver reports.
const AdapterName = "Null Adapter"

// AdapterInfo reports a software adapter: the null driver has no GPU.
func (dev *Device) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: AdapterName, Type: gpucontext.AdapterTypeSoftware}
}

// CreateSwapChain creates a fake swap chain.
func (dev *Device) CreateSwapChain(desc backend.SwapChainDescriptor) (backend.SwapChain, error) {
	if dev.released {
		return nil, fmt.Errorf("null: create swap chain: %w", backend.ErrReleased)
	}
	if dev.drv.FailSwapChain != nil {
		return nil, dev.drv.FailSwapChain
	}
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("null: swap chain %dx%d: %w", desc.Width, desc.Height, backend.StatusInvalidCall)
	}
	dev.drv.stats.SwapChainCreations++
	dev.drv.stats.Live++
	return &SwapChain{dev: dev, desc: desc}, nil
}

// CreateRenderTargetView creates a fake render-target view.
func (dev *Device) CreateRenderTargetView(sc backend.SwapChain) (backend.RenderTargetView, error) {
	if dev.released {
		return nil, fmt.Errorf("null: create render target view: %w", backend.ErrReleased)
	}
	if dev.drv.FailRenderTarget != nil {
		return nil, dev.drv.FailRenderTarget
	}
	chain, ok := sc.(*SwapChain)
	if !ok || chain.dev != dev || chain.released {
		return nil, fmt.Errorf("null: render target view: foreign or released swap chain: %w", backend.StatusInvalidCall)
	}
	dev.drv.stats.RenderTargetCreations++
	dev.drv.stats.Live++
	return &RenderTargetView{dev: dev, chain: chain}, nil
}

// CreateDepthStencilView creates a fake depth/stencil view.
func (dev *Device) CreateDepthStencilView(desc backend.DepthStencilDescriptor) (backend.DepthStencilView, error) {
	if dev.released {
		return nil, fmt.Errorf("null: create depth stencil view: %w", backend.ErrReleased)
	}
	if dev.drv.FailDepthStencil != nil {
		return nil, dev.drv.FailDepthStencil
	}
	dev.drv.stats.DepthStencilCreations++
	dev.drv.stats.Live++
	return &DepthStencilView{dev: dev, width: desc.Width, height: desc.Height}, nil
}

// Release releases the device.
func (dev *Device) Release() {
	if dev.released {
		return
	}
	dev.released = true
	dev.drv.release(KindDevice)
}

// Context is a fake immediate context.
type Context struct {
	drv      *Driver
	dev      *Device
	released bool
}

// ClearRenderTargetView records a clear.
func (c *Context) ClearRenderTargetView(_ backend.RenderTargetView, color gputypes.Color) {
	c.drv.record(CallClearRenderTarget)
	c.drv.lastColor = color
}

// ClearDepthStencilView records a depth/stencil clear.
func (c *Context) ClearDepthStencilView(_ backend.DepthStencilView, flags backend.ClearFlags, depth float32, stencil uint8) {
	c.drv.record(CallClearDepthStencil)
	c.drv.lastFlags = flags
	c.drv.lastDepth = depth
	c.drv.lastStencil = stencil
}

// SetRenderTargets records the binding.
func (c *Context) SetRenderTargets(_ backend.RenderTargetView, _ backend.DepthStencilView) {
	c.drv.record(CallSetRenderTargets)
}

// SetViewport records the viewport.
func (c *Context) SetViewport(vp backend.Viewport) {
	c.drv.record(CallSetViewport)
	c.drv.lastViewport = vp
}

// Release releases the context.
func (c *Context) Release() {
	if c.released {
		return
	}
	c.released = true
	c.drv.release(KindContext)
}

// SwapChain is a fake swap chain.
type SwapChain struct {
	dev      *Device
	desc     backend.SwapChainDescriptor
	released bool
}

// Present records the call and returns any injected fault.
func (sc *SwapChain) Present(syncInterval, _ uint32) error {
	drv := sc.dev.drv
	drv.record(CallPresent)
	if sc.released || sc.dev.released {
		return fmt.Errorf("null: present: %w", backend.StatusInvalidCall)
	}
	drv.stats.Presents++
	drv.lastSync = syncInterval
	if err, ok := drv.presentFaults[drv.stats.Presents]; ok {
		delete(drv.presentFaults, drv.stats.Presents)
		return err
	}
	return nil
}

// Size returns the back buffer size.
func (sc *SwapChain) Size() (uint32, uint32) { return sc.desc.Width, sc.desc.Height }

// Format returns the back buffer format.
func (sc *SwapChain) Format() gputypes.TextureFormat { return sc.desc.Format }

// Window returns the window the swap chain was created for.
func (sc *SwapChain) Window() backend.WindowHandle { return sc.desc.Window }

// Release releases the swap chain.
func (sc *SwapChain) Release() {
	if sc.released {
		return
	}
	sc.released = true
	sc.dev.releaseChild(KindSwapChain)
}

// RenderTargetView is a fake render-target view.
type RenderTargetView struct {
	dev      *Device
	chain    *SwapChain
	released bool
}

// Release releases the view.
func (v *RenderTargetView) Release() {
	if v.released {
		return
	}
	v.released = true
	v.dev.releaseChild(KindRenderTarget)
}

// DepthStencilView is a fake depth/stencil view.
type DepthStencilView struct {
	dev      *Device
	width    uint32
	height   uint32
	released bool
}

// Size returns the depth buffer size.
func (v *DepthStencilView) Size() (uint32, uint32) { return v.width, v.height }

// Release releases the view.
func (v *DepthStencilView) Release() {
	if v.released {
		return
	}
	v.released = true
	v.dev.releaseChild(KindDepthStencil)
}

var (
	_ backend.Driver           = (*Driver)(nil)
	_ backend.Device           = (*Device)(nil)
	_ backend.Context          = (*Context)(nil)
	_ backend.SwapChain        = (*SwapChain)(nil)
	_ backend.RenderTargetView = (*RenderTargetView)(nil)
	_ backend.DepthStencilView = (*DepthStencilView)(nil)
)
