package backend

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested driver is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNoAdapter is returned when the driver finds no usable adapter.
	ErrNoAdapter = errors.New("backend: no adapter available")

	// ErrReleased is returned when a released resource is used again.
	ErrReleased = errors.New("backend: resource released")
)

// WindowHandle is the opaque native window identifier supplied by the host.
// Drivers that render headless keep it for identification only.
type WindowHandle uintptr

// DeviceRequest describes a logical device to create.
type DeviceRequest struct {
	// FeatureLevels lists acceptable feature levels, highest preference first.
	FeatureLevels []FeatureLevel

	// Debug asks the driver to enable its validation layer if it has one.
	// Drivers without one ignore it.
	Debug bool

	// Label is an optional debug label for the device.
	Label string
}

// SwapChainDescriptor describes a swap chain bound to a window.
type SwapChainDescriptor struct {
	Window      WindowHandle
	Width       uint32
	Height      uint32
	Format      gputypes.TextureFormat
	BufferCount uint32
}

// DepthStencilDescriptor describes a depth/stencil buffer and its view.
type DepthStencilDescriptor struct {
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
}

// Viewport maps normalized device coordinates to the render target.
type Viewport struct {
	TopLeftX float32
	TopLeftY float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

// Depth range bounds for Viewport.MinDepth and Viewport.MaxDepth.
const (
	MinDepth float32 = 0
	MaxDepth float32 = 1
)

// ClearFlags selects which parts of a depth/stencil view are cleared.
type ClearFlags uint32

const (
	// ClearDepth clears the depth plane.
	ClearDepth ClearFlags = 1 << iota
	// ClearStencil clears the stencil plane.
	ClearStencil
)

// Driver creates logical devices. It is the entry point into a graphics API.
//
// Drivers are registered via Register and selected via Get or Default.
type Driver interface {
	// Name returns the driver identifier (e.g., "null", "wgpu").
	Name() string

	// CreateDevice creates a device and its immediate context on the default
	// adapter, negotiating the first level in req.FeatureLevels that the
	// adapter supports. The returned level is the negotiated one.
	CreateDevice(req DeviceRequest) (Device, Context, FeatureLevel, error)
}

// Device creates resources. A Device and its Context are created together and
// must be released together.
type Device interface {
	// CreateSwapChain creates a swap chain and its back buffer.
	CreateSwapChain(desc SwapChainDescriptor) (SwapChain, error)

	// CreateRenderTargetView creates a render-target view over the swap
	// chain's back buffer.
	CreateRenderTargetView(sc SwapChain) (RenderTargetView, error)

	// CreateDepthStencilView creates a depth/stencil buffer and a view of it.
	CreateDepthStencilView(desc DepthStencilDescriptor) (DepthStencilView, error)

	// Release frees the device and any device-dependent objects.
	Release()
}

// Context records commands for immediate submission.
type Context interface {
	// ClearRenderTargetView fills the render target with color.
	ClearRenderTargetView(rtv RenderTargetView, color gputypes.Color)

	// ClearDepthStencilView resets the selected planes of the depth/stencil view.
	ClearDepthStencilView(dsv DepthStencilView, flags ClearFlags, depth float32, stencil uint8)

	// SetRenderTargets binds one render target and a depth/stencil view.
	SetRenderTargets(rtv RenderTargetView, dsv DepthStencilView)

	// SetViewport sets the single active viewport.
	SetViewport(vp Viewport)

	// Release frees the context.
	Release()
}

// SwapChain presents rendered frames to the window.
type SwapChain interface {
	// Present displays the back buffer. A syncInterval of 1 blocks until the
	// next vertical blank. A nil error means success; device loss is reported
	// as StatusDeviceRemoved or StatusDeviceReset.
	Present(syncInterval, flags uint32) error

	// Size returns the back buffer dimensions.
	Size() (width, height uint32)

	// Format returns the back buffer pixel format.
	Format() gputypes.TextureFormat

	// Release frees the swap chain and its back buffer.
	Release()
}

// RenderTargetView is a view of a color buffer bound for output.
type RenderTargetView interface {
	Release()
}

// DepthStencilView is a view of a depth/stencil buffer bound for output.
type DepthStencilView interface {
	Release()
}
