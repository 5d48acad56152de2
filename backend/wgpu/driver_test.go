//go:build !nogpu

package wgpu

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/gogpu/gameloop/backend"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/jonboulle/clockwork"
)

func noopInstance(desc *hal.InstanceDescriptor) (hal.Instance, error) {
	return noop.API{}.CreateInstance(desc)
}

// newNoopDriver creates a driver on the noop HAL without present pacing.
func newNoopDriver(opts ...Option) *Driver {
	return New(append([]Option{WithInstance(noopInstance), WithRefreshRate(0)}, opts...)...)
}

// createNoopDevice opens a device and context on the noop HAL.
// Returns the device, context, and a cleanup function.
func createNoopDevice(t *testing.T, d *Driver) (*Device, *Context, backend.FeatureLevel, func()) {
	t.Helper()
	dev, ctx, level, err := d.CreateDevice(backend.DeviceRequest{
		FeatureLevels: backend.DefaultFeatureLevels(),
		Label:         "test_device",
	})
	if err != nil {
		t.Fatalf("CreateDevice() error = %v", err)
	}
	cleanup := func() {
		ctx.Release()
		dev.Release()
	}
	return dev.(*Device), ctx.(*Context), level, cleanup
}

func TestDriverRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.DriverWGPU) {
		t.Fatal("wgpu driver not registered")
	}
	if d := backend.Get(backend.DriverWGPU); d == nil || d.Name() != backend.DriverWGPU {
		t.Errorf("Get(%q) = %v", backend.DriverWGPU, d)
	}
}

func TestCreateDevice(t *testing.T) {
	dev, ctx, level, cleanup := createNoopDevice(t, newNoopDriver())
	defer cleanup()

	if dev.HalDevice() == nil || dev.HalQueue() == nil {
		t.Error("HalDevice/HalQueue should be set")
	}
	if ctx == nil || dev.ctx != ctx {
		t.Error("context not bound to device")
	}
	if dev.background == nil {
		t.Error("background shader module not created")
	}

	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	defer instance.Destroy()
	adapters := instance.EnumerateAdapters(nil)
	if want := adapterLevel(adapters[0].Info.DeviceType); level != want {
		t.Errorf("level = %v, want %v", level, want)
	}
}

func TestCreateDeviceUnsupportedLevels(t *testing.T) {
	_, _, _, err := newNoopDriver().CreateDevice(backend.DeviceRequest{})
	if backend.StatusOf(err) != backend.StatusUnsupported {
		t.Errorf("CreateDevice() error = %v, want StatusUnsupported", err)
	}
}

func TestCreateDeviceInstanceFailure(t *testing.T) {
	boom := errors.New("no instance")
	d := New(WithInstance(func(*hal.InstanceDescriptor) (hal.Instance, error) { return nil, boom }))

	_, _, _, err := d.CreateDevice(backend.DeviceRequest{FeatureLevels: backend.DefaultFeatureLevels()})
	if !errors.Is(err, boom) || backend.StatusOf(err) != backend.StatusUnsupported {
		t.Errorf("CreateDevice() error = %v, want wrapped instance error", err)
	}
}

func TestCreateDeviceDebugFlag(t *testing.T) {
	var got *hal.InstanceDescriptor
	d := newNoopDriver(WithInstance(func(desc *hal.InstanceDescriptor) (hal.Instance, error) {
		got = desc
		return noopInstance(desc)
	}))

	for _, debug := range []bool{false, true} {
		dev, ctx, _, err := d.CreateDevice(backend.DeviceRequest{
			FeatureLevels: backend.DefaultFeatureLevels(),
			Debug:         debug,
		})
		if err != nil {
			t.Fatalf("debug=%v: CreateDevice() error = %v", debug, err)
		}
		if (got.Flags&gputypes.InstanceFlagsDebug != 0) != debug {
			t.Errorf("debug=%v: instance flags = %v", debug, got.Flags)
		}
		ctx.Release()
		dev.Release()
	}
}

func TestAdapterLevel(t *testing.T) {
	tests := []struct {
		t    gputypes.DeviceType
		want backend.FeatureLevel
	}{
		{gputypes.DeviceTypeDiscreteGPU, backend.FeatureLevel11_1},
		{gputypes.DeviceTypeIntegratedGPU, backend.FeatureLevel11_1},
		{gputypes.DeviceTypeCPU, backend.FeatureLevel10_0},
	}
	for _, tt := range tests {
		if got := adapterLevel(tt.t); got != tt.want {
			t.Errorf("adapterLevel(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestAdapterType(t *testing.T) {
	tests := []struct {
		t    gputypes.DeviceType
		want gpucontext.AdapterType
	}{
		{gputypes.DeviceTypeDiscreteGPU, gpucontext.AdapterTypeDiscrete},
		{gputypes.DeviceTypeIntegratedGPU, gpucontext.AdapterTypeIntegrated},
		{gputypes.DeviceTypeCPU, gpucontext.AdapterTypeSoftware},
		{gputypes.DeviceTypeVirtualGPU, gpucontext.AdapterTypeUnknown},
		{gputypes.DeviceTypeOther, gpucontext.AdapterTypeUnknown},
	}
	for _, tt := range tests {
		if got := adapterType(tt.t); got != tt.want {
			t.Errorf("adapterType(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestDeviceAdapter(t *testing.T) {
	dev, _, _, cleanup := createNoopDevice(t, newNoopDriver())
	defer cleanup()

	if _, ok := dev.HalAdapter().(hal.Adapter); !ok {
		t.Errorf("HalAdapter() = %T, want hal.Adapter", dev.HalAdapter())
	}
	if info := dev.AdapterInfo(); info.Name != "Noop Adapter" {
		t.Errorf("AdapterInfo().Name = %q, want %q", info.Name, "Noop Adapter")
	}
}

func TestSurfaceResources(t *testing.T) {
	dev, _, _, cleanup := createNoopDevice(t, newNoopDriver())
	defer cleanup()

	sc, err := dev.CreateSwapChain(backend.SwapChainDescriptor{
		Width: 800, Height: 600, Format: gputypes.TextureFormatBGRA8Unorm, BufferCount: 2,
	})
	if err != nil {
		t.Fatalf("CreateSwapChain() error = %v", err)
	}
	defer sc.Release()

	if w, h := sc.Size(); w != 800 || h != 600 {
		t.Errorf("Size() = %dx%d, want 800x600", w, h)
	}
	if sc.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format() = %v, want BGRA8Unorm", sc.Format())
	}

	rtv, err := dev.CreateRenderTargetView(sc)
	if err != nil {
		t.Fatalf("CreateRenderTargetView() error = %v", err)
	}
	defer rtv.Release()

	dsv, err := dev.CreateDepthStencilView(backend.DepthStencilDescriptor{Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("CreateDepthStencilView() error = %v", err)
	}
	defer dsv.Release()
	if w, h := dsv.(*DepthStencilView).Size(); w != 800 || h != 600 {
		t.Errorf("depth stencil Size() = %dx%d, want 800x600", w, h)
	}
}

func TestSwapChainInvalidSize(t *testing.T) {
	dev, _, _, cleanup := createNoopDevice(t, newNoopDriver())
	defer cleanup()

	_, err := dev.CreateSwapChain(backend.SwapChainDescriptor{Width: 0, Height: 600})
	if backend.StatusOf(err) != backend.StatusInvalidCall {
		t.Errorf("CreateSwapChain(0x600) error = %v, want StatusInvalidCall", err)
	}
}

func TestRenderTargetForeignSwapChain(t *testing.T) {
	d := newNoopDriver()
	dev1, _, _, cleanup1 := createNoopDevice(t, d)
	defer cleanup1()
	dev2, _, _, cleanup2 := createNoopDevice(t, d)
	defer cleanup2()

	sc, err := dev1.CreateSwapChain(backend.SwapChainDescriptor{Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("CreateSwapChain() error = %v", err)
	}
	defer sc.Release()

	if _, err := dev2.CreateRenderTargetView(sc); backend.StatusOf(err) != backend.StatusInvalidCall {
		t.Errorf("CreateRenderTargetView(foreign) error = %v, want StatusInvalidCall", err)
	}
}

func TestPresent(t *testing.T) {
	dev, ctx, _, cleanup := createNoopDevice(t, newNoopDriver())
	defer cleanup()

	sc, _ := dev.CreateSwapChain(backend.SwapChainDescriptor{Width: 64, Height: 64})
	defer sc.Release()
	rtv, _ := dev.CreateRenderTargetView(sc)
	defer rtv.Release()
	dsv, _ := dev.CreateDepthStencilView(backend.DepthStencilDescriptor{Width: 64, Height: 64})
	defer dsv.Release()

	ctx.ClearRenderTargetView(rtv, gputypes.Color{R: 0, G: 0, B: 0.5, A: 1})
	ctx.ClearDepthStencilView(dsv, backend.ClearDepth|backend.ClearStencil, 1, 0)
	ctx.SetRenderTargets(rtv, dsv)
	ctx.SetViewport(backend.Viewport{Width: 64, Height: 64, MaxDepth: 1})

	if err := sc.Present(1, 0); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if n := sc.(*SwapChain).Presents(); n != 1 {
		t.Errorf("Presents() = %d, want 1", n)
	}
	// Clears are consumed, bindings stay.
	if ctx.frame.clearColor != nil || ctx.frame.hasViewport {
		t.Error("recorded clears were not consumed by Present")
	}
	if ctx.frame.rtv == nil || ctx.frame.dsv == nil {
		t.Error("bindings should persist across Present")
	}
}

// faultDevice wraps a HAL device and fails fence creation or encoding on demand.
type faultDevice struct {
	hal.Device
	failFence bool
	failEnd   bool
	encoder   *trackedEncoder
}

func (d *faultDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	d.encoder = &trackedEncoder{CommandEncoder: enc, failEnd: d.failEnd}
	return d.encoder, nil
}

func (d *faultDevice) CreateFence() (hal.Fence, error) {
	if d.failFence {
		return nil, errors.New("out of fences")
	}
	return d.Device.CreateFence()
}

// trackedEncoder records how a command encoder was finished.
type trackedEncoder struct {
	hal.CommandEncoder
	failEnd   bool
	discarded bool
	destroyed bool
}

func (e *trackedEncoder) EndEncoding() (hal.CommandBuffer, error) {
	if e.failEnd {
		return nil, errors.New("encoder lost")
	}
	return e.CommandEncoder.EndEncoding()
}

func (e *trackedEncoder) DiscardEncoding() {
	e.discarded = true
	e.CommandEncoder.DiscardEncoding()
}

func (e *trackedEncoder) Destroy() {
	e.destroyed = true
	e.CommandEncoder.Destroy()
}

func TestPresentEncoderCleanup(t *testing.T) {
	tests := []struct {
		name          string
		failFence     bool
		failEnd       bool
		wantStatus    backend.Status
		wantDiscarded bool
	}{
		{"success", false, false, 0, false},
		{"fence failure", true, false, backend.StatusFail, true},
		{"end encoding failure", false, true, backend.StatusFail, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, ctx, _, cleanup := createNoopDevice(t, newNoopDriver())
			defer cleanup()

			sc, _ := dev.CreateSwapChain(backend.SwapChainDescriptor{Width: 16, Height: 16})
			defer sc.Release()
			rtv, _ := dev.CreateRenderTargetView(sc)
			defer rtv.Release()

			fd := &faultDevice{Device: dev.device, failFence: tt.failFence, failEnd: tt.failEnd}
			dev.device = fd

			ctx.ClearRenderTargetView(rtv, gputypes.Color{A: 1})
			ctx.SetRenderTargets(rtv, nil)
			err := sc.Present(1, 0)

			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("Present() error = %v", err)
				}
			} else if backend.StatusOf(err) != tt.wantStatus {
				t.Fatalf("Present() error = %v, want %v", err, tt.wantStatus)
			}
			if fd.encoder == nil {
				t.Fatal("no command encoder was created")
			}
			if fd.encoder.discarded != tt.wantDiscarded {
				t.Errorf("discarded = %v, want %v", fd.encoder.discarded, tt.wantDiscarded)
			}
			if !fd.encoder.destroyed {
				t.Error("command encoder was not destroyed")
			}
		})
	}
}

func TestPresentAfterRelease(t *testing.T) {
	dev, _, _, cleanup := createNoopDevice(t, newNoopDriver())
	defer cleanup()

	sc, _ := dev.CreateSwapChain(backend.SwapChainDescriptor{Width: 8, Height: 8})
	sc.Release()
	sc.Release()

	if err := sc.Present(1, 0); backend.StatusOf(err) != backend.StatusInvalidCall {
		t.Errorf("Present() after Release error = %v, want StatusInvalidCall", err)
	}
}

func TestPresentPacing(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := newNoopDriver(WithClock(clock), WithRefreshRate(60))
	dev, _, _, cleanup := createNoopDevice(t, d)
	defer cleanup()

	sc, _ := dev.CreateSwapChain(backend.SwapChainDescriptor{Width: 8, Height: 8})
	defer sc.Release()

	// The first Present never waits.
	if err := sc.Present(1, 0); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	// A full refresh period has already passed: no wait.
	clock.Advance(time.Second / 60)
	if err := sc.Present(1, 0); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	// Sync interval 0 never waits.
	if err := sc.Present(0, 0); err != nil {
		t.Fatalf("Present(0) error = %v", err)
	}
	if n := sc.(*SwapChain).Presents(); n != 3 {
		t.Errorf("Presents() = %d, want 3", n)
	}
}

func TestDeviceReleaseIdempotent(t *testing.T) {
	dev, ctx, _, _ := createNoopDevice(t, newNoopDriver())
	ctx.Release()
	dev.Release()
	dev.Release()

	if !dev.Released() {
		t.Error("Released() = false after Release")
	}
	if _, err := dev.CreateSwapChain(backend.SwapChainDescriptor{Width: 8, Height: 8}); !errors.Is(err, backend.ErrReleased) {
		t.Errorf("CreateSwapChain() after Release error = %v, want ErrReleased", err)
	}
}

func TestCompileSPIRV(t *testing.T) {
	code, err := compileSPIRV(backgroundShaderWGSL)
	if err != nil {
		t.Fatalf("compileSPIRV() error = %v", err)
	}
	// SPIR-V magic number.
	if len(code) == 0 || code[0] != 0x07230203 {
		t.Errorf("compileSPIRV() did not produce SPIR-V")
	}
}

func TestSetLogger(t *testing.T) {
	orig := slogger()
	t.Cleanup(func() { setLogger(orig) })

	var buf bytes.Buffer
	d := newNoopDriver()
	d.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	_, _, _, cleanup := createNoopDevice(t, d)
	defer cleanup()
	if !bytes.Contains(buf.Bytes(), []byte("wgpu: device opened")) {
		t.Errorf("log output = %q, want device opened line", buf.String())
	}

	d.SetLogger(nil)
	if slogger() == nil {
		t.Error("SetLogger(nil) should install a nop logger")
	}
}
