package null

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gameloop/backend"
	"github.com/gogpu/gputypes"
)

func newDevice(t *testing.T, d *Driver) (backend.Device, backend.Context) {
	t.Helper()
	dev, ctx, _, err := d.CreateDevice(backend.DeviceRequest{FeatureLevels: backend.DefaultFeatureLevels()})
	if err != nil {
		t.Fatalf("CreateDevice() error = %v", err)
	}
	return dev, ctx
}

func TestDriverRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.DriverNull) {
		t.Fatal("null driver should be auto-registered")
	}
	if d := backend.Get(backend.DriverNull); d == nil || d.Name() != backend.DriverNull {
		t.Errorf("Get(null) = %v, want null driver", d)
	}
}

func TestCreateDeviceNegotiates(t *testing.T) {
	tests := []struct {
		supported backend.FeatureLevel
		want      backend.FeatureLevel
	}{
		{backend.FeatureLevel11_1, backend.FeatureLevel11_1},
		{backend.FeatureLevel10_0, backend.FeatureLevel10_0},
		{backend.FeatureLevel9_1, backend.FeatureLevel9_1},
	}
	for _, tt := range tests {
		d := New()
		d.Supported = tt.supported
		_, _, level, err := d.CreateDevice(backend.DeviceRequest{FeatureLevels: backend.DefaultFeatureLevels()})
		if err != nil {
			t.Fatalf("CreateDevice() error = %v", err)
		}
		if level != tt.want {
			t.Errorf("supported %v: level = %v, want %v", tt.supported, level, tt.want)
		}
	}
}

func TestCreateDeviceUnsupported(t *testing.T) {
	d := New()
	d.Supported = backend.FeatureLevel10_0
	_, _, _, err := d.CreateDevice(backend.DeviceRequest{
		FeatureLevels: []backend.FeatureLevel{backend.FeatureLevel11_1, backend.FeatureLevel11_0},
	})
	if backend.StatusOf(err) != backend.StatusUnsupported {
		t.Errorf("CreateDevice() error = %v, want StatusUnsupported", err)
	}
}

func TestCreateDeviceFault(t *testing.T) {
	d := New()
	d.FailCreateDevice = backend.StatusDriverInternalError
	_, _, _, err := d.CreateDevice(backend.DeviceRequest{FeatureLevels: backend.DefaultFeatureLevels(), Debug: true})
	if !errors.Is(err, backend.StatusDriverInternalError) {
		t.Errorf("CreateDevice() error = %v, want StatusDriverInternalError", err)
	}
	if !d.LastDebug() {
		t.Error("LastDebug() = false, want true")
	}
	if d.Stats().DeviceCreations != 0 {
		t.Errorf("DeviceCreations = %d, want 0", d.Stats().DeviceCreations)
	}
}

func TestResourceLifecycleCounts(t *testing.T) {
	d := New()
	dev, ctx := newDevice(t, d)

	sc, err := dev.CreateSwapChain(backend.SwapChainDescriptor{Width: 64, Height: 32, Format: gputypes.TextureFormatBGRA8Unorm})
	if err != nil {
		t.Fatalf("CreateSwapChain() error = %v", err)
	}
	rtv, err := dev.CreateRenderTargetView(sc)
	if err != nil {
		t.Fatalf("CreateRenderTargetView() error = %v", err)
	}
	dsv, err := dev.CreateDepthStencilView(backend.DepthStencilDescriptor{Width: 64, Height: 32})
	if err != nil {
		t.Fatalf("CreateDepthStencilView() error = %v", err)
	}

	if got := d.Stats().Live; got != 5 {
		t.Errorf("Live = %d, want 5", got)
	}

	dsv.Release()
	rtv.Release()
	sc.Release()
	sc.Release() // idempotent
	ctx.Release()
	dev.Release()

	s := d.Stats()
	if s.Live != 0 {
		t.Errorf("Live = %d after release, want 0", s.Live)
	}
	if s.Releases != 5 {
		t.Errorf("Releases = %d, want 5", s.Releases)
	}
	if s.Orphaned != 0 {
		t.Errorf("Orphaned = %d, want 0", s.Orphaned)
	}

	want := []string{KindDepthStencil, KindRenderTarget, KindSwapChain, KindContext, KindDevice}
	if got := d.ReleaseLog(); !slices.Equal(got, want) {
		t.Errorf("ReleaseLog() = %v, want %v", got, want)
	}
	d.ResetReleaseLog()
	if got := d.ReleaseLog(); len(got) != 0 {
		t.Errorf("ReleaseLog() after reset = %v, want empty", got)
	}
}

func TestReleaseAfterDeviceIsOrphaned(t *testing.T) {
	d := New()
	dev, ctx := newDevice(t, d)

	sc, err := dev.CreateSwapChain(backend.SwapChainDescriptor{Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("CreateSwapChain() error = %v", err)
	}
	ctx.Release()
	dev.Release()
	sc.Release()

	if got := d.Stats().Orphaned; got != 1 {
		t.Errorf("Orphaned = %d, want 1", got)
	}
}

func TestRenderTargetRejectsForeignSwapChain(t *testing.T) {
	d := New()
	devA, _ := newDevice(t, d)
	devB, _ := newDevice(t, d)

	sc, err := devA.CreateSwapChain(backend.SwapChainDescriptor{Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("CreateSwapChain() error = %v", err)
	}
	if _, err := devB.CreateRenderTargetView(sc); backend.StatusOf(err) != backend.StatusInvalidCall {
		t.Errorf("CreateRenderTargetView(foreign) error = %v, want StatusInvalidCall", err)
	}
}

func TestReleasedDeviceRejectsCreation(t *testing.T) {
	d := New()
	dev, _ := newDevice(t, d)
	dev.Release()

	if _, err := dev.CreateSwapChain(backend.SwapChainDescriptor{Width: 8, Height: 8}); !errors.Is(err, backend.ErrReleased) {
		t.Errorf("CreateSwapChain() error = %v, want ErrReleased", err)
	}
}

func TestPresentFaults(t *testing.T) {
	d := New()
	dev, _ := newDevice(t, d)
	sc, err := dev.CreateSwapChain(backend.SwapChainDescriptor{Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("CreateSwapChain() error = %v", err)
	}

	d.FailPresent(2, backend.StatusDeviceRemoved)

	if err := sc.Present(1, 0); err != nil {
		t.Errorf("Present #1 error = %v, want nil", err)
	}
	if err := sc.Present(1, 0); !backend.IsDeviceLost(err) {
		t.Errorf("Present #2 error = %v, want device lost", err)
	}
	if err := sc.Present(1, 0); err != nil {
		t.Errorf("Present #3 error = %v, want nil", err)
	}
	if d.LastSyncInterval() != 1 {
		t.Errorf("LastSyncInterval() = %d, want 1", d.LastSyncInterval())
	}

	sc.Release()
	if err := sc.Present(1, 0); backend.StatusOf(err) != backend.StatusInvalidCall {
		t.Errorf("Present after release error = %v, want StatusInvalidCall", err)
	}
}

func TestContextRecordsCalls(t *testing.T) {
	d := New()
	_, ctx := newDevice(t, d)

	color := gputypes.Color{R: 0, G: 0, B: 0.5, A: 1}
	vp := backend.Viewport{Width: 10, Height: 20, MaxDepth: 1}

	ctx.ClearRenderTargetView(nil, color)
	ctx.ClearDepthStencilView(nil, backend.ClearDepth|backend.ClearStencil, 1, 0)
	ctx.SetRenderTargets(nil, nil)
	ctx.SetViewport(vp)

	want := []string{CallClearRenderTarget, CallClearDepthStencil, CallSetRenderTargets, CallSetViewport}
	got := d.Calls()
	if len(got) != len(want) {
		t.Fatalf("Calls() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Calls()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if d.LastClearColor() != color {
		t.Errorf("LastClearColor() = %v, want %v", d.LastClearColor(), color)
	}
	if d.LastViewport() != vp {
		t.Errorf("LastViewport() = %v, want %v", d.LastViewport(), vp)
	}
	flags, depth, stencil := d.LastDepthStencilClear()
	if flags != backend.ClearDepth|backend.ClearStencil || depth != 1 || stencil != 0 {
		t.Errorf("LastDepthStencilClear() = (%v, %v, %v), want (3, 1, 0)", flags, depth, stencil)
	}

	d.ResetCalls()
	if len(d.Calls()) != 0 {
		t.Errorf("Calls() after reset = %v, want empty", d.Calls())
	}
}
