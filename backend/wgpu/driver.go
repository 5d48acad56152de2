//go:build !nogpu

package wgpu

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gameloop/backend"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/jonboulle/clockwork"

	// Register the Vulkan HAL backend.
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

func init() {
	backend.Register(backend.DriverWGPU, func() backend.Driver {
		return New()
	})
}

const (
	// DefaultRefreshRate is the display refresh rate Present paces to.
	DefaultRefreshRate = 60

	// DefaultPresentTimeout bounds the fence wait of one Present.
	DefaultPresentTimeout = 5 * time.Second
)

// InstanceFunc creates a HAL instance.
type InstanceFunc func(desc *hal.InstanceDescriptor) (hal.Instance, error)

// VulkanInstance creates a Vulkan HAL instance.
func VulkanInstance(desc *hal.InstanceDescriptor) (hal.Instance, error) {
	api, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("wgpu: vulkan: %w", backend.ErrBackendNotAvailable)
	}
	return api.CreateInstance(desc)
}

// Driver creates devices on a HAL instance.
type Driver struct {
	newInstance    InstanceFunc
	clock          clockwork.Clock
	refreshRate    int
	presentTimeout time.Duration
}

// Option configures a Driver.
type Option func(*Driver)

// WithInstance sets the HAL instance creator.
func WithInstance(fn InstanceFunc) Option {
	return func(d *Driver) {
		if fn != nil {
			d.newInstance = fn
		}
	}
}

// WithClock sets the clock used for present pacing.
func WithClock(c clockwork.Clock) Option {
	return func(d *Driver) {
		if c != nil {
			d.clock = c
		}
	}
}

// WithRefreshRate sets the refresh rate in Hz. Zero or less disables pacing.
func WithRefreshRate(hz int) Option {
	return func(d *Driver) { d.refreshRate = hz }
}

// WithPresentTimeout bounds the fence wait of one Present.
func WithPresentTimeout(t time.Duration) Option {
	return func(d *Driver) {
		if t > 0 {
			d.presentTimeout = t
		}
	}
}

// New creates a driver. Without options it uses Vulkan, the real clock and
// 60 Hz pacing.
func New(opts ...Option) *Driver {
	d := &Driver{
		newInstance:    VulkanInstance,
		clock:          clockwork.NewRealClock(),
		refreshRate:    DefaultRefreshRate,
		presentTimeout: DefaultPresentTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the driver identifier.
func (d *Driver) Name() string { return backend.DriverWGPU }

// SetLogger sets the logger for the driver.
// Called by gameloop.SetLogger to propagate logging configuration.
func (d *Driver) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// CreateDevice opens a device on the first adapter of a new instance.
func (d *Driver) CreateDevice(req backend.DeviceRequest) (backend.Device, backend.Context, backend.FeatureLevel, error) {
	desc := &hal.InstanceDescriptor{}
	if req.Debug {
		desc.Flags = gputypes.InstanceFlagsDebug | gputypes.InstanceFlagsValidation
	}
	instance, err := d.newInstance(desc)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("wgpu: create instance: %w: %w", backend.StatusUnsupported, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, 0, fmt.Errorf("wgpu: %w: %w", backend.ErrNoAdapter, backend.StatusUnsupported)
	}
	adapter := &adapters[0]

	supported := adapterLevel(adapter.Info.DeviceType)
	level, ok := backend.Negotiate(req.FeatureLevels, supported)
	if !ok {
		instance.Destroy()
		return nil, nil, 0, fmt.Errorf("wgpu: adapter %q supports up to %v: %w",
			adapter.Info.Name, supported, backend.StatusUnsupported)
	}

	openDev, err := adapter.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, 0, fmt.Errorf("wgpu: open device: %w: %w", backend.StatusFail, err)
	}

	dev := &Device{
		drv:      d,
		instance: instance,
		adapter:  adapter.Adapter,
		info:     adapter.Info,
		device:   openDev.Device,
		queue:    openDev.Queue,
		label:    req.Label,
	}
	if err := dev.createBackground(); err != nil {
		dev.Release()
		return nil, nil, 0, fmt.Errorf("wgpu: %w: %w", backend.StatusDriverInternalError, err)
	}

	slogger().Info("wgpu: device opened",
		"adapter", adapter.Info.Name,
		"feature_level", level.String(),
		"debug", req.Debug)
	dev.ctx = &Context{dev: dev}
	return dev, dev.ctx, level, nil
}

// adapterLevel maps the adapter type to the highest feature level it is
// treated as supporting. Hardware GPUs get the full range.
func adapterLevel(t gputypes.DeviceType) backend.FeatureLevel {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU:
		return backend.FeatureLevel11_1
	default:
		return backend.FeatureLevel10_0
	}
}

// adapterType maps a HAL device type to the gpucontext adapter type.
func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

var _ backend.Driver = (*Driver)(nil)
