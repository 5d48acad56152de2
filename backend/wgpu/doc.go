// Package wgpu implements the graphics driver on the gogpu/wgpu HAL.
//
// The driver opens a HAL device on the first adapter of an instance. Vulkan
// is used by default; any instance creator can be supplied with
// WithInstance, e.g. the noop HAL in tests:
//
//	drv := wgpu.New(wgpu.WithInstance(func(desc *hal.InstanceDescriptor) (hal.Instance, error) {
//	    return noop.API{}.CreateInstance(desc)
//	}))
//
// The swap chain is a BGRA8 back-buffer texture. Clears and the viewport
// recorded on the Context are encoded into one render pass at Present, which
// is submitted with a fence and waited on. Present is paced to the configured
// refresh rate times the sync interval.
//
// Present maps HAL failures to backend status codes: a failed submit reports
// StatusDeviceRemoved, a failed or timed-out fence wait StatusDeviceReset.
//
// The package is excluded with the nogpu build tag.
package wgpu
