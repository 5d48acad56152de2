// Package backend defines the graphics driver abstraction used by gameloop.
//
// A Driver creates a Device and its immediate Context. The Device creates
// presentation resources (SwapChain, RenderTargetView, DepthStencilView);
// the Context records clears, render-target binding, and viewport state; the
// SwapChain presents. Results are reported as Status codes that follow the
// DXGI HRESULT values, so device loss is detected with IsDeviceLost.
//
// # Driver Registration
//
// Drivers are registered via init() functions and selected at runtime:
//
//	import _ "github.com/gogpu/gameloop/backend/null"
//	import _ "github.com/gogpu/gameloop/backend/wgpu"
//
// # Driver Selection
//
// Use Default() to get the best available driver, or Get() to request one
// by name:
//
//	d := backend.Default()
//	d := backend.Get(backend.DriverNull)
//
// # Available Drivers
//
//   - "null": in-memory driver with fault injection (always available)
//   - "wgpu": gogpu/wgpu HAL driver (Vulkan by default, excluded by the nogpu tag)
//
// # Feature Levels
//
// Devices are created against an ordered list of FeatureLevel values.
// Negotiate picks the first requested level the adapter supports.
package backend
