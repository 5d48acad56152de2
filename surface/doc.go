// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface owns the presentation resources of a window.
//
// A Surface holds three objects derived from a device and the output size:
// the swap chain with its back buffer, a render-target view over the back
// buffer, and a depth/stencil view of the same size. They are built together
// and released together:
//
//	s := surface.New(window)
//	if err := s.Create(dev, 800, 600); err != nil {
//		return err // no partial resources are left behind
//	}
//	defer s.Release()
//
// Create may be called again at any time, e.g. after a window resize or when
// the device was recreated. The previous resources are released before the
// new ones are allocated.
package surface
