// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package device manages the logical graphics device and its immediate context.
//
// A Manager asks its backend.Driver for a device on the default adapter,
// offering feature levels from 11.1 down to 9.1, and keeps the level the
// driver accepted. Create always releases the previous pair first, so the
// Manager never holds two devices.
package device
