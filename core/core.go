// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core bootstraps a GPU execution context: it negotiates layers
// and extensions with the driver, opens the connection, installs the
// diagnostics hook, catalogs physical devices and binds a logical device
// to the most suitable queue family.
package core

// WindowSystem is the part of the windowing layer the bootstrap needs.
type WindowSystem interface {
	// RequiredExtensions returns instance extensions the window system
	// needs to present onto its surfaces
	RequiredExtensions() []string
}

// Destroyable is anything owning driver resources that must be released.
type Destroyable interface {
	Destroy()
}
