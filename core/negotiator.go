// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "github.com/devblok/vkboot/device"

// NewNegotiator creates a negotiator for the given driver and window system.
// The window system may be nil when nothing is presented.
func NewNegotiator(driver device.Driver, ws WindowSystem, diagnostics bool) Negotiator {
	return Negotiator{
		driver:      driver,
		window:      ws,
		diagnostics: diagnostics,
	}
}

// Negotiator decides which extensions and layers to request from the driver.
type Negotiator struct {
	driver      device.Driver
	window      WindowSystem
	diagnostics bool
}

// RequiredExtensions returns the window system extensions, followed by the
// diagnostics extension when diagnostics are enabled. Each name appears once.
func (n Negotiator) RequiredExtensions() []string {
	var names []string
	if n.window != nil {
		names = append(names, n.window.RequiredExtensions()...)
	}
	if n.diagnostics {
		names = append(names, device.DebugExtensionName)
	}

	seen := make(map[string]bool, len(names))
	extensions := make([]string, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		extensions = append(extensions, name)
	}
	return extensions
}

// LayersSupported reports whether the driver offers every requested layer.
// Names are matched exactly.
func (n Negotiator) LayersSupported(requested []string) (bool, error) {
	available, err := n.driver.Layers()
	if err != nil {
		return false, err
	}

	offered := make(map[string]bool, len(available))
	for _, name := range available {
		offered[name] = true
	}
	for _, name := range requested {
		if !offered[name] {
			return false, nil
		}
	}
	return true, nil
}
