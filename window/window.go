// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package window provides the windowing layer the bootstrap presents onto.
package window

// Configuration describes the window to open
type Configuration struct {
	Title  string
	Width  int32
	Height int32
}

// DefaultConfiguration is an 800x600 window
var DefaultConfiguration = Configuration{
	Title:  "Koru3D",
	Width:  800,
	Height: 600,
}

// Headless stands in for a window system when nothing is presented.
type Headless struct {
	Extensions []string
}

// RequiredExtensions implements core.WindowSystem
func (h Headless) RequiredExtensions() []string {
	return append([]string(nil), h.Extensions...)
}
