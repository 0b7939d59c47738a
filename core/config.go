// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/vkboot/device"
	log "github.com/sirupsen/logrus"
)

// DefaultValidationLayers are requested when diagnostics are enabled
var DefaultValidationLayers = []string{
	"VK_LAYER_KHRONOS_validation",
}

// DefaultApplicationInfo describes the application to the driver
var DefaultApplicationInfo = device.ApplicationInfo{
	Name:          "Koru3D",
	Version:       device.MakeVersion(1, 0, 0),
	EngineName:    "Koru3D",
	EngineVersion: device.MakeVersion(1, 0, 0),
	APIVersion:    device.MakeVersion(1, 0, 0),
}

// Configuration describes how an Instance is bootstrapped
type Configuration struct {
	Application device.ApplicationInfo

	// Diagnostics enables validation layers and the diagnostics hook.
	// Defaults to DiagnosticsEnabled, which is set at build time
	Diagnostics bool

	// Layers requested when Diagnostics is set
	Layers []string

	// Handler receives driver diagnostics, a DiagnosticsBridge
	// writing to stderr is used when nil
	Handler device.MessageHandler

	// Logger receives lifecycle events, the standard logger when nil
	Logger log.FieldLogger
}

// DefaultConfiguration returns the configuration of the current build
func DefaultConfiguration() Configuration {
	return Configuration{
		Application: DefaultApplicationInfo,
		Diagnostics: DiagnosticsEnabled,
		Layers:      append([]string(nil), DefaultValidationLayers...),
	}
}

func (c Configuration) logger() log.FieldLogger {
	if c.Logger == nil {
		return log.StandardLogger()
	}
	return c.Logger
}

func (c Configuration) layers() []string {
	if !c.Diagnostics {
		return nil
	}
	if len(c.Layers) == 0 {
		return append([]string(nil), DefaultValidationLayers...)
	}
	return append([]string(nil), c.Layers...)
}
