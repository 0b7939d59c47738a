// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"io/ioutil"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkboot/core"
	"github.com/devblok/vkboot/device"
	"github.com/devblok/vkboot/device/devicetest"
)

var (
	graphicsOnly = device.QueueFamily{Count: 2, Capabilities: device.QueueGraphics}
	graphicsXfer = device.QueueFamily{Count: 4, Capabilities: device.QueueGraphics | device.QueueTransfer}
	computeOnly  = device.QueueFamily{Count: 8, Capabilities: device.QueueCompute}
)

type extensions []string

func (e extensions) RequiredExtensions() []string {
	return e
}

func quietLogger() log.FieldLogger {
	logger := log.New()
	logger.Out = ioutil.Discard
	return logger
}

func testConfiguration(diagnostics bool) core.Configuration {
	cfg := core.DefaultConfiguration()
	cfg.Diagnostics = diagnostics
	cfg.Logger = quietLogger()
	cfg.Handler = core.NewDiagnosticsBridge(ioutil.Discard)
	return cfg
}

func validationDriver(devices ...devicetest.Device) *devicetest.Driver {
	return &devicetest.Driver{
		AvailableLayers: []string{"VK_LAYER_LUNARG_api_dump", "VK_LAYER_KHRONOS_validation"},
		Devices:         devices,
	}
}
