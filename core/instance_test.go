// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/pkg/errors"

	"github.com/devblok/vkboot/core"
	"github.com/devblok/vkboot/device"
	"github.com/devblok/vkboot/device/devicetest"
)

func TestNewInstanceWithoutDiagnostics(t *testing.T) {
	c := qt.New(t)
	driver := &devicetest.Driver{}

	inst, err := core.NewInstance(driver, extensions{"VK_KHR_surface"}, testConfiguration(false))
	c.Assert(err, qt.IsNil)
	defer inst.Destroy()

	conn := inst.Connection().(*devicetest.Connection)
	c.Assert(conn.Request.Extensions, qt.DeepEquals, []string{"VK_KHR_surface"})
	c.Assert(conn.Request.Layers, qt.HasLen, 0)
	c.Assert(conn.Request.Hook, qt.IsNil)
	c.Assert(conn.Request.Application, qt.Equals, core.DefaultApplicationInfo)

	c.Assert(inst.DiagnosticsEnabled(), qt.IsFalse)
	c.Assert(driver.Calls("Layers"), qt.Equals, 0)
	c.Assert(driver.Calls("InstallHook"), qt.Equals, 0)
}

func TestNewInstanceWithDiagnostics(t *testing.T) {
	c := qt.New(t)
	driver := validationDriver()

	inst, err := core.NewInstance(driver, extensions{"VK_KHR_surface"}, testConfiguration(true))
	c.Assert(err, qt.IsNil)
	defer inst.Destroy()

	conn := inst.Connection().(*devicetest.Connection)
	c.Assert(conn.Request.Extensions, qt.DeepEquals, []string{"VK_KHR_surface", device.DebugExtensionName})
	c.Assert(conn.Request.Layers, qt.DeepEquals, core.DefaultValidationLayers)
	c.Assert(conn.Request.Hook, qt.Not(qt.IsNil))
	c.Assert(conn.Request.Hook.Handler, qt.Not(qt.IsNil))

	c.Assert(inst.DiagnosticsEnabled(), qt.IsTrue)
	c.Assert(inst.Layers(), qt.DeepEquals, core.DefaultValidationLayers)
	c.Assert(driver.LiveHooks(), qt.Equals, 1)
	c.Assert(driver.Events(), qt.DeepEquals, []string{
		devicetest.EventConnectionCreated,
		devicetest.EventHookInstalled,
	})
}

func TestNewInstanceUnsupportedLayers(t *testing.T) {
	c := qt.New(t)
	driver := &devicetest.Driver{AvailableLayers: []string{"VK_LAYER_LUNARG_monitor"}}

	inst, err := core.NewInstance(driver, nil, testConfiguration(true))
	c.Assert(inst, qt.IsNil)
	c.Assert(errors.Cause(err), qt.Equals, core.ErrConfiguration)
	c.Assert(driver.Calls("CreateConnection"), qt.Equals, 0)
}

func TestNewInstanceLayerQueryFailure(t *testing.T) {
	c := qt.New(t)
	driver := &devicetest.Driver{FailLayers: true}

	_, err := core.NewInstance(driver, nil, testConfiguration(true))
	c.Assert(errors.Cause(err), qt.Equals, core.ErrConfiguration)
	c.Assert(driver.Calls("CreateConnection"), qt.Equals, 0)
}

func TestNewInstanceConnectionRefused(t *testing.T) {
	c := qt.New(t)
	driver := validationDriver()
	driver.FailConnection = true

	inst, err := core.NewInstance(driver, nil, testConfiguration(true))
	c.Assert(inst, qt.IsNil)
	c.Assert(errors.Cause(err), qt.Equals, core.ErrConnection)
	c.Assert(err, qt.ErrorMatches, `vk.CreateInstance\(\): refused by test driver: connection error`)
	c.Assert(driver.Calls("CreateConnection"), qt.Equals, 1)
	c.Assert(driver.Calls("InstallHook"), qt.Equals, 0)
}

func TestNewInstanceHookFailureDestroysConnection(t *testing.T) {
	c := qt.New(t)
	driver := validationDriver()
	driver.FailHook = true

	inst, err := core.NewInstance(driver, nil, testConfiguration(true))
	c.Assert(inst, qt.IsNil)
	c.Assert(errors.Cause(err), qt.Equals, core.ErrConfiguration)
	c.Assert(driver.LiveConnections(), qt.Equals, 0)
	c.Assert(driver.Events(), qt.DeepEquals, []string{
		devicetest.EventConnectionCreated,
		devicetest.EventConnectionDestroyed,
	})

	// nothing leaked, so a new instance can be created
	driver.FailHook = false
	inst, err = core.NewInstance(driver, nil, testConfiguration(true))
	c.Assert(err, qt.IsNil)
	inst.Destroy()
}

func TestOnlyOneInstanceAlive(t *testing.T) {
	c := qt.New(t)
	driver := &devicetest.Driver{}

	first, err := core.NewInstance(driver, nil, testConfiguration(false))
	c.Assert(err, qt.IsNil)

	second, err := core.NewInstance(driver, nil, testConfiguration(false))
	c.Assert(second, qt.IsNil)
	c.Assert(errors.Cause(err), qt.Equals, core.ErrConfiguration)
	c.Assert(driver.Calls("CreateConnection"), qt.Equals, 1)

	first.Destroy()
	second, err = core.NewInstance(driver, nil, testConfiguration(false))
	c.Assert(err, qt.IsNil)
	second.Destroy()
}

func TestInstanceTeardownOrder(t *testing.T) {
	c := qt.New(t)
	driver := validationDriver()

	inst, err := core.NewInstance(driver, nil, testConfiguration(true))
	c.Assert(err, qt.IsNil)
	inst.Destroy()

	events := driver.Events()
	c.Assert(events, qt.DeepEquals, []string{
		devicetest.EventConnectionCreated,
		devicetest.EventHookInstalled,
		devicetest.EventHookRemoved,
		devicetest.EventConnectionDestroyed,
	})
	c.Assert(driver.LiveHooks(), qt.Equals, 0)
	c.Assert(driver.LiveConnections(), qt.Equals, 0)
}

func TestInstanceDestroyTwice(t *testing.T) {
	c := qt.New(t)
	driver := validationDriver()

	inst, err := core.NewInstance(driver, nil, testConfiguration(true))
	c.Assert(err, qt.IsNil)
	inst.Destroy()
	inst.Destroy()

	c.Assert(driver.Calls("RemoveHook"), qt.Equals, 1)
	c.Assert(driver.Calls("DestroyConnection"), qt.Equals, 1)
}

func TestInstanceRoutesDriverMessages(t *testing.T) {
	c := qt.New(t)
	driver := validationDriver()

	var received []device.Message
	cfg := testConfiguration(true)
	cfg.Handler = device.MessageHandlerFunc(func(msg device.Message) bool {
		received = append(received, msg)
		return false
	})

	inst, err := core.NewInstance(driver, nil, cfg)
	c.Assert(err, qt.IsNil)
	defer inst.Destroy()

	msg := device.Message{Severity: device.SeverityWarning, Category: device.CategoryValidation, Text: "bad"}
	c.Assert(driver.Emit(msg), qt.IsFalse)
	c.Assert(received, qt.DeepEquals, []device.Message{msg})
}
