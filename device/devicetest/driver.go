// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package devicetest provides an in-memory device.Driver for tests.
package devicetest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/devblok/vkboot/device"
)

// Events recorded by Driver, in call order
const (
	EventConnectionCreated   = "connection created"
	EventConnectionDestroyed = "connection destroyed"
	EventHookInstalled       = "hook installed"
	EventHookRemoved         = "hook removed"
	EventLogicalCreated      = "logical context created"
	EventLogicalDestroyed    = "logical context destroyed"
)

// ErrRefused is returned by calls configured to fail.
var ErrRefused = errors.New("refused by test driver")

// Device is a physical device the fake driver exposes.
type Device struct {
	Properties    device.Properties
	QueueFamilies []device.QueueFamily
}

// NewDevice is a shorthand for a device with the given name, class
// and queue families, indexed in order.
func NewDevice(name string, class device.Class, families ...device.QueueFamily) Device {
	for i := range families {
		families[i].Index = uint32(i)
	}
	return Device{
		Properties: device.Properties{
			Name:  name,
			Class: class,
		},
		QueueFamilies: families,
	}
}

// Connection is the handle the fake hands out for connections.
type Connection struct {
	Request device.ConnectionRequest
}

// Hook is the handle the fake hands out for diagnostics hooks.
type Hook struct {
	Descriptor device.HookDescriptor
}

// Physical is the handle the fake hands out for physical devices.
type Physical struct {
	Index int
}

// Logical is the handle the fake hands out for logical devices.
type Logical struct {
	Physical Physical
	Request  device.LogicalRequest
}

var _ device.Driver = (*Driver)(nil)

// Driver is a scriptable device.Driver. Zero value is usable and exposes
// no layers and no devices.
type Driver struct {
	mu sync.Mutex

	AvailableLayers []string
	Devices         []Device

	FailLayers     bool
	FailConnection bool
	FailHook       bool
	FailEnumerate  bool
	FailLogical    bool

	calls  map[string]int
	events []string

	connections map[*Connection]bool
	hooks       map[*Hook]bool
	logicals    map[*Logical]bool
}

// Calls returns how many times the named Driver method was called.
func (d *Driver) Calls(method string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[method]
}

// Events returns the lifecycle events recorded so far.
func (d *Driver) Events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.events...)
}

// LiveConnections returns the number of connections not yet destroyed.
func (d *Driver) LiveConnections() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.connections)
}

// LiveHooks returns the number of hooks not yet removed.
func (d *Driver) LiveHooks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.hooks)
}

// LiveLogicals returns the number of logical contexts not yet destroyed.
func (d *Driver) LiveLogicals() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.logicals)
}

// Emit delivers a message to every installed hook, the way a validation
// layer would. It reports whether any handler asked to abort.
func (d *Driver) Emit(msg device.Message) bool {
	d.mu.Lock()
	var handlers []device.MessageHandler
	for hook := range d.hooks {
		handlers = append(handlers, hook.Descriptor.Handler)
	}
	d.mu.Unlock()

	var abort bool
	for _, h := range handlers {
		if h != nil && h.OnMessage(msg) {
			abort = true
		}
	}
	return abort
}

func (d *Driver) record(method string, event string) {
	if d.calls == nil {
		d.calls = make(map[string]int)
		d.connections = make(map[*Connection]bool)
		d.hooks = make(map[*Hook]bool)
		d.logicals = make(map[*Logical]bool)
	}
	d.calls[method]++
	if event != "" {
		d.events = append(d.events, event)
	}
}

// Layers implements interface
func (d *Driver) Layers() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("Layers", "")
	if d.FailLayers {
		return nil, ErrRefused
	}
	return append([]string(nil), d.AvailableLayers...), nil
}

// CreateConnection implements interface
func (d *Driver) CreateConnection(req device.ConnectionRequest) (device.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("CreateConnection", "")
	if d.FailConnection {
		return nil, ErrRefused
	}
	conn := &Connection{Request: req}
	d.connections[conn] = true
	d.events = append(d.events, EventConnectionCreated)
	return conn, nil
}

// DestroyConnection implements interface
func (d *Driver) DestroyConnection(conn device.Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("DestroyConnection", EventConnectionDestroyed)
	if c, ok := conn.(*Connection); ok {
		delete(d.connections, c)
	}
}

// InstallHook implements interface
func (d *Driver) InstallHook(conn device.Handle, hook device.HookDescriptor) (device.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("InstallHook", "")
	if d.FailHook {
		return nil, ErrRefused
	}
	if c, ok := conn.(*Connection); !ok || !d.connections[c] {
		return nil, fmt.Errorf("install hook: unknown connection %v", conn)
	}
	h := &Hook{Descriptor: hook}
	d.hooks[h] = true
	d.events = append(d.events, EventHookInstalled)
	return h, nil
}

// RemoveHook implements interface
func (d *Driver) RemoveHook(conn device.Handle, hook device.Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("RemoveHook", EventHookRemoved)
	if h, ok := hook.(*Hook); ok {
		delete(d.hooks, h)
	}
}

// PhysicalDevices implements interface
func (d *Driver) PhysicalDevices(conn device.Handle) ([]device.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("PhysicalDevices", "")
	if d.FailEnumerate {
		return nil, ErrRefused
	}
	handles := make([]device.Handle, 0, len(d.Devices))
	for i := range d.Devices {
		handles = append(handles, Physical{Index: i})
	}
	return handles, nil
}

// Properties implements interface
func (d *Driver) Properties(physical device.Handle) device.Properties {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("Properties", "")
	if p, ok := physical.(Physical); ok && p.Index < len(d.Devices) {
		return d.Devices[p.Index].Properties
	}
	return device.Properties{}
}

// QueueFamilies implements interface
func (d *Driver) QueueFamilies(physical device.Handle) []device.QueueFamily {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("QueueFamilies", "")
	if p, ok := physical.(Physical); ok && p.Index < len(d.Devices) {
		return append([]device.QueueFamily(nil), d.Devices[p.Index].QueueFamilies...)
	}
	return nil
}

// CreateLogicalContext implements interface
func (d *Driver) CreateLogicalContext(physical device.Handle, req device.LogicalRequest) (device.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("CreateLogicalContext", "")
	if d.FailLogical {
		return nil, ErrRefused
	}
	p, ok := physical.(Physical)
	if !ok {
		return nil, fmt.Errorf("create logical context: unknown physical device %v", physical)
	}
	l := &Logical{Physical: p, Request: req}
	d.logicals[l] = true
	d.events = append(d.events, EventLogicalCreated)
	return l, nil
}

// DestroyLogicalContext implements interface
func (d *Driver) DestroyLogicalContext(logical device.Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("DestroyLogicalContext", EventLogicalDestroyed)
	if l, ok := logical.(*Logical); ok {
		delete(d.logicals, l)
	}
}
