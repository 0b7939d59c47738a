// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"sync"

	"github.com/devblok/vkboot/device"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// PhysicalDevice is a read-only snapshot of an enumerated device. It is
// only meaningful while the Instance it came from is alive.
type PhysicalDevice struct {
	handle     device.Handle
	properties device.Properties
	families   []device.QueueFamily
}

// Handle returns the driver handle of the device
func (pd *PhysicalDevice) Handle() device.Handle {
	return pd.handle
}

// Name returns the human readable device name
func (pd *PhysicalDevice) Name() string {
	return pd.properties.Name
}

// Class returns the kind of hardware
func (pd *PhysicalDevice) Class() device.Class {
	return pd.properties.Class
}

// Properties returns everything known about the device
func (pd *PhysicalDevice) Properties() device.Properties {
	return pd.properties
}

// QueueFamilies returns the queue families in driver order
func (pd *PhysicalDevice) QueueFamilies() []device.QueueFamily {
	return append([]device.QueueFamily(nil), pd.families...)
}

func (pd *PhysicalDevice) String() string {
	return fmt.Sprintf("%s %s, id: %d, API version: %d, driver version: %d",
		pd.properties.Class, pd.properties.Name, pd.properties.DeviceID,
		pd.properties.APIVersion, pd.properties.DriverVersion)
}

// NewCatalog creates an empty catalog over the instance's connection.
// Nothing is queried until the first Enumerate.
func NewCatalog(instance *Instance) *Catalog {
	return &Catalog{
		instance: instance,
	}
}

// Catalog caches the physical devices visible to an Instance and picks
// one of them for rendering. It is safe for concurrent use.
type Catalog struct {
	instance *Instance

	mu      sync.Mutex
	devices []*PhysicalDevice
}

// Enumerate returns the devices visible to the connection. The cached list
// is returned as is unless it's empty or force is set, in which case the
// cache is dropped and the driver queried again.
func (c *Catalog) Enumerate(force bool) ([]*PhysicalDevice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enumerate(force)
}

// Refresh drops the cache and enumerates again
func (c *Catalog) Refresh() ([]*PhysicalDevice, error) {
	return c.Enumerate(true)
}

func (c *Catalog) enumerate(force bool) ([]*PhysicalDevice, error) {
	if !c.instance.alive() {
		c.devices = nil
		return nil, errors.Wrap(ErrNoDevice, "instance is destroyed")
	}
	if force {
		c.devices = nil
	}
	if len(c.devices) > 0 {
		return append([]*PhysicalDevice(nil), c.devices...), nil
	}

	c.instance.logger.Info("Fetching physical devices available")

	driver := c.instance.driver
	handles, err := driver.PhysicalDevices(c.instance.connection)
	if err != nil {
		return nil, errors.Wrapf(ErrNoDevice, "vk.EnumeratePhysicalDevices(): %s", err)
	}
	if len(handles) == 0 {
		return nil, errors.WithStack(ErrNoDevice)
	}

	devices := make([]*PhysicalDevice, 0, len(handles))
	for _, h := range handles {
		pd := &PhysicalDevice{
			handle:     h,
			properties: driver.Properties(h),
			families:   driver.QueueFamilies(h),
		}
		c.instance.logger.WithFields(log.Fields{
			"class":    pd.properties.Class.String(),
			"families": len(pd.families),
		}).Info(pd.properties.Name)
		devices = append(devices, pd)
	}

	c.devices = devices
	return append([]*PhysicalDevice(nil), devices...), nil
}

// PickDevice returns the first discrete GPU, or failing that the first
// integrated GPU, or failing that whatever device was enumerated first.
func (c *Catalog) PickDevice(force bool) (*PhysicalDevice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	devices, err := c.enumerate(force)
	if err != nil {
		return nil, err
	}
	return selectDevice(devices), nil
}

func selectDevice(devices []*PhysicalDevice) *PhysicalDevice {
	for _, class := range []device.Class{device.ClassDiscrete, device.ClassIntegrated} {
		for _, pd := range devices {
			if pd.Class() == class {
				return pd
			}
		}
	}
	return devices[0]
}

// DeviceInfo is the exported summary of a catalogued device.
type DeviceInfo struct {
	Name            string
	Class           device.Class
	DeviceID        uint32
	VendorID        uint32
	APIVersion      uint32
	DriverVersion   uint32
	Memory          uint64
	QueueFamilies   []QueueFamilyInfo
	BestQueueFamily *uint32 `json:",omitempty"`
	Selected        bool
}

// QueueFamilyInfo is the exported summary of a queue family.
type QueueFamilyInfo struct {
	Index    uint32
	Count    uint32
	Graphics bool
	Compute  bool
	Transfer bool
	Score    int
}

// Info summarises every catalogued device and marks the one PickDevice
// would return.
func (c *Catalog) Info() ([]DeviceInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	devices, err := c.enumerate(false)
	if err != nil {
		return nil, err
	}
	selected := selectDevice(devices)

	infos := make([]DeviceInfo, 0, len(devices))
	for _, pd := range devices {
		props := pd.Properties()
		info := DeviceInfo{
			Name:          props.Name,
			Class:         props.Class,
			DeviceID:      props.DeviceID,
			VendorID:      props.VendorID,
			APIVersion:    props.APIVersion,
			DriverVersion: props.DriverVersion,
			Memory:        props.Memory,
			Selected:      pd == selected,
		}
		for _, qf := range pd.families {
			info.QueueFamilies = append(info.QueueFamilies, QueueFamilyInfo{
				Index:    qf.Index,
				Count:    qf.Count,
				Graphics: qf.Supports(device.QueueGraphics),
				Compute:  qf.Supports(device.QueueCompute),
				Transfer: qf.Supports(device.QueueTransfer),
				Score:    ScoreQueueFamily(qf),
			})
		}
		if idx, err := pd.BestGraphicsFamilyIndex(); err == nil {
			info.BestQueueFamily = &idx
		}
		infos = append(infos, info)
	}
	return infos, nil
}
