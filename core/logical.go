// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"sync"

	"github.com/devblok/vkboot/device"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// NewLogicalContext creates a logical device on pd with one queue taken
// from the given family at full priority. No device extensions or features
// are enabled. Layers are inherited from the instance, which older
// validation paths still look at.
func NewLogicalContext(instance *Instance, pd *PhysicalDevice, family uint32) (*LogicalContext, error) {
	if !instance.alive() {
		return nil, errors.Wrap(ErrDeviceCreation, "instance is destroyed")
	}

	var known bool
	for _, qf := range pd.families {
		if qf.Index == family {
			known = true
			break
		}
	}
	if !known {
		return nil, errors.Wrapf(ErrDeviceCreation, "no queue family %d on %s", family, pd.Name())
	}

	req := device.LogicalRequest{
		QueueFamily: family,
		Priorities:  []float32{1.0},
		Layers:      instance.Layers(),
	}

	handle, err := instance.driver.CreateLogicalContext(pd.handle, req)
	if err != nil {
		return nil, errors.Wrapf(ErrDeviceCreation, "vk.CreateDevice(): %s", err)
	}

	lc := &LogicalContext{
		instance: instance,
		device:   pd,
		family:   family,
		handle:   handle,
	}
	if err := instance.track(lc); err != nil {
		instance.driver.DestroyLogicalContext(handle)
		return nil, errors.Wrap(ErrDeviceCreation, err.Error())
	}

	instance.logger.WithFields(log.Fields{
		"device":      pd.Name(),
		"queueFamily": family,
	}).Info("Logical device created")
	return lc, nil
}

// LogicalContext is a logical device bound to one physical device and one
// queue family. It must be destroyed before its Instance.
type LogicalContext struct {
	Destroyable

	instance *Instance
	device   *PhysicalDevice
	family   uint32
	handle   device.Handle

	once sync.Once
}

// Handle returns the driver handle of the logical device
func (lc *LogicalContext) Handle() device.Handle {
	return lc.handle
}

// PhysicalDevice returns the device the context was created on
func (lc *LogicalContext) PhysicalDevice() *PhysicalDevice {
	return lc.device
}

// QueueFamily returns the index of the queue family in use
func (lc *LogicalContext) QueueFamily() uint32 {
	return lc.family
}

// Destroy releases the logical device. Calling it again does nothing.
func (lc *LogicalContext) Destroy() {
	if lc == nil {
		return
	}
	lc.once.Do(func() {
		lc.instance.driver.DestroyLogicalContext(lc.handle)
		lc.instance.untrack(lc)
	})
}
