// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/vkboot/device"
	log "github.com/sirupsen/logrus"
)

// Bootstrap brings up everything needed to submit work: the instance, the
// device catalog, the chosen physical device and a logical device on its
// best graphics queue family. On failure whatever was created is destroyed
// before the error is returned.
func Bootstrap(driver device.Driver, ws WindowSystem, cfg Configuration) (*Session, error) {
	instance, err := NewInstance(driver, ws, cfg)
	if err != nil {
		return nil, err
	}

	catalog := NewCatalog(instance)
	physical, err := catalog.PickDevice(false)
	if err != nil {
		instance.Destroy()
		return nil, err
	}

	family, err := physical.BestGraphicsFamilyIndex()
	if err != nil {
		instance.Destroy()
		return nil, err
	}

	logical, err := NewLogicalContext(instance, physical, family)
	if err != nil {
		instance.Destroy()
		return nil, err
	}

	instance.logger.WithFields(log.Fields{
		"class":       physical.Class().String(),
		"queueFamily": family,
	}).Info("Chosen device: " + physical.Name())

	return &Session{
		Instance: instance,
		Catalog:  catalog,
		Physical: physical,
		Logical:  logical,
	}, nil
}

// Session holds the objects created by Bootstrap.
type Session struct {
	Destroyable

	Instance *Instance
	Catalog  *Catalog
	Physical *PhysicalDevice
	Logical  *LogicalContext
}

// Destroy tears the session down in reverse creation order
func (s *Session) Destroy() {
	if s == nil {
		return
	}
	s.Logical.Destroy()
	s.Instance.Destroy()
}
