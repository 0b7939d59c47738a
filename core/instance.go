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

// liveInstance guards the one-connection-per-process rule
var (
	liveInstanceMu sync.Mutex
	liveInstance   *Instance
)

// NewInstance negotiates layers and extensions, opens the driver
// connection and installs the diagnostics hook when diagnostics are
// enabled. Only one Instance may be alive at a time; it should be created
// at start up and passed to whatever needs it.
func NewInstance(driver device.Driver, ws WindowSystem, cfg Configuration) (*Instance, error) {
	liveInstanceMu.Lock()
	defer liveInstanceMu.Unlock()
	if liveInstance != nil {
		return nil, errors.Wrap(ErrConfiguration, "an instance already exists")
	}

	logger := cfg.logger()
	negotiator := NewNegotiator(driver, ws, cfg.Diagnostics)
	layers := cfg.layers()

	if cfg.Diagnostics {
		supported, err := negotiator.LayersSupported(layers)
		if err != nil {
			return nil, errors.Wrapf(ErrConfiguration, "vk.EnumerateInstanceLayerProperties(): %s", err)
		}
		if !supported {
			return nil, errors.Wrapf(ErrConfiguration, "can't support validation layers %v", layers)
		}
	}

	var hook *device.HookDescriptor
	if cfg.Diagnostics {
		handler := cfg.Handler
		if handler == nil {
			handler = NewDiagnosticsBridge(nil)
		}
		hook = &device.HookDescriptor{
			MinSeverity: device.SeverityVerbose,
			Categories:  device.CategoryAll,
			Handler:     handler,
		}
	}

	req := device.ConnectionRequest{
		Application: cfg.Application,
		Extensions:  negotiator.RequiredExtensions(),
		Layers:      layers,
		Hook:        hook,
	}

	conn, err := driver.CreateConnection(req)
	if err != nil {
		return nil, errors.Wrapf(ErrConnection, "vk.CreateInstance(): %s", err)
	}
	logger.WithFields(log.Fields{
		"extensions": req.Extensions,
		"layers":     req.Layers,
	}).Info("Vulkan instance successfully created")

	inst := &Instance{
		driver:     driver,
		logger:     logger,
		connection: conn,
		extensions: req.Extensions,
		layers:     req.Layers,
		logicals:   make(map[*LogicalContext]struct{}),
	}

	if hook != nil {
		h, err := driver.InstallHook(conn, *hook)
		if err != nil {
			driver.DestroyConnection(conn)
			return nil, errors.Wrapf(ErrConfiguration, "failed to set up debug messenger: %s", err)
		}
		inst.hook = h
	}

	liveInstance = inst
	return inst, nil
}

// Instance owns the driver connection and, when diagnostics are enabled,
// the diagnostics hook installed on it.
type Instance struct {
	Destroyable

	driver device.Driver
	logger log.FieldLogger

	connection device.Handle
	hook       device.Handle
	extensions []string
	layers     []string

	mu        sync.Mutex
	logicals  map[*LogicalContext]struct{}
	destroyed bool
}

// Driver returns the driver the instance was created with
func (i *Instance) Driver() device.Driver {
	return i.driver
}

// Connection returns the driver connection handle
func (i *Instance) Connection() device.Handle {
	return i.connection
}

// Extensions returns the enabled instance extensions
func (i *Instance) Extensions() []string {
	return append([]string(nil), i.extensions...)
}

// Layers returns the enabled layers, empty without diagnostics
func (i *Instance) Layers() []string {
	return append([]string(nil), i.layers...)
}

// DiagnosticsEnabled reports whether a diagnostics hook is installed
func (i *Instance) DiagnosticsEnabled() bool {
	return i.hook != nil
}

// alive reports whether Destroy has not run yet
func (i *Instance) alive() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return !i.destroyed
}

func (i *Instance) track(lc *LogicalContext) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed {
		return errors.New("instance is destroyed")
	}
	i.logicals[lc] = struct{}{}
	return nil
}

func (i *Instance) untrack(lc *LogicalContext) {
	i.mu.Lock()
	delete(i.logicals, lc)
	i.mu.Unlock()
}

// Destroy releases logical devices still alive, removes the diagnostics
// hook and destroys the connection, in that order. Calling it again does
// nothing.
func (i *Instance) Destroy() {
	if i == nil {
		return
	}

	i.mu.Lock()
	if i.destroyed {
		i.mu.Unlock()
		return
	}
	i.destroyed = true
	logicals := make([]*LogicalContext, 0, len(i.logicals))
	for lc := range i.logicals {
		logicals = append(logicals, lc)
	}
	i.mu.Unlock()

	for _, lc := range logicals {
		i.logger.Warn("Destroying logical device left alive past its instance")
		lc.Destroy()
	}

	if i.hook != nil {
		i.driver.RemoveHook(i.connection, i.hook)
	}
	i.driver.DestroyConnection(i.connection)
	i.logger.Info("Destroyed Vulkan instance")

	liveInstanceMu.Lock()
	if liveInstance == i {
		liveInstance = nil
	}
	liveInstanceMu.Unlock()
}
