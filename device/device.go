// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device describes the GPU driver surface the bootstrap talks to,
// along with the plain data it hands back. A Vulkan backed implementation
// lives in this package, test doubles live in devicetest.
package device

import (
	"fmt"
	"strings"
)

// Handle is an opaque driver object: a connection, a physical device,
// a diagnostics hook or a logical device.
type Handle interface{}

// Class identifies the kind of hardware behind a physical device.
type Class int

// Device classes, as reported by the driver
const (
	ClassOther Class = iota
	ClassIntegrated
	ClassDiscrete
	ClassVirtual
	ClassSoftware
)

func (c Class) String() string {
	switch c {
	case ClassIntegrated:
		return "integrated GPU"
	case ClassDiscrete:
		return "discrete GPU"
	case ClassVirtual:
		return "virtual GPU"
	case ClassSoftware:
		return "CPU"
	default:
		return "other"
	}
}

// MarshalText makes classes readable in JSON dumps.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// QueueCapability is a set of work kinds a queue family accepts.
type QueueCapability uint32

// Queue capability bits
const (
	QueueGraphics QueueCapability = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

// QueueFamily describes a group of queues sharing capabilities.
type QueueFamily struct {
	Index        uint32
	Count        uint32
	Capabilities QueueCapability
}

// Supports reports whether every bit in c is present.
func (qf QueueFamily) Supports(c QueueCapability) bool {
	return qf.Capabilities&c == c
}

func (qf QueueFamily) String() string {
	var caps []string
	for _, c := range []struct {
		bit  QueueCapability
		name string
	}{
		{QueueGraphics, "graphics"},
		{QueueCompute, "compute"},
		{QueueTransfer, "transfer"},
		{QueueSparseBinding, "sparse"},
	} {
		if qf.Supports(c.bit) {
			caps = append(caps, c.name)
		}
	}
	if len(caps) == 0 {
		caps = append(caps, "none")
	}
	return fmt.Sprintf("queue family %d: %d queues [%s]", qf.Index, qf.Count, strings.Join(caps, " "))
}

// Properties describes available physical properties of a rendering device
type Properties struct {
	Name          string
	Class         Class
	DeviceID      uint32
	VendorID      uint32
	APIVersion    uint32
	DriverVersion uint32
	Memory        uint64
}

// ApplicationInfo identifies the application to the driver.
type ApplicationInfo struct {
	Name          string
	Version       uint32
	EngineName    string
	EngineVersion uint32
	APIVersion    uint32
}

// MakeVersion packs a version the way Vulkan does.
func MakeVersion(major, minor, patch uint32) uint32 {
	return major<<22 | minor<<12 | patch
}

// HookDescriptor describes a diagnostics hook. It is either embedded into
// a ConnectionRequest or installed on a live connection.
type HookDescriptor struct {
	MinSeverity Severity
	Categories  Category
	Handler     MessageHandler
}

// ConnectionRequest carries everything needed to open a connection.
// Hook is nil when diagnostics are not wanted.
type ConnectionRequest struct {
	Application ApplicationInfo
	Extensions  []string
	Layers      []string
	Hook        *HookDescriptor
}

// LogicalRequest carries everything needed to create a logical device
// on a physical one. Priorities holds one entry per requested queue.
type LogicalRequest struct {
	QueueFamily uint32
	Priorities  []float32
	Extensions  []string
	Layers      []string
}

// Driver is the GPU driver layer. Every call is synchronous. A call that
// returns an error produces no output the caller may rely on.
type Driver interface {
	// Layers lists layer names available to new connections
	Layers() ([]string, error)

	CreateConnection(req ConnectionRequest) (Handle, error)
	DestroyConnection(conn Handle)

	// InstallHook attaches a persistent diagnostics hook to a live connection
	InstallHook(conn Handle, hook HookDescriptor) (Handle, error)
	RemoveHook(conn Handle, hook Handle)

	// PhysicalDevices returns handles of every device visible to the connection
	PhysicalDevices(conn Handle) ([]Handle, error)
	Properties(physical Handle) Properties
	QueueFamilies(physical Handle) []QueueFamily

	CreateLogicalContext(physical Handle, req LogicalRequest) (Handle, error)
	DestroyLogicalContext(logical Handle)
}
