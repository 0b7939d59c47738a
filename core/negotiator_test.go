// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/vkboot/core"
	"github.com/devblok/vkboot/device"
	"github.com/devblok/vkboot/device/devicetest"
)

func TestRequiredExtensions(t *testing.T) {
	c := qt.New(t)
	ws := extensions{"VK_KHR_surface", "VK_KHR_xlib_surface"}

	n := core.NewNegotiator(&devicetest.Driver{}, ws, false)
	c.Assert(n.RequiredExtensions(), qt.DeepEquals, []string{"VK_KHR_surface", "VK_KHR_xlib_surface"})

	n = core.NewNegotiator(&devicetest.Driver{}, ws, true)
	c.Assert(n.RequiredExtensions(), qt.DeepEquals,
		[]string{"VK_KHR_surface", "VK_KHR_xlib_surface", device.DebugExtensionName})
}

func TestRequiredExtensionsDeduplicates(t *testing.T) {
	c := qt.New(t)
	ws := extensions{"VK_KHR_surface", device.DebugExtensionName, "VK_KHR_surface"}

	n := core.NewNegotiator(&devicetest.Driver{}, ws, true)
	c.Assert(n.RequiredExtensions(), qt.DeepEquals, []string{"VK_KHR_surface", device.DebugExtensionName})
}

func TestRequiredExtensionsWithoutWindow(t *testing.T) {
	c := qt.New(t)
	n := core.NewNegotiator(&devicetest.Driver{}, nil, false)
	c.Assert(n.RequiredExtensions(), qt.HasLen, 0)
}

func TestLayersSupported(t *testing.T) {
	driver := &devicetest.Driver{
		AvailableLayers: []string{"VK_LAYER_KHRONOS_validation", "VK_LAYER_LUNARG_monitor"},
	}
	n := core.NewNegotiator(driver, nil, true)

	tests := []struct {
		name      string
		requested []string
		supported bool
	}{
		{"none", nil, true},
		{"one present", []string{"VK_LAYER_KHRONOS_validation"}, true},
		{"all present", []string{"VK_LAYER_LUNARG_monitor", "VK_LAYER_KHRONOS_validation"}, true},
		{"one missing", []string{"VK_LAYER_KHRONOS_validation", "VK_LAYER_LUNARG_api_dump"}, false},
		{"case differs", []string{"vk_layer_khronos_validation"}, false},
		{"prefix only", []string{"VK_LAYER_KHRONOS"}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := qt.New(t)
			supported, err := n.LayersSupported(test.requested)
			c.Assert(err, qt.IsNil)
			c.Assert(supported, qt.Equals, test.supported)
		})
	}
}

func TestLayersSupportedDriverFailure(t *testing.T) {
	c := qt.New(t)
	n := core.NewNegotiator(&devicetest.Driver{FailLayers: true}, nil, true)

	supported, err := n.LayersSupported([]string{"VK_LAYER_KHRONOS_validation"})
	c.Assert(err, qt.Equals, devicetest.ErrRefused)
	c.Assert(supported, qt.IsFalse)
}
