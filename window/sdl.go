// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package window

import (
	"errors"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
)

// NewSDL initialises SDL, loads the Vulkan library through it and opens
// a Vulkan capable window. There should be one per process.
func NewSDL(cfg Configuration) (*SDL, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, errors.New("sdl.Init(): " + err.Error())
	}

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		sdl.Quit()
		return nil, errors.New("sdl.VulkanLoadLibrary(): " + err.Error())
	}

	window, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		cfg.Width,
		cfg.Height,
		sdl.WINDOW_VULKAN)
	if err != nil {
		sdl.VulkanUnloadLibrary()
		sdl.Quit()
		return nil, errors.New("sdl.CreateWindow(): " + err.Error())
	}

	return &SDL{
		window: window,
	}, nil
}

// SDL is an SDL2 window set up for Vulkan.
type SDL struct {
	window *sdl.Window
}

// RequiredExtensions implements core.WindowSystem
func (s *SDL) RequiredExtensions() []string {
	return s.window.VulkanGetInstanceExtensions()
}

// ProcAddr returns vkGetInstanceProcAddr as loaded by SDL
func (s *SDL) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

// Poll drains pending events and reports whether the user asked to quit.
func (s *SDL) Poll() (quit bool) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch et := event.(type) {
		case *sdl.KeyboardEvent:
			if et.Keysym.Sym == sdl.K_ESCAPE {
				quit = true
			}
		case *sdl.QuitEvent:
			quit = true
		}
	}
	return quit
}

// Destroy closes the window and shuts SDL down
func (s *SDL) Destroy() {
	if s == nil {
		return
	}
	s.window.Destroy()
	sdl.VulkanUnloadLibrary()
	sdl.Quit()
}
