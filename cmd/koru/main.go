// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"time"

	"github.com/devblok/vkboot/core"
	"github.com/devblok/vkboot/device"
	"github.com/devblok/vkboot/window"
	log "github.com/sirupsen/logrus"
)

func init() {
	runtime.LockOSThread()
}

// Profiling
var (
	cpuProfile   = flag.String("cpuprof", "", "Profile CPU usage to file")
	traceProfile = flag.String("trace", "", "Trace output for profiling")
	envFile      = flag.String("env", ".env", "Environment file with window settings")
	once         = flag.Bool("once", false, "Exit right after the device is set up")
	verbose      = flag.Bool("v", false, "Log queue families and other debug output")
)

func main() {
	flag.Parse()
	log.SetLevel(logLevel(*verbose))

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	if *traceProfile != "" {
		f, err := os.Create(*traceProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := trace.Start(f); err != nil {
			log.Fatal(err)
		}
		defer trace.Stop()
	}

	if err := run(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// run keeps deferred teardown ahead of os.Exit
func run() error {
	windowConfig, err := loadWindowConfiguration(*envFile)
	if err != nil {
		return err
	}

	sdlWindow, err := window.NewSDL(windowConfig)
	if err != nil {
		return err
	}
	defer sdlWindow.Destroy()
	log.Info("SDL window successfully created")

	driver, err := device.NewVulkan(sdlWindow.ProcAddr())
	if err != nil {
		return err
	}

	session, err := core.Bootstrap(driver, sdlWindow, core.DefaultConfiguration())
	if err != nil {
		return err
	}
	defer session.Destroy()

	for _, qf := range session.Physical.QueueFamilies() {
		log.Debug(qf.String())
	}
	log.Info("Chosen device: " + session.Physical.String())

	if *once {
		return nil
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		if sdlWindow.Poll() {
			log.Info("Event loop exited")
			return nil
		}
	}
	return nil
}
