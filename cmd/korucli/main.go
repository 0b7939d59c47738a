// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/devblok/vkboot/core"
	"github.com/devblok/vkboot/device"
	"github.com/devblok/vkboot/window"
	log "github.com/sirupsen/logrus"
)

var (
	indent  = flag.Bool("indent", false, "Indent the JSON output")
	verbose = flag.Bool("v", false, "Log bootstrap progress to stderr")
)

func main() {
	flag.Parse()

	log.SetOutput(os.Stderr)
	if !*verbose {
		log.SetLevel(log.WarnLevel)
	}

	if err := run(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run() error {
	driver, err := device.NewVulkan(nil)
	if err != nil {
		return err
	}

	instance, err := core.NewInstance(driver, window.Headless{}, core.DefaultConfiguration())
	if err != nil {
		return err
	}
	defer instance.Destroy()

	infos, err := core.NewCatalog(instance).Info()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if *indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(infos)
}
