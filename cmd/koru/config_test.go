// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gobuffalo/envy"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkboot/window"
)

func clearWindowEnv(c *qt.C) {
	for _, key := range []string{envWindowTitle, envWindowWidth, envWindowHeight} {
		os.Unsetenv(key)
	}
	envy.Reload()
	c.Defer(func() {
		for _, key := range []string{envWindowTitle, envWindowWidth, envWindowHeight} {
			os.Unsetenv(key)
		}
		envy.Reload()
	})
}

func TestLoadWindowConfigurationDefaults(t *testing.T) {
	c := qt.New(t)
	defer c.Done()
	clearWindowEnv(c)

	cfg, err := loadWindowConfiguration(filepath.Join(c.Mkdir(), "missing.env"))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.DeepEquals, window.DefaultConfiguration)
}

func TestLoadWindowConfigurationFromFile(t *testing.T) {
	c := qt.New(t)
	defer c.Done()
	clearWindowEnv(c)

	path := filepath.Join(c.Mkdir(), "koru.env")
	contents := "KORU_WINDOW_TITLE=Bootstrap\nKORU_WINDOW_WIDTH=1024\nKORU_WINDOW_HEIGHT=768\n"
	c.Assert(ioutil.WriteFile(path, []byte(contents), 0644), qt.IsNil)

	cfg, err := loadWindowConfiguration(path)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.DeepEquals, window.Configuration{
		Title:  "Bootstrap",
		Width:  1024,
		Height: 768,
	})
}

func TestLoadWindowConfigurationRejectsBadDimension(t *testing.T) {
	c := qt.New(t)
	defer c.Done()
	clearWindowEnv(c)

	path := filepath.Join(c.Mkdir(), "koru.env")
	c.Assert(ioutil.WriteFile(path, []byte("KORU_WINDOW_WIDTH=wide\n"), 0644), qt.IsNil)

	_, err := loadWindowConfiguration(path)
	c.Assert(err, qt.ErrorMatches, `KORU_WINDOW_WIDTH: invalid window dimension "wide"`)
}

func TestLogLevel(t *testing.T) {
	c := qt.New(t)
	c.Assert(logLevel(false), qt.Equals, log.InfoLevel)
	c.Assert(logLevel(true), qt.Equals, log.DebugLevel)
	c.Assert(log.DebugLevel > log.InfoLevel, qt.IsTrue)
}
