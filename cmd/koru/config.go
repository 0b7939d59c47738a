// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"os"
	"strconv"

	"github.com/devblok/vkboot/window"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Environment keys read at start up
const (
	envWindowTitle  = "KORU_WINDOW_TITLE"
	envWindowWidth  = "KORU_WINDOW_WIDTH"
	envWindowHeight = "KORU_WINDOW_HEIGHT"
)

// loadWindowConfiguration reads window settings from the environment,
// after loading path into it when the file exists.
func loadWindowConfiguration(path string) (window.Configuration, error) {
	cfg := window.DefaultConfiguration

	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			return cfg, errors.Wrapf(err, "godotenv.Load(%s)", path)
		}
		envy.Reload()
	}

	cfg.Title = envy.Get(envWindowTitle, cfg.Title)

	width, err := dimension(envWindowWidth, cfg.Width)
	if err != nil {
		return cfg, err
	}
	height, err := dimension(envWindowHeight, cfg.Height)
	if err != nil {
		return cfg, err
	}
	cfg.Width, cfg.Height = width, height
	return cfg, nil
}

func dimension(key string, fallback int32) (int32, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		return 0, errors.Errorf("%s: invalid window dimension %q", key, raw)
	}
	return int32(v), nil
}

// logLevel is Info unless verbose output was asked for
func logLevel(verbose bool) log.Level {
	if verbose {
		return log.DebugLevel
	}
	return log.InfoLevel
}
