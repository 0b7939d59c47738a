// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"io"
	"os"

	"github.com/devblok/vkboot/device"
	log "github.com/sirupsen/logrus"
)

// NewDiagnosticsBridge creates a bridge writing to out, or to stderr
// when out is nil.
func NewDiagnosticsBridge(out io.Writer) *DiagnosticsBridge {
	if out == nil {
		out = os.Stderr
	}
	logger := log.New()
	logger.Out = out
	logger.Level = log.WarnLevel
	return &DiagnosticsBridge{logger: logger}
}

// DiagnosticsBridge routes driver diagnostics of warning severity and
// above to an error stream. It never asks the driver to abort.
type DiagnosticsBridge struct {
	logger *log.Logger
}

// OnMessage implements device.MessageHandler
func (b *DiagnosticsBridge) OnMessage(msg device.Message) (abort bool) {
	defer func() {
		// a broken sink must not take the driver call down with it
		recover()
		abort = false
	}()

	if msg.Severity < device.SeverityWarning {
		return false
	}

	entry := b.logger.WithFields(log.Fields{
		"layer":    msg.Layer,
		"category": msg.Category.String(),
	})
	if msg.Severity >= device.SeverityError {
		entry.Error("validation layer: " + msg.Text)
	} else {
		entry.Warn("validation layer: " + msg.Text)
	}
	return false
}
