// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "github.com/pkg/errors"

// Bootstrap failure kinds. Every error returned by this package has one
// of these as its cause, see errors.Cause.
var (
	// ErrConfiguration means requested layers are unsupported or the
	// diagnostics hook could not be installed
	ErrConfiguration = errors.New("configuration error")

	// ErrConnection means the driver refused to create a connection
	ErrConnection = errors.New("connection error")

	// ErrNoDevice means no physical device could be enumerated
	ErrNoDevice = errors.New("no GPU with Vulkan support")

	// ErrDeviceCreation means the driver refused to create a logical device
	ErrDeviceCreation = errors.New("device creation error")

	// ErrNoQueueFamily means a physical device exposes no queue families
	ErrNoQueueFamily = errors.New("no queue families on GPU")
)
