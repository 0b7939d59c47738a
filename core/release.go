// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// +build !debug

package core

// DiagnosticsEnabled is set by building with the debug tag
const DiagnosticsEnabled = false
