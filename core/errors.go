// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "errors"

// package errors
var (
	ErrEmbeddedNUL      = errors.New("string contains an embedded NUL byte")
	ErrNoSuitableDevice = errors.New("no suitable physical device found")
	ErrNilDevice        = errors.New("physical device handle is nil")
	ErrLayerUnavailable = errors.New("requested instance layer is not available")
)
