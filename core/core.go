// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core is a safe layer over the Vulkan API. Descriptors are built
// with fluent builders, marshaled into the raw binding structs for exactly
// one call and released when it returns. Call wrappers translate the raw
// result codes into Go errors.
package core

// Destroyable is implemented by objects that own driver resources.
type Destroyable interface {
	// Destroy releases the resource. Calling it again does nothing.
	Destroy()
}
