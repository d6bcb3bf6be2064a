// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// Extension is one structure of a pNext chain.
type Extension interface {
	// Link marshals the extension with its own pNext set to next and
	// returns the pointer the preceding structure should reference,
	// or nil to leave the chain unchanged.
	// Memory backing the returned pointer must be owned by a.
	Link(next unsafe.Pointer, a *Arena) (unsafe.Pointer, error)
}

// ExtensionFunc adapts a function to the Extension interface.
type ExtensionFunc func(next unsafe.Pointer, a *Arena) (unsafe.Pointer, error)

// Link implements Extension.
func (f ExtensionFunc) Link(next unsafe.Pointer, a *Arena) (unsafe.Pointer, error) {
	return f(next, a)
}

// Chain is an ordered pNext chain. The first element is referenced by
// the owning structure, each element references the one after it and
// the last one terminates the chain.
type Chain []Extension

// Marshal links the chain back to front and returns its head,
// nil for an empty chain. A block that links to nil contributes no
// structure and the chain continues past it.
func (c Chain) Marshal(a *Arena) (unsafe.Pointer, error) {
	var next unsafe.Pointer
	for i := len(c) - 1; i >= 0; i-- {
		if c[i] == nil {
			continue
		}
		head, err := c[i].Link(next, a)
		if err != nil {
			return nil, err
		}
		if head != nil {
			next = head
		}
	}
	return next, nil
}

func (c Chain) clone() Chain {
	if len(c) == 0 {
		return nil
	}
	return append(Chain{}, c...)
}

// ValidationFlags disables validation checks of the validation layers
// (VK_EXT_validation_flags). It extends the instance create info.
type ValidationFlags struct {
	Disabled []vk.ValidationCheck
}

// Link implements Extension.
func (v ValidationFlags) Link(next unsafe.Pointer, a *Arena) (unsafe.Pointer, error) {
	raw := &vk.ValidationFlags{
		SType:                        vk.StructureTypeValidationFlags,
		PNext:                        next,
		DisabledValidationCheckCount: uint32(len(v.Disabled)),
		PDisabledValidationChecks:    append([]vk.ValidationCheck{}, v.Disabled...),
	}
	ref, allocs := raw.PassRef()
	a.Keep(raw)
	if allocs != nil {
		a.OnRelease(allocs.Free)
	}
	return unsafe.Pointer(ref), nil
}
