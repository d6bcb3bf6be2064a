// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Layer and extension names enabled in debug mode.
const (
	ValidationLayerName          = "VK_LAYER_KHRONOS_validation"
	DebugReportExtensionName     = "VK_EXT_debug_report"
	SurfaceExtensionName         = "VK_KHR_surface"
	SwapchainExtensionName       = "VK_KHR_swapchain"
	ValidationFlagsExtensionName = "VK_EXT_validation_flags"
)

// InstanceCreateInfo is the frozen descriptor of an instance creation.
// A nil ApplicationInfo or name list marshals as a nil pointer with a
// zero count.
type InstanceCreateInfo struct {
	Next              Chain
	Flags             vk.InstanceCreateFlags
	ApplicationInfo   *ApplicationInfo
	EnabledLayers     []string
	EnabledExtensions []string
}

// Marshal converts the descriptor into the raw create info. The result
// and everything it points to stay valid until a is released.
func (ci *InstanceCreateInfo) Marshal(a *Arena) (*vk.InstanceCreateInfo, error) {
	next, err := ci.Next.Marshal(a)
	if err != nil {
		return nil, err
	}

	raw := &vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PNext: next,
		Flags: ci.Flags,
	}

	if ci.ApplicationInfo != nil {
		if raw.PApplicationInfo, err = ci.ApplicationInfo.Marshal(a); err != nil {
			return nil, err
		}
	}

	if raw.PpEnabledLayerNames, err = a.Strings(ci.EnabledLayers); err != nil {
		return nil, fmt.Errorf("enabled layers: %w", err)
	}
	raw.EnabledLayerCount = uint32(len(raw.PpEnabledLayerNames))

	if raw.PpEnabledExtensionNames, err = a.Strings(ci.EnabledExtensions); err != nil {
		return nil, fmt.Errorf("enabled extensions: %w", err)
	}
	raw.EnabledExtensionCount = uint32(len(raw.PpEnabledExtensionNames))

	a.Keep(raw)
	return raw, nil
}

// InstanceCreateInfoBuilder accumulates the fields of an InstanceCreateInfo.
type InstanceCreateInfoBuilder struct {
	next            Chain
	flags           *vk.InstanceCreateFlags
	applicationInfo *ApplicationInfo
	layers          []string
	extensions      []string
}

// NewInstanceCreateInfoBuilder returns an empty builder.
func NewInstanceCreateInfoBuilder() *InstanceCreateInfoBuilder {
	return &InstanceCreateInfoBuilder{}
}

func (b *InstanceCreateInfoBuilder) Next(ext ...Extension) *InstanceCreateInfoBuilder {
	b.next = append(b.next, ext...)
	return b
}

func (b *InstanceCreateInfoBuilder) Flags(flags vk.InstanceCreateFlags) *InstanceCreateInfoBuilder {
	b.flags = &flags
	return b
}

func (b *InstanceCreateInfoBuilder) ApplicationInfo(info *ApplicationInfo) *InstanceCreateInfoBuilder {
	b.applicationInfo = info
	return b
}

func (b *InstanceCreateInfoBuilder) EnabledLayers(layers ...string) *InstanceCreateInfoBuilder {
	b.layers = append(b.layers, layers...)
	return b
}

// EnabledExtensions replaces the extension list, nil clears it.
func (b *InstanceCreateInfoBuilder) EnabledExtensions(extensions []string) *InstanceCreateInfoBuilder {
	b.extensions = copyStrings(extensions)
	return b
}

// Build returns the descriptor, defaulting flags to zero. All lists are
// copied so later changes to the builder do not reach the descriptor.
func (b *InstanceCreateInfoBuilder) Build() *InstanceCreateInfo {
	ci := &InstanceCreateInfo{
		Next:              b.next.clone(),
		EnabledLayers:     copyStrings(b.layers),
		EnabledExtensions: copyStrings(b.extensions),
	}
	if b.flags != nil {
		ci.Flags = *b.flags
	}
	if b.applicationInfo != nil {
		info := *b.applicationInfo
		info.Next = b.applicationInfo.Next.clone()
		ci.ApplicationInfo = &info
	}
	return ci
}
