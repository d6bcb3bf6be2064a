// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// DeviceQueueCreateInfo requests queues from one queue family. The queue
// count equals the number of priorities.
type DeviceQueueCreateInfo struct {
	Next             Chain
	Flags            vk.DeviceQueueCreateFlags
	QueueFamilyIndex uint32
	Priorities       []float32
}

// Marshal converts the queue request into its raw form.
func (qi *DeviceQueueCreateInfo) Marshal(a *Arena) (vk.DeviceQueueCreateInfo, error) {
	next, err := qi.Next.Marshal(a)
	if err != nil {
		return vk.DeviceQueueCreateInfo{}, err
	}
	var priorities []float32
	if len(qi.Priorities) > 0 {
		priorities = append([]float32{}, qi.Priorities...)
		a.Keep(priorities)
	}
	return vk.DeviceQueueCreateInfo{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		PNext:            next,
		Flags:            qi.Flags,
		QueueFamilyIndex: qi.QueueFamilyIndex,
		QueueCount:       uint32(len(priorities)),
		PQueuePriorities: priorities,
	}, nil
}

// DeviceCreateInfo is the frozen descriptor of a logical device creation.
type DeviceCreateInfo struct {
	Next              Chain
	Flags             vk.DeviceCreateFlags
	QueueCreateInfos  []DeviceQueueCreateInfo
	EnabledLayers     []string
	EnabledExtensions []string
	EnabledFeatures   *vk.PhysicalDeviceFeatures
}

// Marshal converts the descriptor into the raw create info, following the
// same ownership rules as InstanceCreateInfo.Marshal.
func (ci *DeviceCreateInfo) Marshal(a *Arena) (*vk.DeviceCreateInfo, error) {
	next, err := ci.Next.Marshal(a)
	if err != nil {
		return nil, err
	}

	raw := &vk.DeviceCreateInfo{
		SType: vk.StructureTypeDeviceCreateInfo,
		PNext: next,
		Flags: ci.Flags,
	}

	if len(ci.QueueCreateInfos) > 0 {
		raw.PQueueCreateInfos = make([]vk.DeviceQueueCreateInfo, len(ci.QueueCreateInfos))
		for i := range ci.QueueCreateInfos {
			if raw.PQueueCreateInfos[i], err = ci.QueueCreateInfos[i].Marshal(a); err != nil {
				return nil, fmt.Errorf("queue create info %d: %w", i, err)
			}
		}
		raw.QueueCreateInfoCount = uint32(len(raw.PQueueCreateInfos))
	}

	if raw.PpEnabledLayerNames, err = a.Strings(ci.EnabledLayers); err != nil {
		return nil, fmt.Errorf("enabled layers: %w", err)
	}
	raw.EnabledLayerCount = uint32(len(raw.PpEnabledLayerNames))

	if raw.PpEnabledExtensionNames, err = a.Strings(ci.EnabledExtensions); err != nil {
		return nil, fmt.Errorf("enabled extensions: %w", err)
	}
	raw.EnabledExtensionCount = uint32(len(raw.PpEnabledExtensionNames))

	if ci.EnabledFeatures != nil {
		raw.PEnabledFeatures = []vk.PhysicalDeviceFeatures{*ci.EnabledFeatures}
	}

	a.Keep(raw)
	return raw, nil
}

// DeviceCreateInfoBuilder accumulates the fields of a DeviceCreateInfo.
type DeviceCreateInfoBuilder struct {
	next       Chain
	flags      *vk.DeviceCreateFlags
	queues     []DeviceQueueCreateInfo
	layers     []string
	extensions []string
	features   *vk.PhysicalDeviceFeatures
}

// NewDeviceCreateInfoBuilder returns an empty builder.
func NewDeviceCreateInfoBuilder() *DeviceCreateInfoBuilder {
	return &DeviceCreateInfoBuilder{}
}

func (b *DeviceCreateInfoBuilder) Next(ext ...Extension) *DeviceCreateInfoBuilder {
	b.next = append(b.next, ext...)
	return b
}

func (b *DeviceCreateInfoBuilder) Flags(flags vk.DeviceCreateFlags) *DeviceCreateInfoBuilder {
	b.flags = &flags
	return b
}

// Queue requests one queue per priority from the given family.
func (b *DeviceCreateInfoBuilder) Queue(family uint32, priorities ...float32) *DeviceCreateInfoBuilder {
	return b.QueueCreateInfo(DeviceQueueCreateInfo{
		QueueFamilyIndex: family,
		Priorities:       priorities,
	})
}

func (b *DeviceCreateInfoBuilder) QueueCreateInfo(info DeviceQueueCreateInfo) *DeviceCreateInfoBuilder {
	info.Next = info.Next.clone()
	info.Priorities = append([]float32(nil), info.Priorities...)
	b.queues = append(b.queues, info)
	return b
}

func (b *DeviceCreateInfoBuilder) EnabledLayers(layers ...string) *DeviceCreateInfoBuilder {
	b.layers = append(b.layers, layers...)
	return b
}

// EnabledExtensions replaces the extension list, nil clears it.
func (b *DeviceCreateInfoBuilder) EnabledExtensions(extensions []string) *DeviceCreateInfoBuilder {
	b.extensions = copyStrings(extensions)
	return b
}

func (b *DeviceCreateInfoBuilder) EnabledFeatures(features vk.PhysicalDeviceFeatures) *DeviceCreateInfoBuilder {
	b.features = &features
	return b
}

// Build returns the descriptor, defaulting flags to zero.
func (b *DeviceCreateInfoBuilder) Build() *DeviceCreateInfo {
	ci := &DeviceCreateInfo{
		Next:              b.next.clone(),
		EnabledLayers:     copyStrings(b.layers),
		EnabledExtensions: copyStrings(b.extensions),
	}
	if b.flags != nil {
		ci.Flags = *b.flags
	}
	if len(b.queues) > 0 {
		ci.QueueCreateInfos = append([]DeviceQueueCreateInfo{}, b.queues...)
	}
	if b.features != nil {
		features := *b.features
		ci.EnabledFeatures = &features
	}
	return ci
}
