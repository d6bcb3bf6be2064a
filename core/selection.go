// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// SelectionCriteria narrows down physical device selection.
type SelectionCriteria struct {
	// PreferredType is a device type name, see DeviceTypeName.
	// Empty means no preference.
	PreferredType string

	// RequiredExtensions must all be supported by the chosen device.
	RequiredExtensions []string
}

// QueueFamilyIndices names the queue families a device is driven with.
type QueueFamilyIndices struct {
	Graphics   uint32
	Present    uint32
	HasPresent bool
}

// Unique returns the distinct family indices, graphics first.
func (q QueueFamilyIndices) Unique() []uint32 {
	if !q.HasPresent || q.Present == q.Graphics {
		return []uint32{q.Graphics}
	}
	return []uint32{q.Graphics, q.Present}
}

const preferredTypeBonus = 2000

var deviceTypeScores = map[vk.PhysicalDeviceType]int{
	vk.PhysicalDeviceTypeDiscreteGpu:   1000,
	vk.PhysicalDeviceTypeIntegratedGpu: 500,
	vk.PhysicalDeviceTypeVirtualGpu:    200,
	vk.PhysicalDeviceTypeCpu:           100,
	vk.PhysicalDeviceTypeOther:         50,
}

// ScoreDevice rates a device by type. A device of the preferred type
// always outranks one that is not.
func ScoreDevice(properties vk.PhysicalDeviceProperties, criteria SelectionCriteria) int {
	score := deviceTypeScores[properties.DeviceType]
	if criteria.PreferredType != "" && DeviceTypeName(properties.DeviceType) == criteria.PreferredType {
		score += preferredTypeBonus
	}
	return score
}

// FindQueueFamilies looks for a graphics family and, when surface is not
// vk.NullSurface, a family that can present to it. A family doing both is
// preferred. The boolean is false when a required family is missing.
func FindQueueFamilies(pd *PhysicalDevice, surface vk.Surface) (QueueFamilyIndices, bool, error) {
	var (
		indices       QueueFamilyIndices
		graphicsFound bool
	)
	needsPresent := surface != vk.NullSurface

	for i, family := range pd.QueueFamilies() {
		idx := uint32(i)
		graphics := family.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0

		var present bool
		if needsPresent {
			supported, err := pd.SurfaceSupport(idx, surface)
			if err != nil {
				return QueueFamilyIndices{}, false, err
			}
			present = supported
		}

		if graphics && present {
			return QueueFamilyIndices{Graphics: idx, Present: idx, HasPresent: true}, true, nil
		}
		if graphics && !graphicsFound {
			indices.Graphics = idx
			graphicsFound = true
		}
		if present && !indices.HasPresent {
			indices.Present = idx
			indices.HasPresent = true
		}
	}

	if !graphicsFound || (needsPresent && !indices.HasPresent) {
		return QueueFamilyIndices{}, false, nil
	}
	return indices, true, nil
}

// PickPhysicalDevice returns the highest scoring device among those that
// have the required queue families and extensions. Ties keep enumeration
// order. Errors from surface queries abort the selection.
func PickPhysicalDevice(devices []*PhysicalDevice, surface vk.Surface, criteria SelectionCriteria) (*PhysicalDevice, QueueFamilyIndices, error) {
	var (
		selected       *PhysicalDevice
		selectedQueues QueueFamilyIndices
	)
	bestScore := -1

	for _, device := range devices {
		properties := device.Properties()
		entry := log.WithField("device", vk.ToString(properties.DeviceName[:]))

		queues, ok, err := FindQueueFamilies(device, surface)
		if err != nil {
			return nil, QueueFamilyIndices{}, err
		}
		if !ok {
			entry.Debug("device rejected: missing queue family")
			continue
		}

		supported, err := device.SupportsExtensions(criteria.RequiredExtensions)
		if err != nil {
			entry.WithError(err).Warn("device rejected: extension query failed")
			continue
		}
		if !supported {
			entry.Debug("device rejected: missing extension")
			continue
		}

		score := ScoreDevice(properties, criteria)
		entry.WithField("score", score).Debug("device is suitable")
		if score > bestScore {
			bestScore = score
			selected = device
			selectedQueues = queues
		}
	}

	if selected == nil {
		return nil, QueueFamilyIndices{}, ErrNoSuitableDevice
	}
	return selected, selectedQueues, nil
}
