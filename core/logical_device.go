// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// LogicalDevice is a software representation of the GPU. It is the sole
// owner of its device handle until Destroy.
type LogicalDevice struct {
	cmds      Commands
	handle    vk.Device
	allocator *vk.AllocationCallbacks
}

// NewLogicalDevice creates a logical device on physicalDevice. The same
// allocator is used again when the device is destroyed.
func NewLogicalDevice(physicalDevice *PhysicalDevice, info *DeviceCreateInfo, allocator *vk.AllocationCallbacks) (*LogicalDevice, error) {
	if physicalDevice == nil {
		return nil, ErrNilDevice
	}
	handle, err := CreateDevice(physicalDevice.cmds, physicalDevice.handle, info, allocator)
	if err != nil {
		return nil, err
	}
	return &LogicalDevice{
		cmds:      physicalDevice.cmds,
		handle:    handle,
		allocator: allocator,
	}, nil
}

// Handle returns the raw handle, nil once destroyed.
func (d *LogicalDevice) Handle() vk.Device {
	return d.handle
}

// Destroy destroys the device. Later calls do nothing.
func (d *LogicalDevice) Destroy() {
	if d == nil {
		return
	}
	if d.handle == nil {
		log.Warn("logical device destroyed twice")
		return
	}
	d.cmds.DestroyDevice(d.handle, d.allocator)
	d.handle = nil
}
