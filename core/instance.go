// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"unsafe"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// Instance is a created Vulkan instance along with the table used to
// create it. The native loader owns the underlying object; Destroy hands
// it back.
type Instance struct {
	cmds      Commands
	handle    vk.Instance
	allocator *vk.AllocationCallbacks
	surface   vk.Surface
}

// NewInstance creates an instance from info. A nil info creates an
// instance with no application info, layers or extensions.
func NewInstance(cmds Commands, info *InstanceCreateInfo, allocator *vk.AllocationCallbacks) (*Instance, error) {
	handle, err := CreateInstance(cmds, info, allocator)
	if err != nil {
		return nil, err
	}
	return &Instance{
		cmds:      cmds,
		handle:    handle,
		allocator: allocator,
		surface:   vk.NullSurface,
	}, nil
}

// Handle returns the raw handle.
func (v *Instance) Handle() vk.Instance {
	return v.handle
}

// Inner returns the raw handle for windowing libraries that take it untyped.
func (v *Instance) Inner() interface{} {
	return v.handle
}

// Commands returns the table the instance was created with.
func (v *Instance) Commands() Commands {
	return v.cmds
}

// SetSurface sets the window surface for presentation. pSurface points
// at the surface handle, as returned by SDL. The instance takes ownership
// of the surface and destroys it in Destroy. A nil pSurface clears it.
func (v *Instance) SetSurface(pSurface unsafe.Pointer) {
	if pSurface == nil {
		v.surface = vk.NullSurface
		return
	}
	v.surface = vk.SurfaceFromPointer(uintptr(pSurface))
}

// Surface returns the window surface, vk.NullSurface if it was never set.
func (v *Instance) Surface() vk.Surface {
	return v.surface
}

// PhysicalDevices returns the GPUs visible to the instance.
func (v *Instance) PhysicalDevices() ([]*PhysicalDevice, error) {
	handles, err := PhysicalDevices(v.cmds, v.handle)
	if err != nil {
		return nil, err
	}
	devices := make([]*PhysicalDevice, len(handles))
	for i, handle := range handles {
		devices[i] = NewPhysicalDevice(v.cmds, handle)
	}
	return devices, nil
}

// PhysicalDevicesInfo returns a report for each physical device.
func (v *Instance) PhysicalDevicesInfo() ([]PhysicalDeviceInfo, error) {
	devices, err := v.PhysicalDevices()
	if err != nil {
		return nil, err
	}
	pdi := make([]PhysicalDeviceInfo, len(devices))
	for i, device := range devices {
		pdi[i] = device.Info()
	}
	return pdi, nil
}

// PickPhysicalDevice selects the best GPU for the instance surface.
func (v *Instance) PickPhysicalDevice(criteria SelectionCriteria) (*PhysicalDevice, QueueFamilyIndices, error) {
	devices, err := v.PhysicalDevices()
	if err != nil {
		return nil, QueueFamilyIndices{}, err
	}
	return PickPhysicalDevice(devices, v.surface, criteria)
}

// Destroy destroys the surface, if any, and then the instance. Devices
// created from it must be destroyed first.
func (v *Instance) Destroy() {
	if v == nil || v.handle == nil {
		return
	}
	if v.surface != vk.NullSurface {
		log.Debug("destroying vulkan surface")
		v.cmds.DestroySurface(v.handle, v.surface, v.allocator)
		v.surface = vk.NullSurface
	}
	log.Debug("destroying vulkan instance")
	v.cmds.DestroyInstance(v.handle, v.allocator)
	v.handle = nil
}
