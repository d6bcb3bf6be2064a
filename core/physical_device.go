// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// PhysicalDeviceInfo describes available physical properties of a rendering device
type PhysicalDeviceInfo struct {
	ID            int      `json:"id"`
	VendorID      int      `json:"vendorId"`
	DriverVersion int      `json:"driverVersion"`
	APIVersion    string   `json:"apiVersion"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Invalid       bool     `json:"invalid"`
	Extensions    []string `json:"extensions"`
	Layers        []string `json:"layers"`
	Memory        uint     `json:"memory"`
	QueueFamilies int      `json:"queueFamilies"`
}

// Device type names, as accepted by ParseDeviceType.
const (
	DeviceTypeOther      = "other"
	DeviceTypeIntegrated = "integrated"
	DeviceTypeDiscrete   = "discrete"
	DeviceTypeVirtual    = "virtual"
	DeviceTypeCPU        = "cpu"
)

// DeviceTypeName returns the short name of t.
func DeviceTypeName(t vk.PhysicalDeviceType) string {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return DeviceTypeIntegrated
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return DeviceTypeDiscrete
	case vk.PhysicalDeviceTypeVirtualGpu:
		return DeviceTypeVirtual
	case vk.PhysicalDeviceTypeCpu:
		return DeviceTypeCPU
	default:
		return DeviceTypeOther
	}
}

// ParseDeviceType is the inverse of DeviceTypeName.
func ParseDeviceType(name string) (vk.PhysicalDeviceType, error) {
	switch name {
	case DeviceTypeOther:
		return vk.PhysicalDeviceTypeOther, nil
	case DeviceTypeIntegrated:
		return vk.PhysicalDeviceTypeIntegratedGpu, nil
	case DeviceTypeDiscrete:
		return vk.PhysicalDeviceTypeDiscreteGpu, nil
	case DeviceTypeVirtual:
		return vk.PhysicalDeviceTypeVirtualGpu, nil
	case DeviceTypeCPU:
		return vk.PhysicalDeviceTypeCpu, nil
	}
	return vk.PhysicalDeviceTypeOther, fmt.Errorf("unknown device type %q", name)
}

// VersionString formats a packed API version as major.minor.patch.
func VersionString(version uint32) string {
	return fmt.Sprintf("%d.%d.%d", version>>22&0x7f, version>>12&0x3ff, version&0xfff)
}

// PhysicalDevice is a GPU reported by an instance. It does not own the
// handle, the instance does.
type PhysicalDevice struct {
	cmds   Commands
	handle vk.PhysicalDevice
}

// NewPhysicalDevice wraps a handle obtained from cmds.
func NewPhysicalDevice(cmds Commands, handle vk.PhysicalDevice) *PhysicalDevice {
	return &PhysicalDevice{
		cmds:   cmds,
		handle: handle,
	}
}

// Handle returns the raw handle.
func (pd *PhysicalDevice) Handle() vk.PhysicalDevice {
	return pd.handle
}

// Properties returns the device properties.
func (pd *PhysicalDevice) Properties() vk.PhysicalDeviceProperties {
	return PhysicalDeviceProperties(pd.cmds, pd.handle)
}

// QueueFamilies returns the queue family properties, indexed by family.
func (pd *PhysicalDevice) QueueFamilies() []vk.QueueFamilyProperties {
	return QueueFamilyProperties(pd.cmds, pd.handle)
}

// SurfaceSupport reports whether queueFamily can present to surface.
func (pd *PhysicalDevice) SurfaceSupport(queueFamily uint32, surface vk.Surface) (bool, error) {
	return SurfaceSupport(pd.cmds, pd.handle, queueFamily, surface)
}

// Extensions returns the names of the supported device extensions.
func (pd *PhysicalDevice) Extensions() ([]string, error) {
	return DeviceExtensions(pd.cmds, pd.handle)
}

// SupportsExtensions reports whether every one of names is supported.
func (pd *PhysicalDevice) SupportsExtensions(names []string) (bool, error) {
	if len(names) == 0 {
		return true, nil
	}
	available, err := pd.Extensions()
	if err != nil {
		return false, err
	}
	supported := make(map[string]bool, len(available))
	for _, name := range available {
		supported[name] = true
	}
	for _, name := range names {
		if !supported[name] {
			return false, nil
		}
	}
	return true, nil
}

// Info collects everything known about the device. Failed queries mark
// the result Invalid instead of failing the whole report.
func (pd *PhysicalDevice) Info() PhysicalDeviceInfo {
	var info PhysicalDeviceInfo

	extensions, err := DeviceExtensions(pd.cmds, pd.handle)
	if err != nil {
		log.WithError(err).Warn("device extension query failed")
		info.Invalid = true
	}
	info.Extensions = extensions

	layers, err := DeviceLayers(pd.cmds, pd.handle)
	if err != nil {
		log.WithError(err).Warn("device layer query failed")
		info.Invalid = true
	}
	info.Layers = layers

	memory := MemoryProperties(pd.cmds, pd.handle)
	for i := uint32(0); i < memory.MemoryHeapCount; i++ {
		info.Memory += uint(memory.MemoryHeaps[i].Size)
	}

	properties := pd.Properties()
	info.ID = int(properties.DeviceID)
	info.VendorID = int(properties.VendorID)
	info.Name = vk.ToString(properties.DeviceName[:])
	info.DriverVersion = int(properties.DriverVersion)
	info.APIVersion = VersionString(properties.ApiVersion)
	info.Type = DeviceTypeName(properties.DeviceType)
	info.QueueFamilies = len(pd.QueueFamilies())
	return info
}

// CreateLogicalDevice creates a logical device on this GPU.
func (pd *PhysicalDevice) CreateLogicalDevice(info *DeviceCreateInfo, allocator *vk.AllocationCallbacks) (*LogicalDevice, error) {
	return NewLogicalDevice(pd, info, allocator)
}
