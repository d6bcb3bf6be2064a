// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"unsafe"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// Commands is the table of raw Vulkan entry points this package calls.
// Signatures, struct layouts and result codes are those of the bindings;
// implementations must not reinterpret them.
type Commands interface {
	CreateInstance(info *vk.InstanceCreateInfo, allocator *vk.AllocationCallbacks, instance *vk.Instance) vk.Result
	DestroyInstance(instance vk.Instance, allocator *vk.AllocationCallbacks)
	EnumerateInstanceLayerProperties(count *uint32, properties []vk.LayerProperties) vk.Result
	EnumerateInstanceExtensionProperties(layer string, count *uint32, properties []vk.ExtensionProperties) vk.Result
	DestroySurface(instance vk.Instance, surface vk.Surface, allocator *vk.AllocationCallbacks)

	EnumeratePhysicalDevices(instance vk.Instance, count *uint32, devices []vk.PhysicalDevice) vk.Result
	GetPhysicalDeviceProperties(device vk.PhysicalDevice, properties *vk.PhysicalDeviceProperties)
	GetPhysicalDeviceMemoryProperties(device vk.PhysicalDevice, properties *vk.PhysicalDeviceMemoryProperties)
	GetPhysicalDeviceQueueFamilyProperties(device vk.PhysicalDevice, count *uint32, properties []vk.QueueFamilyProperties)
	GetPhysicalDeviceSurfaceSupport(device vk.PhysicalDevice, queueFamily uint32, surface vk.Surface, supported *vk.Bool32) vk.Result
	EnumerateDeviceExtensionProperties(device vk.PhysicalDevice, layer string, count *uint32, properties []vk.ExtensionProperties) vk.Result
	EnumerateDeviceLayerProperties(device vk.PhysicalDevice, count *uint32, properties []vk.LayerProperties) vk.Result

	CreateDevice(physicalDevice vk.PhysicalDevice, info *vk.DeviceCreateInfo, allocator *vk.AllocationCallbacks, device *vk.Device) vk.Result
	DestroyDevice(device vk.Device, allocator *vk.AllocationCallbacks)
}

// Load initialises the Vulkan loader and returns the table backed by it.
// A nil procAddr uses the system loader, otherwise it must point at a
// vkGetInstanceProcAddr, as handed out by SDL or GLFW.
func Load(procAddr unsafe.Pointer) (Commands, error) {
	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, fmt.Errorf("vk.SetDefaultGetInstanceProcAddr(): %w", err)
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, fmt.Errorf("vk.Init(): %w", err)
	}
	log.Debug("vulkan loader initialised")
	return vulkanCommands{}, nil
}

// vulkanCommands forwards every entry point to the vulkan-go bindings.
type vulkanCommands struct{}

func (vulkanCommands) CreateInstance(info *vk.InstanceCreateInfo, allocator *vk.AllocationCallbacks, instance *vk.Instance) vk.Result {
	ret := vk.CreateInstance(info, allocator, instance)
	if ret == vk.Success {
		// instance level entry points are resolved per instance
		vk.InitInstance(*instance)
	}
	return ret
}

func (vulkanCommands) DestroyInstance(instance vk.Instance, allocator *vk.AllocationCallbacks) {
	vk.DestroyInstance(instance, allocator)
}

func (vulkanCommands) EnumerateInstanceLayerProperties(count *uint32, properties []vk.LayerProperties) vk.Result {
	return vk.EnumerateInstanceLayerProperties(count, properties)
}

func (vulkanCommands) EnumerateInstanceExtensionProperties(layer string, count *uint32, properties []vk.ExtensionProperties) vk.Result {
	return vk.EnumerateInstanceExtensionProperties(layer, count, properties)
}

func (vulkanCommands) DestroySurface(instance vk.Instance, surface vk.Surface, allocator *vk.AllocationCallbacks) {
	vk.DestroySurface(instance, surface, allocator)
}

func (vulkanCommands) EnumeratePhysicalDevices(instance vk.Instance, count *uint32, devices []vk.PhysicalDevice) vk.Result {
	return vk.EnumeratePhysicalDevices(instance, count, devices)
}

func (vulkanCommands) GetPhysicalDeviceProperties(device vk.PhysicalDevice, properties *vk.PhysicalDeviceProperties) {
	vk.GetPhysicalDeviceProperties(device, properties)
}

func (vulkanCommands) GetPhysicalDeviceMemoryProperties(device vk.PhysicalDevice, properties *vk.PhysicalDeviceMemoryProperties) {
	vk.GetPhysicalDeviceMemoryProperties(device, properties)
}

func (vulkanCommands) GetPhysicalDeviceQueueFamilyProperties(device vk.PhysicalDevice, count *uint32, properties []vk.QueueFamilyProperties) {
	vk.GetPhysicalDeviceQueueFamilyProperties(device, count, properties)
}

func (vulkanCommands) GetPhysicalDeviceSurfaceSupport(device vk.PhysicalDevice, queueFamily uint32, surface vk.Surface, supported *vk.Bool32) vk.Result {
	return vk.GetPhysicalDeviceSurfaceSupport(device, queueFamily, surface, supported)
}

func (vulkanCommands) EnumerateDeviceExtensionProperties(device vk.PhysicalDevice, layer string, count *uint32, properties []vk.ExtensionProperties) vk.Result {
	return vk.EnumerateDeviceExtensionProperties(device, layer, count, properties)
}

func (vulkanCommands) EnumerateDeviceLayerProperties(device vk.PhysicalDevice, count *uint32, properties []vk.LayerProperties) vk.Result {
	return vk.EnumerateDeviceLayerProperties(device, count, properties)
}

func (vulkanCommands) CreateDevice(physicalDevice vk.PhysicalDevice, info *vk.DeviceCreateInfo, allocator *vk.AllocationCallbacks, device *vk.Device) vk.Result {
	return vk.CreateDevice(physicalDevice, info, allocator, device)
}

func (vulkanCommands) DestroyDevice(device vk.Device, allocator *vk.AllocationCallbacks) {
	vk.DestroyDevice(device, allocator)
}
