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

// CreateInstance marshals info, calls vkCreateInstance and returns the new
// instance. A nil info or allocator is passed to the driver as NULL.
func CreateInstance(cmds Commands, info *InstanceCreateInfo, allocator *vk.AllocationCallbacks) (vk.Instance, error) {
	var arena Arena
	defer arena.Release()

	var raw *vk.InstanceCreateInfo
	if info != nil {
		var err error
		if raw, err = info.Marshal(&arena); err != nil {
			return nil, fmt.Errorf("instance create info: %w", err)
		}
		log.WithFields(log.Fields{
			"layers":     raw.EnabledLayerCount,
			"extensions": raw.EnabledExtensionCount,
		}).Debug("creating vulkan instance")
	}

	var instance vk.Instance
	if err := check(cmds.CreateInstance(raw, allocator, &instance)); err != nil {
		return nil, fmt.Errorf("vk.CreateInstance(): %w", err)
	}
	return instance, nil
}

// CreateDevice marshals info, calls vkCreateDevice on physicalDevice and
// returns the new logical device handle.
func CreateDevice(cmds Commands, physicalDevice vk.PhysicalDevice, info *DeviceCreateInfo, allocator *vk.AllocationCallbacks) (vk.Device, error) {
	if physicalDevice == nil {
		return nil, ErrNilDevice
	}

	var arena Arena
	defer arena.Release()

	var raw *vk.DeviceCreateInfo
	if info != nil {
		var err error
		if raw, err = info.Marshal(&arena); err != nil {
			return nil, fmt.Errorf("device create info: %w", err)
		}
		log.WithFields(log.Fields{
			"queues":     raw.QueueCreateInfoCount,
			"extensions": raw.EnabledExtensionCount,
		}).Debug("creating vulkan device")
	}

	var device vk.Device
	if err := check(cmds.CreateDevice(physicalDevice, raw, allocator, &device)); err != nil {
		return nil, fmt.Errorf("vk.CreateDevice(): %w", err)
	}
	return device, nil
}

// enumerate runs the two-call idiom: query the count with a nil buffer,
// allocate a zeroed buffer of that size and fill it. A zero count returns
// an empty slice without the second call.
func enumerate[T any](call func(count *uint32, out []T) vk.Result) ([]T, error) {
	var count uint32
	if err := check(call(&count, nil)); err != nil {
		return nil, err
	}
	if count == 0 {
		return []T{}, nil
	}

	out := make([]T, count)
	requested := count
	if err := check(call(&count, out)); err != nil {
		return nil, err
	}
	if count < requested {
		log.WithFields(log.Fields{
			"requested": requested,
			"returned":  count,
		}).Warn("enumeration returned fewer entries than reported")
	}
	return out[:count], nil
}

// PhysicalDevices returns the physical devices of instance in the order
// the driver reports them.
func PhysicalDevices(cmds Commands, instance vk.Instance) ([]vk.PhysicalDevice, error) {
	devices, err := enumerate(func(count *uint32, out []vk.PhysicalDevice) vk.Result {
		return cmds.EnumeratePhysicalDevices(instance, count, out)
	})
	if err != nil {
		return nil, fmt.Errorf("vk.EnumeratePhysicalDevices(): %w", err)
	}
	return devices, nil
}

// PhysicalDeviceProperties returns the dereferenced properties of device.
func PhysicalDeviceProperties(cmds Commands, device vk.PhysicalDevice) vk.PhysicalDeviceProperties {
	var properties vk.PhysicalDeviceProperties
	cmds.GetPhysicalDeviceProperties(device, &properties)
	properties.Deref()
	properties.Limits.Deref()
	return properties
}

// MemoryProperties returns the dereferenced memory properties of device.
func MemoryProperties(cmds Commands, device vk.PhysicalDevice) vk.PhysicalDeviceMemoryProperties {
	var properties vk.PhysicalDeviceMemoryProperties
	cmds.GetPhysicalDeviceMemoryProperties(device, &properties)
	properties.Deref()
	for i := uint32(0); i < properties.MemoryHeapCount; i++ {
		properties.MemoryHeaps[i].Deref()
	}
	for i := uint32(0); i < properties.MemoryTypeCount; i++ {
		properties.MemoryTypes[i].Deref()
	}
	return properties
}

// QueueFamilyProperties returns the queue families of device, indexed by
// queue family index. The raw query reports no result code.
func QueueFamilyProperties(cmds Commands, device vk.PhysicalDevice) []vk.QueueFamilyProperties {
	families, _ := enumerate(func(count *uint32, out []vk.QueueFamilyProperties) vk.Result {
		cmds.GetPhysicalDeviceQueueFamilyProperties(device, count, out)
		return vk.Success
	})
	for i := range families {
		families[i].Deref()
		families[i].MinImageTransferGranularity.Deref()
	}
	return families
}

// SurfaceSupport reports whether the queue family of device can present
// to surface. Any result other than success is returned as an error.
func SurfaceSupport(cmds Commands, device vk.PhysicalDevice, queueFamily uint32, surface vk.Surface) (bool, error) {
	var supported vk.Bool32
	if err := check(cmds.GetPhysicalDeviceSurfaceSupport(device, queueFamily, surface, &supported)); err != nil {
		return false, fmt.Errorf("vk.GetPhysicalDeviceSurfaceSupport(): %w", err)
	}
	return supported != 0, nil
}

// DeviceExtensions returns the names of the extensions device supports.
func DeviceExtensions(cmds Commands, device vk.PhysicalDevice) ([]string, error) {
	properties, err := enumerate(func(count *uint32, out []vk.ExtensionProperties) vk.Result {
		return cmds.EnumerateDeviceExtensionProperties(device, "", count, out)
	})
	if err != nil {
		return nil, fmt.Errorf("vk.EnumerateDeviceExtensionProperties(): %w", err)
	}
	return extensionNames(properties), nil
}

// DeviceLayers returns the names of the layers device supports.
func DeviceLayers(cmds Commands, device vk.PhysicalDevice) ([]string, error) {
	properties, err := enumerate(func(count *uint32, out []vk.LayerProperties) vk.Result {
		return cmds.EnumerateDeviceLayerProperties(device, count, out)
	})
	if err != nil {
		return nil, fmt.Errorf("vk.EnumerateDeviceLayerProperties(): %w", err)
	}
	return layerNames(properties), nil
}

// InstanceLayers returns the names of the instance layers installed.
func InstanceLayers(cmds Commands) ([]string, error) {
	properties, err := enumerate(func(count *uint32, out []vk.LayerProperties) vk.Result {
		return cmds.EnumerateInstanceLayerProperties(count, out)
	})
	if err != nil {
		return nil, fmt.Errorf("vk.EnumerateInstanceLayerProperties(): %w", err)
	}
	return layerNames(properties), nil
}

// InstanceExtensions returns the instance extensions provided by layer,
// or by the implementation when layer is empty.
func InstanceExtensions(cmds Commands, layer string) ([]string, error) {
	var arena Arena
	defer arena.Release()

	var layerName string
	if layer != "" {
		var err error
		if layerName, err = arena.String(layer); err != nil {
			return nil, err
		}
	}

	properties, err := enumerate(func(count *uint32, out []vk.ExtensionProperties) vk.Result {
		return cmds.EnumerateInstanceExtensionProperties(layerName, count, out)
	})
	if err != nil {
		return nil, fmt.Errorf("vk.EnumerateInstanceExtensionProperties(): %w", err)
	}
	return extensionNames(properties), nil
}

// CheckInstanceLayers returns ErrLayerUnavailable naming the first of
// layers that is not installed.
func CheckInstanceLayers(cmds Commands, layers []string) error {
	if len(layers) == 0 {
		return nil
	}
	available, err := InstanceLayers(cmds)
	if err != nil {
		return err
	}
	supported := make(map[string]bool, len(available))
	for _, name := range available {
		supported[name] = true
	}
	for _, name := range layers {
		if !supported[name] {
			return fmt.Errorf("%s: %w", name, ErrLayerUnavailable)
		}
	}
	return nil
}

func extensionNames(properties []vk.ExtensionProperties) []string {
	names := make([]string, 0, len(properties))
	for i := range properties {
		properties[i].Deref()
		names = append(names, vk.ToString(properties[i].ExtensionName[:]))
	}
	return names
}

func layerNames(properties []vk.LayerProperties) []string {
	names := make([]string, 0, len(properties))
	for i := range properties {
		properties[i].Deref()
		names = append(names, vk.ToString(properties[i].LayerName[:]))
	}
	return names
}
