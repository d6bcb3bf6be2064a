// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"strings"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// handleMemory backs fake handles so that each one is a distinct, non-nil pointer.
var handleMemory [128]byte

func fakePhysicalDevice(i int) vk.PhysicalDevice {
	return vk.PhysicalDevice(unsafe.Pointer(&handleMemory[i]))
}

func fakeDevice(i int) vk.Device {
	return vk.Device(unsafe.Pointer(&handleMemory[32+i]))
}

func fakeInstance(i int) vk.Instance {
	return vk.Instance(unsafe.Pointer(&handleMemory[64+i]))
}

// surfaceSlots hold surface handle values. Windowing libraries hand out a
// pointer to the handle, not the handle itself.
var surfaceSlots [32]uintptr

func fakeSurfacePointer(i int) unsafe.Pointer {
	surfaceSlots[i] = uintptr(unsafe.Pointer(&handleMemory[96+i]))
	return unsafe.Pointer(&surfaceSlots[i])
}

func fakeSurface(i int) vk.Surface {
	return vk.SurfaceFromPointer(uintptr(fakeSurfacePointer(i)))
}

type fakeGPU struct {
	name       string
	deviceType vk.PhysicalDeviceType
	families   []vk.QueueFlags
	present    map[uint32]vk.Bool32
	extensions []string
	layers     []string
	heaps      []vk.DeviceSize
}

// fakeCommands implements core.Commands over in-memory data and records
// what it was called with.
type fakeCommands struct {
	instance       vk.Instance
	instanceResult vk.Result
	instanceInfo   *vk.InstanceCreateInfo
	allocator      *vk.AllocationCallbacks
	instanceCalls  int
	destroyedInst  []vk.Instance

	devices        []vk.PhysicalDevice
	gpus           map[vk.PhysicalDevice]*fakeGPU
	countResult    vk.Result
	populateResult vk.Result
	shrinkTo       int
	populateCalls  int
	surfaceResult  vk.Result
	surfaceCalls   int

	instanceLayers []string

	// instanceExtensions are keyed by layer, "" for the implementation.
	instanceExtensions      map[string][]string
	extensionLayers         []string
	extensionCountResult    vk.Result
	extensionPopulateResult vk.Result
	destroyedSurfaces       []vk.Surface

	device          vk.Device
	deviceResult    vk.Result
	deviceInfo      *vk.DeviceCreateInfo
	deviceCalls     int
	destroyedDevice []vk.Device
}

func newFakeCommands(gpus ...*fakeGPU) *fakeCommands {
	f := &fakeCommands{
		instance: fakeInstance(0),
		device:   fakeDevice(0),
		gpus:     make(map[vk.PhysicalDevice]*fakeGPU),
	}
	for i, gpu := range gpus {
		handle := fakePhysicalDevice(i)
		f.devices = append(f.devices, handle)
		f.gpus[handle] = gpu
	}
	return f
}

func (f *fakeCommands) CreateInstance(info *vk.InstanceCreateInfo, allocator *vk.AllocationCallbacks, instance *vk.Instance) vk.Result {
	f.instanceCalls++
	f.instanceInfo = info
	f.allocator = allocator
	if f.instanceResult != vk.Success {
		return f.instanceResult
	}
	*instance = f.instance
	return vk.Success
}

func (f *fakeCommands) DestroyInstance(instance vk.Instance, allocator *vk.AllocationCallbacks) {
	f.destroyedInst = append(f.destroyedInst, instance)
}

func (f *fakeCommands) EnumerateInstanceLayerProperties(count *uint32, properties []vk.LayerProperties) vk.Result {
	if properties == nil {
		*count = uint32(len(f.instanceLayers))
		return vk.Success
	}
	for i := range properties {
		copy(properties[i].LayerName[:], f.instanceLayers[i])
	}
	return vk.Success
}

func (f *fakeCommands) EnumerateInstanceExtensionProperties(layer string, count *uint32, properties []vk.ExtensionProperties) vk.Result {
	layer = strings.TrimSuffix(layer, "\x00")
	extensions := f.instanceExtensions[layer]
	if properties == nil {
		f.extensionLayers = append(f.extensionLayers, layer)
		if f.extensionCountResult != vk.Success {
			return f.extensionCountResult
		}
		*count = uint32(len(extensions))
		return vk.Success
	}
	if f.extensionPopulateResult != vk.Success {
		return f.extensionPopulateResult
	}
	for i := range properties {
		copy(properties[i].ExtensionName[:], extensions[i])
	}
	return vk.Success
}

func (f *fakeCommands) DestroySurface(instance vk.Instance, surface vk.Surface, allocator *vk.AllocationCallbacks) {
	f.destroyedSurfaces = append(f.destroyedSurfaces, surface)
}

func (f *fakeCommands) EnumeratePhysicalDevices(instance vk.Instance, count *uint32, devices []vk.PhysicalDevice) vk.Result {
	if devices == nil {
		if f.countResult != vk.Success {
			return f.countResult
		}
		*count = uint32(len(f.devices))
		return vk.Success
	}
	f.populateCalls++
	if f.populateResult != vk.Success {
		return f.populateResult
	}
	n := copy(devices, f.devices)
	if f.shrinkTo > 0 && f.shrinkTo < n {
		n = f.shrinkTo
	}
	*count = uint32(n)
	return vk.Success
}

func (f *fakeCommands) GetPhysicalDeviceProperties(device vk.PhysicalDevice, properties *vk.PhysicalDeviceProperties) {
	gpu := f.gpus[device]
	properties.DeviceType = gpu.deviceType
	properties.ApiVersion = vk.MakeVersion(1, 2, 0)
	copy(properties.DeviceName[:], gpu.name)
}

func (f *fakeCommands) GetPhysicalDeviceMemoryProperties(device vk.PhysicalDevice, properties *vk.PhysicalDeviceMemoryProperties) {
	gpu := f.gpus[device]
	properties.MemoryHeapCount = uint32(len(gpu.heaps))
	for i, size := range gpu.heaps {
		properties.MemoryHeaps[i].Size = size
	}
}

func (f *fakeCommands) GetPhysicalDeviceQueueFamilyProperties(device vk.PhysicalDevice, count *uint32, properties []vk.QueueFamilyProperties) {
	gpu := f.gpus[device]
	if properties == nil {
		*count = uint32(len(gpu.families))
		return
	}
	for i := range properties {
		properties[i].QueueFlags = gpu.families[i]
		properties[i].QueueCount = uint32(i + 1)
	}
}

func (f *fakeCommands) GetPhysicalDeviceSurfaceSupport(device vk.PhysicalDevice, queueFamily uint32, surface vk.Surface, supported *vk.Bool32) vk.Result {
	f.surfaceCalls++
	if f.surfaceResult != vk.Success {
		return f.surfaceResult
	}
	*supported = f.gpus[device].present[queueFamily]
	return vk.Success
}

func (f *fakeCommands) EnumerateDeviceExtensionProperties(device vk.PhysicalDevice, layer string, count *uint32, properties []vk.ExtensionProperties) vk.Result {
	gpu := f.gpus[device]
	if properties == nil {
		*count = uint32(len(gpu.extensions))
		return vk.Success
	}
	for i := range properties {
		copy(properties[i].ExtensionName[:], gpu.extensions[i])
	}
	return vk.Success
}

func (f *fakeCommands) EnumerateDeviceLayerProperties(device vk.PhysicalDevice, count *uint32, properties []vk.LayerProperties) vk.Result {
	gpu := f.gpus[device]
	if properties == nil {
		*count = uint32(len(gpu.layers))
		return vk.Success
	}
	for i := range properties {
		copy(properties[i].LayerName[:], gpu.layers[i])
	}
	return vk.Success
}

func (f *fakeCommands) CreateDevice(physicalDevice vk.PhysicalDevice, info *vk.DeviceCreateInfo, allocator *vk.AllocationCallbacks, device *vk.Device) vk.Result {
	f.deviceCalls++
	f.deviceInfo = info
	if f.deviceResult != vk.Success {
		return f.deviceResult
	}
	*device = f.device
	return vk.Success
}

func (f *fakeCommands) DestroyDevice(device vk.Device, allocator *vk.AllocationCallbacks) {
	f.destroyedDevice = append(f.destroyedDevice, device)
}
