// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/cinder/core"
)

func TestCreateInstanceWithoutDescriptor(t *testing.T) {
	c := qt.New(t)
	cmds := newFakeCommands()

	instance, err := core.CreateInstance(cmds, nil, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(instance, qt.Equals, cmds.instance)
	c.Assert(cmds.instanceInfo, qt.IsNil)
	c.Assert(cmds.allocator, qt.IsNil)
}

func TestCreateInstancePassesMarshaledInfo(t *testing.T) {
	c := qt.New(t)
	cmds := newFakeCommands()
	info := core.NewInstanceCreateInfoBuilder().
		ApplicationInfo(core.NewApplicationInfoBuilder().ApplicationName("Triangle").Build()).
		EnabledExtensions([]string{core.SurfaceExtensionName}).
		Build()

	_, err := core.CreateInstance(cmds, info, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(cmds.instanceInfo, qt.Not(qt.IsNil))
	c.Assert(cmds.instanceInfo.PApplicationInfo.PApplicationName, qt.Equals, "Triangle\x00")
	c.Assert(cmds.instanceInfo.PpEnabledExtensionNames, qt.DeepEquals, []string{"VK_KHR_surface\x00"})
}

func TestCreateInstanceFailure(t *testing.T) {
	c := qt.New(t)
	cmds := newFakeCommands()
	cmds.instanceResult = vk.ErrorIncompatibleDriver

	instance, err := core.CreateInstance(cmds, nil, nil)
	c.Assert(instance == nil, qt.IsTrue)

	var result core.Result
	c.Assert(err, qt.ErrorAs, &result)
	c.Assert(vk.Result(result), qt.Equals, vk.ErrorIncompatibleDriver)
	c.Assert(err, qt.ErrorMatches, `vk.CreateInstance\(\): vulkan: VK_ERROR_INCOMPATIBLE_DRIVER`)
}

func TestCreateInstanceMarshalFailureSkipsRawCall(t *testing.T) {
	c := qt.New(t)
	cmds := newFakeCommands()
	info := core.NewInstanceCreateInfoBuilder().EnabledLayers("a\x00b").Build()

	_, err := core.CreateInstance(cmds, info, nil)
	c.Assert(err, qt.ErrorIs, core.ErrEmbeddedNUL)
	c.Assert(cmds.instanceCalls, qt.Equals, 0)
}

func TestResultString(t *testing.T) {
	c := qt.New(t)
	c.Assert(core.Result(vk.ErrorDeviceLost).String(), qt.Equals, "VK_ERROR_DEVICE_LOST")
	c.Assert(core.Result(-12345).String(), qt.Equals, "VkResult(-12345)")
}

func TestPhysicalDevicesOrder(t *testing.T) {
	c := qt.New(t)
	cmds := newFakeCommands(&fakeGPU{name: "a"}, &fakeGPU{name: "b"}, &fakeGPU{name: "c"})

	devices, err := core.PhysicalDevices(cmds, cmds.instance)
	c.Assert(err, qt.IsNil)
	c.Assert(devices, qt.DeepEquals, cmds.devices)
}

func TestPhysicalDevicesZeroCount(t *testing.T) {
	c := qt.New(t)
	cmds := newFakeCommands()

	devices, err := core.PhysicalDevices(cmds, cmds.instance)
	c.Assert(err, qt.IsNil)
	c.Assert(devices, qt.Not(qt.IsNil))
	c.Assert(devices, qt.HasLen, 0)
	c.Assert(cmds.populateCalls, qt.Equals, 0)
}

func TestPhysicalDevicesErrors(t *testing.T) {
	c := qt.New(t)
	cmds := newFakeCommands(&fakeGPU{name: "a"})
	cmds.countResult = vk.ErrorInitializationFailed
	_, err := core.PhysicalDevices(cmds, cmds.instance)
	c.Assert(err, qt.ErrorIs, core.Result(vk.ErrorInitializationFailed))
	c.Assert(cmds.populateCalls, qt.Equals, 0)

	cmds.countResult = vk.Success
	cmds.populateResult = vk.Incomplete
	_, err = core.PhysicalDevices(cmds, cmds.instance)
	c.Assert(err, qt.ErrorIs, core.Result(vk.Incomplete))
}

func TestPhysicalDevicesShrink(t *testing.T) {
	c := qt.New(t)
	hook := test.NewGlobal()
	defer hook.Reset()

	cmds := newFakeCommands(&fakeGPU{name: "a"}, &fakeGPU{name: "b"})
	cmds.shrinkTo = 1
	devices, err := core.PhysicalDevices(cmds, cmds.instance)
	c.Assert(err, qt.IsNil)
	c.Assert(devices, qt.DeepEquals, cmds.devices[:1])
	c.Assert(hook.LastEntry(), qt.Not(qt.IsNil))
	c.Assert(hook.LastEntry().Level, qt.Equals, logrus.WarnLevel)
}

func TestQueueFamilyProperties(t *testing.T) {
	c := qt.New(t)
	graphics := vk.QueueFlags(vk.QueueGraphicsBit)
	transfer := vk.QueueFlags(vk.QueueTransferBit)
	cmds := newFakeCommands(
		&fakeGPU{families: []vk.QueueFlags{graphics, transfer, graphics | transfer}},
		&fakeGPU{},
	)

	families := core.QueueFamilyProperties(cmds, cmds.devices[0])
	c.Assert(families, qt.HasLen, 3)
	for i, want := range []vk.QueueFlags{graphics, transfer, graphics | transfer} {
		c.Assert(families[i].QueueFlags, qt.Equals, want)
		c.Assert(families[i].QueueCount, qt.Equals, uint32(i+1))
	}

	empty := core.QueueFamilyProperties(cmds, cmds.devices[1])
	c.Assert(empty, qt.HasLen, 0)
}

func TestSurfaceSupport(t *testing.T) {
	c := qt.New(t)
	cmds := newFakeCommands(&fakeGPU{present: map[uint32]vk.Bool32{1: 1, 2: 7}})
	device := cmds.devices[0]
	surface := fakeSurface(0)
	c.Assert(surface, qt.Not(qt.Equals), vk.NullSurface)

	for family, want := range map[uint32]bool{0: false, 1: true, 2: true} {
		supported, err := core.SurfaceSupport(cmds, device, family, surface)
		c.Assert(err, qt.IsNil)
		c.Assert(supported, qt.Equals, want, qt.Commentf("family %d", family))
	}

	cmds.surfaceResult = vk.ErrorSurfaceLost
	supported, err := core.SurfaceSupport(cmds, device, 1, surface)
	c.Assert(supported, qt.IsFalse)
	c.Assert(err, qt.ErrorIs, core.Result(vk.ErrorSurfaceLost))
}

func TestDeviceExtensionsAndLayers(t *testing.T) {
	c := qt.New(t)
	cmds := newFakeCommands(&fakeGPU{
		extensions: []string{core.SwapchainExtensionName, "VK_KHR_maintenance1"},
		layers:     []string{core.ValidationLayerName},
	})

	extensions, err := core.DeviceExtensions(cmds, cmds.devices[0])
	c.Assert(err, qt.IsNil)
	c.Assert(extensions, qt.DeepEquals, []string{core.SwapchainExtensionName, "VK_KHR_maintenance1"})

	layers, err := core.DeviceLayers(cmds, cmds.devices[0])
	c.Assert(err, qt.IsNil)
	c.Assert(layers, qt.DeepEquals, []string{core.ValidationLayerName})
}

func TestInstanceExtensions(t *testing.T) {
	c := qt.New(t)
	cmds := newFakeCommands()
	cmds.instanceExtensions = map[string][]string{
		"":                       {core.SurfaceExtensionName, "VK_KHR_xcb_surface"},
		core.ValidationLayerName: {core.DebugReportExtensionName},
	}

	extensions, err := core.InstanceExtensions(cmds, "")
	c.Assert(err, qt.IsNil)
	c.Assert(extensions, qt.DeepEquals, []string{core.SurfaceExtensionName, "VK_KHR_xcb_surface"})

	extensions, err = core.InstanceExtensions(cmds, core.ValidationLayerName)
	c.Assert(err, qt.IsNil)
	c.Assert(extensions, qt.DeepEquals, []string{core.DebugReportExtensionName})
	c.Assert(cmds.extensionLayers, qt.DeepEquals, []string{"", core.ValidationLayerName})

	extensions, err = core.InstanceExtensions(cmds, "VK_LAYER_empty")
	c.Assert(err, qt.IsNil)
	c.Assert(extensions, qt.HasLen, 0)

	_, err = core.InstanceExtensions(cmds, "VK_LAYER_\x00bad")
	c.Assert(err, qt.ErrorIs, core.ErrEmbeddedNUL)

	cmds.extensionCountResult = vk.ErrorLayerNotPresent
	_, err = core.InstanceExtensions(cmds, "VK_LAYER_missing")
	c.Assert(err, qt.ErrorIs, core.Result(vk.ErrorLayerNotPresent))
	c.Assert(err, qt.ErrorMatches, "vk.EnumerateInstanceExtensionProperties\\(\\): .*")

	cmds.extensionCountResult = vk.Success
	cmds.extensionPopulateResult = vk.ErrorOutOfHostMemory
	_, err = core.InstanceExtensions(cmds, "")
	c.Assert(err, qt.ErrorIs, core.Result(vk.ErrorOutOfHostMemory))
}

func TestCheckInstanceLayers(t *testing.T) {
	c := qt.New(t)
	cmds := newFakeCommands()
	cmds.instanceLayers = []string{core.ValidationLayerName}

	c.Assert(core.CheckInstanceLayers(cmds, nil), qt.IsNil)
	c.Assert(core.CheckInstanceLayers(cmds, []string{core.ValidationLayerName}), qt.IsNil)
	err := core.CheckInstanceLayers(cmds, []string{"VK_LAYER_missing"})
	c.Assert(err, qt.ErrorIs, core.ErrLayerUnavailable)
	c.Assert(err, qt.ErrorMatches, "VK_LAYER_missing: .*")
}

func TestCreateDevice(t *testing.T) {
	c := qt.New(t)
	cmds := newFakeCommands(&fakeGPU{name: "gpu"})

	_, err := core.CreateDevice(cmds, nil, nil, nil)
	c.Assert(err, qt.ErrorIs, core.ErrNilDevice)

	info := core.NewDeviceCreateInfoBuilder().Queue(0, 1).Build()
	device, err := core.CreateDevice(cmds, cmds.devices[0], info, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(device, qt.Equals, cmds.device)
	c.Assert(cmds.deviceInfo.QueueCreateInfoCount, qt.Equals, uint32(1))

	cmds.deviceResult = vk.ErrorFeatureNotPresent
	_, err = core.CreateDevice(cmds, cmds.devices[0], nil, nil)
	c.Assert(err, qt.ErrorIs, core.Result(vk.ErrorFeatureNotPresent))
	c.Assert(cmds.deviceInfo, qt.IsNil)
}

func TestLogicalDeviceDestroyOnce(t *testing.T) {
	c := qt.New(t)
	hook := test.NewGlobal()
	defer hook.Reset()

	cmds := newFakeCommands(&fakeGPU{name: "gpu"})
	pd := core.NewPhysicalDevice(cmds, cmds.devices[0])
	device, err := pd.CreateLogicalDevice(core.NewDeviceCreateInfoBuilder().Queue(0, 1).Build(), nil)
	c.Assert(err, qt.IsNil)
	c.Assert(device.Handle(), qt.Equals, cmds.device)

	device.Destroy()
	device.Destroy()
	c.Assert(cmds.destroyedDevice, qt.DeepEquals, []vk.Device{cmds.device})
	c.Assert(device.Handle() == nil, qt.IsTrue)
	c.Assert(hook.LastEntry().Message, qt.Equals, "logical device destroyed twice")

	_, err = core.NewLogicalDevice(nil, nil, nil)
	c.Assert(err, qt.ErrorIs, core.ErrNilDevice)
}

func TestInstanceLifecycle(t *testing.T) {
	c := qt.New(t)
	cmds := newFakeCommands(
		&fakeGPU{name: "Fake Discrete", deviceType: vk.PhysicalDeviceTypeDiscreteGpu, heaps: []vk.DeviceSize{1024, 512}, extensions: []string{core.SwapchainExtensionName}},
		&fakeGPU{name: "Fake CPU", deviceType: vk.PhysicalDeviceTypeCpu},
	)

	instance, err := core.NewInstance(cmds, nil, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(instance.Handle(), qt.Equals, cmds.instance)
	c.Assert(instance.Surface(), qt.Equals, vk.NullSurface)

	info, err := instance.PhysicalDevicesInfo()
	c.Assert(err, qt.IsNil)
	c.Assert(info, qt.HasLen, 2)
	c.Assert(info[0].Name, qt.Equals, "Fake Discrete")
	c.Assert(info[0].Type, qt.Equals, core.DeviceTypeDiscrete)
	c.Assert(info[0].Memory, qt.Equals, uint(1536))
	c.Assert(info[0].APIVersion, qt.Equals, "1.2.0")
	c.Assert(info[0].Extensions, qt.DeepEquals, []string{core.SwapchainExtensionName})
	c.Assert(info[0].Invalid, qt.IsFalse)
	c.Assert(info[1].Type, qt.Equals, core.DeviceTypeCPU)

	instance.Destroy()
	instance.Destroy()
	c.Assert(cmds.destroyedInst, qt.HasLen, 1)
	c.Assert(cmds.destroyedSurfaces, qt.HasLen, 0)
}

func TestInstanceOwnsSurface(t *testing.T) {
	c := qt.New(t)
	cmds := newFakeCommands()
	instance, err := core.NewInstance(cmds, nil, nil)
	c.Assert(err, qt.IsNil)

	instance.SetSurface(nil)
	c.Assert(instance.Surface(), qt.Equals, vk.NullSurface)

	instance.SetSurface(fakeSurfacePointer(1))
	surface := instance.Surface()
	c.Assert(surface, qt.Not(qt.Equals), vk.NullSurface)

	instance.Destroy()
	instance.Destroy()
	c.Assert(cmds.destroyedSurfaces, qt.DeepEquals, []vk.Surface{surface})
	c.Assert(cmds.destroyedInst, qt.DeepEquals, []vk.Instance{cmds.instance})
	c.Assert(instance.Surface(), qt.Equals, vk.NullSurface)
}
