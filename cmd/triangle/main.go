// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/cinder/core"
)

func init() {
	runtime.LockOSThread()
}

var (
	envFile   = flag.String("env", "", "Load configuration from the given .env file")
	debug     = flag.Bool("vkdbg", false, "Load Vulkan validation layers")
	pollDelay = flag.Duration("poll", 50*time.Millisecond, "Event poll interval")
	width     = flag.Int("width", 800, "Window width")
	height    = flag.Int("height", 600, "Window height")
)

func newWindow(title string) (*sdl.Window, error) {
	return sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(*width),
		int32(*height),
		sdl.WINDOW_VULKAN)
}

func main() {
	flag.Parse()

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := core.LoadConfiguration(files...)
	if err != nil {
		log.Fatal(err)
	}
	cfg.Application.Name = "Triangle"
	cfg.Application.EngineVersion = core.MakeAPIVersion(0, 1, 3, 0)
	cfg.Instance.DebugMode = cfg.Instance.DebugMode || *debug
	log.SetLevel(cfg.LogLevel)

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		log.Fatal(err)
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		log.Fatal(err)
	}
	defer sdl.VulkanUnloadLibrary()

	window, err := newWindow(cfg.Application.Name)
	if err != nil {
		log.Fatal(err)
	}
	defer window.Destroy()

	if err := run(cfg, window); err != nil {
		log.Fatal(err)
	}
}

func run(cfg core.Configuration, window *sdl.Window) error {
	cmds, err := core.Load(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return err
	}

	var cleanup []core.Destroyable
	defer func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i].Destroy()
		}
	}()

	instance, err := core.NewInstance(cmds, cfg.InstanceCreateInfo(window.VulkanGetInstanceExtensions()...), nil)
	if err != nil {
		return err
	}
	cleanup = append(cleanup, instance)

	surface, err := window.VulkanCreateSurface(instance.Inner())
	if err != nil {
		return err
	}
	instance.SetSurface(surface)

	criteria := cfg.Selection
	criteria.RequiredExtensions = append(criteria.RequiredExtensions, core.SwapchainExtensionName)
	physicalDevice, queues, err := instance.PickPhysicalDevice(criteria)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"device":   physicalDevice.Info().Name,
		"graphics": queues.Graphics,
		"present":  queues.Present,
	}).Info("physical device selected")

	builder := core.NewDeviceCreateInfoBuilder().
		EnabledExtensions(criteria.RequiredExtensions)
	for _, family := range queues.Unique() {
		builder.Queue(family, 1)
	}
	device, err := physicalDevice.CreateLogicalDevice(builder.Build(), nil)
	if err != nil {
		return err
	}
	cleanup = append(cleanup, device)

	eventLoop()
	return nil
}

func eventLoop() {
	ticker := time.NewTicker(*pollDelay)
	defer ticker.Stop()

	for range ticker.C {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch et := event.(type) {
			case *sdl.KeyboardEvent:
				if et.Keysym.Sym == sdl.K_ESCAPE {
					log.Info("escape pressed, exiting")
					return
				}
			case *sdl.QuitEvent:
				log.Info("window closed, exiting")
				return
			}
		}
	}
}
