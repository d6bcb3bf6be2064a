// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/cinder/core"
)

var (
	envFile = flag.String("env", "", "Load configuration from the given .env file")
	pick    = flag.Bool("pick", false, "Also report the device that would be selected")
	indent  = flag.Bool("indent", true, "Indent the JSON output")
)

type report struct {
	Devices  []core.PhysicalDeviceInfo `json:"devices"`
	Selected string                    `json:"selected,omitempty"`
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
	log.SetLevel(cfg.LogLevel)

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg core.Configuration) error {
	cmds, err := core.Load(nil)
	if err != nil {
		return err
	}

	if err := core.CheckInstanceLayers(cmds, cfg.InstanceCreateInfo().EnabledLayers); err != nil {
		return err
	}

	instance, err := core.NewInstance(cmds, cfg.InstanceCreateInfo(), nil)
	if err != nil {
		return err
	}
	defer instance.Destroy()

	var r report
	if r.Devices, err = instance.PhysicalDevicesInfo(); err != nil {
		return err
	}

	if *pick {
		device, _, err := instance.PickPhysicalDevice(cfg.Selection)
		if err != nil {
			return err
		}
		r.Selected = device.Info().Name
	}

	var bytes []byte
	if *indent {
		bytes, err = json.MarshalIndent(r, "", "  ")
	} else {
		bytes, err = json.Marshal(r)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s\n", bytes)
	return nil
}
