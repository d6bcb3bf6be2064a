// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Environment variables read by LoadConfiguration.
const (
	EnvApplicationName  = "CINDER_APP_NAME"
	EnvEngineName       = "CINDER_ENGINE_NAME"
	EnvDebug            = "CINDER_DEBUG"
	EnvLayers           = "CINDER_LAYERS"
	EnvExtensions       = "CINDER_EXTENSIONS"
	EnvDeviceType       = "CINDER_DEVICE_TYPE"
	EnvDeviceExtensions = "CINDER_DEVICE_EXTENSIONS"
	EnvLogLevel         = "CINDER_LOG_LEVEL"
)

// Configuration defines a global configuration setting
type Configuration struct {
	Application ApplicationConfiguration
	Instance    InstanceConfiguration
	Selection   SelectionCriteria
	LogLevel    log.Level
}

// ApplicationConfiguration names the application to the driver
type ApplicationConfiguration struct {
	Name          string
	EngineName    string
	Version       uint32
	EngineVersion uint32
	APIVersion    uint32
}

// InstanceConfiguration is used to configure instance creation
type InstanceConfiguration struct {
	// DebugMode enables the validation layer and debug reporting
	DebugMode  bool
	Extensions []string
	Layers     []string
}

// DefaultConfiguration returns the configuration used when nothing is set.
func DefaultConfiguration() Configuration {
	return Configuration{
		Application: ApplicationConfiguration{
			Name:          "Cinder",
			EngineName:    "None",
			Version:       MakeAPIVersion(0, 1, 0, 0),
			EngineVersion: MakeAPIVersion(0, 1, 0, 0),
			APIVersion:    MakeAPIVersion(0, 1, 0, 0),
		},
		LogLevel: log.InfoLevel,
	}
}

// ReloadEnvironment re-reads the process environment into envy. envy
// runs `go env GOPATH` when GOPATH is unset, so this is meant for
// startup or tests, not for every LoadConfiguration.
func ReloadEnvironment() {
	envy.Reload()
}

// LoadConfiguration builds a configuration from the environment envy
// holds, with the given .env files layered under it. Variables already
// set win over the files and unset ones keep their defaults. The process
// environment itself is left untouched.
func LoadConfiguration(files ...string) (Configuration, error) {
	cfg := DefaultConfiguration()

	if len(files) > 0 {
		vars, err := godotenv.Read(files...)
		if err != nil {
			return cfg, fmt.Errorf("godotenv.Read(): %w", err)
		}
		current := envy.Map()
		for key, value := range vars {
			if _, ok := current[key]; !ok {
				envy.Set(key, value)
			}
		}
	}

	cfg.Application.Name = envy.Get(EnvApplicationName, cfg.Application.Name)
	cfg.Application.EngineName = envy.Get(EnvEngineName, cfg.Application.EngineName)

	debug, err := strconv.ParseBool(envy.Get(EnvDebug, "false"))
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", EnvDebug, err)
	}
	cfg.Instance.DebugMode = debug
	cfg.Instance.Layers = splitList(envy.Get(EnvLayers, ""))
	cfg.Instance.Extensions = splitList(envy.Get(EnvExtensions, ""))

	if deviceType := envy.Get(EnvDeviceType, ""); deviceType != "" {
		if _, err := ParseDeviceType(deviceType); err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvDeviceType, err)
		}
		cfg.Selection.PreferredType = deviceType
	}
	cfg.Selection.RequiredExtensions = splitList(envy.Get(EnvDeviceExtensions, ""))

	level, err := log.ParseLevel(envy.Get(EnvLogLevel, cfg.LogLevel.String()))
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	cfg.LogLevel = level
	return cfg, nil
}

// ApplicationInfo builds the application descriptor.
func (c Configuration) ApplicationInfo() *ApplicationInfo {
	return NewApplicationInfoBuilder().
		ApplicationName(c.Application.Name).
		ApplicationVersion(c.Application.Version).
		EngineName(c.Application.EngineName).
		EngineVersion(c.Application.EngineVersion).
		APIVersion(c.Application.APIVersion).
		Build()
}

// InstanceCreateInfo builds the instance descriptor, enabling the
// configured layers and extensions plus any extra extensions, typically
// the ones a windowing library requires.
func (c Configuration) InstanceCreateInfo(extra ...string) *InstanceCreateInfo {
	layers := copyStrings(c.Instance.Layers)
	extensions := append(copyStrings(c.Instance.Extensions), extra...)
	if c.Instance.DebugMode {
		layers = appendMissing(layers, ValidationLayerName)
		extensions = appendMissing(extensions, DebugReportExtensionName)
	}

	return NewInstanceCreateInfoBuilder().
		ApplicationInfo(c.ApplicationInfo()).
		EnabledLayers(layers...).
		EnabledExtensions(extensions).
		Build()
}

func splitList(value string) []string {
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

func appendMissing(list []string, name string) []string {
	for _, item := range list {
		if item == name {
			return list
		}
	}
	return append(list, name)
}
