// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// MakeAPIVersion packs a version the way VK_MAKE_API_VERSION does.
func MakeAPIVersion(variant, major, minor, patch uint32) uint32 {
	return variant<<29 | major<<22 | minor<<12 | patch
}

// ApplicationInfo describes the application to the driver. Once built it
// is not modified; it is consumed by an InstanceCreateInfo.
type ApplicationInfo struct {
	Next               Chain
	ApplicationName    string
	ApplicationVersion uint32
	EngineName         string
	EngineVersion      uint32
	APIVersion         uint32
}

// Marshal converts the descriptor into its raw form. Every string the
// result refers to is owned by a.
func (ai *ApplicationInfo) Marshal(a *Arena) (*vk.ApplicationInfo, error) {
	appName, err := a.String(ai.ApplicationName)
	if err != nil {
		return nil, fmt.Errorf("application name: %w", err)
	}
	engineName, err := a.String(ai.EngineName)
	if err != nil {
		return nil, fmt.Errorf("engine name: %w", err)
	}
	next, err := ai.Next.Marshal(a)
	if err != nil {
		return nil, err
	}

	raw := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PNext:              next,
		PApplicationName:   appName,
		ApplicationVersion: ai.ApplicationVersion,
		PEngineName:        engineName,
		EngineVersion:      ai.EngineVersion,
		ApiVersion:         ai.APIVersion,
	}
	a.Keep(raw)
	return raw, nil
}

// ApplicationInfoBuilder accumulates the fields of an ApplicationInfo.
// No field is required.
type ApplicationInfoBuilder struct {
	info ApplicationInfo
}

// NewApplicationInfoBuilder returns an empty builder.
func NewApplicationInfoBuilder() *ApplicationInfoBuilder {
	return &ApplicationInfoBuilder{}
}

func (b *ApplicationInfoBuilder) Next(ext ...Extension) *ApplicationInfoBuilder {
	b.info.Next = append(b.info.Next, ext...)
	return b
}

func (b *ApplicationInfoBuilder) ApplicationName(name string) *ApplicationInfoBuilder {
	b.info.ApplicationName = name
	return b
}

func (b *ApplicationInfoBuilder) ApplicationVersion(version uint32) *ApplicationInfoBuilder {
	b.info.ApplicationVersion = version
	return b
}

func (b *ApplicationInfoBuilder) EngineName(name string) *ApplicationInfoBuilder {
	b.info.EngineName = name
	return b
}

func (b *ApplicationInfoBuilder) EngineVersion(version uint32) *ApplicationInfoBuilder {
	b.info.EngineVersion = version
	return b
}

func (b *ApplicationInfoBuilder) APIVersion(version uint32) *ApplicationInfoBuilder {
	b.info.APIVersion = version
	return b
}

// Build returns the descriptor. Strings are not validated here, a name
// with an embedded NUL fails when marshaled.
func (b *ApplicationInfoBuilder) Build() *ApplicationInfo {
	info := b.info
	info.Next = b.info.Next.clone()
	return &info
}
