// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package platform resolves per-OS build capabilities once at startup.
package platform

import (
	"fmt"
	"runtime"
)

// Subproject names that carry a default configure preset.
const (
	Prj1 = "prj1"
	Prj2 = "prj2"
)

// Platform describes what differs between host operating systems.
type Platform struct {
	GOOS      string
	ExeSuffix string
	// Presets maps a subproject name to its default configure preset.
	Presets map[string]string
}

var platforms = map[string]Platform{
	"linux": {
		GOOS: "linux",
		Presets: map[string]string{
			Prj1: "linux-shared",
			Prj2: "linux-shared",
		},
	},
	"darwin": {
		GOOS: "darwin",
		Presets: map[string]string{
			Prj1: "osx-shared",
			Prj2: "osx-shared",
		},
	},
	"windows": {
		GOOS:      "windows",
		ExeSuffix: ".exe",
		Presets: map[string]string{
			Prj1: "win-shared",
			Prj2: "win-shared",
		},
	},
}

// Lookup returns the Platform for goos.
func Lookup(goos string) (Platform, error) {
	p, ok := platforms[goos]
	if !ok {
		return Platform{}, fmt.Errorf("unsupported platform %q", goos)
	}
	return p, nil
}

// Current returns the Platform of the running binary.
func Current() (Platform, error) {
	return Lookup(runtime.GOOS)
}

// Exe appends the executable suffix to name.
func (p Platform) Exe(name string) string {
	return name + p.ExeSuffix
}

// Preset returns the default configure preset of a subproject.
func (p Platform) Preset(project string) (string, error) {
	preset, ok := p.Presets[project]
	if !ok {
		return "", fmt.Errorf("no default preset for %s on %s", project, p.GOOS)
	}
	return preset, nil
}
