// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmake drives the cmake configure/build/test/install/package
// workflow through a shell.Runner.
package cmake

import (
	"context"
	"strconv"

	"github.com/goplus/superbuild/internal/shell"
	"github.com/goplus/superbuild/internal/toolchain"
	"github.com/goplus/superbuild/pkgs/buildsys"
)

const (
	defaultBuildDir = "build"
	cpackConfig     = "CPackConfig.cmake"
)

// CMake wraps common CMake build steps with chainable configuration.
// Relative directories are resolved by the runner's working directory.
type CMake struct {
	runner     shell.Runner
	tools      toolchain.Paths
	sourceDir  string
	buildDir   string
	installDir string
	preset     string
	buildType  string
	generators string
	jobs       int
}

var _ buildsys.BuildSystem = (*CMake)(nil)

// New creates a CMake helper for the project in the runner's current
// directory, installing into installDir.
func New(r shell.Runner, tools toolchain.Paths, installDir string) *CMake {
	return &CMake{
		runner:     r,
		tools:      tools,
		sourceDir:  ".",
		buildDir:   defaultBuildDir,
		installDir: installDir,
	}
}

// Source overrides the source directory.
func (c *CMake) Source(dir string) *CMake {
	c.sourceDir = dir
	return c
}

// BuildDir overrides the binary directory.
func (c *CMake) BuildDir(dir string) *CMake {
	c.buildDir = dir
	return c
}

// Preset selects a configure preset instead of an explicit -S/-B configure.
func (c *CMake) Preset(name string) *CMake {
	c.preset = name
	return c
}

// BuildType sets the configuration passed to multi-config generators
// (e.g. "Release", "Debug").
func (c *CMake) BuildType(name string) *CMake {
	c.buildType = name
	return c
}

// Jobs sets the build and test parallelism. Zero leaves it to the tools.
func (c *CMake) Jobs(n int) *CMake {
	c.jobs = n
	return c
}

// Generators enables packaging with the given CPack generator list
// (e.g. "TGZ;ZIP").
func (c *CMake) Generators(list string) *CMake {
	c.generators = list
	return c
}

// Configure runs "cmake --preset <preset>" or, without a preset,
// "cmake -S <source> -B <build> --install-prefix <install>".
func (c *CMake) Configure(ctx context.Context) error {
	return c.run(ctx, c.ConfigureArgs())
}

// Build runs "cmake --build <build>".
func (c *CMake) Build(ctx context.Context) error {
	return c.run(ctx, c.BuildArgs())
}

// Test runs "ctest --test-dir <build>".
func (c *CMake) Test(ctx context.Context) error {
	return c.run(ctx, c.TestArgs())
}

// Install runs "cmake --install <build>".
func (c *CMake) Install(ctx context.Context) error {
	return c.run(ctx, c.InstallArgs())
}

// Package runs cpack when generators are set.
func (c *CMake) Package(ctx context.Context) error {
	args := c.PackageArgs()
	if args == nil {
		return nil
	}
	return c.run(ctx, args)
}

// OutputDir returns the install dir if set, otherwise the build dir.
func (c *CMake) OutputDir() string {
	if c.installDir != "" {
		return c.installDir
	}
	return c.buildDir
}

func (c *CMake) ConfigureArgs() []string {
	if c.preset != "" {
		return []string{c.tools.CMake, "--preset", c.preset}
	}
	args := []string{c.tools.CMake, "-S", c.sourceDir, "-B", c.buildDir}
	if c.installDir != "" {
		args = append(args, "--install-prefix", c.installDir)
	}
	return args
}

func (c *CMake) BuildArgs() []string {
	args := []string{c.tools.CMake, "--build", c.buildDir}
	args = append(args, c.configArgs("--config")...)
	return append(args, c.jobsArgs()...)
}

func (c *CMake) TestArgs() []string {
	args := []string{c.tools.CTest, "--test-dir", c.buildDir}
	args = append(args, c.configArgs("--build-config")...)
	return append(args, c.jobsArgs()...)
}

func (c *CMake) InstallArgs() []string {
	args := []string{c.tools.CMake, "--install", c.buildDir}
	return append(args, c.configArgs("--config")...)
}

// PackageArgs returns nil when packaging is disabled.
func (c *CMake) PackageArgs() []string {
	if c.generators == "" {
		return nil
	}
	args := []string{c.tools.CPack, "-G", c.generators}
	args = append(args, c.configArgs("-C")...)
	return append(args, "--config", c.buildDir+"/"+cpackConfig)
}

func (c *CMake) configArgs(flag string) []string {
	if c.buildType == "" {
		return nil
	}
	return []string{flag, c.buildType}
}

func (c *CMake) jobsArgs() []string {
	if c.jobs <= 0 {
		return nil
	}
	return []string{"-j" + strconv.Itoa(c.jobs)}
}

func (c *CMake) run(ctx context.Context, args []string) error {
	_, err := c.runner.Run(ctx, shell.Command{Args: args, Check: true})
	return err
}
