// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package build runs the superbuild pipeline: preconditions, clean, build
// every subproject in order, then optionally run the produced executable.
package build

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/goplus/superbuild/internal/config"
	"github.com/goplus/superbuild/internal/platform"
	"github.com/goplus/superbuild/internal/shell"
	"github.com/goplus/superbuild/internal/toolchain"
	"github.com/goplus/superbuild/pkgs/buildsys"
	"github.com/goplus/superbuild/pkgs/buildsys/cmake"
)

// ExeName is the executable installed by the superbuild.
const ExeName = "exe"

// Builder runs the pipeline against a shell.Runner. A Builder is not safe
// for concurrent use.
type Builder struct {
	runner   shell.Runner
	cfg      *config.Config
	platform platform.Platform
	paths    toolchain.Paths
	log      *log.Logger
}

// Options controls a Run.
type Options struct {
	// RunExe executes the installed executable after a successful build.
	RunExe bool
}

// NewBuilder returns a Builder for cfg on platform p.
func NewBuilder(r shell.Runner, cfg *config.Config, p platform.Platform, logger *log.Logger) *Builder {
	return &Builder{
		runner:   r,
		cfg:      cfg,
		platform: p,
		paths:    toolchain.NewPaths(cfg, p),
		log:      logger,
	}
}

// Paths returns the resolved tool paths.
func (b *Builder) Paths() toolchain.Paths {
	return b.paths
}

// ExePath returns the path of the installed executable.
func (b *Builder) ExePath() string {
	return filepath.Join(b.cfg.InstallDir, "bin", b.platform.Exe(ExeName))
}

// Run executes the whole pipeline and stops at the first failure.
func (b *Builder) Run(ctx context.Context, opts Options) error {
	b.log.Debug("resolved tools", "paths", b.paths)
	if b.runner.DryRun() {
		b.log.Info("dry run: skipping toolchain checks")
	} else if err := b.Check(ctx); err != nil {
		return err
	}
	if err := b.export(); err != nil {
		return err
	}
	if err := b.Clean(); err != nil {
		return err
	}
	for _, prj := range b.cfg.Projects {
		if err := b.BuildProject(ctx, prj); err != nil {
			return err
		}
	}
	if opts.RunExe {
		return b.RunExe(ctx)
	}
	return nil
}

// Check verifies the CMake version and the vcpkg checkout.
func (b *Builder) Check(ctx context.Context) error {
	if err := toolchain.CheckCMake(ctx, b.runner, b.paths, b.log); err != nil {
		return fmt.Errorf("check cmake: %w", err)
	}
	if err := toolchain.CheckVcpkg(b.paths); err != nil {
		return fmt.Errorf("check vcpkg: %w", err)
	}
	return nil
}

// Clean deletes the shared install directory and every project's build
// directory.
func (b *Builder) Clean() error {
	dirs := []string{b.cfg.InstallDir}
	for _, prj := range b.cfg.Projects {
		dirs = append(dirs, prj.BuildDir())
	}
	for _, dir := range dirs {
		if err := b.runner.RemoveAll(dir); err != nil {
			return fmt.Errorf("clean %s: %w", dir, err)
		}
	}
	return nil
}

// BuildProject configures, builds, tests, installs and optionally packages
// one subproject.
func (b *Builder) BuildProject(ctx context.Context, prj config.Project) error {
	b.log.Info("building", "project", prj.Name, "config", prj.BuildType)
	if err := b.runner.Chdir(prj.Dir); err != nil {
		return fmt.Errorf("%s: %w", prj.Name, err)
	}
	if err := b.runner.Setenv("CMAKE_BUILD_TYPE", prj.BuildType); err != nil {
		return fmt.Errorf("%s: %w", prj.Name, err)
	}
	cm := cmake.New(b.runner, b.paths, b.cfg.InstallDir).
		Preset(prj.Preset).
		BuildType(prj.BuildType).
		Jobs(b.cfg.Jobs)
	if prj.Package {
		cm.Generators(b.cfg.CPackGenerators)
	}
	for _, step := range buildsys.Steps(cm) {
		b.log.Debug("step", "project", prj.Name, "step", step.Name)
		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("%s: %s: %w", prj.Name, step.Name, err)
		}
	}
	return nil
}

// RunExe executes the installed executable with the configured arguments.
func (b *Builder) RunExe(ctx context.Context) error {
	args := append([]string{b.ExePath()}, b.cfg.ExeArgs...)
	if _, err := b.runner.Run(ctx, shell.Command{Args: args, Check: true}); err != nil {
		return fmt.Errorf("run %s: %w", ExeName, err)
	}
	return nil
}

// export hands the resolved settings down to the build tools.
func (b *Builder) export() error {
	for _, s := range b.cfg.Exports() {
		if err := b.runner.Setenv(s.Key, s.Value); err != nil {
			return err
		}
	}
	return nil
}
