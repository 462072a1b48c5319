// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package toolchain locates the CMake tools and verifies the preconditions
// of a superbuild.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/goplus/superbuild/internal/config"
	"github.com/goplus/superbuild/internal/platform"
	"github.com/goplus/superbuild/internal/shell"
)

// Minimum CMake version with configure presets.
const (
	CMakeMinMajor = 3
	CMakeMinMinor = 19
)

// Paths holds the tool executables and the vendored dependency directory.
type Paths struct {
	CMake    string
	CTest    string
	CPack    string
	VcpkgDir string
}

// NewPaths resolves tool paths from cfg. Without a CMake directory the bare
// executable names are used and found on PATH when spawned.
func NewPaths(cfg *config.Config, p platform.Platform) Paths {
	tool := func(name string) string {
		name = p.Exe(name)
		if cfg.CMakeDir == "" {
			return name
		}
		return filepath.Join(cfg.CMakeDir, name)
	}
	return Paths{
		CMake:    tool("cmake"),
		CTest:    tool("ctest"),
		CPack:    tool("cpack"),
		VcpkgDir: cfg.VcpkgDir,
	}
}

func (p Paths) String() string {
	return fmt.Sprintf("cmake_exe: %s, ctest_exe: %s, cpack_exe: %s, vcpkg_dir: %s",
		p.CMake, p.CTest, p.CPack, p.VcpkgDir)
}

// MissingDependencyError reports a vendored dependency that was not fetched.
type MissingDependencyError struct {
	Path string
	Hint string
	Err  error // set when the directory could not be read
}

func (e *MissingDependencyError) Error() string {
	msg := fmt.Sprintf("dependency directory %s is missing or empty", e.Path)
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

func (e *MissingDependencyError) Unwrap() error {
	return e.Err
}

// CheckDependencyPresent fails when path is absent or has no entries. Any
// entry counts. It deliberately runs no VCS command, so an extracted
// source tarball passes as well as a checkout.
func CheckDependencyPresent(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &MissingDependencyError{Path: path}
		}
		return &MissingDependencyError{Path: path, Err: err}
	}
	if len(entries) == 0 {
		return &MissingDependencyError{Path: path}
	}
	return nil
}

// CheckVcpkg verifies the vcpkg submodule was cloned.
func CheckVcpkg(paths Paths) error {
	err := CheckDependencyPresent(paths.VcpkgDir)
	var missing *MissingDependencyError
	if errors.As(err, &missing) {
		missing.Hint = "did you clone this repo's submodules? Run: git submodule update --init --recursive"
	}
	return err
}

// CheckCMake runs "cmake --version" and verifies CMake supports presets.
func CheckCMake(ctx context.Context, r shell.Runner, paths Paths, logger *log.Logger) error {
	res, err := r.Run(ctx, shell.Command{
		Args:    []string{paths.CMake, "--version"},
		Check:   true,
		Capture: true,
	})
	if err != nil {
		return err
	}
	if res == nil {
		// Dry run: nothing to inspect.
		return nil
	}
	v, err := checkMinimumVersion("CMake", res.Stdout, CMakeMinMajor, CMakeMinMinor)
	if err != nil {
		return err
	}
	logger.Infof("CMake version OK (%s >= %d.%d)", v, CMakeMinMajor, CMakeMinMinor)
	return nil
}
