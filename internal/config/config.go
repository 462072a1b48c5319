// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config assembles the superbuild configuration record once, from
// defaults, an optional TOML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"mvdan.cc/sh/v3/shell"

	"github.com/goplus/superbuild/internal/env"
	"github.com/goplus/superbuild/internal/platform"
)

// FileName is the config file looked up in the root directory.
const FileName = "superbuild.toml"

// Environment variables understood by superbuild.
const (
	Prj1Config      = "PRJ1_CONFIG"
	Prj2Config      = "PRJ2_CONFIG"
	Prj1Preset      = "PRJ1_CONFIGURE_PRESET"
	Prj2Preset      = "PRJ2_CONFIGURE_PRESET"
	CPackGenerators = "CPACK_GENERATORS"
	CMakeDir        = "CMAKE_DIR"
	ClangFormatRef  = "ADE_CLANG_FORMAT_GIT_REF_COMMIT"
	VcpkgDir        = "VCPKG_DIR"
	Jobs            = "SUPERBUILD_JOBS"
	ExeArgs         = "SUPERBUILD_EXE_ARGS"
)

// Subproject names, in build order.
const (
	ClangFormatProject = "AdeClangFormat"
	Prj1Project        = platform.Prj1
	Prj2Project        = platform.Prj2
)

const (
	defaultBuildType      = "Release"
	defaultClangFormatRef = "origin/main"
	defaultJobs           = 10
)

// Source tells where a setting's value came from.
type Source string

const (
	FromEnv     Source = "env"
	FromFile    Source = "file"
	FromDefault Source = "default"
	Unset       Source = "unset"
)

// Setting records how one variable was resolved.
type Setting struct {
	Key    string
	Value  string
	Source Source
	// Export marks variables handed down to the spawned build tools.
	Export bool

	note string
}

// String returns the line printed at startup for non-env settings.
func (s Setting) String() string {
	switch s.Source {
	case FromDefault:
		return fmt.Sprintf("%s not defined, defaulting to %q", s.Key, s.Value)
	case FromFile:
		return fmt.Sprintf("%s taken from %s: %q", s.Key, FileName, s.Value)
	case Unset:
		if s.note != "" {
			return fmt.Sprintf("%s not defined, %s", s.Key, s.note)
		}
		return fmt.Sprintf("%s not defined", s.Key)
	}
	return fmt.Sprintf("%s=%q", s.Key, s.Value)
}

// Project is one subproject of the superbuild.
type Project struct {
	Name      string `toml:"name"`
	Dir       string `toml:"dir"`
	BuildType string `toml:"build_type"`
	// Preset is the configure preset. Empty means a plain -S/-B configure.
	Preset string `toml:"preset,omitempty"`
	// Package enables the cpack step.
	Package bool `toml:"package"`
}

// BuildDir returns the project's CMake binary directory.
func (p Project) BuildDir() string {
	return filepath.Join(p.Dir, "build")
}

// Config is the resolved configuration record. It is immutable after Load.
type Config struct {
	RootDir         string    `toml:"root_dir"`
	InstallDir      string    `toml:"install_dir"`
	CMakeDir        string    `toml:"cmake_dir,omitempty"`
	CPackGenerators string    `toml:"cpack_generators,omitempty"`
	ClangFormatRef  string    `toml:"ade_clang_format_git_ref_commit"`
	VcpkgDir        string    `toml:"vcpkg_dir"`
	Jobs            int       `toml:"jobs"`
	ExeArgs         []string  `toml:"exe_args,omitempty"`
	Projects        []Project `toml:"projects"`

	Settings []Setting `toml:"-"`
}

// Options controls Load.
type Options struct {
	// RootDir is the superbuild root holding the subprojects.
	RootDir string
	// File is an explicit config file. When empty, RootDir/superbuild.toml
	// is used if present.
	File     string
	Platform platform.Platform
}

// Load resolves every setting with the precedence environment, config
// file, default.
func Load(e env.Environ, opts Options) (*Config, error) {
	if opts.RootDir == "" {
		return nil, errors.New("config: root directory not set")
	}
	root, err := filepath.Abs(opts.RootDir)
	if err != nil {
		return nil, err
	}
	v, err := readFile(opts.File, root)
	if err != nil {
		return nil, err
	}
	r := &resolver{env: e, v: v}

	prj1Preset, err := opts.Platform.Preset(Prj1Project)
	if err != nil {
		return nil, err
	}
	prj2Preset, err := opts.Platform.Preset(Prj2Project)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RootDir:    root,
		InstallDir: filepath.Join(root, "install"),
	}
	prj1Config := r.lookup(Prj1Config, defaultBuildType, true, "")
	prj2Config := r.lookup(Prj2Config, defaultBuildType, true, "")
	prj1Preset = r.lookup(Prj1Preset, prj1Preset, true, "")
	prj2Preset = r.lookup(Prj2Preset, prj2Preset, true, "")
	cfg.CPackGenerators = r.lookup(CPackGenerators, "", true, "cpack won't be called")
	cfg.CMakeDir = r.lookup(CMakeDir, "", true, "tools are looked up on PATH")
	cfg.ClangFormatRef = r.lookup(ClangFormatRef, defaultClangFormatRef, true, "")
	cfg.VcpkgDir = r.lookup(VcpkgDir, filepath.Join(root, "vcpkg"), true, "")

	if cfg.CMakeDir != "" {
		if cfg.CMakeDir, err = filepath.Abs(cfg.CMakeDir); err != nil {
			return nil, err
		}
	}
	if cfg.VcpkgDir, err = filepath.Abs(cfg.VcpkgDir); err != nil {
		return nil, err
	}

	jobs := r.lookup(Jobs, strconv.Itoa(defaultJobs), false, "")
	if cfg.Jobs, err = strconv.Atoi(jobs); err != nil || cfg.Jobs < 1 {
		return nil, fmt.Errorf("config: %s must be a positive integer, got %q", Jobs, jobs)
	}

	if args := r.lookup(ExeArgs, "", false, ""); args != "" {
		if cfg.ExeArgs, err = shell.Fields(args, env.Getter(e)); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", ExeArgs, err)
		}
	}

	cfg.Projects = []Project{
		{
			// Its output does not depend on the build type, so it is fixed.
			Name:      ClangFormatProject,
			Dir:       filepath.Join(root, ClangFormatProject),
			BuildType: defaultBuildType,
		},
		{
			Name:      Prj1Project,
			Dir:       filepath.Join(root, Prj1Project),
			BuildType: prj1Config,
			Preset:    prj1Preset,
			Package:   cfg.CPackGenerators != "",
		},
		{
			Name:      Prj2Project,
			Dir:       filepath.Join(root, Prj2Project),
			BuildType: prj2Config,
			Preset:    prj2Preset,
			Package:   cfg.CPackGenerators != "",
		},
	}
	cfg.Settings = r.settings
	return cfg, nil
}

// Describe returns one line per setting that did not come from the
// environment.
func (c *Config) Describe() []string {
	var lines []string
	for _, s := range c.Settings {
		if s.Source != FromEnv {
			lines = append(lines, s.String())
		}
	}
	return lines
}

// Exports returns the resolved variables that build tools read from their
// environment.
func (c *Config) Exports() []Setting {
	var out []Setting
	for _, s := range c.Settings {
		if s.Export && s.Source != Unset {
			out = append(out, s)
		}
	}
	return out
}

// Setting returns the resolution record of key.
func (c *Config) Setting(key string) (Setting, bool) {
	for _, s := range c.Settings {
		if s.Key == key {
			return s, true
		}
	}
	return Setting{}, false
}

// TOML renders the configuration as a TOML document.
func (c *Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}

func readFile(file, root string) (*viper.Viper, error) {
	v := viper.New()
	if file == "" {
		candidate := filepath.Join(root, FileName)
		if _, err := os.Stat(candidate); err != nil {
			return v, nil
		}
		file = candidate
	} else if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	v.SetConfigFile(file)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", file, err)
	}
	return v, nil
}

type resolver struct {
	env      env.Environ
	v        *viper.Viper
	settings []Setting
}

// lookup resolves key. An empty def with a non-empty note marks an optional
// variable whose absence disables a feature.
func (r *resolver) lookup(key, def string, export bool, note string) string {
	s := Setting{Key: key, Export: export, note: note}
	fileKey := fileKey(key)
	switch val, ok := r.env.LookupEnv(key); {
	case ok:
		s.Value, s.Source = val, FromEnv
	case r.v.IsSet(fileKey):
		s.Value, s.Source = fileString(r.v, fileKey), FromFile
	case def != "":
		s.Value, s.Source = def, FromDefault
	default:
		s.Source = Unset
	}
	r.settings = append(r.settings, s)
	return s.Value
}

// fileKey maps an environment variable name to its config file key.
func fileKey(key string) string {
	switch key {
	case Jobs:
		return "jobs"
	case ExeArgs:
		return "exe_args"
	}
	return strings.ToLower(key)
}

// fileString reads key as a string. Lists are joined with spaces, with
// whitespace-bearing items quoted so shell splitting restores them.
func fileString(v *viper.Viper, key string) string {
	if _, ok := v.Get(key).([]any); !ok {
		return v.GetString(key)
	}
	items := v.GetStringSlice(key)
	for i, item := range items {
		if strings.ContainsAny(item, " \t\n'\"\\$") {
			items[i] = "'" + strings.ReplaceAll(item, "'", `'\''`) + "'"
		}
	}
	return strings.Join(items, " ")
}
