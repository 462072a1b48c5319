// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sys/execabs"
)

// Exec runs commands for real. Its working directory and environment
// overlay apply to spawned processes only; the calling process keeps its
// own cwd and environment.
type Exec struct {
	dir    string
	env    map[string]string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

var _ Runner = (*Exec)(nil)

// ExecOption configures Exec.
type ExecOption func(*Exec)

// WithStdout sets where uncaptured standard output goes.
func WithStdout(w io.Writer) ExecOption {
	return func(e *Exec) {
		e.stdout = w
	}
}

// WithStderr sets where standard error goes.
func WithStderr(w io.Writer) ExecOption {
	return func(e *Exec) {
		e.stderr = w
	}
}

// WithStdin sets the standard input of spawned processes.
func WithStdin(r io.Reader) ExecOption {
	return func(e *Exec) {
		e.stdin = r
	}
}

// WithDir sets the initial working directory.
func WithDir(dir string) ExecOption {
	return func(e *Exec) {
		e.dir = dir
	}
}

// NewExec creates a runner that spawns processes, wired to the process's
// standard streams unless overridden.
func NewExec(opts ...ExecOption) *Exec {
	e := &Exec{
		env:    map[string]string{},
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Exec) DryRun() bool {
	return false
}

// Dir returns the working directory used for spawned processes. Empty means
// the caller's current directory.
func (e *Exec) Dir() string {
	return e.dir
}

// Env returns the value set through Setenv for key.
func (e *Exec) Env(key string) (string, bool) {
	v, ok := e.env[key]
	return v, ok
}

func (e *Exec) Run(ctx context.Context, c Command) (*Result, error) {
	if len(c.Args) == 0 {
		return nil, errEmptyCommand
	}
	cmd := execabs.CommandContext(ctx, c.Args[0], c.Args[1:]...)
	cmd.Dir = e.dir
	if len(e.env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), e.env)
	}
	cmd.Stdin = e.stdin
	var stdout bytes.Buffer
	if c.Capture {
		cmd.Stdout = &stdout
	} else {
		cmd.Stdout = e.stdout
	}
	cmd.Stderr = e.stderr

	err := cmd.Run()
	res := &Result{Stdout: stdout.String(), ExitCode: exitCode(ctx, err)}
	if err == nil {
		return res, nil
	}
	var ee *exec.ExitError
	if c.Check || !errors.As(err, &ee) {
		// A process that never started is always fatal.
		return res, &ExitError{Cmd: Render(c.Args), Code: res.ExitCode, Err: err}
	}
	return res, nil
}

func (e *Exec) Chdir(dir string) error {
	dir = e.resolve(dir)
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("chdir %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("chdir %s: not a directory", dir)
	}
	e.dir = dir
	return nil
}

func (e *Exec) Setenv(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\x00") {
		return fmt.Errorf("setenv: invalid key %q", key)
	}
	e.env[key] = value
	return nil
}

func (e *Exec) RemoveAll(path string) error {
	return os.RemoveAll(e.resolve(path))
}

func (e *Exec) resolve(path string) string {
	if filepath.IsAbs(path) || e.dir == "" {
		return path
	}
	return filepath.Join(e.dir, path)
}

func exitCode(ctx context.Context, err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return 127
	}
	if ctx.Err() != nil {
		return 130
	}
	return 1
}

// mergeEnv overlays override on base and returns a sorted KEY=VALUE list.
func mergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base)+len(override))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
