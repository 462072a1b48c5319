// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"context"
	"strings"

	"github.com/goplus/superbuild/internal/shell"
)

// mockRunner is a non-dry-run Runner that records every operation and
// answers "--version" probes with a canned CMake banner.
type mockRunner struct {
	version string
	// failOn makes Run fail for the first command line containing it.
	failOn string
	ops    []string
}

func (m *mockRunner) Run(_ context.Context, c shell.Command) (*shell.Result, error) {
	line := shell.Render(c.Args)
	m.ops = append(m.ops, "run "+line)
	if m.failOn != "" && strings.Contains(line, m.failOn) {
		return &shell.Result{ExitCode: 2}, &shell.ExitError{Cmd: line, Code: 2}
	}
	if len(c.Args) > 1 && c.Args[1] == "--version" {
		return &shell.Result{Stdout: m.version}, nil
	}
	return &shell.Result{}, nil
}

func (m *mockRunner) Chdir(dir string) error {
	m.ops = append(m.ops, "chdir "+dir)
	return nil
}

func (m *mockRunner) Setenv(key, value string) error {
	m.ops = append(m.ops, "setenv "+key+"="+value)
	return nil
}

func (m *mockRunner) RemoveAll(path string) error {
	m.ops = append(m.ops, "remove "+path)
	return nil
}

func (m *mockRunner) DryRun() bool {
	return false
}

// runs returns only the commands that were run.
func (m *mockRunner) runs() []string {
	var out []string
	for _, op := range m.ops {
		if cmd, ok := strings.CutPrefix(op, "run "); ok {
			out = append(out, cmd)
		}
	}
	return out
}
