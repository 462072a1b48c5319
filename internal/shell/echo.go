// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shell

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Echo is the dry-run Runner. It performs no I/O besides writing one line
// per intended effect to its writer, and remembers what it printed.
type Echo struct {
	w     io.Writer
	style lipgloss.Style
	cmds  []string
	lines []string
}

var _ Runner = (*Echo)(nil)

// NewEcho returns an Echo that prints to w. Output is styled only when w is
// a terminal.
func NewEcho(w io.Writer) *Echo {
	r := lipgloss.NewRenderer(w)
	return &Echo{
		w:     w,
		style: r.NewStyle().Faint(true),
	}
}

func (e *Echo) DryRun() bool {
	return true
}

// Commands returns the rendered command lines passed to Run, in order.
func (e *Echo) Commands() []string {
	return append([]string(nil), e.cmds...)
}

// Lines returns every line printed so far, in order.
func (e *Echo) Lines() []string {
	return append([]string(nil), e.lines...)
}

func (e *Echo) Run(_ context.Context, c Command) (*Result, error) {
	if len(c.Args) == 0 {
		return nil, errEmptyCommand
	}
	line := Render(c.Args)
	e.cmds = append(e.cmds, line)
	return nil, e.printf("-- Would run: %s", line)
}

func (e *Echo) Chdir(dir string) error {
	return e.printf("-- Would chdir to %s", dir)
}

func (e *Echo) Setenv(key, value string) error {
	return e.printf("-- Would set envvar %s=\"%s\"", key, value)
}

func (e *Echo) RemoveAll(path string) error {
	return e.printf("-- Would remove %s", path)
}

func (e *Echo) printf(format string, args ...any) error {
	line := fmt.Sprintf(format, args...)
	e.lines = append(e.lines, line)
	_, err := fmt.Fprintln(e.w, e.style.Render(line))
	return err
}
