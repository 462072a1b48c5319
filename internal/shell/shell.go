// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shell is the command-execution port of superbuild.
//
// Business logic talks to a Runner and never branches on the dry-run flag
// itself: Exec performs effects, Echo only reports them.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"unicode"
)

// Command describes a single external process invocation.
type Command struct {
	// Args holds the executable followed by its arguments.
	Args []string
	// Check turns a non-zero exit status into an *ExitError.
	Check bool
	// Capture collects standard output into Result.Stdout instead of
	// streaming it.
	Capture bool
}

// Result is what a real invocation produced.
type Result struct {
	Stdout   string
	ExitCode int
}

// Runner performs, or pretends to perform, the side effects of a build.
type Runner interface {
	// Run invokes cmd. A dry-run Runner returns a nil *Result.
	Run(ctx context.Context, cmd Command) (*Result, error)

	// Chdir sets the working directory of subsequent commands.
	Chdir(dir string) error

	// Setenv sets an environment variable for subsequent commands.
	Setenv(key, value string) error

	// RemoveAll deletes path and everything below it. A missing path is
	// not an error.
	RemoveAll(path string) error

	// DryRun reports whether effects are only reported.
	DryRun() bool
}

var errEmptyCommand = errors.New("shell: empty command")

// ExitError reports a command that failed while success was required.
type ExitError struct {
	Cmd  string // rendered command line
	Code int    // exit status
	Err  error
}

func (e *ExitError) Error() string {
	var ee *exec.ExitError
	if e.Err == nil || errors.As(e.Err, &ee) {
		return fmt.Sprintf("command %s failed with exit status %d", e.Cmd, e.Code)
	}
	return fmt.Sprintf("command %s failed: %v", e.Cmd, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Render joins args into a human-readable command line. Arguments that
// contain whitespace are wrapped in double quotes.
func Render(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if strings.IndexFunc(arg, unicode.IsSpace) >= 0 {
			arg = `"` + arg + `"`
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}

// New returns an Echo runner writing to w when dryRun is set, and an Exec
// runner configured with opts otherwise.
func New(dryRun bool, w io.Writer, opts ...ExecOption) Runner {
	if dryRun {
		return NewEcho(w)
	}
	return NewExec(opts...)
}
