// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"github.com/spf13/cobra"

	"github.com/goplus/superbuild/internal/build"
	"github.com/goplus/superbuild/internal/shell"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the CMake version and the vcpkg checkout",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	r := shell.NewExec(
		shell.WithDir(s.cfg.RootDir),
		shell.WithStderr(cmd.ErrOrStderr()),
	)
	b := build.NewBuilder(r, s.cfg, s.platform, s.log)
	if err := b.Check(cmd.Context()); err != nil {
		return err
	}
	s.log.Info("toolchain OK", "vcpkg", s.cfg.VcpkgDir)
	return nil
}
