// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"github.com/spf13/cobra"

	"github.com/goplus/superbuild/internal/build"
	"github.com/goplus/superbuild/internal/shell"
)

var (
	dryRun bool
	runExe bool
)

func init() {
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the commands without running them")
	rootCmd.Flags().BoolVarP(&runExe, "run-exe", "r", false, "Run the installed executable after the build")
}

func runBuild(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	r := shell.New(dryRun, cmd.OutOrStdout(),
		shell.WithDir(s.cfg.RootDir),
		shell.WithStdout(cmd.OutOrStdout()),
		shell.WithStderr(cmd.ErrOrStderr()),
		shell.WithStdin(cmd.InOrStdin()),
	)
	b := build.NewBuilder(r, s.cfg, s.platform, s.log)
	if err := b.Run(cmd.Context(), build.Options{RunExe: runExe}); err != nil {
		return err
	}
	if !dryRun {
		s.log.Info("superbuild finished", "install", s.cfg.InstallDir)
	}
	return nil
}
