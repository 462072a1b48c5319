// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/goplus/superbuild/internal/config"
	"github.com/goplus/superbuild/internal/env"
	"github.com/goplus/superbuild/internal/platform"
)

// Version is set via -ldflags.
var Version = "dev"

var (
	verbose bool
	cfgFile string
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "superbuild",
	Short: "superbuild is a superproject orchestrator",
	Long: `superbuild cleans and builds every subproject of the superproject in order
with CMake presets, optionally packaging them with CPack and running the
produced executable.

Settings come from the environment, then superbuild.toml in the root
directory, then built-in defaults.`,
	Args:         cobra.NoArgs,
	RunE:         runBuild,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is <root>/superbuild.toml)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Superproject root (default is the directory of the superbuild executable)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// session is what every command needs before doing work.
type session struct {
	platform platform.Platform
	cfg      *config.Config
	log      *log.Logger
}

func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "superbuild",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// newSession resolves the platform and the configuration, and reports every
// setting that was not taken from the environment.
func newSession(cmd *cobra.Command) (*session, error) {
	logger := newLogger(cmd.ErrOrStderr())

	p, err := platform.Current()
	if err != nil {
		return nil, err
	}
	root := rootDir
	if root == "" {
		if root, err = env.ScriptDir(); err != nil {
			return nil, fmt.Errorf("failed to locate superproject root: %w", err)
		}
	}
	cfg, err := config.Load(env.OS(), config.Options{
		RootDir:  root,
		File:     cfgFile,
		Platform: p,
	})
	if err != nil {
		return nil, err
	}
	for _, line := range cfg.Describe() {
		logger.Info(line)
	}
	logger.Debug("configuration loaded", "root", cfg.RootDir, "jobs", cfg.Jobs)
	return &session{platform: p, cfg: cfg, log: logger}, nil
}
