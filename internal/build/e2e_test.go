// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/goplus/superbuild/internal/config"
	"github.com/goplus/superbuild/internal/env"
	"github.com/goplus/superbuild/internal/shell"
)

// TestE2E_DryRunNoOptionalEnv runs the whole pipeline in dry-run mode with
// none of the optional variables set.
func TestE2E_DryRunNoOptionalEnv(t *testing.T) {
	root := t.TempDir()
	// Existing build output must survive a dry run.
	stale := filepath.Join(root, "prj1", "build", "CMakeCache.txt")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("CMAKE_BUILD_TYPE:STRING=Debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(env.Map{}, config.Options{RootDir: root, Platform: lookup(t, "linux")})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var out bytes.Buffer
	echo := shell.NewEcho(&out)
	cwd, _ := os.Getwd()

	b := NewBuilder(echo, cfg, lookup(t, "linux"), log.New(io.Discard))
	if err := b.Run(context.Background(), Options{RunExe: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	install := filepath.Join(root, "install")
	var want []string
	for _, s := range cfg.Exports() {
		want = append(want, "-- Would set envvar "+s.Key+`="`+s.Value+`"`)
	}
	want = append(want,
		"-- Would remove "+install,
		"-- Would remove "+filepath.Join(root, "AdeClangFormat", "build"),
		"-- Would remove "+filepath.Join(root, "prj1", "build"),
		"-- Would remove "+filepath.Join(root, "prj2", "build"),
	)
	for _, prj := range []struct {
		name, configure string
	}{
		{"AdeClangFormat", "cmake -S . -B build --install-prefix " + install},
		{"prj1", "cmake --preset linux-shared"},
		{"prj2", "cmake --preset linux-shared"},
	} {
		want = append(want,
			"-- Would chdir to "+filepath.Join(root, prj.name),
			`-- Would set envvar CMAKE_BUILD_TYPE="Release"`,
			"-- Would run: "+prj.configure,
			"-- Would run: cmake --build build --config Release -j10",
			"-- Would run: ctest --test-dir build --build-config Release -j10",
			"-- Would run: cmake --install build --config Release",
		)
	}
	want = append(want, "-- Would run: "+filepath.Join(install, "bin", "exe"))

	if got := echo.Lines(); !slices.Equal(got, want) {
		t.Errorf("dry run printed:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
	if got := strings.Count(out.String(), "\n"); got != len(want) {
		t.Errorf("wrote %d lines, want %d", got, len(want))
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "prj1" {
		t.Errorf("root entries after dry run = %v, want only prj1", entries)
	}
	if _, err := os.Stat(stale); err != nil {
		t.Errorf("dry run removed %s: %v", stale, err)
	}
	if now, _ := os.Getwd(); now != cwd {
		t.Errorf("cwd changed to %q", now)
	}
}

// TestE2E_DryRunIgnoresBrokenToolchain checks that dry run never probes the
// toolchain, so a missing vcpkg and an absent cmake do not fail it.
func TestE2E_DryRunIgnoresBrokenToolchain(t *testing.T) {
	cfg, err := config.Load(env.Map{
		config.CMakeDir: filepath.Join(t.TempDir(), "no", "cmake"),
		config.VcpkgDir: filepath.Join(t.TempDir(), "missing"),
	}, config.Options{RootDir: t.TempDir(), Platform: lookup(t, "linux")})
	if err != nil {
		t.Fatal(err)
	}
	echo := shell.NewEcho(&bytes.Buffer{})
	if err := NewBuilder(echo, cfg, lookup(t, "linux"), log.New(io.Discard)).Run(context.Background(), Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, cmd := range echo.Commands() {
		if strings.HasSuffix(cmd, "--version") {
			t.Errorf("dry run probed the toolchain: %q", cmd)
		}
	}
}
