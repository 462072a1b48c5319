// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package platform

import (
	"runtime"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		goos   string
		suffix string
		preset string
	}{
		{"linux", "", "linux-shared"},
		{"darwin", "", "osx-shared"},
		{"windows", ".exe", "win-shared"},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			p, err := Lookup(tt.goos)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", tt.goos, err)
			}
			if p.ExeSuffix != tt.suffix {
				t.Errorf("ExeSuffix = %q, want %q", p.ExeSuffix, tt.suffix)
			}
			if got := p.Exe("cmake"); got != "cmake"+tt.suffix {
				t.Errorf("Exe(cmake) = %q", got)
			}
			for _, prj := range []string{Prj1, Prj2} {
				got, err := p.Preset(prj)
				if err != nil {
					t.Fatalf("Preset(%s): %v", prj, err)
				}
				if got != tt.preset {
					t.Errorf("Preset(%s) = %q, want %q", prj, got, tt.preset)
				}
			}
		})
	}
}

func TestLookupUnsupported(t *testing.T) {
	if _, err := Lookup("plan9"); err == nil {
		t.Fatal("Lookup(plan9): want error")
	}
}

func TestPresetUnknownProject(t *testing.T) {
	p, err := Lookup("linux")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Preset("AdeClangFormat"); err == nil {
		t.Error("Preset(AdeClangFormat): want error")
	}
}

func TestCurrent(t *testing.T) {
	p, err := Current()
	switch runtime.GOOS {
	case "linux", "darwin", "windows":
		if err != nil {
			t.Fatalf("Current: %v", err)
		}
		if p.GOOS != runtime.GOOS {
			t.Errorf("GOOS = %q, want %q", p.GOOS, runtime.GOOS)
		}
	default:
		if err == nil {
			t.Errorf("Current on %s: want error", runtime.GOOS)
		}
	}
}
