// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"os"
	"path/filepath"
)

// Environ is a read-only view of environment variables.
type Environ interface {
	LookupEnv(key string) (string, bool)
}

type osEnviron struct{}

func (osEnviron) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// OS returns the process environment.
func OS() Environ {
	return osEnviron{}
}

// Map is an Environ backed by a literal map.
type Map map[string]string

func (m Map) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Getter adapts e to the func(string) string shape used by shell expansion.
func Getter(e Environ) func(string) string {
	return func(key string) string {
		v, _ := e.LookupEnv(key)
		return v
	}
}

// ScriptDir returns the directory holding the running executable, with
// symlinks resolved. It is the default superbuild root.
func ScriptDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
