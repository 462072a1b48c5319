// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buildsys

import "context"

// BuildSystem captures the lifecycle shared by build helpers (CMake, ...).
// Steps run in the order they are declared.
type BuildSystem interface {
	Configure(ctx context.Context) error
	Build(ctx context.Context) error
	Test(ctx context.Context) error
	Install(ctx context.Context) error
	// Package produces distributable archives. It is a no-op when
	// packaging is not enabled.
	Package(ctx context.Context) error

	// Where artifacts land.
	OutputDir() string
}

// Step is one named lifecycle stage.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Steps lists the lifecycle of b in order.
func Steps(b BuildSystem) []Step {
	return []Step{
		{"configure", b.Configure},
		{"build", b.Build},
		{"test", b.Test},
		{"install", b.Install},
		{"package", b.Package},
	}
}
