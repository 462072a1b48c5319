// Copyright 2024 The superbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package toolchain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

var versionRE = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)(-(.*))?`)

// Version is a version number reported by a tool, e.g. "3.28.1" or
// "3.30.0-rc2".
type Version struct {
	Major int
	Minor int
	Build int
	Patch string // text after '-', empty when absent
	Raw   string // the matched text
}

func (v Version) String() string {
	return v.Raw
}

// ParseError means a tool's output did not contain a version number in
// the expected form. This points at an unexpected tool rather than an old
// one.
type ParseError struct {
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("[BUG] could not match a version number in %q", e.Text)
}

// VersionTooOldError reports a tool older than required.
type VersionTooOldError struct {
	Tool     string
	Actual   Version
	MinMajor int
	MinMinor int
}

func (e *VersionTooOldError) Error() string {
	tool := e.Tool
	if tool == "" {
		tool = "tool"
	}
	return fmt.Sprintf("%s version is less than minimum required (%s < %d.%d); please upgrade it",
		tool, e.Actual, e.MinMajor, e.MinMinor)
}

// ParseVersion extracts the first major.minor.build(-patch) occurrence from
// the first line of text.
func ParseVersion(text string) (Version, error) {
	first, _, _ := strings.Cut(text, "\n")
	first = strings.TrimSuffix(first, "\r")
	m := versionRE.FindStringSubmatch(first)
	if m == nil {
		return Version{}, &ParseError{Text: first}
	}
	var nums [3]int
	for i := range nums {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, &ParseError{Text: first}
		}
		nums[i] = n
	}
	return Version{
		Major: nums[0],
		Minor: nums[1],
		Build: nums[2],
		Patch: m[5],
		Raw:   m[0],
	}, nil
}

// AtLeast reports whether v's major.minor is at least minMajor.minMinor.
// Build and patch never take part.
func (v Version) AtLeast(minMajor, minMinor int) bool {
	have := fmt.Sprintf("v%d.%d", v.Major, v.Minor)
	want := fmt.Sprintf("v%d.%d", minMajor, minMinor)
	return semver.Compare(have, want) >= 0
}

// CheckMinimumVersion parses text and fails unless its major.minor is at
// least minMajor.minMinor. It returns a *ParseError or a
// *VersionTooOldError.
func CheckMinimumVersion(text string, minMajor, minMinor int) error {
	_, err := checkMinimumVersion("", text, minMajor, minMinor)
	return err
}

func checkMinimumVersion(tool, text string, minMajor, minMinor int) (Version, error) {
	v, err := ParseVersion(text)
	if err != nil {
		return Version{}, err
	}
	if !v.AtLeast(minMajor, minMinor) {
		return v, &VersionTooOldError{Tool: tool, Actual: v, MinMajor: minMajor, MinMinor: minMinor}
	}
	return v, nil
}
