// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package runzip

import (
	"fmt"

	"github.com/woozymasta/pathrules"
)

// NewGlobSelector compiles include and exclude glob pattern lists into a
// Selection. An empty include list selects everything not excluded,
// matching spec.md §4.F's "empty include list = all" rule. The core
// itself never calls this — Selection is a capability any caller
// (library user, CLI, test harness) may substitute; this is the
// reference implementation built the way the teacher built its own
// compression-candidate matcher (compression.go's compressMatcher),
// repurposed here for extraction rather than pack-time compression
// selection.
func NewGlobSelector(include, exclude []string) (Selection, error) {
	rules := make([]pathrules.Rule, 0, len(include)+len(exclude))
	for _, pattern := range include {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: pattern})
	}
	for _, pattern := range exclude {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: pattern})
	}

	defaultAction := pathrules.ActionInclude
	if len(include) > 0 {
		defaultAction = pathrules.ActionExclude
	}

	if len(rules) == 0 {
		return func(IndexEntry) bool { return true }, nil
	}

	matcher, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{
		CaseInsensitive: false,
		DefaultAction:   defaultAction,
	})
	if err != nil {
		return nil, fmt.Errorf("compile selection rules: %w", err)
	}

	return func(entry IndexEntry) bool {
		return matcher.Included(NormalizePath(entry.FileName), entry.IsDirectory)
	}, nil
}
