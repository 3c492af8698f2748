// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	saved := [...]string{Version, GitCommit, GitDirty, BuildTime}
	t.Cleanup(func() {
		Version, GitCommit, GitDirty, BuildTime = saved[0], saved[1], saved[2], saved[3]
	})

	Version, GitCommit, GitDirty, BuildTime = "1.2.3", "abc1234", "false", "2026-10-01T00:00:00Z"
	if got := Info(); got != "1.2.3 (abc1234, 2026-10-01T00:00:00Z)" {
		t.Errorf("Info() = %q", got)
	}

	GitDirty = "true"
	if got := Commit(); got != "abc1234-dirty" {
		t.Errorf("Commit() = %q", got)
	}
	if !strings.HasPrefix(Full(), "1.2.3 (abc1234-dirty,") || !strings.Contains(Full(), "\n  Go: ") {
		t.Errorf("Full() = %q", Full())
	}
}
