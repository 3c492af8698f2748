// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the wall clock so that record timestamps are
// deterministic under test. Production code injects Real(); tests
// inject Fake() and move time with Advance or Set.
package clock
