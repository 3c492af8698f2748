// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock supplies the current time. Components that stamp records
// (created_at, updated_at, fulfilled_at) take a Clock instead of
// calling time.Now directly.
type Clock interface {
	Now() time.Time
}

// Unix returns the current time of c as unix seconds, the resolution
// used for every timestamp on the wire.
func Unix(c Clock) int64 {
	return c.Now().Unix()
}
