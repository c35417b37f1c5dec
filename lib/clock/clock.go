// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts reading the current time. Production code injects
// Real(); tests inject Fake() and move time explicitly.
//
// Code that stamps stored records (tree seal times) or measures
// elapsed time (request durations) takes a Clock instead of calling
// time.Now directly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Since returns the time elapsed since t, as measured by this
	// clock.
	Since(t time.Time) time.Duration
}
