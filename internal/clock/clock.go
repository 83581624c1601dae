// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

// Package clock lets preset timestamps come from a fake clock in tests.
package clock

import (
	"time"

	"github.com/jmhodges/clock"
)

var (
	// TimeNowFn returns the time stamped on created and updated presets.
	TimeNowFn func() time.Time

	// FakeClock drives TimeNowFn between SetFakeClock and UnsetFakeClock.
	FakeClock clock.FakeClock
)

// Now returns the current time of the active clock in UTC.
func Now() time.Time {
	return TimeNowFn().UTC()
}

// SetFakeClock makes TimeNowFn read FakeClock.
func SetFakeClock() {
	TimeNowFn = FakeClock.Now
}

// UnsetFakeClock restores the host clock.
func UnsetFakeClock() {
	TimeNowFn = time.Now
}

func init() {
	TimeNowFn = time.Now
	FakeClock = clock.NewFake()
}
