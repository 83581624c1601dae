// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFakeClock(t *testing.T) {
	at := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	FakeClock.Set(at)

	SetFakeClock()
	require.Equal(t, at.UTC(), Now())
	require.Equal(t, time.UTC, Now().Location())

	FakeClock.Add(time.Minute)
	require.Equal(t, at.Add(time.Minute).UTC(), Now())

	UnsetFakeClock()
	require.WithinDuration(t, time.Now(), Now(), time.Minute)
}
