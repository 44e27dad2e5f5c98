// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddLocal_RejectsUnroutableAndDuplicates(t *testing.T) {
	a, _, _ := newTestManager(1_700_000_000)

	require.False(t, a.AddLocal(testAddr("10.0.0.1", 8333, 0), 5))

	addr := testAddr("1.2.3.4", 8333, 0)
	require.True(t, a.AddLocal(addr, 5))
	require.False(t, a.AddLocal(addr, 9))
}

func TestMarkLocal_BumpsScore(t *testing.T) {
	a, _, _ := newTestManager(1_700_000_000)
	addr := testAddr("1.2.3.4", 8333, 0)
	require.True(t, a.AddLocal(addr, 5))

	a.MarkLocal(addr)
	a.MarkLocal(addr)

	require.Equal(t, 7, a.local[addr.Key()].score)
}

func TestGetLocal_NilSrcPicksMaxScore(t *testing.T) {
	a, clock, _ := newTestManager(1_700_000_000)

	low := testAddr("1.2.3.4", 8333, 0)
	high := testAddr("5.6.7.8", 8333, 0)
	require.True(t, a.AddLocal(low, 1))
	require.True(t, a.AddLocal(high, 9))

	got, ok := a.GetLocal(nil)
	require.True(t, ok)
	require.Equal(t, high.Key(), got.Key())
	require.Equal(t, clock.now, got.Time)
}

func TestGetLocal_WithSrcUsesReachability(t *testing.T) {
	a, _, _ := newTestManager(1_700_000_000)
	a.opts.Reachability = func(src, dst NetworkAddress) int {
		// Prefer whichever local address shares dst's last IP octet with
		// src, a stand-in reachability order just for this test.
		if src.IP[15] == dst.IP[15] {
			return 1
		}
		return 0
	}

	a1 := testAddr("1.2.3.4", 8333, 0)
	a2 := testAddr("1.2.3.9", 8333, 0)
	require.True(t, a.AddLocal(a1, 5))
	require.True(t, a.AddLocal(a2, 5))

	src := testAddr("9.9.9.9", 8333, 0)
	src.IP[15] = 9

	got, ok := a.GetLocal(&src)
	require.True(t, ok)
	require.Equal(t, a2.Key(), got.Key())
}

func TestHasLocal(t *testing.T) {
	a, _, _ := newTestManager(1_700_000_000)
	addr := testAddr("1.2.3.4", 8333, 0)
	require.False(t, a.HasLocal(addr))
	require.True(t, a.AddLocal(addr, 1))
	require.True(t, a.HasLocal(addr))
}
