// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGet_EmptyStoreReturnsFalse(t *testing.T) {
	a, _, _ := newTestManager(1_700_000_000)
	_, ok := a.Get()
	require.False(t, ok)
}

func TestGet_SingleFreshEntryEventuallyAccepted(t *testing.T) {
	a, _, rnd := newTestManager(1_700_000_000)
	addr := testAddr("1.2.3.4", 8333, 1_699_000_000)
	require.True(t, a.Add(addr, nil))

	// Replay the occupied bucket's index on every draw: the bucket draw
	// lands on it, the in-bucket draw (mod 1) picks the only entry, and
	// the acceptance draw (a bucket index, far below chance*2^30) accepts,
	// so this converges on the first pick.
	rnd.seq = []uint32{uint32(a.freshBucketIndex(addr, a.selfAddress))}

	got, ok := a.Get()
	require.True(t, ok)
	require.Equal(t, addr.Key(), got.Key())
}

func TestGet_UsedPreferredWhenFreshEmpty(t *testing.T) {
	a, _, rnd := newTestManager(1_700_000_000)
	addr := testAddr("1.2.3.4", 8333, 1_699_000_000)
	require.True(t, a.Add(addr, nil))
	a.MarkAttempt(addr)
	a.MarkAck(addr, 1)
	require.Equal(t, 0, a.totalFresh)

	// The fake's bucket draw replays seq, so point it at the occupied
	// used bucket.
	rnd.seq = []uint32{uint32(a.usedBucketIndex(addr))}
	got, ok := a.Get()
	require.True(t, ok)
	require.Equal(t, addr.Key(), got.Key())
}

func TestChance_ZeroAttemptsIsMaximal(t *testing.T) {
	now := int64(1_700_000_000)
	ka := &knownAddress{lastAttempt: now - 10000}
	require.Equal(t, 1.0, ka.chance(now))
}
