// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPersist_RoundTrip(t *testing.T) {
	a, _, _ := newTestManager(1_700_000_000)

	addrA := testAddr("1.1.1.1", 8333, 1_699_000_000)
	addrB := testAddr("2.2.2.2", 8333, 1_699_000_000)
	addrC := testAddr("3.3.3.3", 8333, 1_699_000_000)
	require.True(t, a.Add(addrA, nil))
	require.True(t, a.Add(addrB, nil))
	require.True(t, a.Add(addrC, nil))

	a.MarkAttempt(addrB)
	a.MarkAck(addrB, 1)

	banD := testAddr("4.4.4.4", 8333, 0)
	a.Ban(banD)

	dump := a.Dump()

	b, _, _ := newTestManager(1_700_000_000)
	require.NoError(t, b.Load(dump))

	require.Equal(t, a.totalFresh, b.totalFresh)
	require.Equal(t, a.totalUsed, b.totalUsed)
	require.True(t, b.IsBanned(banD))
	require.Equal(t, len(a.addrIndex), len(b.addrIndex))

	for key := range a.addrIndex {
		_, ok := b.addrIndex[key]
		require.True(t, ok)
	}
}

func TestPersist_WrongNetworkMagicFails(t *testing.T) {
	a, _, _ := newTestManager(1_700_000_000)
	require.True(t, a.Add(testAddr("1.1.1.1", 8333, 1_699_000_000), nil))
	dump := a.Dump()

	self := testAddr("9.9.9.9", 8333, 1_700_000_000)
	b := New(self, 0xDEADBEEF)
	err := b.Load(dump)
	require.Error(t, err)
	require.Equal(t, 0, b.Total())
}

func TestPersist_ByteTamperFailsLoad(t *testing.T) {
	a, _, _ := newTestManager(1_700_000_000)
	require.True(t, a.Add(testAddr("1.1.1.1", 8333, 1_699_000_000), nil))
	dump := a.Dump()

	tampered := make([]byte, len(dump))
	copy(tampered, dump)
	// Byte 0 is the low byte of `version`; flipping it breaks the
	// version == 0 check unconditionally, regardless of any other field.
	tampered[0] ^= 0xff

	b, _, _ := newTestManager(1_700_000_000)
	err := b.Load(tampered)
	require.Error(t, err)
	require.Equal(t, 0, b.Total())
	require.False(t, b.IsFull())
}

func TestPersist_TruncatedFailsLoad(t *testing.T) {
	a, _, _ := newTestManager(1_700_000_000)
	require.True(t, a.Add(testAddr("1.1.1.1", 8333, 1_699_000_000), nil))
	dump := a.Dump()

	b, _, _ := newTestManager(1_700_000_000)
	err := b.Load(dump[:len(dump)-1])
	require.Error(t, err)
	require.Equal(t, 0, b.Total())
}

func TestPersist_DuplicateEntryFailsLoad(t *testing.T) {
	a, _, _ := newTestManager(1_700_000_000)
	require.True(t, a.Add(testAddr("1.1.1.1", 8333, 1_699_000_000), nil))
	dump := a.Dump()

	// Splice a second copy of the single entries-section record into the
	// count and payload, forcing a duplicate key on load.
	headerLen := 8 + 32
	rest := dump[headerLen:]
	// rest[0] is the compact-size count byte (1, since count < 0xfd).
	require.Equal(t, byte(1), rest[0])
	entry := rest[1 : 1+entryRecordSize]

	var tampered []byte
	tampered = append(tampered, dump[:headerLen]...)
	tampered = append(tampered, byte(2))
	tampered = append(tampered, entry...)
	tampered = append(tampered, entry...)
	tampered = append(tampered, rest[1+entryRecordSize:]...)

	b, _, _ := newTestManager(1_700_000_000)
	err := b.Load(tampered)
	require.Error(t, err)
	require.Equal(t, 0, b.Total())
}

func TestCompactSize_RoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff, 0x100000000}
	for _, n := range cases {
		var buf bytes.Buffer
		writeCompactSize(&buf, n)
		got, err := readCompactSize(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Equal(t, n, got)
	}
}
