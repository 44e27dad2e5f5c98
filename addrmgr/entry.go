// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import (
	"container/list"
	"encoding/binary"
)

// Policy constants governing staleness and eviction.
const (
	recentAttemptWindow   = 60      // seconds
	futureSkewTolerance   = 600     // seconds
	staleAddressAge       = 30 * 86400
	neverSucceededRetries = 3
	longSinceSuccessAge   = 7 * 86400
	longSinceSuccessTries = 10
)

// entryRecordSize is the fixed size in bytes of one persisted AddressEntry
// record: an 18-byte address key, 8-byte services, 8-byte time, an 18-byte
// source key, 4-byte attempt count, and two 8-byte timestamps.
const entryRecordSize = 18 + 8 + 8 + 18 + 4 + 8 + 8

// knownAddress is the in-memory unit of storage for one known peer address.
// The manager's addrIndex map is its sole owner; fresh buckets reference it
// by AddressKey, a used bucket references it through usedElem, whose List
// holds the *knownAddress itself, so container/list already gives O(1)
// removal without needing an intrusive prev/next pair.
type knownAddress struct {
	addr NetworkAddress
	src  NetworkAddress

	attempts    int32
	lastAttempt int64
	lastSuccess int64

	used       bool
	refCount   int
	usedBucket int
	usedElem   *list.Element
}

// isStale reports whether this fresh entry should be a preferred eviction
// target rather than a candidate for further use.
func (ka *knownAddress) isStale(now int64) bool {
	if ka.lastAttempt > now-recentAttemptWindow && ka.lastAttempt <= now {
		return false
	}
	if ka.addr.Time > now+futureSkewTolerance {
		return true
	}
	if ka.addr.Time == 0 {
		return true
	}
	if now-ka.addr.Time > staleAddressAge {
		return true
	}
	if ka.lastSuccess == 0 && ka.attempts >= neverSucceededRetries {
		return true
	}
	if now-ka.lastSuccess > longSinceSuccessAge && ka.attempts >= longSinceSuccessTries {
		return true
	}
	return false
}

// chance returns this entry's relative selection weight, decreasing with
// consecutive failures and very recent attempts.
func (ka *knownAddress) chance(now int64) float64 {
	a := ka.attempts
	if a > 8 {
		a = 8
	}
	c := 1.0
	if now-ka.lastAttempt < 600 {
		c *= 0.01
	}
	for i := int32(0); i < a; i++ {
		c *= 0.66
	}
	return c
}

// encode writes the 72-byte on-disk record for this entry.
func (ka *knownAddress) encode() [entryRecordSize]byte {
	var b [entryRecordSize]byte
	ak := ka.addr.Key()
	sk := ka.src.Key()

	off := 0
	copy(b[off:off+18], ak[:])
	off += 18
	binary.LittleEndian.PutUint64(b[off:off+8], ka.addr.Services)
	off += 8
	binary.LittleEndian.PutUint64(b[off:off+8], uint64(ka.addr.Time))
	off += 8
	copy(b[off:off+18], sk[:])
	off += 18
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(ka.attempts))
	off += 4
	binary.LittleEndian.PutUint64(b[off:off+8], uint64(ka.lastSuccess))
	off += 8
	binary.LittleEndian.PutUint64(b[off:off+8], uint64(ka.lastAttempt))
	return b
}

// decodeEntry reconstructs a knownAddress from its 72-byte on-disk record.
// Transient fields (used, refCount, usedBucket, usedElem) are left at their
// zero values; the caller assigns them while reconciling bucket membership.
// Neither the source's time nor its services bits are persisted, so the
// reader synthesizes src.Time = now and src.Services = DefaultServices.
func decodeEntry(b [entryRecordSize]byte, now int64) *knownAddress {
	off := 0
	var ak AddressKey
	copy(ak[:], b[off:off+18])
	off += 18
	services := binary.LittleEndian.Uint64(b[off : off+8])
	off += 8
	t := int64(binary.LittleEndian.Uint64(b[off : off+8]))
	off += 8
	var sk AddressKey
	copy(sk[:], b[off:off+18])
	off += 18
	attempts := int32(binary.LittleEndian.Uint32(b[off : off+4]))
	off += 4
	lastSuccess := int64(binary.LittleEndian.Uint64(b[off : off+8]))
	off += 8
	lastAttempt := int64(binary.LittleEndian.Uint64(b[off : off+8]))

	ka := &knownAddress{
		addr: NetworkAddress{
			IP:       ak.IP(),
			Port:     ak.Port(),
			Services: services,
			Time:     t,
		},
		src: NetworkAddress{
			IP:       sk.IP(),
			Port:     sk.Port(),
			Services: DefaultServices,
			Time:     now,
		},
		attempts:    attempts,
		lastSuccess: lastSuccess,
		lastAttempt: lastAttempt,
		usedBucket:  -1,
	}
	return ka
}
