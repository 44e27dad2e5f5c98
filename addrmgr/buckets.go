// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import "encoding/binary"

const (
	// freshBucketCount is the number of set-like fresh buckets.
	freshBucketCount = 1024
	// freshBucketSize is the maximum number of entries per fresh bucket.
	freshBucketSize = 64
	// usedBucketCount is the number of list-like used buckets.
	usedBucketCount = 256
	// usedBucketSize is the maximum number of entries per used bucket.
	usedBucketSize = 64
	// maxFreshRefs is the maximum number of fresh buckets an entry may
	// simultaneously appear in (ref_count upper bound).
	maxFreshRefs = 8

	// freshGroupsPerSourceGroup bounds the intermediate s1 modulus in
	// freshBucketIndex: entries sharing a source group land in at most
	// this many of the freshBucketCount buckets.
	freshGroupsPerSourceGroup = 64
	// usedGroupsPerAddress bounds the intermediate s1 modulus in
	// usedBucketIndex: an address reaches at most this many of the
	// usedBucketCount buckets regardless of source.
	usedGroupsPerAddress = 8
)

// freshBucketIndex computes the fresh-bucket index for an entry with
// address addr learned from source src:
//
//	s1 = u32le(H(key, group(addr), group(src))) mod 64
//	s2 = u32le(H(key, group(src), s1_as_le32))
//	index = s2 mod 1024
func (a *AddrManager) freshBucketIndex(addr, src NetworkAddress) int {
	ga := a.opts.Group(addr)
	gs := a.opts.Group(src)

	h1 := a.opts.DoubleSHA256(a.key[:], ga[:], gs[:])
	s1 := binary.LittleEndian.Uint32(h1[:4]) % freshGroupsPerSourceGroup

	var s1le [4]byte
	binary.LittleEndian.PutUint32(s1le[:], s1)

	h2 := a.opts.DoubleSHA256(a.key[:], gs[:], s1le[:])
	s2 := binary.LittleEndian.Uint32(h2[:4])

	return int(s2 % freshBucketCount)
}

// usedBucketIndex computes the used-bucket index for an entry with address
// addr:
//
//	s1 = u32le(H(key, addr.raw, addr.port_le16)) mod 8
//	s2 = u32le(H(key, group(addr), s1_as_le32))
//	index = s2 mod 256
func (a *AddrManager) usedBucketIndex(addr NetworkAddress) int {
	ga := a.opts.Group(addr)
	k := addr.Key()

	h1 := a.opts.DoubleSHA256(a.key[:], k[:16], k[16:18])
	s1 := binary.LittleEndian.Uint32(h1[:4]) % usedGroupsPerAddress

	var s1le [4]byte
	binary.LittleEndian.PutUint32(s1le[:], s1)

	h2 := a.opts.DoubleSHA256(a.key[:], ga[:], s1le[:])
	s2 := binary.LittleEndian.Uint32(h2[:4])

	return int(s2 % usedBucketCount)
}
