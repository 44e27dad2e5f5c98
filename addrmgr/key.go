// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import "encoding/binary"

// AddressKey is the fixed 18-byte on-wire/on-disk identity of a network
// address: a 16-byte raw IP (IPv4-mapped for v4 addresses) followed by a
// little-endian port. It is used both as the global index key and as the
// set/list element written to the fresh and used bucket sections of a
// persisted dump.
type AddressKey [18]byte

// Key returns the AddressKey for this address. Two addresses with the same
// IP and port always produce the same key, regardless of their Services or
// Time fields.
func (a NetworkAddress) Key() AddressKey {
	var k AddressKey
	copy(k[:16], a.IP[:])
	binary.LittleEndian.PutUint16(k[16:18], a.Port)
	return k
}

// BanKey returns the key used to index this address in the ban table, which
// tracks only the IP and ignores the port.
func (a NetworkAddress) BanKey() AddressKey {
	var k AddressKey
	copy(k[:16], a.IP[:])
	return k
}

// IP returns the 16-byte raw IP encoded in the key.
func (k AddressKey) IP() [16]byte {
	var ip [16]byte
	copy(ip[:], k[:16])
	return ip
}

// Port returns the little-endian port encoded in the key.
func (k AddressKey) Port() uint16 {
	return binary.LittleEndian.Uint16(k[16:18])
}
