// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

// groupClass tags the coarse routing class an address belongs to. Two
// addresses in the same class with the same neighborhood prefix collapse to
// the same group, which is exactly the property bucket placement relies on
// to bound an attacker's ability to flood a single bucket.
type groupClass byte

const (
	groupUnroutable groupClass = 0
	groupIPv4       groupClass = 1
	groupIPv6       groupClass = 2
)

// defaultGroup is the concrete default for the Options.Group collaborator.
// It produces a fixed 6-byte identifier: byte 0 is the class, followed by a
// /16-equivalent IPv4 prefix (2 bytes) or a /32-equivalent IPv6 prefix (4
// bytes), zero-padded. All unroutable addresses collapse to a single group.
// Add filters out an unroutable addr before bucket math runs (see
// manager.go); the source is not filtered, so an unroutable source is
// grouped here.
func defaultGroup(a NetworkAddress) [6]byte {
	var g [6]byte
	if !defaultIsRoutable(a) {
		g[0] = byte(groupUnroutable)
		return g
	}
	if a.IsIPv4() {
		g[0] = byte(groupIPv4)
		copy(g[1:3], a.IP[12:14])
		return g
	}
	g[0] = byte(groupIPv6)
	copy(g[1:5], a.IP[0:4])
	return g
}

// defaultReachability is the concrete default for the Options.Reachability
// collaborator: a simple total order over routability classes, highest for
// an address in the same class as src, then IPv6, then IPv4, then
// unroutable. Operators who need bitcoin-core-exact reachability scoring
// (accounting for Tor/I2P/Teredo) may override it via WithReachability.
func defaultReachability(src, dst NetworkAddress) int {
	sg, dg := defaultGroup(src), defaultGroup(dst)
	if sg[0] == dg[0] {
		return 3
	}
	switch groupClass(dg[0]) {
	case groupIPv6:
		return 2
	case groupIPv4:
		return 1
	default:
		return 0
	}
}
