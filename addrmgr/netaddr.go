// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import "net"

// DefaultServices is assigned to the source address of every entry
// reconstructed on load, since the on-disk record does not store the
// source's service bits.
const DefaultServices uint64 = 1

// NetworkAddress is a routable endpoint as gossiped between peers: a
// 16-byte IP (IPv4-mapped for v4 addresses), a port, a services bitmask and
// a last-seen time. Equality and hashing for the global index are over
// {IP, port}; ban keys use {IP, 0}, see Key and BanKey.
type NetworkAddress struct {
	IP       [16]byte
	Port     uint16
	Services uint64
	Time     int64
}

// NewNetworkAddress builds a NetworkAddress from a net.IP, mapping IPv4
// addresses into the IPv4-in-IPv6 form so the 16-byte representation is
// always well defined.
func NewNetworkAddress(ip net.IP, port uint16, services uint64, t int64) NetworkAddress {
	var raw [16]byte
	if v4 := ip.To4(); v4 != nil {
		copy(raw[:12], v4MappedPrefix[:])
		copy(raw[12:], v4)
	} else if v6 := ip.To16(); v6 != nil {
		copy(raw[:], v6)
	}
	return NetworkAddress{IP: raw, Port: port, Services: services, Time: t}
}

// v4MappedPrefix is the ::ffff:0:0/96 prefix used to embed IPv4 addresses
// in the 16-byte representation.
var v4MappedPrefix = [12]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff}

// IsIPv4 reports whether the address is an IPv4-mapped address.
func (a NetworkAddress) IsIPv4() bool {
	return a.IP[0] == 0 && a.IP[1] == 0 && a.IP[2] == 0 && a.IP[3] == 0 &&
		a.IP[4] == 0 && a.IP[5] == 0 && a.IP[6] == 0 && a.IP[7] == 0 &&
		a.IP[8] == 0 && a.IP[9] == 0 && a.IP[10] == 0xff && a.IP[11] == 0xff
}

// net returns the net.IP view of this address for classification against
// the standard library's and RFC-range tables.
func (a NetworkAddress) net() net.IP {
	if a.IsIPv4() {
		ip := make(net.IP, 4)
		copy(ip, a.IP[12:16])
		return ip
	}
	ip := make(net.IP, 16)
	copy(ip, a.IP[:])
	return ip
}

// String returns the "ip:port" form of the address.
func (a NetworkAddress) String() string {
	return net.JoinHostPort(a.net().String(), portString(a.Port))
}

func portString(port uint16) string {
	const digits = "0123456789"
	if port == 0 {
		return "0"
	}
	var buf [5]byte
	i := len(buf)
	for port > 0 {
		i--
		buf[i] = digits[port%10]
		port /= 10
	}
	return string(buf[i:])
}

// rfcRange is a private/reserved IP range excluded from routability.
type rfcRange struct {
	net  net.IP
	mask net.IPMask
}

func newRFCRange(ip string, ones, bits int) rfcRange {
	return rfcRange{net: net.ParseIP(ip), mask: net.CIDRMask(ones, bits)}
}

// unroutable4 and unroutable6 mirror the RFC1918/RFC3964/RFC4380/RFC4843/
// RFC4862/RFC4193 exclusions used by decred-dcrseeder's isRoutable, which
// in turn mirrors bitcoind/btcd's CNetAddr::IsRoutable table.
var (
	unroutable4 = []rfcRange{
		newRFCRange("10.0.0.0", 8, 32),
		newRFCRange("172.16.0.0", 12, 32),
		newRFCRange("192.168.0.0", 16, 32),
	}
	unroutable6 = []rfcRange{
		newRFCRange("2002::", 16, 128), // 6to4 (RFC3964)
		newRFCRange("2001::", 32, 128), // Teredo (RFC4380)
		newRFCRange("2001:10::", 28, 128), // ORCHID (RFC4843)
		newRFCRange("FE80::", 64, 128), // link-local (RFC4862)
		newRFCRange("FC00::", 7, 128), // unique local (RFC4193)
	}
)

func inAnyRange(ip net.IP, ranges []rfcRange) bool {
	for _, r := range ranges {
		n := net.IPNet{IP: r.net, Mask: r.mask}
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// defaultIsRoutable is the concrete default for the Options.IsRoutable
// collaborator. It rejects the loopback, unspecified, link-local and
// multicast classes the standard library already knows about, plus the RFC
// ranges above.
func defaultIsRoutable(a NetworkAddress) bool {
	if a.Port == 0 {
		return false
	}
	ip := a.net()
	if ip.IsLoopback() || ip.IsUnspecified() || ip.IsMulticast() || ip.IsLinkLocalUnicast() {
		return false
	}
	if a.IsIPv4() {
		return !inAnyRange(ip, unroutable4)
	}
	return !inAnyRange(ip, unroutable6)
}
