// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

// banRecord is a NetworkAddress with its port zeroed and Time set to the
// instant the ban was recorded.
type banRecord struct {
	addr NetworkAddress
	time int64
}

// Ban records addr as banned as of now, keyed by IP only (port zeroed). If
// addr is already banned, the original ban time is kept (first-writer-wins)
// rather than refreshed.
func (a *AddrManager) Ban(addr NetworkAddress) {
	key := addr.BanKey()
	if _, ok := a.banned[key]; ok {
		return
	}
	banned := addr
	banned.Port = 0
	a.banned[key] = &banRecord{addr: banned, time: a.opts.Clock.Now()}
}

// Unban removes any ban record for addr's IP.
func (a *AddrManager) Unban(addr NetworkAddress) {
	delete(a.banned, addr.BanKey())
}

// IsBanned reports whether addr's IP is currently banned, ignoring the
// port. An expired ban record is removed as a side effect and reported as
// not banned.
func (a *AddrManager) IsBanned(addr NetworkAddress) bool {
	key := addr.BanKey()
	rec, ok := a.banned[key]
	if !ok {
		return false
	}
	if a.opts.Clock.Now() > rec.time+int64(a.opts.BanDuration.Seconds()) {
		delete(a.banned, key)
		return false
	}
	return true
}

// ClearBanned empties the ban table.
func (a *AddrManager) ClearBanned() {
	a.banned = make(map[AddressKey]*banRecord)
}
