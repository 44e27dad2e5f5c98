// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

// localRecord is a self-advertised address with a reachability score that
// is bumped on external confirmations (MarkLocal) and a source category
// (type).
type localRecord struct {
	addr  NetworkAddress
	typ   int
	score int
}

// AddLocal registers addr as one of this node's own advertisable
// addresses. Unroutable addresses and duplicates are rejected (false).
func (a *AddrManager) AddLocal(addr NetworkAddress, score int) bool {
	if !a.opts.IsRoutable(addr) {
		return false
	}
	key := addr.Key()
	if _, ok := a.local[key]; ok {
		return false
	}
	rec := &localRecord{
		addr:  addr,
		typ:   score,
		score: score,
	}
	rec.addr.Services = a.selfAddress.Services
	a.local[key] = rec
	return true
}

// MarkLocal bumps the confidence score of a previously registered local
// address, used to upgrade self-advertisement confidence on reflection.
func (a *AddrManager) MarkLocal(addr NetworkAddress) {
	if rec, ok := a.local[addr.Key()]; ok {
		rec.score++
	}
}

// HasLocal reports whether addr is registered as one of this node's own
// addresses.
func (a *AddrManager) HasLocal(addr NetworkAddress) bool {
	_, ok := a.local[addr.Key()]
	return ok
}

// GetLocal returns the best self-address to advertise to peer src. If src
// is nil, the record with the maximum score is returned. Otherwise every
// record's reachability to src is compared, ties broken by score. The
// returned record's advertisement time is refreshed to now.
func (a *AddrManager) GetLocal(src *NetworkAddress) (NetworkAddress, bool) {
	if len(a.local) == 0 {
		return NetworkAddress{}, false
	}

	var best *localRecord
	if src == nil {
		for _, rec := range a.local {
			if best == nil || rec.score > best.score {
				best = rec
			}
		}
	} else {
		var bestReach int
		for _, rec := range a.local {
			reach := a.opts.Reachability(*src, rec.addr)
			if best == nil || reach > bestReach || (reach == bestReach && rec.score > best.score) {
				best = rec
				bestReach = reach
			}
		}
	}

	best.addr.Time = a.opts.Clock.Now()
	return best.addr, true
}
