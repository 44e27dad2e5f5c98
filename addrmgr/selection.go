// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

// selectionScale is the fixed-point denominator used by Get's acceptance
// draw: r is uniform in [0, 2^30) and accepted iff r < factor*chance*2^30.
const selectionScale = 1 << 30

// Get picks one address to try connecting to next. The side (fresh or
// used) is chosen once per call by population size or, when both are
// nonempty, a fair coin; within that side, entries are drawn with a
// chance-weighted acceptance loop whose factor relaxes by 1.2x per
// rejection so it always converges even for the coldest entry. There is
// intentionally no hard attempt cap: a cap that could return nil while
// addresses remain would violate the selection contract.
func (a *AddrManager) Get() (NetworkAddress, bool) {
	if a.totalFresh == 0 && a.totalUsed == 0 {
		return NetworkAddress{}, false
	}

	useFresh := a.totalUsed == 0
	if a.totalFresh != 0 && a.totalUsed != 0 {
		useFresh = a.opts.Rand.Uniform(2) != 0 // used side chosen on a draw of 0
	}

	now := a.opts.Clock.Now()
	factor := 1.0
	for {
		var ka *knownAddress
		if useFresh {
			ka = a.pickFresh()
		} else {
			ka = a.pickUsed()
		}

		r := a.opts.Rand.Uniform(selectionScale)
		if float64(r) < factor*ka.chance(now)*float64(selectionScale) {
			return ka.addr, true
		}
		factor *= 1.2
	}
}

// pickFresh draws a uniformly random nonempty fresh bucket, then a
// uniformly random entry within it by iteration-order position, retrying
// until a nonempty bucket is hit.
func (a *AddrManager) pickFresh() *knownAddress {
	for {
		bucket := int(a.opts.Rand.Uniform(freshBucketCount))
		n := len(a.addrFresh[bucket])
		if n == 0 {
			continue
		}
		skip := int(a.opts.Rand.Uniform(uint32(n)))
		for _, ka := range a.addrFresh[bucket] {
			if skip == 0 {
				return ka
			}
			skip--
		}
	}
}

// pickUsed draws a uniformly random nonempty used bucket, then a uniformly
// random entry within it by list position, retrying until a nonempty
// bucket is hit.
func (a *AddrManager) pickUsed() *knownAddress {
	for {
		bucket := int(a.opts.Rand.Uniform(usedBucketCount))
		lst := a.addrUsed[bucket]
		n := lst.Len()
		if n == 0 {
			continue
		}
		skip := int(a.opts.Rand.Uniform(uint32(n)))
		e := lst.Front()
		for ; skip > 0; skip-- {
			e = e.Next()
		}
		return e.Value.(*knownAddress)
	}
}
