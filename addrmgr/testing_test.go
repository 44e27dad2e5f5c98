// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import "net"

// fakeClock is a Clock with a manually advanced instant, letting tests
// pin "now" to exact values for staleness/chance/ban-expiry math.
type fakeClock struct {
	now int64
}

func (c *fakeClock) Now() int64 { return c.now }

// fakeRand is a Rand with fully scripted output: Uniform replays a fixed
// sequence (looping once exhausted) and RandomBytes fills with a fixed
// byte so bucket secrets and selection draws are reproducible.
type fakeRand struct {
	seq    []uint32
	pos    int
	secret byte
}

func (r *fakeRand) Uniform(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	if len(r.seq) == 0 {
		return 0
	}
	v := r.seq[r.pos%len(r.seq)]
	r.pos++
	return v % n
}

func (r *fakeRand) RandomBytes(buf []byte) {
	for i := range buf {
		buf[i] = r.secret
	}
}

func testAddr(ip string, port uint16, t int64) NetworkAddress {
	return NewNetworkAddress(net.ParseIP(ip), port, 1, t)
}

// newTestManager builds a manager with deterministic collaborators: a
// frozen clock at `now`, an always-accepting Rand (so stochastic gates and
// selection math never flakily reject in tests that don't care), and a
// fixed bucket secret.
func newTestManager(now int64) (*AddrManager, *fakeClock, *fakeRand) {
	clock := &fakeClock{now: now}
	rnd := &fakeRand{seq: []uint32{0}, secret: 0x42}
	self := testAddr("9.9.9.9", 8333, now)
	a := New(self, 0xD9B4BEF9, WithClock(clock), WithRand(rnd))
	return a, clock, rnd
}
