// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package addrmgr implements the peer address manager of a Bitcoin-style
// peer-to-peer node: it remembers peers learned from gossip, seeds and
// direct connections, scores their reliability, selects candidates for
// outbound dial attempts, resists eclipse attacks via keyed bucket
// placement, and persists the collection across restarts.
//
// AddrManager is single-owner and single-threaded by design: it holds no
// internal lock. A multithreaded host must hold an exclusive lock spanning
// each public call itself.
package addrmgr

import (
	"container/list"
	"time"
)

// Options bundles every external collaborator the core consumes, each with
// a working concrete default so the manager needs no configuration to be
// usable.
type Options struct {
	Clock        Clock
	Rand         Rand
	Group        func(NetworkAddress) [6]byte
	Reachability func(src, dst NetworkAddress) int
	IsRoutable   func(NetworkAddress) bool
	DoubleSHA256 func(parts ...[]byte) [32]byte
	Logger       Logger
	BanDuration  time.Duration
}

// Option configures an AddrManager at construction time.
type Option func(*Options)

// WithClock overrides the now() collaborator, primarily for tests.
func WithClock(c Clock) Option { return func(o *Options) { o.Clock = c } }

// WithRand overrides the randomness collaborator, primarily for tests that
// need deterministic selection or a deterministic bucket secret.
func WithRand(r Rand) Option { return func(o *Options) { o.Rand = r } }

// WithGroup overrides the network-group classifier.
func WithGroup(f func(NetworkAddress) [6]byte) Option {
	return func(o *Options) { o.Group = f }
}

// WithReachability overrides the reachability total order used by GetLocal.
func WithReachability(f func(src, dst NetworkAddress) int) Option {
	return func(o *Options) { o.Reachability = f }
}

// WithIsRoutable overrides the routability predicate.
func WithIsRoutable(f func(NetworkAddress) bool) Option {
	return func(o *Options) { o.IsRoutable = f }
}

// WithDoubleSHA256 overrides the bucket-keying hash primitive.
func WithDoubleSHA256(f func(parts ...[]byte) [32]byte) Option {
	return func(o *Options) { o.DoubleSHA256 = f }
}

// WithLogger overrides the logging collaborator. NopLogger is the default.
func WithLogger(l Logger) Option { return func(o *Options) { o.Logger = l } }

// WithBanDuration overrides how long a Ban record remains effective.
// The default is 24 hours, matching bitcoind's default ban time.
func WithBanDuration(d time.Duration) Option { return func(o *Options) { o.BanDuration = d } }

func defaultOptions() Options {
	return Options{
		Clock:        systemClock{},
		Rand:         newSystemRand(),
		Group:        defaultGroup,
		Reachability: defaultReachability,
		IsRoutable:   defaultIsRoutable,
		DoubleSHA256: defaultDoubleSHA256,
		Logger:       NopLogger{},
		BanDuration:  24 * time.Hour,
	}
}

// AddrManager is the peer address store described by the package comment.
type AddrManager struct {
	opts         Options
	selfAddress  NetworkAddress
	networkMagic uint32
	peersFile    string
	dirty        bool

	key [32]byte

	addrIndex map[AddressKey]*knownAddress
	addrFresh [freshBucketCount]map[AddressKey]*knownAddress
	addrUsed  [usedBucketCount]*list.List

	banned map[AddressKey]*banRecord
	local  map[AddressKey]*localRecord

	totalFresh int
	totalUsed  int
}

// New returns a new, empty AddrManager. selfAddress is substituted for src
// whenever a caller passes a nil source to Add; networkMagic is checked
// against a persisted dump's header on Load.
func New(selfAddress NetworkAddress, networkMagic uint32, opts ...Option) *AddrManager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	a := &AddrManager{
		opts:         o,
		selfAddress:  selfAddress,
		networkMagic: networkMagic,
	}
	a.Reset()
	return a
}

// Reset empties the manager and regenerates its bucket-hashing secret.
func (a *AddrManager) Reset() {
	a.addrIndex = make(map[AddressKey]*knownAddress)
	for i := range a.addrFresh {
		a.addrFresh[i] = make(map[AddressKey]*knownAddress)
	}
	for i := range a.addrUsed {
		a.addrUsed[i] = list.New()
	}
	a.banned = make(map[AddressKey]*banRecord)
	a.local = make(map[AddressKey]*localRecord)
	a.totalFresh = 0
	a.totalUsed = 0
	a.opts.Rand.RandomBytes(a.key[:])
	a.dirty = true
	a.opts.Logger.Tracef("address manager reset")
}

// Total returns the number of distinct addresses currently known.
func (a *AddrManager) Total() int {
	return a.totalFresh + a.totalUsed
}

// IsFull reports whether the fresh table has reached its maximum capacity.
func (a *AddrManager) IsFull() bool {
	return a.totalFresh >= freshBucketCount*freshBucketSize
}

// All returns every address currently known to the manager, fresh and
// used alike, in unspecified order.
func (a *AddrManager) All() []NetworkAddress {
	out := make([]NetworkAddress, 0, len(a.addrIndex))
	for _, ka := range a.addrIndex {
		out = append(out, ka.addr)
	}
	return out
}

func (a *AddrManager) find(addr NetworkAddress) *knownAddress {
	return a.addrIndex[addr.Key()]
}

// Add inserts or refreshes addr as learned from src (nil substitutes the
// manager's configured self-address). addr.Port must be non-zero;
// violating that is a programming error and panics.
func (a *AddrManager) Add(addr NetworkAddress, src *NetworkAddress) bool {
	if addr.Port == 0 {
		panic(wrapf(ErrInvalidArgument, "Add: addr port must be non-zero"))
	}
	if !a.opts.IsRoutable(addr) {
		return false
	}

	now := a.opts.Clock.Now()
	var srcAddr NetworkAddress
	if src != nil {
		srcAddr = *src
	} else {
		srcAddr = a.selfAddress
	}

	key := addr.Key()
	if ka, ok := a.addrIndex[key]; ok {
		ka.addr.Services |= addr.Services

		interval := int64(86400)
		if now-addr.Time < 86400 {
			interval = 3600
		}
		var penalty int64
		if src != nil {
			penalty = 7200
		}
		if ka.addr.Time < addr.Time-interval-penalty {
			ka.addr.Time = addr.Time
			a.dirty = true
		}
		if addr.Time <= ka.addr.Time {
			return false
		}
		if ka.used {
			return false
		}
		if ka.refCount == maxFreshRefs {
			return false
		}
		// Stochastic gate: proceed with probability 1/2^ref_count, so
		// an address already heavily cross-referenced gets harder and
		// harder to add again.
		if a.opts.Rand.Uniform(uint32(1)<<uint(ka.refCount)) != 0 {
			return false
		}
		return a.insertFresh(ka, addr, srcAddr)
	}

	t := addr.Time
	if t <= 100_000_000 || t > now+600 {
		t = now - 5*86400
	}
	ka := &knownAddress{
		addr: NetworkAddress{
			IP:       addr.IP,
			Port:     addr.Port,
			Services: addr.Services,
			Time:     t,
		},
		src:        srcAddr,
		usedBucket: -1,
	}
	a.addrIndex[key] = ka
	a.totalFresh++
	a.dirty = true
	return a.insertFresh(ka, ka.addr, srcAddr)
}

// insertFresh places ka into the fresh bucket computed from callAddr/
// callSrc -- the address/source pair presented to this particular Add
// call, not necessarily ka's own stored src, since an address can be
// cross-referenced into several fresh buckets by different sources.
func (a *AddrManager) insertFresh(ka *knownAddress, callAddr, callSrc NetworkAddress) bool {
	key := ka.addr.Key()
	bucket := a.freshBucketIndex(callAddr, callSrc)
	if _, ok := a.addrFresh[bucket][key]; ok {
		return false
	}
	if len(a.addrFresh[bucket]) >= freshBucketSize {
		a.evictFresh(bucket)
	}
	a.addrFresh[bucket][key] = ka
	ka.refCount++
	a.dirty = true
	return true
}

// evictFresh makes room in a full fresh bucket: every stale entry is
// expired outright; only when none was stale is the single oldest
// survivor (by addr.Time) evicted instead.
func (a *AddrManager) evictFresh(bucket int) {
	now := a.opts.Clock.Now()
	var oldest *knownAddress
	expired := false
	for key, ka := range a.addrFresh[bucket] {
		if ka.isStale(now) {
			a.dropFreshRef(bucket, key, ka)
			expired = true
			continue
		}
		if oldest == nil || ka.addr.Time < oldest.addr.Time {
			oldest = ka
		}
	}
	if oldest != nil && !expired {
		a.dropFreshRef(bucket, oldest.addr.Key(), oldest)
	}
}

// dropFreshRef removes ka from one fresh bucket and decrements its
// ref_count, destroying the entry entirely once the last reference is
// gone.
func (a *AddrManager) dropFreshRef(bucket int, key AddressKey, ka *knownAddress) {
	delete(a.addrFresh[bucket], key)
	ka.refCount--
	if ka.refCount == 0 {
		delete(a.addrIndex, key)
		a.totalFresh--
	}
	a.dirty = true
}

// Remove deletes addr from the manager entirely, wherever it lives.
func (a *AddrManager) Remove(addr NetworkAddress) bool {
	key := addr.Key()
	ka, ok := a.addrIndex[key]
	if !ok {
		return false
	}

	if ka.used {
		a.addrUsed[ka.usedBucket].Remove(ka.usedElem)
		ka.usedElem = nil
		ka.usedBucket = -1
		a.totalUsed--
		if ka.refCount != 0 {
			panic(wrapf(ErrInvalidArgument, "Remove: used entry has ref_count %d, want 0", ka.refCount))
		}
	} else {
		for i := range a.addrFresh {
			if _, ok := a.addrFresh[i][key]; ok {
				delete(a.addrFresh[i], key)
				ka.refCount--
			}
		}
		a.totalFresh--
		if ka.refCount != 0 {
			panic(wrapf(ErrInvalidArgument, "Remove: ref_count %d after removal, want 0", ka.refCount))
		}
	}

	delete(a.addrIndex, key)
	a.dirty = true
	return true
}

// MarkAttempt records a dial attempt against addr. A no-op if addr is
// unknown.
func (a *AddrManager) MarkAttempt(addr NetworkAddress) {
	ka, ok := a.addrIndex[addr.Key()]
	if !ok {
		return
	}
	ka.attempts++
	ka.lastAttempt = a.opts.Clock.Now()
	a.dirty = true
}

// MarkSuccess refreshes addr's recency without promoting it, provided at
// least 20 minutes have passed since its last refresh. A no-op if addr is
// unknown.
func (a *AddrManager) MarkSuccess(addr NetworkAddress) {
	ka, ok := a.addrIndex[addr.Key()]
	if !ok {
		return
	}
	now := a.opts.Clock.Now()
	if now-ka.addr.Time > 20*60 {
		ka.addr.Time = now
		a.dirty = true
	}
}

// MarkAck promotes addr into a used bucket following a completed
// handshake, evicting another used entry back to fresh if necessary. A
// no-op if addr is unknown.
func (a *AddrManager) MarkAck(addr NetworkAddress, services uint64) {
	ka, ok := a.addrIndex[addr.Key()]
	if !ok {
		return
	}
	ka.addr.Services |= services
	now := a.opts.Clock.Now()
	ka.lastSuccess = now
	ka.lastAttempt = now
	ka.attempts = 0
	a.dirty = true

	if ka.used {
		return
	}

	key := addr.Key()
	oldBucket := -1
	for i := range a.addrFresh {
		if _, ok := a.addrFresh[i][key]; ok {
			delete(a.addrFresh[i], key)
			ka.refCount--
			oldBucket = i
		}
	}
	if ka.refCount != 0 || oldBucket == -1 {
		panic(wrapf(ErrInvalidArgument, "MarkAck: invariant violation, refCount=%d oldBucket=%d", ka.refCount, oldBucket))
	}
	a.totalFresh--

	target := a.usedBucketIndex(ka.addr)
	lst := a.addrUsed[target]
	if lst.Len() < usedBucketSize {
		ka.used = true
		ka.usedBucket = target
		ka.usedElem = lst.PushBack(ka)
		a.totalUsed++
		return
	}

	// No room: evict the oldest entry in U, ties resolved by whichever
	// the forward list walk reaches first.
	var victim *knownAddress
	var victimElem *list.Element
	for e := lst.Front(); e != nil; e = e.Next() {
		v := e.Value.(*knownAddress)
		if victim == nil || v.addr.Time < victim.addr.Time {
			victim = v
			victimElem = e
		}
	}

	freshTarget := a.freshBucketIndex(victim.addr, victim.src)
	if len(a.addrFresh[freshTarget]) >= freshBucketSize {
		freshTarget = oldBucket
	}

	victimElem.Value = ka
	ka.used = true
	ka.usedBucket = target
	ka.usedElem = victimElem

	victim.used = false
	victim.usedBucket = -1
	victim.usedElem = nil
	victim.refCount = 1
	a.addrFresh[freshTarget][victim.addr.Key()] = victim
	a.totalFresh++
}
