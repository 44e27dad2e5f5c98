// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import (
	crand "crypto/rand"
	"io"
	"math/rand"
	"time"
)

// Clock is the "now()" collaborator consumed throughout this package: Unix
// seconds, possibly adjusted by an external timedata component. Tests
// inject a fixed Clock so every policy threshold in the package reads the
// same frozen instant.
type Clock interface {
	Now() int64
}

// Rand is the randomness collaborator consumed throughout this package: an
// unbiased uniform sampler for selection and stochastic gating, plus a
// CSPRNG byte source for the bucket secret.
type Rand interface {
	// Uniform returns a value uniformly distributed in [0, n). It must
	// not use `source() % n`, which is biased; math/rand's Int63n-family
	// already rejection-samples internally, see systemRand below.
	Uniform(n uint32) uint32
	// RandomBytes fills buf with cryptographically unpredictable bytes.
	RandomBytes(buf []byte)
}

// systemClock is the concrete default Clock, backed by time.Now.
type systemClock struct{}

func (systemClock) Now() int64 { return time.Now().Unix() }

// systemRand is the concrete default Rand: math/rand for fast uniform
// sampling (already unbiased, see Uniform), crypto/rand for the bucket
// secret.
type systemRand struct {
	r *rand.Rand
}

func newSystemRand() *systemRand {
	return &systemRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *systemRand) Uniform(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	return uint32(s.r.Int63n(int64(n)))
}

func (s *systemRand) RandomBytes(buf []byte) {
	if _, err := io.ReadFull(crand.Reader, buf); err != nil {
		panic("addrmgr: crypto/rand read failure: " + err.Error())
	}
}
