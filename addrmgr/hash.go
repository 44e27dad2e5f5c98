// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import "crypto/sha256"

// defaultDoubleSHA256 is the concrete default for the Options.DoubleSHA256
// collaborator used to key bucket placement. It concatenates every part
// before hashing, then hashes the digest a second time, the same double-
// hash shape as bitcoin's own block/transaction hashing.
func defaultDoubleSHA256(parts ...[]byte) [32]byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	first := h.Sum(nil)
	h.Reset()
	h.Write(first)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
