// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import jsoniter "github.com/json-iterator/go"

// debugSnapshot is the JSON-friendly shape returned by DebugSnapshot. It is
// diagnostic only: the real persisted format is the exact binary layout in
// persist.go, not JSON, so this type carries no decode path.
type debugSnapshot struct {
	TotalFresh     int   `json:"total_fresh"`
	TotalUsed      int   `json:"total_used"`
	BannedCount    int   `json:"banned_count"`
	LocalCount     int   `json:"local_count"`
	FreshHistogram []int `json:"fresh_bucket_sizes"`
	UsedHistogram  []int `json:"used_bucket_sizes"`
}

// DebugSnapshot dumps a point-in-time summary of the manager's internal
// shape: population counts and per-bucket occupancy histograms, handy for
// an operator console or a bug report. It is unrelated to Dump/Load, which
// handle the authoritative on-disk format.
func (a *AddrManager) DebugSnapshot() ([]byte, error) {
	snap := debugSnapshot{
		TotalFresh:     a.totalFresh,
		TotalUsed:      a.totalUsed,
		BannedCount:    len(a.banned),
		LocalCount:     len(a.local),
		FreshHistogram: make([]int, freshBucketCount),
		UsedHistogram:  make([]int, usedBucketCount),
	}
	for i := range a.addrFresh {
		snap.FreshHistogram[i] = len(a.addrFresh[i])
	}
	for i := range a.addrUsed {
		snap.UsedHistogram[i] = a.addrUsed[i].Len()
	}

	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(snap)
}
