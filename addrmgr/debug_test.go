// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDebugSnapshot_ReflectsPopulation(t *testing.T) {
	a, _, _ := newTestManager(1_700_000_000)
	require.True(t, a.Add(testAddr("1.2.3.4", 8333, 1_699_000_000), nil))

	raw, err := a.DebugSnapshot()
	require.NoError(t, err)
	require.Contains(t, string(raw), `"total_fresh":1`)
	require.Contains(t, string(raw), `"total_used":0`)
}
