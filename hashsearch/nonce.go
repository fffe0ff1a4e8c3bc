// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hashsearch

import (
	"fmt"
	"math"

	"github.com/bitmark-inc/proofminer/fault"
)

// FullSpace - every nonce the search will try
//
// the end is exclusive so the largest 64 bit value is never tried
var FullSpace = NonceRange{Start: 0, End: math.MaxUint64}

// NonceRange - half open interval [Start, End)
type NonceRange struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

// Size - number of nonces in the range
func (r NonceRange) Size() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains - true if the nonce is in the range
func (r NonceRange) Contains(nonce uint64) bool {
	return nonce >= r.Start && nonce < r.End
}

// String - for the fmt package
func (r NonceRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Partition - split a space into contiguous ranges, one per worker
//
// sizes differ by at most one, the first space%workers ranges hold
// the extra nonce.  The result depends only on the arguments.
func Partition(space NonceRange, workers int) ([]NonceRange, error) {
	if workers <= 0 {
		return nil, fault.ErrNoWorkers
	}
	size := space.Size()
	if 0 == size {
		return nil, fault.ErrInvalidNonceSpace
	}

	n := uint64(workers)
	base := size / n
	extra := size % n

	ranges := make([]NonceRange, workers)
	start := space.Start
	for i := uint64(0); i < n; i += 1 {
		length := base
		if i < extra {
			length += 1
		}
		ranges[i] = NonceRange{Start: start, End: start + length}
		start += length
	}
	return ranges, nil
}
