// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hashsearch

import (
	"sync/atomic"

	"github.com/bitmark-inc/proofminer/counter"
	"github.com/bitmark-inc/proofminer/difficulty"
	"github.com/bitmark-inc/proofminer/digest"
)

// Result - the best nonce a worker found
type Result struct {
	Nonce      uint64        `json:"nonce"`
	Digest     digest.Digest `json:"digest"`
	Difficulty uint32        `json:"difficulty"`
	Valid      bool          `json:"valid"`
}

// Better - true if r should replace other as the best
//
// higher difficulty wins, equal difficulty goes to the smaller nonce
// and an invalid result never wins
func (r Result) Better(other Result) bool {
	if !r.Valid {
		return false
	}
	if !other.Valid {
		return true
	}
	if r.Difficulty != other.Difficulty {
		return r.Difficulty > other.Difficulty
	}
	return r.Nonce < other.Nonce
}

// Flag - stop signal shared by the workers of a round
//
// once set it stays set
type Flag struct {
	set int32
}

// Set - raise the flag
func (f *Flag) Set() {
	atomic.StoreInt32(&f.set, 1)
}

// IsSet - true once the flag has been raised
func (f *Flag) IsSet() bool {
	return 0 != atomic.LoadInt32(&f.set)
}

// Progress - a worker's live counters
//
// written only by the owning worker, read by anyone
type Progress struct {
	hashes counter.Counter
	best   uint32
	found  uint32
	_      [48]byte // one slot per cache line
}

// Hashes - nonces evaluated so far
func (p *Progress) Hashes() uint64 {
	return p.hashes.Uint64()
}

// Best - highest difficulty seen so far and whether anything was seen
func (p *Progress) Best() (uint32, bool) {
	if 0 == atomic.LoadUint32(&p.found) {
		return 0, false
	}
	return atomic.LoadUint32(&p.best), true
}

func (p *Progress) publish(d uint32) {
	atomic.StoreUint32(&p.best, d)
	atomic.StoreUint32(&p.found, 1)
}

// Search - evaluate nonces of a range in ascending order
//
// the stop flag is checked before every evaluation, so at most one
// hash is computed after it is raised.  A hasher failure skips that
// nonce.  Progress may be nil.
func Search(hasher digest.Hasher, seed digest.Seed, r NonceRange, stop *Flag, progress *Progress) Result {
	if nil == progress {
		progress = &Progress{}
	}

	best := Result{}
	for nonce := r.Start; nonce < r.End; nonce += 1 {
		if stop.IsSet() {
			break
		}

		d, err := hasher.Hash(seed, nonce)
		progress.hashes.Increment()
		if nil != err {
			continue
		}

		score := difficulty.Score(d)
		if !best.Valid || score > best.Difficulty {
			best = Result{
				Nonce:      nonce,
				Digest:     d,
				Difficulty: score,
				Valid:      true,
			}
			progress.publish(score)
		}
	}
	return best
}
