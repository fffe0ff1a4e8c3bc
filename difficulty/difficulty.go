// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package difficulty

import (
	"math"
	"math/bits"

	"github.com/bitmark-inc/proofminer/digest"
)

// Maximum - the score of an all-zero digest
const Maximum = digest.Length * 8

// Score - count of leading zero bits in a digest
//
// a pure function, so the same digest always gives the same score
// and higher is always harder
func Score(d digest.Digest) uint32 {
	n := uint32(0)
	for _, b := range d {
		if 0 != b {
			return n + uint32(bits.LeadingZeros8(b))
		}
		n += 8
	}
	return n
}

// Meets - true if the digest reaches the target
func Meets(d digest.Digest, target uint32) bool {
	return Score(d) >= target
}

// RewardRate - reward paid for a proof of the given difficulty
//
// nothing is paid below the program minimum, the minimum pays the
// base rate and each step above pays base * 2^difficulty, saturating
// at the largest amount
func RewardRate(base uint64, minimum uint32, d uint32) uint64 {
	switch {
	case d < minimum:
		return 0
	case d == minimum:
		return base
	}
	if d >= 64 || 0 == base {
		if 0 == base {
			return 0
		}
		return math.MaxUint64
	}
	hi, lo := bits.Mul64(base, uint64(1)<<d)
	if 0 != hi {
		return math.MaxUint64
	}
	return lo
}

// Reward - one row of the reward table
type Reward struct {
	Difficulty uint32 `json:"difficulty"`
	Amount     uint64 `json:"amount"`
}

// Table - rewards from the minimum difficulty upwards
func Table(base uint64, minimum uint32, rows int) []Reward {
	if rows <= 0 {
		return nil
	}
	table := make([]Reward, 0, rows)
	for i := 0; i < rows; i += 1 {
		d := minimum + uint32(i)
		table = append(table, Reward{
			Difficulty: d,
			Amount:     RewardRate(base, minimum, d),
		})
	}
	return table
}

// Multiplier - stake multiplier, 1 + min(balance/top, 1)
func Multiplier(balance uint64, top uint64) float64 {
	if 0 == top {
		if 0 == balance {
			return 1.0
		}
		return 2.0
	}
	return 1.0 + math.Min(float64(balance)/float64(top), 1.0)
}

// TokenDecimals - scale of on-chain token amounts
const TokenDecimals = 11

// ToTokens - convert a raw amount into whole tokens
func ToTokens(amount uint64) float64 {
	return float64(amount) / math.Pow10(TokenDecimals)
}
