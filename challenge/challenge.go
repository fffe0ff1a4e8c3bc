// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package challenge

import (
	"time"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/digest"
)

// Challenge - one puzzle instance
//
// immutable once read, workers get a copy
type Challenge struct {
	Epoch            uint64      `json:"epoch"`
	Seed             digest.Seed `json:"seed"`
	TargetDifficulty uint32      `json:"targetDifficulty"`

	// context for building and reporting the round
	Authority      account.PublicKey `json:"authority"`
	Balance        uint64            `json:"balance"`
	TopBalance     uint64            `json:"topBalance"`
	BaseRewardRate uint64            `json:"baseRewardRate"`
	NeedsReset     bool              `json:"needsReset"`

	// chain time when read and the estimated rotation time
	ChainTime  time.Time `json:"chainTime"`
	ExpiresAt  time.Time `json:"expiresAt"`
	ObservedAt time.Time `json:"observedAt"`
}

// the shortest round ever scheduled
const minimumRound = time.Second

// Deadline - local time at which a search round must stop
//
// the earlier of the configured round duration and the estimated
// rotation less a safety buffer, measured against the chain clock
// but returned in local time; once the cutoff has passed the epoch
// only moves on when a proof lands, so the full round duration is
// used
func (c Challenge) Deadline(roundDuration time.Duration, buffer time.Duration) time.Time {
	remaining := roundDuration
	if !c.ExpiresAt.IsZero() && !c.ChainTime.IsZero() {
		cutoff := c.ExpiresAt.Sub(c.ChainTime) - buffer
		if cutoff > 0 && (roundDuration <= 0 || cutoff < roundDuration) {
			remaining = cutoff
		}
	}
	if remaining < minimumRound {
		remaining = minimumRound
	}
	return c.ObservedAt.Add(remaining)
}
