// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package challenge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/challenge"
	"github.com/bitmark-inc/proofminer/digest"
	"github.com/bitmark-inc/proofminer/fault"
)

func TestDecodeProof(t *testing.T) {
	p := &challenge.Proof{
		Authority:    account.ClockSysvar,
		Balance:      12345,
		Challenge:    digest.Seed{1, 2, 3, 4},
		LastHash:     digest.Digest{5, 6},
		LastHashAt:   1718000000,
		LastStakeAt:  1717000000,
		Miner:        account.ComputeBudgetProgram,
		TotalHashes:  99,
		TotalRewards: 1000,
	}
	data := p.Pack()
	assert.Equal(t, challenge.ProofSize, len(data), "wrong packed size")

	decoded, err := challenge.DecodeProof(data)
	assert.Nil(t, err, "decode")
	assert.Equal(t, p, decoded, "proof changed")

	_, err = challenge.DecodeProof(data[:challenge.ProofSize-1])
	assert.Equal(t, fault.ErrAccountDataTooShort, err, "short data accepted")
}

func TestDecodeConfig(t *testing.T) {
	c := &challenge.Config{
		BaseRewardRate: 4096,
		LastResetAt:    1718000000,
		MinDifficulty:  8,
		TopBalance:     1 << 40,
	}
	decoded, err := challenge.DecodeConfig(c.Pack())
	assert.Nil(t, err, "decode")
	assert.Equal(t, c, decoded, "config changed")

	_, err = challenge.DecodeConfig(make([]byte, 8))
	assert.Equal(t, fault.ErrAccountDataTooShort, err, "short data accepted")
}

func TestDecodeBus(t *testing.T) {
	b := &challenge.Bus{
		ID:                 3,
		Rewards:            777,
		TheoreticalRewards: 888,
		TopBalance:         999,
	}
	decoded, err := challenge.DecodeBus(b.Pack())
	assert.Nil(t, err, "decode")
	assert.Equal(t, b, decoded, "bus changed")

	_, err = challenge.DecodeBus(nil)
	assert.Equal(t, fault.ErrAccountDataTooShort, err, "empty data accepted")
}

func TestDecodeClock(t *testing.T) {
	c := &challenge.Clock{
		Slot:          280000000,
		UnixTimestamp: 1718000042,
	}
	data := c.Pack()
	assert.Equal(t, challenge.ClockSize, len(data), "wrong packed size")

	decoded, err := challenge.DecodeClock(data)
	assert.Nil(t, err, "decode")
	assert.Equal(t, c, decoded, "clock changed")
}
