// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package miner

import (
	"fmt"
	"time"

	"github.com/bitmark-inc/proofminer/digest"
	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/transaction"
)

// Landing - how a round ended
type Landing int

// round endings
const (
	Landed Landing = iota
	Rejected
	Expired
	Abandoned   // rotated during the search
	BelowTarget // winner not worth submitting
)

var landingNames = []string{"landed", "rejected", "expired", "abandoned", "below-target"}

// String - for the fmt package
func (l Landing) String() string {
	if l < 0 || int(l) >= len(landingNames) {
		return "invalid"
	}
	return landingNames[l]
}

// MarshalText - landing as text
func (l Landing) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText - landing from text
func (l *Landing) UnmarshalText(b []byte) error {
	for i, name := range landingNames {
		if name == string(b) {
			*l = Landing(i)
			return nil
		}
	}
	return fault.ErrInvalidState
}

// Outcome - record of one round
type Outcome struct {
	Epoch      uint64                `json:"epoch"`
	Seed       digest.Seed           `json:"seed"`
	Target     uint32                `json:"target"`
	Difficulty uint32                `json:"difficulty"`
	Nonce      uint64                `json:"nonce"`
	Worker     int                   `json:"worker"`
	Landing    Landing               `json:"landing"`
	Reason     string                `json:"reason,omitempty"`
	Signature  transaction.Signature `json:"signature"`
	Slot       uint64                `json:"slot,omitempty"`
	Fee        uint64                `json:"fee"`
	Attempts   int                   `json:"attempts"`
	Reward     uint64                `json:"reward"`
	Hashes     uint64                `json:"hashes"`
	Rate       float64               `json:"rate"`
	Elapsed    time.Duration         `json:"elapsed"`
	Time       time.Time             `json:"time"`
}

// String - one line summary for the log
func (o Outcome) String() string {
	s := fmt.Sprintf("epoch: %d  %s  difficulty: %d/%d  hashes: %d  elapsed: %s", o.Epoch, o.Landing, o.Difficulty, o.Target, o.Hashes, o.Elapsed)
	if 0 != o.Attempts {
		s += fmt.Sprintf("  fee: %d  attempts: %d", o.Fee, o.Attempts)
	}
	if "" != o.Reason {
		s += "  reason: " + o.Reason
	}
	return s
}
