// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package submit

import (
	"time"

	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/transaction"
)

// State - progress of an attempt or of a whole landing
type State int

// states, Pending is the only non-terminal one
const (
	Pending State = iota
	Landed
	Rejected
	Expired
)

// String - for the fmt package
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Landed:
		return "landed"
	case Rejected:
		return "rejected"
	case Expired:
		return "expired"
	default:
		return "invalid"
	}
}

// MarshalText - state as text
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText - state from text
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "pending":
		*s = Pending
	case "landed":
		*s = Landed
	case "rejected":
		*s = Rejected
	case "expired":
		*s = Expired
	default:
		return fault.ErrInvalidState
	}
	return nil
}

// IsTerminal - true for anything but Pending
func (s State) IsTerminal() bool {
	return Pending != s
}

// Attempt - one signed transaction carrying the proof
//
// superseded by the next attempt on retry
type Attempt struct {
	Number    int                   `json:"number"`
	Fee       uint64                `json:"fee"`
	Blockhash transaction.Blockhash `json:"blockhash"`
	Signature transaction.Signature `json:"signature"`
	State     State                 `json:"state"`
	Reason    string                `json:"reason,omitempty"`
	SentAt    time.Time             `json:"sentAt"`
}

// Outcome - result of landing one winner
type Outcome struct {
	State     State                 `json:"state"`
	Reason    error                 `json:"-"`
	Signature transaction.Signature `json:"signature"`
	Slot      uint64                `json:"slot"`
	Fee       uint64                `json:"fee"`
	Attempts  []Attempt             `json:"attempts"`
}

// String - the reason for the fmt package
func (o Outcome) String() string {
	if nil == o.Reason {
		return o.State.String()
	}
	return o.State.String() + ": " + o.Reason.Error()
}
