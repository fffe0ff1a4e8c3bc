// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

// Confirmation - how far the network has progressed a transaction
type Confirmation int

// confirmation levels in increasing order
const (
	Unknown Confirmation = iota
	Processed
	Confirmed
	Finalized
)

// ParseConfirmation - convert the network's name for a level
func ParseConfirmation(s string) Confirmation {
	switch s {
	case "processed":
		return Processed
	case "confirmed":
		return Confirmed
	case "finalized":
		return Finalized
	default:
		return Unknown
	}
}

// String - for the fmt package
func (c Confirmation) String() string {
	switch c {
	case Processed:
		return "processed"
	case Confirmed:
		return "confirmed"
	case Finalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Status - what the network knows about a signature
//
// a zero Status means the signature has not been seen; Err is set
// when the transaction was included but failed
type Status struct {
	Slot         uint64
	Confirmation Confirmation
	Err          error
}

// IsLanded - included, succeeded and at least confirmed
func (s Status) IsLanded() bool {
	return nil == s.Err && s.Confirmation >= Confirmed
}

// IsFailed - included but failed
func (s Status) IsFailed() bool {
	return nil != s.Err
}
