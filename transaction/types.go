// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"github.com/mr-tron/base58"

	"github.com/bitmark-inc/proofminer/fault"
)

// sizes
const (
	BlockhashSize = 32
	SignatureSize = 64
)

// Blockhash - recent network reference that limits a transaction's life
type Blockhash [BlockhashSize]byte

// Signature - ed25519 signature, the first one also names the transaction
type Signature [SignatureSize]byte

// ParseBlockhash - decode a base58 blockhash
func ParseBlockhash(s string) (Blockhash, error) {
	var h Blockhash
	b, err := base58.Decode(s)
	if nil != err || BlockhashSize != len(b) {
		return h, fault.ErrInvalidBlockhash
	}
	copy(h[:], b)
	return h, nil
}

// String - base58 for the fmt package (%s)
func (h Blockhash) String() string {
	return base58.Encode(h[:])
}

// IsZero - true if not set
func (h Blockhash) IsZero() bool {
	return Blockhash{} == h
}

// MarshalText - convert to base58 text
func (h Blockhash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText - convert from base58 text
func (h *Blockhash) UnmarshalText(b []byte) error {
	v, err := ParseBlockhash(string(b))
	if nil != err {
		return err
	}
	*h = v
	return nil
}

// ParseSignature - decode a base58 signature
func ParseSignature(s string) (Signature, error) {
	var sig Signature
	b, err := base58.Decode(s)
	if nil != err || SignatureSize != len(b) {
		return sig, fault.ErrInvalidSignatureText
	}
	copy(sig[:], b)
	return sig, nil
}

// String - base58 for the fmt package (%s)
func (s Signature) String() string {
	return base58.Encode(s[:])
}

// IsZero - true if not set
func (s Signature) IsZero() bool {
	return Signature{} == s
}

// MarshalText - convert to base58 text
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText - convert from base58 text
func (s *Signature) UnmarshalText(b []byte) error {
	v, err := ParseSignature(string(b))
	if nil != err {
		return err
	}
	*s = v
	return nil
}
