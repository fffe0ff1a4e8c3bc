// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"github.com/mr-tron/base58"

	"github.com/bitmark-inc/proofminer/fault"
)

// PublicKeySize - bytes in an on-chain address
const PublicKeySize = 32

// PublicKey - an on-chain address, printed as base58
type PublicKey [PublicKeySize]byte

// well known program addresses
var (
	SystemProgram        = MustParse("11111111111111111111111111111111")
	ComputeBudgetProgram = MustParse("ComputeBudget111111111111111111111111111111")
	ClockSysvar          = MustParse("SysvarC1ock11111111111111111111111111111111")
	SlotHashesSysvar     = MustParse("SysvarS1otHashes111111111111111111111111111")
	InstructionsSysvar   = MustParse("Sysvar1nstructions1111111111111111111111111")
)

// Parse - decode a base58 address
func Parse(s string) (PublicKey, error) {
	var key PublicKey
	b, err := base58.Decode(s)
	if nil != err {
		return key, fault.ErrInvalidAccountKey
	}
	if PublicKeySize != len(b) {
		return key, fault.ErrInvalidAccountKey
	}
	copy(key[:], b)
	return key, nil
}

// MustParse - decode a constant address, panics if invalid
func MustParse(s string) PublicKey {
	key, err := Parse(s)
	if nil != err {
		panic("invalid address: " + s)
	}
	return key
}

// ParseList - decode several addresses, failing on the first bad one
func ParseList(list []string) ([]PublicKey, error) {
	keys := make([]PublicKey, 0, len(list))
	for _, s := range list {
		key, err := Parse(s)
		if nil != err {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// FromBytes - convert and validate a byte slice to a public key
func FromBytes(b []byte) (PublicKey, error) {
	var key PublicKey
	if PublicKeySize != len(b) {
		return key, fault.ErrInvalidAccountKey
	}
	copy(key[:], b)
	return key, nil
}

// IsZero - true for the all-zero key
func (key PublicKey) IsZero() bool {
	return PublicKey{} == key
}

// String - base58 for the fmt package (%s)
func (key PublicKey) String() string {
	return base58.Encode(key[:])
}

// GoString - tagged base58 for the fmt package (%#v)
func (key PublicKey) GoString() string {
	return "<Account:" + key.String() + ">"
}

// MarshalText - convert key to base58 text
func (key PublicKey) MarshalText() ([]byte, error) {
	return []byte(key.String()), nil
}

// UnmarshalText - convert base58 text to a key
func (key *PublicKey) UnmarshalText(s []byte) error {
	k, err := Parse(string(s))
	if nil != err {
		return err
	}
	*key = k
	return nil
}
