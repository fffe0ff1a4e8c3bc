// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package digest

import (
	"encoding/hex"

	"github.com/bitmark-inc/proofminer/fault"
)

// Length - number of bytes in a digest or a seed
const Length = 32

// Digest - output of the proof hash
//
// byte 0 is the most significant, so leading zero bits are counted
// from the start of the array
type Digest [Length]byte

// Seed - the challenge bytes issued by the program
type Seed [Length]byte

// String - hex for the fmt package (%s)
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// GoString - tagged hex for the fmt package (%#v)
func (digest Digest) GoString() string {
	return "<Digest:" + hex.EncodeToString(digest[:]) + ">"
}

// MarshalText - convert digest to hex text
func (digest Digest) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(len(digest)))
	hex.Encode(buffer, digest[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	return fromHex(digest[:], s)
}

// String - hex for the fmt package (%s)
func (seed Seed) String() string {
	return hex.EncodeToString(seed[:])
}

// MarshalText - convert seed to hex text
func (seed Seed) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(len(seed)))
	hex.Encode(buffer, seed[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a seed
func (seed *Seed) UnmarshalText(s []byte) error {
	return fromHex(seed[:], s)
}

// FromBytes - convert and validate a byte slice to a digest
func FromBytes(digest *Digest, buffer []byte) error {
	if Length != len(buffer) {
		return fault.ErrInvalidCount
	}
	copy(digest[:], buffer)
	return nil
}

func fromHex(dst []byte, s []byte) error {
	if hex.EncodedLen(Length) != len(s) {
		return fault.ErrInvalidCount
	}
	_, err := hex.Decode(dst, s)
	return err
}
