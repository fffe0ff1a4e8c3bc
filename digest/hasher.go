// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package digest

import (
	"encoding/binary"
	"strings"

	"github.com/bitmark-inc/go-argon2"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/proofminer/fault"
)

// NonceSize - bytes in an encoded nonce
const NonceSize = 8

// Hasher - the proof function H(seed, nonce)
//
// implementations must be deterministic and safe for concurrent use
type Hasher interface {
	Hash(seed Seed, nonce uint64) (Digest, error)
	Name() string
}

// names accepted by New
const (
	Argon2 = "argon2"
	SHA3   = "sha3"
)

// Argon2Parameters - cost settings for the argon2d hasher
type Argon2Parameters struct {
	Iterations  int `gluamapper:"iterations" json:"iterations"`
	Memory      int `gluamapper:"memory" json:"memory"` // KiB
	Parallelism int `gluamapper:"parallelism" json:"parallelism"`
}

// DefaultArgon2 - costs used when none are configured
var DefaultArgon2 = Argon2Parameters{
	Iterations:  1,
	Memory:      1 << 14, // 16 MiB
	Parallelism: 1,
}

// New - create a hasher by name
func New(name string, parameters Argon2Parameters) (Hasher, error) {
	switch strings.ToLower(name) {
	case Argon2, "":
		if parameters.Iterations <= 0 || parameters.Memory <= 0 || parameters.Parallelism <= 0 {
			parameters = DefaultArgon2
		}
		return &argon2Hasher{parameters: parameters}, nil
	case SHA3:
		return sha3Hasher{}, nil
	default:
		return nil, fault.ErrInvalidHasher
	}
}

// EncodeNonce - little endian nonce bytes
func EncodeNonce(nonce uint64) [NonceSize]byte {
	var b [NonceSize]byte
	binary.LittleEndian.PutUint64(b[:], nonce)
	return b
}

type argon2Hasher struct {
	parameters Argon2Parameters
}

// Hash - argon2d of the nonce salted with the seed
func (h *argon2Hasher) Hash(seed Seed, nonce uint64) (Digest, error) {
	context := &argon2.Context{
		Iterations:  h.parameters.Iterations,
		Memory:      h.parameters.Memory,
		Parallelism: h.parameters.Parallelism,
		HashLen:     Length,
		Mode:        argon2.ModeArgon2d,
		Version:     argon2.Version13,
	}

	n := EncodeNonce(nonce)
	hash, err := argon2.Hash(context, n[:], seed[:])
	if nil != err {
		return Digest{}, err
	}

	var d Digest
	copy(d[:], hash)
	return d, nil
}

func (h *argon2Hasher) Name() string {
	return Argon2
}

type sha3Hasher struct{}

// Hash - sha3-256 of seed followed by the nonce
func (sha3Hasher) Hash(seed Seed, nonce uint64) (Digest, error) {
	var buffer [Length + NonceSize]byte
	copy(buffer[:], seed[:])
	binary.LittleEndian.PutUint64(buffer[Length:], nonce)
	return Digest(sha3.Sum256(buffer[:])), nil
}

func (sha3Hasher) Name() string {
	return SHA3
}
