// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package challenge

import (
	"encoding/binary"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/digest"
	"github.com/bitmark-inc/proofminer/fault"
)

// all program accounts start with an 8 byte discriminator and are
// little endian after that
const discriminatorSize = 8

// account sizes
const (
	ProofSize  = discriminatorSize + 32 + 8 + 32 + 32 + 8 + 8 + 32 + 8 + 8
	ConfigSize = discriminatorSize + 8 + 8 + 8 + 8
	BusSize    = discriminatorSize + 8 + 8 + 8 + 8
	ClockSize  = 40
)

// Proof - the miner's proof account
type Proof struct {
	Authority    account.PublicKey
	Balance      uint64
	Challenge    digest.Seed
	LastHash     digest.Digest
	LastHashAt   int64
	LastStakeAt  int64
	Miner        account.PublicKey
	TotalHashes  uint64
	TotalRewards uint64
}

// Config - the program's global settings
type Config struct {
	BaseRewardRate uint64
	LastResetAt    int64
	MinDifficulty  uint64
	TopBalance     uint64
}

// Bus - one of the reward distribution accounts
type Bus struct {
	ID                 uint64
	Rewards            uint64
	TheoreticalRewards uint64
	TopBalance         uint64
}

// Clock - the chain clock sysvar
type Clock struct {
	Slot          uint64
	UnixTimestamp int64
}

type reader struct {
	buffer []byte
	offset int
}

func (r *reader) skip(n int) {
	r.offset += n
}

func (r *reader) uint64() uint64 {
	v := binary.LittleEndian.Uint64(r.buffer[r.offset:])
	r.offset += 8
	return v
}

func (r *reader) int64() int64 {
	return int64(r.uint64())
}

func (r *reader) bytes(dst []byte) {
	copy(dst, r.buffer[r.offset:r.offset+len(dst)])
	r.offset += len(dst)
}

// DecodeProof - unpack proof account data
func DecodeProof(data []byte) (*Proof, error) {
	if len(data) < ProofSize {
		return nil, fault.ErrAccountDataTooShort
	}
	r := &reader{buffer: data}
	r.skip(discriminatorSize)

	p := &Proof{}
	r.bytes(p.Authority[:])
	p.Balance = r.uint64()
	r.bytes(p.Challenge[:])
	r.bytes(p.LastHash[:])
	p.LastHashAt = r.int64()
	p.LastStakeAt = r.int64()
	r.bytes(p.Miner[:])
	p.TotalHashes = r.uint64()
	p.TotalRewards = r.uint64()
	return p, nil
}

// DecodeConfig - unpack config account data
func DecodeConfig(data []byte) (*Config, error) {
	if len(data) < ConfigSize {
		return nil, fault.ErrAccountDataTooShort
	}
	r := &reader{buffer: data}
	r.skip(discriminatorSize)

	return &Config{
		BaseRewardRate: r.uint64(),
		LastResetAt:    r.int64(),
		MinDifficulty:  r.uint64(),
		TopBalance:     r.uint64(),
	}, nil
}

// DecodeBus - unpack bus account data
func DecodeBus(data []byte) (*Bus, error) {
	if len(data) < BusSize {
		return nil, fault.ErrAccountDataTooShort
	}
	r := &reader{buffer: data}
	r.skip(discriminatorSize)

	return &Bus{
		ID:                 r.uint64(),
		Rewards:            r.uint64(),
		TheoreticalRewards: r.uint64(),
		TopBalance:         r.uint64(),
	}, nil
}

// DecodeClock - unpack the clock sysvar
func DecodeClock(data []byte) (*Clock, error) {
	if len(data) < ClockSize {
		return nil, fault.ErrAccountDataTooShort
	}
	r := &reader{buffer: data}
	c := &Clock{
		Slot: r.uint64(),
	}
	r.skip(24) // epoch start, epoch, leader schedule epoch
	c.UnixTimestamp = r.int64()
	return c, nil
}

type writer struct {
	buffer []byte
}

func newWriter(size int) *writer {
	return &writer{buffer: make([]byte, discriminatorSize, size)}
}

func (w *writer) uint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buffer = append(w.buffer, b[:]...)
}

func (w *writer) bytes(b []byte) {
	w.buffer = append(w.buffer, b...)
}

// Pack - account data form of a proof, with a zero discriminator
func (p *Proof) Pack() []byte {
	w := newWriter(ProofSize)
	w.bytes(p.Authority[:])
	w.uint64(p.Balance)
	w.bytes(p.Challenge[:])
	w.bytes(p.LastHash[:])
	w.uint64(uint64(p.LastHashAt))
	w.uint64(uint64(p.LastStakeAt))
	w.bytes(p.Miner[:])
	w.uint64(p.TotalHashes)
	w.uint64(p.TotalRewards)
	return w.buffer
}

// Pack - account data form of a config, with a zero discriminator
func (c *Config) Pack() []byte {
	w := newWriter(ConfigSize)
	w.uint64(c.BaseRewardRate)
	w.uint64(uint64(c.LastResetAt))
	w.uint64(c.MinDifficulty)
	w.uint64(c.TopBalance)
	return w.buffer
}

// Pack - account data form of a bus, with a zero discriminator
func (b *Bus) Pack() []byte {
	w := newWriter(BusSize)
	w.uint64(b.ID)
	w.uint64(b.Rewards)
	w.uint64(b.TheoreticalRewards)
	w.uint64(b.TopBalance)
	return w.buffer
}

// Pack - sysvar form of a clock
func (c *Clock) Pack() []byte {
	w := &writer{buffer: make([]byte, 0, ClockSize)}
	w.uint64(c.Slot)
	w.bytes(make([]byte, 24))
	w.uint64(uint64(c.UnixTimestamp))
	return w.buffer
}
