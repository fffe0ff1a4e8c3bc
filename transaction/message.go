// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/fault"
)

// limits of the legacy format
const (
	MaximumSize     = 1232
	maximumAccounts = 256
)

// AccountMeta - an account referenced by an instruction
type AccountMeta struct {
	PublicKey  account.PublicKey
	IsSigner   bool
	IsWritable bool
}

// Instruction - a program call before compilation
type Instruction struct {
	ProgramID account.PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// Header - counts that classify the account keys
type Header struct {
	RequiredSignatures uint8
	ReadonlySigned     uint8
	ReadonlyUnsigned   uint8
}

// CompiledInstruction - an instruction with accounts as key indexes
type CompiledInstruction struct {
	ProgramIndex uint8
	Accounts     []uint8
	Data         []byte
}

// Message - the signed part of a transaction
type Message struct {
	Header          Header
	AccountKeys     []account.PublicKey
	RecentBlockhash Blockhash
	Instructions    []CompiledInstruction
}

type keyFlags struct {
	signer   bool
	writable bool
}

// NewMessage - compile instructions for a fee payer
//
// keys are ordered writable signers, readonly signers, writable
// others, readonly others; the payer is always first
func NewMessage(payer account.PublicKey, instructions []Instruction, blockhash Blockhash) (*Message, error) {
	if blockhash.IsZero() {
		return nil, fault.ErrInvalidBlockhash
	}

	order := []account.PublicKey{payer}
	flags := map[account.PublicKey]*keyFlags{
		payer: {signer: true, writable: true},
	}
	add := func(key account.PublicKey, signer bool, writable bool) {
		f, ok := flags[key]
		if !ok {
			f = &keyFlags{}
			flags[key] = f
			order = append(order, key)
		}
		f.signer = f.signer || signer
		f.writable = f.writable || writable
	}
	for _, ix := range instructions {
		for _, meta := range ix.Accounts {
			add(meta.PublicKey, meta.IsSigner, meta.IsWritable)
		}
		add(ix.ProgramID, false, false)
	}

	if len(order) > maximumAccounts {
		return nil, fault.ErrTooManyInstructions
	}

	keys := make([]account.PublicKey, 0, len(order))
	for _, class := range []keyFlags{
		{signer: true, writable: true},
		{signer: true, writable: false},
		{signer: false, writable: true},
		{signer: false, writable: false},
	} {
		for _, key := range order {
			if *flags[key] == class {
				keys = append(keys, key)
			}
		}
	}

	m := &Message{
		AccountKeys:     keys,
		RecentBlockhash: blockhash,
	}
	index := make(map[account.PublicKey]uint8, len(keys))
	for i, key := range keys {
		index[key] = uint8(i)
		f := flags[key]
		switch {
		case f.signer && !f.writable:
			m.Header.RequiredSignatures += 1
			m.Header.ReadonlySigned += 1
		case f.signer:
			m.Header.RequiredSignatures += 1
		case !f.writable:
			m.Header.ReadonlyUnsigned += 1
		}
	}

	for _, ix := range instructions {
		c := CompiledInstruction{
			ProgramIndex: index[ix.ProgramID],
			Accounts:     make([]uint8, len(ix.Accounts)),
			Data:         ix.Data,
		}
		for i, meta := range ix.Accounts {
			c.Accounts[i] = index[meta.PublicKey]
		}
		m.Instructions = append(m.Instructions, c)
	}
	return m, nil
}

// Signers - keys that must sign, in order
func (m *Message) Signers() []account.PublicKey {
	return m.AccountKeys[:m.Header.RequiredSignatures]
}

// Pack - serialise the message for signing
func (m *Message) Pack() []byte {
	buffer := make([]byte, 0, MaximumSize)
	buffer = append(buffer, m.Header.RequiredSignatures, m.Header.ReadonlySigned, m.Header.ReadonlyUnsigned)

	buffer = appendCompact(buffer, len(m.AccountKeys))
	for _, key := range m.AccountKeys {
		buffer = append(buffer, key[:]...)
	}

	buffer = append(buffer, m.RecentBlockhash[:]...)

	buffer = appendCompact(buffer, len(m.Instructions))
	for _, ix := range m.Instructions {
		buffer = append(buffer, ix.ProgramIndex)
		buffer = appendCompact(buffer, len(ix.Accounts))
		buffer = append(buffer, ix.Accounts...)
		buffer = appendCompact(buffer, len(ix.Data))
		buffer = append(buffer, ix.Data...)
	}
	return buffer
}
