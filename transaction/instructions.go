// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"encoding/binary"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/digest"
)

// compute budget instruction tags
const (
	setComputeUnitLimitTag = 2
	setComputeUnitPriceTag = 3
)

// compute units requested
const (
	MineComputeUnits  = 500000
	ResetComputeUnits = 100000
)

// SetComputeUnitLimit - cap the compute units the transaction may use
func SetComputeUnitLimit(units uint32) Instruction {
	data := make([]byte, 5)
	data[0] = setComputeUnitLimitTag
	binary.LittleEndian.PutUint32(data[1:], units)
	return Instruction{
		ProgramID: account.ComputeBudgetProgram,
		Data:      data,
	}
}

// SetComputeUnitPrice - priority fee in micro-lamports per compute unit
func SetComputeUnitPrice(price uint64) Instruction {
	data := make([]byte, 9)
	data[0] = setComputeUnitPriceTag
	binary.LittleEndian.PutUint64(data[1:], price)
	return Instruction{
		ProgramID: account.ComputeBudgetProgram,
		Data:      data,
	}
}

// Program - addresses and tags of the mining program
type Program struct {
	ID            account.PublicKey
	Config        account.PublicKey
	Proof         account.PublicKey
	ResetAccounts []account.PublicKey // writable accounts the reset touches
	MineTag       byte
	ResetTag      byte
}

// Mine - submit a digest and nonce against a bus
//
// data: tag  digest[32]  nonce[8 little endian]
func (p Program) Mine(signer account.PublicKey, bus account.PublicKey, d digest.Digest, nonce uint64) Instruction {
	data := make([]byte, 0, 1+digest.Length+digest.NonceSize)
	data = append(data, p.MineTag)
	data = append(data, d[:]...)
	n := digest.EncodeNonce(nonce)
	data = append(data, n[:]...)

	return Instruction{
		ProgramID: p.ID,
		Accounts: []AccountMeta{
			{PublicKey: signer, IsSigner: true, IsWritable: true},
			{PublicKey: bus, IsWritable: true},
			{PublicKey: p.Config},
			{PublicKey: p.Proof, IsWritable: true},
			{PublicKey: account.InstructionsSysvar},
			{PublicKey: account.SlotHashesSysvar},
		},
		Data: data,
	}
}

// Reset - start the program's next reward period
func (p Program) Reset(signer account.PublicKey) Instruction {
	accounts := []AccountMeta{
		{PublicKey: signer, IsSigner: true, IsWritable: true},
		{PublicKey: p.Config, IsWritable: true},
	}
	for _, key := range p.ResetAccounts {
		accounts = append(accounts, AccountMeta{PublicKey: key, IsWritable: true})
	}
	return Instruction{
		ProgramID: p.ID,
		Accounts:  accounts,
		Data:      []byte{p.ResetTag},
	}
}
