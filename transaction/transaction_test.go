// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction_test

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/digest"
	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/transaction"
)

var (
	programID = account.PublicKey{0xa0}
	config    = account.PublicKey{0xa1}
	proof     = account.PublicKey{0xa2}
	bus       = account.PublicKey{0xa3}
	blockhash = transaction.Blockhash{0xbb}
)

func testProgram() transaction.Program {
	return transaction.Program{
		ID:            programID,
		Config:        config,
		Proof:         proof,
		ResetAccounts: []account.PublicKey{bus},
		MineTag:       2,
		ResetTag:      1,
	}
}

func TestComputeBudget(t *testing.T) {
	limit := transaction.SetComputeUnitLimit(600000)
	assert.Equal(t, account.ComputeBudgetProgram, limit.ProgramID, "wrong program")
	assert.Equal(t, byte(2), limit.Data[0], "wrong tag")
	assert.Equal(t, uint32(600000), binary.LittleEndian.Uint32(limit.Data[1:]), "wrong units")

	price := transaction.SetComputeUnitPrice(25000)
	assert.Equal(t, byte(3), price.Data[0], "wrong tag")
	assert.Equal(t, uint64(25000), binary.LittleEndian.Uint64(price.Data[1:]), "wrong price")
}

func TestMineInstruction(t *testing.T) {
	signer := account.PublicKey{0x01}
	d := digest.Digest{0x00, 0x00, 0x3f}

	ix := testProgram().Mine(signer, bus, d, 0x0102)
	assert.Equal(t, programID, ix.ProgramID, "wrong program")
	assert.Equal(t, 1+digest.Length+digest.NonceSize, len(ix.Data), "wrong data length")
	assert.Equal(t, byte(2), ix.Data[0], "wrong tag")
	assert.Equal(t, d[:], ix.Data[1:1+digest.Length], "wrong digest")
	assert.Equal(t, uint64(0x0102), binary.LittleEndian.Uint64(ix.Data[1+digest.Length:]), "wrong nonce")

	assert.Equal(t, signer, ix.Accounts[0].PublicKey, "signer first")
	assert.True(t, ix.Accounts[0].IsSigner, "signer must sign")
	assert.Equal(t, bus, ix.Accounts[1].PublicKey, "bus second")
	assert.True(t, ix.Accounts[3].IsWritable, "proof is written")
}

func TestResetInstruction(t *testing.T) {
	signer := account.PublicKey{0x01}
	ix := testProgram().Reset(signer)
	assert.Equal(t, []byte{1}, ix.Data, "wrong data")
	assert.Equal(t, 3, len(ix.Accounts), "wrong account count")
	assert.Equal(t, bus, ix.Accounts[2].PublicKey, "reset account missing")
}

func TestNewMessageOrdering(t *testing.T) {
	signer := account.PublicKey{0x01}
	instructions := []transaction.Instruction{
		transaction.SetComputeUnitLimit(500000),
		transaction.SetComputeUnitPrice(10000),
		testProgram().Mine(signer, bus, digest.Digest{}, 7),
	}

	m, err := transaction.NewMessage(signer, instructions, blockhash)
	assert.Nil(t, err, "new message")

	assert.Equal(t, transaction.Header{
		RequiredSignatures: 1,
		ReadonlySigned:     0,
		ReadonlyUnsigned:   5,
	}, m.Header, "wrong header")

	expected := []account.PublicKey{
		signer,
		bus,
		proof,
		account.ComputeBudgetProgram,
		config,
		account.InstructionsSysvar,
		account.SlotHashesSysvar,
		programID,
	}
	assert.Equal(t, expected, m.AccountKeys, "wrong key order")
	assert.Equal(t, []account.PublicKey{signer}, m.Signers(), "wrong signers")

	assert.Equal(t, 3, len(m.Instructions), "wrong instruction count")
	assert.Equal(t, uint8(3), m.Instructions[0].ProgramIndex, "compute budget index")
	assert.Equal(t, uint8(7), m.Instructions[2].ProgramIndex, "program index")
	assert.Equal(t, []uint8{0, 1, 4, 2, 5, 6}, m.Instructions[2].Accounts, "mine account indexes")
}

func TestNewMessageNeedsBlockhash(t *testing.T) {
	_, err := transaction.NewMessage(account.PublicKey{0x01}, nil, transaction.Blockhash{})
	assert.Equal(t, fault.ErrInvalidBlockhash, err, "zero blockhash accepted")
}

func TestSign(t *testing.T) {
	k, err := account.NewKeypair()
	assert.Nil(t, err, "keypair")

	m, err := transaction.NewMessage(k.PublicKey, []transaction.Instruction{
		transaction.SetComputeUnitPrice(1),
		testProgram().Mine(k.PublicKey, bus, digest.Digest{0x01}, 99),
	}, blockhash)
	assert.Nil(t, err, "new message")

	tx, err := transaction.Sign(m, k)
	assert.Nil(t, err, "sign")
	assert.Equal(t, 1, len(tx.Signatures), "one signature")
	assert.False(t, tx.ID().IsZero(), "signature must be known before sending")
	assert.Nil(t, tx.Verify(), "signature does not verify")

	packed := tx.Pack()
	assert.Equal(t, byte(1), packed[0], "signature count")
	assert.Equal(t, tx.ID().String(), transaction.Signature(tx.Signatures[0]).String(), "id is the first signature")

	decoded, err := base64.StdEncoding.DecodeString(tx.Base64())
	assert.Nil(t, err, "base64")
	assert.Equal(t, packed, decoded, "base64 changed the bytes")

	again, err := transaction.Sign(m, k)
	assert.Nil(t, err, "sign again")
	assert.Equal(t, tx.ID(), again.ID(), "ed25519 signing is deterministic")
}

func TestSignMissingKey(t *testing.T) {
	k, _ := account.NewKeypair()
	other, _ := account.NewKeypair()

	m, err := transaction.NewMessage(k.PublicKey, nil, blockhash)
	assert.Nil(t, err, "new message")

	_, err = transaction.Sign(m, other)
	assert.Equal(t, fault.ErrInvalidKeypair, err, "wrong signer accepted")
}

func TestSignTooLarge(t *testing.T) {
	k, _ := account.NewKeypair()
	big := transaction.Instruction{
		ProgramID: programID,
		Data:      make([]byte, transaction.MaximumSize),
	}
	m, err := transaction.NewMessage(k.PublicKey, []transaction.Instruction{big}, blockhash)
	assert.Nil(t, err, "new message")

	_, err = transaction.Sign(m, k)
	assert.Equal(t, fault.ErrTransactionTooLarge, err, "oversize transaction accepted")
}

func TestParse(t *testing.T) {
	h, err := transaction.ParseBlockhash(blockhash.String())
	assert.Nil(t, err, "parse blockhash")
	assert.Equal(t, blockhash, h, "blockhash changed")

	_, err = transaction.ParseBlockhash("xyz")
	assert.Equal(t, fault.ErrInvalidBlockhash, err, "short blockhash accepted")

	s := transaction.Signature{0x01, 0x02}
	parsed, err := transaction.ParseSignature(s.String())
	assert.Nil(t, err, "parse signature")
	assert.Equal(t, s, parsed, "signature changed")

	_, err = transaction.ParseSignature("0")
	assert.Equal(t, fault.ErrInvalidSignatureText, err, "bad signature accepted")
}
