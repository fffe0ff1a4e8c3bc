// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"encoding/base64"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/fault"
)

// Transaction - a signed message
type Transaction struct {
	Signatures []Signature
	Message    *Message
}

// Sign - sign a message with every required key
//
// the first signature identifies the transaction, so it is known
// before anything is sent
func Sign(m *Message, signers ...*account.Keypair) (*Transaction, error) {
	byKey := make(map[account.PublicKey]*account.Keypair, len(signers))
	for _, k := range signers {
		byKey[k.PublicKey] = k
	}

	message := m.Pack()
	tx := &Transaction{
		Message: m,
	}
	for _, key := range m.Signers() {
		k, ok := byKey[key]
		if !ok {
			return nil, fault.ErrInvalidKeypair
		}
		var s Signature
		copy(s[:], k.Sign(message))
		tx.Signatures = append(tx.Signatures, s)
	}

	if len(tx.Pack()) > MaximumSize {
		return nil, fault.ErrTransactionTooLarge
	}
	return tx, nil
}

// ID - the first signature
func (tx *Transaction) ID() Signature {
	if 0 == len(tx.Signatures) {
		return Signature{}
	}
	return tx.Signatures[0]
}

// Verify - check every signature against its key
func (tx *Transaction) Verify() error {
	message := tx.Message.Pack()
	signers := tx.Message.Signers()
	if len(signers) != len(tx.Signatures) {
		return fault.ErrInvalidSignature
	}
	for i, key := range signers {
		if !ed25519.Verify(ed25519.PublicKey(key[:]), message, tx.Signatures[i][:]) {
			return fault.ErrInvalidSignature
		}
	}
	return nil
}

// Pack - wire form of the transaction
func (tx *Transaction) Pack() []byte {
	message := tx.Message.Pack()
	buffer := make([]byte, 0, compactMaximumBytes+len(tx.Signatures)*SignatureSize+len(message))
	buffer = appendCompact(buffer, len(tx.Signatures))
	for _, s := range tx.Signatures {
		buffer = append(buffer, s[:]...)
	}
	return append(buffer, message...)
}

// Base64 - encoded wire form for submission
func (tx *Transaction) Base64() string {
	return base64.StdEncoding.EncodeToString(tx.Pack())
}
