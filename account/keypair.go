// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"crypto/rand"
	"encoding/json"
	"io/ioutil"
	"os"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/proofminer/fault"
)

// Keypair - signing key for the miner
//
// the file form is a JSON array of the 64 private key bytes, the
// format written by the usual wallet tools
type Keypair struct {
	PublicKey  PublicKey
	PrivateKey ed25519.PrivateKey
}

// NewKeypair - create a random keypair
func NewKeypair() (*Keypair, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if nil != err {
		return nil, err
	}
	return keypairFrom(publicKey, privateKey)
}

// KeypairFromPrivateKey - rebuild a keypair from its 64 byte private key
func KeypairFromPrivateKey(privateKey []byte) (*Keypair, error) {
	if ed25519.PrivateKeySize != len(privateKey) {
		return nil, fault.ErrInvalidKeypair
	}
	k := ed25519.NewKeyFromSeed(privateKey[:ed25519.SeedSize])
	if string(k) != string(privateKey) {
		return nil, fault.ErrInvalidKeypair
	}
	return keypairFrom(k.Public().(ed25519.PublicKey), k)
}

func keypairFrom(publicKey ed25519.PublicKey, privateKey ed25519.PrivateKey) (*Keypair, error) {
	key, err := FromBytes(publicKey)
	if nil != err {
		return nil, err
	}
	return &Keypair{
		PublicKey:  key,
		PrivateKey: privateKey,
	}, nil
}

// Sign - ed25519 signature of a message
func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.PrivateKey, message)
}

// LoadKeypair - read a keypair file
func LoadKeypair(fileName string) (*Keypair, error) {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	var b []byte
	var values []int
	err = json.Unmarshal(data, &values)
	if nil != err {
		return nil, fault.ErrInvalidKeypair
	}
	for _, v := range values {
		if v < 0 || v > 255 {
			return nil, fault.ErrInvalidKeypair
		}
		b = append(b, byte(v))
	}
	return KeypairFromPrivateKey(b)
}

// SaveKeypair - write a keypair file readable only by its owner
//
// an existing file is never overwritten
func (k *Keypair) SaveKeypair(fileName string) error {
	values := make([]int, len(k.PrivateKey))
	for i, b := range k.PrivateKey {
		values[i] = int(b)
	}
	data, err := json.Marshal(values)
	if nil != err {
		return err
	}

	f, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if nil != err {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}
