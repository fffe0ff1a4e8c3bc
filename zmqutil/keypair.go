// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2018 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"encoding/hex"
	"io/ioutil"
	"os"
	"strings"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/util"
)

// key files hold a tag followed by the hex of the raw 32 byte key
const (
	taggedPublic  = "PUBLIC:"
	taggedPrivate = "PRIVATE:"
	keyLength     = 32
)

// MakeKeyPair - create a CURVE keypair and write the halves to
// separate files, neither file may already exist
func MakeKeyPair(publicKeyFileName string, privateKeyFileName string) error {
	if util.EnsureFileExists(publicKeyFileName) || util.EnsureFileExists(privateKeyFileName) {
		return fault.ErrKeyFileAlreadyExists
	}

	// zmq returns Z85 text, the files carry the raw key as hex
	publicKey, privateKey, err := zmq.NewCurveKeypair()
	if nil != err {
		return err
	}

	public := taggedPublic + hex.EncodeToString([]byte(zmq.Z85decode(publicKey))) + "\n"
	private := taggedPrivate + hex.EncodeToString([]byte(zmq.Z85decode(privateKey))) + "\n"

	if err := ioutil.WriteFile(publicKeyFileName, []byte(public), 0666); nil != err {
		return err
	}
	if err := ioutil.WriteFile(privateKeyFileName, []byte(private), 0600); nil != err {
		os.Remove(publicKeyFileName)
		return err
	}
	return nil
}

// ReadPublicKeyFile - read a tagged public key file
func ReadPublicKeyFile(name string) ([]byte, error) {
	return readKeyFile(name, false)
}

// ReadPrivateKeyFile - read a tagged private key file
func ReadPrivateKeyFile(name string) ([]byte, error) {
	return readKeyFile(name, true)
}

func readKeyFile(name string, private bool) ([]byte, error) {
	data, err := ioutil.ReadFile(name)
	if nil != err {
		return nil, err
	}
	key, isPrivate, err := ParseKey(string(data))
	if nil != err {
		return nil, err
	}
	switch {
	case private && !isPrivate:
		return nil, fault.ErrInvalidPrivateKeyFile
	case !private && isPrivate:
		return nil, fault.ErrInvalidPublicKeyFile
	}
	return key, nil
}

// ParseKey - decode tagged key text, also reporting if it is private
func ParseKey(data string) ([]byte, bool, error) {
	s := strings.TrimSpace(data)

	tag, private, invalid := taggedPublic, false, fault.ErrInvalidPublicKeyFile
	if strings.HasPrefix(s, taggedPrivate) {
		tag, private, invalid = taggedPrivate, true, fault.ErrInvalidPrivateKeyFile
	} else if !strings.HasPrefix(s, taggedPublic) {
		return nil, false, fault.ErrInvalidPublicKeyFile
	}

	h, err := hex.DecodeString(s[len(tag):])
	if nil != err || keyLength != len(h) {
		return nil, false, invalid
	}
	return h, private, nil
}
