// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/zmqutil"
)

const (
	publisherPublicKeyFilename  = "proofminer.public"
	publisherPrivateKeyFilename = "proofminer.private"
)

// setup command handler
//
// commands that run to create key files these commands cannot access
// the history database or the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "generate-identity", "id":
		publicKeyFilename := getFilenameWithDirectory(arguments, publisherPublicKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, publisherPrivateKeyFilename)

		err := zmqutil.MakeKeyPair(publicKeyFilename, privateKeyFilename)
		if nil != err {
			fmt.Printf("cannot generate private key: %q and public key: %q\n", privateKeyFilename, publicKeyFilename)
			fmt.Printf("error generating publisher key pair: %v\n", err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated private key: %q and public key: %q\n", privateKeyFilename, publicKeyFilename)

	case "generate-keypair", "keygen":
		keypairFilename := getFilenameWithDirectory(arguments, defaultKeypairFile)

		publicKey, err := makeKeypair(keypairFilename)
		if nil != err {
			fmt.Printf("cannot generate keypair: %q  error: %s\n", keypairFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated keypair: %q\n", keypairFilename)
		fmt.Printf("signer: %s\n", publicKey)

	case "start", "run":
		return false // continue processing

	case "version", "v":
		fmt.Printf("%s\n", version)

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %v\n", command)
		}

		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  generate-identity [DIR]    (id)     - create private key in: %q\n", "DIR/"+publisherPrivateKeyFilename)
		fmt.Printf("                                        and the public key in: %q\n", "DIR/"+publisherPublicKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  generate-keypair [DIR]     (keygen) - create the signing keypair in: %q\n", "DIR/"+defaultKeypairFile)
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}
	return true
}

// an existing keypair is never overwritten
func makeKeypair(fileName string) (account.PublicKey, error) {
	if _, err := os.Stat(fileName); nil == err {
		return account.PublicKey{}, fault.ErrKeyFileAlreadyExists
	}

	keypair, err := account.NewKeypair()
	if nil != err {
		return account.PublicKey{}, err
	}
	if err := keypair.SaveKeypair(fileName); nil != err {
		return account.PublicKey{}, err
	}
	return keypair.PublicKey, nil
}

// get the working directory; if not set in the arguments
// it's set to the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
}
