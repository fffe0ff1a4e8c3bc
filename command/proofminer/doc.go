// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Proof-of-work mining program
//
// This program reads the current challenge from the on-chain program,
// searches the nonce space on all configured threads until the round
// deadline and submits the best proof found, retrying with a higher
// priority fee until it lands, is rejected or the epoch rotates.
package main
