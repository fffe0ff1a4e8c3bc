// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package challenge reads the puzzle currently issued by the on-chain
// program and detects when it rotates.
//
// An epoch is identified by the proof account's last hash time, which
// the program strictly increases every time a new challenge is issued
// for the miner.  Rotation is only ever detected by comparing epoch
// identifiers, never from the wall clock.
package challenge
