// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Inspection tool for the proof miner
//
// Measures the local hash rate, reads the challenge now in force
// along with the bus and proof accounts behind it, lists the rounds
// recorded by a running miner and prints the reward table.  Nothing
// is ever submitted to the chain.
package main
