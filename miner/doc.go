// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package miner drives mining rounds
//
// a round reads the challenge, searches until the deadline while
// watching for rotation, lands the winner and reports an Outcome to
// every configured sink; a lost round never stops the loop
package miner
