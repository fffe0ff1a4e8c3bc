// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package submit lands a winning proof on chain
//
// Each attempt goes through:
//
//   Build   recent blockhash, bus, compute budget, mine instruction; signed
//   Priced  initial fee from the policy, escalated on every retry
//   Sent    broadcast then poll the signature until the confirm timeout
//
// and ends in one of:
//
//   Landed    confirmed on chain                       terminal
//   Rejected  claimed, bad signature, no funds, ...    terminal
//   Expired   timed out and the epoch has rotated      terminal
//   retry     stale blockhash, or timed out with the epoch unchanged
//
// Attempts are strictly sequential and each one is resolved before the
// next is built, so a winner never has two attempts in flight.  The
// signature is computed before sending, so a send that fails in
// transport is still resolved by looking the signature up.
package submit
