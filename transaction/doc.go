// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transaction builds and signs the proof submission
//
// Only the legacy message format is produced.  The layout is:
//
//   compact(n) signature[64]×n  message
//
// with the message being:
//
//   header[3]  compact(n) key[32]×n  blockhash[32]  compact(n) instruction×n
//
// and each instruction:
//
//   program-index  compact(n) account-index×n  compact(n) data
//
// compact integers use seven bits per byte, low bits first, with the
// top bit set on all but the last byte.
package transaction
