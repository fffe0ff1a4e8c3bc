// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc is a JSON-RPC 2.0 client for the chain node
//
// Every call is rate limited and bounded by a timeout.  Failures are
// classified with the fault package:
//
//   RemoteError    transport failures, timeouts, throttling, node lag
//   StaleError     the blockhash used is no longer recognised
//   RejectedError  bad signature, no funds for the fee, program errors
//
// so callers can tell what is worth retrying.
package rpc
