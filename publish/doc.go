// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish broadcasts round outcomes on ZeroMQ PUB sockets
//
// each message has three frames:
//   "outcome"
//   landing name (e.g. "landed")
//   JSON encoded outcome
//
// subscribers can filter on the first frame
package publish
