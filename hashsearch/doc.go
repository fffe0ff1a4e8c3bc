// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hashsearch splits the nonce space between workers, runs them
// until a deadline and reduces their results to one winner.
//
// Workers share nothing while hashing except a stop flag that only
// ever goes from clear to set, and each publishes its own progress
// in a slot that only it writes.  The best result is chosen once all
// workers have returned.
package hashsearch
