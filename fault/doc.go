// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.  Each class of
// error decides how the miner reacts: configuration errors stop the
// process, remote errors are retried with backoff, stale errors are
// retried by the submitter, rotated rounds are abandoned and rejected
// rounds are lost.
package fault
