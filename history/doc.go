// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package history keeps round outcomes in a LevelDB database
//
// keys:
//   'V'                          database version (4 byte big endian)
//   'o' epoch:8 time:8           JSON encoded outcome
//   'S'                          JSON encoded totals
package history
