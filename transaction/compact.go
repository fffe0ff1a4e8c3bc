// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

// maximum bytes in a compact length
const compactMaximumBytes = 3

// appendCompact - append a 16 bit length in compact form
func appendCompact(buffer []byte, n int) []byte {
	value := uint16(n)
	for i := 0; i < compactMaximumBytes; i += 1 {
		b := byte(value & 0x7f)
		value >>= 7
		if 0 == value {
			return append(buffer, b)
		}
		buffer = append(buffer, b|0x80)
	}
	return buffer
}

// readCompact - decode a compact length
//
// returns 0, 0 if the buffer is truncated
func readCompact(buffer []byte) (int, int) {
	value := 0
	shift := uint(0)
	for i := 0; i < compactMaximumBytes && i < len(buffer); i += 1 {
		b := buffer[i]
		value |= int(b&0x7f) << shift
		if 0 == b&0x80 {
			return value, i + 1
		}
		shift += 7
	}
	return 0, 0
}
