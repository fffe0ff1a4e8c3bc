// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompact(t *testing.T) {
	tests := []struct {
		value   int
		encoded []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{0x7f, []byte{0x7f}},
		{0x80, []byte{0x80, 0x01}},
		{0xff, []byte{0xff, 0x01}},
		{0x3fff, []byte{0xff, 0x7f}},
		{0x4000, []byte{0x80, 0x80, 0x01}},
		{0xffff, []byte{0xff, 0xff, 0x03}},
	}

	for i, item := range tests {
		actual := appendCompact(nil, item.value)
		assert.Equal(t, item.encoded, actual, "%d: wrong encoding of %d", i, item.value)

		value, n := readCompact(actual)
		assert.Equal(t, item.value, value, "%d: wrong decoding", i)
		assert.Equal(t, len(item.encoded), n, "%d: wrong length", i)
	}
}

func TestCompactTruncated(t *testing.T) {
	value, n := readCompact([]byte{0x80})
	assert.Equal(t, 0, value, "truncated value")
	assert.Equal(t, 0, n, "truncated length")
}
