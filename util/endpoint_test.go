// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/util"
)

func TestEndpoint(t *testing.T) {
	testData := []struct {
		in   string
		out  string
		ipv6 bool
	}{
		{"127.0.0.1:1234", "127.0.0.1:1234", false},
		{" 127.0.0.1:1 ", "127.0.0.1:1", false},
		{"127.0.0.1:65535", "127.0.0.1:65535", false},
		{"0.0.0.0:2139", "0.0.0.0:2139", false},
		{"[::1]:1234", "[::1]:1234", true},
		{"[0:0::0:0]:1234", "[::]:1234", true},
		{"[0:0:0:0::1]:1234", "[::1]:1234", true},
	}

	for i, d := range testData {
		e, err := util.NewEndpoint(d.in)
		if !assert.Nil(t, err, "failed on:[%d] %q", i, d.in) {
			continue
		}
		assert.Equal(t, d.out, e.String(), "wrong canonical form:[%d]", i)
		assert.Equal(t, d.ipv6, e.IsIPv6(), "wrong family:[%d]", i)
		assert.Equal(t, "tcp://"+d.out, e.URL("tcp://"), "wrong url:[%d]", i)
	}
}

func TestEndpointInvalidIP(t *testing.T) {
	testData := []string{
		"127.1:1234",
		"256.0.0.0:1234",
		"0:0:1234",
		"[]:1234",
		"[as34::]:1234",
		"*:1234",
		"localhost",
	}

	for i, d := range testData {
		_, err := util.NewEndpoint(d)
		assert.Equal(t, fault.ErrInvalidIPAddress, err, "failed on:[%d] %q", i, d)
	}
}

func TestEndpointInvalidPort(t *testing.T) {
	testData := []string{
		"127.0.0.1:0",
		"127.0.0.1:65536",
		"127.0.0.1:-1",
		"127.0.0.1:port",
	}

	for i, d := range testData {
		_, err := util.NewEndpoint(d)
		assert.Equal(t, fault.ErrInvalidPortNumber, err, "failed on:[%d] %q", i, d)
	}
}

func TestEndpoints(t *testing.T) {
	endpoints, err := util.NewEndpoints([]string{"127.0.0.1:2139", "[::1]:2139"})
	assert.Nil(t, err, "endpoints")
	assert.Equal(t, 2, len(endpoints), "wrong count")

	_, err = util.NewEndpoints([]string{"127.0.0.1:2139", "nowhere"})
	assert.Equal(t, fault.ErrInvalidIPAddress, err, "bad entry accepted")
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/data/log", util.EnsureAbsolute("/data", "log"), "relative path")
	assert.Equal(t, "/var/log", util.EnsureAbsolute("/data", "/var/log/"), "absolute path")
	assert.True(t, util.IsPlainName("miner.log"), "plain name")
	assert.False(t, util.IsPlainName("log/miner.log"), "name with directory")
	assert.False(t, util.IsPlainName(""), "empty name")
	assert.False(t, util.EnsureFileExists("/no/such/file/here"), "missing file")
}
