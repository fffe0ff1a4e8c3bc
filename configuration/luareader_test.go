// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/proofminer/configuration"
	"github.com/bitmark-inc/proofminer/fault"
)

type feeBlock struct {
	Static     uint64  `gluamapper:"static"`
	Escalation float64 `gluamapper:"escalation"`
}

type testConfiguration struct {
	DataDirectory string            `gluamapper:"data_directory"`
	Workers       int               `gluamapper:"workers"`
	Busses        []string          `gluamapper:"busses"`
	Fee           feeBlock          `gluamapper:"fee"`
	Levels        map[string]string `gluamapper:"levels"`
}

const source = `
local M = {}
M.data_directory = arg[0] and "." or "none"
M.workers = 2 * 4
M.busses = { "bus-0", "bus-1" }
M.fee = {
    static = 10000,
    escalation = 1.5,
}
M.levels = { miner = "info", DEFAULT = "error" }
return M
`

func TestParseConfigurationFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "configuration")
	assert.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	fileName := filepath.Join(dir, "proofminer.conf")
	assert.Nil(t, ioutil.WriteFile(fileName, []byte(source), 0600), "write")

	c := testConfiguration{Workers: 1}
	err = configuration.ParseConfigurationFile(fileName, &c)
	assert.Nil(t, err, "parse")

	assert.Equal(t, ".", c.DataDirectory, "arg[0] not set")
	assert.Equal(t, 8, c.Workers, "workers")
	assert.Equal(t, []string{"bus-0", "bus-1"}, c.Busses, "busses")
	assert.Equal(t, uint64(10000), c.Fee.Static, "fee")
	assert.Equal(t, 1.5, c.Fee.Escalation, "escalation")
	assert.Equal(t, "error", c.Levels["DEFAULT"], "levels")
}

func TestParseConfigurationStringKeepsDefaults(t *testing.T) {
	c := testConfiguration{Workers: 3, DataDirectory: "/var/lib/proofminer"}
	err := configuration.ParseConfigurationString(`return { fee = { static = 5 } }`, &c)
	assert.Nil(t, err, "parse")
	assert.Equal(t, 3, c.Workers, "default lost")
	assert.Equal(t, "/var/lib/proofminer", c.DataDirectory, "default lost")
	assert.Equal(t, uint64(5), c.Fee.Static, "fee")
}

func TestParseConfigurationErrors(t *testing.T) {
	c := testConfiguration{}

	err := configuration.ParseConfigurationString(`return { }`, c)
	assert.Equal(t, fault.ErrInvalidStructPointer, err, "non pointer accepted")

	err = configuration.ParseConfigurationString(`return 42`, &c)
	assert.Equal(t, fault.ErrConfigurationNotTable, err, "non table accepted")

	err = configuration.ParseConfigurationString(`return {`, &c)
	assert.NotNil(t, err, "syntax error accepted")

	err = configuration.ParseConfigurationFile("/no/such/proofminer.conf", &c)
	assert.NotNil(t, err, "missing file accepted")
}
