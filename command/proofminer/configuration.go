// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/challenge"
	"github.com/bitmark-inc/proofminer/configuration"
	"github.com/bitmark-inc/proofminer/digest"
	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/fee"
	"github.com/bitmark-inc/proofminer/hashsearch"
	"github.com/bitmark-inc/proofminer/miner"
	"github.com/bitmark-inc/proofminer/publish"
	"github.com/bitmark-inc/proofminer/rpc"
	"github.com/bitmark-inc/proofminer/submit"
	"github.com/bitmark-inc/proofminer/transaction"
	"github.com/bitmark-inc/proofminer/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultKeypairFile = "id.json"
	defaultHistory     = "history.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "proofminer.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultMaxCPUUsage   = 100
	defaultRoundSeconds  = 60
	defaultBufferSeconds = 8
	defaultMineTag       = 2
	defaultResetTag      = 1
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		"main":            "info",
		logger.DefaultTag: "critical",
	}
)

// RPCType - the chain node
type RPCType struct {
	URL               string  `gluamapper:"url" json:"url"`
	TimeoutSeconds    int     `gluamapper:"timeout_seconds" json:"timeout_seconds"`
	RequestsPerSecond float64 `gluamapper:"requests_per_second" json:"requests_per_second"`
	Burst             int     `gluamapper:"burst" json:"burst"`
	Commitment        string  `gluamapper:"commitment" json:"commitment"`
	SkipPreflight     bool    `gluamapper:"skip_preflight" json:"skip_preflight"`
}

// ProgramType - addresses of the mining program, base58
type ProgramType struct {
	ID            string   `gluamapper:"id" json:"id"`
	Config        string   `gluamapper:"config" json:"config"`
	Proof         string   `gluamapper:"proof" json:"proof"`
	Busses        []string `gluamapper:"busses" json:"busses"`
	ResetAccounts []string `gluamapper:"reset_accounts" json:"reset_accounts"`
	MineTag       int      `gluamapper:"mine_tag" json:"mine_tag"`
	ResetTag      int      `gluamapper:"reset_tag" json:"reset_tag"`
	ClaimedCodes  []int    `gluamapper:"claimed_codes" json:"claimed_codes"`
	EpochSeconds  int      `gluamapper:"epoch_seconds" json:"epoch_seconds"`
	ResetSeconds  int      `gluamapper:"reset_seconds" json:"reset_seconds"`
}

// MiningType - search settings
type MiningType struct {
	Hasher              string                  `gluamapper:"hasher" json:"hasher"`
	Argon2              digest.Argon2Parameters `gluamapper:"argon2" json:"argon2"`
	Workers             int                     `gluamapper:"workers" json:"workers"` // 0 derives from max_cpu_usage
	MaxCPUUsage         int                     `gluamapper:"max_cpu_usage" json:"max_cpu_usage"`
	RoundSeconds        int                     `gluamapper:"round_seconds" json:"round_seconds"`
	BufferSeconds       int                     `gluamapper:"buffer_seconds" json:"buffer_seconds"`
	RiskSeconds         int                     `gluamapper:"risk_seconds" json:"risk_seconds"`
	MinDifficulty       int                     `gluamapper:"min_difficulty" json:"min_difficulty"`
	RotationPollSeconds int                     `gluamapper:"rotation_poll_seconds" json:"rotation_poll_seconds"`
}

// FeeType - priority fee, micro-lamports per compute unit
type FeeType struct {
	Static          uint64  `gluamapper:"static" json:"static"`
	Cap             uint64  `gluamapper:"cap" json:"cap"`
	Escalation      float64 `gluamapper:"escalation" json:"escalation"`
	Strategy        string  `gluamapper:"strategy" json:"strategy"`
	DynamicURL      string  `gluamapper:"dynamic_fee_url" json:"dynamic_fee_url"` // defaults to rpc.url
	ExtraDifficulty int     `gluamapper:"extra_fee_difficulty" json:"extra_fee_difficulty"`
	ExtraPercent    int     `gluamapper:"extra_fee_percent" json:"extra_fee_percent"`
}

// SubmitType - landing settings
type SubmitType struct {
	MaxAttempts    int `gluamapper:"max_attempts" json:"max_attempts"`
	PollSeconds    int `gluamapper:"poll_seconds" json:"poll_seconds"`
	ConfirmSeconds int `gluamapper:"confirm_seconds" json:"confirm_seconds"`
}

// Configuration - everything read from the configuration file
type Configuration struct {
	DataDirectory string                `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string                `gluamapper:"pidfile" json:"pidfile"`
	Keypair       string                `gluamapper:"keypair" json:"keypair"`
	FeePayer      string                `gluamapper:"fee_payer" json:"fee_payer"` // blank: keypair pays
	History       string                `gluamapper:"history" json:"history"` // "-" disables
	RPC           RPCType               `gluamapper:"rpc" json:"rpc"`
	Program       ProgramType           `gluamapper:"program" json:"program"`
	Mining        MiningType            `gluamapper:"mining" json:"mining"`
	Fee           FeeType               `gluamapper:"fee" json:"fee"`
	Submit        SubmitType            `gluamapper:"submit" json:"submit"`
	Publish       publish.Configuration `gluamapper:"publish" json:"publish"`
	Logging       logger.Configuration  `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {
	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Keypair:       defaultKeypairFile,
		History:       defaultHistory,

		Program: ProgramType{
			MineTag:  defaultMineTag,
			ResetTag: defaultResetTag,
		},
		Mining: MiningType{
			Argon2:        digest.DefaultArgon2,
			MaxCPUUsage:   defaultMaxCPUUsage,
			RoundSeconds:  defaultRoundSeconds,
			BufferSeconds: defaultBufferSeconds,
		},
		Fee: FeeType{
			Static:     fee.DefaultStatic,
			Cap:        fee.DefaultCap,
			Escalation: fee.DefaultEscalation,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	if err := options.validate(); nil != err {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Keypair,
		&options.Logging.Directory,
	}
	if "-" != options.History {
		mustBeAbsolute = append(mustBeAbsolute, &options.History)
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.FeePayer,
		&options.Publish.PrivateKey,
		&options.Publish.PublicKey,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// log file must be a simple name within the log directory
	if !util.IsPlainName(options.Logging.File) {
		return nil, fmt.Errorf("files: %q is not plain name", options.Logging.File)
	}

	if err := os.MkdirAll(options.Logging.Directory, 0700); nil != err {
		return nil, err
	}

	return options, nil
}

// check values that do not depend on the file system
func (c *Configuration) validate() error {
	if "" == c.RPC.URL {
		return fault.ErrMissingRPCURL
	}
	if "" == c.Program.ID || "" == c.Program.Config || "" == c.Program.Proof {
		return fault.ErrMissingAddress
	}
	if 0 == len(c.Program.Busses) {
		return fault.ErrNoBusses
	}
	if _, err := c.program(); nil != err {
		return err
	}
	if _, err := account.ParseList(c.Program.Busses); nil != err {
		return fmt.Errorf("program.busses: %w", err)
	}
	if _, err := digest.New(c.Mining.Hasher, c.Mining.Argon2); nil != err {
		return fmt.Errorf("mining.hasher: %q  %w", c.Mining.Hasher, err)
	}
	if c.Mining.MaxCPUUsage <= 0 || c.Mining.MaxCPUUsage > 100 {
		c.Mining.MaxCPUUsage = defaultMaxCPUUsage
	}
	if c.Mining.Workers < 0 {
		return fault.ErrNoWorkers
	}
	if err := fee.Validate(c.feeOptions()); nil != err {
		return err
	}
	if "" == c.Fee.DynamicURL {
		c.Fee.DynamicURL = c.RPC.URL
	}
	if c.Submit.MaxAttempts < 0 {
		return fault.ErrInvalidMaxAttempts
	}
	return nil
}

func (c *Configuration) program() (transaction.Program, error) {
	p := transaction.Program{
		MineTag:  byte(c.Program.MineTag),
		ResetTag: byte(c.Program.ResetTag),
	}
	for _, item := range []struct {
		name string
		text string
		key  *account.PublicKey
	}{
		{"program.id", c.Program.ID, &p.ID},
		{"program.config", c.Program.Config, &p.Config},
		{"program.proof", c.Program.Proof, &p.Proof},
	} {
		key, err := account.Parse(item.text)
		if nil != err {
			return p, fmt.Errorf("%s: %q  %w", item.name, item.text, err)
		}
		*item.key = key
	}

	reset, err := account.ParseList(c.Program.ResetAccounts)
	if nil != err {
		return p, fmt.Errorf("program.reset_accounts: %w", err)
	}
	p.ResetAccounts = reset
	return p, nil
}

func (c *Configuration) rpcOptions(url string) rpc.Options {
	return rpc.Options{
		URL:               url,
		Timeout:           seconds(c.RPC.TimeoutSeconds),
		RequestsPerSecond: c.RPC.RequestsPerSecond,
		Burst:             c.RPC.Burst,
		Commitment:        c.RPC.Commitment,
		SkipPreflight:     c.RPC.SkipPreflight,
	}
}

func (c *Configuration) monitorOptions(p transaction.Program) challenge.Options {
	return challenge.Options{
		Proof:         p.Proof,
		Config:        p.Config,
		EpochDuration: seconds(c.Program.EpochSeconds),
		ResetInterval: seconds(c.Program.ResetSeconds),
		Timeout:       seconds(c.RPC.TimeoutSeconds),
	}
}

func (c *Configuration) schedulerOptions() hashsearch.Options {
	return hashsearch.Options{
		MinDifficulty: uint32(c.Mining.MinDifficulty),
		RiskTime:      seconds(c.Mining.RiskSeconds),
	}
}

func (c *Configuration) feeOptions() fee.Options {
	return fee.Options{
		Static:          c.Fee.Static,
		Cap:             c.Fee.Cap,
		Escalation:      c.Fee.Escalation,
		Strategy:        c.Fee.Strategy,
		ExtraDifficulty: uint32(c.Fee.ExtraDifficulty),
		ExtraPercent:    uint64(c.Fee.ExtraPercent),
	}
}

func (c *Configuration) submitOptions(p transaction.Program) submit.Options {
	busses, _ := account.ParseList(c.Program.Busses)
	codes := make([]uint32, 0, len(c.Program.ClaimedCodes))
	for _, code := range c.Program.ClaimedCodes {
		codes = append(codes, uint32(code))
	}
	return submit.Options{
		Program:        p,
		Busses:         busses,
		MaxAttempts:    c.Submit.MaxAttempts,
		PollInterval:   seconds(c.Submit.PollSeconds),
		ConfirmTimeout: seconds(c.Submit.ConfirmSeconds),
		CallTimeout:    seconds(c.RPC.TimeoutSeconds),
		ClaimedCodes:   codes,
	}
}

func (c *Configuration) minerOptions(workers int) miner.Options {
	return miner.Options{
		Workers:       workers,
		RoundDuration: seconds(c.Mining.RoundSeconds),
		Buffer:        seconds(c.Mining.BufferSeconds),
		RotationPoll:  seconds(c.Mining.RotationPollSeconds),
	}
}

// whole seconds, zero leaves the package default
func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
