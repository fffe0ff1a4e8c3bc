// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/background"
	"github.com/bitmark-inc/proofminer/challenge"
	"github.com/bitmark-inc/proofminer/digest"
	"github.com/bitmark-inc/proofminer/fee"
	"github.com/bitmark-inc/proofminer/hashsearch"
	"github.com/bitmark-inc/proofminer/history"
	"github.com/bitmark-inc/proofminer/miner"
	"github.com/bitmark-inc/proofminer/publish"
	"github.com/bitmark-inc/proofminer/rpc"
	"github.com/bitmark-inc/proofminer/submit"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	if len(options["help"]) > 0 {
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]", program)
	}

	// these commands don't require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]

	watcherChannel := newWatcherChannel()
	reader := newConfigReader(watcherChannel)
	reader.Initialise(configurationFile)

	err = reader.Refresh()
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	masterConfiguration, _, err := reader.GetConfig()
	if nil != err {
		exitwithstatus.Message("%s: configuration is not found", program)
	}

	// start logging
	if err = logger.Initialise(masterConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	watcher, err := newFileWatcher(configurationFile, logger.New(FileWatcherLoggerPrefix), watcherChannel)
	if nil != err {
		exitwithstatus.Message("%s: file watcher setup failed with error: %s", program, err)
	}

	err = reader.SetLog(logger.New(ReaderLoggerPrefix))
	if nil != err {
		exitwithstatus.Message("%s: new logger '%s' failed with error: %s", program, ReaderLoggerPrefix, err)
	}

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("shutting down…")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("masterConfiguration: %v", masterConfiguration)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != masterConfiguration.PidFile {
		lockFile, err := os.OpenFile(masterConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, masterConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(masterConfiguration.PidFile)
	}

	signer, err := account.LoadKeypair(masterConfiguration.Keypair)
	if nil != err {
		log.Criticalf("keypair: %q  error: %s", masterConfiguration.Keypair, err)
		exitwithstatus.Message("%s: failed reading keypair: %q  error: %s", program, masterConfiguration.Keypair, err)
	}
	log.Infof("signer: %s", signer.PublicKey)

	var feePayer *account.Keypair
	if "" != masterConfiguration.FeePayer {
		feePayer, err = account.LoadKeypair(masterConfiguration.FeePayer)
		if nil != err {
			log.Criticalf("fee payer: %q  error: %s", masterConfiguration.FeePayer, err)
			exitwithstatus.Message("%s: failed reading fee payer: %q  error: %s", program, masterConfiguration.FeePayer, err)
		}
		log.Infof("fee payer: %s", feePayer.PublicKey)
	}

	orchestrator, policy, sinks, err := build(masterConfiguration, signer, feePayer, reader.OptimalThreadCount())
	if nil != err {
		log.Criticalf("setup error: %s", err)
		exitwithstatus.Message("%s: setup error: %s", program, err)
	}
	defer func() {
		for _, c := range sinks.closers {
			c.Close()
		}
	}()

	processes := background.Processes{orchestrator}
	if nil != sinks.broadcaster {
		processes = append(processes, sinks.broadcaster)
	}
	processes = append(processes, reader)
	runner := background.Start(processes, nil)

	reader.SetTargets(orchestrator, policy)
	if err := watcher.Start(); nil != err {
		log.Warnf("configuration changes will not be followed: %s", err)
	}
	defer watcher.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-ch:
		log.Infof("received signal: %v", sig)
		if 0 == len(options["quiet"]) {
			fmt.Printf("\nreceived signal: %v\n", sig)
			fmt.Printf("\nshutting down...\n")
		}
	case <-orchestrator.Stopped():
		log.Criticalf("mining stopped: %v", orchestrator.Err())
	}

	runner.Stop()

	if err := orchestrator.Err(); nil != err {
		exitwithstatus.Message("%s: mining stopped: %s", program, err)
	}
}

type closer interface {
	Close() error
}

type outcomeSinks struct {
	list        []miner.Sink
	broadcaster *publish.Broadcaster
	closers     []closer
}

// connect every component in dependency order
func build(configuration *Configuration, signer *account.Keypair, feePayer *account.Keypair, workers int) (*miner.Orchestrator, *fee.Policy, *outcomeSinks, error) {
	program, err := configuration.program()
	if nil != err {
		return nil, nil, nil, err
	}

	client, err := rpc.NewClient(configuration.rpcOptions(configuration.RPC.URL))
	if nil != err {
		return nil, nil, nil, err
	}

	monitor, err := challenge.NewMonitor(client, configuration.monitorOptions(program))
	if nil != err {
		return nil, nil, nil, err
	}

	hasher, err := digest.New(configuration.Mining.Hasher, configuration.Mining.Argon2)
	if nil != err {
		return nil, nil, nil, err
	}
	scheduler := hashsearch.NewScheduler(hasher, configuration.schedulerOptions())

	submitOptions := configuration.submitOptions(program)
	submitOptions.FeePayer = feePayer

	var estimator fee.Estimator
	if fee.Static != configuration.Fee.Strategy {
		estimator, err = rpc.NewClient(configuration.rpcOptions(configuration.Fee.DynamicURL))
		if nil != err {
			return nil, nil, nil, err
		}
	}
	locked := append([]account.PublicKey{program.Proof}, submitOptions.Busses...)
	policy, err := fee.NewPolicy(configuration.feeOptions(), estimator, locked)
	if nil != err {
		return nil, nil, nil, err
	}

	submitter, err := submit.NewSubmitter(client, monitor, policy, signer, submitOptions)
	if nil != err {
		return nil, nil, nil, err
	}

	sinks := &outcomeSinks{}
	if "-" != configuration.History {
		store, err := history.Open(configuration.History, false)
		if nil != err {
			return nil, nil, nil, err
		}
		sinks.list = append(sinks.list, store)
		sinks.closers = append(sinks.closers, store)
	}
	if len(configuration.Publish.Broadcast) > 0 {
		broadcaster, err := publish.New(&configuration.Publish)
		if nil != err {
			return nil, nil, nil, err
		}
		sinks.list = append(sinks.list, broadcaster)
		sinks.broadcaster = broadcaster
	}

	minerOptions := configuration.minerOptions(workers)
	minerOptions.Sinks = sinks.list

	orchestrator, err := miner.New(monitor, scheduler, submitter, minerOptions)
	if nil != err {
		return nil, nil, nil, err
	}
	return orchestrator, policy, sinks, nil
}
