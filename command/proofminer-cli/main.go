// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"
)

type metadata struct {
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp(os.Stdout, os.Stderr)

	err := app.Run(os.Args)
	logger.Finalise()
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer, e io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "proofminer-cli"
	app.Usage = "inspect the proof miner"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "log-directory, l",
			Value: filepath.Join(os.TempDir(), "proofminer-cli"),
			Usage: " write logs to `DIR`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "benchmark",
			Usage:     "measure the local hash rate with one search round",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "threads, t",
					Value: 1,
					Usage: " number of search workers `COUNT`",
				},
				cli.IntFlag{
					Name:  "seconds, s",
					Value: 10,
					Usage: " length of the round `SECONDS`",
				},
				cli.StringFlag{
					Name:  "hasher",
					Value: "",
					Usage: " hash function `NAME` [argon2|sha3]",
				},
			},
			Action: runBenchmark,
		},
		{
			Name:      "busses",
			Usage:     "read the reward busses",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "rpc, r",
					Value: "",
					Usage: "*JSON-RPC node `URL`",
				},
				cli.StringSliceFlag{
					Name:  "bus, b",
					Value: &cli.StringSlice{},
					Usage: "*bus account `ADDRESS` (repeat for each bus)",
				},
			},
			Action: runBusses,
		},
		{
			Name:      "challenge",
			Usage:     "read the challenge now in force",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "rpc, r",
					Value: "",
					Usage: "*JSON-RPC node `URL`",
				},
				cli.StringFlag{
					Name:  "config, c",
					Value: "",
					Usage: "*program config account `ADDRESS`",
				},
				cli.StringFlag{
					Name:  "proof, p",
					Value: "",
					Usage: "*miner proof account `ADDRESS`",
				},
			},
			Action: runChallenge,
		},
		{
			Name:      "history",
			Usage:     "list rounds recorded by the miner",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*history database `DIR`",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
				cli.Uint64Flag{
					Name:  "epoch, e",
					Value: 0,
					Usage: " only rounds of `EPOCH`",
				},
				cli.BoolFlag{
					Name:  "totals, t",
					Usage: " output the running totals",
				},
			},
			Action: runHistory,
		},
		{
			Name:      "proof",
			Usage:     "read a miner proof account",
			ArgsUsage: "[ADDRESS]\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "rpc, r",
					Value: "",
					Usage: "*JSON-RPC node `URL`",
				},
				cli.StringFlag{
					Name:  "proof, p",
					Value: "",
					Usage: "*proof account `ADDRESS`, or given as argument",
				},
			},
			Action: runProof,
		},
		{
			Name:      "rewards",
			Usage:     "print the reward for each difficulty",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "base, b",
					Value: 0,
					Usage: "*base reward rate `AMOUNT`",
				},
				cli.IntFlag{
					Name:  "minimum, m",
					Value: 8,
					Usage: " minimum difficulty `D`",
				},
				cli.IntFlag{
					Name:  "rows, n",
					Value: 16,
					Usage: " table rows `COUNT`",
				},
			},
			Action: runRewards,
		},
		{
			Name:   "version",
			Usage:  "display proofminer-cli version",
			Action: runVersion,
		},
	}

	app.Before = func(c *cli.Context) error {
		e := c.App.ErrWriter
		verbose := c.GlobalBool("verbose")

		command := c.Args().Get(0)
		if "version" == command || "" == command || "help" == command {
			return nil
		}

		directory := c.GlobalString("log-directory")
		if err := os.MkdirAll(directory, 0700); nil != err {
			return err
		}
		level := "critical"
		if verbose {
			level = "info"
			fmt.Fprintf(e, "log directory: %q\n", directory)
		}
		err := logger.Initialise(logger.Configuration{
			Directory: directory,
			File:      app.Name + ".log",
			Size:      1024 * 1024,
			Count:     2,
			Levels: map[string]string{
				logger.DefaultTag: level,
			},
		})
		if nil != err {
			return err
		}

		c.App.Metadata["config"] = &metadata{
			verbose: verbose,
			e:       e,
			w:       c.App.Writer,
		}
		return nil
	}

	return app
}

func runVersion(c *cli.Context) error {
	fmt.Fprintf(c.App.Writer, "%s\n", version)
	return nil
}
