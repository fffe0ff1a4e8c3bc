// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/proofminer/challenge"
	"github.com/bitmark-inc/proofminer/digest"
	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/hashsearch"
)

type benchmarkResult struct {
	Hasher     string        `json:"hasher"`
	Threads    int           `json:"threads"`
	Hashes     uint64        `json:"hashes"`
	Rate       float64       `json:"rate"`
	Elapsed    time.Duration `json:"elapsed"`
	Best       uint32        `json:"best"`
	Nonce      uint64        `json:"nonce"`
	Seed       digest.Seed   `json:"seed"`
	Exhaustive bool          `json:"exhaustive"`
}

func runBenchmark(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	threads := c.Int("threads")
	if threads <= 0 {
		return fault.ErrNoWorkers
	}
	duration := time.Duration(c.Int("seconds")) * time.Second
	if duration <= 0 {
		return fmt.Errorf("seconds: %d must be positive", c.Int("seconds"))
	}

	hasher, err := digest.New(c.String("hasher"), digest.DefaultArgon2)
	if nil != err {
		return err
	}

	result, err := benchmark(hasher, threads, duration)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "%d hashes in %s\n", result.Hashes, result.Elapsed)
	}
	return printJson(m.w, result)
}

// one local round on a random seed, nothing is submitted
func benchmark(hasher digest.Hasher, threads int, duration time.Duration) (*benchmarkResult, error) {
	var seed digest.Seed
	if _, err := rand.Read(seed[:]); nil != err {
		return nil, err
	}

	now := time.Now()
	ch := challenge.Challenge{
		Seed:       seed,
		ObservedAt: now,
	}

	scheduler := hashsearch.NewScheduler(hasher, hashsearch.Options{})
	round, err := scheduler.RunRound(context.Background(), ch, threads, now.Add(duration))
	if nil != err {
		return nil, err
	}

	return &benchmarkResult{
		Hasher:     hasher.Name(),
		Threads:    threads,
		Hashes:     round.Hashes,
		Rate:       round.Rate,
		Elapsed:    round.Elapsed,
		Best:       round.Winner.Difficulty,
		Nonce:      round.Winner.Nonce,
		Seed:       seed,
		Exhaustive: !round.Stopped,
	}, nil
}
