// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/challenge"
	"github.com/bitmark-inc/proofminer/difficulty"
	"github.com/bitmark-inc/proofminer/rpc"
)

type challengeResult struct {
	challenge.Challenge
	Remaining  time.Duration `json:"remaining"`
	Multiplier float64       `json:"multiplier"`
	MinReward  uint64        `json:"minReward"`
}

func runChallenge(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	url := c.String("rpc")
	if "" == url {
		return fmt.Errorf("rpc url is required")
	}
	config, err := account.Parse(c.String("config"))
	if nil != err {
		return fmt.Errorf("config: %q  %w", c.String("config"), err)
	}
	proof, err := account.Parse(c.String("proof"))
	if nil != err {
		return fmt.Errorf("proof: %q  %w", c.String("proof"), err)
	}

	client, err := rpc.NewClient(rpc.Options{URL: url})
	if nil != err {
		return err
	}
	monitor, err := challenge.NewMonitor(client, challenge.Options{
		Proof:  proof,
		Config: config,
	})
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "reading challenge from: %s\n", client.URL())
	}

	current, err := monitor.Current(context.Background())
	if nil != err {
		return err
	}

	return printJson(m.w, describeChallenge(current))
}

func describeChallenge(current challenge.Challenge) challengeResult {
	remaining := current.ExpiresAt.Sub(current.ChainTime)
	if remaining < 0 || current.ExpiresAt.IsZero() {
		remaining = 0
	}
	return challengeResult{
		Challenge:  current,
		Remaining:  remaining,
		Multiplier: difficulty.Multiplier(current.Balance, current.TopBalance),
		MinReward:  difficulty.RewardRate(current.BaseRewardRate, current.TargetDifficulty, current.TargetDifficulty),
	}
}
