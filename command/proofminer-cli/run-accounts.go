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
	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/rpc"
)

// the rpc calls used to inspect program accounts
type accountSource interface {
	GetAccountData(context.Context, account.PublicKey) ([]byte, error)
	GetMultipleAccountsData(context.Context, []account.PublicKey) ([][]byte, error)
}

type busResult struct {
	Address account.PublicKey `json:"address"`
	challenge.Bus
	Tokens float64 `json:"tokens"`
}

type proofResult struct {
	Address account.PublicKey `json:"address"`
	challenge.Proof
	Tokens       float64   `json:"tokens"`
	LastHashTime time.Time `json:"lastHashTime"`
}

func runBusses(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	url := c.String("rpc")
	if "" == url {
		return fmt.Errorf("rpc url is required")
	}
	addresses, err := account.ParseList(c.StringSlice("bus"))
	if nil != err {
		return fmt.Errorf("bus: %w", err)
	}
	if 0 == len(addresses) {
		return fault.ErrNoBusses
	}

	client, err := rpc.NewClient(rpc.Options{URL: url})
	if nil != err {
		return err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "reading %d busses from: %s\n", len(addresses), client.URL())
	}

	result, err := readBusses(context.Background(), client, addresses)
	if nil != err {
		return err
	}
	return printJson(m.w, result)
}

func runProof(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	url := c.String("rpc")
	if "" == url {
		return fmt.Errorf("rpc url is required")
	}
	text := c.String("proof")
	if "" == text {
		text = c.Args().First()
	}
	address, err := account.Parse(text)
	if nil != err {
		return fmt.Errorf("proof: %q  %w", text, err)
	}

	client, err := rpc.NewClient(rpc.Options{URL: url})
	if nil != err {
		return err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "reading proof from: %s\n", client.URL())
	}

	result, err := readProof(context.Background(), client, address)
	if nil != err {
		return err
	}
	return printJson(m.w, result)
}

func readBusses(ctx context.Context, source accountSource, addresses []account.PublicKey) ([]busResult, error) {
	data, err := source.GetMultipleAccountsData(ctx, addresses)
	if nil != err {
		return nil, err
	}

	result := make([]busResult, 0, len(addresses))
	for i, d := range data {
		if nil == d {
			return nil, fmt.Errorf("%w: %s", fault.ErrAccountNotFound, addresses[i])
		}
		bus, err := challenge.DecodeBus(d)
		if nil != err {
			return nil, fmt.Errorf("bus: %s  %w", addresses[i], err)
		}
		result = append(result, busResult{
			Address: addresses[i],
			Bus:     *bus,
			Tokens:  difficulty.ToTokens(bus.Rewards),
		})
	}
	return result, nil
}

func readProof(ctx context.Context, source accountSource, address account.PublicKey) (*proofResult, error) {
	data, err := source.GetAccountData(ctx, address)
	if nil != err {
		return nil, err
	}
	proof, err := challenge.DecodeProof(data)
	if nil != err {
		return nil, fmt.Errorf("proof: %s  %w", address, err)
	}

	return &proofResult{
		Address:      address,
		Proof:        *proof,
		Tokens:       difficulty.ToTokens(proof.Balance),
		LastHashTime: time.Unix(proof.LastHashAt, 0).UTC(),
	}, nil
}
