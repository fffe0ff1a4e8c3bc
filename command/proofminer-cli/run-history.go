// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/proofminer/history"
)

func runHistory(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	fileName := c.String("file")
	if "" == fileName {
		return fmt.Errorf("history database is required")
	}

	if m.verbose {
		fmt.Fprintf(m.e, "reading history: %s\n", fileName)
	}

	store, err := history.Open(fileName, true)
	if nil != err {
		return err
	}
	defer store.Close()

	return listHistory(m, store, c.Uint64("epoch"), c.Int("count"), c.Bool("totals"))
}

func listHistory(m *metadata, store *history.Store, epoch uint64, count int, totals bool) error {
	if totals {
		t, err := store.Totals()
		if nil != err {
			return err
		}
		return printJson(m.w, t)
	}

	if 0 != epoch {
		outcomes, err := store.Epoch(epoch)
		if nil != err {
			return err
		}
		return printJson(m.w, outcomes)
	}

	outcomes, err := store.Recent(count)
	if nil != err {
		return err
	}
	return printJson(m.w, outcomes)
}
