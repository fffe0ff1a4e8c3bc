// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/proofminer/difficulty"
)

type rewardRow struct {
	difficulty.Reward
	Tokens float64 `json:"tokens"`
}

func runRewards(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	base := c.Uint64("base")
	if 0 == base {
		return fmt.Errorf("base reward rate is required")
	}
	minimum := c.Int("minimum")
	if minimum < 0 {
		return fmt.Errorf("minimum: %d must not be negative", minimum)
	}

	return printJson(m.w, rewardTable(base, uint32(minimum), c.Int("rows")))
}

func rewardTable(base uint64, minimum uint32, rows int) []rewardRow {
	table := difficulty.Table(base, minimum, rows)
	result := make([]rewardRow, 0, len(table))
	for _, r := range table {
		result = append(result, rewardRow{
			Reward: r,
			Tokens: difficulty.ToTokens(r.Amount),
		})
	}
	return result
}
