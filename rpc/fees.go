// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"context"
	"math"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/fault"
)

// PrioritizationFee - one sample from getRecentPrioritizationFees
type PrioritizationFee struct {
	Slot              uint64 `json:"slot"`
	PrioritizationFee uint64 `json:"prioritizationFee"`
}

// RecentPrioritizationFees - recent fee samples for a set of accounts
//
// a positive percentile asks for the extended form some providers
// support, in basis points (5000 = median)
func (c *Client) RecentPrioritizationFees(ctx context.Context, addresses []account.PublicKey, percentile int) ([]PrioritizationFee, error) {
	keys := make([]string, len(addresses))
	for i, a := range addresses {
		keys[i] = a.String()
	}

	params := []interface{}{keys}
	if percentile > 0 {
		params = append(params, map[string]interface{}{"percentile": percentile})
	}

	var result []PrioritizationFee
	err := c.Call(ctx, "getRecentPrioritizationFees", params, &result)
	if nil != err {
		return nil, err
	}
	return result, nil
}

// PriorityFeeEstimate - recommended fee from an estimating provider
func (c *Client) PriorityFeeEstimate(ctx context.Context, addresses []account.PublicKey) (uint64, error) {
	keys := make([]string, len(addresses))
	for i, a := range addresses {
		keys[i] = a.String()
	}

	var result struct {
		PriorityFeeEstimate *float64 `json:"priorityFeeEstimate"`
	}
	err := c.Call(ctx, "getPriorityFeeEstimate", []interface{}{
		map[string]interface{}{
			"accountKeys": keys,
			"options": map[string]interface{}{
				"recommended": true,
			},
		},
	}, &result)
	if nil != err {
		return 0, err
	}
	if nil == result.PriorityFeeEstimate || *result.PriorityFeeEstimate < 0 {
		return 0, fault.ErrUnexpectedResponse
	}
	return uint64(math.Ceil(*result.PriorityFeeEstimate)), nil
}
