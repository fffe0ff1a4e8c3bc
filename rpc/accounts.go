// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/fault"
)

// maximum keys in one getMultipleAccounts call
const maximumMultipleAccounts = 100

type accountInfo struct {
	Data       []string `json:"data"`
	Executable bool     `json:"executable"`
	Lamports   uint64   `json:"lamports"`
	Owner      string   `json:"owner"`
}

type accountResult struct {
	Value *accountInfo `json:"value"`
}

type multipleAccountsResult struct {
	Value []*accountInfo `json:"value"`
}

func (info *accountInfo) decode() ([]byte, error) {
	if len(info.Data) < 1 {
		return nil, fault.ErrUnexpectedResponse
	}
	if len(info.Data) > 1 && "base64" != info.Data[1] {
		return nil, fault.ErrUnexpectedResponse
	}
	data, err := base64.StdEncoding.DecodeString(info.Data[0])
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrUnexpectedResponse, err)
	}
	return data, nil
}

// GetAccountData - raw data of one account
func (c *Client) GetAccountData(ctx context.Context, address account.PublicKey) ([]byte, error) {
	var result accountResult
	err := c.Call(ctx, "getAccountInfo", []interface{}{
		address.String(),
		c.config(map[string]interface{}{"encoding": "base64"}),
	}, &result)
	if nil != err {
		return nil, err
	}
	if nil == result.Value {
		return nil, fmt.Errorf("%w: %s", fault.ErrAccountNotFound, address)
	}
	return result.Value.decode()
}

// GetMultipleAccountsData - raw data of several accounts
//
// a missing account gives a nil entry
func (c *Client) GetMultipleAccountsData(ctx context.Context, addresses []account.PublicKey) ([][]byte, error) {
	if 0 == len(addresses) || len(addresses) > maximumMultipleAccounts {
		return nil, fault.ErrInvalidCount
	}
	keys := make([]string, len(addresses))
	for i, a := range addresses {
		keys[i] = a.String()
	}

	var result multipleAccountsResult
	err := c.Call(ctx, "getMultipleAccounts", []interface{}{
		keys,
		c.config(map[string]interface{}{"encoding": "base64"}),
	}, &result)
	if nil != err {
		return nil, err
	}
	if len(result.Value) != len(addresses) {
		return nil, fault.ErrUnexpectedResponse
	}

	data := make([][]byte, len(addresses))
	for i, info := range result.Value {
		if nil == info {
			continue
		}
		data[i], err = info.decode()
		if nil != err {
			return nil, err
		}
	}
	return data, nil
}

// GetBalance - lamports held by an account
func (c *Client) GetBalance(ctx context.Context, address account.PublicKey) (uint64, error) {
	var result struct {
		Value uint64 `json:"value"`
	}
	err := c.Call(ctx, "getBalance", []interface{}{
		address.String(),
		c.config(nil),
	}, &result)
	return result.Value, err
}
