// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"context"
	"encoding/json"

	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/transaction"
)

// LatestBlockhash - a blockhash recent enough to build with
func (c *Client) LatestBlockhash(ctx context.Context) (transaction.Blockhash, error) {
	var result struct {
		Value struct {
			Blockhash            string `json:"blockhash"`
			LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
		} `json:"value"`
	}
	err := c.Call(ctx, "getLatestBlockhash", []interface{}{c.config(nil)}, &result)
	if nil != err {
		return transaction.Blockhash{}, err
	}
	return transaction.ParseBlockhash(result.Value.Blockhash)
}

// IsBlockhashValid - true while a blockhash can still be used
func (c *Client) IsBlockhashValid(ctx context.Context, h transaction.Blockhash) (bool, error) {
	var result struct {
		Value bool `json:"value"`
	}
	err := c.Call(ctx, "isBlockhashValid", []interface{}{h.String(), c.config(nil)}, &result)
	return result.Value, err
}

// SendTransaction - broadcast a signed transaction
//
// the node does no retries of its own, so a transaction is never
// rebroadcast behind the caller's back
func (c *Client) SendTransaction(ctx context.Context, tx *transaction.Transaction) (transaction.Signature, error) {
	var result string
	err := c.Call(ctx, "sendTransaction", []interface{}{
		tx.Base64(),
		map[string]interface{}{
			"encoding":            "base64",
			"skipPreflight":       c.skipPreflight,
			"preflightCommitment": c.commitment,
			"maxRetries":          0,
		},
	}, &result)
	if nil != err {
		return transaction.Signature{}, err
	}

	s, err := transaction.ParseSignature(result)
	if nil != err {
		return transaction.Signature{}, err
	}
	if s != tx.ID() {
		return s, fault.ErrUnexpectedResponse
	}
	return s, nil
}

type signatureStatus struct {
	Slot               uint64          `json:"slot"`
	Confirmations      *uint64         `json:"confirmations"`
	Err                json.RawMessage `json:"err"`
	ConfirmationStatus string          `json:"confirmationStatus"`
}

// SignatureStatus - what the network knows about a signature
//
// a signature the node has not seen gives a zero status
func (c *Client) SignatureStatus(ctx context.Context, s transaction.Signature) (transaction.Status, error) {
	var result struct {
		Value []*signatureStatus `json:"value"`
	}
	err := c.Call(ctx, "getSignatureStatuses", []interface{}{
		[]string{s.String()},
		map[string]interface{}{"searchTransactionHistory": false},
	}, &result)
	if nil != err {
		return transaction.Status{}, err
	}
	if 1 != len(result.Value) {
		return transaction.Status{}, fault.ErrUnexpectedResponse
	}

	value := result.Value[0]
	if nil == value {
		return transaction.Status{}, nil
	}

	status := transaction.Status{
		Slot:         value.Slot,
		Confirmation: transaction.ParseConfirmation(value.ConfirmationStatus),
	}
	if transaction.Unknown == status.Confirmation {
		// older nodes only report a count, nil meaning rooted
		if nil == value.Confirmations {
			status.Confirmation = transaction.Finalized
		} else {
			status.Confirmation = transaction.Processed
		}
	}
	if 0 != len(value.Err) && "null" != string(value.Err) {
		status.Err = classifyTransactionError(value.Err)
	}
	return status, nil
}
