// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/proofminer/counter"
	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/rpc/ratelimit"
)

// defaults for Options
const (
	DefaultTimeout           = 10 * time.Second
	DefaultRequestsPerSecond = 10
	DefaultBurst             = 5
	DefaultCommitment        = "confirmed"

	maximumResponseSize = 16 << 20
)

// Options - connection settings
type Options struct {
	URL               string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Commitment        string
	SkipPreflight     bool
}

// Client - connection to one node
type Client struct {
	log           *logger.L
	url           string
	client        *http.Client
	limiter       *rate.Limiter
	timeout       time.Duration
	commitment    string
	skipPreflight bool
	id            counter.Counter
}

type request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *ErrorObject    `json:"error"`
}

// ErrorObject - error member of a JSON-RPC response
type ErrorObject struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NewClient - create a client
func NewClient(options Options) (*Client, error) {
	if "" == options.URL {
		return nil, fault.ErrMissingRPCURL
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}
	if options.RequestsPerSecond <= 0 {
		options.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if options.Burst <= 0 {
		options.Burst = DefaultBurst
	}
	if "" == options.Commitment {
		options.Commitment = DefaultCommitment
	}

	return &Client{
		log: logger.New("rpc"),
		url: options.URL,
		client: &http.Client{
			Timeout: options.Timeout,
		},
		limiter:       rate.NewLimiter(rate.Limit(options.RequestsPerSecond), options.Burst),
		timeout:       options.Timeout,
		commitment:    options.Commitment,
		skipPreflight: options.SkipPreflight,
	}, nil
}

// URL - the node this client talks to
func (c *Client) URL() string {
	return c.url
}

// Call - invoke a method and decode its result
func (c *Client) Call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := ratelimit.Limit(ctx, c.limiter)
	if nil != err {
		return fmt.Errorf("%s: %w: %s", method, fault.ErrRateLimiting, err)
	}

	id := c.id.Increment()
	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if nil != err {
		return err
	}

	c.log.Tracef("request[%d]: %s", id, body)

	httpRequest, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
	if nil != err {
		return err
	}
	httpRequest = httpRequest.WithContext(ctx)
	httpRequest.Header.Set("Content-Type", "application/json")

	httpResponse, err := c.client.Do(httpRequest)
	if nil != err {
		c.log.Debugf("%s: transport error: %s", method, err)
		return fmt.Errorf("%s: %w: %s", method, fault.ErrRemoteUnavailable, err)
	}
	defer httpResponse.Body.Close()

	data, err := ioutil.ReadAll(io.LimitReader(httpResponse.Body, maximumResponseSize))
	if nil != err {
		return fmt.Errorf("%s: %w: %s", method, fault.ErrRemoteUnavailable, err)
	}

	c.log.Tracef("response[%d]: %d  %s", id, httpResponse.StatusCode, data)

	switch {
	case http.StatusTooManyRequests == httpResponse.StatusCode:
		return fmt.Errorf("%s: %w", method, fault.ErrRateLimiting)
	case httpResponse.StatusCode >= 500:
		return fmt.Errorf("%s: %w: status: %d", method, fault.ErrRemoteUnavailable, httpResponse.StatusCode)
	case http.StatusOK != httpResponse.StatusCode:
		return fmt.Errorf("%s: %w: status: %d", method, fault.ErrUnexpectedResponse, httpResponse.StatusCode)
	}

	var reply response
	err = json.Unmarshal(data, &reply)
	if nil != err {
		return fmt.Errorf("%s: %w: %s", method, fault.ErrUnexpectedResponse, err)
	}
	if nil != reply.Error {
		c.log.Debugf("%s: error: %d  %s", method, reply.Error.Code, reply.Error.Message)
		return fmt.Errorf("%s: %w", method, classifyRPCError(reply.Error))
	}
	if nil == result {
		return nil
	}

	err = json.Unmarshal(reply.Result, result)
	if nil != err {
		return fmt.Errorf("%s: %w: %s", method, fault.ErrUnexpectedResponse, err)
	}
	return nil
}

func (c *Client) config(extra map[string]interface{}) map[string]interface{} {
	m := map[string]interface{}{
		"commitment": c.commitment,
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}
