// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish_test

import (
	"encoding/json"
	"testing"
	"time"

	zmq "github.com/pebbe/zmq4"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/proofminer/background"
	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/miner"
	"github.com/bitmark-inc/proofminer/publish"
)

const broadcast = "127.0.0.1:23917"

func TestNewInvalidAddress(t *testing.T) {
	_, err := publish.New(&publish.Configuration{Broadcast: []string{"*:2139"}})
	assert.Equal(t, fault.ErrInvalidIPAddress, err, "wrong error")
}

func TestNewMissingKeys(t *testing.T) {
	_, err := publish.New(&publish.Configuration{
		Broadcast:  []string{broadcast},
		PrivateKey: "/no/such/publish.private",
	})
	assert.NotNil(t, err, "missing key file accepted")
}

func TestBroadcast(t *testing.T) {
	brdc, err := publish.New(&publish.Configuration{Broadcast: []string{broadcast}})
	if !assert.Nil(t, err, "new broadcaster") {
		return
	}
	processes := background.Start(background.Processes{brdc}, nil)
	defer processes.Stop()

	sub, err := zmq.NewSocket(zmq.SUB)
	assert.Nil(t, err, "subscriber")
	defer sub.Close()
	sub.SetRcvtimeo(50 * time.Millisecond)
	sub.SetSubscribe("outcome")
	assert.Nil(t, sub.Connect("tcp://"+broadcast), "connect")

	sent := miner.Outcome{Epoch: 1010, Landing: miner.Landed, Difficulty: 21, Fee: 1500, Attempts: 2}

	// PUB drops messages until the subscription has propagated
	var frames [][]byte
	for i := 0; i < 100 && nil == frames; i += 1 {
		brdc.Record(sent)
		frames, _ = sub.RecvMessageBytes(0)
	}

	if !assert.Equal(t, 3, len(frames), "wrong frame count") {
		return
	}
	assert.Equal(t, "outcome", string(frames[0]), "wrong topic")
	assert.Equal(t, "landed", string(frames[1]), "wrong landing")

	var received miner.Outcome
	assert.Nil(t, json.Unmarshal(frames[2], &received), "decode")
	assert.Equal(t, sent.Epoch, received.Epoch, "wrong epoch")
	assert.Equal(t, sent.Landing, received.Landing, "wrong landing")
	assert.Equal(t, sent.Fee, received.Fee, "wrong fee")
}
