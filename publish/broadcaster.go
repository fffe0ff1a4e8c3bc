// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"encoding/json"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/miner"
	"github.com/bitmark-inc/proofminer/util"
	"github.com/bitmark-inc/proofminer/zmqutil"
)

const (
	broadcasterZapDomain = "broadcaster"
	outcomeTopic         = "outcome"
	queueSize            = 32
)

// Configuration - a block of configuration data
type Configuration struct {
	Broadcast  []string `gluamapper:"broadcast" json:"broadcast"`
	PrivateKey string   `gluamapper:"private_key" json:"private_key"` // optional, enables CURVE
	PublicKey  string   `gluamapper:"public_key" json:"public_key"`
}

// Broadcaster - sends every outcome to connected subscribers
type Broadcaster struct {
	log     *logger.L
	socket4 *zmq.Socket
	socket6 *zmq.Socket
	queue   chan miner.Outcome
}

// New - bind the broadcast sockets
func New(configuration *Configuration) (*Broadcaster, error) {
	log := logger.New("publish")
	log.Info("initialising…")

	endpoints, err := util.NewEndpoints(configuration.Broadcast)
	if nil != err {
		log.Errorf("ip and port error: %s", err)
		return nil, err
	}

	var privateKey, publicKey []byte
	if "" != configuration.PrivateKey {
		privateKey, err = zmqutil.ReadPrivateKeyFile(configuration.PrivateKey)
		if nil != err {
			log.Errorf("read private key file: %q  error: %s", configuration.PrivateKey, err)
			return nil, err
		}
		publicKey, err = zmqutil.ReadPublicKeyFile(configuration.PublicKey)
		if nil != err {
			log.Errorf("read public key file: %q  error: %s", configuration.PublicKey, err)
			return nil, err
		}
	}

	socket4, socket6, err := zmqutil.NewBind(log, zmq.PUB, broadcasterZapDomain, privateKey, publicKey, endpoints)
	if nil != err {
		log.Errorf("bind error: %s", err)
		return nil, err
	}

	return &Broadcaster{
		log:     log,
		socket4: socket4,
		socket6: socket6,
		queue:   make(chan miner.Outcome, queueSize),
	}, nil
}

// Record - queue an outcome for broadcast
//
// never blocks the miner, a full queue drops the outcome
func (brdc *Broadcaster) Record(o miner.Outcome) error {
	select {
	case brdc.queue <- o:
		return nil
	default:
		brdc.log.Warnf("queue full, dropped: %s", o)
		return fault.ErrQueueFull
	}
}

// Run - send queued outcomes until shutdown
func (brdc *Broadcaster) Run(args interface{}, shutdown <-chan struct{}) {
	log := brdc.log
	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case o := <-brdc.queue:
			data, err := json.Marshal(o)
			if nil != err {
				log.Errorf("encode outcome: %s", err)
				continue loop
			}
			log.Debugf("sending: %s  epoch: %d", o.Landing, o.Epoch)
			brdc.send(brdc.socket4, o.Landing.String(), data)
			brdc.send(brdc.socket6, o.Landing.String(), data)
		}
	}

	if nil != brdc.socket4 {
		brdc.socket4.Close()
	}
	if nil != brdc.socket6 {
		brdc.socket6.Close()
	}
	log.Info("stopped")
}

func (brdc *Broadcaster) send(socket *zmq.Socket, landing string, data []byte) {
	if nil == socket {
		return
	}
	_, err := socket.SendMessageDontwait(outcomeTopic, landing, data)
	if nil != err {
		brdc.log.Warnf("send: %s", err)
	}
}
