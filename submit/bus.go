// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package submit

import (
	"context"
	"math/rand"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/challenge"
)

const busKey = "bus"

// picks the bus holding the most rewards
type busSelector struct {
	log         *logger.L
	network     Network
	busses      []account.PublicKey
	cache       *cache.Cache
	callTimeout time.Duration
}

func newBusSelector(log *logger.L, network Network, busses []account.PublicKey, ttl time.Duration, callTimeout time.Duration) *busSelector {
	return &busSelector{
		log:         log,
		network:     network,
		busses:      busses,
		cache:       cache.New(ttl, 2*ttl),
		callTimeout: callTimeout,
	}
}

// pick - richest bus, or a random one if they cannot be read
func (b *busSelector) pick(ctx context.Context) account.PublicKey {
	if v, found := b.cache.Get(busKey); found {
		return v.(account.PublicKey)
	}
	if 1 == len(b.busses) {
		return b.busses[0]
	}

	ctx, cancel := context.WithTimeout(ctx, b.callTimeout)
	defer cancel()

	data, err := b.network.GetMultipleAccountsData(ctx, b.busses)
	if nil != err {
		bus := b.busses[rand.Intn(len(b.busses))]
		b.log.Debugf("bus read: %s, random bus: %s", err, bus)
		return bus
	}

	best := -1
	rewards := uint64(0)
	for i, d := range data {
		if nil == d {
			continue
		}
		bus, err := challenge.DecodeBus(d)
		if nil != err {
			continue
		}
		if -1 == best || bus.Rewards > rewards {
			best = i
			rewards = bus.Rewards
		}
	}
	if -1 == best {
		return b.busses[rand.Intn(len(b.busses))]
	}

	selected := b.busses[best]
	b.cache.Set(busKey, selected, cache.DefaultExpiration)
	b.log.Debugf("bus: %s  rewards: %d", selected, rewards)
	return selected
}
