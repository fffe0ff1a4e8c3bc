// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package challenge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/fault"
)

// defaults for Options
const (
	DefaultEpochDuration = 60 * time.Second
	DefaultResetInterval = 60 * time.Second
	DefaultTimeout       = 10 * time.Second

	// a reset is included this long before it is due
	resetLead = 5 * time.Second
)

// AccountReader - read raw account data from the remote program
type AccountReader interface {
	GetAccountData(ctx context.Context, address account.PublicKey) ([]byte, error)
}

// Options - addresses and timing for a monitor
type Options struct {
	Proof         account.PublicKey
	Config        account.PublicKey
	Clock         account.PublicKey // defaults to the clock sysvar
	EpochDuration time.Duration
	ResetInterval time.Duration
	Timeout       time.Duration // applied to each read
}

// Monitor - reads the current challenge and detects rotation
type Monitor struct {
	log     *logger.L
	reader  AccountReader
	options Options
	now     func() time.Time
}

// NewMonitor - create a monitor
func NewMonitor(reader AccountReader, options Options) (*Monitor, error) {
	if options.Proof.IsZero() || options.Config.IsZero() {
		return nil, fault.ErrMissingAddress
	}
	if options.Clock.IsZero() {
		options.Clock = account.ClockSysvar
	}
	if options.EpochDuration <= 0 {
		options.EpochDuration = DefaultEpochDuration
	}
	if options.ResetInterval <= 0 {
		options.ResetInterval = DefaultResetInterval
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}

	return &Monitor{
		log:     logger.New("monitor"),
		reader:  reader,
		options: options,
		now:     time.Now,
	}, nil
}

// Current - read the challenge now in force
//
// failures are returned to the caller, nothing is retried here
func (m *Monitor) Current(ctx context.Context) (Challenge, error) {
	proof, err := m.Proof(ctx)
	if nil != err {
		return Challenge{}, err
	}

	data, err := m.read(ctx, "config", m.options.Config)
	if nil != err {
		return Challenge{}, err
	}
	config, err := DecodeConfig(data)
	if nil != err {
		return Challenge{}, err
	}

	data, err = m.read(ctx, "clock", m.options.Clock)
	if nil != err {
		return Challenge{}, err
	}
	clock, err := DecodeClock(data)
	if nil != err {
		return Challenge{}, err
	}

	chainTime := time.Unix(clock.UnixTimestamp, 0)
	lastReset := time.Unix(config.LastResetAt, 0)

	c := Challenge{
		Epoch:            uint64(proof.LastHashAt),
		Seed:             proof.Challenge,
		TargetDifficulty: uint32(config.MinDifficulty),
		Authority:        proof.Authority,
		Balance:          proof.Balance,
		TopBalance:       config.TopBalance,
		BaseRewardRate:   config.BaseRewardRate,
		NeedsReset:       !lastReset.Add(m.options.ResetInterval - resetLead).After(chainTime),
		ChainTime:        chainTime,
		ExpiresAt:        time.Unix(proof.LastHashAt, 0).Add(m.options.EpochDuration),
		ObservedAt:       m.now(),
	}

	m.log.Debugf("epoch: %d  target: %d  expires: %s  reset: %t", c.Epoch, c.TargetDifficulty, c.ExpiresAt.Format(time.RFC3339), c.NeedsReset)
	return c, nil
}

// Proof - read and decode the proof account
func (m *Monitor) Proof(ctx context.Context) (*Proof, error) {
	data, err := m.read(ctx, "proof", m.options.Proof)
	if nil != err {
		return nil, err
	}
	return DecodeProof(data)
}

// HasRotated - true if the epoch is no longer the given one
func (m *Monitor) HasRotated(ctx context.Context, epoch uint64) (bool, error) {
	proof, err := m.Proof(ctx)
	if nil != err {
		return false, err
	}
	current := uint64(proof.LastHashAt)
	if current != epoch {
		m.log.Infof("epoch rotated: %d → %d", epoch, current)
		return true, nil
	}
	return false, nil
}

// WaitForRotation - poll until the epoch moves on
//
// read failures are logged and polling continues, only cancellation
// or a configuration error ends the wait early
func (m *Monitor) WaitForRotation(ctx context.Context, epoch uint64, poll time.Duration) error {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		rotated, err := m.HasRotated(ctx, epoch)
		if fault.IsErrConfig(err) {
			return err
		} else if nil != err {
			m.log.Warnf("waiting for rotation: %s", err)
		} else if rotated {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// read one account with its own timeout
//
// anything that is not already classified is reported as the remote
// being unavailable
func (m *Monitor) read(ctx context.Context, name string, address account.PublicKey) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, m.options.Timeout)
	defer cancel()

	data, err := m.reader.GetAccountData(ctx, address)
	if nil == err {
		m.log.Tracef("%s: %s: %d bytes", name, address, len(data))
		return data, nil
	}
	if errors.Is(err, fault.ErrAccountNotFound) {
		m.log.Criticalf("%s: %s: account does not exist", name, address)
		return nil, fmt.Errorf("read %s: %w: %s", name, fault.ErrMissingAccount, address)
	}
	if fault.IsErrRemote(err) {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return nil, fmt.Errorf("read %s: %w: %s", name, fault.ErrRemoteUnavailable, err)
}
