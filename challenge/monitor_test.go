// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package challenge_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/challenge"
	"github.com/bitmark-inc/proofminer/challenge/mocks"
	"github.com/bitmark-inc/proofminer/digest"
	"github.com/bitmark-inc/proofminer/fault"
)

var (
	proofAddress  = account.PublicKey{0x11}
	configAddress = account.PublicKey{0x22}
)

func newMonitor(t *testing.T, reader challenge.AccountReader) *challenge.Monitor {
	m, err := challenge.NewMonitor(reader, challenge.Options{
		Proof:  proofAddress,
		Config: configAddress,
	})
	assert.Nil(t, err, "new monitor")
	return m
}

func proofData(lastHashAt int64) []byte {
	p := &challenge.Proof{
		Authority:  account.PublicKey{0x33},
		Balance:    500,
		Challenge:  digest.Seed{0xca, 0xfe},
		LastHashAt: lastHashAt,
	}
	return p.Pack()
}

func TestNewMonitorMissingAddress(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	_, err := challenge.NewMonitor(mocks.NewMockAccountReader(ctl), challenge.Options{Proof: proofAddress})
	assert.Equal(t, fault.ErrMissingAddress, err, "wrong error")
	assert.True(t, fault.IsErrConfig(err), "missing address must be a config error")
}

func TestCurrent(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	reader := mocks.NewMockAccountReader(ctl)

	config := &challenge.Config{
		BaseRewardRate: 100,
		LastResetAt:    1000,
		MinDifficulty:  12,
		TopBalance:     1000,
	}
	clock := &challenge.Clock{UnixTimestamp: 1030}

	gomock.InOrder(
		reader.EXPECT().GetAccountData(gomock.Any(), proofAddress).Return(proofData(1010), nil).Times(1),
		reader.EXPECT().GetAccountData(gomock.Any(), configAddress).Return(config.Pack(), nil).Times(1),
		reader.EXPECT().GetAccountData(gomock.Any(), account.ClockSysvar).Return(clock.Pack(), nil).Times(1),
	)

	c, err := newMonitor(t, reader).Current(context.Background())
	assert.Nil(t, err, "current")
	assert.Equal(t, uint64(1010), c.Epoch, "wrong epoch")
	assert.Equal(t, digest.Seed{0xca, 0xfe}, c.Seed, "wrong seed")
	assert.Equal(t, uint32(12), c.TargetDifficulty, "wrong target")
	assert.Equal(t, uint64(500), c.Balance, "wrong balance")
	assert.Equal(t, uint64(1000), c.TopBalance, "wrong top balance")
	assert.Equal(t, uint64(100), c.BaseRewardRate, "wrong base reward")
	assert.Equal(t, time.Unix(1070, 0), c.ExpiresAt, "wrong expiry")
	assert.Equal(t, time.Unix(1030, 0), c.ChainTime, "wrong chain time")
	assert.False(t, c.NeedsReset, "reset is not due until 1055")
	assert.False(t, c.ObservedAt.IsZero(), "observation time missing")
}

func TestCurrentNeedsReset(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	reader := mocks.NewMockAccountReader(ctl)

	config := &challenge.Config{LastResetAt: 1000, MinDifficulty: 8}
	clock := &challenge.Clock{UnixTimestamp: 1055}

	reader.EXPECT().GetAccountData(gomock.Any(), proofAddress).Return(proofData(1050), nil).Times(1)
	reader.EXPECT().GetAccountData(gomock.Any(), configAddress).Return(config.Pack(), nil).Times(1)
	reader.EXPECT().GetAccountData(gomock.Any(), account.ClockSysvar).Return(clock.Pack(), nil).Times(1)

	c, err := newMonitor(t, reader).Current(context.Background())
	assert.Nil(t, err, "current")
	assert.True(t, c.NeedsReset, "reset is due five seconds early")
}

func TestCurrentRemoteFailure(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	reader := mocks.NewMockAccountReader(ctl)
	reader.EXPECT().GetAccountData(gomock.Any(), proofAddress).Return(nil, errors.New("connection refused")).Times(1)

	_, err := newMonitor(t, reader).Current(context.Background())
	assert.NotNil(t, err, "error expected")
	assert.True(t, fault.IsErrRemote(err), "failure must be classed as remote: %s", err)
	assert.True(t, errors.Is(err, fault.ErrRemoteUnavailable), "unclassified failures are remote unavailable")
}

func TestCurrentMissingAccount(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	reader := mocks.NewMockAccountReader(ctl)
	reader.EXPECT().GetAccountData(gomock.Any(), proofAddress).Return(proofData(1010), nil).Times(1)
	reader.EXPECT().GetAccountData(gomock.Any(), configAddress).Return(nil, fmt.Errorf("%w: %s", fault.ErrAccountNotFound, configAddress)).Times(1)

	_, err := newMonitor(t, reader).Current(context.Background())
	assert.True(t, errors.Is(err, fault.ErrMissingAccount), "wrong error: %s", err)
	assert.True(t, fault.IsErrConfig(err), "missing account must stop mining: %s", err)
	assert.False(t, fault.IsErrRemote(err), "missing account must not be retried: %s", err)
}

func TestCurrentBadData(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	reader := mocks.NewMockAccountReader(ctl)
	reader.EXPECT().GetAccountData(gomock.Any(), proofAddress).Return([]byte{1, 2, 3}, nil).Times(1)

	_, err := newMonitor(t, reader).Current(context.Background())
	assert.Equal(t, fault.ErrAccountDataTooShort, err, "wrong error")
}

func TestHasRotated(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	reader := mocks.NewMockAccountReader(ctl)
	gomock.InOrder(
		reader.EXPECT().GetAccountData(gomock.Any(), proofAddress).Return(proofData(1010), nil).Times(1),
		reader.EXPECT().GetAccountData(gomock.Any(), proofAddress).Return(proofData(1072), nil).Times(1),
	)

	m := newMonitor(t, reader)

	rotated, err := m.HasRotated(context.Background(), 1010)
	assert.Nil(t, err, "first check")
	assert.False(t, rotated, "same epoch reported as rotated")

	rotated, err = m.HasRotated(context.Background(), 1010)
	assert.Nil(t, err, "second check")
	assert.True(t, rotated, "new epoch not detected")
}

func TestWaitForRotation(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	reader := mocks.NewMockAccountReader(ctl)
	gomock.InOrder(
		reader.EXPECT().GetAccountData(gomock.Any(), proofAddress).Return(proofData(1010), nil).Times(1),
		reader.EXPECT().GetAccountData(gomock.Any(), proofAddress).Return(nil, fault.ErrRateLimiting).Times(1),
		reader.EXPECT().GetAccountData(gomock.Any(), proofAddress).Return(proofData(1072), nil).Times(1),
	)

	err := newMonitor(t, reader).WaitForRotation(context.Background(), 1010, time.Millisecond)
	assert.Nil(t, err, "wait")
}

func TestWaitForRotationMissingProof(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	reader := mocks.NewMockAccountReader(ctl)
	reader.EXPECT().GetAccountData(gomock.Any(), proofAddress).Return(nil, fault.ErrAccountNotFound).Times(1)

	err := newMonitor(t, reader).WaitForRotation(context.Background(), 1010, time.Millisecond)
	assert.True(t, errors.Is(err, fault.ErrMissingAccount), "wrong error: %v", err)
}

func TestWaitForRotationCancelled(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	reader := mocks.NewMockAccountReader(ctl)
	reader.EXPECT().GetAccountData(gomock.Any(), proofAddress).Return(proofData(1010), nil).AnyTimes()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := newMonitor(t, reader).WaitForRotation(ctx, 1010, time.Millisecond)
	assert.Equal(t, context.DeadlineExceeded, err, "wrong error")
}

func TestDeadline(t *testing.T) {
	observed := time.Unix(5000, 0)
	c := challenge.Challenge{
		ChainTime:  time.Unix(1030, 0),
		ExpiresAt:  time.Unix(1070, 0),
		ObservedAt: observed,
	}

	assert.Equal(t, observed.Add(32*time.Second), c.Deadline(0, 8*time.Second), "cutoff only")
	assert.Equal(t, observed.Add(10*time.Second), c.Deadline(10*time.Second, 8*time.Second), "round duration is shorter")
	assert.Equal(t, observed.Add(10*time.Second), c.Deadline(10*time.Second, time.Minute), "buffer covers the cutoff")
	assert.Equal(t, observed.Add(time.Second), c.Deadline(0, time.Minute), "never a zero length round")

	// chain clock already beyond the estimated rotation
	stale := challenge.Challenge{
		ChainTime:  time.Unix(1120, 0),
		ExpiresAt:  time.Unix(1060, 0),
		ObservedAt: observed,
	}
	assert.Equal(t, observed.Add(60*time.Second), stale.Deadline(60*time.Second, 8*time.Second), "past the cutoff")

	unknown := challenge.Challenge{ObservedAt: observed}
	assert.Equal(t, observed.Add(15*time.Second), unknown.Deadline(15*time.Second, 8*time.Second), "no estimate available")
}
