// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package history_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/history"
	"github.com/bitmark-inc/proofminer/miner"
)

func newStore(t *testing.T) (*history.Store, *leveldb.DB) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if nil != err {
		t.Fatalf("open memory database: %s", err)
	}
	s, err := history.New(db, false)
	if nil != err {
		t.Fatalf("new store: %s", err)
	}
	return s, db
}

func TestRecordAndRecent(t *testing.T) {
	s, _ := newStore(t)
	defer s.Close()

	base := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	outcomes := []miner.Outcome{
		{Epoch: 100, Landing: miner.BelowTarget, Difficulty: 6, Hashes: 1000, Time: base},
		{Epoch: 100, Landing: miner.Landed, Difficulty: 14, Hashes: 2000, Fee: 1500, Reward: 400, Attempts: 2, Time: base.Add(time.Minute)},
		{Epoch: 160, Landing: miner.Abandoned, Difficulty: 11, Hashes: 500, Reason: "epoch rotated", Time: base.Add(2 * time.Minute)},
		{Epoch: 220, Landing: miner.Rejected, Difficulty: 9, Hashes: 700, Fee: 1000, Attempts: 1, Time: base.Add(3 * time.Minute)},
	}
	for _, o := range outcomes {
		assert.Nil(t, s.Record(o), "record epoch: %d", o.Epoch)
	}

	recent, err := s.Recent(3)
	assert.Nil(t, err, "recent")
	if assert.Equal(t, 3, len(recent), "wrong count") {
		assert.Equal(t, uint64(220), recent[0].Epoch, "newest first")
		assert.Equal(t, miner.Rejected, recent[0].Landing, "landing not kept")
		assert.Equal(t, uint64(160), recent[1].Epoch, "second newest")
		assert.Equal(t, "epoch rotated", recent[1].Reason, "reason not kept")
		assert.Equal(t, miner.Landed, recent[2].Landing, "third newest")
		assert.True(t, outcomes[1].Time.Equal(recent[2].Time), "time not kept")
	}

	all, err := s.Recent(100)
	assert.Nil(t, err, "recent all")
	assert.Equal(t, len(outcomes), len(all), "fewer outcomes than requested")

	_, err = s.Recent(0)
	assert.Equal(t, fault.ErrInvalidCount, err, "zero count accepted")

	epoch, err := s.Epoch(100)
	assert.Nil(t, err, "epoch")
	if assert.Equal(t, 2, len(epoch), "outcomes in epoch 100") {
		assert.Equal(t, miner.BelowTarget, epoch[0].Landing, "oldest first")
		assert.Equal(t, miner.Landed, epoch[1].Landing, "then landed")
	}

	none, err := s.Epoch(999)
	assert.Nil(t, err, "empty epoch")
	assert.Equal(t, 0, len(none), "unknown epoch")
}

func TestTotals(t *testing.T) {
	s, _ := newStore(t)
	defer s.Close()

	totals, err := s.Totals()
	assert.Nil(t, err, "empty totals")
	assert.Equal(t, uint64(0), totals.Rounds, "no rounds yet")

	now := time.Now()
	records := []miner.Outcome{
		{Epoch: 1, Landing: miner.Landed, Difficulty: 12, Hashes: 10, Fee: 100, Reward: 50, Time: now},
		{Epoch: 2, Landing: miner.Landed, Difficulty: 17, Hashes: 20, Fee: 200, Reward: 70, Time: now.Add(time.Second)},
		{Epoch: 3, Landing: miner.Rejected, Difficulty: 15, Hashes: 30, Fee: 300, Time: now.Add(2 * time.Second)},
	}
	for _, o := range records {
		assert.Nil(t, s.Record(o), "record")
	}

	totals, err = s.Totals()
	assert.Nil(t, err, "totals")
	assert.Equal(t, uint64(3), totals.Rounds, "rounds")
	assert.Equal(t, uint64(60), totals.Hashes, "hashes")
	assert.Equal(t, uint64(120), totals.Rewards, "rewards")
	assert.Equal(t, uint64(300), totals.Fees, "only landed fees are paid")
	assert.Equal(t, uint32(17), totals.Best, "best difficulty")
	assert.Equal(t, uint64(2), totals.Landings[miner.Landed], "landed count")
	assert.Equal(t, uint64(1), totals.Landings[miner.Rejected], "rejected count")
}

func TestReopen(t *testing.T) {
	_, db := newStore(t)

	// an initialised database opens read only
	s, err := history.New(db, true)
	assert.Nil(t, err, "reopen")
	assert.NotNil(t, s, "store")
	db.Close()

	empty, err := leveldb.Open(storage.NewMemStorage(), nil)
	assert.Nil(t, err, "open")
	defer empty.Close()
	_, err = history.New(empty, true)
	assert.Equal(t, fault.ErrDatabaseNotInitialised, err, "read only use of a new database")
}

func TestIncompatibleVersion(t *testing.T) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	assert.Nil(t, err, "open")
	defer db.Close()

	assert.Nil(t, db.Put([]byte{'V'}, []byte{0, 0, 0, 9}, nil), "put version")
	_, err = history.New(db, false)
	assert.True(t, fault.IsErrProcess(err), "wrong error: %s", err)
}
