// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/miner"
)

const (
	currentVersion = 1

	outcomePrefix = 'o'
	keySize       = 1 + 8 + 8
)

var (
	versionKey = []byte{'V'}
	totalsKey  = []byte{'S'}
)

// Totals - running summary of every recorded round
type Totals struct {
	Rounds   uint64                    `json:"rounds"`
	Hashes   uint64                    `json:"hashes"`
	Rewards  uint64                    `json:"rewards"`
	Fees     uint64                    `json:"fees"`
	Best     uint32                    `json:"best"`
	Landings map[miner.Landing]uint64 `json:"landings"`
}

// Store - outcome database
type Store struct {
	sync.Mutex

	log *logger.L
	db  *leveldb.DB
}

// Open - open or create the database at a path
func Open(name string, readOnly bool) (*Store, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, err
	}

	s, err := New(db, readOnly)
	if nil != err {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New - use an already open database
func New(db *leveldb.DB, readOnly bool) (*Store, error) {
	log := logger.New("history")

	version, err := getVersion(db)
	if nil != err {
		return nil, err
	}
	switch version {
	case currentVersion:
	case 0:
		if readOnly {
			return nil, fault.ErrDatabaseNotInitialised
		}
		if err := putVersion(db, currentVersion); nil != err {
			return nil, err
		}
		log.Infof("initialised database version: %d", currentVersion)
	default:
		return nil, fmt.Errorf("%w: expected: %d  actual: %d", fault.ErrIncompatibleDatabase, currentVersion, version)
	}

	return &Store{
		log: log,
		db:  db,
	}, nil
}

// Close - flush and close the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Record - store an outcome and update the totals
func (s *Store) Record(o miner.Outcome) error {
	value, err := json.Marshal(o)
	if nil != err {
		return err
	}

	s.Lock()
	defer s.Unlock()

	totals, err := s.totals()
	if nil != err {
		return err
	}
	totals.Rounds += 1
	totals.Hashes += o.Hashes
	totals.Rewards += o.Reward
	if miner.Landed == o.Landing {
		totals.Fees += o.Fee
	}
	if o.Difficulty > totals.Best {
		totals.Best = o.Difficulty
	}
	totals.Landings[o.Landing] += 1

	t, err := json.Marshal(totals)
	if nil != err {
		return err
	}

	batch := new(leveldb.Batch)
	batch.Put(outcomeKey(o), value)
	batch.Put(totalsKey, t)
	if err := s.db.Write(batch, nil); nil != err {
		return err
	}
	s.log.Debugf("recorded: %s", o)
	return nil
}

// Recent - up to count outcomes, newest first
func (s *Store) Recent(count int) ([]miner.Outcome, error) {
	if count <= 0 {
		return nil, fault.ErrInvalidCount
	}

	iter := s.db.NewIterator(util.BytesPrefix([]byte{outcomePrefix}), nil)
	defer iter.Release()

	outcomes := make([]miner.Outcome, 0, count)
	for ok := iter.Last(); ok && len(outcomes) < count; ok = iter.Prev() {
		var o miner.Outcome
		if err := json.Unmarshal(iter.Value(), &o); nil != err {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, iter.Error()
}

// Epoch - every outcome recorded for one epoch, oldest first
func (s *Store) Epoch(epoch uint64) ([]miner.Outcome, error) {
	prefix := make([]byte, 1+8)
	prefix[0] = outcomePrefix
	binary.BigEndian.PutUint64(prefix[1:], epoch)

	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	outcomes := []miner.Outcome{}
	for iter.Next() {
		var o miner.Outcome
		if err := json.Unmarshal(iter.Value(), &o); nil != err {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, iter.Error()
}

// Totals - summary of every recorded round
func (s *Store) Totals() (Totals, error) {
	s.Lock()
	defer s.Unlock()
	return s.totals()
}

func (s *Store) totals() (Totals, error) {
	totals := Totals{}
	value, err := s.db.Get(totalsKey, nil)
	if leveldb.ErrNotFound == err {
		totals.Landings = make(map[miner.Landing]uint64)
		return totals, nil
	}
	if nil != err {
		return totals, err
	}
	if err := json.Unmarshal(value, &totals); nil != err {
		return totals, err
	}
	if nil == totals.Landings {
		totals.Landings = make(map[miner.Landing]uint64)
	}
	return totals, nil
}

// key orders by epoch then by time
func outcomeKey(o miner.Outcome) []byte {
	key := make([]byte, keySize)
	key[0] = outcomePrefix
	binary.BigEndian.PutUint64(key[1:], o.Epoch)
	binary.BigEndian.PutUint64(key[9:], uint64(o.Time.UnixNano()))
	return key
}

func getVersion(db *leveldb.DB) (int, error) {
	value, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}
	if 4 != len(value) {
		return 0, fmt.Errorf("%w: version length: %d", fault.ErrIncompatibleDatabase, len(value))
	}
	return int(binary.BigEndian.Uint32(value)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	value := make([]byte, 4)
	binary.BigEndian.PutUint32(value, uint32(version))
	return db.Put(versionKey, value, nil)
}
