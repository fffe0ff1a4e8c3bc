// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hashsearch

import (
	"context"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/proofminer/challenge"
	"github.com/bitmark-inc/proofminer/counter"
	"github.com/bitmark-inc/proofminer/digest"
)

const defaultRiskPoll = 100 * time.Millisecond

// Winner - the best result of a whole round
type Winner struct {
	Result
	Worker int         `json:"worker"`
	Epoch  uint64      `json:"epoch"`
	Seed   digest.Seed `json:"seed"`
}

// Round - summary of one search round
type Round struct {
	Winner  Winner
	Ranges  []NonceRange
	Hashes  uint64
	Elapsed time.Duration
	Rate    float64 // hashes per second
	Stopped bool    // false if every range was exhausted
}

// Options - settings for a scheduler
type Options struct {
	Space NonceRange // empty means FullSpace

	// below MinDifficulty at the deadline the round may run on for up
	// to RiskTime, stopping as soon as the minimum is seen
	MinDifficulty uint32
	RiskTime      time.Duration
	RiskPoll      time.Duration
}

// Scheduler - runs search rounds
type Scheduler struct {
	sync.RWMutex

	log      *logger.L
	hasher   digest.Hasher
	options  Options
	progress []Progress
}

// NewScheduler - create a scheduler for a hasher
func NewScheduler(hasher digest.Hasher, options Options) *Scheduler {
	if 0 == options.Space.Size() {
		options.Space = FullSpace
	}
	if options.RiskPoll <= 0 {
		options.RiskPoll = defaultRiskPoll
	}
	return &Scheduler{
		log:     logger.New("scheduler"),
		hasher:  hasher,
		options: options,
	}
}

// Reduce - pick the round winner from per worker results
//
// ties on difficulty go to the smallest nonce then to the lowest
// worker index; Worker is -1 if no result is valid
func Reduce(c challenge.Challenge, results []Result) Winner {
	w := Winner{
		Worker: -1,
		Epoch:  c.Epoch,
		Seed:   c.Seed,
	}
	for i, r := range results {
		if r.Better(w.Result) {
			w.Result = r
			w.Worker = i
		}
	}
	return w
}

// RunRound - search the nonce space until the deadline
//
// cancelling ctx stops the workers promptly, the partial round is
// still returned along with the context error
func (s *Scheduler) RunRound(ctx context.Context, c challenge.Challenge, workers int, deadline time.Time) (Round, error) {
	ranges, err := Partition(s.options.Space, workers)
	if nil != err {
		return Round{}, err
	}

	progress := make([]Progress, workers)
	s.Lock()
	s.progress = progress
	s.Unlock()

	s.log.Infof("epoch: %d  workers: %d  target: %d  until: %s", c.Epoch, workers, c.TargetDifficulty, deadline.Format(time.RFC3339))

	meter := counter.NewMeter()
	stop := &Flag{}
	done := make(chan struct{})
	watched := make(chan struct{})
	go func() {
		s.watch(ctx, deadline, progress, stop, done)
		close(watched)
	}()

	results := make([]Result, workers)
	var wg sync.WaitGroup
	for i := range ranges {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Search(s.hasher, c.Seed, ranges[i], stop, &progress[i])
		}(i)
	}
	wg.Wait()
	close(done)
	<-watched

	total := hashesOf(progress)
	meter.Mark(total)

	round := Round{
		Winner:  Reduce(c, results),
		Ranges:  ranges,
		Hashes:  total,
		Elapsed: time.Since(meter.Start()),
		Rate:    meter.Rate(),
		Stopped: stop.IsSet(),
	}

	s.log.Infof("epoch: %d  best: %d  nonce: %d  worker: %d  hashes: %d  rate: %.1f H/s", c.Epoch, round.Winner.Difficulty, round.Winner.Nonce, round.Winner.Worker, round.Hashes, round.Rate)

	return round, ctx.Err()
}

// Progress - best difficulty and hash count of the current round
func (s *Scheduler) Progress() (uint32, uint64) {
	s.RLock()
	defer s.RUnlock()
	return bestOf(s.progress), hashesOf(s.progress)
}

// raise the stop flag at the deadline or on cancellation
//
// if the best so far is below the minimum at the deadline, wait up
// to the risk time for a worker to reach it
func (s *Scheduler) watch(ctx context.Context, deadline time.Time, progress []Progress, stop *Flag, done <-chan struct{}) {
	defer stop.Set()

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-done:
		return
	case <-timer.C:
	}

	if s.options.RiskTime <= 0 || bestOf(progress) >= s.options.MinDifficulty {
		return
	}

	s.log.Infof("best: %d below minimum: %d, extending by: %s", bestOf(progress), s.options.MinDifficulty, s.options.RiskTime)

	risk := time.NewTimer(s.options.RiskTime)
	defer risk.Stop()
	ticker := time.NewTicker(s.options.RiskPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-risk.C:
			s.log.Warnf("risk time expired at best: %d", bestOf(progress))
			return
		case <-ticker.C:
			if bestOf(progress) >= s.options.MinDifficulty {
				return
			}
		}
	}
}

func bestOf(progress []Progress) uint32 {
	best := uint32(0)
	for i := range progress {
		if d, ok := progress[i].Best(); ok && d > best {
			best = d
		}
	}
	return best
}

func hashesOf(progress []Progress) uint64 {
	total := uint64(0)
	for i := range progress {
		total += progress[i].Hashes()
	}
	return total
}
