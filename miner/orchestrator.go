// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package miner

import (
	"context"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/proofminer/background"
	"github.com/bitmark-inc/proofminer/challenge"
	"github.com/bitmark-inc/proofminer/difficulty"
	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/hashsearch"
	"github.com/bitmark-inc/proofminer/submit"
)

// defaults for Options
const (
	DefaultRoundDuration       = 60 * time.Second
	DefaultBuffer              = 8 * time.Second
	DefaultRotationPoll        = 2 * time.Second
	DefaultRetryDelay          = time.Second
	DefaultMaxRetryDelay       = 30 * time.Second
	DefaultMaxChallengeRetries = 8
)

// ChallengeSource - the remote challenge state
type ChallengeSource interface {
	Current(ctx context.Context) (challenge.Challenge, error)
	HasRotated(ctx context.Context, epoch uint64) (bool, error)
	WaitForRotation(ctx context.Context, epoch uint64, poll time.Duration) error
}

// Searcher - runs one search round
type Searcher interface {
	RunRound(ctx context.Context, c challenge.Challenge, workers int, deadline time.Time) (hashsearch.Round, error)
}

// Lander - takes a winner to a terminal outcome
type Lander interface {
	Land(ctx context.Context, c challenge.Challenge, w hashsearch.Winner) submit.Outcome
}

// Sink - receives every round outcome
type Sink interface {
	Record(o Outcome) error
}

// Options - round settings
type Options struct {
	Workers             int
	RoundDuration       time.Duration
	Buffer              time.Duration
	RotationPoll        time.Duration
	RetryDelay          time.Duration
	MaxRetryDelay       time.Duration
	MaxChallengeRetries int

	Sinks    []Sink
	Outcomes chan<- Outcome // optional
}

// Orchestrator - repeats mining rounds until shutdown
type Orchestrator struct {
	sync.RWMutex

	log      *logger.L
	source   ChallengeSource
	searcher Searcher
	lander   Lander
	options  Options
	workers  int

	stopped chan struct{}
	err     error
}

// New - create an orchestrator
func New(source ChallengeSource, searcher Searcher, lander Lander, options Options) (*Orchestrator, error) {
	if options.Workers <= 0 {
		return nil, fault.ErrNoWorkers
	}
	if options.RoundDuration <= 0 {
		options.RoundDuration = DefaultRoundDuration
	}
	if options.Buffer < 0 {
		options.Buffer = 0
	}
	if options.RotationPoll <= 0 {
		options.RotationPoll = DefaultRotationPoll
	}
	if options.RetryDelay <= 0 {
		options.RetryDelay = DefaultRetryDelay
	}
	if options.MaxRetryDelay < options.RetryDelay {
		options.MaxRetryDelay = DefaultMaxRetryDelay
		if options.MaxRetryDelay < options.RetryDelay {
			options.MaxRetryDelay = options.RetryDelay
		}
	}
	if options.MaxChallengeRetries <= 0 {
		options.MaxChallengeRetries = DefaultMaxChallengeRetries
	}

	return &Orchestrator{
		log:      logger.New("miner"),
		source:   source,
		searcher: searcher,
		lander:   lander,
		options:  options,
		workers:  options.Workers,
		stopped:  make(chan struct{}),
	}, nil
}

// SetWorkers - worker count for the following rounds
func (o *Orchestrator) SetWorkers(n int) error {
	if n <= 0 {
		return fault.ErrNoWorkers
	}
	o.Lock()
	o.workers = n
	o.Unlock()
	o.log.Infof("workers: %d", n)
	return nil
}

// Workers - worker count for the next round
func (o *Orchestrator) Workers() int {
	o.RLock()
	defer o.RUnlock()
	return o.workers
}

// Stopped - closed when Run returns
func (o *Orchestrator) Stopped() <-chan struct{} {
	return o.stopped
}

// Err - the fatal error that ended Run, if any
func (o *Orchestrator) Err() error {
	o.RLock()
	defer o.RUnlock()
	return o.err
}

// Run - mine until shutdown or a configuration error
func (o *Orchestrator) Run(args interface{}, shutdown <-chan struct{}) {
	defer close(o.stopped)

	ctx, cancel := background.ShutdownContext(shutdown)
	defer cancel()

	o.log.Info("starting…")
loop:
	for {
		outcome, err := o.RunRound(ctx)
		switch {
		case nil != ctx.Err():
			break loop
		case nil == err:
			o.log.Infof("round: %s", outcome)
			continue loop
		case fault.IsErrConfig(err):
			o.log.Criticalf("round: %s", err)
			o.Lock()
			o.err = err
			o.Unlock()
			break loop
		default:
			o.log.Warnf("round lost: %s", err)
		}

		if nil != sleep(ctx, o.options.RetryDelay) {
			break loop
		}
	}
	o.log.Info("stopped")
}

// RunRound - one complete round
//
// an abandoned, below target or unsuccessful landing is a normal
// outcome; err is only set when no outcome could be produced
func (o *Orchestrator) RunRound(ctx context.Context) (Outcome, error) {
	start := time.Now()

	c, err := o.challenge(ctx)
	if nil != err {
		return Outcome{}, err
	}
	o.log.Infof("epoch: %d  target: %d  seed: %s  reset: %t", c.Epoch, c.TargetDifficulty, c.Seed, c.NeedsReset)

	outcome := Outcome{
		Epoch:  c.Epoch,
		Seed:   c.Seed,
		Target: c.TargetDifficulty,
		Worker: -1,
	}

	deadline := c.Deadline(o.options.RoundDuration, o.options.Buffer)
	round, rotated, err := o.search(ctx, c, deadline)
	outcome.Hashes = round.Hashes
	outcome.Rate = round.Rate

	switch {
	case rotated:
		return o.finish(ctx, outcome, Abandoned, fault.ErrEpochRotated, start), nil
	case nil != ctx.Err():
		return outcome, ctx.Err()
	case nil != err:
		return outcome, err
	}

	w := round.Winner
	outcome.Difficulty = w.Difficulty
	outcome.Nonce = w.Nonce
	outcome.Worker = w.Worker

	// the search may have ended just before a rotation was seen
	rotated, err = o.source.HasRotated(ctx, c.Epoch)
	if nil != err {
		o.log.Warnf("epoch: %d  rotation recheck: %s", c.Epoch, err)
	} else if rotated {
		return o.finish(ctx, outcome, Abandoned, fault.ErrEpochRotated, start), nil
	}

	if !w.Valid || w.Difficulty < c.TargetDifficulty {
		o.log.Infof("epoch: %d  best difficulty: %d below target: %d", c.Epoch, w.Difficulty, c.TargetDifficulty)
		return o.finish(ctx, outcome, BelowTarget, fault.ErrDifficultyBelowTarget, start), nil
	}

	result := o.lander.Land(ctx, c, w)
	outcome.Signature = result.Signature
	outcome.Slot = result.Slot
	outcome.Fee = result.Fee
	outcome.Attempts = len(result.Attempts)

	var landing Landing
	switch result.State {
	case submit.Landed:
		landing = Landed
		rate := difficulty.RewardRate(c.BaseRewardRate, c.TargetDifficulty, w.Difficulty)
		outcome.Reward = uint64(float64(rate) * difficulty.Multiplier(c.Balance, c.TopBalance))
	case submit.Expired:
		landing = Expired
	default:
		landing = Rejected
	}
	outcome = o.finish(ctx, outcome, landing, result.Reason, start)

	if Landed == landing {
		if err := o.source.WaitForRotation(ctx, c.Epoch, o.options.RotationPoll); nil != err {
			return outcome, err
		}
	}
	return outcome, nil
}

// read the challenge with bounded backoff on remote failures
func (o *Orchestrator) challenge(ctx context.Context) (challenge.Challenge, error) {
	delay := o.options.RetryDelay
	for i := 1; ; i += 1 {
		c, err := o.source.Current(ctx)
		if nil == err {
			return c, nil
		}
		if !fault.IsErrRemote(err) || i >= o.options.MaxChallengeRetries {
			return challenge.Challenge{}, err
		}

		o.log.Warnf("challenge: %s  retry: %d in %s", err, i, delay)
		if err := sleep(ctx, delay); nil != err {
			return challenge.Challenge{}, err
		}
		delay *= 2
		if delay > o.options.MaxRetryDelay {
			delay = o.options.MaxRetryDelay
		}
	}
}

// search until the deadline, stopping early if the epoch rotates
func (o *Orchestrator) search(ctx context.Context, c challenge.Challenge, deadline time.Time) (hashsearch.Round, bool, error) {
	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rotated := make(chan bool, 1)
	go func() {
		rotated <- o.watchRotation(searchCtx, c.Epoch, cancel)
	}()

	round, err := o.searcher.RunRound(searchCtx, c, o.Workers(), deadline)
	cancel()

	if <-rotated {
		o.log.Infof("epoch: %d  rotated during search, round abandoned", c.Epoch)
		return round, true, err
	}
	return round, false, err
}

// poll for rotation, cancelling the search when it happens
func (o *Orchestrator) watchRotation(ctx context.Context, epoch uint64, cancel context.CancelFunc) bool {
	ticker := time.NewTicker(o.options.RotationPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}

		rotated, err := o.source.HasRotated(ctx, epoch)
		if nil != err {
			if nil == ctx.Err() {
				o.log.Debugf("epoch: %d  rotation poll: %s", epoch, err)
			}
			continue
		}
		if rotated {
			cancel()
			return true
		}
	}
}

// complete the outcome and hand it to every sink
func (o *Orchestrator) finish(ctx context.Context, outcome Outcome, landing Landing, reason error, start time.Time) Outcome {
	outcome.Landing = landing
	if nil != reason {
		outcome.Reason = reason.Error()
	}
	outcome.Time = time.Now()
	outcome.Elapsed = outcome.Time.Sub(start)

	for _, sink := range o.options.Sinks {
		if err := sink.Record(outcome); nil != err {
			o.log.Errorf("epoch: %d  record outcome: %s", outcome.Epoch, err)
		}
	}
	if nil != o.options.Outcomes {
		select {
		case o.options.Outcomes <- outcome:
		case <-ctx.Done():
		}
	}
	return outcome
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
