// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package submit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/challenge"
	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/hashsearch"
	"github.com/bitmark-inc/proofminer/rpc"
	"github.com/bitmark-inc/proofminer/transaction"
)

// defaults for Options
const (
	DefaultMaxAttempts         = 5
	DefaultPollInterval        = 2 * time.Second
	DefaultConfirmTimeout      = 30 * time.Second
	DefaultBlockhashTTL        = 20 * time.Second
	DefaultBlockhashRetries    = 5
	DefaultBlockhashRetryDelay = 500 * time.Millisecond
	DefaultBusTTL              = 10 * time.Second
	DefaultCallTimeout         = 10 * time.Second

	blockhashKey = "blockhash"
)

// Network - the chain operations needed to land a proof
type Network interface {
	LatestBlockhash(ctx context.Context) (transaction.Blockhash, error)
	SendTransaction(ctx context.Context, tx *transaction.Transaction) (transaction.Signature, error)
	SignatureStatus(ctx context.Context, s transaction.Signature) (transaction.Status, error)
	GetMultipleAccountsData(ctx context.Context, addresses []account.PublicKey) ([][]byte, error)
}

// RotationChecker - tells whether an epoch is over
type RotationChecker interface {
	HasRotated(ctx context.Context, epoch uint64) (bool, error)
}

// FeePolicy - fee for the first attempt and for each retry
type FeePolicy interface {
	Initial(ctx context.Context, difficulty uint32) uint64
	Escalate(previous uint64) uint64
}

// Options - landing settings
type Options struct {
	Program             transaction.Program
	Busses              []account.PublicKey
	MaxAttempts         int
	PollInterval        time.Duration
	ConfirmTimeout      time.Duration
	BlockhashTTL        time.Duration
	BlockhashRetries    int
	BlockhashRetryDelay time.Duration
	BusTTL              time.Duration
	CallTimeout         time.Duration

	// program error codes meaning another proof already took the epoch
	ClaimedCodes []uint32

	// optional separate account paying fees, nil means the signer pays
	FeePayer *account.Keypair
}

// Submitter - lands winners one attempt at a time
type Submitter struct {
	sync.Mutex

	log      *logger.L
	network  Network
	rotation RotationChecker
	fees     FeePolicy
	signer   *account.Keypair
	options  Options
	claimed  map[uint32]struct{}
	cache    *cache.Cache
	busses   *busSelector
	inFlight map[flightKey]struct{}
}

type flightKey struct {
	epoch uint64
	nonce uint64
}

// what to do after an attempt
type verdict int

const (
	verdictLanded verdict = iota
	verdictRejected
	verdictRetry
	verdictTimeout
)

// NewSubmitter - create a submitter
func NewSubmitter(network Network, rotation RotationChecker, fees FeePolicy, signer *account.Keypair, options Options) (*Submitter, error) {
	if nil == signer {
		return nil, fault.ErrInvalidKeypair
	}
	if options.Program.ID.IsZero() || options.Program.Proof.IsZero() || options.Program.Config.IsZero() {
		return nil, fault.ErrMissingAddress
	}
	if 0 == len(options.Busses) {
		return nil, fault.ErrNoBusses
	}
	if options.MaxAttempts < 0 {
		return nil, fault.ErrInvalidMaxAttempts
	}
	if 0 == options.MaxAttempts {
		options.MaxAttempts = DefaultMaxAttempts
	}
	if options.PollInterval <= 0 {
		options.PollInterval = DefaultPollInterval
	}
	if options.ConfirmTimeout <= 0 {
		options.ConfirmTimeout = DefaultConfirmTimeout
	}
	if options.BlockhashTTL <= 0 {
		options.BlockhashTTL = DefaultBlockhashTTL
	}
	if options.BlockhashRetries <= 0 {
		options.BlockhashRetries = DefaultBlockhashRetries
	}
	if options.BlockhashRetryDelay <= 0 {
		options.BlockhashRetryDelay = DefaultBlockhashRetryDelay
	}
	if options.BusTTL <= 0 {
		options.BusTTL = DefaultBusTTL
	}
	if options.CallTimeout <= 0 {
		options.CallTimeout = DefaultCallTimeout
	}

	claimed := make(map[uint32]struct{}, len(options.ClaimedCodes))
	for _, code := range options.ClaimedCodes {
		claimed[code] = struct{}{}
	}

	s := &Submitter{
		log:      logger.New("submitter"),
		network:  network,
		rotation: rotation,
		fees:     fees,
		signer:   signer,
		options:  options,
		claimed:  claimed,
		cache:    cache.New(options.BlockhashTTL, 2*options.BlockhashTTL),
		inFlight: make(map[flightKey]struct{}),
	}
	s.busses = newBusSelector(s.log, network, options.Busses, options.BusTTL, options.CallTimeout)
	return s, nil
}

// Land - take a winner to a terminal outcome
//
// never more than MaxAttempts transactions are built and each is
// resolved before the next; a second concurrent call for the same
// winner is refused
func (s *Submitter) Land(ctx context.Context, c challenge.Challenge, w hashsearch.Winner) Outcome {
	key := flightKey{epoch: w.Epoch, nonce: w.Nonce}
	if !s.begin(key) {
		return Outcome{State: Rejected, Reason: fault.ErrAlreadySubmitting}
	}
	defer s.end(key)

	outcome := Outcome{}
	fee := s.fees.Initial(ctx, w.Difficulty)

	for n := 1; n <= s.options.MaxAttempts; n += 1 {
		if nil != ctx.Err() {
			outcome.State = Rejected
			outcome.Reason = ctx.Err()
			return outcome
		}

		attempt := Attempt{
			Number: n,
			Fee:    fee,
		}
		outcome.Fee = fee

		// Build
		tx, err := s.build(ctx, c, w, &attempt)
		if nil != err {
			attempt.State = Rejected
			attempt.Reason = err.Error()
			outcome.Attempts = append(outcome.Attempts, attempt)
			outcome.State = Rejected
			outcome.Reason = err
			s.log.Warnf("epoch: %d  attempt: %d  build failed: %s", w.Epoch, n, err)
			return outcome
		}

		// Sent
		v, status, err := s.send(ctx, tx, &attempt)
		outcome.Attempts = append(outcome.Attempts, attempt)

		if verdictTimeout == v {
			v, status, err = s.recheck(ctx, c, &attempt)
			outcome.Attempts[len(outcome.Attempts)-1] = attempt
		}

		switch v {
		case verdictLanded:
			outcome.State = Landed
			outcome.Signature = attempt.Signature
			outcome.Slot = status.Slot
			s.log.Infof("epoch: %d  landed: %s  slot: %d  fee: %d  attempts: %d", w.Epoch, attempt.Signature, status.Slot, fee, n)
			return outcome

		case verdictRejected:
			outcome.State = attempt.State
			outcome.Reason = err
			if Expired == attempt.State {
				s.log.Infof("epoch: %d  expired: %s", w.Epoch, err)
			} else {
				s.log.Warnf("epoch: %d  rejected: %s", w.Epoch, err)
			}
			return outcome

		case verdictRetry:
			s.cache.Delete(blockhashKey)
			next := s.fees.Escalate(fee)
			s.log.Infof("epoch: %d  attempt: %d  %s, retry fee: %d → %d", w.Epoch, n, err, fee, next)
			fee = next
		}
	}

	outcome.State = Rejected
	outcome.Reason = fault.ErrMaxRetriesExceeded
	s.log.Warnf("epoch: %d  %s after %d attempts", w.Epoch, fault.ErrMaxRetriesExceeded, s.options.MaxAttempts)
	return outcome
}

func (s *Submitter) begin(key flightKey) bool {
	s.Lock()
	defer s.Unlock()
	if _, ok := s.inFlight[key]; ok {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *Submitter) end(key flightKey) {
	s.Lock()
	delete(s.inFlight, key)
	s.Unlock()
}

// build and sign the transaction for an attempt
func (s *Submitter) build(ctx context.Context, c challenge.Challenge, w hashsearch.Winner, attempt *Attempt) (*transaction.Transaction, error) {
	blockhash, err := s.blockhash(ctx)
	if nil != err {
		return nil, err
	}
	bus := s.busses.pick(ctx)

	units := uint32(transaction.MineComputeUnits)
	instructions := []transaction.Instruction{}
	if c.NeedsReset {
		units += transaction.ResetComputeUnits
	}
	instructions = append(instructions,
		transaction.SetComputeUnitLimit(units),
		transaction.SetComputeUnitPrice(attempt.Fee),
	)
	if c.NeedsReset {
		instructions = append(instructions, s.options.Program.Reset(s.signer.PublicKey))
	}
	instructions = append(instructions, s.options.Program.Mine(s.signer.PublicKey, bus, w.Digest, w.Nonce))

	payer := s.signer
	if nil != s.options.FeePayer {
		payer = s.options.FeePayer
	}
	message, err := transaction.NewMessage(payer.PublicKey, instructions, blockhash)
	if nil != err {
		return nil, err
	}
	tx, err := transaction.Sign(message, payer, s.signer)
	if nil != err {
		return nil, err
	}

	attempt.Blockhash = blockhash
	attempt.Signature = tx.ID()
	attempt.State = Pending
	s.log.Debugf("attempt: %d  signature: %s  bus: %s  fee: %d  reset: %t", attempt.Number, attempt.Signature, bus, attempt.Fee, c.NeedsReset)
	return tx, nil
}

// recent blockhash, cached and fetched with bounded retries
func (s *Submitter) blockhash(ctx context.Context) (transaction.Blockhash, error) {
	if v, found := s.cache.Get(blockhashKey); found {
		return v.(transaction.Blockhash), nil
	}

	var lastErr error
	for i := 0; i < s.options.BlockhashRetries; i += 1 {
		if i > 0 {
			if err := sleep(ctx, s.options.BlockhashRetryDelay); nil != err {
				return transaction.Blockhash{}, err
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, s.options.CallTimeout)
		h, err := s.network.LatestBlockhash(callCtx)
		cancel()
		if nil == err {
			s.cache.Set(blockhashKey, h, cache.DefaultExpiration)
			return h, nil
		}
		lastErr = err
		s.log.Debugf("blockhash fetch: %d  error: %s", i+1, err)
	}
	return transaction.Blockhash{}, fmt.Errorf("%w: %s", fault.ErrBlockhashUnavailable, lastErr)
}

// broadcast and wait for the network to decide
func (s *Submitter) send(ctx context.Context, tx *transaction.Transaction, attempt *Attempt) (verdict, transaction.Status, error) {
	attempt.SentAt = time.Now()

	callCtx, cancel := context.WithTimeout(ctx, s.options.CallTimeout)
	_, err := s.network.SendTransaction(callCtx, tx)
	cancel()

	switch {
	case nil == err:
	case fault.IsErrStale(err):
		attempt.State = Expired
		attempt.Reason = err.Error()
		return verdictRetry, transaction.Status{}, err
	case fault.IsErrRemote(err):
		// the transaction may have reached the network, its
		// signature decides
		s.log.Warnf("attempt: %d  send: %s, resolving by signature", attempt.Number, err)
	default:
		return s.reject(attempt, err)
	}

	return s.confirm(ctx, attempt)
}

// poll the signature until it resolves or the confirm timeout passes
func (s *Submitter) confirm(ctx context.Context, attempt *Attempt) (verdict, transaction.Status, error) {
	deadline := time.Now().Add(s.options.ConfirmTimeout)
	ticker := time.NewTicker(s.options.PollInterval)
	defer ticker.Stop()

	for {
		if v, status, done, err := s.query(ctx, attempt); done {
			return v, status, err
		}
		if !time.Now().Before(deadline) {
			return verdictTimeout, transaction.Status{}, nil
		}

		select {
		case <-ctx.Done():
			attempt.State = Rejected
			attempt.Reason = ctx.Err().Error()
			return verdictRejected, transaction.Status{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// one status lookup, done is false while the outcome is unknown
func (s *Submitter) query(ctx context.Context, attempt *Attempt) (verdict, transaction.Status, bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.options.CallTimeout)
	status, err := s.network.SignatureStatus(callCtx, attempt.Signature)
	cancel()

	if nil != err {
		s.log.Debugf("attempt: %d  status: %s", attempt.Number, err)
		return verdictTimeout, status, false, nil
	}
	if status.IsFailed() {
		if fault.IsErrStale(status.Err) {
			attempt.State = Expired
			attempt.Reason = status.Err.Error()
			return verdictRetry, status, true, status.Err
		}
		v, st, err := s.reject(attempt, status.Err)
		return v, st, true, err
	}
	if status.IsLanded() {
		attempt.State = Landed
		return verdictLanded, status, true, nil
	}
	return verdictTimeout, status, false, nil
}

// after a timeout: look once more, then decide between expiry and retry
func (s *Submitter) recheck(ctx context.Context, c challenge.Challenge, attempt *Attempt) (verdict, transaction.Status, error) {
	if v, status, done, err := s.query(ctx, attempt); done {
		return v, status, err
	}

	attempt.State = Expired
	attempt.Reason = "confirmation timeout"

	if nil != s.rotation {
		callCtx, cancel := context.WithTimeout(ctx, s.options.CallTimeout)
		rotated, err := s.rotation.HasRotated(callCtx, c.Epoch)
		cancel()
		if nil != err {
			s.log.Warnf("attempt: %d  rotation check: %s", attempt.Number, err)
		} else if rotated {
			return verdictRejected, transaction.Status{}, fault.ErrEpochRotated
		}
	}
	return verdictRetry, transaction.Status{}, fault.ErrStaleBlockhash
}

// terminal rejection, naming claimed proofs as such
func (s *Submitter) reject(attempt *Attempt, err error) (verdict, transaction.Status, error) {
	if code, ok := rpc.ProgramErrorCode(err); ok {
		if _, claimed := s.claimed[code]; claimed {
			err = fmt.Errorf("%w: program error: 0x%x", fault.ErrChallengeClaimed, code)
		}
	}
	attempt.State = Rejected
	attempt.Reason = err.Error()
	return verdictRejected, transaction.Status{}, err
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
