// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package submit_test

import (
	"context"
	"sync"
	"testing"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/transaction"
)

// statuses served after the network forgets a dropped transaction
const dropAfterQueries = 3

type statusReply struct {
	status transaction.Status
	err    error
}

// how the network treats one attempt
type step struct {
	sendErr  error
	statuses []statusReply // the last one repeats
	dropped  bool          // never lands, forgotten after a few queries
}

// network that follows a script and fails the test if an attempt is
// sent while an earlier one could still land
type fakeNetwork struct {
	sync.Mutex
	t *testing.T

	steps          []step
	blockhashErr   error
	busData        [][]byte
	busErr         error
	blockhashCalls int
	sent           []*transaction.Transaction
	open           map[transaction.Signature]*openAttempt
	sending        int
	maxOpen        int

	// when set, SendTransaction signals here then waits for release
	sendReached chan struct{}
	release     chan struct{}
}

type openAttempt struct {
	step    step
	queries int
}

func newFakeNetwork(t *testing.T, steps ...step) *fakeNetwork {
	return &fakeNetwork{
		t:     t,
		steps: steps,
		open:  make(map[transaction.Signature]*openAttempt),
	}
}

func (f *fakeNetwork) LatestBlockhash(ctx context.Context) (transaction.Blockhash, error) {
	f.Lock()
	defer f.Unlock()
	f.blockhashCalls += 1
	if nil != f.blockhashErr {
		return transaction.Blockhash{}, f.blockhashErr
	}
	return transaction.Blockhash{byte(f.blockhashCalls), 0xbb}, nil
}

func (f *fakeNetwork) SendTransaction(ctx context.Context, tx *transaction.Transaction) (transaction.Signature, error) {
	f.Lock()
	f.sending += 1
	if f.sending > 1 {
		f.t.Errorf("concurrent sends")
	}
	if 0 != len(f.open) {
		f.t.Errorf("attempt %d sent while %d earlier attempt(s) unresolved", len(f.sent)+1, len(f.open))
	}
	if err := tx.Verify(); nil != err {
		f.t.Errorf("unsigned transaction sent: %s", err)
	}

	n := len(f.sent)
	f.sent = append(f.sent, tx)
	if n >= len(f.steps) {
		f.t.Errorf("unexpected attempt: %d", n+1)
		f.sending -= 1
		f.Unlock()
		return transaction.Signature{}, fault.ErrProgramError
	}
	s := f.steps[n]
	reached := f.sendReached
	release := f.release
	f.Unlock()

	if nil != reached {
		reached <- struct{}{}
		<-release
	}

	f.Lock()
	defer f.Unlock()
	f.sending -= 1

	if nil == s.sendErr || fault.IsErrRemote(s.sendErr) {
		f.open[tx.ID()] = &openAttempt{step: s}
		if len(f.open) > f.maxOpen {
			f.maxOpen = len(f.open)
		}
	}
	if nil != s.sendErr {
		return transaction.Signature{}, s.sendErr
	}
	return tx.ID(), nil
}

func (f *fakeNetwork) SignatureStatus(ctx context.Context, s transaction.Signature) (transaction.Status, error) {
	f.Lock()
	defer f.Unlock()

	a, ok := f.open[s]
	if !ok {
		return transaction.Status{}, nil
	}
	a.queries += 1

	if a.step.dropped {
		if a.queries >= dropAfterQueries {
			delete(f.open, s)
		}
		return transaction.Status{}, nil
	}

	i := a.queries - 1
	if i >= len(a.step.statuses) {
		i = len(a.step.statuses) - 1
	}
	if i < 0 {
		return transaction.Status{}, nil
	}
	reply := a.step.statuses[i]
	if nil == reply.err && (reply.status.IsLanded() || reply.status.IsFailed()) {
		delete(f.open, s)
	}
	return reply.status, reply.err
}

func (f *fakeNetwork) GetMultipleAccountsData(ctx context.Context, addresses []account.PublicKey) ([][]byte, error) {
	f.Lock()
	defer f.Unlock()
	if nil != f.busErr {
		return nil, f.busErr
	}
	if nil == f.busData {
		return make([][]byte, len(addresses)), nil
	}
	return f.busData, nil
}

func (f *fakeNetwork) sentCount() int {
	f.Lock()
	defer f.Unlock()
	return len(f.sent)
}

type fakeRotation struct {
	sync.Mutex
	rotated bool
	err     error
	calls   int
}

func (f *fakeRotation) HasRotated(ctx context.Context, epoch uint64) (bool, error) {
	f.Lock()
	defer f.Unlock()
	f.calls += 1
	return f.rotated, f.err
}
