// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fee

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/proofminer/account"
	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/rpc"
)

// dynamic fee strategies
const (
	Static = ""
	Helius = "helius"
	Triton = "triton"
)

// defaults for Options
const (
	DefaultStatic     = 10000
	DefaultCap        = 100000
	DefaultEscalation = 1.5
	DefaultCacheTTL   = 5 * time.Second
	DefaultTimeout    = 5 * time.Second

	tritonPercentile = 5000
	estimateKey      = "estimate"
)

// Options - fee settings, all amounts in micro-lamports per compute unit
type Options struct {
	Static          uint64
	Cap             uint64
	Escalation      float64
	Strategy        string
	ExtraDifficulty uint32 // 0 disables the extra fee
	ExtraPercent    uint64
	CacheTTL        time.Duration
	Timeout         time.Duration
}

// Estimator - source of dynamic fee estimates
type Estimator interface {
	PriorityFeeEstimate(ctx context.Context, addresses []account.PublicKey) (uint64, error)
	RecentPrioritizationFees(ctx context.Context, addresses []account.PublicKey, percentile int) ([]rpc.PrioritizationFee, error)
}

// Policy - chooses the fee for each landing attempt
type Policy struct {
	sync.RWMutex

	log       *logger.L
	options   Options
	estimator Estimator
	accounts  []account.PublicKey
	estimates *cache.Cache
}

// NewPolicy - create a fee policy
//
// estimator may be nil for the static strategy; accounts are the
// write-locked accounts a dynamic estimate is made for
func NewPolicy(options Options, estimator Estimator, accounts []account.PublicKey) (*Policy, error) {
	err := normalise(&options)
	if nil != err {
		return nil, err
	}
	if Static != options.Strategy && nil == estimator {
		return nil, fault.ErrInvalidFeeStrategy
	}

	return &Policy{
		log:       logger.New("fee"),
		options:   options,
		estimator: estimator,
		accounts:  accounts,
		estimates: cache.New(options.CacheTTL, 2*options.CacheTTL),
	}, nil
}

// Validate - check options without creating a policy
func Validate(options Options) error {
	return normalise(&options)
}

func normalise(options *Options) error {
	options.Strategy = strings.ToLower(strings.TrimSpace(options.Strategy))
	switch options.Strategy {
	case Static, Helius, Triton:
	default:
		return fault.ErrInvalidFeeStrategy
	}
	if 0 == options.Cap {
		options.Cap = DefaultCap
	}
	if 0 == options.Escalation {
		options.Escalation = DefaultEscalation
	}
	if options.Escalation <= 1.0 {
		return fault.ErrInvalidEscalation
	}
	if options.Static > options.Cap {
		options.Static = options.Cap
	}
	if options.CacheTTL <= 0 {
		options.CacheTTL = DefaultCacheTTL
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}
	return nil
}

// Update - replace the settings, used when the configuration reloads
func (p *Policy) Update(options Options) error {
	err := normalise(&options)
	if nil != err {
		return err
	}
	if Static != options.Strategy && nil == p.estimator {
		return fault.ErrInvalidFeeStrategy
	}

	p.Lock()
	p.options = options
	p.Unlock()

	p.estimates.Flush()
	p.log.Infof("fee: %d  cap: %d  escalation: %.2f  strategy: %q", options.Static, options.Cap, options.Escalation, options.Strategy)
	return nil
}

// Cap - the ceiling no fee may pass
func (p *Policy) Cap() uint64 {
	p.RLock()
	defer p.RUnlock()
	return p.options.Cap
}

// Initial - fee for the first attempt at landing a proof
//
// a dynamic estimate falls back to the static fee if it fails; hard
// proofs may carry an extra percentage; never above the cap
func (p *Policy) Initial(ctx context.Context, difficulty uint32) uint64 {
	p.RLock()
	options := p.options
	p.RUnlock()

	fee := options.Static
	if Static != options.Strategy {
		estimate, err := p.estimate(ctx, options)
		if nil != err {
			p.log.Warnf("dynamic fee: %s, using: %d", err, fee)
		} else {
			fee = estimate
		}
	}

	if options.ExtraDifficulty > 0 && difficulty >= options.ExtraDifficulty && options.ExtraPercent > 0 {
		extra := fee / 100 * options.ExtraPercent
		extra += fee % 100 * options.ExtraPercent / 100
		p.log.Debugf("difficulty: %d adds %d%%: %d", difficulty, options.ExtraPercent, extra)
		fee = saturatingAdd(fee, extra)
	}

	if fee > options.Cap {
		fee = options.Cap
	}
	return fee
}

// Escalate - fee for the attempt after one that failed to land
//
// min(ceil(previous × escalation), cap), always more than previous
// unless the cap has been reached
func (p *Policy) Escalate(previous uint64) uint64 {
	p.RLock()
	options := p.options
	p.RUnlock()

	if previous >= options.Cap {
		return options.Cap
	}

	scaled := math.Ceil(float64(previous) * options.Escalation)
	next := uint64(math.MaxUint64)
	if scaled < float64(math.MaxUint64) {
		next = uint64(scaled)
	}
	if next <= previous {
		next = previous + 1
	}
	if next > options.Cap {
		next = options.Cap
	}
	return next
}

func (p *Policy) estimate(ctx context.Context, options Options) (uint64, error) {
	if v, found := p.estimates.Get(estimateKey); found {
		return v.(uint64), nil
	}

	ctx, cancel := context.WithTimeout(ctx, options.Timeout)
	defer cancel()

	var fee uint64
	switch options.Strategy {
	case Helius:
		estimate, err := p.estimator.PriorityFeeEstimate(ctx, p.accounts)
		if nil != err {
			return 0, err
		}
		fee = estimate

	case Triton:
		samples, err := p.estimator.RecentPrioritizationFees(ctx, p.accounts, tritonPercentile)
		if nil != err {
			return 0, err
		}
		if 0 == len(samples) {
			return 0, fault.ErrUnexpectedResponse
		}
		fee = samples[len(samples)-1].PrioritizationFee
	}

	p.log.Debugf("%s estimate: %d", options.Strategy, fee)
	p.estimates.Set(estimateKey, fee, cache.DefaultExpiration)
	return fee, nil
}

func saturatingAdd(a uint64, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
