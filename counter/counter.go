// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter

import (
	"sync/atomic"
	"time"
)

// Counter - type to denote a counter that can be synchronously incremented
// just a 64 bit unsigned integer
type Counter uint64

// Increment - add 1 to a counter, returns new value
func (ic *Counter) Increment() uint64 {
	return atomic.AddUint64((*uint64)(ic), 1)
}

// Add - add n to a counter, returns new value
func (ic *Counter) Add(n uint64) uint64 {
	return atomic.AddUint64((*uint64)(ic), n)
}

// Uint64 - returns current value
func (ic *Counter) Uint64() uint64 {
	return atomic.LoadUint64((*uint64)(ic))
}

// IsZero - check if zero
func (ic *Counter) IsZero() bool {
	return 0 == atomic.LoadUint64((*uint64)(ic))
}

// Meter - counts events since a start time to give a rate
//
// the zero value is not usable, create with NewMeter
type Meter struct {
	count Counter
	start time.Time
}

// NewMeter - create a meter starting now
func NewMeter() *Meter {
	return &Meter{
		start: time.Now(),
	}
}

// Mark - record n events
func (m *Meter) Mark(n uint64) {
	m.count.Add(n)
}

// Count - total events recorded
func (m *Meter) Count() uint64 {
	return m.count.Uint64()
}

// Start - time the meter was created
func (m *Meter) Start() time.Time {
	return m.start
}

// Rate - events per second since the meter was started
func (m *Meter) Rate() float64 {
	return m.RateAt(time.Now())
}

// RateAt - events per second between start and the given time
func (m *Meter) RateAt(now time.Time) float64 {
	elapsed := now.Sub(m.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(m.count.Uint64()) / elapsed
}
