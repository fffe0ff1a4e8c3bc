// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"runtime"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/proofminer/fault"
	"github.com/bitmark-inc/proofminer/fee"
)

// ConfigReader - holds the current configuration and applies changes
type ConfigReader interface {
	Initialise(string)
	Refresh() error
	GetConfig() (*Configuration, string, error)
	OptimalThreadCount() int
	SetLog(*logger.L) error
	SetTargets(WorkerSetter, FeeUpdater)
	Run(args interface{}, shutdown <-chan struct{})
}

// WorkerSetter - follows worker count changes
type WorkerSetter interface {
	SetWorkers(int) error
}

// FeeUpdater - follows fee setting changes
type FeeUpdater interface {
	Update(fee.Options) error
}

const (
	defaultRefreshDelay = 5 * time.Second
	minThreadCount      = 1
	ReaderLoggerPrefix  = "config-reader"
)

var (
	totalCPUCount = runtime.NumCPU()
)

// ConfigReaderData - the ConfigReader implementation
type ConfigReaderData struct {
	sync.RWMutex

	fileName             string
	refreshDelay         time.Duration
	log                  *logger.L
	currentConfiguration *Configuration
	initialized          bool
	threadCount          int
	workers              WorkerSetter
	fees                 FeeUpdater
	watcherChannel       WatcherChannel
}

func newConfigReader(ch WatcherChannel) ConfigReader {
	return &ConfigReaderData{
		threadCount:    minThreadCount,
		refreshDelay:   defaultRefreshDelay,
		watcherChannel: ch,
	}
}

// configuration needs read first to know logger file location
func (c *ConfigReaderData) Initialise(fileName string) {
	c.fileName = fileName
}

func (c *ConfigReaderData) SetTargets(workers WorkerSetter, fees FeeUpdater) {
	c.Lock()
	c.workers = workers
	c.fees = fees
	c.Unlock()
}

// Run - apply file changes until shutdown
func (c *ConfigReaderData) Run(args interface{}, shutdown <-chan struct{}) {
	for {
		select {
		case <-shutdown:
			return
		case <-c.watcherChannel.change:
			c.log.Debugf("receive file change event, wait %s to adapt", c.refreshDelay)
			select {
			case <-shutdown:
				return
			case <-time.After(c.refreshDelay):
			}
			if err := c.Refresh(); nil != err {
				c.log.Errorf("failed to read configuration from: %s  error: %s", c.fileName, err)
				continue
			}
			c.notify()
		case <-c.watcherChannel.remove:
			c.log.Warn("config file removed, keeping current configuration")
		}
	}
}

// Refresh - read the file again, the old configuration stays on error
func (c *ConfigReaderData) Refresh() error {
	configuration, err := getConfiguration(c.fileName)
	if nil != err {
		return err
	}
	c.update(configuration)
	return nil
}

// only the settings that are safe to change between rounds
func (c *ConfigReaderData) notify() {
	c.RLock()
	workers, fees := c.workers, c.fees
	threads := c.threadCount
	configuration := c.currentConfiguration
	c.RUnlock()

	if nil != workers {
		if err := workers.SetWorkers(threads); nil != err {
			c.log.Errorf("set workers: %d  error: %s", threads, err)
		}
	}
	if nil != fees {
		if err := fees.Update(configuration.feeOptions()); nil != err {
			c.log.Errorf("update fees error: %s", err)
		}
	}
}

func (c *ConfigReaderData) GetConfig() (*Configuration, string, error) {
	c.RLock()
	defer c.RUnlock()
	if nil == c.currentConfiguration {
		return nil, "", fault.ErrNotInitialised
	}
	return c.currentConfiguration, c.fileName, nil
}

func (c *ConfigReaderData) SetLog(log *logger.L) error {
	if nil == log {
		return fault.ErrInvalidLoggerChannel
	}
	c.Lock()
	c.log = log
	c.initialized = true
	c.Unlock()
	return nil
}

func (c *ConfigReaderData) update(newConfiguration *Configuration) {
	c.Lock()
	c.currentConfiguration = newConfiguration
	c.threadCount = c.optimalThreadCount()
	initialized, threads := c.initialized, c.threadCount
	c.Unlock()

	if initialized {
		c.log.Debugf("updating configuration, target thread count: %d", threads)
	}
}

func (c *ConfigReaderData) OptimalThreadCount() int {
	c.RLock()
	defer c.RUnlock()
	return c.optimalThreadCount()
}

// explicit workers win, otherwise a share of the CPUs
func (c *ConfigReaderData) optimalThreadCount() int {
	if nil == c.currentConfiguration {
		return minThreadCount
	}
	if c.currentConfiguration.Mining.Workers > 0 {
		return c.currentConfiguration.Mining.Workers
	}

	percentage := float32(c.currentConfiguration.Mining.MaxCPUUsage) / 100
	threadCount := int(float32(totalCPUCount) * percentage)

	if threadCount <= minThreadCount {
		return minThreadCount
	}
	if threadCount > totalCPUCount {
		return totalCPUCount
	}
	return threadCount
}
