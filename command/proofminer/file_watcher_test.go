// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
)

const (
	testFileName = "testWatcher"
)

func setupTestFileWatcher(t *testing.T) (*FileWatcherData, string) {
	dir, err := ioutil.TempDir("", "watcher")
	assert.Nil(t, err, "temp dir")

	fileName := filepath.Join(dir, testFileName)
	assert.Nil(t, ioutil.WriteFile(fileName, []byte("return {}"), 0600), "create")

	w, err := newFileWatcher(fileName, logger.New("test"), newWatcherChannel())
	assert.Nil(t, err, "new watcher")
	return w.(*FileWatcherData), dir
}

func waitFor(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func TestNewFileWatcherMissingFile(t *testing.T) {
	_, err := newFileWatcher("/no/such/directory/file.conf", logger.New("test"), newWatcherChannel())
	assert.NotNil(t, err, "missing file")
}

func TestFileWatcherEvents(t *testing.T) {
	w, dir := setupTestFileWatcher(t)
	defer os.RemoveAll(dir)
	defer w.Stop()

	assert.Nil(t, w.Start(), "start")

	// other files in the directory are ignored
	assert.Nil(t, ioutil.WriteFile(filepath.Join(dir, "other"), []byte("x"), 0600), "other file")

	assert.Nil(t, ioutil.WriteFile(w.filePath, []byte("return { x = 1 }"), 0600), "write")
	assert.True(t, waitFor(w.channels.change), "change event")

	assert.Nil(t, os.Remove(w.filePath), "remove")
	assert.True(t, waitFor(w.channels.remove), "remove event")
}

func TestSendEventDiscardsWhenFull(t *testing.T) {
	w, dir := setupTestFileWatcher(t)
	defer os.RemoveAll(dir)
	defer w.Stop()

	ch := make(chan struct{}, 1)
	w.sendEvent(ch, "test")
	w.sendEvent(ch, "test")

	assert.Equal(t, 1, len(ch), "second event discarded")
}
