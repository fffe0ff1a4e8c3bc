// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
)

// FileWatcher - reports changes to the configuration file
type FileWatcher interface {
	Start() error
	Stop()
}

const (
	FileWatcherLoggerPrefix = "file-watcher"
)

// FileWatcherData - the FileWatcher implementation
type FileWatcherData struct {
	log      *logger.L
	channels WatcherChannel
	watcher  *fsnotify.Watcher
	filePath string
}

// WatcherChannel - events sent to the config reader
type WatcherChannel struct {
	change chan struct{}
	remove chan struct{}
}

func newWatcherChannel() WatcherChannel {
	return WatcherChannel{
		change: make(chan struct{}, 1),
		remove: make(chan struct{}, 1),
	}
}

func newFileWatcher(targetFile string, log *logger.L, channels WatcherChannel) (FileWatcher, error) {
	filePath, err := filepath.Abs(filepath.Clean(targetFile))
	if nil != err {
		log.Errorf("parse file %s error: %s", targetFile, err)
		return nil, err
	}

	if _, err := os.Stat(filePath); nil != err {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		log.Errorf("new watcher with error: %s", err)
		return nil, err
	}

	return &FileWatcherData{
		log:      log,
		watcher:  watcher,
		channels: channels,
		filePath: filePath,
	}, nil
}

// Start - watch the directory so editors that replace the file are seen
func (w *FileWatcherData) Start() error {
	err := w.watcher.Add(filepath.Dir(w.filePath))
	if nil != err {
		w.log.Errorf("watcher add error: %s, abort", err)
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				w.handle(event)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.log.Warnf("watcher error: %s", err)
			}
		}
	}()

	return nil
}

// Stop - release the watcher, ends the event loop
func (w *FileWatcherData) Stop() {
	w.watcher.Close()
}

func (w *FileWatcherData) handle(event fsnotify.Event) {
	if filepath.Base(event.Name) != filepath.Base(w.filePath) {
		w.log.Tracef("file %s not match, discard event", event.Name)
		return
	}
	w.log.Infof("file event: %s", event)

	if watcherEventFileRemove(event) {
		w.log.Warnf("file %s removed", w.filePath)
		w.sendEvent(w.channels.remove, "remove")
		return
	}

	if watcherEventFileChange(event) {
		w.log.Info("sending config change event…")
		w.sendEvent(w.channels.change, "change")
	}
}

func (w *FileWatcherData) sendEvent(ch chan<- struct{}, name string) {
	select {
	case ch <- struct{}{}:
	default:
		w.log.Infof("event channel %s full, discard event", name)
	}
}

func watcherEventFileRemove(event fsnotify.Event) bool {
	return event.Op&fsnotify.Remove == fsnotify.Remove ||
		event.Op&fsnotify.Rename == fsnotify.Rename
}

func watcherEventFileChange(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Chmod == fsnotify.Chmod
}
