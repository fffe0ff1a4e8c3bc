// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ConfigError GenericError
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RejectedError GenericError
type RemoteError GenericError
type RotatedError GenericError
type StaleError GenericError

// common errors - keep in alphabetic order
var (
	ErrAccountDataTooShort    = InvalidError("account data too short")
	ErrAccountNotFound        = RemoteError("account not found")
	ErrAlreadySubmitting      = ExistsError("proof is already being submitted")
	ErrBlockhashUnavailable   = RemoteError("recent blockhash unavailable")
	ErrChallengeClaimed       = RejectedError("challenge already claimed this epoch")
	ErrConfigurationNotTable  = ConfigError("configuration must return a table")
	ErrDatabaseNotInitialised = NotFoundError("database not initialised")
	ErrDifficultyBelowTarget  = RejectedError("difficulty below target")
	ErrEpochRotated           = RotatedError("epoch rotated")
	ErrIncompatibleDatabase   = ProcessError("incompatible database version")
	ErrInsufficientFunds      = RejectedError("insufficient funds for fee")
	ErrInvalidAccountKey      = InvalidError("invalid account key")
	ErrInvalidBlockhash       = InvalidError("invalid blockhash")
	ErrInvalidCount           = InvalidError("invalid count")
	ErrInvalidEscalation      = ConfigError("fee escalation factor must be greater than one")
	ErrInvalidFeeStrategy     = ConfigError("invalid dynamic fee strategy")
	ErrInvalidHasher          = ConfigError("invalid hasher name")
	ErrInvalidIPAddress       = InvalidError("invalid IP address")
	ErrInvalidKeypair         = InvalidError("invalid keypair")
	ErrInvalidLoggerChannel   = ConfigError("invalid logger channel")
	ErrInvalidMaxAttempts     = ConfigError("max attempts must be positive")
	ErrInvalidNonceSpace      = ConfigError("nonce space must not be empty")
	ErrInvalidPortNumber      = InvalidError("invalid port number")
	ErrInvalidPrivateKeyFile  = InvalidError("invalid private key file")
	ErrInvalidPublicKeyFile   = InvalidError("invalid public key file")
	ErrInvalidSignature       = RejectedError("invalid signature")
	ErrInvalidSignatureText   = InvalidError("invalid signature encoding")
	ErrInvalidState           = InvalidError("invalid state")
	ErrInvalidStructPointer   = ConfigError("invalid struct pointer")
	ErrKeyFileAlreadyExists   = ExistsError("key file already exists")
	ErrMaxRetriesExceeded     = RejectedError("max retries exceeded")
	ErrMissingAccount         = ConfigError("configured account does not exist")
	ErrMissingAddress         = ConfigError("program address is required")
	ErrMissingRPCURL          = ConfigError("rpc url is required")
	ErrNoBusses               = ConfigError("at least one bus address is required")
	ErrNotInitialised         = NotFoundError("not initialised")
	ErrNoWorkers              = ConfigError("worker count must be at least one")
	ErrProgramError           = RejectedError("program rejected the proof")
	ErrQueueFull              = ProcessError("queue full")
	ErrRateLimiting           = RemoteError("rate limiting")
	ErrRemoteUnavailable      = RemoteError("remote unavailable")
	ErrStaleBlockhash         = StaleError("blockhash not found")
	ErrTooManyInstructions    = InvalidError("too many instructions")
	ErrTransactionTooLarge    = InvalidError("transaction too large")
	ErrUnexpectedResponse     = RemoteError("unexpected response")
)

// the error interface methods
func (e GenericError) Error() string  { return string(e) }
func (e ConfigError) Error() string   { return string(e) }
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RejectedError) Error() string { return string(e) }
func (e RemoteError) Error() string   { return string(e) }
func (e RotatedError) Error() string  { return string(e) }
func (e StaleError) Error() string    { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrConfig(e error) bool   { var t ConfigError; return errors.As(e, &t) }
func IsErrExists(e error) bool   { var t ExistsError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool  { var t InvalidError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool  { var t ProcessError; return errors.As(e, &t) }
func IsErrRejected(e error) bool { var t RejectedError; return errors.As(e, &t) }
func IsErrRemote(e error) bool   { var t RemoteError; return errors.As(e, &t) }
func IsErrRotated(e error) bool  { var t RotatedError; return errors.As(e, &t) }
func IsErrStale(e error) bool    { var t StaleError; return errors.As(e, &t) }
