// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bitmark-inc/proofminer/fault"
)

// node error codes that mean try again later
const (
	codeNodeUnhealthy       = -32005
	codeBlockNotAvailable   = -32004
	codeSlotSkipped         = -32007
	codeMinContextSlot      = -32016
	codeSendTransactionFail = -32002
)

var customProgramError = regexp.MustCompile(`custom program error: 0x([0-9a-fA-F]+)`)

// ProgramError - the on-chain program refused the instruction
type ProgramError struct {
	Code uint32
}

// Error - text of the error
func (e ProgramError) Error() string {
	return fmt.Sprintf("%s: 0x%x", fault.ErrProgramError, e.Code)
}

// Unwrap - a program error is a permanent rejection
func (e ProgramError) Unwrap() error {
	return fault.ErrProgramError
}

// ProgramErrorCode - the custom code if the error came from the program
func ProgramErrorCode(err error) (uint32, bool) {
	var p ProgramError
	if errors.As(err, &p) {
		return p.Code, true
	}
	return 0, false
}

// classify a JSON-RPC error object
func classifyRPCError(e *ErrorObject) error {
	switch e.Code {
	case codeNodeUnhealthy, codeBlockNotAvailable, codeSlotSkipped, codeMinContextSlot:
		return fmt.Errorf("%w: %s", fault.ErrRemoteUnavailable, e.Message)
	}

	// preflight failures carry the transaction error in data.err
	if codeSendTransactionFail == e.Code && 0 != len(e.Data) {
		var data struct {
			Err json.RawMessage `json:"err"`
		}
		if nil == json.Unmarshal(e.Data, &data) && 0 != len(data.Err) && "null" != string(data.Err) {
			if err := classifyTransactionError(data.Err); nil != err {
				return err
			}
		}
	}

	return classifyMessage(e.Message)
}

// classify from the human readable message
func classifyMessage(message string) error {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "blockhash not found"):
		return fault.ErrStaleBlockhash
	case strings.Contains(lower, "signature verification"), strings.Contains(lower, "invalid signature"):
		return fault.ErrInvalidSignature
	case strings.Contains(lower, "insufficient funds"), strings.Contains(lower, "no record of a prior credit"):
		return fault.ErrInsufficientFunds
	}
	if m := customProgramError.FindStringSubmatch(message); nil != m {
		code, err := strconv.ParseUint(m[1], 16, 32)
		if nil == err {
			return ProgramError{Code: uint32(code)}
		}
	}
	return fmt.Errorf("%w: %s", fault.ErrRemoteUnavailable, message)
}

// classify the err member of a transaction status or preflight result
//
// forms seen:
//   "BlockhashNotFound"
//   {"InstructionError":[2,{"Custom":1}]}
//   {"InstructionError":[0,"InvalidAccountData"]}
func classifyTransactionError(raw json.RawMessage) error {
	var name string
	if nil == json.Unmarshal(raw, &name) {
		switch name {
		case "BlockhashNotFound":
			return fault.ErrStaleBlockhash
		case "InsufficientFundsForFee", "AccountNotFound":
			return fault.ErrInsufficientFunds
		case "SignatureFailure":
			return fault.ErrInvalidSignature
		}
		return fmt.Errorf("%w: %s", fault.ErrProgramError, name)
	}

	var structured map[string]json.RawMessage
	if nil != json.Unmarshal(raw, &structured) {
		return fmt.Errorf("%w: %s", fault.ErrUnexpectedResponse, raw)
	}

	if ie, ok := structured["InstructionError"]; ok {
		var pair []json.RawMessage
		if nil == json.Unmarshal(ie, &pair) && 2 == len(pair) {
			var custom struct {
				Custom *uint32 `json:"Custom"`
			}
			if nil == json.Unmarshal(pair[1], &custom) && nil != custom.Custom {
				return ProgramError{Code: *custom.Custom}
			}
		}
	}
	if _, ok := structured["InsufficientFundsForRent"]; ok {
		return fault.ErrInsufficientFunds
	}
	return fmt.Errorf("%w: %s", fault.ErrProgramError, raw)
}
