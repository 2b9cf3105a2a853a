// go-lr2021
// Copyright (c) 2025 The go-lr2021 Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-lr2021.
//
// go-lr2021 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-lr2021 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-lr2021; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package lr2021

import (
	"errors"
	"fmt"
)

// Sentinel errors for bus and chip failures.
var (
	// ErrBusFailure indicates the underlying byte-transfer capability
	// reported a fault. The cause is wrapped, not interpreted.
	ErrBusFailure = errors.New("bus transfer failed")

	// ErrPinFailure indicates a control pin could not be read or driven.
	ErrPinFailure = errors.New("pin access failed")

	// ErrBusyTimeout indicates the busy line did not release within the
	// bound for the command class.
	ErrBusyTimeout = errors.New("busy did not release before timeout")

	// ErrCommandFailed indicates the chip reported that the last command
	// could not be executed.
	ErrCommandFailed = errors.New("command failed")

	// ErrCommandRejected indicates the chip reported invalid parameters
	// or an unknown opcode.
	ErrCommandRejected = errors.New("command rejected")

	// ErrInvalidParameter indicates a caller-supplied length, address or
	// mode argument violates a documented bound. Reported before any bus
	// activity occurs.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidState indicates an operation precondition is not met,
	// such as enabling a patch before its upload completed or requesting
	// a mode transition that is not reachable from the current mode.
	ErrInvalidState = errors.New("invalid state")

	// ErrStaleState indicates driver-side cached chip state was
	// invalidated by a reset or a failed command and must be re-queried.
	ErrStaleState = errors.New("cached chip state is stale")
)

// ErrorType categorizes errors for retry decisions
type ErrorType int

const (
	// ErrorTypePermanent indicates an error that won't be resolved by retrying
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient indicates a temporary error that may be resolved by retrying
	ErrorTypeTransient
	// ErrorTypeTimeout indicates a timeout error
	ErrorTypeTimeout
)

// BusError provides detailed error information for pin/bus operations
type BusError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

// Error implements the error interface
func (e *BusError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("lr2021 %s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("lr2021 %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *BusError) Unwrap() error {
	return e.Err
}

// NewBusError creates a new BusError with the given details
func NewBusError(op, port string, err error, errType ErrorType) *BusError {
	return &BusError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient || errType == ErrorTypeTimeout,
	}
}

// NewTimeoutError creates a BusError for a busy-wait timeout
func NewTimeoutError(op, port string) *BusError {
	return &BusError{
		Op:        op,
		Port:      port,
		Err:       ErrBusyTimeout,
		Type:      ErrorTypeTimeout,
		Retryable: true,
	}
}

// CommandError carries the raw status word of a command the chip refused.
// The status is kept verbatim for diagnosis; Decode it with Status methods.
type CommandError struct {
	Err    error
	Status Status
}

// Error implements the error interface
func (e *CommandError) Error() string {
	return fmt.Sprintf("%v (status 0x%04X)", e.Err, uint16(e.Status))
}

// Unwrap returns the sentinel classification of the failure
func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error may be resolved by retrying the
// operation. Retrying remains caller policy; the driver never retries on
// its own.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var busErr *BusError
	if errors.As(err, &busErr) {
		return busErr.Retryable
	}

	switch {
	case errors.Is(err, ErrBusFailure),
		errors.Is(err, ErrBusyTimeout),
		errors.Is(err, ErrCommandFailed):
		return true
	default:
		return false
	}
}

// GetErrorType returns the classification of an error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var busErr *BusError
	if errors.As(err, &busErr) {
		return busErr.Type
	}

	switch {
	case errors.Is(err, ErrBusyTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrBusFailure), errors.Is(err, ErrCommandFailed):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}
