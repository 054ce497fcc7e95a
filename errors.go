// errors.go: structured error handling for xtable operations.
//
// Construction-time failures (Init, region allocation) return rich errors
// built with go-errors. Per-operation failures (Add/Remove/Find) stay
// boolean, per the map's wait-free contract: an operation never blocks to
// construct or propagate an error value.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xtable

import (
	goerrors "errors"

	"github.com/agilira/go-errors"
)

// Error codes for xtable operations.
const (
	// Argument errors (1xxx)
	ErrCodeInvalidCapacity errors.ErrorCode = "XTABLE_INVALID_CAPACITY"
	ErrCodeInvalidKey      errors.ErrorCode = "XTABLE_INVALID_KEY"
	ErrCodeInvalidValue    errors.ErrorCode = "XTABLE_INVALID_VALUE"

	// Operational errors (2xxx)
	ErrCodeCapacityExhausted errors.ErrorCode = "XTABLE_CAPACITY_EXHAUSTED"
	ErrCodeRegionAllocFailed errors.ErrorCode = "XTABLE_REGION_ALLOC_FAILED"

	// Lifecycle errors (3xxx)
	ErrCodeMapClosed errors.ErrorCode = "XTABLE_MAP_CLOSED"

	// Internal errors (5xxx)
	ErrCodeInternalError errors.ErrorCode = "XTABLE_INTERNAL_ERROR"
)

const (
	msgInvalidCapacity   = "invalid capacity hint: must be greater than 0"
	msgInvalidKey        = "invalid key: must be non-zero with low bit clear"
	msgInvalidValue      = "invalid value: 0 is reserved as the tombstone"
	msgCapacityExhausted = "generation at threshold and expansion disabled"
	msgRegionAllocFailed = "memory region allocator returned an error"
	msgMapClosed         = "operation attempted on a destroyed map"
	msgInternalError     = "internal invariant violation"
)

// NewErrInvalidCapacity reports a non-positive capacity hint passed to Init.
func NewErrInvalidCapacity(hint int) error {
	return errors.NewWithContext(ErrCodeInvalidCapacity, msgInvalidCapacity, map[string]interface{}{
		"provided_hint":    hint,
		"minimum_required": 1,
	})
}

// NewErrInvalidKey reports a key that violates the §3 key contract (zero, or
// low bit set).
func NewErrInvalidKey(key uint64) error {
	return errors.NewWithContext(ErrCodeInvalidKey, msgInvalidKey, map[string]interface{}{
		"key": key,
	})
}

// NewErrInvalidValue reports value == 0 passed to Add (0 is the tombstone).
func NewErrInvalidValue(key uint64) error {
	return errors.NewWithContext(ErrCodeInvalidValue, msgInvalidValue, map[string]interface{}{
		"key": key,
	})
}

// NewErrCapacityExhausted reports that the active generation is at threshold
// and cannot expand further (either MaxCapacity was reached, or a region
// allocation previously failed and expansion was given up on).
func NewErrCapacityExhausted(capacity, count uint32) error {
	return errors.NewWithContext(ErrCodeCapacityExhausted, msgCapacityExhausted, map[string]interface{}{
		"capacity": capacity,
		"count":    count,
	}).AsRetryable()
}

// NewErrRegionAllocFailed wraps a RegionAllocator failure encountered while
// allocating a generation.
func NewErrRegionAllocFailed(bytes uintptr, cause error) error {
	return errors.Wrap(cause, ErrCodeRegionAllocFailed, msgRegionAllocFailed).
		WithContext("bytes_requested", bytes).
		AsRetryable()
}

// NewErrMapClosed reports an operation attempted after Destroy.
func NewErrMapClosed(operation string) error {
	return errors.NewWithField(ErrCodeMapClosed, msgMapClosed, "operation", operation)
}

// NewErrInternal wraps an invariant violation caught defensively; these
// indicate a bug in xtable itself rather than caller misuse.
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithContext("operation", operation).
			WithSeverity("critical")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("critical")
}

// IsCapacityExhausted reports whether err is (or wraps) a capacity-exhausted error.
func IsCapacityExhausted(err error) bool {
	return errors.HasCode(err, ErrCodeCapacityExhausted)
}

// IsRegionAllocFailed reports whether err is (or wraps) a region allocation failure.
func IsRegionAllocFailed(err error) bool {
	return errors.HasCode(err, ErrCodeRegionAllocFailed)
}

// IsRetryable reports whether err carries the retryable marker.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the structured error code from err, if any.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}
