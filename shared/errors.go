package shared

import (
	"errors"
)

var (
	// ErrInvalidArgument is returned on a nil reference, a zero-length
	// request, a malformed offset, or an operation on a destroyed queue.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMessageTooLarge is returned when a request exceeds the queue's total
	// bit capacity and can never succeed, regardless of the current fill level.
	ErrMessageTooLarge = errors.New("message exceeds queue capacity")

	// ErrRetry is returned when the current fill level cannot satisfy the
	// request. It is transient; the caller should retry once bits were
	// read from (or written to) the queue.
	ErrRetry = errors.New("insufficient bits buffered; retry later")

	// ErrInsufficientSpace is returned by the transfer primitive when the
	// destination buffer cannot physically hold the requested bits. Unlike
	// ErrRetry it reflects a static size mismatch, not fill level.
	ErrInsufficientSpace = errors.New("destination buffer too small")

	// ErrAllocationFailure is returned when an owned buffer cannot be obtained.
	ErrAllocationFailure = errors.New("allocation failure")
)
