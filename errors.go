// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmer-error and closed-stream conditions.
// Callers compare with errors.Is rather than type assertion where a
// sentinel suffices.
var (
	// ErrClosed is returned by any operation attempted on a closed
	// BufferedSource or BufferedSink.
	ErrClosed = errors.New("qbuf: stream closed")

	// ErrIllegalArgument is returned for negative byte counts,
	// out-of-range offsets, and other caller misuse that is not a
	// segment-sharing violation.
	ErrIllegalArgument = errors.New("qbuf: illegal argument")

	// ErrPeekInvalidated is returned by a peek BufferedSource after its
	// parent has been mutated by a subsequent read.
	ErrPeekInvalidated = errors.New("qbuf: peek source invalidated by parent mutation")
)

// InvariantViolation reports an attempt to mutate a shared Segment, to
// advance a Segment past its capacity or readable size, or otherwise
// break a Segment/Buffer invariant. These are programmer errors: they
// indicate a bug in the caller, not a runtime or I/O condition.
type InvariantViolation struct {
	Op     string
	Detail string
}

func (e *InvariantViolation) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("qbuf: invariant violation in %s", e.Op)
	}
	return fmt.Sprintf("qbuf: invariant violation in %s: %s", e.Op, e.Detail)
}

func newInvariantViolation(op, detail string) *InvariantViolation {
	return &InvariantViolation{Op: op, Detail: detail}
}

// EOFError reports that an operation required more bytes than were
// (or ever could be) available. It implements error and Unwrap so
// errors.Is(err, ErrUnexpectedEOF) holds for code that only cares about
// end of input in general; it does not match io.EOF.
type EOFError struct {
	// Op names the failing operation, e.g. "Buffer.Skip".
	Op string
	// Required is the number of bytes the operation needed.
	Required int64
	// Available is the number of bytes that were actually present.
	Available int64
}

func (e *EOFError) Error() string {
	return fmt.Sprintf("qbuf: %s: required %d bytes, %d available", e.Op, e.Required, e.Available)
}

func (e *EOFError) Unwrap() error { return errUnexpectedEOFSentinel }

// errUnexpectedEOFSentinel is the target errors.Is(err, qbuf.ErrUnexpectedEOF)
// resolves against; EOFError.Unwrap returns it so both the sentinel and
// the structured form satisfy the same comparison.
var errUnexpectedEOFSentinel = errors.New("qbuf: unexpected EOF")

// ErrUnexpectedEOF is the sentinel all EOFError values wrap. Use
// errors.Is(err, qbuf.ErrUnexpectedEOF) to test for end-of-input
// regardless of whether the structured EOFError is needed.
var ErrUnexpectedEOF = errUnexpectedEOFSentinel

func newEOFError(op string, required, available int64) *EOFError {
	return &EOFError{Op: op, Required: required, Available: available}
}

// NumberFormatError reports that a decimal or hexadecimal long parse
// failed due to overflow or the absence of any valid digit. The source
// is never repositioned on this error.
type NumberFormatError struct {
	Op    string
	Input string
}

func (e *NumberFormatError) Error() string {
	return fmt.Sprintf("qbuf: %s: invalid number format: %q", e.Op, e.Input)
}

func newNumberFormatError(op, input string) *NumberFormatError {
	return &NumberFormatError{Op: op, Input: input}
}
