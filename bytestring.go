// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf

import (
	"bytes"
	"sync/atomic"
)

// ByteString is an immutable, content-comparable snapshot of a byte
// sequence. Unlike Buffer it carries no read/write cursor and is safe
// for concurrent use by multiple goroutines, since nothing may mutate
// it after construction.
type ByteString struct {
	data   []byte
	hash   atomic.Uint64
	hashed atomic.Bool
}

// NewByteString copies p into a new ByteString. The caller's slice is
// never retained.
func NewByteString(p []byte) *ByteString {
	cp := make([]byte, len(p))
	copy(cp, p)
	return &ByteString{data: cp}
}

// ByteStringFromString copies s's bytes into a new ByteString.
func ByteStringFromString(s string) *ByteString {
	return NewByteString([]byte(s))
}

// Snapshot returns a ByteString holding a compacted copy of all bytes
// currently readable in b, without consuming them. It always performs
// a byte copy (never shares segments with b) so that subsequent writes
// to b can never be observed through the returned ByteString.
func (b *Buffer) Snapshot() *ByteString {
	out := make([]byte, b.size)
	n := int64(0)
	for s := b.head; s != nil; s = s.next {
		n += int64(copy(out[n:], s.data[s.pos:s.limit]))
	}
	return &ByteString{data: out}
}

// Len returns the number of bytes in the ByteString.
func (bs *ByteString) Len() int { return len(bs.data) }

// Bytes returns a copy of the ByteString's content. Mutating the
// returned slice does not affect bs.
func (bs *ByteString) Bytes() []byte {
	out := make([]byte, len(bs.data))
	copy(out, bs.data)
	return out
}

// String returns the content reinterpreted as a Go string (a direct
// conversion, not a UTF-8 validation or re-encoding).
func (bs *ByteString) String() string { return string(bs.data) }

// At returns the byte at index i, panicking via *InvariantViolation if
// i is out of range.
func (bs *ByteString) At(i int) byte {
	if i < 0 || i >= len(bs.data) {
		panic(newInvariantViolation("ByteString.At", "index out of range"))
	}
	return bs.data[i]
}

// Equal reports whether bs and other hold identical byte content.
func (bs *ByteString) Equal(other *ByteString) bool {
	if bs == other {
		return true
	}
	if other == nil {
		return false
	}
	return bytes.Equal(bs.data, other.data)
}

// Hash returns a content-derived hash, computed once and cached. Equal
// ByteStrings always hash equal; this is a plain FNV-1a over the
// bytes, not a cryptographic digest.
func (bs *ByteString) Hash() uint64 {
	if bs.hashed.Load() {
		return bs.hash.Load()
	}
	const offset = 14695981039346656037
	const prime = 1099511628211
	h := uint64(offset)
	for _, c := range bs.data {
		h ^= uint64(c)
		h *= prime
	}
	bs.hash.Store(h)
	bs.hashed.Store(true)
	return h
}

// IndexOf returns the index of the first occurrence of pattern at or
// after start, or -1 if pattern does not occur. A negative start is
// treated as 0 and a start past the end returns -1; otherwise an empty
// pattern matches at start.
func (bs *ByteString) IndexOf(pattern *ByteString, start int) int {
	if start < 0 {
		start = 0
	}
	if start > len(bs.data) {
		return -1
	}
	if pattern.Len() == 0 {
		return start
	}
	idx := bytes.Index(bs.data[start:], pattern.data)
	if idx < 0 {
		return -1
	}
	return idx + start
}

// HasPrefix reports whether bs begins with prefix.
func (bs *ByteString) HasPrefix(prefix *ByteString) bool {
	return bytes.HasPrefix(bs.data, prefix.data)
}

// HasSuffix reports whether bs ends with suffix.
func (bs *ByteString) HasSuffix(suffix *ByteString) bool {
	return bytes.HasSuffix(bs.data, suffix.data)
}

// Substring returns a new ByteString holding bs[start:end].
func (bs *ByteString) Substring(start, end int) *ByteString {
	if start < 0 || end > len(bs.data) || start > end {
		panic(newInvariantViolation("ByteString.Substring", "range out of bounds"))
	}
	return NewByteString(bs.data[start:end])
}

// WriteTo appends bs's content to b.
func (bs *ByteString) WriteTo(b *Buffer) {
	b.writeByteSlice(bs.data)
}
