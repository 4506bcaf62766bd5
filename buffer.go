// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf

import "io"

// Buffer is an unbounded FIFO byte queue backed by a doubly-linked
// list of fixed-capacity segments drawn from a SegmentPool. It is the
// core mutable container of this package.
//
// A Buffer is not safe for concurrent use; the zero value is an empty,
// ready-to-use Buffer.
type Buffer struct {
	_ noCopy

	head, tail *segment
	size       int64

	pool *segmentPool
}

func (b *Buffer) poolOrDefault() *segmentPool {
	if b.pool == nil {
		b.pool = sharedDefaultPool()
	}
	return b.pool
}

// Size returns the number of readable bytes currently buffered.
func (b *Buffer) Size() int64 { return b.size }

// Empty reports whether Size() == 0.
func (b *Buffer) Empty() bool { return b.size == 0 }

// Clear discards all buffered bytes, recycling every segment. It is
// equivalent to b.Skip(b.Size()) and returns that call's error, which
// is always nil.
func (b *Buffer) Clear() error {
	return b.Skip(b.size)
}

// Skip discards n bytes from the head of the buffer. It fails with an
// *EOFError if n exceeds Size(). Fully consumed head segments are
// recycled back to the pool.
func (b *Buffer) Skip(n int64) error {
	if n < 0 {
		panic(newInvariantViolation("Buffer.Skip", "negative byte count"))
	}
	if n > b.size {
		avail := b.size
		return newEOFError("Buffer.Skip", n, avail)
	}
	pool := b.poolOrDefault()
	remaining := n
	for remaining > 0 {
		s := b.head
		n := int64(s.size())
		if n > remaining {
			s.pos += int(remaining)
			b.size -= remaining
			remaining = 0
			break
		}
		remaining -= n
		b.size -= n
		b.head = s.next
		if b.head != nil {
			b.head.prev = nil
		} else {
			b.tail = nil
		}
		s.next = nil
		pool.recycle(s)
	}
	return nil
}

// writableSegment returns the tail segment if it is an owner with at
// least one free byte, and otherwise borrows a new segment from the
// pool and appends it. minCap is not enforced: the returned segment may
// have fewer than minCap free bytes, so multi-byte writers check
// remainingCapacity and fall back to a byte-at-a-time path that spills
// into the next segment. This is the only place a Buffer takes
// segments from the pool.
func (b *Buffer) writableSegment(minCap int) *segment {
	pool := b.poolOrDefault()
	if b.tail == nil || !b.tail.owner || b.tail.remainingCapacity() == 0 {
		s := pool.take()
		b.appendSegment(s)
		return s
	}
	return b.tail
}

func (b *Buffer) appendSegment(s *segment) {
	if b.tail == nil {
		b.head, b.tail = s, s
		return
	}
	s.prev = b.tail
	b.tail.next = s
	b.tail = s
}

// completeSegmentByteCount returns the number of bytes held in
// segments that are full and no longer writable: every segment up to
// (but not including) the tail if the tail still has spare capacity,
// or all segments if the tail is itself full. Used by emit policies
// to decide what can be handed to an upstream sink without disturbing
// a segment that is still being appended to.
func (b *Buffer) completeSegmentByteCount() int64 {
	if b.tail == nil {
		return 0
	}
	total := b.size
	if b.tail.owner && b.tail.remainingCapacity() > 0 {
		total -= int64(b.tail.size())
	}
	return total
}

// writeByteSlice appends all of p to the buffer, borrowing segments
// from the pool as needed.
func (b *Buffer) writeByteSlice(p []byte) {
	for len(p) > 0 {
		s := b.writableSegment(len(p))
		n := copy(s.data[s.limit:], p)
		s.limit += n
		b.size += int64(n)
		p = p[n:]
	}
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(v byte) error {
	s := b.writableSegment(1)
	s.writeByte(v)
	b.size++
	return nil
}

// Write implements io.Writer: it appends all of p and never returns an
// error.
func (b *Buffer) Write(p []byte) (int, error) {
	b.writeByteSlice(p)
	return len(p), nil
}

// WriteString appends the raw bytes of s (not UTF-8 re-encoded — s is
// assumed to already be a byte-for-byte payload; use WriteUTF8String
// for text).
func (b *Buffer) WriteString(s string) (int, error) {
	b.writeByteSlice([]byte(s))
	return len(s), nil
}

// ReadByte removes and returns the first byte. It fails with an
// *EOFError if the buffer is empty.
func (b *Buffer) ReadByte() (byte, error) {
	if b.size == 0 {
		return 0, newEOFError("Buffer.ReadByte", 1, 0)
	}
	s := b.head
	v := s.readByte()
	b.size--
	if s.size() == 0 {
		b.recycleHead()
	}
	return v, nil
}

func (b *Buffer) recycleHead() {
	s := b.head
	b.head = s.next
	if b.head != nil {
		b.head.prev = nil
	} else {
		b.tail = nil
	}
	s.next = nil
	b.poolOrDefault().recycle(s)
}

// Read implements io.Reader: it reads up to len(p) bytes, returning
// (0, io.EOF) only when the buffer is empty and len(p) > 0, matching
// the io.Reader contract (distinct from the -1/0 return convention of
// ReadAvailableInt16Array and its siblings, see its doc comment).
func (b *Buffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if b.size == 0 {
		return 0, io.EOF
	}
	return b.readInto(p), nil
}

// readInto copies min(len(p), Size()) bytes into p, consuming them,
// and returns the count.
func (b *Buffer) readInto(p []byte) int {
	total := 0
	for total < len(p) && b.head != nil {
		s := b.head
		n := copy(p[total:], s.data[s.pos:s.limit])
		s.pos += n
		total += n
		b.size -= int64(n)
		if s.size() == 0 {
			b.recycleHead()
		}
	}
	return total
}

// ReadFullByteSlice reads exactly len(p) bytes into p, failing with an
// *EOFError (and transferring whatever bytes were available before
// returning) if the buffer is exhausted first.
func (b *Buffer) ReadFullByteSlice(p []byte) error {
	if int64(len(p)) > b.size {
		n := b.readInto(p)
		return newEOFError("Buffer.ReadFullByteSlice", int64(len(p)), int64(n))
	}
	b.readInto(p)
	return nil
}

// At returns the byte at logical position pos within the buffer's
// readable region (0 <= pos < Size()), scanning segments from the
// head. This is a diagnostics operation: it is O(segments) and should
// not be used on a hot path.
func (b *Buffer) At(pos int64) byte {
	if pos < 0 || pos >= b.size {
		panic(newInvariantViolation("Buffer.At", "index out of range"))
	}
	s := b.head
	for {
		n := int64(s.size())
		if pos < n {
			return s.get(int(pos))
		}
		pos -= n
		s = s.next
	}
}

// Copy returns a new Buffer that is a deep logical copy of b: each
// segment is shared (via sharedCopy) rather than byte-copied, so Copy
// is O(segments) with no byte copying. The returned Buffer observes
// the same bytes as b but has an entirely independent segment spine —
// further writes/reads on either Buffer do not affect the other.
func (b *Buffer) Copy() *Buffer {
	out := &Buffer{pool: b.pool}
	var prevOut *segment
	for s := b.head; s != nil; s = s.next {
		c := s.sharedCopy()
		if prevOut == nil {
			out.head = c
		} else {
			prevOut.next = c
			c.prev = prevOut
		}
		prevOut = c
	}
	out.tail = prevOut
	out.size = b.size
	return out
}

// CopyTo copies byteCount bytes starting at offset into dst, sharing
// segments with b where the copy is segment-aligned and falling back
// to a byte copy into dst's writable tail (borrowing segments from the
// pool as needed) otherwise.
func (b *Buffer) CopyTo(dst *Buffer, offset, byteCount int64) error {
	if offset < 0 || byteCount < 0 || offset+byteCount > b.size {
		return ErrIllegalArgument
	}
	if byteCount == 0 {
		return nil
	}
	s := b.head
	pos := offset
	for pos >= int64(s.size()) {
		pos -= int64(s.size())
		s = s.next
	}
	remaining := byteCount
	localPos := int(pos)
	for remaining > 0 {
		avail := s.size() - localPos
		n := avail
		if int64(n) > remaining {
			n = int(remaining)
		}
		if localPos == 0 && int64(n) == int64(s.size()) {
			c := s.sharedCopy()
			dst.appendSegment(c)
		} else {
			from := s.pos + localPos
			for copied := 0; copied < n; {
				tail := dst.writableSegment(n - copied)
				c := copy(tail.data[tail.limit:], s.data[from+copied:from+n])
				tail.limit += c
				copied += c
			}
		}
		dst.size += int64(n)
		remaining -= int64(n)
		localPos = 0
		s = s.next
	}
	return nil
}

// TransferFrom moves all bytes from src into b, leaving src empty
// (src.Size() == 0 afterward). It is implemented by splicing src's
// segment chain onto b's tail, which is O(segments) — no byte copying
// for fully-owned chains.
func (b *Buffer) TransferFrom(src *Buffer) {
	if src.size == 0 {
		return
	}
	if b.tail == nil {
		b.head, b.tail = src.head, src.tail
	} else {
		b.tail.next = src.head
		src.head.prev = b.tail
		b.tail = src.tail
	}
	b.size += src.size
	src.head, src.tail, src.size = nil, nil, 0
}
