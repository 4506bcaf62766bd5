// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf

import "encoding/binary"

// segment is a fixed-capacity contiguous byte chunk with its own
// read/write cursors, the atomic unit of Buffer's internal storage.
//
// Invariants:
//   - 0 <= pos <= limit <= cap(data)
//   - An owned segment is never also shared by a different owner.
//   - A shared segment is immutable: only the owner may advance limit;
//     any holder may advance pos on its own *segment instance, since
//     pos/limit are per-instance even when data is shared.
type segment struct {
	data []byte // backing array, len(data) == capacity

	pos   int
	limit int

	shared bool
	owner  bool

	next, prev *segment
}

// size is the number of readable bytes.
func (s *segment) size() int { return s.limit - s.pos }

// remainingCapacity is the number of bytes the owner may still append.
func (s *segment) remainingCapacity() int { return len(s.data) - s.limit }

// sharedCopy returns a new segment referencing the same backing array,
// marked shared and non-owning, with independent pos/limit. It marks
// this segment shared as a side effect — the shared flag is one-way:
// once set it is never cleared by either holder.
func (s *segment) sharedCopy() *segment {
	s.shared = true
	return &segment{
		data:   s.data,
		pos:    s.pos,
		limit:  s.limit,
		shared: true,
		owner:  false,
	}
}

// unsharedCopy returns a new segment with a freshly copied backing
// array, owned and unshared, safe to mutate independently of s.
func (s *segment) unsharedCopy() *segment {
	data := make([]byte, len(s.data))
	copy(data, s.data)
	return &segment{
		data:  data,
		pos:   s.pos,
		limit: s.limit,
		owner: true,
	}
}

// split removes the first n bytes of this segment's readable region
// into a new prefix segment and returns it; the suffix remains in s.
// Requires the caller to be the owner and 0 < n <= s.size().
//
// If n >= ShareMinimum the prefix is a sharedCopy of s (O(1), no byte
// copy, with s.pos advanced past the n bytes and the prefix's limit
// trimmed to pos+n). Otherwise the prefix is a pool-provided segment
// with the n bytes copied in (bounded cost, avoids pinning a whole
// large backing array behind a tiny read).
func (s *segment) split(pool *segmentPool, n int) *segment {
	if n <= 0 || n > s.size() {
		panic(newInvariantViolation("segment.split", "n out of [1, size] range"))
	}
	if !s.owner {
		panic(newInvariantViolation("segment.split", "caller is not the owner"))
	}

	var prefix *segment
	if n >= ShareMinimum {
		prefix = s.sharedCopy()
		prefix.limit = prefix.pos + n
	} else {
		prefix = pool.take()
		copy(prefix.data, s.data[s.pos:s.pos+n])
		prefix.limit = n
	}
	s.pos += n
	return prefix
}

// compact tries to move s's bytes into its predecessor prev when prev
// is an owner with room (counting prev's own pos as reclaimable
// capacity if prev is not shared), recycling s on success. It returns
// the segment the caller should continue iterating from: prev if the
// merge happened, s otherwise. compact is a no-op (returns s) unless
// prev is non-nil, prev.owner is true, and the merge fits.
func (s *segment) compact(pool *segmentPool, prev *segment) *segment {
	if prev == nil || !prev.owner {
		return s
	}
	if s.shared {
		return s
	}
	byteCount := s.size()
	available := prev.remainingCapacity()
	if !prev.shared {
		available += prev.pos
	}
	if byteCount > available {
		return s
	}
	s.writeTo(prev, -1)
	pool.recycle(s)
	return prev
}

// writeTo appends n bytes from s to other, advancing s.pos by n and
// other.limit by n. other must be the owner. If n < 0 the whole
// readable region of s is appended (used by compact). When other
// lacks enough trailing free space but the merge fits once its
// already-consumed prefix is reclaimed, the readable bytes are first
// shifted to the front of other's backing array.
func (s *segment) writeTo(other *segment, n int) {
	if !other.owner {
		panic(newInvariantViolation("segment.writeTo", "destination is not the owner"))
	}
	if n < 0 {
		n = s.size()
	}
	if n > s.size() {
		panic(newInvariantViolation("segment.writeTo", "n exceeds source size"))
	}
	if n > other.remainingCapacity() {
		if other.shared {
			panic(newInvariantViolation("segment.writeTo", "destination is shared and full"))
		}
		// Left-shift other's readable region to reclaim other.pos bytes.
		copy(other.data, other.data[other.pos:other.limit])
		other.limit -= other.pos
		other.pos = 0
		if n > other.remainingCapacity() {
			panic(newInvariantViolation("segment.writeTo", "n exceeds destination capacity even after compaction"))
		}
	}
	copy(other.data[other.limit:other.limit+n], s.data[s.pos:s.pos+n])
	other.limit += n
	s.pos += n
}

func (s *segment) requireReadable(width int) {
	if s.size() < width {
		panic(newInvariantViolation("segment.read", "fewer than width bytes readable"))
	}
}

func (s *segment) requireWritable(width int) {
	if !s.owner {
		panic(newInvariantViolation("segment.write", "caller is not the owner"))
	}
	if s.remainingCapacity() < width {
		panic(newInvariantViolation("segment.write", "fewer than width bytes of capacity remain"))
	}
}

func (s *segment) readByte() byte {
	s.requireReadable(1)
	b := s.data[s.pos]
	s.pos++
	return b
}

func (s *segment) readUint16() uint16 {
	s.requireReadable(2)
	v := binary.BigEndian.Uint16(s.data[s.pos:])
	s.pos += 2
	return v
}

func (s *segment) readUint32() uint32 {
	s.requireReadable(4)
	v := binary.BigEndian.Uint32(s.data[s.pos:])
	s.pos += 4
	return v
}

func (s *segment) readUint64() uint64 {
	s.requireReadable(8)
	v := binary.BigEndian.Uint64(s.data[s.pos:])
	s.pos += 8
	return v
}

func (s *segment) writeByte(v byte) {
	s.requireWritable(1)
	s.data[s.limit] = v
	s.limit++
}

func (s *segment) writeUint16(v uint16) {
	s.requireWritable(2)
	binary.BigEndian.PutUint16(s.data[s.limit:], v)
	s.limit += 2
}

func (s *segment) writeUint32(v uint32) {
	s.requireWritable(4)
	binary.BigEndian.PutUint32(s.data[s.limit:], v)
	s.limit += 4
}

func (s *segment) writeUint64(v uint64) {
	s.requireWritable(8)
	binary.BigEndian.PutUint64(s.data[s.limit:], v)
	s.limit += 8
}

// get returns the byte at position-relative index i (0 <= i < size()),
// without advancing pos. Used by codecs and diagnostics that need
// unchecked-looking but bounds-checked random access.
func (s *segment) get(i int) byte {
	if i < 0 || i >= s.size() {
		panic(newInvariantViolation("segment.get", "index out of range"))
	}
	return s.data[s.pos+i]
}

// set writes v at position-relative index i (0 <= i < size()), the
// same indexing get uses; the caller must be the owner and i must land
// within the already-written region — set never grows limit.
func (s *segment) set(i int, v byte) {
	if !s.owner {
		panic(newInvariantViolation("segment.set", "caller is not the owner"))
	}
	if i < 0 || i >= s.size() {
		panic(newInvariantViolation("segment.set", "index out of range"))
	}
	s.data[s.pos+i] = v
}
