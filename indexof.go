// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf

// indexOfByte scans the readable region [start, end) for the first
// occurrence of target, returning its offset from the start of the
// buffer (not from start), or -1 if absent. It is segment-aware: it
// walks whole segments with a tight inner loop rather than calling
// At() per byte.
func (b *Buffer) indexOfByte(target byte, start, end int64) int64 {
	if start < 0 {
		start = 0
	}
	if end > b.size {
		end = b.size
	}
	if start >= end {
		return -1
	}
	pos := int64(0)
	s := b.head
	for s != nil && pos+int64(s.size()) <= start {
		pos += int64(s.size())
		s = s.next
	}
	for s != nil && pos < end {
		segStart := 0
		if start > pos {
			segStart = int(start - pos)
		}
		segEnd := s.size()
		if pos+int64(segEnd) > end {
			segEnd = int(end - pos)
		}
		for i := segStart; i < segEnd; i++ {
			if s.data[s.pos+i] == target {
				return pos + int64(i)
			}
		}
		pos += int64(s.size())
		s = s.next
	}
	return -1
}

// IndexOf returns the offset of the first occurrence of target within
// [start, end) of the readable region, or -1 if not found.
func (b *Buffer) IndexOf(target byte, start, end int64) int64 {
	return b.indexOfByte(target, start, end)
}

// IndexOfByteString returns the offset of the first occurrence of
// pattern at or after start within the buffer's readable region, or -1
// if it does not occur. An empty pattern matches at start. The search
// walks segment boundaries transparently: a match spanning two or more
// segments is still found.
func (b *Buffer) IndexOfByteString(pattern *ByteString, start int64) int64 {
	if start < 0 {
		start = 0
	}
	m := int64(pattern.Len())
	if m == 0 {
		if start > b.size {
			return -1
		}
		return start
	}
	if start+m > b.size {
		return -1
	}
	first := pattern.At(0)
	for candidate := start; candidate+m <= b.size; {
		idx := b.indexOfByte(first, candidate, b.size-m+1)
		if idx < 0 {
			return -1
		}
		if b.regionMatches(idx, pattern) {
			return idx
		}
		candidate = idx + 1
	}
	return -1
}

// regionMatches reports whether pattern occurs at offset pos.
func (b *Buffer) regionMatches(pos int64, pattern *ByteString) bool {
	for i := 0; i < pattern.Len(); i++ {
		if b.At(pos+int64(i)) != pattern.At(i) {
			return false
		}
	}
	return true
}

// IndexOf scans for target, expanding the internal buffer by pulling
// from upstream as needed, up to a limit of 1 MiB of buffered lookahead
// before giving up and reporting -1. Unlike Buffer.IndexOf this never
// returns a position beyond what is now buffered in s.
func (s *BufferedSource) IndexOf(target byte, startPos int64) (int64, error) {
	if err := s.checkOpen(); err != nil {
		return -1, err
	}
	for {
		idx := s.buf.indexOfByte(target, startPos, s.buf.Size())
		if idx >= 0 {
			return idx, nil
		}
		if s.buf.Size() >= maxLineLength {
			return -1, nil
		}
		ok, err := s.Request(s.buf.Size() + 1)
		if err != nil {
			return -1, err
		}
		if !ok {
			return -1, nil
		}
	}
}
