// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf

import "math"

// ReadDecimalLong reads an ASCII decimal integer (an optional leading
// '-' followed by one or more digits '0'-'9') from the front of the
// source, stopping at the first non-digit byte or upstream EOF. The
// scan is peek-only until the full numeral is known, so a
// *NumberFormatError — a bare '-', no digits at all, or int64
// overflow — leaves the source exactly as it was: no bytes are
// consumed on failure.
//
// The magnitude is accumulated in uint64 and only reinterpreted as
// int64 once the sign is known, so "-9223372036854775808"
// (math.MinInt64, one unit past the largest representable positive
// magnitude) parses correctly rather than spuriously overflowing.
func (s *BufferedSource) ReadDecimalLong() (int64, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	s.bumpGeneration()
	if err := s.Require(1); err != nil {
		return 0, err
	}
	i := int64(0)
	neg := s.buf.At(0) == '-'
	if neg {
		i = 1
		if err := s.Require(i + 1); err != nil {
			return 0, newNumberFormatError("BufferedSource.ReadDecimalLong", "-")
		}
	}
	var magnitude uint64
	var overflow bool
	digits := int64(0)
	for {
		if _, err := s.Request(i + 1); err != nil {
			return 0, err
		}
		if i >= s.buf.Size() {
			break
		}
		b := s.buf.At(i)
		if b < '0' || b > '9' {
			break
		}
		d := uint64(b - '0')
		if magnitude > (math.MaxUint64-d)/10 {
			overflow = true
		} else {
			magnitude = magnitude*10 + d
		}
		digits++
		i++
	}
	if digits == 0 {
		return 0, newNumberFormatError("BufferedSource.ReadDecimalLong", "no digits")
	}
	limit := uint64(math.MaxInt64)
	if neg {
		limit++ // -math.MinInt64 has magnitude math.MaxInt64+1
	}
	if overflow || magnitude > limit {
		return 0, newNumberFormatError("BufferedSource.ReadDecimalLong", "overflow")
	}
	_ = s.buf.Skip(i)
	if neg {
		if magnitude == limit {
			return math.MinInt64, nil
		}
		return -int64(magnitude), nil
	}
	return int64(magnitude), nil
}

// ReadHexadecimalLong reads an unsigned hexadecimal integer (one or
// more of '0'-'9', 'a'-'f', 'A'-'F', no "0x" prefix) from the front of
// the source, stopping at the first non-hex-digit byte or upstream
// EOF. Like ReadDecimalLong, the scan is peek-only until the full
// numeral is known, so a *NumberFormatError leaves the source
// unconsumed.
func (s *BufferedSource) ReadHexadecimalLong() (uint64, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	s.bumpGeneration()
	if err := s.Require(1); err != nil {
		return 0, err
	}
	var v uint64
	var overflow bool
	i := int64(0)
	for {
		if _, err := s.Request(i + 1); err != nil {
			return 0, err
		}
		if i >= s.buf.Size() {
			break
		}
		nd, isHex := hexDigit(s.buf.At(i))
		if !isHex {
			break
		}
		if v > (1<<64-1-uint64(nd))/16 {
			overflow = true
		} else {
			v = v*16 + uint64(nd)
		}
		i++
	}
	if i == 0 {
		return 0, newNumberFormatError("BufferedSource.ReadHexadecimalLong", "no digits")
	}
	if overflow {
		return 0, newNumberFormatError("BufferedSource.ReadHexadecimalLong", "overflow")
	}
	_ = s.buf.Skip(i)
	return v, nil
}

func hexDigit(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}
