// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf

import (
	"strings"
	"unicode/utf8"
)

// Boundary constants cross-checked against the standard library's own
// unicode/utf8 package: the encode/decode loop itself must walk
// Segment-local byte slices directly to stay span-safe, but the
// well-known boundary values are the same ones unicode/utf8 encodes.
const (
	surrogateLow    = 0xD800
	surrogateHigh   = 0xDFFF
	maxCodePoint    = 0x10FFFF
	replacementChar = rune(utf8.RuneError) // U+FFFD
	replacementByte = byte('?')
)

// EncodeCodePoint appends the UTF-8 encoding of cp to b. Surrogate
// halves (0xD800-0xDFFF) and values above 0x10FFFF are a programmer
// error in this explicit code-point context and return
// ErrIllegalArgument without writing anything.
func (b *Buffer) EncodeCodePoint(cp rune) error {
	if (cp >= surrogateLow && cp <= surrogateHigh) || cp > maxCodePoint || cp < 0 {
		return ErrIllegalArgument
	}
	b.writeByteSlice(appendUTF8(nil, cp))
	return nil
}

// appendUTF8 appends the UTF-8 encoding of a code point known to be in
// range (callers other than EncodeCodePoint use '?' for out-of-range
// values instead of calling this).
func appendUTF8(dst []byte, cp rune) []byte {
	switch {
	case cp < 0x80:
		return append(dst, byte(cp))
	case cp < 0x800:
		return append(dst,
			0xC0|byte(cp>>6),
			0x80|byte(cp&0x3F))
	case cp < 0x10000:
		return append(dst,
			0xE0|byte(cp>>12),
			0x80|byte(cp>>6&0x3F),
			0x80|byte(cp&0x3F))
	default:
		return append(dst,
			0xF0|byte(cp>>18),
			0x80|byte(cp>>12&0x3F),
			0x80|byte(cp>>6&0x3F),
			0x80|byte(cp&0x3F))
	}
}

// WriteUTF8String appends s's bytes as-is. Go strings are already
// valid UTF-8 (or the caller's problem if not — qbuf does not
// re-validate a native Go string), so this is a direct byte copy with
// no surrogate handling; see WriteUTF16String for the 16-bit
// code-unit encoding path, which is the relevant one for callers
// working from a UTF-16 source (e.g. ported JVM/JS text).
func (b *Buffer) WriteUTF8String(s string) {
	b.writeByteSlice([]byte(s))
}

// WriteUTF16String encodes units, a sequence of UTF-16 code units, as
// UTF-8:
//   - an ASCII run is copied byte-for-byte;
//   - a well-formed high/low surrogate pair is combined into its
//     supplementary code point and encoded as 4 bytes;
//   - a lone or misordered surrogate half is replaced with '?' (0x3F)
//     and encoding continues with the next unit.
func (b *Buffer) WriteUTF16String(units []uint16) {
	buf := make([]byte, 0, len(units)*3)
	i := 0
	for i < len(units) {
		u := units[i]
		switch {
		case u < 0x80:
			buf = append(buf, byte(u))
			i++
		case u < surrogateLow || u > surrogateHigh:
			buf = appendUTF8(buf, rune(u))
			i++
		case u <= 0xDBFF: // high surrogate
			if i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= surrogateHigh {
				high, low := rune(u), rune(units[i+1])
				cp := 0x10000 + (high-0xD800)<<10 + (low - 0xDC00)
				buf = appendUTF8(buf, cp)
				i += 2
			} else {
				buf = append(buf, replacementByte)
				i++
			}
		default: // lone low surrogate
			buf = append(buf, replacementByte)
			i++
		}
	}
	b.writeByteSlice(buf)
}

// decodeWidth returns the number of bytes the UTF-8 sequence led by
// lead is expected to occupy, or 0 if lead cannot start a sequence
// (a continuation byte or an invalid 0xF8-0xFF lead byte).
func decodeWidth(lead byte) int {
	switch {
	case lead&0x80 == 0x00:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	default:
		return 0
	}
}

// ReadUTF8CodePoint decodes and consumes one UTF-8 code point from the
// front of b. Malformed input never raises an error here:
//   - an unexpected continuation byte (or any invalid lead byte)
//     consumes 1 byte and yields U+FFFD;
//   - an overlong encoding, a surrogate code point, or a value above
//     0x10FFFF consumes the full (syntactically valid) sequence and
//     yields U+FFFD;
//   - a sequence truncated by the end of b's buffered bytes consumes
//     whatever valid continuation bytes were present and yields
//     U+FFFD (this is the "no more upstream" case; BufferedSource
//     retries request() before delegating here so a sequence that
//     could still be completed from upstream is not prematurely
//     replaced).
//
// An empty buffer is reported as an *EOFError, not a replacement
// character, since there is no byte to even begin decoding.
func (b *Buffer) ReadUTF8CodePoint() (rune, error) {
	if b.size == 0 {
		return 0, newEOFError("Buffer.ReadUTF8CodePoint", 1, 0)
	}
	cp, _ := b.decodeCodePointWithinWindow(b.size)
	return cp, nil
}

// decodeCodePointWithinWindow decodes and consumes one UTF-8 code point
// from the front of b, but never consumes more than window bytes even
// when more continuation bytes happen to be buffered past that point.
// A sequence cut short by the window boundary is replaced with U+FFFD
// the same way a sequence cut short by true buffer exhaustion is.
// Returns the decoded rune (or the replacement character) and the
// number of bytes actually consumed, which is always in [1, window].
func (b *Buffer) decodeCodePointWithinWindow(window int64) (rune, int64) {
	lead, _ := b.ReadByte()
	width := decodeWidth(lead)
	if width == 0 {
		return replacementChar, 1
	}
	if width == 1 {
		return rune(lead), 1
	}
	maxCont := int64(width - 1)
	if room := window - 1; room < maxCont {
		maxCont = room
	}
	cont := make([]byte, 0, width-1)
	for int64(len(cont)) < maxCont && b.size > 0 {
		peek := b.At(0)
		if peek&0xC0 != 0x80 {
			break
		}
		c, _ := b.ReadByte()
		cont = append(cont, c)
	}
	if len(cont) != width-1 {
		return replacementChar, 1 + int64(len(cont))
	}
	cp := decodeSequence(lead, cont, width)
	if cp < 0 {
		return replacementChar, 1 + int64(len(cont))
	}
	return cp, 1 + int64(len(cont))
}

// decodeSequence assembles the code point from a full-width lead byte
// plus continuation bytes and validates it, returning -1 for anything
// that must be replaced (overlong, surrogate, or out-of-range).
func decodeSequence(lead byte, cont []byte, width int) rune {
	var cp rune
	switch width {
	case 2:
		cp = rune(lead&0x1F)<<6 | rune(cont[0]&0x3F)
		if cp < 0x80 {
			return -1
		}
	case 3:
		cp = rune(lead&0x0F)<<12 | rune(cont[0]&0x3F)<<6 | rune(cont[1]&0x3F)
		if cp < 0x800 {
			return -1
		}
	case 4:
		cp = rune(lead&0x07)<<18 | rune(cont[0]&0x3F)<<12 | rune(cont[1]&0x3F)<<6 | rune(cont[2]&0x3F)
		if cp < 0x10000 {
			return -1
		}
	}
	if cp >= surrogateLow && cp <= surrogateHigh {
		return -1
	}
	if cp > maxCodePoint {
		return -1
	}
	return cp
}

// ReadUTF8String decodes exactly byteCount bytes from the front of b
// as UTF-8, applying ReadUTF8CodePoint's replacement rules, and
// returns the resulting string. The number of bytes consumed from b
// is always exactly byteCount regardless of how many runes that
// produces; it fails with an *EOFError (consuming nothing) if fewer
// than byteCount bytes are available. A multi-byte sequence cut short
// by the byteCount boundary (rather than by true buffer exhaustion) is
// replaced with U+FFFD at that boundary, and decoding resumes on the
// byte just past it.
func (b *Buffer) ReadUTF8String(byteCount int64) (string, error) {
	if byteCount < 0 {
		return "", ErrIllegalArgument
	}
	if byteCount > b.size {
		return "", newEOFError("Buffer.ReadUTF8String", byteCount, b.size)
	}
	var sb strings.Builder
	sb.Grow(int(byteCount))
	remaining := byteCount
	for remaining > 0 {
		cp, consumed := b.decodeCodePointWithinWindow(remaining)
		sb.WriteRune(cp)
		remaining -= consumed
	}
	return sb.String(), nil
}
