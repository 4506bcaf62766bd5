// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf

import "math"

// All multi-byte primitives are encoded big-endian on the wire.
// Little-endian variants call reverseBytesN on the decoded value;
// Buffer itself never carries a "current endianness" — each call site
// names BE or LE explicitly.
//
// Each reader/writer takes a fast path when the operation fits
// entirely within one segment (the head segment for reads, the tail
// segment for writes) and a slow, byte-at-a-time path otherwise, so
// that a value spanning two or more segments is still handled
// correctly.

// WriteUint16BE appends v as two big-endian bytes.
func (b *Buffer) WriteUint16BE(v uint16) {
	s := b.writableSegment(2)
	if s.remainingCapacity() >= 2 {
		s.writeUint16(v)
		b.size += 2
		return
	}
	b.WriteByte(byte(v >> 8))
	b.WriteByte(byte(v))
}

// WriteUint16LE appends v as two little-endian bytes.
func (b *Buffer) WriteUint16LE(v uint16) { b.WriteUint16BE(reverseBytes16(v)) }

// ReadUint16BE consumes two big-endian bytes and returns the value.
func (b *Buffer) ReadUint16BE() (uint16, error) {
	if b.size < 2 {
		return 0, newEOFError("Buffer.ReadUint16BE", 2, b.size)
	}
	s := b.head
	if s.size() >= 2 {
		v := s.readUint16()
		b.size -= 2
		if s.size() == 0 {
			b.recycleHead()
		}
		return v, nil
	}
	hi, _ := b.ReadByte()
	lo, _ := b.ReadByte()
	return uint16(hi)<<8 | uint16(lo), nil
}

// ReadUint16LE consumes two little-endian bytes and returns the value.
func (b *Buffer) ReadUint16LE() (uint16, error) {
	v, err := b.ReadUint16BE()
	return reverseBytes16(v), err
}

// WriteUint32BE appends v as four big-endian bytes.
func (b *Buffer) WriteUint32BE(v uint32) {
	s := b.writableSegment(4)
	if s.remainingCapacity() >= 4 {
		s.writeUint32(v)
		b.size += 4
		return
	}
	b.WriteByte(byte(v >> 24))
	b.WriteByte(byte(v >> 16))
	b.WriteByte(byte(v >> 8))
	b.WriteByte(byte(v))
}

// WriteUint32LE appends v as four little-endian bytes.
func (b *Buffer) WriteUint32LE(v uint32) { b.WriteUint32BE(reverseBytes32(v)) }

// ReadUint32BE consumes four big-endian bytes and returns the value.
func (b *Buffer) ReadUint32BE() (uint32, error) {
	if b.size < 4 {
		return 0, newEOFError("Buffer.ReadUint32BE", 4, b.size)
	}
	s := b.head
	if s.size() >= 4 {
		v := s.readUint32()
		b.size -= 4
		if s.size() == 0 {
			b.recycleHead()
		}
		return v, nil
	}
	var v uint32
	for i := 0; i < 4; i++ {
		x, _ := b.ReadByte()
		v = v<<8 | uint32(x)
	}
	return v, nil
}

// ReadUint32LE consumes four little-endian bytes and returns the value.
func (b *Buffer) ReadUint32LE() (uint32, error) {
	v, err := b.ReadUint32BE()
	return reverseBytes32(v), err
}

// WriteUint64BE appends v as eight big-endian bytes.
func (b *Buffer) WriteUint64BE(v uint64) {
	s := b.writableSegment(8)
	if s.remainingCapacity() >= 8 {
		s.writeUint64(v)
		b.size += 8
		return
	}
	for shift := 56; shift >= 0; shift -= 8 {
		b.WriteByte(byte(v >> shift))
	}
}

// WriteUint64LE appends v as eight little-endian bytes.
func (b *Buffer) WriteUint64LE(v uint64) { b.WriteUint64BE(reverseBytes64(v)) }

// ReadUint64BE consumes eight big-endian bytes and returns the value.
func (b *Buffer) ReadUint64BE() (uint64, error) {
	if b.size < 8 {
		return 0, newEOFError("Buffer.ReadUint64BE", 8, b.size)
	}
	s := b.head
	if s.size() >= 8 {
		v := s.readUint64()
		b.size -= 8
		if s.size() == 0 {
			b.recycleHead()
		}
		return v, nil
	}
	var v uint64
	for i := 0; i < 8; i++ {
		x, _ := b.ReadByte()
		v = v<<8 | uint64(x)
	}
	return v, nil
}

// ReadUint64LE consumes eight little-endian bytes and returns the value.
func (b *Buffer) ReadUint64LE() (uint64, error) {
	v, err := b.ReadUint64BE()
	return reverseBytes64(v), err
}

// Signed-integer and float convenience wrappers: same wire format,
// just reinterpreted bit patterns.

func (b *Buffer) WriteInt16BE(v int16) { b.WriteUint16BE(uint16(v)) }
func (b *Buffer) WriteInt16LE(v int16) { b.WriteUint16LE(uint16(v)) }
func (b *Buffer) ReadInt16BE() (int16, error) {
	v, err := b.ReadUint16BE()
	return int16(v), err
}
func (b *Buffer) ReadInt16LE() (int16, error) {
	v, err := b.ReadUint16LE()
	return int16(v), err
}

func (b *Buffer) WriteInt32BE(v int32) { b.WriteUint32BE(uint32(v)) }
func (b *Buffer) WriteInt32LE(v int32) { b.WriteUint32LE(uint32(v)) }
func (b *Buffer) ReadInt32BE() (int32, error) {
	v, err := b.ReadUint32BE()
	return int32(v), err
}
func (b *Buffer) ReadInt32LE() (int32, error) {
	v, err := b.ReadUint32LE()
	return int32(v), err
}

func (b *Buffer) WriteInt64BE(v int64) { b.WriteUint64BE(uint64(v)) }
func (b *Buffer) WriteInt64LE(v int64) { b.WriteUint64LE(uint64(v)) }
func (b *Buffer) ReadInt64BE() (int64, error) {
	v, err := b.ReadUint64BE()
	return int64(v), err
}
func (b *Buffer) ReadInt64LE() (int64, error) {
	v, err := b.ReadUint64LE()
	return int64(v), err
}

// WriteFloat32BE/LE and WriteFloat64BE/LE encode via the value's
// IEEE-754 bit representation (math.Float32bits/Float64bits). A NaN
// written then read is not required to preserve its exact bit
// pattern — Go's math.Float32bits/frombits do not themselves
// canonicalize, but callers must not depend on payload bits surviving
// a round trip on every platform.

func (b *Buffer) WriteFloat32BE(v float32) { b.WriteUint32BE(math.Float32bits(v)) }
func (b *Buffer) WriteFloat32LE(v float32) { b.WriteUint32LE(math.Float32bits(v)) }
func (b *Buffer) ReadFloat32BE() (float32, error) {
	v, err := b.ReadUint32BE()
	return math.Float32frombits(v), err
}
func (b *Buffer) ReadFloat32LE() (float32, error) {
	v, err := b.ReadUint32LE()
	return math.Float32frombits(v), err
}

func (b *Buffer) WriteFloat64BE(v float64) { b.WriteUint64BE(math.Float64bits(v)) }
func (b *Buffer) WriteFloat64LE(v float64) { b.WriteUint64LE(math.Float64bits(v)) }
func (b *Buffer) ReadFloat64BE() (float64, error) {
	v, err := b.ReadUint64BE()
	return math.Float64frombits(v), err
}
func (b *Buffer) ReadFloat64LE() (float64, error) {
	v, err := b.ReadUint64LE()
	return math.Float64frombits(v), err
}

func reverseBytes16(v uint16) uint16 { return v>>8 | v<<8 }

func reverseBytes32(v uint32) uint32 {
	return v>>24&0xff | v>>8&0xff00 | v<<8&0xff0000 | v<<24&0xff000000
}

func reverseBytes64(v uint64) uint64 {
	return (v>>56)&0xff | (v>>40)&0xff00 | (v>>24)&0xff0000 | (v>>8)&0xff000000 |
		(v<<8)&0xff00000000 | (v<<24)&0xff0000000000 | (v<<40)&0xff000000000000 | (v<<56)&0xff00000000000000
}

// ReadAvailableInt16Array reads up to len(dst) int16 elements,
// big-endian, stopping at whatever is available. Returns -1 if the
// buffer was empty before the call and len(dst) > 0, 0 if the buffer
// holds fewer than 2 bytes (not even one full element), otherwise the
// number of elements read.
func (b *Buffer) ReadAvailableInt16Array(dst []int16) int {
	if len(dst) == 0 {
		return 0
	}
	if b.size == 0 {
		return -1
	}
	n := 0
	for n < len(dst) && b.size >= 2 {
		v, _ := b.ReadInt16BE()
		dst[n] = v
		n++
	}
	return n
}

// ReadFullInt16Array reads exactly len(dst) int16 elements, big-endian,
// failing with an *EOFError (no partial writes to dst beyond what was
// actually read) if fewer are available.
func (b *Buffer) ReadFullInt16Array(dst []int16) error {
	need := int64(len(dst)) * 2
	if need > b.size {
		return newEOFError("Buffer.ReadFullInt16Array", need, b.size)
	}
	for i := range dst {
		dst[i], _ = b.ReadInt16BE()
	}
	return nil
}

// WriteInt16Array appends every element of src, big-endian.
func (b *Buffer) WriteInt16Array(src []int16) {
	for _, v := range src {
		b.WriteInt16BE(v)
	}
}

// ReadAvailableInt32Array is the 4-byte-element counterpart of
// ReadAvailableInt16Array; see its doc comment for the return
// convention.
func (b *Buffer) ReadAvailableInt32Array(dst []int32) int {
	if len(dst) == 0 {
		return 0
	}
	if b.size == 0 {
		return -1
	}
	n := 0
	for n < len(dst) && b.size >= 4 {
		v, _ := b.ReadInt32BE()
		dst[n] = v
		n++
	}
	return n
}

// ReadFullInt32Array reads exactly len(dst) int32 elements, big-endian.
func (b *Buffer) ReadFullInt32Array(dst []int32) error {
	need := int64(len(dst)) * 4
	if need > b.size {
		return newEOFError("Buffer.ReadFullInt32Array", need, b.size)
	}
	for i := range dst {
		dst[i], _ = b.ReadInt32BE()
	}
	return nil
}

// WriteInt32Array appends every element of src, big-endian.
func (b *Buffer) WriteInt32Array(src []int32) {
	for _, v := range src {
		b.WriteInt32BE(v)
	}
}

// ReadAvailableFloat64Array is the 8-byte-element counterpart of
// ReadAvailableInt16Array; see its doc comment for the return
// convention.
func (b *Buffer) ReadAvailableFloat64Array(dst []float64) int {
	if len(dst) == 0 {
		return 0
	}
	if b.size == 0 {
		return -1
	}
	n := 0
	for n < len(dst) && b.size >= 8 {
		v, _ := b.ReadFloat64BE()
		dst[n] = v
		n++
	}
	return n
}

// ReadFullFloat64Array reads exactly len(dst) float64 elements,
// big-endian.
func (b *Buffer) ReadFullFloat64Array(dst []float64) error {
	need := int64(len(dst)) * 8
	if need > b.size {
		return newEOFError("Buffer.ReadFullFloat64Array", need, b.size)
	}
	for i := range dst {
		dst[i], _ = b.ReadFloat64BE()
	}
	return nil
}

// WriteFloat64Array appends every element of src, big-endian.
func (b *Buffer) WriteFloat64Array(src []float64) {
	for _, v := range src {
		b.WriteFloat64BE(v)
	}
}
