// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf_test

import (
	"strings"
	"testing"

	"code.hybscloud.com/qbuf"
)

func TestReadDecimalLongPositive(t *testing.T) {
	src := qbuf.NewBufferedSource(qbuf.NewRawSourceFromReader(strings.NewReader("12345,rest")))
	v, err := src.ReadDecimalLong()
	if err != nil || v != 12345 {
		t.Fatalf("ReadDecimalLong = (%d, %v), want (12345, nil)", v, err)
	}
	b, _ := src.ReadByte()
	if b != ',' {
		t.Errorf("delimiter byte not left in place, got %c", b)
	}
}

func TestReadDecimalLongNegative(t *testing.T) {
	src := qbuf.NewBufferedSource(qbuf.NewRawSourceFromReader(strings.NewReader("-9223372036854775808")))
	v, err := src.ReadDecimalLong()
	if err != nil {
		t.Fatalf("ReadDecimalLong: %v", err)
	}
	const minInt64 = -9223372036854775808
	if v != minInt64 {
		t.Errorf("v = %d, want %d", v, minInt64)
	}
}

func TestReadDecimalLongOverflowLeavesSourceUntouched(t *testing.T) {
	src := qbuf.NewBufferedSource(qbuf.NewRawSourceFromReader(strings.NewReader("99999999999999999999")))
	_, err := src.ReadDecimalLong()
	if err == nil {
		t.Fatal("expected *NumberFormatError on overflow")
	}
	// The source should still hold everything; re-reading the first
	// byte confirms nothing was silently consumed.
	b, rerr := src.ReadByte()
	if rerr != nil || b != '9' {
		t.Fatalf("source was repositioned by a failed parse: (%c, %v)", b, rerr)
	}
}

func TestReadDecimalLongNoDigitsFails(t *testing.T) {
	src := qbuf.NewBufferedSource(qbuf.NewRawSourceFromReader(strings.NewReader("abc")))
	if _, err := src.ReadDecimalLong(); err == nil {
		t.Fatal("expected *NumberFormatError for non-numeric input")
	}
}

func TestReadHexadecimalLong(t *testing.T) {
	src := qbuf.NewBufferedSource(qbuf.NewRawSourceFromReader(strings.NewReader("1a2B3c rest")))
	v, err := src.ReadHexadecimalLong()
	if err != nil || v != 0x1a2B3c {
		t.Fatalf("ReadHexadecimalLong = (%x, %v), want (1a2b3c, nil)", v, err)
	}
}

func TestReadHexadecimalLongOverflow(t *testing.T) {
	src := qbuf.NewBufferedSource(qbuf.NewRawSourceFromReader(strings.NewReader("ffffffffffffffffff")))
	if _, err := src.ReadHexadecimalLong(); err == nil {
		t.Fatal("expected *NumberFormatError on overflow")
	}
}
