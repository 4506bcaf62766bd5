// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf_test

import (
	"testing"

	"code.hybscloud.com/qbuf"
)

func TestEncodeCodePointASCII(t *testing.T) {
	var b qbuf.Buffer
	if err := b.EncodeCodePoint('A'); err != nil {
		t.Fatalf("EncodeCodePoint: %v", err)
	}
	cp, err := b.ReadUTF8CodePoint()
	if err != nil || cp != 'A' {
		t.Fatalf("ReadUTF8CodePoint = (%v, %v), want 'A'", cp, err)
	}
}

func TestEncodeCodePointRejectsSurrogate(t *testing.T) {
	var b qbuf.Buffer
	if err := b.EncodeCodePoint(0xD800); err == nil {
		t.Fatal("EncodeCodePoint(surrogate) should fail")
	}
	if b.Size() != 0 {
		t.Errorf("failed EncodeCodePoint should not write anything, Size() = %d", b.Size())
	}
}

func TestWriteUTF16StringSurrogatePair(t *testing.T) {
	var b qbuf.Buffer
	// U+1F600 GRINNING FACE, encoded as the surrogate pair D83D DE00.
	b.WriteUTF16String([]uint16{0xD83D, 0xDE00})

	raw := make([]byte, 4)
	_ = b.ReadFullByteSlice(raw)
	want := []byte{0xF0, 0x9F, 0x98, 0x80}
	for i := range want {
		if raw[i] != want[i] {
			t.Fatalf("encoded bytes = % x, want % x", raw, want)
		}
	}
}

func TestWriteUTF16StringLoneSurrogateReplaced(t *testing.T) {
	var b qbuf.Buffer
	b.WriteUTF16String([]uint16{'A', 0xD800, 'B'})
	got, err := b.ReadUTF8String(b.Size())
	if err != nil {
		t.Fatalf("ReadUTF8String: %v", err)
	}
	if got != "A?B" {
		t.Errorf("got %q, want %q", got, "A?B")
	}
}

func TestReadUTF8CodePointMalformedOverlong(t *testing.T) {
	var b qbuf.Buffer
	// C0 80 41 is an overlong encoding of NUL followed by 'A'.
	b.Write([]byte{0xC0, 0x80, 0x41})

	cp, err := b.ReadUTF8CodePoint()
	if err != nil || cp != 0xFFFD {
		t.Fatalf("first code point = (%U, %v), want U+FFFD", cp, err)
	}
	cp, err = b.ReadUTF8CodePoint()
	if err != nil || cp != 'A' {
		t.Fatalf("second code point = (%U, %v), want 'A'", cp, err)
	}
}

func TestReadUTF8CodePointTruncatedAtEnd(t *testing.T) {
	var b qbuf.Buffer
	b.Write([]byte{0xE2, 0x82}) // truncated 3-byte sequence, no more upstream
	cp, err := b.ReadUTF8CodePoint()
	if err != nil || cp != 0xFFFD {
		t.Fatalf("truncated sequence = (%U, %v), want U+FFFD", cp, err)
	}
	if !b.Empty() {
		t.Errorf("truncated sequence should still consume its valid continuation bytes, Size() = %d", b.Size())
	}
}

func TestReadUTF8CodePointEmptyBufferIsEOF(t *testing.T) {
	var b qbuf.Buffer
	if _, err := b.ReadUTF8CodePoint(); err == nil {
		t.Fatal("expected *EOFError on empty buffer")
	}
}

func TestWriteUTF8StringRoundTrip(t *testing.T) {
	var b qbuf.Buffer
	b.WriteUTF8String("hello, 世界")
	got, err := b.ReadUTF8String(b.Size())
	if err != nil {
		t.Fatalf("ReadUTF8String: %v", err)
	}
	if got != "hello, 世界" {
		t.Errorf("got %q", got)
	}
}
