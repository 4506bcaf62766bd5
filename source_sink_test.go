// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"code.hybscloud.com/qbuf"
)

func TestBufferedSourceReadByte(t *testing.T) {
	src := qbuf.NewBufferedSource(qbuf.NewRawSourceFromReader(strings.NewReader("abc")))
	for _, want := range []byte("abc") {
		got, err := src.ReadByte()
		if err != nil || got != want {
			t.Fatalf("ReadByte() = (%c, %v), want %c", got, err, want)
		}
	}
	if _, err := src.ReadByte(); err == nil {
		t.Fatal("expected *EOFError after exhausting upstream")
	}
}

func TestBufferedSourceRequireSpansUpstreamReads(t *testing.T) {
	src := qbuf.NewBufferedSource(qbuf.NewRawSourceFromReader(iotest1ByteReader("hello")))
	v, err := src.ReadUint32BE()
	if err != nil {
		t.Fatalf("ReadUint32BE: %v", err)
	}
	want := uint32('h')<<24 | uint32('e')<<16 | uint32('l')<<8 | uint32('l')
	if v != want {
		t.Errorf("v = %x, want %x", v, want)
	}
}

// iotest1ByteReader returns an io.Reader that yields at most one byte
// per Read call, to exercise BufferedSource pulling multiple times to
// satisfy a single multi-byte Require.
func iotest1ByteReader(s string) io.Reader {
	return &oneByteReader{data: []byte(s)}
}

type oneByteReader struct {
	data []byte
	pos  int
}

func (r *oneByteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}

func TestBufferedSinkEmitAndClose(t *testing.T) {
	var out bytes.Buffer
	sink := qbuf.NewBufferedSink(qbuf.NewRawSinkFromWriter(&out))
	_ = sink.WriteUTF8String("hello")
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if out.String() != "hello" {
		t.Errorf("out = %q, want %q", out.String(), "hello")
	}
}

func TestBufferedSinkCloseIsIdempotent(t *testing.T) {
	var out bytes.Buffer
	sink := qbuf.NewBufferedSink(qbuf.NewRawSinkFromWriter(&out))
	_ = sink.WriteUTF8String("x")
	if err := sink.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got: %v", err)
	}
}

func TestBufferedSourceClosedReturnsErrClosed(t *testing.T) {
	src := qbuf.NewBufferedSource(qbuf.NewRawSourceFromReader(strings.NewReader("x")))
	_ = src.Close()
	if _, err := src.ReadByte(); !errors.Is(err, qbuf.ErrClosed) {
		t.Errorf("ReadByte after Close = %v, want ErrClosed", err)
	}
}

func TestBufferedSourceReadUTF8Line(t *testing.T) {
	src := qbuf.NewBufferedSource(qbuf.NewRawSourceFromReader(strings.NewReader("line one\r\nline two\nlast")))
	line, err := src.ReadUTF8Line()
	if err != nil || line != "line one" {
		t.Fatalf("ReadUTF8Line = (%q, %v), want (%q, nil)", line, err, "line one")
	}
	line, err = src.ReadUTF8Line()
	if err != nil || line != "line two" {
		t.Fatalf("ReadUTF8Line = (%q, %v), want (%q, nil)", line, err, "line two")
	}
	line, err = src.ReadUTF8Line()
	if err != nil || line != "last" {
		t.Fatalf("final partial line = (%q, %v), want (%q, nil)", line, err, "last")
	}
	if _, err := src.ReadUTF8Line(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadUTF8Line at true EOF = %v, want io.EOF", err)
	}
}

func TestBufferedSourcePeekDoesNotConsume(t *testing.T) {
	src := qbuf.NewBufferedSource(qbuf.NewRawSourceFromReader(strings.NewReader("abcdef")))
	if err := src.Require(3); err != nil {
		t.Fatalf("Require: %v", err)
	}
	peek := src.Peek()
	pb, err := peek.ReadByte()
	if err != nil || pb != 'a' {
		t.Fatalf("peek ReadByte = (%c, %v)", pb, err)
	}
	b, err := src.ReadByte()
	if err != nil || b != 'a' {
		t.Fatalf("original source should be unaffected by peek reads, got (%c, %v)", b, err)
	}
}

func TestBufferedSourcePeekInvalidatedByParentRead(t *testing.T) {
	src := qbuf.NewBufferedSource(qbuf.NewRawSourceFromReader(strings.NewReader("abcdef")))
	if err := src.Require(3); err != nil {
		t.Fatalf("Require: %v", err)
	}
	peek := src.Peek()
	if _, err := src.ReadByte(); err != nil {
		t.Fatalf("src.ReadByte: %v", err)
	}
	if _, err := peek.ReadByte(); !errors.Is(err, qbuf.ErrPeekInvalidated) {
		t.Fatalf("peek.ReadByte after parent read = %v, want ErrPeekInvalidated", err)
	}

	// A fresh peek taken after the invalidating read is valid again.
	fresh := src.Peek()
	fb, err := fresh.ReadByte()
	if err != nil || fb != 'b' {
		t.Fatalf("fresh peek ReadByte = (%c, %v), want ('b', nil)", fb, err)
	}
}

func TestBufferedSourceReadUTF8LineStrict(t *testing.T) {
	src := qbuf.NewBufferedSource(qbuf.NewRawSourceFromReader(strings.NewReader("first\nsecond")))
	line, err := src.ReadUTF8LineStrict(1024)
	if err != nil || line != "first" {
		t.Fatalf("ReadUTF8LineStrict = (%q, %v), want (%q, nil)", line, err, "first")
	}
	_, err = src.ReadUTF8LineStrict(1024)
	var eofErr *qbuf.EOFError
	if !errors.As(err, &eofErr) {
		t.Fatalf("ReadUTF8LineStrict with no trailing delimiter = %v, want *EOFError", err)
	}
}

func TestBufferedSourceSkip(t *testing.T) {
	src := qbuf.NewBufferedSource(qbuf.NewRawSourceFromReader(strings.NewReader("0123456789")))
	if err := src.Skip(5); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	b, err := src.ReadByte()
	if err != nil || b != '5' {
		t.Fatalf("ReadByte after Skip = (%c, %v), want '5'", b, err)
	}
}

func TestBufferedSourceSkipPastEOF(t *testing.T) {
	src := qbuf.NewBufferedSource(qbuf.NewRawSourceFromReader(strings.NewReader("ab")))
	err := src.Skip(5)
	var eofErr *qbuf.EOFError
	if !errors.As(err, &eofErr) {
		t.Fatalf("Skip past EOF should return *EOFError, got %v", err)
	}
	if eofErr.Available != 2 {
		t.Errorf("Available = %d, want 2", eofErr.Available)
	}
}
