// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf

import "io"

// Transformation is a streaming byte filter applied between a source
// and a sink: TransformAtMostTo consumes up to byteCount bytes from
// source and appends zero or more transformed bytes to sink,
// returning the number of source bytes actually consumed. Finalize is
// called exactly once, after the source is exhausted, to let the
// transformation flush any bytes it was withholding (e.g. a block
// cipher's final partial block).
type Transformation interface {
	TransformAtMostTo(source, sink *Buffer, byteCount int64) (int64, error)
	Finalize(sink *Buffer) error
}

// Processor is a streaming sink-side observer: Process consumes up to
// byteCount bytes from source without necessarily producing any output
// of its own (a running checksum, a byte counter). Compute returns its
// accumulated result once the source has been fully processed.
type Processor interface {
	Process(source *Buffer, byteCount int64) error
	Compute() any
}

// FilteringSource applies a Transformation to every byte pulled from
// an underlying BufferedSource, presenting the transformed bytes as
// its own output.
type FilteringSource struct {
	_ noCopy

	upstream *BufferedSource
	xform    Transformation
	out      Buffer
	upstreamEOF bool
	finalized   bool
}

// NewFilteringSource wraps upstream, running every byte through xform
// before it is returned.
func NewFilteringSource(upstream *BufferedSource, xform Transformation) *FilteringSource {
	return &FilteringSource{upstream: upstream, xform: xform}
}

func (f *FilteringSource) fill(want int64) error {
	for f.out.Size() < want {
		if f.upstreamEOF {
			if f.finalized {
				return nil
			}
			f.finalized = true
			return f.xform.Finalize(&f.out)
		}
		var scratch Buffer
		n, err := f.upstream.ReadAtMostTo(&scratch, SegmentSizeOrDefault())
		if n > 0 {
			if _, xerr := f.xform.TransformAtMostTo(&scratch, &f.out, n); xerr != nil {
				return xerr
			}
		}
		if err != nil {
			f.upstreamEOF = true
		}
	}
	return nil
}

// Read returns up to len(p) transformed bytes.
func (f *FilteringSource) Read(p []byte) (int, error) {
	if err := f.fill(int64(len(p))); err != nil {
		return 0, err
	}
	if f.out.Empty() {
		return 0, io.EOF
	}
	return f.out.Read(p)
}

// ReadUTF8CodePoint decodes one code point from the transformed
// stream.
func (f *FilteringSource) ReadUTF8CodePoint() (rune, error) {
	if err := f.fill(4); err != nil {
		return 0, err
	}
	return f.out.ReadUTF8CodePoint()
}

// FilteringSink applies a Transformation to every byte written before
// passing the transformed bytes to an underlying BufferedSink.
type FilteringSink struct {
	_ noCopy

	downstream *BufferedSink
	xform      Transformation
	finalized  bool
}

// NewFilteringSink wraps downstream, running every written byte
// through xform first.
func NewFilteringSink(downstream *BufferedSink, xform Transformation) *FilteringSink {
	return &FilteringSink{downstream: downstream, xform: xform}
}

// Write transforms and forwards p.
func (f *FilteringSink) Write(p []byte) (int, error) {
	var in Buffer
	in.writeByteSlice(p)
	if _, err := f.xform.TransformAtMostTo(&in, &f.downstream.buf, int64(len(p))); err != nil {
		return 0, err
	}
	f.downstream.hintEmit()
	if f.downstream.err != nil {
		return 0, f.downstream.err
	}
	return len(p), nil
}

// Close finalizes the transformation and closes the downstream sink.
func (f *FilteringSink) Close() error {
	if !f.finalized {
		f.finalized = true
		if err := f.xform.Finalize(&f.downstream.buf); err != nil {
			return err
		}
	}
	return f.downstream.Close()
}

// RunProcessor feeds every byte currently buffered in src through p
// without consuming src (a read-only pass, used to compute a digest or
// count over a Buffer snapshot).
func RunProcessor(src *Buffer, p Processor) (any, error) {
	scratch := src.Copy()
	for !scratch.Empty() {
		n := scratch.Size()
		if err := p.Process(scratch, n); err != nil {
			return nil, err
		}
		_ = scratch.Skip(n)
	}
	return p.Compute(), nil
}

// XORMaskTransform is a Transformation that XORs every byte against a
// repeating key, a minimal streaming cipher used mainly to exercise
// the Transformation interface end-to-end (not a cryptographically
// secure construction).
type XORMaskTransform struct {
	Key []byte

	pos int
}

// TransformAtMostTo XORs up to byteCount bytes from source with the
// repeating key and appends the result to sink.
func (x *XORMaskTransform) TransformAtMostTo(source, sink *Buffer, byteCount int64) (int64, error) {
	if len(x.Key) == 0 {
		return 0, ErrIllegalArgument
	}
	n := source.Size()
	if n > byteCount {
		n = byteCount
	}
	buf := make([]byte, n)
	if err := source.ReadFullByteSlice(buf); err != nil {
		return 0, err
	}
	for i := range buf {
		buf[i] ^= x.Key[x.pos]
		x.pos = (x.pos + 1) % len(x.Key)
	}
	sink.writeByteSlice(buf)
	return n, nil
}

// Finalize is a no-op: XORMaskTransform withholds no bytes.
func (x *XORMaskTransform) Finalize(sink *Buffer) error { return nil }

// ByteCountProcessor is a Processor that counts bytes observed without
// altering them.
type ByteCountProcessor struct {
	count int64
}

// Process advances the running count by byteCount, consuming that
// many bytes from source.
func (p *ByteCountProcessor) Process(source *Buffer, byteCount int64) error {
	if err := source.Skip(byteCount); err != nil {
		return err
	}
	p.count += byteCount
	return nil
}

// Compute returns the total byte count observed so far, as an int64.
func (p *ByteCountProcessor) Compute() any { return p.count }
