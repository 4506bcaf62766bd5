// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf

import "io"

// RawSource is the upstream byte producer a BufferedSource pulls
// from. ReadAtMostTo appends at most byteCount bytes to sink and
// returns the number actually appended; it returns io.EOF once no more
// bytes will ever be produced (the same sentinel io.Reader uses, so an
// io.Reader can be adapted directly — see NewRawSourceFromReader).
type RawSource interface {
	ReadAtMostTo(sink *Buffer, byteCount int64) (int64, error)
	Close() error
}

// RawSink is the downstream byte consumer a BufferedSink drains into.
// Write consumes exactly byteCount bytes from source. Flush asks the
// sink to push any internally buffered bytes further downstream (e.g.
// a socket's kernel buffer); Close is idempotent.
type RawSink interface {
	Write(source *Buffer, byteCount int64) error
	Flush() error
	Close() error
}

// readerRawSource adapts an io.Reader to RawSource.
type readerRawSource struct {
	r   io.Reader
	tmp []byte
}

// NewRawSourceFromReader adapts r to RawSource, reading through an
// internal scratch buffer sized to SegmentSize.
func NewRawSourceFromReader(r io.Reader) RawSource {
	return &readerRawSource{r: r, tmp: make([]byte, SegmentSize)}
}

func (rs *readerRawSource) ReadAtMostTo(sink *Buffer, byteCount int64) (int64, error) {
	if byteCount <= 0 {
		return 0, nil
	}
	buf := rs.tmp
	if int64(len(buf)) > byteCount {
		buf = buf[:byteCount]
	}
	n, err := rs.r.Read(buf)
	if n > 0 {
		sink.writeByteSlice(buf[:n])
	}
	if err != nil {
		return int64(n), err
	}
	return int64(n), nil
}

func (rs *readerRawSource) Close() error {
	if c, ok := rs.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// writerRawSink adapts an io.Writer to RawSink.
type writerRawSink struct {
	w   io.Writer
	tmp []byte
}

// NewRawSinkFromWriter adapts w to RawSink.
func NewRawSinkFromWriter(w io.Writer) RawSink {
	return &writerRawSink{w: w, tmp: make([]byte, SegmentSize)}
}

func (ws *writerRawSink) Write(source *Buffer, byteCount int64) error {
	for byteCount > 0 {
		n := int64(len(ws.tmp))
		if n > byteCount {
			n = byteCount
		}
		if err := source.ReadFullByteSlice(ws.tmp[:n]); err != nil {
			return err
		}
		if _, err := ws.w.Write(ws.tmp[:n]); err != nil {
			return err
		}
		byteCount -= n
	}
	return nil
}

func (ws *writerRawSink) Flush() error {
	if f, ok := ws.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (ws *writerRawSink) Close() error {
	if c, ok := ws.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// BufferedSource wraps a RawSource with an internal Buffer, pulling
// from upstream on demand. It is not safe for concurrent use.
type BufferedSource struct {
	_ noCopy

	source      RawSource
	buf         Buffer
	closed      bool
	upstreamEOF bool

	// generation counts consuming operations performed on this source.
	// peekParent/peekGeneration let a source returned by Peek detect
	// that its parent has since been read from or otherwise advanced,
	// at which point it must refuse further reads rather than silently
	// serving data that no longer reflects what was peeked.
	generation     uint64
	peekParent     *BufferedSource
	peekGeneration uint64
}

// NewBufferedSource wraps source.
func NewBufferedSource(source RawSource) *BufferedSource {
	return &BufferedSource{source: source}
}

// Exhausted reports whether the buffer is currently empty and a prior
// Request/Require already observed upstream io.EOF. It never pulls
// from upstream itself, so a freshly constructed BufferedSource whose
// upstream is in fact already at EOF reports false until something
// calls Request.
func (s *BufferedSource) Exhausted() bool {
	return s.buf.Empty() && s.upstreamEOF
}

// Request attempts to ensure at least byteCount bytes are buffered,
// pulling from upstream as needed. It returns true if that many bytes
// are available after the call, false if upstream reached io.EOF
// first (in which case fewer than byteCount bytes, possibly zero, are
// buffered).
func (s *BufferedSource) Request(byteCount int64) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	for s.buf.Size() < byteCount {
		n, err := s.source.ReadAtMostTo(&s.buf, SegmentSizeOrDefault())
		if err == io.EOF {
			s.upstreamEOF = true
			return s.buf.Size() >= byteCount, nil
		}
		if err != nil {
			return false, err
		}
		if n == 0 {
			return s.buf.Size() >= byteCount, nil
		}
	}
	return true, nil
}

// SegmentSizeOrDefault reports the current SegmentSize as an int64,
// the chunk size BufferedSource requests from upstream per pull.
func SegmentSizeOrDefault() int64 { return int64(SegmentSize) }

// Require ensures at least byteCount bytes are buffered, failing with
// an *EOFError if upstream is exhausted first.
func (s *BufferedSource) Require(byteCount int64) error {
	ok, err := s.Request(byteCount)
	if err != nil {
		return err
	}
	if !ok {
		return newEOFError("BufferedSource.Require", byteCount, s.buf.Size())
	}
	return nil
}

func (s *BufferedSource) checkOpen() error {
	if s.closed {
		return ErrClosed
	}
	if s.peekParent != nil && s.peekParent.generation != s.peekGeneration {
		return ErrPeekInvalidated
	}
	return nil
}

// bumpGeneration marks that a consuming operation has run, invalidating
// any outstanding BufferedSource returned by a prior call to s.Peek.
func (s *BufferedSource) bumpGeneration() {
	s.generation++
}

// ReadByte reads a single byte, pulling from upstream if necessary.
func (s *BufferedSource) ReadByte() (byte, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	s.bumpGeneration()
	if err := s.Require(1); err != nil {
		return 0, err
	}
	return s.buf.ReadByte()
}

// ReadUint16BE reads a big-endian uint16, pulling from upstream as
// needed to span the value across a buffer refill.
func (s *BufferedSource) ReadUint16BE() (uint16, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	s.bumpGeneration()
	if err := s.Require(2); err != nil {
		return 0, err
	}
	return s.buf.ReadUint16BE()
}

// ReadUint32BE reads a big-endian uint32.
func (s *BufferedSource) ReadUint32BE() (uint32, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	s.bumpGeneration()
	if err := s.Require(4); err != nil {
		return 0, err
	}
	return s.buf.ReadUint32BE()
}

// ReadUint64BE reads a big-endian uint64.
func (s *BufferedSource) ReadUint64BE() (uint64, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	s.bumpGeneration()
	if err := s.Require(8); err != nil {
		return 0, err
	}
	return s.buf.ReadUint64BE()
}

// ReadUTF8CodePoint decodes one UTF-8 code point, first asking
// upstream for up to 4 bytes so that a sequence truncated only because
// the internal buffer hadn't been topped up yet is completed rather
// than replaced; a sequence still truncated after that (true upstream
// EOF) is replaced per Buffer.ReadUTF8CodePoint's rules.
func (s *BufferedSource) ReadUTF8CodePoint() (rune, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	s.bumpGeneration()
	if err := s.Require(1); err != nil {
		return 0, err
	}
	_, _ = s.Request(4)
	return s.buf.ReadUTF8CodePoint()
}

// ReadUTF8String decodes exactly byteCount bytes as UTF-8, pulling
// from upstream as needed.
func (s *BufferedSource) ReadUTF8String(byteCount int64) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	s.bumpGeneration()
	if err := s.Require(byteCount); err != nil {
		return "", err
	}
	return s.buf.ReadUTF8String(byteCount)
}

const maxLineLength = 1 << 20

// ReadUTF8Line reads and consumes one line (delimited by "\n" or
// "\r\n", the delimiter itself discarded), pulling from upstream as
// needed. It returns io.EOF if upstream is exhausted with no trailing
// newline and nothing left to return, or the final partial line
// otherwise (mirroring bufio.Scanner's last-line behavior). Lines
// longer than 1 MiB fail with an *EOFError naming that bound rather
// than growing unbounded.
func (s *BufferedSource) ReadUTF8Line() (string, error) {
	return s.readUTF8LineUpTo(maxLineLength, false)
}

// ReadUTF8LineStrict is like ReadUTF8Line but fails with an *EOFError
// if the line (including its delimiter) exceeds limit bytes, or if
// upstream ends before any delimiter is found at all — unlike
// ReadUTF8Line, it never returns a trailing undelimited partial line.
func (s *BufferedSource) ReadUTF8LineStrict(limit int64) (string, error) {
	return s.readUTF8LineUpTo(limit, true)
}

func (s *BufferedSource) readUTF8LineUpTo(limit int64, strict bool) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	s.bumpGeneration()
	for {
		idx := s.buf.indexOfByte('\n', 0, s.buf.Size())
		if idx >= 0 {
			lineLen := idx
			counted := lineLen // the lenient bound counts the line alone
			if strict {
				counted = lineLen + 1 // the strict bound includes the delimiter
			}
			if counted > limit {
				return "", newEOFError("BufferedSource.ReadUTF8Line", limit+1, s.buf.Size())
			}
			hasCR := lineLen > 0 && s.buf.At(lineLen-1) == '\r'
			raw := make([]byte, lineLen)
			_ = s.buf.ReadFullByteSlice(raw)
			_, _ = s.buf.ReadByte() // the '\n'
			if hasCR {
				raw = raw[:len(raw)-1]
			}
			return string(raw), nil
		}
		if s.buf.Size() > limit {
			return "", newEOFError("BufferedSource.ReadUTF8Line", limit+1, s.buf.Size())
		}
		ok, err := s.Request(s.buf.Size() + 1)
		if err != nil {
			return "", err
		}
		if !ok {
			if strict {
				return "", newEOFError("BufferedSource.ReadUTF8LineStrict", limit+1, s.buf.Size())
			}
			if s.buf.Size() == 0 {
				return "", io.EOF
			}
			n := s.buf.Size()
			raw := make([]byte, n)
			_ = s.buf.ReadFullByteSlice(raw)
			return string(raw), nil
		}
	}
}

// ReadAtMostTo transfers up to byteCount bytes into sink, preferring
// already-buffered bytes and pulling from upstream only if the buffer
// is empty. It returns io.EOF only if nothing could be transferred.
func (s *BufferedSource) ReadAtMostTo(sink *Buffer, byteCount int64) (int64, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	s.bumpGeneration()
	if s.buf.Empty() {
		n, err := s.source.ReadAtMostTo(&s.buf, byteCount)
		if err == io.EOF && n == 0 {
			return 0, io.EOF
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
	}
	n := byteCount
	if n > s.buf.Size() {
		n = s.buf.Size()
	}
	if n == 0 {
		return 0, io.EOF
	}
	if err := s.buf.CopyTo(sink, 0, n); err != nil {
		return 0, err
	}
	_ = s.buf.Skip(n)
	return n, nil
}

// TransferTo drains every remaining byte (buffered and upstream) into
// sink.
func (s *BufferedSource) TransferTo(sink *Buffer) (int64, error) {
	var total int64
	for {
		n, err := s.ReadAtMostTo(sink, 1<<20)
		total += n
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Skip discards n bytes, pulling from upstream as needed. The
// *EOFError, if upstream runs out first, reports how many bytes were
// actually skipped as Available.
func (s *BufferedSource) Skip(n int64) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.bumpGeneration()
	skipped := int64(0)
	for skipped < n {
		want := n - skipped
		ok, err := s.Request(want)
		if err != nil {
			return err
		}
		avail := s.buf.Size()
		if avail > want {
			avail = want
		}
		_ = s.buf.Skip(avail)
		skipped += avail
		if !ok {
			return newEOFError("BufferedSource.Skip", n, skipped)
		}
	}
	return nil
}

// Peek returns a BufferedSource over the bytes currently buffered in
// s, letting the caller look ahead without consuming from s. The
// peeked source has no upstream of its own: once its bytes are
// exhausted it behaves as a source at end of input (ReadByte and the
// other fixed-size reads fail with an *EOFError) rather than pulling
// further.
//
// The peek is a view onto s as of this call, not an independent copy:
// any later read (or Skip, or anything else that advances s) makes the
// peek stale, and every subsequent operation on it then fails with
// ErrPeekInvalidated instead of silently returning data that no longer
// matches what s currently holds. Re-peeking after such a call
// produces a fresh, valid view.
func (s *BufferedSource) Peek() *BufferedSource {
	peeked := s.buf.Copy()
	p := &BufferedSource{
		source:         exhaustedSource{},
		upstreamEOF:    true,
		peekParent:     s,
		peekGeneration: s.generation,
	}
	p.buf.TransferFrom(peeked)
	return p
}

// exhaustedSource is the upstream for a Peek()'d BufferedSource: it
// never has more bytes of its own.
type exhaustedSource struct{}

func (exhaustedSource) ReadAtMostTo(sink *Buffer, byteCount int64) (int64, error) {
	return 0, io.EOF
}
func (exhaustedSource) Close() error { return nil }

// Close closes the underlying RawSource. It is idempotent; subsequent
// read operations fail with ErrClosed.
func (s *BufferedSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.source.Close()
}

// BufferedSink wraps a RawSink with an internal Buffer, flushing
// complete segments downstream automatically. It is not safe for
// concurrent use.
type BufferedSink struct {
	_ noCopy

	sink   RawSink
	buf    Buffer
	closed bool
	err    error
}

// NewBufferedSink wraps sink.
func NewBufferedSink(sink RawSink) *BufferedSink {
	return &BufferedSink{sink: sink}
}

func (s *BufferedSink) checkOpen() error {
	if s.closed {
		return ErrClosed
	}
	if s.err != nil {
		return s.err
	}
	return nil
}

// hintEmit pushes any complete (no-longer-writable) segments
// downstream, the emit-on-complete-segment policy that keeps
// BufferedSink's steady-state memory bounded without an explicit
// Flush on every write.
func (s *BufferedSink) hintEmit() {
	if s.err != nil {
		return
	}
	if n := s.buf.completeSegmentByteCount(); n > 0 {
		if err := s.sink.Write(&s.buf, n); err != nil {
			s.err = err
		}
	}
}

// WriteByte appends a single byte, hinting an emit afterward.
func (s *BufferedSink) WriteByte(v byte) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	_ = s.buf.WriteByte(v)
	s.hintEmit()
	return s.err
}

// Write implements io.Writer over the sink.
func (s *BufferedSink) Write(p []byte) (int, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	s.buf.writeByteSlice(p)
	s.hintEmit()
	if s.err != nil {
		return 0, s.err
	}
	return len(p), nil
}

// WriteUint16BE appends a big-endian uint16.
func (s *BufferedSink) WriteUint16BE(v uint16) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.buf.WriteUint16BE(v)
	s.hintEmit()
	return s.err
}

// WriteUint32BE appends a big-endian uint32.
func (s *BufferedSink) WriteUint32BE(v uint32) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.buf.WriteUint32BE(v)
	s.hintEmit()
	return s.err
}

// WriteUint64BE appends a big-endian uint64.
func (s *BufferedSink) WriteUint64BE(v uint64) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.buf.WriteUint64BE(v)
	s.hintEmit()
	return s.err
}

// WriteUTF8String appends s's bytes as UTF-8.
func (bs *BufferedSink) WriteUTF8String(s string) error {
	if err := bs.checkOpen(); err != nil {
		return err
	}
	bs.buf.WriteUTF8String(s)
	bs.hintEmit()
	return bs.err
}

// Emit forces every buffered byte, including an incomplete tail
// segment, downstream.
func (s *BufferedSink) Emit() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if n := s.buf.Size(); n > 0 {
		if err := s.sink.Write(&s.buf, n); err != nil {
			s.err = err
		}
	}
	return s.err
}

// HintEmit is the exported form of the automatic complete-segment
// flush policy, for callers composing their own write sequences
// directly against the embedded Buffer.
func (s *BufferedSink) HintEmit() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.hintEmit()
	return s.err
}

// Flush emits everything buffered and then flushes the underlying
// RawSink.
func (s *BufferedSink) Flush() error {
	if err := s.Emit(); err != nil {
		return err
	}
	if err := s.sink.Flush(); err != nil {
		s.err = err
	}
	return s.err
}

// Close flushes and closes the underlying RawSink. It is idempotent;
// the first error encountered (from Emit, Flush, or Close itself) is
// returned by this call and by every later Close call. Write attempts
// after Close fail with ErrClosed.
func (s *BufferedSink) Close() error {
	if s.closed {
		return s.err
	}
	err := s.Emit()
	s.closed = true
	if err != nil {
		return err
	}
	if err := s.sink.Flush(); err != nil {
		s.err = err
		return err
	}
	if err := s.sink.Close(); err != nil {
		s.err = err
		return err
	}
	return nil
}
