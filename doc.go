// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package qbuf provides a segmented in-memory byte queue, a process-wide
// segment pool, and buffered source/sink adapters for building
// allocation-free I/O paths.
//
// # Segment and Buffer
//
// Buffer is an unbounded FIFO byte queue backed by a doubly-linked list
// of fixed-capacity Segments. Segments are drawn from and returned to a
// process-wide SegmentPool so that steady-state append/consume cycles
// do not allocate:
//
//	var b qbuf.Buffer
//	b.WriteByte(0x01)
//	n, _ := b.ReadByte()
//
// # Sharing
//
// Buffer.Copy() produces an independent Buffer that shares the same
// underlying Segment byte arrays via Segment.sharedCopy, in O(segments)
// time with no byte copying. A shared Segment is immutable: only the
// owner may extend it, and any holder may advance its own pos/limit
// cursors independently.
//
// # Primitive and UTF-8 codecs
//
// Buffer exposes big-endian and little-endian fixed-width integer and
// float codecs (ReadInt32BE/WriteInt32BE, ...) that operate in place when
// a value fits in the head Segment and fall back to a byte-at-a-time
// path when it spans two or more Segments. The UTF-8 codec
// (WriteUTF16String, ReadUTF8CodePoint, ...) has the same span-safety
// property and replaces malformed input with U+FFFD on decode and lone
// UTF-16 surrogates with '?' on encode (WriteUTF16String;
// WriteUTF8String copies a Go string's bytes unchanged), per the
// replacement policy described in each function's doc comment.
//
// # Buffered source/sink
//
// BufferedSource and BufferedSink wrap a caller-supplied RawSource or
// RawSink (pull/push byte streams) with an internal Buffer, batching
// I/O and exposing require/request/peek/emit/flush. Neither type, nor
// Buffer itself, is safe for concurrent use; SegmentPool is.
package qbuf
