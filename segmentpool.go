// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/qbuf/internal"
	"code.hybscloud.com/spin"
)

// DefaultMaxPoolBytes is the default cap on the total number of bytes
// the default SegmentPool retains across all shards' free lists. 1
// MiB, enough for roughly 128 idle 8 KiB segments before recycle
// starts dropping references instead of growing the pool unbounded.
const DefaultMaxPoolBytes = 1 << 20

// segmentPool is a process-wide free list of recycled segments, sharded
// across a small, fixed number of shards to reduce contention. take
// never blocks: on an empty pool it allocates a fresh segment. recycle
// never blocks: it either returns s to a shard's free list or, once
// the pool's retained-byte cap is reached, drops the reference (the
// backing array is left for the garbage collector).
//
// Each shard is cache-line padded (internal.CacheLineSize) to avoid
// false sharing between goroutines hashed to adjacent shards.
type segmentPool struct {
	_ noCopy

	shards    []segmentPoolShard
	shardMask uint32

	totalBytes atomic.Int64
	maxBytes   int64

	segmentSize int

	pick atomic.Uint32
}

type segmentPoolShard struct {
	mu   sync.Mutex
	free []*segment
	_    [internal.CacheLineSize]byte
}

// newSegmentPool creates a segmentPool capped at maxBytes retained free
// bytes, sharded across the next power of two at or above GOMAXPROCS
// (capped at 64 shards — beyond that the marginal contention reduction
// does not repay the extra idle-segment fragmentation across shards).
func newSegmentPool(maxBytes int64, segmentSize int) *segmentPool {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	if n > 64 {
		n = 64
	}
	shardCount := 1
	for shardCount < n {
		shardCount <<= 1
	}
	return &segmentPool{
		shards:      make([]segmentPoolShard, shardCount),
		shardMask:   uint32(shardCount - 1),
		maxBytes:    maxBytes,
		segmentSize: segmentSize,
	}
}

// defaultSegmentPool is the pool used by every Buffer created without
// an explicit pool override. sharedDefaultPool (called from
// Buffer.poolOrDefault) lazily (re-)creates it if
// SegmentSize has changed since it was built, so tests that lower
// SegmentSize before constructing Buffers get small segments.
var defaultPoolMu sync.Mutex
var defaultPool *segmentPool
var defaultPoolSegmentSize int

func sharedDefaultPool() *segmentPool {
	defaultPoolMu.Lock()
	defer defaultPoolMu.Unlock()
	if defaultPool == nil || defaultPoolSegmentSize != SegmentSize {
		defaultPool = newSegmentPool(DefaultMaxPoolBytes, SegmentSize)
		defaultPoolSegmentSize = SegmentSize
	}
	return defaultPool
}

func (p *segmentPool) pickShard() uint32 {
	return p.pick.Add(1) & p.shardMask
}

// take returns a segment in initial state: pos == limit == 0,
// owner == true, shared == false, next == prev == nil. It recycles a
// previously freed segment when one is available in any shard,
// otherwise allocates a fresh backing array.
func (p *segmentPool) take() *segment {
	start := p.pickShard()
	for attempt := uint32(0); attempt <= p.shardMask; attempt++ {
		sh := &p.shards[(start+attempt)&p.shardMask]
		var sw spin.Wait
		for tries := 0; tries < 4; tries++ {
			if sh.mu.TryLock() {
				if n := len(sh.free); n > 0 {
					s := sh.free[n-1]
					sh.free[n-1] = nil
					sh.free = sh.free[:n-1]
					sh.mu.Unlock()
					p.totalBytes.Add(-int64(len(s.data)))
					s.pos, s.limit = 0, 0
					s.owner, s.shared = true, false
					s.next, s.prev = nil, nil
					return s
				}
				sh.mu.Unlock()
				break
			}
			sw.Once()
		}
	}
	return p.allocate()
}

func (p *segmentPool) allocate() *segment {
	return &segment{
		data:  alignedSegmentData(p.segmentSize),
		owner: true,
	}
}

// recycle returns s to the pool if it is not shared and the pool has
// room for one more segment's worth of bytes; otherwise it drops the
// reference. It resets pos/limit to 0, clears next/prev, and preserves
// owner == true so the segment is immediately reusable by take.
func (p *segmentPool) recycle(s *segment) {
	if s.shared {
		return
	}
	s.pos, s.limit = 0, 0
	s.next, s.prev = nil, nil
	s.owner = true

	sz := int64(len(s.data))
	for {
		cur := p.totalBytes.Load()
		if cur+sz > p.maxBytes {
			return
		}
		if p.totalBytes.CompareAndSwap(cur, cur+sz) {
			break
		}
	}

	shard := &p.shards[p.pickShard()]
	shard.mu.Lock()
	shard.free = append(shard.free, s)
	shard.mu.Unlock()
}

// retainedBytes reports the pool's current retained free-byte count,
// for diagnostics and tests.
func (p *segmentPool) retainedBytes() int64 {
	return p.totalBytes.Load()
}

// alignedSegmentData returns a byte slice of size bytes for use as a
// segment's backing array. It is page-aligned when size is at least
// PageSize; smaller sizes (or PageSize 0) get a plain make([]byte, size)
// with no alignment guarantee. Alignment is applied even though qbuf itself never
// issues a direct-memory I/O call; the alignment costs nothing a plain
// make([]byte, n) wouldn't already cost in allocator rounding.
func alignedSegmentData(size int) []byte {
	pageSize := PageSize
	if pageSize == 0 || uintptr(size) < pageSize {
		return make([]byte, size)
	}
	p := make([]byte, uintptr(size)+pageSize-1)
	base := unsafe.Pointer(unsafe.SliceData(p))
	offset := ((uintptr(base)+pageSize-1)/pageSize)*pageSize - uintptr(base)
	return unsafe.Slice((*byte)(unsafe.Add(base, offset)), size)
}
