// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbuf

// PageSize defines the standard memory page size (4 KiB) used for
// aligning the backing allocation behind each Segment arena slab.
var PageSize uintptr = 4096

// SetPageSize updates the package-level page size used for segment
// arena allocations.
func SetPageSize(size int) {
	PageSize = uintptr(size)
}

// SegmentSize is the fixed capacity, in bytes, of every Segment drawn
// from the default SegmentPool. Nominally 8192; tests may lower it to
// exercise cross-segment behavior with small inputs.
var SegmentSize = 8192

// ShareMinimum is the threshold at which Segment.split prefers a
// sharedCopy (O(1), no byte copy) over copying bytes into a freshly
// pooled Segment.
var ShareMinimum = 1024

// noCopy is a sentinel used to prevent copying of the non-thread-safe
// types in this package (Buffer, BufferedSource, BufferedSink). It has
// no behavior of its own; go vet's copylocks check flags any value
// that embeds it and is copied after first use.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
