// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ufs

// file is the internal, name-addressable unit of storage. A file stays
// alive as long as refs > 0, even after it has been deleted (removed):
// existing descriptors keep operating on it, and a later open of the same
// name creates a brand new file.
type file struct {
	name    string
	head    *block
	tail    *block
	size    int64 // total occupied payload bytes across the chain
	refs    int
	removed bool
}

func newFile(name string) *file {
	b := newChain()
	return &file{name: name, head: b, tail: b}
}

// truncateTo drops every block after the block at index keepIdx, and sets
// that block's occupied count to occ. keepIdx and occ must already have been
// validated by the caller.
func (f *file) truncateTo(keepIdx int, occ int) {
	b := f.head
	for i := 0; i < keepIdx; i++ {
		b = b.next
	}
	b.next = nil
	// Zero the dropped tail bytes so a later extension exposes zeros.
	clear(b.data[occ:])
	b.occupied = occ
	f.tail = b
	f.size = int64(keepIdx)*BlockSize + int64(occ)
}

// extendBy appends zero-filled blocks to the chain so that the file's total
// occupied size becomes newSize. newSize must be >= f.size.
func (f *file) extendBy(newSize int64) {
	// Top off the current tail first, since it may be partially occupied.
	if room := int64(BlockSize - f.tail.occupied); room > 0 {
		grow := newSize - f.size
		if grow > room {
			grow = room
		}
		f.tail.occupied += int(grow)
		f.size += grow
	}
	for f.size < newSize {
		b := newBlock()
		f.tail.next = b
		b.prev = f.tail
		f.tail = b
		grow := newSize - f.size
		if grow > BlockSize {
			grow = BlockSize
		}
		b.occupied = int(grow)
		f.size += grow
	}
}

// blockCount returns the number of blocks in the chain.
func (f *file) blockCount() int {
	n := 0
	for b := f.head; b != nil; b = b.next {
		n++
	}
	return n
}
