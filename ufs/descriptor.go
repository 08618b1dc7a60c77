// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ufs

// Flags is a bitset of open-mode flags passed to FileSystem.Open.
type Flags int

const (
	// Create creates the file if it does not already exist.
	Create Flags = 1 << iota
	// ReadOnly restricts the descriptor to read operations.
	ReadOnly
	// WriteOnly restricts the descriptor to write operations.
	WriteOnly
	// ReadWrite permits both read and write operations.
	ReadWrite

	accessMask = ReadOnly | WriteOnly | ReadWrite
)

func (fl Flags) canRead() bool {
	if fl&accessMask == 0 {
		return true // no access bits set => unrestricted
	}
	return fl&(ReadOnly|ReadWrite) != 0
}

func (fl Flags) canWrite() bool {
	if fl&accessMask == 0 {
		return true
	}
	return fl&(WriteOnly|ReadWrite) != 0
}

// descriptor is a single open handle on a file: its access mode and its
// cursor, expressed as a block in the file's chain plus a byte offset within
// that block. blockIdx is the cursor's 0-based position in the chain,
// maintained alongside curBlock so that resize can clamp cursors in O(1)
// without re-walking the chain from the head.
type descriptor struct {
	file     *file
	flags    Flags
	curBlock *block
	blockIdx int
	byteOff  int
}

// normalize advances a cursor sitting exactly at the end of a full block
// into the start of the next block, if one exists. Both read and write step
// through this before touching curBlock, which is what lets a cursor be
// legitimately parked at byteOff == BlockSize between I/O calls.
func (d *descriptor) normalize() {
	for d.byteOff >= BlockSize && d.curBlock.next != nil {
		d.curBlock = d.curBlock.next
		d.blockIdx++
		d.byteOff -= BlockSize
	}
}

// absPos returns the cursor's absolute byte offset from the start of the
// file.
func (d *descriptor) absPos() int64 {
	return int64(d.blockIdx)*BlockSize + int64(d.byteOff)
}
