// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ufs

import (
	"math/bits"

	"github.com/grailbio/sysbase/bitset"
)

// minTableCap is the floor below which the descriptor table's backing array
// never shrinks.
const minTableCap = 10

// descTable is a dense, growable mapping from small non-negative integers
// (file descriptors) to *descriptor, with holes. It tracks occupancy with a
// bitset so that "smallest free index" allocation does not require a linear
// scan of the slots themselves.
type descTable struct {
	slots    []*descriptor
	occupied []uintptr // bitset over len(slots); bit i set iff slots[i] != nil
	count    int
}

func newDescTable() *descTable {
	return &descTable{}
}

// alloc reserves the smallest free index, growing the table if necessary,
// and returns it. The caller must immediately store a non-nil descriptor at
// the returned index via set.
func (t *descTable) alloc() int {
	idx := t.firstFree()
	if idx < 0 {
		t.grow()
		idx = t.firstFree()
	}
	bitset.Set(t.occupied, idx)
	t.count++
	return idx
}

// firstFree returns the smallest index not currently occupied, or -1 if the
// table is full (including the degenerate case of zero capacity).
func (t *descTable) firstFree() int {
	for w := 0; w < len(t.occupied); w++ {
		word := t.occupied[w]
		if word == ^uintptr(0) {
			continue
		}
		bit := bits.TrailingZeros64(uint64(^word))
		idx := w*bitset.BitsPerWord + bit
		if idx < len(t.slots) {
			return idx
		}
	}
	return -1
}

func (t *descTable) grow() {
	oldCap := len(t.slots)
	newCap := oldCap * 2
	if newCap < minTableCap {
		newCap = minTableCap
	}
	slots := make([]*descriptor, newCap)
	copy(slots, t.slots)
	t.slots = slots
	t.occupied = bitset.NewClearBits(newCap)
	for i := 0; i < oldCap; i++ {
		if slots[i] != nil {
			bitset.Set(t.occupied, i)
		}
	}
}

func (t *descTable) set(idx int, d *descriptor) {
	t.slots[idx] = d
}

func (t *descTable) get(idx int) *descriptor {
	if idx < 0 || idx >= len(t.slots) {
		return nil
	}
	return t.slots[idx]
}

// free releases idx, clearing its slot, and shrinks the backing array by
// half whenever occupancy has fallen below half capacity, down to
// minTableCap. Shrinking only ever discards free trailing capacity, never
// relocates a live descriptor to a different index.
func (t *descTable) free(idx int) {
	t.slots[idx] = nil
	bitset.Clear(t.occupied, idx)
	t.count--
	for size := len(t.slots); size > minTableCap; size = len(t.slots) {
		half := size / 2
		if half < minTableCap {
			half = minTableCap
		}
		if t.count >= half || !t.upperHalfFree(half, size) {
			break
		}
		t.slots = t.slots[:half]
		t.occupied = t.occupied[:(half+bitset.BitsPerWord-1)/bitset.BitsPerWord]
	}
}

// upperHalfFree reports whether every slot in [from, to) is free, which is
// the precondition for shrinking the backing array down to `from` without
// disturbing any live descriptor's index.
func (t *descTable) upperHalfFree(from, to int) bool {
	for i := from; i < to; i++ {
		if t.slots[i] != nil {
			return false
		}
	}
	return true
}
