// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ufs

// BlockSize is the fixed size, in bytes, of every block in a file's chain.
const BlockSize = 4096

// MaxFileSize is the largest total payload a single file may hold.
const MaxFileSize = 100 << 20 // 100 MiB

// block is one node of a file's data chain. For any non-terminal block,
// occupied == BlockSize; only the terminal block in a chain may be partial.
type block struct {
	data     [BlockSize]byte
	occupied int
	next     *block
	prev     *block
}

func newBlock() *block {
	return &block{}
}

// newChain returns a single, empty block forming a fresh one-block chain, as
// required on file creation.
func newChain() *block {
	return newBlock()
}
