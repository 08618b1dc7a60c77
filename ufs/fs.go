// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ufs

// FileSystem is an in-memory, POSIX-flavored namespace of files, plus the
// descriptor table through which callers access them. The zero value is not
// usable; construct one with New.
//
// FileSystem is not safe for concurrent use: it keeps no internal lock,
// matching the single-threaded contract of the system being modeled. A
// caller that shares a FileSystem across goroutines must serialize its own
// access.
type FileSystem struct {
	byName map[string]*file // visible (non-removed) files, keyed by name
	descs  *descTable
}

// New creates an empty FileSystem.
func New() *FileSystem {
	return &FileSystem{
		byName: make(map[string]*file),
		descs:  newDescTable(),
	}
}

// Open opens name according to flags, returning a new file descriptor
// placed at the smallest free index in the descriptor table.
//
// If name does not exist and Create is not set, Open returns an error with
// Code NoFile. If name does not exist and Create is set, a new, empty file
// (a single, zero-occupied block) is created.
func (fsys *FileSystem) Open(name string, flags Flags) (int, error) {
	f, ok := fsys.byName[name]
	if !ok {
		if flags&Create == 0 {
			return -1, errNoFile
		}
		f = newFile(name)
		fsys.byName[name] = f
	}
	d := &descriptor{file: f, flags: flags, curBlock: f.head}
	fd := fsys.descs.alloc()
	fsys.descs.set(fd, d)
	f.refs++
	return fd, nil
}

// Close decrements the underlying file's reference count. If the count
// drops to zero and the file has been deleted in the meantime, the file and
// its block chain are destroyed. The descriptor index is freed and may be
// reused by a later Open.
func (fsys *FileSystem) Close(fd int) error {
	d := fsys.descs.get(fd)
	if d == nil {
		return errNoFile
	}
	fsys.descs.free(fd)
	f := d.file
	f.refs--
	if f.refs == 0 && f.removed {
		destroyFile(f)
	}
	return nil
}

// Write copies up to len(buf) bytes into fd's file starting at its cursor,
// advancing the cursor and allocating new blocks as needed. It requires
// write permission. If the write would push the file beyond MaxFileSize, no
// bytes are copied and Write returns (-1, err) with CodeOf(err) == NoMem.
func (fsys *FileSystem) Write(fd int, buf []byte) (int, error) {
	d := fsys.descs.get(fd)
	if d == nil {
		return -1, errNoFile
	}
	if !d.flags.canWrite() {
		return -1, errNoPermission
	}
	if d.absPos()+int64(len(buf)) > MaxFileSize {
		return -1, newError(NoMem, "write would exceed max file size")
	}
	n := writeAt(d, buf)
	if end := d.absPos(); end > d.file.size {
		d.file.size = end
	}
	return n, nil
}

// writeAt performs the actual byte-by-byte copy, allocating blocks lazily as
// the cursor crosses block boundaries. Capacity has already been validated
// by the caller, so it always consumes the whole buffer.
func writeAt(d *descriptor, buf []byte) int {
	n := 0
	for n < len(buf) {
		d.normalize()
		if d.byteOff == BlockSize {
			nb := newBlock()
			d.curBlock.next = nb
			nb.prev = d.curBlock
			d.file.tail = nb
			d.curBlock = nb
			d.blockIdx++
			d.byteOff = 0
		}
		c := copy(d.curBlock.data[d.byteOff:], buf[n:])
		d.byteOff += c
		n += c
		if d.byteOff > d.curBlock.occupied {
			d.curBlock.occupied = d.byteOff
		}
	}
	return n
}

// Read copies up to len(buf) bytes from fd's file starting at its cursor,
// advancing the cursor. It requires read permission. Read stops short of
// len(buf) at end of file and never fails with NoMem.
func (fsys *FileSystem) Read(fd int, buf []byte) (int, error) {
	d := fsys.descs.get(fd)
	if d == nil {
		return 0, errNoFile
	}
	if !d.flags.canRead() {
		return 0, errNoPermission
	}
	n := 0
	for n < len(buf) {
		d.normalize()
		avail := d.curBlock.occupied - d.byteOff
		if avail <= 0 {
			break
		}
		c := copy(buf[n:], d.curBlock.data[d.byteOff:d.curBlock.occupied])
		d.byteOff += c
		n += c
	}
	return n, nil
}

// Delete removes name from the namespace. If any descriptor is still open
// on it, the file is merely marked removed: it stays alive, invisible to
// Open/Delete by name, until its last descriptor closes. If no descriptor
// is open on it, the file and its chain are destroyed immediately.
func (fsys *FileSystem) Delete(name string) error {
	f, ok := fsys.byName[name]
	if !ok {
		return errNoFile
	}
	delete(fsys.byName, name)
	if f.refs == 0 {
		destroyFile(f)
		return nil
	}
	f.removed = true
	return nil
}

// Resize truncates or extends fd's file so that its total occupied size
// equals newSize, which must not exceed MaxFileSize. It requires write
// permission. Truncation clamps every descriptor open on the file whose
// cursor now lies past the new end; extension zero-fills the appended
// bytes.
func (fsys *FileSystem) Resize(fd int, newSize int64) error {
	d := fsys.descs.get(fd)
	if d == nil {
		return errNoFile
	}
	if !d.flags.canWrite() {
		return errNoPermission
	}
	if newSize > MaxFileSize || newSize < 0 {
		return newError(NoMem, "resize would exceed max file size")
	}
	f := d.file
	switch {
	case newSize < f.size:
		keepIdx := int(newSize / BlockSize)
		occ := int(newSize % BlockSize)
		if occ == 0 && newSize > 0 {
			// newSize lands exactly on a block boundary: that block is the
			// new (full) tail, not an empty block past it.
			keepIdx--
			occ = BlockSize
		}
		f.truncateTo(keepIdx, occ)
		fsys.clampDescriptors(f, keepIdx, occ)
	case newSize > f.size:
		f.extendBy(newSize)
	}
	return nil
}

// clampDescriptors enforces the truncation rule from Resize's doc on
// every descriptor open on f: a cursor past the new end is pulled back to
// the new last block, with its byte offset clamped to that block's new
// occupied count.
func (fsys *FileSystem) clampDescriptors(f *file, lastIdx, lastOcc int) {
	for _, d := range fsys.descs.slots {
		if d == nil || d.file != f {
			continue
		}
		if d.blockIdx > lastIdx {
			d.blockIdx = lastIdx
			d.curBlock = f.tail
			d.byteOff = lastOcc
		} else if d.blockIdx == lastIdx && d.byteOff > lastOcc {
			d.byteOff = lastOcc
		}
	}
}

// destroyFile releases a file's block chain. Go's garbage collector
// reclaims the memory; this exists to make the lifecycle step explicit and
// to be the single place that would plug in eager resource release if this
// package ever backed blocks with something other than GC'd memory.
func destroyFile(f *file) {
	f.head = nil
	f.tail = nil
}

// Destroy tears down the file system, releasing every file regardless of
// open descriptors. It is meant for scoped teardown (e.g., at the end of a
// test or a process shutdown hook), not for ordinary operation.
func (fsys *FileSystem) Destroy() {
	for _, f := range fsys.byName {
		destroyFile(f)
	}
	fsys.byName = make(map[string]*file)
	fsys.descs = newDescTable()
}
