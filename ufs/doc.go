// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package ufs implements an in-memory, POSIX-flavored file system: files are
// chains of fixed-size blocks, opened through a per-FileSystem descriptor
// table, with reference-counted deferred deletion. It is single-threaded:
// a FileSystem value carries no internal locking, and callers that share
// one across goroutines must synchronize externally.
package ufs
