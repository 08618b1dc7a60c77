// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package tpool implements a bounded, lazily-scaling worker pool: a FIFO
// queue of Tasks drained by a capped, on-demand set of goroutines, with
// per-Task completion signaling and graceful shutdown.
package tpool
