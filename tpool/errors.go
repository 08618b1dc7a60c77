// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tpool

import (
	"github.com/grailbio/sysbase/errors"
)

// Hard limits, per the package's compile-time constants. These bound
// resource usage; New and Push refuse to exceed them.
const (
	// MaxThreads is the hard ceiling on a Pool's max_threads parameter.
	MaxThreads = 4096
	// MaxTasks is the hard ceiling on the number of tasks pending in a
	// Pool's queue at once.
	MaxTasks = 1 << 20
)

var (
	// ErrInvalidArg indicates a bad constructor or call argument (a
	// nonpositive or over-ceiling thread count, a nil task, etc.).
	ErrInvalidArg = errors.E(errors.Invalid, "invalid argument")
	// ErrTooManyTasks indicates that Push would grow the pending queue past
	// MaxTasks.
	ErrTooManyTasks = errors.E(errors.ResourcesExhausted, "too many tasks")
	// ErrHasTasks indicates that Pool.Close was called while tasks were
	// still pending or running.
	ErrHasTasks = errors.E(errors.Precondition, "pool has outstanding tasks")
	// ErrTaskInPool indicates an operation that requires a task to be idle
	// (Push, Delete) was attempted on a queued or running task.
	ErrTaskInPool = errors.E(errors.Precondition, "task is queued or running")
	// ErrTaskNotPushed indicates Join was called on a task that has never
	// been pushed to a pool.
	ErrTaskNotPushed = errors.E(errors.Precondition, "task was never pushed")
	// ErrNotImplemented indicates an optional operation this package does
	// not implement.
	ErrNotImplemented = errors.E(errors.NotSupported, "not implemented")
)
