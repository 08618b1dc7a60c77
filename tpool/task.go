// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tpool

import (
	"sync"
	"time"
)

// State is a Task's position in its lifecycle.
type State int

const (
	// New is a Task's state before its first Push.
	New State = iota
	// Queued is a Task's state from a successful Push until a worker picks
	// it up.
	Queued
	// Running is a Task's state while a worker is executing its function.
	Running
	// Done is a Task's state once its function has returned and Join may
	// retrieve its result.
	Done
)

func (s State) String() string {
	switch s {
	case New:
		return "new"
	case Queued:
		return "queued"
	case Running:
		return "running"
	case Done:
		return "done"
	default:
		return "invalid"
	}
}

// Func is the work a Task performs. arg is the opaque argument supplied to
// NewTask; the returned value becomes the Task's result, retrieved by Join.
type Func func(arg interface{}) interface{}

// Task is a unit of work submitted to a Pool: a function, an opaque
// argument, a result slot, and the state that tracks it from creation
// through completion. A Task may be reused: once Join has retrieved a
// Done task's result, it is eligible to be pushed again.
//
// The RUNNING -> DONE transition and Join's wait share a lock and condition
// private to the Task, distinct from the Pool's own lock, so that one
// task's completion never contends with the pool's queue.
type Task struct {
	fn  Func
	arg interface{}

	mu     sync.Mutex
	cond   *sync.Cond
	state  State
	pushed bool
	result interface{}
}

// NewTask creates a Task in state New, ready to be pushed to a Pool.
func NewTask(fn Func, arg interface{}) *Task {
	t := &Task{fn: fn, arg: arg}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// State returns the task's current state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// IsFinished reports whether the task has completed.
func (t *Task) IsFinished() bool {
	return t.State() == Done
}

// IsRunning reports whether a worker is currently executing the task.
func (t *Task) IsRunning() bool {
	return t.State() == Running
}

// Delete releases a task. It refuses while the task is queued or running:
// the caller must Join (or never Push) before deleting.
func (t *Task) Delete() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Queued || t.state == Running {
		return ErrTaskInPool
	}
	return nil
}

// Join blocks until the task reaches state Done, then returns its result.
// It returns ErrTaskNotPushed if the task has never been pushed to a pool.
// After Join returns successfully, the task is eligible for Push again.
func (t *Task) Join() (interface{}, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.pushed {
		return nil, ErrTaskNotPushed
	}
	for t.state != Done {
		t.cond.Wait()
	}
	return t.result, nil
}

// TimedJoin is not implemented: this package does not support bounded
// waits on task completion.
func (t *Task) TimedJoin(d time.Duration) (interface{}, error) {
	return nil, ErrNotImplemented
}

// Detach is not implemented: every pushed task must eventually be joined.
func (t *Task) Detach() error {
	return ErrNotImplemented
}

// markQueued transitions a Task from New or Done into Queued. It is called
// by Pool.Push while holding the pool's lock, not the task's; the task's
// own lock still guards pushed/state so that a concurrent Join sees a
// consistent view.
func (t *Task) markQueued() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Queued || t.state == Running {
		return ErrTaskInPool
	}
	t.state = Queued
	t.pushed = true
	return nil
}

// run executes the task's function and publishes its result, waking any
// Join waiters. It is called by a worker goroutine with no locks held.
func (t *Task) run() {
	t.mu.Lock()
	t.state = Running
	t.mu.Unlock()

	result := t.fn(t.arg)

	t.mu.Lock()
	t.result = result
	t.state = Done
	t.cond.Broadcast()
	t.mu.Unlock()
}
