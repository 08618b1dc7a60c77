// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tpool

import (
	"sync"

	"github.com/grailbio/sysbase/log"
	"github.com/grailbio/sysbase/syncqueue"
)

// Pool is a bounded, lazily-scaling worker pool. Tasks pushed to it are
// dispatched FIFO to a capped set of worker goroutines; workers are spawned
// on demand, up to maxThreads, only when an arriving task finds every live
// worker already busy.
type Pool struct {
	maxThreads int
	pending    *syncqueue.FIFO

	mu        sync.Mutex
	created   int
	busy      int
	reserved  int // workers spawned but not yet confirmed busy; see Push
	closed    bool
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a Pool that spawns at most maxThreads worker goroutines.
// maxThreads must be in (0, MaxThreads].
func New(maxThreads int) (*Pool, error) {
	if maxThreads <= 0 || maxThreads > MaxThreads {
		return nil, ErrInvalidArg
	}
	return &Pool{
		maxThreads: maxThreads,
		pending:    syncqueue.NewFIFO(),
	}, nil
}

// Push enqueues task for execution. If every worker spawned so far is busy
// (or, for a worker just spawned by a concurrent Push, about to be) and the
// pool has not yet reached maxThreads, Push spawns one more worker before
// returning. Push never blocks waiting for a worker to become free: the
// task simply waits in the FIFO queue.
//
// The pool-level closed/capacity checks run before task.markQueued commits
// the task to state Queued, so a rejected Push never leaves the task
// stranded in Queued with no worker able to reach it.
func (p *Pool) Push(task *Task) error {
	if task == nil {
		return ErrInvalidArg
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrInvalidArg
	}
	if p.pending.Len() >= MaxTasks {
		p.mu.Unlock()
		return ErrTooManyTasks
	}
	if err := task.markQueued(); err != nil {
		p.mu.Unlock()
		return err
	}
	// busy+reserved, not just busy, is compared against created: a worker
	// spawned by this Push hasn't run long enough to increment busy itself
	// yet, so without counting it as reserved a second, immediately
	// following Push would see stale idle capacity and decline to spawn,
	// under-provisioning the pool relative to property 6's guarantee.
	spawn := p.busy+p.reserved >= p.created && p.created < p.maxThreads
	if spawn {
		p.created++
		p.reserved++
		p.wg.Add(1)
	}
	p.mu.Unlock()

	if spawn {
		go p.worker(true)
	}
	p.pending.Put(task)
	return nil
}

// worker repeatedly pulls tasks off the pending queue and runs them until
// the queue is closed. reserved is true for a worker just spawned by Push,
// whose first iteration must convert its pre-counted reservation into busy
// instead of double-counting it.
func (p *Pool) worker(reserved bool) {
	defer p.wg.Done()
	first := reserved
	for {
		v, ok := p.pending.Get()
		if !ok {
			if first {
				p.mu.Lock()
				p.reserved--
				p.mu.Unlock()
			}
			return
		}
		task := v.(*Task)

		p.mu.Lock()
		if first {
			p.reserved--
		}
		p.busy++
		p.mu.Unlock()
		first = false

		task.run()

		p.mu.Lock()
		p.busy--
		p.mu.Unlock()
	}
}

// NumWorkers returns the number of worker goroutines spawned so far.
func (p *Pool) NumWorkers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}

// Pending returns the number of tasks currently queued or running.
func (p *Pool) Pending() int {
	p.mu.Lock()
	busy := p.busy
	p.mu.Unlock()
	return p.pending.Len() + busy
}

// Close shuts the pool down: it refuses while any task is queued or
// running, then stops every worker goroutine and waits for them to exit.
// A closed Pool rejects further Push calls.
func (p *Pool) Close() error {
	p.mu.Lock()
	pending := p.pending.Len() + p.busy
	if pending > 0 {
		p.mu.Unlock()
		return ErrHasTasks
	}
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.closeOnce.Do(func() {
		p.pending.Close()
	})
	p.wg.Wait()
	log.Debug.Printf("tpool: pool closed, %d workers spawned over its lifetime", p.created)
	return nil
}
