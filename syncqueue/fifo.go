// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package syncqueue

import (
	"sync"
)

// FIFO implements a first-in, first-out producer-consumer queue. Thread
// safe. It is guarded by a Mutex+Cond pair, and Get removes the oldest
// element.
type FIFO struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []interface{}
	closed bool
}

// NewFIFO creates an empty FIFO queue.
func NewFIFO() *FIFO {
	q := &FIFO{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Put adds the object at the back of the queue and wakes exactly one
// goroutine blocked in Get, if any.
func (q *FIFO) Put(v interface{}) {
	q.mu.Lock()
	q.queue = append(q.queue, v)
	q.cond.Signal()
	q.mu.Unlock()
}

// Close informs the queue that no more objects will be added via Put, and
// wakes every goroutine blocked in Get.
func (q *FIFO) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
}

// Get removes the oldest object in the queue, blocking the caller while the
// queue is empty and open. ok is false only once the queue has been closed
// and drained.
func (q *FIFO) Get() (v interface{}, ok bool) {
	q.mu.Lock()
	for !q.closed && len(q.queue) == 0 {
		q.cond.Wait()
	}
	if n := len(q.queue); n > 0 {
		v = q.queue[0]
		q.queue = q.queue[1:]
		ok = true
	}
	q.mu.Unlock()
	return v, ok
}

// Len returns the number of objects currently queued.
func (q *FIFO) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}
