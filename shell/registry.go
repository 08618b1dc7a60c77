// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package shell

import (
	"sync"

	"github.com/grailbio/sysbase/log"
	"golang.org/x/sys/unix"
)

// job is one tracked background child: its PID plus the command line that
// spawned it, retained only for the jobs builtin's listing.
type job struct {
	pid int
	cmd string
}

// registry is a growable list of background jobs. Entries are reaped
// opportunistically (non-blocking) after each command line, and
// exhaustively (blocking) once at shell shutdown.
type registry struct {
	mu   sync.Mutex
	jobs []job
}

func newRegistry() *registry {
	return &registry{}
}

// add appends pid to the set of tracked background children, along with
// the command line that spawned it.
func (r *registry) add(pid int, cmd string) {
	r.mu.Lock()
	r.jobs = append(r.jobs, job{pid: pid, cmd: cmd})
	r.mu.Unlock()
}

// sweep performs one non-blocking pass over every tracked job, removing
// (and discarding the exit status of) any whose process has already
// exited. Unreaped jobs are kept, compacting the backing slice in place.
func (r *registry) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	live := r.jobs[:0]
	for _, j := range r.jobs {
		var status unix.WaitStatus
		reaped, err := unix.Wait4(j.pid, &status, unix.WNOHANG, nil)
		if err != nil || reaped != j.pid {
			live = append(live, j)
			continue
		}
	}
	r.jobs = live
}

// reapAll blocks until every remaining tracked job has been waited for.
// It is registered as a shutdown hook so that no background child
// outlives the shell as a zombie.
func (r *registry) reapAll() {
	r.mu.Lock()
	jobs := r.jobs
	r.jobs = nil
	r.mu.Unlock()

	for _, j := range jobs {
		var status unix.WaitStatus
		if _, err := unix.Wait4(j.pid, &status, 0, nil); err != nil {
			log.Error.Printf("shell: reaping background pid %d: %v", j.pid, err)
		}
	}
}

// Len reports how many jobs are currently tracked, for tests.
func (r *registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

// Snapshot returns a copy of the currently tracked PIDs, for tests.
func (r *registry) Snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.jobs))
	for i, j := range r.jobs {
		out[i] = j.pid
	}
	return out
}

// List returns a copy of the currently tracked jobs, for the jobs builtin.
func (r *registry) List() []job {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]job, len(r.jobs))
	copy(out, r.jobs)
	return out
}
