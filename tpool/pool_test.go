// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tpool_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/grailbio/sysbase/tpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadThreadCounts(t *testing.T) {
	_, err := tpool.New(0)
	assert.Equal(t, tpool.ErrInvalidArg, err)

	_, err = tpool.New(-1)
	assert.Equal(t, tpool.ErrInvalidArg, err)

	_, err = tpool.New(tpool.MaxThreads + 1)
	assert.Equal(t, tpool.ErrInvalidArg, err)
}

func TestPoolFIFODispatchOrder(t *testing.T) {
	pool, err := tpool.New(1)
	require.NoError(t, err)
	defer pool.Close()

	var mu sync.Mutex
	var order []int

	release := make(chan struct{})
	tasks := make([]*tpool.Task, 5)
	for i := range tasks {
		i := i
		tasks[i] = tpool.NewTask(func(arg interface{}) interface{} {
			<-release
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}, nil)
	}
	for _, task := range tasks {
		require.NoError(t, pool.Push(task))
	}
	close(release)
	for _, task := range tasks {
		_, err := task.Join()
		require.NoError(t, err)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

// TestPoolLazyGrowth checks that a pool with maxThreads=K handling M
// simultaneously-blocked tasks spawns exactly min(K, M) workers: Push only
// spawns a new worker when every worker created so far is busy.
func TestPoolLazyGrowth(t *testing.T) {
	const maxThreads = 3
	const numTasks = 10

	pool, err := tpool.New(maxThreads)
	require.NoError(t, err)
	defer pool.Close()

	release := make(chan struct{})
	tasks := make([]*tpool.Task, numTasks)
	for i := range tasks {
		tasks[i] = tpool.NewTask(func(arg interface{}) interface{} {
			<-release
			return nil
		}, nil)
	}
	for _, task := range tasks {
		require.NoError(t, pool.Push(task))
	}

	assert.Equal(t, maxThreads, pool.NumWorkers())

	close(release)
	for _, task := range tasks {
		_, err := task.Join()
		require.NoError(t, err)
	}
}

func TestPoolLazyGrowthBoundedByTaskCount(t *testing.T) {
	pool, err := tpool.New(8)
	require.NoError(t, err)
	defer pool.Close()

	task := tpool.NewTask(func(arg interface{}) interface{} { return nil }, nil)
	require.NoError(t, pool.Push(task))
	_, err = task.Join()
	require.NoError(t, err)

	assert.Equal(t, 1, pool.NumWorkers())
}

func TestPoolJoinNeverReturnsBeforeFunctionReturns(t *testing.T) {
	pool, err := tpool.New(4)
	require.NoError(t, err)
	defer pool.Close()

	var flag int32
	task := tpool.NewTask(func(arg interface{}) interface{} {
		atomic.StoreInt32(&flag, 1)
		return nil
	}, nil)
	require.NoError(t, pool.Push(task))
	_, err = task.Join()
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&flag))
}

func TestPoolCloseRejectsWhileTasksOutstanding(t *testing.T) {
	pool, err := tpool.New(1)
	require.NoError(t, err)

	release := make(chan struct{})
	task := tpool.NewTask(func(arg interface{}) interface{} {
		<-release
		return nil
	}, nil)
	require.NoError(t, pool.Push(task))

	assert.Equal(t, tpool.ErrHasTasks, pool.Close())
	close(release)
	_, err = task.Join()
	require.NoError(t, err)
	assert.NoError(t, pool.Close())
}

func TestPoolPushAfterCloseFails(t *testing.T) {
	pool, err := tpool.New(1)
	require.NoError(t, err)
	require.NoError(t, pool.Close())

	task := tpool.NewTask(func(arg interface{}) interface{} { return nil }, nil)
	assert.Equal(t, tpool.ErrInvalidArg, pool.Push(task))

	// A Push rejected on a pool-level error must not strand the task in
	// Queued: it stays New and is still usable against a fresh pool.
	other, err := tpool.New(1)
	require.NoError(t, err)
	defer other.Close()
	require.NoError(t, other.Push(task))
	_, err = task.Join()
	require.NoError(t, err)
}

func TestPoolPushNilTaskFails(t *testing.T) {
	pool, err := tpool.New(1)
	require.NoError(t, err)
	defer pool.Close()

	assert.Equal(t, tpool.ErrInvalidArg, pool.Push(nil))
}

func TestPoolPushQueuedTaskFails(t *testing.T) {
	pool, err := tpool.New(1)
	require.NoError(t, err)
	defer pool.Close()

	release := make(chan struct{})
	task := tpool.NewTask(func(arg interface{}) interface{} {
		<-release
		return nil
	}, nil)
	require.NoError(t, pool.Push(task))
	assert.Equal(t, tpool.ErrTaskInPool, pool.Push(task))
	close(release)
	_, err = task.Join()
	require.NoError(t, err)
}
