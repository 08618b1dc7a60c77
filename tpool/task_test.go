// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tpool_test

import (
	"testing"

	"github.com/grailbio/sysbase/tpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskJoinWithoutPush(t *testing.T) {
	task := tpool.NewTask(func(arg interface{}) interface{} { return arg }, nil)
	_, err := task.Join()
	assert.Equal(t, tpool.ErrTaskNotPushed, err)
}

func TestTaskStateNew(t *testing.T) {
	task := tpool.NewTask(func(arg interface{}) interface{} { return arg }, nil)
	assert.Equal(t, tpool.New, task.State())
	assert.False(t, task.IsFinished())
	assert.False(t, task.IsRunning())
}

func TestTaskDeleteWhileRunningFails(t *testing.T) {
	pool, err := tpool.New(1)
	require.NoError(t, err)
	defer pool.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	task := tpool.NewTask(func(arg interface{}) interface{} {
		close(started)
		<-release
		return nil
	}, nil)

	require.NoError(t, pool.Push(task))
	<-started

	assert.Equal(t, tpool.ErrTaskInPool, task.Delete())
	close(release)

	_, err = task.Join()
	require.NoError(t, err)
	assert.NoError(t, task.Delete())
}

func TestTaskResultRoundTrip(t *testing.T) {
	pool, err := tpool.New(2)
	require.NoError(t, err)
	defer pool.Close()

	task := tpool.NewTask(func(arg interface{}) interface{} {
		return arg.(int) * 2
	}, 21)
	require.NoError(t, pool.Push(task))

	result, err := task.Join()
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, tpool.Done, task.State())
}

func TestTaskPushAfterJoinAllowsReuse(t *testing.T) {
	pool, err := tpool.New(1)
	require.NoError(t, err)
	defer pool.Close()

	count := 0
	task := tpool.NewTask(func(arg interface{}) interface{} {
		count++
		return count
	}, nil)

	require.NoError(t, pool.Push(task))
	first, err := task.Join()
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	require.NoError(t, pool.Push(task))
	second, err := task.Join()
	require.NoError(t, err)
	assert.Equal(t, 2, second)
}
