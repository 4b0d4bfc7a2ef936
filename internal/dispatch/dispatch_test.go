package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOOnOneGoroutine(t *testing.T) {
	q := NewQueue(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		order   []int
		mu      sync.Mutex
		running = make(chan struct{})
	)
	go func() {
		close(running)
		_ = q.Run(ctx)
	}()
	<-running

	const n = 100
	done := make(chan struct{})
	for i := 0; i < n; i++ {
		i := i
		q.Dispatch(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			if i == n-1 {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queue did not drain")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, n)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestQueue_DropsAfterRunReturns(t *testing.T) {
	q := NewQueue(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, q.Run(ctx), context.Canceled)

	ran := false
	finished := make(chan struct{})
	go func() {
		q.Dispatch(func() { ran = true })
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked after Run returned")
	}
	assert.False(t, ran)
}

func TestFunc(t *testing.T) {
	var calls int
	d := Func(func(fn func()) {
		calls++
		fn()
	})
	ran := false
	d.Dispatch(func() { ran = true })
	assert.True(t, ran)
	assert.Equal(t, 1, calls)
}
