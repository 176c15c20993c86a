package dispatch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcherRunsTasks(t *testing.T) {
	d := New(zap.NewNop(), 8, 1)

	done := make(chan interface{}, 1)
	d.Register("greet", func(_ context.Context, payload interface{}) error {
		done <- payload
		return nil
	})

	d.Start()
	defer d.Stop(context.Background())

	d.Enqueue("greet", "hello")

	select {
	case payload := <-done:
		assert.Equal(t, "hello", payload)
	case <-time.After(time.Second):
		t.Fatal("task was not executed")
	}
}

func TestDispatcherRetriesOnce(t *testing.T) {
	d := New(zap.NewNop(), 8, 1)

	var calls atomic.Int32
	done := make(chan struct{})
	d.Register("flaky", func(context.Context, interface{}) error {
		if calls.Add(1) == 1 {
			return errors.New("transient")
		}
		close(done)
		return nil
	})

	d.Start()
	defer d.Stop(context.Background())

	d.Enqueue("flaky", nil)

	select {
	case <-done:
		assert.Equal(t, int32(2), calls.Load())
	case <-time.After(time.Second):
		t.Fatal("task was not retried")
	}
}

func TestDispatcherSurvivesPanicsAndUnknownTasks(t *testing.T) {
	d := New(zap.NewNop(), 8, 1)

	done := make(chan struct{})
	d.Register("panics", func(context.Context, interface{}) error {
		panic("boom")
	})
	d.Register("after", func(context.Context, interface{}) error {
		close(done)
		return nil
	})

	d.Start()
	defer d.Stop(context.Background())

	d.Enqueue("panics", nil)
	d.Enqueue("unregistered", nil)
	d.Enqueue("after", nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive the panic")
	}
}

func TestDispatcherStopDrainsQueue(t *testing.T) {
	d := New(zap.NewNop(), 8, 2)

	var executed atomic.Int32
	d.Register("count", func(context.Context, interface{}) error {
		executed.Add(1)
		return nil
	})

	d.Start()
	for i := 0; i < 5; i++ {
		d.Enqueue("count", i)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	assert.Equal(t, int32(5), executed.Load())
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	d := New(zap.NewNop(), 1, 1)

	// Workers never started; only one task fits the queue.
	d.Enqueue("any", nil)
	d.Enqueue("any", nil)

	assert.Len(t, d.queue, 1)
}
