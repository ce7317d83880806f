package eventloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInline_GoAppliesEffect(t *testing.T) {
	var got []string
	l := Inline{}

	l.Go(func(ctx context.Context) func() {
		got = append(got, "work")
		return func() { got = append(got, "apply") }
	})
	l.Go(func(ctx context.Context) func() { return nil })
	l.Post(func() { got = append(got, "post") })

	assert.Equal(t, []string{"work", "apply", "post"}, got)
}

func TestInline_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	var seen any
	Inline{Ctx: ctx}.Go(func(ctx context.Context) func() {
		seen = ctx.Value(key{})
		return nil
	})

	assert.Equal(t, "v", seen)
}

func TestQueue_PostPreservesOrder(t *testing.T) {
	q := NewQueue(context.Background())

	var got []int
	for i := range 5 {
		q.Post(func() { got = append(got, i) })
	}

	n := q.RunPending()

	assert.Equal(t, 5, n)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Nil(t, q.Drain())
}

func TestQueue_PostIgnoresNil(t *testing.T) {
	q := NewQueue(context.Background())
	q.Post(nil)
	assert.Zero(t, q.RunPending())
}

func TestQueue_SignalCoalesces(t *testing.T) {
	q := NewQueue(context.Background())
	q.Post(func() {})
	q.Post(func() {})

	select {
	case <-q.Signal():
	default:
		t.Fatal("expected a pending signal")
	}

	select {
	case <-q.Signal():
		t.Fatal("expected signals to coalesce")
	default:
	}

	assert.Len(t, q.Drain(), 2)
}

func TestQueue_GoPostsEffect(t *testing.T) {
	q := NewQueue(context.Background())

	applied := false
	q.Go(func(ctx context.Context) func() {
		return func() { applied = true }
	})
	q.Wait()

	assert.False(t, applied, "effects only run when drained")
	q.RunPending()
	assert.True(t, applied)
}

func TestQueue_GoNilEffectIsDropped(t *testing.T) {
	q := NewQueue(context.Background())
	q.Go(func(ctx context.Context) func() { return nil })
	q.Wait()

	assert.Zero(t, q.RunPending())
}

func TestQueue_RunAppliesUntilCancelled(t *testing.T) {
	q := NewQueue(context.Background())
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	count := 0
	done := make(chan error, 1)
	go func() { done <- q.Run(ctx) }()

	for range 3 {
		q.Post(func() {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
