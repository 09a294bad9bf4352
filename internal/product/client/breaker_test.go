package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerStates(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker(2, time.Second)
	cb.now = func() time.Time { return now }

	boom := errors.New("boom")
	always := func(error) bool { return true }
	fail := func() error { return boom }
	ok := func() error { return nil }

	assert.ErrorIs(t, cb.Call(fail, always), boom)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Call(fail, always), boom)
	assert.Equal(t, StateOpen, cb.State())

	calls := 0
	err := cb.Call(func() error { calls++; return nil }, always)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Zero(t, calls)

	now = now.Add(2 * time.Second)
	require.NoError(t, cb.Call(ok, always))
	assert.Equal(t, StateHalfOpen, cb.State())

	assert.ErrorIs(t, cb.Call(fail, always), boom)
	assert.Equal(t, StateOpen, cb.State())

	now = now.Add(2 * time.Second)
	for i := 0; i < halfOpenSuccesses; i++ {
		require.NoError(t, cb.Call(ok, always))
	}
	assert.Equal(t, StateClosed, cb.State())
}

func TestClientBreakerIgnoresClientErrors(t *testing.T) {
	var hits atomic.Int32
	var status atomic.Int32
	status.Store(http.StatusNotFound)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	c := New(srv.URL, WithCircuitBreaker(NewCircuitBreaker(2, time.Minute)))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.ListProducts(ctx, 1, 12, "")
		require.Error(t, err)
	}
	assert.Equal(t, int32(3), hits.Load())

	status.Store(http.StatusBadGateway)
	for i := 0; i < 2; i++ {
		_, err := c.ListProducts(ctx, 1, 12, "")
		require.Error(t, err)
	}
	_, err := c.ListProducts(ctx, 1, 12, "")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(5), hits.Load())
}

func TestClientBreakerIgnoresCallerCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	cb := NewCircuitBreaker(2, time.Minute)
	c := New(srv.URL, WithCircuitBreaker(cb))

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)
		_, err := c.ListProducts(ctx, 1, 12, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		cancel()
	}
	assert.Equal(t, StateClosed, cb.State())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListProducts(ctx, 1, 12, "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerSkipsOutcomeOfDoneContext(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)
	always := func(error) bool { return true }
	boom := errors.New("boom")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, cb.CallContext(ctx, func() error { return boom }, always), boom)
	assert.Equal(t, StateClosed, cb.State())

	assert.ErrorIs(t, cb.CallContext(context.Background(), func() error { return boom }, always), boom)
	assert.Equal(t, StateOpen, cb.State())
}
