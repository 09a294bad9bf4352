package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// ErrCircuitOpen is returned without calling the API while the breaker is open
var ErrCircuitOpen = errors.New("storefront api unavailable, retry later")

type CircuitState string

const (
	StateClosed   CircuitState = "closed"
	StateOpen     CircuitState = "open"
	StateHalfOpen CircuitState = "half-open"
)

// halfOpenSuccesses closes a half-open breaker
const halfOpenSuccesses = 3

// CircuitBreaker stops calling the API after maxFailures consecutive failures
// and lets a trial request through once timeout has passed
type CircuitBreaker struct {
	maxFailures int
	timeout     time.Duration
	now         func() time.Time

	mu              sync.Mutex
	state           CircuitState
	failures        int
	successCount    int
	lastStateChange time.Time
}

func NewCircuitBreaker(maxFailures int, timeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:     maxFailures,
		timeout:         timeout,
		now:             time.Now,
		state:           StateClosed,
		lastStateChange: time.Now(),
	}
}

// Call runs fn unless the breaker is open. countsAsFailure decides which errors trip it.
func (cb *CircuitBreaker) Call(fn func() error, countsAsFailure func(error) bool) error {
	return cb.CallContext(context.Background(), fn, countsAsFailure)
}

// CallContext is Call for a request made on behalf of ctx. Once ctx is done the
// outcome is not recorded: the caller gave up, the API did not fail.
func (cb *CircuitBreaker) CallContext(ctx context.Context, fn func() error, countsAsFailure func(error) bool) error {
	if cb == nil {
		return fn()
	}

	cb.mu.Lock()
	if cb.state == StateOpen && cb.now().Sub(cb.lastStateChange) > cb.timeout {
		cb.setState(StateHalfOpen)
	}
	state := cb.state
	cb.mu.Unlock()

	if state == StateOpen {
		return ErrCircuitOpen
	}

	err := fn()

	if ctx.Err() != nil {
		return err
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil && countsAsFailure(err) {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}
	return err
}

func (cb *CircuitBreaker) onFailure() {
	cb.failures++
	if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
		if cb.state != StateOpen {
			logger.Logger.Warn().
				Int("failures", cb.failures).
				Int("threshold", cb.maxFailures).
				Msg("Circuit breaker opened")
		}
		cb.setState(StateOpen)
	}
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= halfOpenSuccesses {
			cb.failures = 0
			cb.setState(StateClosed)
			logger.Logger.Info().Msg("Circuit breaker closed after recovery")
		}
	case StateClosed:
		cb.failures = 0
	}
}

func (cb *CircuitBreaker) setState(state CircuitState) {
	cb.state = state
	cb.successCount = 0
	cb.lastStateChange = cb.now()
}

// State reports the current state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
