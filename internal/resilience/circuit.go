package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// CircuitState is the breaker's current mode.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// ErrCircuitOpen is returned when a call is rejected outright.
var ErrCircuitOpen = eris.New("circuit breaker is open")

// CircuitConfig controls the breaker guarding one provider.
type CircuitConfig struct {
	// FailureThreshold is the consecutive-failure count that opens the
	// circuit. Default 5.
	FailureThreshold int
	// ResetTimeout is how long the circuit stays open before allowing
	// a probe. Default 30s.
	ResetTimeout time.Duration
}

// Circuit implements a three-state circuit breaker for a single
// provider.
type Circuit struct {
	cfg CircuitConfig

	mu       sync.Mutex
	state    CircuitState
	failures int
	openedAt time.Time

	now func() time.Time // test injection
}

// NewCircuit creates a breaker with defaults applied.
func NewCircuit(cfg CircuitConfig) *Circuit {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 30 * time.Second
	}
	return &Circuit{cfg: cfg, now: time.Now}
}

// WithNow fixes the clock for testing.
func (c *Circuit) WithNow(now func() time.Time) *Circuit {
	c.now = now
	return c
}

// State returns the current state, accounting for reset timeout.
func (c *Circuit) State() CircuitState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Circuit) stateLocked() CircuitState {
	if c.state == CircuitOpen && c.now().Sub(c.openedAt) >= c.cfg.ResetTimeout {
		c.state = CircuitHalfOpen
	}
	return c.state
}

// Execute runs fn through the breaker. An open circuit rejects the
// call with ErrCircuitOpen; callers treat that like any provider
// failure and fall through to the next evidence source.
func (c *Circuit) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	c.mu.Lock()
	if c.stateLocked() == CircuitOpen {
		c.mu.Unlock()
		return ErrCircuitOpen
	}
	c.mu.Unlock()

	err := fn(ctx)
	c.record(err)
	return err
}

func (c *Circuit) record(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil {
		c.failures = 0
		c.state = CircuitClosed
		return
	}
	// Context cancellation reflects the caller's timeout, not provider
	// health.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}

	c.failures++
	if c.state == CircuitHalfOpen || c.failures >= c.cfg.FailureThreshold {
		c.state = CircuitOpen
		c.openedAt = c.now()
	}
}
