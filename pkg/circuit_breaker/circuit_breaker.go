package circuit_breaker

import (
	"errors"
	"sync"
	"time"
)

type State uint8

const (
	Closed   State = 1
	Open     State = 2
	HalfOpen State = 3
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrOpen = errors.New("circuit breaker is open")

type Config struct {
	// Window is the number of most recent calls tracked.
	Window int
	// Cooldown is how long the breaker stays open before probing.
	Cooldown time.Duration
	// Threshold is the failure ratio over Window that opens the breaker.
	Threshold float64
	// Probes is how many consecutive successes in half-open close it again.
	// It also caps the calls let through while half-open.
	Probes int
	// IsFailure decides which errors count against the window.
	// nil counts every non-nil error.
	IsFailure func(error) bool
}

func DefaultConfig() Config {
	return Config{
		Window:    100,
		Cooldown:  time.Second,
		Threshold: 0.2,
		Probes:    2,
	}
}

type CircuitBreaker interface {
	Call(fn func() error) error
	State() State
	Reset()
}

type breaker struct {
	mu  sync.Mutex
	cfg Config

	state    State
	openedAt time.Time
	window   []bool
	pos      int
	probes   int
	inflight int
	// gen changes on every trip and reset so that late probes from an
	// earlier half-open period are not counted against the current one.
	gen uint64

	now func() time.Time
}

func New(cfg Config) CircuitBreaker {
	if cfg.Window <= 0 {
		cfg.Window = DefaultConfig().Window
	}
	return &breaker{
		cfg:    cfg,
		state:  Closed,
		window: make([]bool, cfg.Window),
		now:    time.Now,
	}
}

func (b *breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *breaker) Call(fn func() error) error {
	b.mu.Lock()
	if b.state == Open {
		if b.now().Sub(b.openedAt) <= b.cfg.Cooldown {
			b.mu.Unlock()
			return ErrOpen
		}
		b.state = HalfOpen
		b.probes = 0
		b.inflight = 0
	}
	probe := b.state == HalfOpen
	gen := b.gen
	if probe {
		if b.inflight >= b.maxProbes() {
			b.mu.Unlock()
			return ErrOpen
		}
		b.inflight++
	}
	b.mu.Unlock()

	err := fn()
	failed := err != nil
	if failed && b.cfg.IsFailure != nil {
		failed = b.cfg.IsFailure(err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if probe {
		if gen != b.gen {
			return err
		}
		b.inflight--
	}

	b.window[b.pos] = failed
	b.pos = (b.pos + 1) % len(b.window)

	if b.state == HalfOpen {
		if failed {
			b.trip()
			return err
		}
		b.probes++
		if b.probes >= b.cfg.Probes {
			b.reset()
		}
		return err
	}

	fails := 0
	for _, f := range b.window {
		if f {
			fails++
		}
	}
	if float64(fails)/float64(len(b.window)) >= b.cfg.Threshold {
		b.trip()
	}
	return err
}

func (b *breaker) maxProbes() int {
	if b.cfg.Probes < 1 {
		return 1
	}
	return b.cfg.Probes
}

func (b *breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()
}

func (b *breaker) trip() {
	b.state = Open
	b.probes = 0
	b.inflight = 0
	b.gen++
	b.openedAt = b.now()
}

func (b *breaker) reset() {
	for i := range b.window {
		b.window[i] = false
	}
	b.probes = 0
	b.inflight = 0
	b.gen++
	b.pos = 0
	b.state = Closed
}
