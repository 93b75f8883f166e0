package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	models "harmonyhealth/internal/domain/models/assistant"
	assistantSvc "harmonyhealth/internal/domain/services/assistant"
)

const (
	defaultMaxFailures uint32 = 5
	defaultOpenTimeout        = 30 * time.Second
	defaultInterval           = 60 * time.Second
)

// ErrCircuitOpen is returned while the breaker rejects calls
var ErrCircuitOpen = errors.New("provider circuit open")

// BreakerConfig configures the circuit breaker
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before a half-open probe.
	Timeout time.Duration
	// Interval clears failure counts while closed. Zero uses the default.
	Interval time.Duration
}

// BreakerProvider fails fast once the wrapped provider keeps failing.
// Cancelled requests do not count as failures.
type BreakerProvider struct {
	inner   assistantSvc.Provider
	breaker *gobreaker.CircuitBreaker[*models.Message]
}

// NewBreakerProvider wraps inner with a circuit breaker
func NewBreakerProvider(inner assistantSvc.Provider, cfg BreakerConfig, logger *slog.Logger) *BreakerProvider {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultMaxFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultOpenTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultInterval
	}

	cb := gobreaker.NewCircuitBreaker[*models.Message](gobreaker.Settings{
		Name:        "llm:" + inner.Name(),
		MaxRequests: 1,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerProvider{inner: inner, breaker: cb}
}

func (p *BreakerProvider) Complete(ctx context.Context, req *assistantSvc.CompletionRequest) (*models.Message, error) {
	reply, err := p.breaker.Execute(func() (*models.Message, error) {
		return p.inner.Complete(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s: %v", ErrCircuitOpen, p.inner.Name(), err)
		}
		return nil, err
	}
	return reply, nil
}

// Name returns the wrapped provider's name
func (p *BreakerProvider) Name() string { return p.inner.Name() }

// State returns the current breaker state
func (p *BreakerProvider) State() gobreaker.State {
	return p.breaker.State()
}

var _ assistantSvc.Provider = (*BreakerProvider)(nil)
