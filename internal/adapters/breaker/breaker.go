// Package breaker builds the circuit breakers that guard third-party APIs.
package breaker

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ewilliams-labs/typetune/internal/logging"
)

// Config controls when a breaker opens and how long it stays open.
type Config struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// New returns a breaker that opens after FailureThreshold consecutive failures.
// isSuccessful may be nil; otherwise errors it accepts do not count as failures.
// Calls abandoned by a canceled caller context never count as failures.
func New[T any](name string, cfg Config, isSuccessful func(error) bool) *gobreaker.CircuitBreaker[T] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	accept := isSuccessful
	if accept == nil {
		accept = func(err error) bool { return err == nil }
	}
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
		IsSuccessful: func(err error) bool {
			return errors.Is(err, context.Canceled) || accept(err)
		},
	})
}
