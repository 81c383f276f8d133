package config

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	SheetsBreaker   = "Sheets-Mirror"
	RabbitMQBreaker = "RabbitMQ-Mirror"
)

// NewCircuitBreaker creates a circuit breaker with standard settings.
// The name parameter uniquely identifies the circuit breaker instance.
func NewCircuitBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	var timeout time.Duration

	switch name {
	case SheetsBreaker:
		timeout = time.Second * 60 // Google API quota windows are per minute
	default:
		timeout = time.Second * 30
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Second * 10,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Open circuit after 3 consecutive failures
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}
