// Package supervisor runs the long-lived parts of the server under a suture
// supervision tree.
package supervisor

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

type TreeConfig struct {
	FailureThreshold float64
	FailureDecay     float64
	FailureBackoff   time.Duration
	ShutdownTimeout  time.Duration
}

func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// NewTree builds the root supervisor. Supervisor events are logged through logger.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTree(cfg TreeConfig, logger zerolog.Logger) *suture.Supervisor {
	return suture.New("meal-recommendation-service", suture.Spec{
		EventHook:        EventHook(logger.With().Str("component", "supervisor").Logger()),
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	})
}

// EventHook logs suture events. Backoff and panics are errors, the rest warnings.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func EventHook(logger zerolog.Logger) suture.EventHook {
	return func(e suture.Event) {
		var event *zerolog.Event
		switch e.Type() {
		case suture.EventTypeServicePanic, suture.EventTypeBackoff:
			event = logger.Error()
		case suture.EventTypeResume:
			event = logger.Info()
		default:
			event = logger.Warn()
		}
		event.Fields(e.Map()).Msg(e.String())
	}
}
