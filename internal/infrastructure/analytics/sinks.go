package analytics

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/profilehub/membership-service/internal/api/metrics"
	"github.com/profilehub/membership-service/internal/core/ports"
)

// LogSink writes every event as a structured log line.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "analytics").Logger()}
}

func (s *LogSink) Write(_ context.Context, e ports.AnalyticsEvent) error {
	s.log.Info().
		Str("event", e.Name).
		Str("user_id", e.UserID).
		Str("session_id", e.SessionID).
		Time("tracked_at", e.Timestamp).
		Fields(map[string]interface{}(e.Properties)).
		Msg("analytics event")
	return nil
}

// MetricsSink counts delivered events by name.
type MetricsSink struct{}

func (MetricsSink) Write(_ context.Context, e ports.AnalyticsEvent) error {
	metrics.AnalyticsEventsTotal.WithLabelValues(e.Name).Inc()
	return nil
}

// NopSink discards events.
type NopSink struct{}

func (NopSink) Write(context.Context, ports.AnalyticsEvent) error { return nil }

// MultiSink writes each event to every sink, even when some of them fail.
type MultiSink []ports.EventSink

func (m MultiSink) Write(ctx context.Context, e ports.AnalyticsEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
