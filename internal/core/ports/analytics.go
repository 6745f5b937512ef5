package ports

import (
	"context"
	"time"
)

// Properties carries the attributes of an analytics event.
type Properties map[string]any

// Analytics receives domain events. Calls are fire-and-forget: implementations
// must not block the caller and have no way to report failure.
type Analytics interface {
	Track(event string, properties Properties)
	// SetUserID identifies the user that subsequent events belong to when
	// they do not name one themselves.
	SetUserID(userID string)
	// SetGlobalProperties merges properties into every subsequent event.
	SetGlobalProperties(properties Properties)
}

// AnalyticsEvent is a tracked event after global properties, user and session
// have been resolved.
type AnalyticsEvent struct {
	Name       string     `json:"event"`
	UserID     string     `json:"user_id,omitempty"`
	SessionID  string     `json:"session_id"`
	Properties Properties `json:"properties"`
	Timestamp  time.Time  `json:"timestamp"`
}

// EventSink delivers resolved analytics events to a backend.
type EventSink interface {
	Write(ctx context.Context, event AnalyticsEvent) error
}
