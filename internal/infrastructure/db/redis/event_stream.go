package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/profilehub/membership-service/internal/core/ports"
)

const defaultStreamMaxLen = 100_000

type streamAppender interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// EventStream appends analytics events to a Redis stream, trimmed
// approximately to maxLen entries.
type EventStream struct {
	client streamAppender
	stream string
	maxLen int64
}

func NewEventStream(client *redis.Client, stream string, maxLen int64) *EventStream {
	return newEventStream(client, stream, maxLen)
}

func newEventStream(client streamAppender, stream string, maxLen int64) *EventStream {
	if maxLen <= 0 {
		maxLen = defaultStreamMaxLen
	}
	return &EventStream{client: client, stream: stream, maxLen: maxLen}
}

// Write implements ports.EventSink.
func (s *EventStream) Write(ctx context.Context, event ports.AnalyticsEvent) error {
	props, err := json.Marshal(event.Properties)
	if err != nil {
		return fmt.Errorf("encode event properties: %w", err)
	}

	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"event":      event.Name,
			"user_id":    event.UserID,
			"session_id": event.SessionID,
			"timestamp":  event.Timestamp.UTC().Format(time.RFC3339Nano),
			"properties": string(props),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}
