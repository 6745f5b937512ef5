package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/profilehub/membership-service/internal/core/ports"
)

type captureQueue struct {
	events []ports.AnalyticsEvent
}

func (q *captureQueue) Enqueue(e ports.AnalyticsEvent) bool {
	q.events = append(q.events, e)
	return true
}

func newTestTracker(opts ...TrackerOption) (*Tracker, *captureQueue) {
	q := &captureQueue{}
	tr := NewTracker(q, opts...)
	tr.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("X", 3600)) }
	return tr, q
}

func TestTracker_EnrichesEvents(t *testing.T) {
	tr, q := newTestTracker(WithUserBackfill())
	tr.SetGlobalProperties(ports.Properties{"app": "membership", "version": "1"})
	tr.SetGlobalProperties(ports.Properties{"version": "2"})
	tr.SetUserID("7")

	tr.Track("users_list_attempt", ports.Properties{"version": "event"})

	if len(q.events) != 1 {
		t.Fatalf("events = %d, want 1", len(q.events))
	}
	e := q.events[0]
	if e.Name != "users_list_attempt" || e.UserID != "7" || e.SessionID != tr.SessionID() {
		t.Errorf("unexpected event header: %+v", e)
	}
	if e.Properties["app"] != "membership" || e.Properties["version"] != "event" || e.Properties["userId"] != "7" {
		t.Errorf("properties = %v", e.Properties)
	}
	if e.Timestamp.Location() != time.UTC || e.Timestamp.Hour() != 11 {
		t.Errorf("timestamp = %v, want UTC", e.Timestamp)
	}
}

func TestTracker_EventUserIDWins(t *testing.T) {
	tr, q := newTestTracker()
	tr.SetUserID("7")

	tr.Track("user_profile_viewed", ports.Properties{"userId": "42"})

	if got := q.events[0].UserID; got != "42" {
		t.Errorf("user id = %q, want 42", got)
	}
}

func TestTracker_IdentifiedUserNotLeakedByDefault(t *testing.T) {
	tr, q := newTestTracker()

	tr.Track("user_profile_viewed", ports.Properties{"userId": "42"})
	tr.SetUserID("42")
	tr.Track("users_list_attempt", ports.Properties{"hasFilter": false})

	if tr.IdentifiedUserID() != "42" {
		t.Errorf("identified user = %q, want 42", tr.IdentifiedUserID())
	}
	list := q.events[1]
	if list.UserID != "" {
		t.Errorf("list event user id = %q, want empty", list.UserID)
	}
	if _, ok := list.Properties["userId"]; ok {
		t.Errorf("unexpected userId property: %v", list.Properties)
	}
}

func TestTracker_AnonymousEvent(t *testing.T) {
	tr, q := newTestTracker()

	tr.Track("users_list_attempt", nil)

	e := q.events[0]
	if e.UserID != "" {
		t.Errorf("user id = %q, want empty", e.UserID)
	}
	if _, ok := e.Properties["userId"]; ok {
		t.Errorf("unexpected userId property: %v", e.Properties)
	}
}

func TestTracker_DoesNotMutateCallerProperties(t *testing.T) {
	tr, _ := newTestTracker()
	tr.SetGlobalProperties(ports.Properties{"app": "membership"})
	tr.SetUserID("7")

	props := ports.Properties{"source": "test"}
	tr.Track("e", props)

	if len(props) != 1 {
		t.Errorf("caller properties mutated: %v", props)
	}
}

type failingSink struct{ err error }

func (s failingSink) Write(context.Context, ports.AnalyticsEvent) error { return s.err }

func TestMultiSink_WritesAllAndJoinsErrors(t *testing.T) {
	first := errors.New("first")
	var buf bytes.Buffer
	sink := MultiSink{failingSink{err: first}, NewLogSink(zerolog.New(&buf)), NopSink{}, MetricsSink{}}

	err := sink.Write(context.Background(), ports.AnalyticsEvent{Name: "e", UserID: "1", Properties: ports.Properties{"k": "v"}})
	if !errors.Is(err, first) {
		t.Fatalf("err = %v, want first", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if line["event"] != "e" || line["user_id"] != "1" || line["k"] != "v" {
		t.Errorf("log line = %v", line)
	}
}
