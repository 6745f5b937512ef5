// Package analytics implements the analytics port: a Tracker that enriches
// events and hands them to an asynchronous dispatcher, and the sinks the
// dispatcher delivers to.
package analytics

import (
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/profilehub/membership-service/internal/core/ports"
)

// userIDProperty is the property services use to name the subject of an event.
const userIDProperty = "userId"

// Enqueuer accepts resolved events without blocking.
type Enqueuer interface {
	Enqueue(event ports.AnalyticsEvent) bool
}

// Tracker implements ports.Analytics. Every event carries the merged global
// properties, the process session id and a timestamp.
//
// A Tracker is shared by every request of the server, so by default the id
// passed to SetUserID is only recorded and never copied onto other events.
// WithUserBackfill restores back-filling for single-user processes.
type Tracker struct {
	queue     Enqueuer
	sessionID string
	now       func() time.Time
	backfill  bool

	mu      sync.RWMutex
	userID  string
	globals ports.Properties
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithUserBackfill attaches the last identified user to events that do not
// name one.
func WithUserBackfill() TrackerOption {
	return func(t *Tracker) { t.backfill = true }
}

func NewTracker(queue Enqueuer, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		queue:     queue,
		sessionID: uuid.NewString(),
		now:       time.Now,
		globals:   ports.Properties{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SessionID returns the identifier stamped on every event of this process.
func (t *Tracker) SessionID() string { return t.sessionID }

// Track enriches the event and enqueues it. Event properties override global
// ones. The event's user is its userId property, or the identified user when
// back-filling is enabled.
func (t *Tracker) Track(event string, properties ports.Properties) {
	t.mu.RLock()
	merged := make(ports.Properties, len(t.globals)+len(properties))
	maps.Copy(merged, t.globals)
	identified := t.userID
	t.mu.RUnlock()

	maps.Copy(merged, properties)
	var userID string
	if id, ok := merged[userIDProperty].(string); ok && id != "" {
		userID = id
	} else if t.backfill && identified != "" {
		userID = identified
		merged[userIDProperty] = identified
	}

	t.queue.Enqueue(ports.AnalyticsEvent{
		Name:       event,
		UserID:     userID,
		SessionID:  t.sessionID,
		Properties: merged,
		Timestamp:  t.now().UTC(),
	})
}

// SetUserID records the most recently identified user.
func (t *Tracker) SetUserID(userID string) {
	t.mu.Lock()
	t.userID = userID
	t.mu.Unlock()
}

// IdentifiedUserID returns the id last passed to SetUserID.
func (t *Tracker) IdentifiedUserID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.userID
}

// SetGlobalProperties merges properties into the existing globals.
func (t *Tracker) SetGlobalProperties(properties ports.Properties) {
	t.mu.Lock()
	maps.Copy(t.globals, properties)
	t.mu.Unlock()
}
