package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/profilehub/membership-service/internal/core/domain"
	"github.com/profilehub/membership-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users      map[string]*domain.User
	order      []string
	findErr    error // if set, FindByID and FindByEmail return this error
	findAllErr error
	saveErr    error
	saved      []*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) put(u *domain.User) {
	if _, ok := r.users[u.ID()]; !ok {
		r.order = append(r.order, u.ID())
	}
	r.users[u.ID()] = u
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, id := range r.order {
		if r.users[id].Email() == email {
			return r.users[id], nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	if r.findAllErr != nil {
		return nil, r.findAllErr
	}
	out := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.users[id])
	}
	return out, nil
}

func (r *stubUserRepo) Save(_ context.Context, u *domain.User) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.put(u)
	r.saved = append(r.saved, u)
	return nil
}

// ---------------------------------------------------------------------------
// Analytics recorders
// ---------------------------------------------------------------------------

type trackedEvent struct {
	name  string
	props ports.Properties
}

type recordingAnalytics struct {
	events  []trackedEvent
	userID  string
	globals ports.Properties
}

func (a *recordingAnalytics) Track(event string, props ports.Properties) {
	a.events = append(a.events, trackedEvent{name: event, props: props})
}

func (a *recordingAnalytics) SetUserID(id string) { a.userID = id }

func (a *recordingAnalytics) SetGlobalProperties(p ports.Properties) { a.globals = p }

func (a *recordingAnalytics) names() []string {
	out := make([]string, len(a.events))
	for i, e := range a.events {
		out[i] = e.name
	}
	return out
}

func (a *recordingAnalytics) find(name string) (trackedEvent, bool) {
	for _, e := range a.events {
		if e.name == name {
			return e, true
		}
	}
	return trackedEvent{}, false
}

type panickingAnalytics struct{}

func (panickingAnalytics) Track(string, ports.Properties)       { panic("sink exploded") }
func (panickingAnalytics) SetUserID(string)                     { panic("sink exploded") }
func (panickingAnalytics) SetGlobalProperties(ports.Properties) { panic("sink exploded") }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func seedUser(t *testing.T, repo *stubUserRepo, attrs domain.UserAttributes) *domain.User {
	t.Helper()
	if attrs.Name == "" {
		attrs.Name = "Test User"
	}
	if attrs.Email == "" {
		attrs.Email = attrs.ID + "@example.com"
	}
	if attrs.MembershipType == "" {
		attrs.MembershipType = domain.MembershipFree
	}
	if attrs.CreatedAt.IsZero() {
		attrs.CreatedAt = time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	}
	u, err := domain.NewUser(attrs)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	repo.put(u)
	return u
}

func assertEvents(t *testing.T, a *recordingAnalytics, want ...string) {
	t.Helper()
	got := a.names()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func strPtr(s string) *string { return &s }
