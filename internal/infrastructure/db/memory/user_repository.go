// Package memory provides an in-process user store for local runs and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/profilehub/membership-service/internal/core/domain"
)

// UserRepository keeps users in a map and lists them in insertion order.
// Entities are immutable, so stored pointers are shared safely.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	order   []string
	latency time.Duration
}

// Option configures a UserRepository.
type Option func(*UserRepository)

// WithLatency delays every call by d, honouring context cancellation. Meant
// for exercising timeouts in tests.
func WithLatency(d time.Duration) Option {
	return func(r *UserRepository) { r.latency = d }
}

func NewUserRepository(opts ...Option) *UserRepository {
	r := &UserRepository{byID: make(map[string]*domain.User)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if u := r.byID[id]; u.Email() == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

// Save stores user, replacing any user with the same id. Last write wins.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[user.ID()]; !exists {
		r.order = append(r.order, user.ID())
	}
	r.byID[user.ID()] = user
	return nil
}

func (r *UserRepository) wait(ctx context.Context) error {
	if r.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
