package metrics

import (
	"context"
	"time"

	"github.com/profilehub/membership-service/internal/core/ports"
)

// InstrumentedProfileService records use case counters and latency around a
// ports.UserProfileService.
type InstrumentedProfileService struct {
	next ports.UserProfileService
}

func NewInstrumentedProfileService(next ports.UserProfileService) *InstrumentedProfileService {
	return &InstrumentedProfileService{next: next}
}

func (s *InstrumentedProfileService) GetUserProfile(ctx context.Context, userID string) (*ports.UserProfile, error) {
	defer observe("get_user_profile", time.Now())()
	p, err := s.next.GetUserProfile(ctx, userID)
	count("get_user_profile", err)
	return p, err
}

func (s *InstrumentedProfileService) ListUsers(ctx context.Context, filter *ports.ListUsersFilter) ([]ports.UserProfile, error) {
	defer observe("list_users", time.Now())()
	users, err := s.next.ListUsers(ctx, filter)
	count("list_users", err)
	return users, err
}

func (s *InstrumentedProfileService) UpdateUserProfile(ctx context.Context, input ports.UpdateUserProfileInput) error {
	defer observe("update_user_profile", time.Now())()
	err := s.next.UpdateUserProfile(ctx, input)
	count("update_user_profile", err)
	return err
}

// InstrumentedMembershipService records use case counters and latency around a
// ports.MembershipService.
type InstrumentedMembershipService struct {
	next ports.MembershipService
}

func NewInstrumentedMembershipService(next ports.MembershipService) *InstrumentedMembershipService {
	return &InstrumentedMembershipService{next: next}
}

func (s *InstrumentedMembershipService) UpgradeMembership(ctx context.Context, input ports.UpgradeMembershipInput) error {
	defer observe("upgrade_membership", time.Now())()
	err := s.next.UpgradeMembership(ctx, input)
	count("upgrade_membership", err)
	if err == nil {
		UpgradesTotal.Inc()
	}
	return err
}

func observe(useCase string, start time.Time) func() {
	return func() {
		UseCaseDuration.WithLabelValues(useCase).Observe(time.Since(start).Seconds())
	}
}

func count(useCase string, err error) {
	UseCaseTotal.WithLabelValues(useCase, Outcome(err)).Inc()
}
