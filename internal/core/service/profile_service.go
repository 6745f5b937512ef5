package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/profilehub/membership-service/internal/core/domain"
	"github.com/profilehub/membership-service/internal/core/ports"
)

// ProfileService implements the profile read and edit use cases.
type ProfileService struct {
	repo      ports.UserRepository
	analytics guardedAnalytics
	logger    zerolog.Logger
	now       func() time.Time
}

func NewProfileService(repo ports.UserRepository, analytics ports.Analytics, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		repo:      repo,
		analytics: guardedAnalytics{next: analytics, log: logger},
		logger:    logger,
		now:       time.Now,
	}
}

// GetUserProfile returns the profile of userID.
func (s *ProfileService) GetUserProfile(ctx context.Context, userID string) (*ports.UserProfile, error) {
	s.analytics.track("user_profile_access_attempt", ports.Properties{"userId": userID})

	if strings.TrimSpace(userID) == "" {
		s.analytics.track("user_profile_invalid_id", ports.Properties{"userId": userID, "reason": "empty_or_invalid"})
		return nil, fmt.Errorf("get user profile: %w: user id is required", domain.ErrInvalidInput)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.analytics.track("user_profile_not_found", ports.Properties{"userId": userID})
			return nil, fmt.Errorf("get user profile %s: %w", userID, domain.ErrUserNotFound)
		}
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load user")
		return nil, fmt.Errorf("get user profile: %w", err)
	}

	profile := toUserProfile(user)

	s.analytics.track("user_profile_viewed", ports.Properties{
		"userId":                 profile.ID,
		"membershipType":         profile.MembershipType,
		"discountRate":           profile.DiscountRate,
		"purchaseCount":          profile.PurchaseCount,
		"totalSpent":             profile.TotalSpent,
		"isPremiumEligible":      profile.IsPremiumEligible,
		"availableFeaturesCount": len(profile.AvailableFeatures),
		"memberSince":            profile.MemberSince.UTC().Format(time.RFC3339),
	})
	if profile.IsPremiumEligible {
		s.analytics.track("user_premium_eligible_viewed", ports.Properties{
			"userId":            profile.ID,
			"purchaseCount":     profile.PurchaseCount,
			"totalSpent":        profile.TotalSpent,
			"currentMembership": profile.MembershipType,
		})
	}
	s.analytics.identify(profile.ID)

	s.logger.Debug().Str("user_id", profile.ID).Msg("user profile viewed")
	return &profile, nil
}

// ListUsers returns the profiles of every user matching filter. Repository
// errors are returned unchanged.
func (s *ProfileService) ListUsers(ctx context.Context, filter *ports.ListUsersFilter) ([]ports.UserProfile, error) {
	s.analytics.track("users_list_attempt", ports.Properties{
		"filters":    filterProperties(filter),
		"hasFilters": filter != nil,
	})

	if filter != nil && filter.MembershipType != "" && !domain.MembershipType(filter.MembershipType).Valid() {
		return nil, fmt.Errorf("list users: %w: unknown membership type %q", domain.ErrInvalidInput, filter.MembershipType)
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.analytics.track("users_list_error", ports.Properties{
			"error":   err.Error(),
			"filters": filterProperties(filter),
		})
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, err
	}

	s.analytics.track("users_list_fetched", ports.Properties{
		"totalUsers": len(users),
		"filters":    filterProperties(filter),
	})

	matched := users
	if filter != nil {
		matched = make([]*domain.User, 0, len(users))
		for _, u := range users {
			if matchesFilter(u, filter) {
				matched = append(matched, u)
			}
		}

		efficiency := 0.0
		if len(users) > 0 {
			efficiency = float64(len(users)-len(matched)) / float64(len(users)) * 100
		}
		s.analytics.track("users_list_filtered", ports.Properties{
			"originalCount":    len(users),
			"filteredCount":    len(matched),
			"filters":          filterProperties(filter),
			"filterEfficiency": fmt.Sprintf("%.2f", efficiency),
		})
	}

	profiles := make([]ports.UserProfile, 0, len(matched))
	var premium, free, eligible int
	for _, u := range matched {
		p := toUserProfile(u)
		switch domain.MembershipType(p.MembershipType) {
		case domain.MembershipPremium:
			premium++
		case domain.MembershipFree:
			free++
		}
		if p.IsPremiumEligible {
			eligible++
		}
		profiles = append(profiles, p)
	}

	s.analytics.track("users_list_completed", ports.Properties{
		"totalUsers":         len(users),
		"returnedUsers":      len(profiles),
		"premiumUsers":       premium,
		"freeUsers":          free,
		"eligibleForPremium": eligible,
	})

	s.logger.Debug().Int("total", len(users)).Int("returned", len(profiles)).Msg("users listed")
	return profiles, nil
}

// UpdateUserProfile replaces the name and/or email of a user. Changing the
// email to one owned by another user fails with domain.ErrEmailTaken.
func (s *ProfileService) UpdateUserProfile(ctx context.Context, in ports.UpdateUserProfileInput) error {
	name, email := deref(in.Name), deref(in.Email)

	s.analytics.track("user_profile_update_attempt", ports.Properties{
		"userId": in.UserID,
		"fieldsToUpdate": map[string]bool{
			"name":  name != "",
			"email": email != "",
		},
	})

	if in.UserID == "" {
		s.analytics.track("user_profile_update_invalid_id", ports.Properties{"userId": in.UserID, "reason": "missing_user_id"})
		return fmt.Errorf("update user profile: %w: user id is required", domain.ErrInvalidInput)
	}

	existing, err := s.repo.FindByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.analytics.track("user_profile_update_not_found", ports.Properties{"userId": in.UserID})
			return fmt.Errorf("update user profile %s: %w", in.UserID, domain.ErrUserNotFound)
		}
		s.logger.Error().Err(err).Str("user_id", in.UserID).Msg("failed to load user")
		return fmt.Errorf("update user profile: %w", err)
	}

	if email != "" && email != existing.Email() {
		owner, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && owner != nil && owner.ID() != in.UserID:
			s.analytics.track("user_profile_update_email_conflict", ports.Properties{
				"userId":                in.UserID,
				"requestedEmail":        email,
				"existingUserWithEmail": owner.ID(),
			})
			return fmt.Errorf("update user profile %s: %w", in.UserID, domain.ErrEmailTaken)
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			s.logger.Error().Err(err).Str("email", email).Msg("failed to check email ownership")
			return fmt.Errorf("update user profile: %w", err)
		}
	}

	changedName := name != "" && name != existing.Name()
	changedEmail := email != "" && email != existing.Email()

	updated, err := existing.WithProfile(firstSet(name, existing.Name()), firstSet(email, existing.Email()))
	if err != nil {
		s.analytics.track("user_profile_update_invalid_data", ports.Properties{"userId": in.UserID, "error": err.Error()})
		return fmt.Errorf("update user profile: %w", err)
	}

	if err := s.repo.Save(ctx, updated); err != nil {
		s.logger.Error().Err(err).Str("user_id", in.UserID).Msg("failed to save user")
		return fmt.Errorf("update user profile: %w", err)
	}

	s.analytics.track("user_profile_updated", ports.Properties{
		"userId": in.UserID,
		"changedFields": map[string]bool{
			"name":  changedName,
			"email": changedEmail,
		},
		"previousValues":  map[string]string{"name": existing.Name(), "email": existing.Email()},
		"newValues":       map[string]string{"name": updated.Name(), "email": updated.Email()},
		"membershipType":  string(updated.MembershipType()),
		"updateTimestamp": s.now().UTC().Format(time.RFC3339),
	})
	if changedName {
		s.analytics.track("user_name_updated", ports.Properties{
			"userId":       in.UserID,
			"previousName": existing.Name(),
			"newName":      updated.Name(),
		})
	}
	if changedEmail {
		s.analytics.track("user_email_updated", ports.Properties{
			"userId":        in.UserID,
			"previousEmail": existing.Email(),
			"newEmail":      updated.Email(),
		})
	}

	s.logger.Info().
		Str("user_id", in.UserID).
		Bool("name_changed", changedName).
		Bool("email_changed", changedEmail).
		Msg("user profile updated")
	return nil
}

func matchesFilter(u *domain.User, f *ports.ListUsersFilter) bool {
	if f.MembershipType != "" && string(u.MembershipType()) != f.MembershipType {
		return false
	}
	if u.PurchaseCount() < f.MinPurchaseCount {
		return false
	}
	if u.TotalSpent() < f.MinTotalSpent {
		return false
	}
	return true
}

func filterProperties(f *ports.ListUsersFilter) map[string]any {
	props := map[string]any{}
	if f == nil {
		return props
	}
	if f.MembershipType != "" {
		props["membershipType"] = f.MembershipType
	}
	if f.MinPurchaseCount != 0 {
		props["minPurchaseCount"] = f.MinPurchaseCount
	}
	if f.MinTotalSpent != 0 {
		props["minTotalSpent"] = f.MinTotalSpent
	}
	return props
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstSet(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
