package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/profilehub/membership-service/internal/core/domain"
	"github.com/profilehub/membership-service/internal/core/ports"
)

// MembershipService implements the membership upgrade use case.
type MembershipService struct {
	repo      ports.UserRepository
	analytics guardedAnalytics
	logger    zerolog.Logger
	now       func() time.Time
}

func NewMembershipService(repo ports.UserRepository, analytics ports.Analytics, logger zerolog.Logger) *MembershipService {
	return &MembershipService{
		repo:      repo,
		analytics: guardedAnalytics{next: analytics, log: logger},
		logger:    logger,
		now:       time.Now,
	}
}

// UpgradeMembership moves an eligible free member to premium. The checks run
// in order: request shape, existence, current membership, eligibility.
func (s *MembershipService) UpgradeMembership(ctx context.Context, in ports.UpgradeMembershipInput) error {
	target := domain.MembershipType(in.TargetMembershipType)
	if target == "" {
		target = domain.MembershipPremium
	}

	s.analytics.track("membership_upgrade_attempt", ports.Properties{
		"userId":               in.UserID,
		"targetMembershipType": string(target),
		"timestamp":            s.now().UTC().Format(time.RFC3339),
	})

	if in.UserID == "" {
		s.analytics.track("membership_upgrade_invalid_id", ports.Properties{"userId": in.UserID, "reason": "missing_user_id"})
		return fmt.Errorf("upgrade membership: %w: user id is required", domain.ErrInvalidInput)
	}

	if !domain.IsUpgradeTarget(target) {
		s.analytics.track("membership_upgrade_invalid_type", ports.Properties{
			"userId":               in.UserID,
			"targetMembershipType": string(target),
			"reason":               "only_premium_supported",
		})
		return fmt.Errorf("upgrade membership: %w: only premium membership is supported for upgrades", domain.ErrInvalidInput)
	}

	existing, err := s.repo.FindByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.analytics.track("membership_upgrade_user_not_found", ports.Properties{"userId": in.UserID})
			return fmt.Errorf("upgrade membership %s: %w", in.UserID, domain.ErrUserNotFound)
		}
		s.logger.Error().Err(err).Str("user_id", in.UserID).Msg("failed to load user")
		return fmt.Errorf("upgrade membership: %w", err)
	}

	if !existing.MembershipType().CanUpgradeTo(target) {
		s.analytics.track("membership_upgrade_already_premium", ports.Properties{
			"userId":            in.UserID,
			"currentMembership": string(existing.MembershipType()),
			"purchaseCount":     existing.PurchaseCount(),
			"totalSpent":        existing.TotalSpent(),
		})
		return fmt.Errorf("upgrade membership %s: %w", in.UserID, domain.ErrAlreadyPremium)
	}

	if !existing.IsPremiumEligible() {
		s.analytics.track("membership_upgrade_not_eligible", ports.Properties{
			"userId":            in.UserID,
			"currentMembership": string(existing.MembershipType()),
			"purchaseCount":     existing.PurchaseCount(),
			"totalSpent":        existing.TotalSpent(),
			"requiredPurchases": domain.PremiumMinPurchases,
			"requiredSpent":     domain.PremiumMinSpent,
		})
		return fmt.Errorf("upgrade membership %s: %w: requires %d+ purchases or $%.0f+ spent",
			in.UserID, domain.ErrNotEligible, domain.PremiumMinPurchases, domain.PremiumMinSpent)
	}

	s.analytics.track("membership_upgrade_eligible_confirmed", ports.Properties{
		"userId":            in.UserID,
		"currentMembership": string(existing.MembershipType()),
		"purchaseCount":     existing.PurchaseCount(),
		"totalSpent":        existing.TotalSpent(),
		"eligibilityReason": existing.EligibilityReason(),
	})

	upgraded, err := existing.WithMembership(target)
	if err != nil {
		return fmt.Errorf("upgrade membership: %w", err)
	}

	if err := s.repo.Save(ctx, upgraded); err != nil {
		s.logger.Error().Err(err).Str("user_id", in.UserID).Msg("failed to save upgraded user")
		return fmt.Errorf("upgrade membership: %w", err)
	}

	now := s.now()
	s.analytics.track("membership_upgrade_successful", ports.Properties{
		"userId":                 in.UserID,
		"previousMembership":     string(existing.MembershipType()),
		"newMembership":          string(upgraded.MembershipType()),
		"purchaseCount":          upgraded.PurchaseCount(),
		"totalSpent":             upgraded.TotalSpent(),
		"upgradeTimestamp":       now.UTC().Format(time.RFC3339),
		"availableFeaturesCount": len(upgraded.AvailableFeatures()),
		"discountRate":           upgraded.DiscountRate(),
	})
	s.analytics.track("premium_conversion", ports.Properties{
		"userId":           in.UserID,
		"conversionSource": "manual_upgrade",
		"timeToConversion": daysBetween(existing.CreatedAt(), now),
		"purchaseCount":    upgraded.PurchaseCount(),
		"totalSpent":       upgraded.TotalSpent(),
	})

	s.logger.Info().
		Str("user_id", in.UserID).
		Str("eligibility_reason", existing.EligibilityReason()).
		Msg("membership upgraded")
	return nil
}

// daysBetween returns the whole days elapsed from start to end.
func daysBetween(start, end time.Time) int {
	return int(end.Sub(start) / (24 * time.Hour))
}
