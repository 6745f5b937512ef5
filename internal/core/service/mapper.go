package service

import (
	"github.com/profilehub/membership-service/internal/core/domain"
	"github.com/profilehub/membership-service/internal/core/ports"
)

// toUserProfile projects a user and its derived business values.
func toUserProfile(u *domain.User) ports.UserProfile {
	features := u.AvailableFeatures()
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = string(f)
	}

	return ports.UserProfile{
		ID:                u.ID(),
		Name:              u.Name(),
		Email:             u.Email(),
		MembershipType:    string(u.MembershipType()),
		DiscountRate:      u.DiscountRate(),
		AvailableFeatures: names,
		StatusMessage:     u.StatusMessage(),
		IsPremiumEligible: u.IsPremiumEligible(),
		PurchaseCount:     u.PurchaseCount(),
		TotalSpent:        u.TotalSpent(),
		MemberSince:       u.CreatedAt(),
	}
}
