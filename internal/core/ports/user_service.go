package ports

import (
	"context"
	"time"

	"github.com/profilehub/membership-service/internal/core/domain"
)

// UserProfile is the read-only view of a user returned by the use cases. The
// derived fields are computed from the entity on every call and never stored.
type UserProfile struct {
	ID                string
	Name              string
	Email             string
	MembershipType    string
	DiscountRate      float64
	AvailableFeatures []string
	StatusMessage     string
	IsPremiumEligible bool
	PurchaseCount     int
	TotalSpent        float64
	MemberSince       time.Time
}

// ListUsersFilter narrows ListUsers. Zero values disable a predicate; all
// set predicates must hold.
type ListUsersFilter struct {
	MembershipType   string  // "", "free" or "premium"
	MinPurchaseCount int     // purchase_count >= MinPurchaseCount
	MinTotalSpent    float64 // total_spent >= MinTotalSpent
}

// UpdateUserProfileInput carries a profile edit. Nil or empty fields are left
// unchanged.
type UpdateUserProfileInput struct {
	UserID string
	Name   *string
	Email  *string
}

// UpgradeMembershipInput carries a membership upgrade request. An empty
// TargetMembershipType means premium.
type UpgradeMembershipInput struct {
	UserID               string
	TargetMembershipType string
}

// UserProfileService defines the profile use cases.
type UserProfileService interface {
	GetUserProfile(ctx context.Context, userID string) (*UserProfile, error)
	// ListUsers returns every user when filter is nil.
	ListUsers(ctx context.Context, filter *ListUsersFilter) ([]UserProfile, error)
	UpdateUserProfile(ctx context.Context, input UpdateUserProfileInput) error
}

// MembershipService defines the membership use cases.
type MembershipService interface {
	UpgradeMembership(ctx context.Context, input UpgradeMembershipInput) error
}

// ValidationResult is the non-failing outcome of a form validation.
type ValidationResult struct {
	Success bool
	Data    *domain.EditProfileForm
	Errors  map[string]string
}

// FormValidationService validates user-submitted forms.
type FormValidationService interface {
	ValidateEditProfileForm(form domain.EditProfileForm) ValidationResult
}
