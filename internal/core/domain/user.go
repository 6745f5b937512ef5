package domain

import (
	"fmt"
	"time"
)

// UserAttributes is the raw attribute set of a user. It is the input to
// NewUser and the shape in which users are persisted.
type UserAttributes struct {
	ID             string         `json:"id" bson:"_id" validate:"required"`
	Email          string         `json:"email" bson:"email" validate:"required,email"`
	Name           string         `json:"name" bson:"name" validate:"min=2"`
	MembershipType MembershipType `json:"membership_type" bson:"membership_type" validate:"oneof=free premium"`
	PurchaseCount  int            `json:"purchase_count" bson:"purchase_count" validate:"gte=0"`
	TotalSpent     float64        `json:"total_spent" bson:"total_spent" validate:"gte=0"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
}

var userMessages = messageTable{
	"id":              {"*": "ID is required"},
	"email":           {"*": "Invalid email"},
	"name":            {"*": "Name must be at least 2 characters"},
	"membership_type": {"*": "Membership type must be free or premium"},
	"purchase_count":  {"*": "Purchase count cannot be negative"},
	"total_spent":     {"*": "Total spent cannot be negative"},
}

// User is the validated, immutable user entity. Every "update" produces a
// new User carrying the same ID.
type User struct {
	id             string
	email          string
	name           string
	membershipType MembershipType
	purchaseCount  int
	totalSpent     float64
	createdAt      time.Time
}

// NewUser validates attrs and builds a User. A zero CreatedAt defaults to the
// current time. On failure the returned error is a *ValidationError.
func NewUser(attrs UserAttributes) (*User, error) {
	if err := validateStruct(attrs, userMessages); err != nil {
		return nil, err
	}
	if attrs.CreatedAt.IsZero() {
		attrs.CreatedAt = time.Now().UTC()
	}
	return &User{
		id:             attrs.ID,
		email:          attrs.Email,
		name:           attrs.Name,
		membershipType: attrs.MembershipType,
		purchaseCount:  attrs.PurchaseCount,
		totalSpent:     attrs.TotalSpent,
		createdAt:      attrs.CreatedAt,
	}, nil
}

func (u *User) ID() string                     { return u.id }
func (u *User) Email() string                  { return u.email }
func (u *User) Name() string                   { return u.name }
func (u *User) MembershipType() MembershipType { return u.membershipType }
func (u *User) PurchaseCount() int             { return u.purchaseCount }
func (u *User) TotalSpent() float64            { return u.totalSpent }
func (u *User) CreatedAt() time.Time           { return u.createdAt }
func (u *User) IsPremium() bool                { return u.membershipType == MembershipPremium }

// Attributes returns the raw attribute set of u.
func (u *User) Attributes() UserAttributes {
	return UserAttributes{
		ID:             u.id,
		Email:          u.email,
		Name:           u.name,
		MembershipType: u.membershipType,
		PurchaseCount:  u.purchaseCount,
		TotalSpent:     u.totalSpent,
		CreatedAt:      u.createdAt,
	}
}

// WithProfile returns a copy of u with the given name and email.
func (u *User) WithProfile(name, email string) (*User, error) {
	attrs := u.Attributes()
	attrs.Name = name
	attrs.Email = email
	return NewUser(attrs)
}

// WithMembership returns a copy of u with membership type m.
func (u *User) WithMembership(m MembershipType) (*User, error) {
	attrs := u.Attributes()
	attrs.MembershipType = m
	return NewUser(attrs)
}

// DiscountRate returns the discount granted to u. Free members get none;
// premium members get a base rate plus loyalty and high-value bonuses.
func (u *User) DiscountRate() float64 {
	if !u.IsPremium() {
		return 0
	}

	discount := premiumBaseDiscount
	if u.purchaseCount >= loyaltyMinPurchases {
		discount += loyaltyDiscount
	}
	if u.totalSpent >= highValueMinTotalSpent {
		discount += highValueDiscount
	}
	return min(discount, maxDiscount)
}

// CanAccessFeature reports whether u may use f. Premium members may use
// everything; free members are denied the premium-only set.
func (u *User) CanAccessFeature(f Feature) bool {
	if u.IsPremium() {
		return true
	}
	_, gated := premiumOnly[f]
	return !gated
}

// AvailableFeatures returns the catalog features u can access, in catalog order.
func (u *User) AvailableFeatures() []Feature {
	out := make([]Feature, 0, len(featureCatalog))
	for _, f := range featureCatalog {
		if u.CanAccessFeature(f) {
			out = append(out, f)
		}
	}
	return out
}

// IsPremiumEligible reports whether u has enough purchases or spending to
// upgrade.
func (u *User) IsPremiumEligible() bool {
	return u.purchaseCount >= PremiumMinPurchases || u.totalSpent >= PremiumMinSpent
}

// EligibilityReason names the threshold that makes u eligible, or "" when u
// is not eligible. Purchase count takes precedence.
func (u *User) EligibilityReason() string {
	switch {
	case u.purchaseCount >= PremiumMinPurchases:
		return "purchase_count"
	case u.totalSpent >= PremiumMinSpent:
		return "total_spent"
	default:
		return ""
	}
}

// StatusMessage returns a short membership status line for display.
//
// For ineligible free members the purchases still needed are compared with the
// spending still needed divided by 50; the smaller one is reported and ties
// go to purchases.
func (u *User) StatusMessage() string {
	if u.IsPremium() {
		return fmt.Sprintf("Premium member since %d", u.createdAt.Year())
	}
	if u.IsPremiumEligible() {
		return "Eligible for Premium upgrade!"
	}

	purchasesNeeded := max(0, PremiumMinPurchases-u.purchaseCount)
	spendingNeeded := max(0, PremiumMinSpent-u.totalSpent)

	if float64(purchasesNeeded) <= spendingNeeded/50 {
		return fmt.Sprintf("%d more purchases to unlock Premium", purchasesNeeded)
	}
	return fmt.Sprintf("$%.2f more spending to unlock Premium", spendingNeeded)
}
