package domain

import "time"

// ExternalUserRecord is a user as exported by upstream systems, where the same
// attribute may arrive under different names.
type ExternalUserRecord struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	FullName       string     `json:"full_name"`
	MembershipType string     `json:"membership_type"`
	Plan           string     `json:"plan"`
	PurchaseCount  int        `json:"purchase_count"`
	OrdersCount    int        `json:"orders_count"`
	TotalSpent     float64    `json:"total_spent"`
	LifetimeValue  float64    `json:"lifetime_value"`
	CreatedAt      *time.Time `json:"created_at"`
}

// UserFromExternal reconstructs a User from an upstream record. The first
// non-zero alias wins for every attribute; membership falls back to free and
// a missing creation time to now.
func UserFromExternal(rec ExternalUserRecord, now time.Time) (*User, error) {
	attrs := UserAttributes{
		ID:             rec.ID,
		Email:          rec.Email,
		Name:           firstNonEmpty(rec.Name, rec.FullName),
		MembershipType: MembershipType(firstNonEmpty(rec.MembershipType, rec.Plan, string(MembershipFree))),
		PurchaseCount:  rec.PurchaseCount,
		TotalSpent:     rec.TotalSpent,
		CreatedAt:      now,
	}
	if attrs.PurchaseCount == 0 {
		attrs.PurchaseCount = rec.OrdersCount
	}
	if attrs.TotalSpent == 0 {
		attrs.TotalSpent = rec.LifetimeValue
	}
	if rec.CreatedAt != nil && !rec.CreatedAt.IsZero() {
		attrs.CreatedAt = *rec.CreatedAt
	}
	return NewUser(attrs)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
