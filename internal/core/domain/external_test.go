package domain

import (
	"testing"
	"time"
)

func TestUserFromExternal_Aliases(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	u, err := UserFromExternal(ExternalUserRecord{
		ID:            "ext-1",
		Email:         "legacy@example.com",
		FullName:      "Legacy Person",
		Plan:          "premium",
		OrdersCount:   14,
		LifetimeValue: 820.5,
	}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u.Name() != "Legacy Person" {
		t.Errorf("name = %q", u.Name())
	}
	if u.MembershipType() != MembershipPremium {
		t.Errorf("membership = %q", u.MembershipType())
	}
	if u.PurchaseCount() != 14 || u.TotalSpent() != 820.5 {
		t.Errorf("history = %d / %v", u.PurchaseCount(), u.TotalSpent())
	}
	if !u.CreatedAt().Equal(now) {
		t.Errorf("created_at = %v, want %v", u.CreatedAt(), now)
	}
}

func TestUserFromExternal_PrimaryFieldsWin(t *testing.T) {
	created := time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC)
	u, err := UserFromExternal(ExternalUserRecord{
		ID:             "ext-2",
		Email:          "p@example.com",
		Name:           "Primary",
		FullName:       "Secondary",
		MembershipType: "free",
		Plan:           "premium",
		PurchaseCount:  3,
		OrdersCount:    99,
		CreatedAt:      &created,
	}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Name() != "Primary" || u.MembershipType() != MembershipFree || u.PurchaseCount() != 3 {
		t.Errorf("unexpected attributes %+v", u.Attributes())
	}
	if !u.CreatedAt().Equal(created) {
		t.Errorf("created_at = %v, want %v", u.CreatedAt(), created)
	}
}

func TestUserFromExternal_DefaultsToFree(t *testing.T) {
	u, err := UserFromExternal(ExternalUserRecord{ID: "ext-3", Email: "f@example.com", Name: "Free Person"}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.MembershipType() != MembershipFree {
		t.Errorf("membership = %q, want free", u.MembershipType())
	}
}
