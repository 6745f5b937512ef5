package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// --- Request types ---

type listUsersQuery struct {
	MembershipType   string  `query:"membership_type"    json:"membership_type"    validate:"omitempty,oneof=free premium"`
	MinPurchaseCount int     `query:"min_purchase_count" json:"min_purchase_count" validate:"gte=0"`
	MinTotalSpent    float64 `query:"min_total_spent"    json:"min_total_spent"    validate:"gte=0"`
}

// updateProfileRequest is a partial update: omitted or empty fields are left unchanged.
type updateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// editProfileRequest is the full edit form; both fields are required.
type editProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type upgradeMembershipRequest struct {
	TargetMembershipType string `json:"target_membership_type"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// ports/domain types.

type userProfileResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	MembershipType    string    `json:"membership_type"`
	DiscountRate      float64   `json:"discount_rate"`
	AvailableFeatures []string  `json:"available_features"`
	StatusMessage     string    `json:"status_message"`
	IsPremiumEligible bool      `json:"is_premium_eligible"`
	PurchaseCount     int       `json:"purchase_count"`
	TotalSpent        float64   `json:"total_spent"`
	MemberSince       time.Time `json:"member_since"`
}

type listUsersResponse struct {
	Data  []userProfileResponse `json:"data"`
	Total int                   `json:"total"`
}

type formValidationResponse struct {
	Success bool                `json:"success"`
	Data    *editProfileRequest `json:"data,omitempty"`
	Errors  map[string]string   `json:"errors,omitempty"`
}
