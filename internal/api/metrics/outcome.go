package metrics

import (
	"errors"

	"github.com/profilehub/membership-service/internal/core/domain"
)

// Outcome classifies a use case result into a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrAlreadyPremium):
		return "conflict"
	case errors.Is(err, domain.ErrNotEligible):
		return "not_eligible"
	default:
		return "error"
	}
}
