package service

import (
	"errors"

	"github.com/profilehub/membership-service/internal/core/domain"
	"github.com/profilehub/membership-service/internal/core/ports"
)

// FormValidationService reports form validation outcomes as values instead of
// errors, for callers that render field messages.
type FormValidationService struct{}

func NewFormValidationService() *FormValidationService {
	return &FormValidationService{}
}

func (FormValidationService) ValidateEditProfileForm(form domain.EditProfileForm) ports.ValidationResult {
	valid, err := domain.ValidateEditProfileForm(form)
	if err == nil {
		return ports.ValidationResult{Success: true, Data: &valid}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ports.ValidationResult{Errors: ve.Fields}
	}
	return ports.ValidationResult{Errors: map[string]string{"form": err.Error()}}
}
