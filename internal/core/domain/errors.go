package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email is already taken")
	ErrAlreadyPremium = errors.New("user is already a premium member")
	ErrNotEligible    = errors.New("user is not eligible for premium membership")
)

// ValidationError reports every field that failed validation, one message per
// field. It matches ErrInvalidInput under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
