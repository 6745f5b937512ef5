package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/profilehub/membership-service/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"invalid input", fmt.Errorf("get user profile: %w: user id is required", domain.ErrInvalidInput), http.StatusBadRequest, "get user profile: invalid input: user id is required"},
		{"not found", fmt.Errorf("get user profile 9: %w", domain.ErrUserNotFound), http.StatusNotFound, "user not found"},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict, "email is already taken"},
		{"already premium", domain.ErrAlreadyPremium, http.StatusConflict, "user is already a premium member"},
		{"not eligible", domain.ErrNotEligible, http.StatusUnprocessableEntity, domain.ErrNotEligible.Error()},
		{"unexpected", errors.New("mongo: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/users/9", nil), rec)

			handler(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, resp.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationDetails(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPut, "/v1/users/1/profile", nil), rec)

	err := fmt.Errorf("update user profile: %w", &domain.ValidationError{Fields: map[string]string{"email": "Please enter a valid email address"}})
	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Details["email"] != "Please enter a valid email address" {
		t.Fatalf("unexpected details: %+v", resp.Details)
	}
}
