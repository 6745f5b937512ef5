package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/profilehub/membership-service/internal/core/domain"
	"github.com/profilehub/membership-service/internal/core/ports"
)

// UserHandler handles HTTP requests for user profiles. Errors are returned to
// Echo's central error handler.
type UserHandler struct {
	profiles ports.UserProfileService
	forms    ports.FormValidationService
}

func NewUserHandler(profiles ports.UserProfileService, forms ports.FormValidationService) *UserHandler {
	return &UserHandler{profiles: profiles, forms: forms}
}

// List handles GET /v1/users.
//
// @Summary      List user profiles
// @Tags         users
// @Produce      json
// @Param        membership_type     query     string   false  "free or premium"
// @Param        min_purchase_count  query     int      false  "Minimum purchase count"
// @Param        min_total_spent     query     number   false  "Minimum total spent"
// @Success      200                 {object}  listUsersResponse
// @Failure      400                 {object}  errorResponse
// @Failure      422                 {object}  errorResponse
// @Failure      500                 {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q listUsersQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	var filter *ports.ListUsersFilter
	if q != (listUsersQuery{}) {
		filter = &ports.ListUsersFilter{
			MembershipType:   q.MembershipType,
			MinPurchaseCount: q.MinPurchaseCount,
			MinTotalSpent:    q.MinTotalSpent,
		}
	}

	profiles, err := h.profiles.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	resp := listUsersResponse{Data: make([]userProfileResponse, 0, len(profiles)), Total: len(profiles)}
	for i := range profiles {
		resp.Data = append(resp.Data, toProfileResponse(&profiles[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userProfileResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	profile, err := h.profiles.GetUserProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// Update handles PATCH /v1/users/:id.
//
// @Summary      Partially update a user profile
// @Tags         users
// @Accept       json
// @Param        id    path  string                true  "User id"
// @Param        body  body  updateProfileRequest  true  "Fields to change"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	err := h.profiles.UpdateUserProfile(c.Request().Context(), ports.UpdateUserProfileInput{
		UserID: c.Param("id"),
		Name:   req.Name,
		Email:  req.Email,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ReplaceProfile handles PUT /v1/users/:id/profile. The body is checked with
// the edit-profile form rules before the update runs.
//
// @Summary      Submit the edit-profile form
// @Tags         users
// @Accept       json
// @Param        id    path  string              true  "User id"
// @Param        body  body  editProfileRequest  true  "Edit-profile form"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/users/{id}/profile [put]
func (h *UserHandler) ReplaceProfile(c echo.Context) error {
	var req editProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res := h.forms.ValidateEditProfileForm(domain.EditProfileForm{Name: req.Name, Email: req.Email})
	if !res.Success {
		return &domain.ValidationError{Fields: res.Errors}
	}

	err := h.profiles.UpdateUserProfile(c.Request().Context(), ports.UpdateUserProfileInput{
		UserID: c.Param("id"),
		Name:   &res.Data.Name,
		Email:  &res.Data.Email,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ValidateEditForm handles POST /v1/forms/edit-profile/validate. It always
// answers 200; the outcome is in the body.
//
// @Summary      Validate the edit-profile form
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        body  body      editProfileRequest  true  "Edit-profile form"
// @Success      200   {object}  formValidationResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/forms/edit-profile/validate [post]
func (h *UserHandler) ValidateEditForm(c echo.Context) error {
	var req editProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res := h.forms.ValidateEditProfileForm(domain.EditProfileForm{Name: req.Name, Email: req.Email})
	resp := formValidationResponse{Success: res.Success, Errors: res.Errors}
	if res.Data != nil {
		resp.Data = &editProfileRequest{Name: res.Data.Name, Email: res.Data.Email}
	}
	return c.JSON(http.StatusOK, resp)
}

func toProfileResponse(p *ports.UserProfile) userProfileResponse {
	features := p.AvailableFeatures
	if features == nil {
		features = []string{}
	}
	return userProfileResponse{
		ID:                p.ID,
		Name:              p.Name,
		Email:             p.Email,
		MembershipType:    p.MembershipType,
		DiscountRate:      p.DiscountRate,
		AvailableFeatures: features,
		StatusMessage:     p.StatusMessage,
		IsPremiumEligible: p.IsPremiumEligible,
		PurchaseCount:     p.PurchaseCount,
		TotalSpent:        p.TotalSpent,
		MemberSince:       p.MemberSince.UTC(),
	}
}
