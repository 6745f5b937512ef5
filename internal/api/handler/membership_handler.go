package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/profilehub/membership-service/internal/core/ports"
)

// MembershipHandler handles membership changes.
type MembershipHandler struct {
	service ports.MembershipService
}

func NewMembershipHandler(service ports.MembershipService) *MembershipHandler {
	return &MembershipHandler{service: service}
}

// Upgrade handles POST /v1/users/:id/membership/upgrade. An empty body
// requests premium.
//
// @Summary      Upgrade a user's membership
// @Tags         membership
// @Accept       json
// @Param        id    path  string                    true   "User id"
// @Param        body  body  upgradeMembershipRequest  false  "Target membership (default premium)"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/users/{id}/membership/upgrade [post]
func (h *MembershipHandler) Upgrade(c echo.Context) error {
	var req upgradeMembershipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	err := h.service.UpgradeMembership(c.Request().Context(), ports.UpgradeMembershipInput{
		UserID:               c.Param("id"),
		TargetMembershipType: req.TargetMembershipType,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
