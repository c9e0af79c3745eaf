package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenbook/greenbook-api/internal/core/ports"
)

// AdminHandler serves the admin-only user and ingestion surface.
type AdminHandler struct {
	authService ports.AuthService
	ingestion   ports.IngestionService
}

func NewAdminHandler(authService ports.AuthService, ingestion ports.IngestionService) *AdminHandler {
	return &AdminHandler{authService: authService, ingestion: ingestion}
}

// ListUsers handles GET /api/admin/users.
//
// @Summary      List users with their favourite plant ids
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   adminUserResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdminUserResponses(users))
}

// DeleteUser handles DELETE /api/admin/users/:id.
//
// @Summary      Delete a user and their favourites
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.authService.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("user %d deleted", id)})
}

// CreateUser handles POST /api/admin/create.
//
// @Summary      Create a user with an explicit role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/admin/create [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	user, err := h.authService.CreateUser(c.Request().Context(), req.Username, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// ListIngestions handles GET /api/admin/ingestions.
//
// @Summary      Recent ingestion runs
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max runs (default 10, max 100)"
// @Success      200    {array}   ingestionRunResponse
// @Failure      403    {object}  errorResponse
// @Router       /api/admin/ingestions [get]
func (h *AdminHandler) ListIngestions(c echo.Context) error {
	var q listRunsQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	runs, err := h.ingestion.RecentRuns(c.Request().Context(), q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRunResponses(runs))
}
