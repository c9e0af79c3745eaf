package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenbook/greenbook-api/internal/core/ports"
)

type FavoriteHandler struct {
	favorites ports.FavoriteService
}

func NewFavoriteHandler(favorites ports.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// Add handles POST /api/favorites/:id.
//
// @Summary      Add a plant to favourites
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Plant ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/favorites/{id} [post]
func (h *FavoriteHandler) Add(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	plantID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.favorites.Add(c.Request().Context(), user.ID, plantID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "plant added to favorites"})
}

// Remove handles DELETE /api/favorites/:id.
//
// @Summary      Remove a plant from favourites
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Plant ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/favorites/{id} [delete]
func (h *FavoriteHandler) Remove(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	plantID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.favorites.Remove(c.Request().Context(), user.ID, plantID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "plant removed from favorites"})
}

// List handles GET /api/favorites.
//
// @Summary      List favourite plants
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   favoritePlantResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/favorites [get]
func (h *FavoriteHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	plants, err := h.favorites.List(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFavoriteResponses(plants))
}
