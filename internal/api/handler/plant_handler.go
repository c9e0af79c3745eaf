package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenbook/greenbook-api/internal/core/domain"
	"github.com/greenbook/greenbook-api/internal/core/ports"
)

// PlantHandler serves the catalogue, random ingestion and images.
type PlantHandler struct {
	plants    ports.PlantService
	ingestion ports.IngestionService
}

func NewPlantHandler(plants ports.PlantService, ingestion ports.IngestionService) *PlantHandler {
	return &PlantHandler{plants: plants, ingestion: ingestion}
}

// List handles GET /api/plants.
//
// @Summary      List plants
// @Tags         plants
// @Produce      json
// @Param        offset  query     int  false  "Rows to skip"
// @Param        limit   query     int  false  "Page size (default 10, max 100)"
// @Success      200     {array}   plantResponse
// @Failure      400     {object}  errorResponse
// @Router       /api/plants [get]
func (h *PlantHandler) List(c echo.Context) error {
	var q listPlantsQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	plants, err := h.plants.List(c.Request().Context(), q.Offset, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPlantResponses(plants))
}

// Random handles GET /api/random_plants.
//
// @Summary      Ingest plants from a random catalogue page
// @Tags         plants
// @Produce      json
// @Param        count  query     int  false  "Plants to add (default 5)"
// @Success      200    {object}  randomPlantsResponse
// @Failure      409    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Failure      502    {object}  errorResponse
// @Router       /api/random_plants [get]
func (h *PlantHandler) Random(c echo.Context) error {
	var q randomPlantsQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	res, err := h.ingestion.IngestRandom(c.Request().Context(), q.Count)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, randomPlantsResponse{
		Page:    res.Page,
		Message: "plants added",
		Plants:  toPlantResponses(res.Plants),
	})
}

// Update handles PUT /api/plants/:id.
//
// @Summary      Update plant fields
// @Tags         plants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Plant ID"
// @Param        body  body      updatePlantRequest  true  "Fields to change"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/plants/{id} [put]
func (h *PlantHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updatePlantRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if _, err := h.plants.Update(c.Request().Context(), id, toPlantPatch(req)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "plant updated"})
}

// Delete handles DELETE /api/plants/:id.
//
// @Summary      Delete a plant and its image
// @Tags         plants
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Plant ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/plants/{id} [delete]
func (h *PlantHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.plants.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("plant %d and its image deleted", id)})
}

// DeleteAll handles DELETE /api/plants.
//
// @Summary      Delete every plant and image
// @Tags         plants
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Router       /api/plants [delete]
func (h *PlantHandler) DeleteAll(c echo.Context) error {
	n, err := h.plants.DeleteAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("%d plants and their images deleted", n)})
}

// Image handles GET /api/image/:name.
//
// @Summary      Plant image
// @Tags         plants
// @Produce      image/jpeg
// @Param        name  path      string  true  "Image file name"
// @Success      200   {file}    binary
// @Failure      404   {object}  errorResponse
// @Router       /api/image/{name} [get]
func (h *PlantHandler) Image(c echo.Context) error {
	rc, err := h.plants.OpenImage(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	defer rc.Close()
	return c.Stream(http.StatusOK, "image/jpeg", rc)
}

// CheckToken handles GET /api/check_token.
//
// @Summary      Verify the catalogue API key
// @Tags         plants
// @Produce      json
// @Success      200  {object}  checkTokenResponse
// @Failure      400  {object}  errorResponse
// @Router       /api/check_token [get]
func (h *PlantHandler) CheckToken(c echo.Context) error {
	if err := h.ingestion.CheckUpstream(c.Request().Context()); err != nil {
		if errors.Is(err, domain.ErrUpstream) {
			return echo.NewHTTPError(http.StatusBadRequest, "token check failed: "+err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, checkTokenResponse{Message: "token is valid", StatusCode: http.StatusOK})
}
