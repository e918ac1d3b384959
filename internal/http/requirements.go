package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/specforge/internal/entity"
)

// handleGetRequirements returns an empty object, not 404, when no
// requirements row exists yet. Callers treat the empty object and a
// populated row identically.
func (s *Server) handleGetRequirements(c echo.Context) error {
	req, err := s.store.GetRequirements(c.Request().Context(), c.Param("projectId"))
	if err != nil {
		return s.storeError(c, err)
	}
	if req == nil {
		return c.JSON(http.StatusOK, map[string]any{})
	}
	return c.JSON(http.StatusOK, req)
}

func (s *Server) handleUpsertRequirements(c echo.Context) error {
	var patch entity.RequirementsPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	projectID := c.Param("projectId")
	req, err := s.store.UpsertRequirements(ctx, projectID, &patch)
	if err != nil {
		return s.storeError(c, err)
	}

	s.logActivity(ctx, projectID, entity.ActionRequirementsUpdated,
		"Project requirements were updated")

	return c.JSON(http.StatusOK, req)
}
