package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/specforge/internal/entity"
)

// createFeatureRequest is the body for
// POST /api/projects/:projectId/features. Title and description are
// required; priority and type are open strings.
type createFeatureRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Priority       string `json:"priority"`
	Type           string `json:"type"`
	Specifications string `json:"specifications"`
	Order          *int   `json:"order"`
}

func (s *Server) handleListFeatures(c echo.Context) error {
	features, err := s.store.ListFeatures(c.Request().Context(), c.Param("projectId"))
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, features)
}

func (s *Server) handleCreateFeature(c echo.Context) error {
	var req createFeatureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "description is required")
	}

	order := -1
	if req.Order != nil {
		order = *req.Order
	}

	ctx := c.Request().Context()
	projectID := c.Param("projectId")
	f, err := s.store.CreateFeature(ctx, &entity.Feature{
		ProjectID:      projectID,
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		Type:           req.Type,
		Specifications: req.Specifications,
		Order:          order,
	})
	if err != nil {
		return s.storeError(c, err)
	}

	s.logActivity(ctx, projectID, entity.ActionFeatureAdded,
		fmt.Sprintf("Feature %q was added", f.Title))

	return c.JSON(http.StatusCreated, f)
}

func (s *Server) handleUpdateFeature(c echo.Context) error {
	var patch entity.FeaturePatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	f, err := s.store.UpdateFeature(c.Request().Context(), c.Param("id"), &patch)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (s *Server) handleDeleteFeature(c echo.Context) error {
	found, err := s.store.DeleteFeature(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.storeError(c, err)
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleReorderFeatures(c echo.Context) error {
	var req reorderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.IDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "ids is required")
	}

	features, err := s.store.ReorderFeatures(c.Request().Context(), c.Param("projectId"), req.IDs)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, features)
}
