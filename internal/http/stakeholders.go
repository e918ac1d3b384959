package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/specforge/internal/entity"
)

// createStakeholderRequest is the body for
// POST /api/projects/:projectId/stakeholders. Name, role, and type are
// required; type is an open string.
type createStakeholderRequest struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	Avatar string `json:"avatar"`
}

func (s *Server) handleListStakeholders(c echo.Context) error {
	stakeholders, err := s.store.ListStakeholders(c.Request().Context(), c.Param("projectId"))
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, stakeholders)
}

func (s *Server) handleCreateStakeholder(c echo.Context) error {
	var req createStakeholderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if strings.TrimSpace(req.Role) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "role is required")
	}
	if strings.TrimSpace(req.Type) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "type is required")
	}

	ctx := c.Request().Context()
	projectID := c.Param("projectId")
	sh, err := s.store.CreateStakeholder(ctx, &entity.Stakeholder{
		ProjectID: projectID,
		Name:      req.Name,
		Role:      req.Role,
		Type:      req.Type,
		Avatar:    req.Avatar,
	})
	if err != nil {
		return s.storeError(c, err)
	}

	s.logActivity(ctx, projectID, entity.ActionStakeholderAdded,
		fmt.Sprintf("Stakeholder %q was added", sh.Name))

	return c.JSON(http.StatusCreated, sh)
}

func (s *Server) handleDeleteStakeholder(c echo.Context) error {
	found, err := s.store.DeleteStakeholder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.storeError(c, err)
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return c.NoContent(http.StatusNoContent)
}
