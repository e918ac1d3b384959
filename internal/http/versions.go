package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/specforge/internal/entity"
)

type createVersionRequest struct {
	Version   string   `json:"version"`
	Changes   []string `json:"changes"`
	CreatedBy string   `json:"createdBy"`
}

func (s *Server) handleListVersions(c echo.Context) error {
	versions, err := s.store.ListVersions(c.Request().Context(), c.Param("projectId"))
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, versions)
}

// handleCreateVersion appends a version record. Version rows are
// append-only and, like milestones, not audited in the activity log.
func (s *Server) handleCreateVersion(c echo.Context) error {
	var req createVersionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Version) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "version is required")
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = systemUserID
	}

	v, err := s.store.CreateVersion(c.Request().Context(), &entity.ProjectVersion{
		ProjectID: c.Param("projectId"),
		Version:   req.Version,
		Changes:   req.Changes,
		CreatedBy: createdBy,
	})
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}
