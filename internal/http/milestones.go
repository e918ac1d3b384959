package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/specforge/internal/entity"
)

type createMilestoneRequest struct {
	Title  string `json:"title"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

func (s *Server) handleListMilestones(c echo.Context) error {
	milestones, err := s.store.ListMilestones(c.Request().Context(), c.Param("projectId"))
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, milestones)
}

// handleCreateMilestone deliberately appends no activity row; milestone
// writes are not audited, matching the rest of the API's asymmetric
// logging.
func (s *Server) handleCreateMilestone(c echo.Context) error {
	var req createMilestoneRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	ms, err := s.store.CreateMilestone(c.Request().Context(), &entity.Milestone{
		ProjectID: c.Param("projectId"),
		Title:     req.Title,
		Date:      req.Date,
		Status:    req.Status,
	})
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusCreated, ms)
}
