package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// handleListActivity returns the most recent activity rows for a
// project, newest first. The limit query parameter defaults to 10.
func (s *Server) handleListActivity(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	entries, err := s.store.ListActivity(c.Request().Context(), c.Param("projectId"), limit)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}
