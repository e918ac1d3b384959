package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/specforge/internal/composer"
	"github.com/fyrsmithlabs/specforge/internal/entity"
	"github.com/fyrsmithlabs/specforge/internal/progress"
)

// generateFRSResponse is the body for POST /generate-frs: the assembled
// aggregate plus a conventional download URL. The document itself is
// rendered by GET /export or by the client.
type generateFRSResponse struct {
	Bundle      *entity.Bundle `json:"bundle"`
	DownloadURL string         `json:"downloadUrl"`
}

func (s *Server) handleGenerateFRS(c echo.Context) error {
	ctx := c.Request().Context()
	projectID := c.Param("projectId")

	bundle, err := s.store.Bundle(ctx, projectID)
	if err != nil {
		return s.storeError(c, err)
	}

	s.logActivity(ctx, projectID, entity.ActionFRSGenerated,
		fmt.Sprintf("FRS document was generated for %q", bundle.Project.Title))

	return c.JSON(http.StatusOK, generateFRSResponse{
		Bundle:      bundle,
		DownloadURL: fmt.Sprintf("/api/projects/%s/export?format=html", projectID),
	})
}

// handleExport runs the composer server-side and returns the rendered
// document with the format's MIME type.
func (s *Server) handleExport(c echo.Context) error {
	format := composer.FormatHTML
	if raw := c.QueryParam("format"); raw != "" {
		parsed, err := composer.ParseFormat(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		format = parsed
	}

	bundle, err := s.store.Bundle(c.Request().Context(), c.Param("projectId"))
	if err != nil {
		return s.storeError(c, err)
	}

	doc, err := composer.Compose(bundle, composer.Options{
		Format:      format,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		s.logger.Error("document composition failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", doc.Filename(bundle.Project.Title)))
	return c.Blob(http.StatusOK, doc.MIMEType, []byte(doc.Content))
}

// handleProgress returns the derived completion summary for a project.
func (s *Server) handleProgress(c echo.Context) error {
	bundle, err := s.store.Bundle(c.Request().Context(), c.Param("projectId"))
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, progress.Score(bundle))
}
