package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/specforge/internal/entity"
)

// createProjectRequest is the body for POST /api/projects. Title and
// author are required; everything else is optional or defaulted.
type createProjectRequest struct {
	Title              string `json:"title"`
	Version            string `json:"version"`
	Description        string `json:"description"`
	Author             string `json:"author"`
	StartDate          string `json:"startDate"`
	ExpectedCompletion string `json:"expectedCompletion"`
	Status             string `json:"status"`
}

func (s *Server) handleListProjects(c echo.Context) error {
	projects, err := s.store.ListProjects(c.Request().Context())
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, projects)
}

func (s *Server) handleGetProject(c echo.Context) error {
	p, err := s.store.GetProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleCreateProject(c echo.Context) error {
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if strings.TrimSpace(req.Author) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "author is required")
	}

	ctx := c.Request().Context()
	p, err := s.store.CreateProject(ctx, &entity.Project{
		Title:              req.Title,
		Version:            req.Version,
		Description:        req.Description,
		Author:             req.Author,
		StartDate:          req.StartDate,
		ExpectedCompletion: req.ExpectedCompletion,
		Status:             req.Status,
	})
	if err != nil {
		return s.storeError(c, err)
	}

	s.logActivity(ctx, p.ID, entity.ActionProjectCreated,
		fmt.Sprintf("Project %q was created", p.Title))

	return c.JSON(http.StatusCreated, p)
}

func (s *Server) handleUpdateProject(c echo.Context) error {
	var patch entity.ProjectPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title cannot be empty")
	}
	if patch.Author != nil && strings.TrimSpace(*patch.Author) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "author cannot be empty")
	}

	ctx := c.Request().Context()
	p, err := s.store.UpdateProject(ctx, c.Param("id"), &patch)
	if err != nil {
		return s.storeError(c, err)
	}

	s.logActivity(ctx, p.ID, entity.ActionProjectUpdated,
		fmt.Sprintf("Project %q was updated", p.Title))

	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleDeleteProject(c echo.Context) error {
	found, err := s.store.DeleteProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.storeError(c, err)
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return c.NoContent(http.StatusNoContent)
}
