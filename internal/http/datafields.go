package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/specforge/internal/entity"
)

// createDataFieldRequest is the body for
// POST /api/projects/:projectId/data-fields. Order defaults to the
// current field count for the project when omitted.
type createDataFieldRequest struct {
	Name            string   `json:"name"`
	DisplayLabel    string   `json:"displayLabel"`
	UIControlType   string   `json:"uiControlType"`
	DataType        string   `json:"dataType"`
	Placeholder     string   `json:"placeholder"`
	DefaultValue    string   `json:"defaultValue"`
	MaxLength       *int     `json:"maxLength"`
	Required        bool     `json:"required"`
	ValidationRules []string `json:"validationRules"`
	Order           *int     `json:"order"`
}

// reorderRequest carries the explicit ID ordering for a reorder call.
type reorderRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleListDataFields(c echo.Context) error {
	fields, err := s.store.ListDataFields(c.Request().Context(), c.Param("projectId"))
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, fields)
}

func (s *Server) handleCreateDataField(c echo.Context) error {
	var req createDataFieldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	order := -1
	if req.Order != nil {
		order = *req.Order
	}

	ctx := c.Request().Context()
	projectID := c.Param("projectId")
	f, err := s.store.CreateDataField(ctx, &entity.DataField{
		ProjectID:       projectID,
		Name:            req.Name,
		DisplayLabel:    req.DisplayLabel,
		UIControlType:   req.UIControlType,
		DataType:        req.DataType,
		Placeholder:     req.Placeholder,
		DefaultValue:    req.DefaultValue,
		MaxLength:       req.MaxLength,
		Required:        req.Required,
		ValidationRules: req.ValidationRules,
		Order:           order,
	})
	if err != nil {
		return s.storeError(c, err)
	}

	s.logActivity(ctx, projectID, entity.ActionDataFieldAdded,
		fmt.Sprintf("Data field %q was added", f.Name))

	return c.JSON(http.StatusCreated, f)
}

func (s *Server) handleUpdateDataField(c echo.Context) error {
	var patch entity.DataFieldPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	f, err := s.store.UpdateDataField(c.Request().Context(), c.Param("id"), &patch)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (s *Server) handleDeleteDataField(c echo.Context) error {
	found, err := s.store.DeleteDataField(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.storeError(c, err)
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleReorderDataFields(c echo.Context) error {
	var req reorderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.IDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "ids is required")
	}

	fields, err := s.store.ReorderDataFields(c.Request().Context(), c.Param("projectId"), req.IDs)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, fields)
}
