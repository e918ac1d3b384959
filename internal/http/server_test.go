package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/specforge/internal/entity"
	"github.com/fyrsmithlabs/specforge/internal/progress"
	"github.com/fyrsmithlabs/specforge/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(store.NewMemory(nil), zap.NewNop(), &Config{
		Host: "localhost",
		Port: 0,
		// No limiter in tests; suites hammer the API from one IP.
		RateLimit: 0,
	})
	require.NoError(t, err)
	return s
}

// doJSON issues a request against the server's router and returns the
// recorded response.
func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createProject(t *testing.T, s *Server) *entity.Project {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/projects", map[string]string{
		"title":  "Test",
		"author": "A",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	p := decode[*entity.Project](t, rec)
	return p
}

func TestNewServer_Validation(t *testing.T) {
	_, err := NewServer(nil, zap.NewNop(), nil)
	require.Error(t, err)

	_, err = NewServer(store.NewMemory(nil), nil, nil)
	require.Error(t, err)

	s, err := NewServer(store.NewMemory(nil), zap.NewNop(), nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, s.config.Port)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateProject_DefaultsApplied(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Test", p.Title)
	assert.Equal(t, "A", p.Author)
	assert.Equal(t, entity.DefaultProjectVersion, p.Version)
	assert.Equal(t, entity.StatusDraft, p.Status)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreateProject_RequiresTitleAndAuthor(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/projects", map[string]string{"author": "A"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/projects", map[string]string{"title": "  ", "author": "A"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/projects", map[string]string{"title": "T"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProject_NotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/projects/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProject_Patch(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	rec := doJSON(t, s, http.MethodPatch, "/api/projects/"+p.ID, map[string]string{
		"description": "updated",
		"status":      entity.StatusActive,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[*entity.Project](t, rec)
	assert.Equal(t, "updated", got.Description)
	assert.Equal(t, entity.StatusActive, got.Status)
	// Unpatched fields survive.
	assert.Equal(t, "Test", got.Title)
}

func TestUpdateProject_RejectsEmptyTitle(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	rec := doJSON(t, s, http.MethodPatch, "/api/projects/"+p.ID, map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteProject(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	rec := doJSON(t, s, http.MethodDelete, "/api/projects/"+p.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/api/projects/"+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStakeholders_CreateAndActivity(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/stakeholders", map[string]string{
		"name": "Blake", "role": "PO", "type": entity.StakeholderPrimary,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	sh := decode[*entity.Stakeholder](t, rec)
	assert.Equal(t, p.ID, sh.ProjectID)

	// Project creation plus stakeholder addition, newest first.
	rec = doJSON(t, s, http.MethodGet, "/api/projects/"+p.ID+"/activity?limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]*entity.ActivityEntry](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.ActionStakeholderAdded, entries[0].Action)
	assert.Equal(t, entity.ActionProjectCreated, entries[1].Action)
	assert.Equal(t, "system", entries[0].UserID)
}

func TestStakeholders_ValidationAndDelete(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/stakeholders", map[string]string{
		"name": "Blake",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Failed delete leaves no activity trace.
	rec = doJSON(t, s, http.MethodDelete, "/api/stakeholders/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/projects/"+p.ID+"/activity", nil)
	entries := decode[[]*entity.ActivityEntry](t, rec)
	assert.Len(t, entries, 1) // only project_created
}

func TestMilestones_NoActivityEntry(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/milestones", map[string]string{
		"title": "Alpha", "status": entity.MilestonePending,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/projects/"+p.ID+"/activity", nil)
	entries := decode[[]*entity.ActivityEntry](t, rec)
	assert.Len(t, entries, 1)
}

func TestRequirements_EmptyObjectBeforeUpsert(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	rec := doJSON(t, s, http.MethodGet, "/api/projects/"+p.ID+"/requirements", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestRequirements_UpsertMerges(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/requirements", map[string]any{
		"userExperienceGoals": "fast",
		"scopeIncluded":       []string{"login"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[*entity.Requirements](t, rec)
	assert.Equal(t, "fast", first.UserExperienceGoals)

	// Second upsert patches one field; the rest survives.
	rec = doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/requirements", map[string]any{
		"dataIntegrationNeeds": "nightly sync",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[*entity.Requirements](t, rec)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "fast", second.UserExperienceGoals)
	assert.Equal(t, []string{"login"}, second.ScopeIncluded)
	assert.Equal(t, "nightly sync", second.DataIntegrationNeeds)
}

func TestDataFields_OrderAssignment(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	for i, name := range []string{"email", "phone"} {
		rec := doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/data-fields", map[string]any{
			"name": name,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		f := decode[*entity.DataField](t, rec)
		assert.Equal(t, i, f.Order)
	}

	// Explicit order is honored, including zero.
	rec := doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/data-fields", map[string]any{
		"name": "zip", "order": 0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	f := decode[*entity.DataField](t, rec)
	assert.Equal(t, 0, f.Order)
}

func TestDataFields_Reorder(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		rec := doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/data-fields", map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, rec.Code)
		ids = append(ids, decode[*entity.DataField](t, rec).ID)
	}

	rec := doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/data-fields/reorder", map[string]any{
		"ids": []string{ids[2], ids[0], ids[1]},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	fields := decode[[]*entity.DataField](t, rec)
	require.Len(t, fields, 3)
	assert.Equal(t, "c", fields[0].Name)
	assert.Equal(t, "a", fields[1].Name)
	assert.Equal(t, "b", fields[2].Name)
	for i, f := range fields {
		assert.Equal(t, i, f.Order)
	}
}

func TestDataFields_ReorderRequiresIDs(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/data-fields/reorder", map[string]any{
		"ids": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeatures_CreateValidationAndUpdate(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/features", map[string]string{
		"title": "CSV export",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/features", map[string]string{
		"title": "CSV export", "description": "Export data",
		"priority": entity.PriorityMedium, "type": entity.FeatureFunctional,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	ft := decode[*entity.Feature](t, rec)
	assert.Equal(t, entity.PriorityMedium, ft.Priority)
	assert.Equal(t, 0, ft.Order)

	rec = doJSON(t, s, http.MethodPatch, "/api/features/"+ft.ID, map[string]string{
		"priority": entity.PriorityHigh,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[*entity.Feature](t, rec)
	assert.Equal(t, entity.PriorityHigh, got.Priority)
	assert.Equal(t, "CSV export", got.Title)
}

func TestVersions_CreateAndList(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/versions", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/versions", map[string]any{
		"version": "1.1.0", "changes": []string{"Added export"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	v := decode[*entity.ProjectVersion](t, rec)
	assert.Equal(t, "system", v.CreatedBy)

	rec = doJSON(t, s, http.MethodGet, "/api/projects/"+p.ID+"/versions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	versions := decode[[]*entity.ProjectVersion](t, rec)
	require.Len(t, versions, 1)
	assert.Equal(t, "1.1.0", versions[0].Version)
}

func TestActivity_InvalidLimit(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	for _, q := range []string{"?limit=abc", "?limit=0", "?limit=-1"} {
		rec := doJSON(t, s, http.MethodGet, "/api/projects/"+p.ID+"/activity"+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestGenerateFRS(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/generate-frs", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[generateFRSResponse](t, rec)
	require.NotNil(t, resp.Bundle)
	assert.Equal(t, p.ID, resp.Bundle.Project.ID)
	assert.Equal(t, fmt.Sprintf("/api/projects/%s/export?format=html", p.ID), resp.DownloadURL)

	rec = doJSON(t, s, http.MethodGet, "/api/projects/"+p.ID+"/activity", nil)
	entries := decode[[]*entity.ActivityEntry](t, rec)
	require.NotEmpty(t, entries)
	assert.Equal(t, entity.ActionFRSGenerated, entries[0].Action)
}

func TestGenerateFRS_UnknownProject(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/projects/nope/generate-frs", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExport_Formats(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	// Default format is HTML.
	rec := doJSON(t, s, http.MethodGet, "/api/projects/"+p.ID+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echoContentType), "text/html")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "test-frs.html")
	assert.Contains(t, rec.Body.String(), "Functional Requirements Specification")

	rec = doJSON(t, s, http.MethodGet, "/api/projects/"+p.ID+"/export?format=markdown", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echoContentType), "text/markdown")

	rec = doJSON(t, s, http.MethodGet, "/api/projects/"+p.ID+"/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// echoContentType avoids importing echo just for one header constant.
const echoContentType = "Content-Type"

func TestProgress(t *testing.T) {
	s := newTestServer(t)
	p := createProject(t, s)

	rec := doJSON(t, s, http.MethodGet, "/api/projects/"+p.ID+"/progress", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	sum := decode[progress.Summary](t, rec)
	// Title, author, defaulted version, and defaulted status are present:
	// round(100*4/7) = 57.
	assert.Equal(t, 57, sum.BasicInfo)
	assert.Equal(t, 0, sum.Stakeholders)
	assert.Equal(t, 0, sum.DataFields)
	assert.Equal(t, 0, sum.Features)

	// Adding a valid stakeholder moves both sections.
	doJSON(t, s, http.MethodPost, "/api/projects/"+p.ID+"/stakeholders", map[string]string{
		"name": "B", "role": "R", "type": entity.StakeholderPrimary,
	})
	rec = doJSON(t, s, http.MethodGet, "/api/projects/"+p.ID+"/progress", nil)
	sum = decode[progress.Summary](t, rec)
	assert.Equal(t, 71, sum.BasicInfo) // 5 of 7 signals
	assert.Equal(t, 100, sum.Stakeholders)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/api/projects/:id",
		normalizePath("/api/projects/0b5fe1dd-5a30-4a7e-b335-14a5a0a9c0c4"))
	assert.Equal(t, "/api/projects/:id/data-fields",
		normalizePath("/api/projects/0b5fe1dd-5a30-4a7e-b335-14a5a0a9c0c4/data-fields"))
	assert.Equal(t, "/health", normalizePath("/health"))
}

func TestRateLimiter_Enabled(t *testing.T) {
	s, err := NewServer(store.NewMemory(nil), zap.NewNop(), &Config{
		Host: "localhost", Port: 0, RateLimit: 1,
	})
	require.NoError(t, err)

	// Burst through the limiter; at least one request must be rejected.
	limited := false
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", strings.NewReader(""))
		req.Header.Set("X-Real-IP", "192.0.2.1")
		rec := httptest.NewRecorder()
		s.echo.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited)
}
