package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/specforge/internal/entity"
)

const instrumentationName = "github.com/fyrsmithlabs/specforge/internal/store"

// memoryStore implements Store with in-memory maps. Operations are
// synchronous and mutex-guarded; there is no interleaving I/O inside
// them, so each call is effectively atomic.
type memoryStore struct {
	logger *zap.Logger
	tracer trace.Tracer
	meter  metric.Meter

	mutations metric.Int64Counter

	mu   sync.RWMutex
	now  func() time.Time
	tick int

	projects     map[string]*entity.Project
	stakeholders map[string]*entity.Stakeholder
	milestones   map[string]*entity.Milestone
	requirements map[string]*entity.Requirements // keyed by projectID
	dataFields   map[string]*entity.DataField
	features     map[string]*entity.Feature
	versions     map[string][]*entity.ProjectVersion // per project, append order
	activity     map[string][]*entity.ActivityEntry  // per project, append order

	// seq records insertion order per entity ID for stable sorting.
	seq map[string]int
}

// NewMemory creates an empty in-memory store.
func NewMemory(logger *zap.Logger) Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &memoryStore{
		logger:       logger,
		tracer:       otel.Tracer(instrumentationName),
		meter:        otel.Meter(instrumentationName),
		now:          time.Now,
		projects:     make(map[string]*entity.Project),
		stakeholders: make(map[string]*entity.Stakeholder),
		milestones:   make(map[string]*entity.Milestone),
		requirements: make(map[string]*entity.Requirements),
		dataFields:   make(map[string]*entity.DataField),
		features:     make(map[string]*entity.Feature),
		versions:     make(map[string][]*entity.ProjectVersion),
		activity:     make(map[string][]*entity.ActivityEntry),
		seq:          make(map[string]int),
	}

	var err error
	m.mutations, err = m.meter.Int64Counter(
		"specforge.store.mutations_total",
		metric.WithDescription("Total store mutations labeled by entity kind and operation"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		logger.Warn("failed to create mutations counter", zap.Error(err))
	}

	return m
}

func (m *memoryStore) record(ctx context.Context, kind, op string) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("entity", kind),
			attribute.String("op", op),
		))
	}
}

// nextSeq must be called with the write lock held.
func (m *memoryStore) nextSeq(id string) {
	m.tick++
	m.seq[id] = m.tick
}

// Projects

func (m *memoryStore) CreateProject(ctx context.Context, p *entity.Project) (*entity.Project, error) {
	ctx, span := m.tracer.Start(ctx, "store.project.create")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	p.ID = uuid.New().String()
	if p.Version == "" {
		p.Version = entity.DefaultProjectVersion
	}
	if p.Status == "" {
		p.Status = entity.StatusDraft
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	m.projects[p.ID] = p
	m.nextSeq(p.ID)

	m.record(ctx, "project", "create")
	m.logger.Info("created project", zap.String("id", p.ID), zap.String("title", p.Title))
	span.SetAttributes(attribute.String("project_id", p.ID))
	return p, nil
}

func (m *memoryStore) ListProjects(ctx context.Context) ([]*entity.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*entity.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	// Newest-updated first; insertion order breaks ties.
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return m.seq[out[i].ID] > m.seq[out[j].ID]
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (m *memoryStore) GetProject(ctx context.Context, id string) (*entity.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *memoryStore) UpdateProject(ctx context.Context, id string, patch *entity.ProjectPatch) (*entity.Project, error) {
	ctx, span := m.tracer.Start(ctx, "store.project.update")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, ErrNotFound
	}

	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Version != nil {
		p.Version = *patch.Version
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Author != nil {
		p.Author = *patch.Author
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.ExpectedCompletion != nil {
		p.ExpectedCompletion = *patch.ExpectedCompletion
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	p.UpdatedAt = m.now()

	m.record(ctx, "project", "update")
	return p, nil
}

func (m *memoryStore) DeleteProject(ctx context.Context, id string) (bool, error) {
	ctx, span := m.tracer.Start(ctx, "store.project.delete")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[id]; !ok {
		return false, nil
	}
	// Child entities are intentionally left in place; the reference has
	// no cascade delete.
	delete(m.projects, id)
	m.record(ctx, "project", "delete")
	m.logger.Info("deleted project", zap.String("id", id))
	return true, nil
}

// Stakeholders

func (m *memoryStore) CreateStakeholder(ctx context.Context, s *entity.Stakeholder) (*entity.Stakeholder, error) {
	ctx, span := m.tracer.Start(ctx, "store.stakeholder.create")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	s.ID = uuid.New().String()
	s.CreatedAt = m.now()
	m.stakeholders[s.ID] = s
	m.nextSeq(s.ID)

	m.record(ctx, "stakeholder", "create")
	return s, nil
}

func (m *memoryStore) ListStakeholders(ctx context.Context, projectID string) ([]*entity.Stakeholder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*entity.Stakeholder, 0)
	for _, s := range m.stakeholders {
		if s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.seq[out[i].ID] < m.seq[out[j].ID] })
	return out, nil
}

func (m *memoryStore) DeleteStakeholder(ctx context.Context, id string) (bool, error) {
	ctx, span := m.tracer.Start(ctx, "store.stakeholder.delete")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stakeholders[id]; !ok {
		return false, nil
	}
	delete(m.stakeholders, id)
	m.record(ctx, "stakeholder", "delete")
	return true, nil
}

// Milestones

func (m *memoryStore) CreateMilestone(ctx context.Context, ms *entity.Milestone) (*entity.Milestone, error) {
	ctx, span := m.tracer.Start(ctx, "store.milestone.create")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	ms.ID = uuid.New().String()
	if ms.Status == "" {
		ms.Status = entity.MilestonePending
	}
	ms.CreatedAt = m.now()
	m.milestones[ms.ID] = ms
	m.nextSeq(ms.ID)

	m.record(ctx, "milestone", "create")
	return ms, nil
}

func (m *memoryStore) ListMilestones(ctx context.Context, projectID string) ([]*entity.Milestone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*entity.Milestone, 0)
	for _, ms := range m.milestones {
		if ms.ProjectID == projectID {
			out = append(out, ms)
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.seq[out[i].ID] < m.seq[out[j].ID] })
	return out, nil
}

// Requirements

func (m *memoryStore) UpsertRequirements(ctx context.Context, projectID string, patch *entity.RequirementsPatch) (*entity.Requirements, error) {
	ctx, span := m.tracer.Start(ctx, "store.requirements.upsert")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	req, ok := m.requirements[projectID]
	if !ok {
		req = &entity.Requirements{
			ID:        uuid.New().String(),
			ProjectID: projectID,
			CreatedAt: now,
		}
		m.requirements[projectID] = req
	}
	applyRequirementsPatch(req, patch)
	req.UpdatedAt = now

	m.record(ctx, "requirements", "upsert")
	return req, nil
}

func (m *memoryStore) GetRequirements(ctx context.Context, projectID string) (*entity.Requirements, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requirements[projectID], nil
}

func applyRequirementsPatch(req *entity.Requirements, patch *entity.RequirementsPatch) {
	if patch == nil {
		return
	}
	if patch.UserExperienceGoals != nil {
		req.UserExperienceGoals = *patch.UserExperienceGoals
	}
	if patch.ScopeIncluded != nil {
		req.ScopeIncluded = patch.ScopeIncluded
	}
	if patch.ScopeExcluded != nil {
		req.ScopeExcluded = patch.ScopeExcluded
	}
	if patch.Assumptions != nil {
		req.Assumptions = patch.Assumptions
	}
	if patch.Dependencies != nil {
		req.Dependencies = patch.Dependencies
	}
	if patch.DataIntegrationNeeds != nil {
		req.DataIntegrationNeeds = *patch.DataIntegrationNeeds
	}
	if patch.ExternalServices != nil {
		req.ExternalServices = patch.ExternalServices
	}
	if patch.SuccessMetrics != nil {
		req.SuccessMetrics = patch.SuccessMetrics
	}
	if patch.UserTestingPlans != nil {
		req.UserTestingPlans = *patch.UserTestingPlans
	}
	if patch.DataQualityRules != nil {
		req.DataQualityRules = patch.DataQualityRules
	}
	if patch.PerformanceRequirements != nil {
		req.PerformanceRequirements = patch.PerformanceRequirements
	}
	if patch.SecurityRequirements != nil {
		req.SecurityRequirements = patch.SecurityRequirements
	}
}

// Data fields

func (m *memoryStore) CreateDataField(ctx context.Context, f *entity.DataField) (*entity.DataField, error) {
	ctx, span := m.tracer.Start(ctx, "store.datafield.create")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	f.ID = uuid.New().String()
	f.CreatedAt = m.now()
	// Order < 0 means not supplied: append after existing fields.
	if f.Order < 0 {
		f.Order = m.countDataFields(f.ProjectID)
	}
	m.dataFields[f.ID] = f
	m.nextSeq(f.ID)

	m.record(ctx, "datafield", "create")
	return f, nil
}

// countDataFields must be called with the lock held.
func (m *memoryStore) countDataFields(projectID string) int {
	n := 0
	for _, f := range m.dataFields {
		if f.ProjectID == projectID {
			n++
		}
	}
	return n
}

func (m *memoryStore) ListDataFields(ctx context.Context, projectID string) ([]*entity.DataField, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedDataFields(projectID), nil
}

// sortedDataFields must be called with the lock held.
func (m *memoryStore) sortedDataFields(projectID string) []*entity.DataField {
	out := make([]*entity.DataField, 0)
	for _, f := range m.dataFields {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order == out[j].Order {
			return m.seq[out[i].ID] < m.seq[out[j].ID]
		}
		return out[i].Order < out[j].Order
	})
	return out
}

func (m *memoryStore) UpdateDataField(ctx context.Context, id string, patch *entity.DataFieldPatch) (*entity.DataField, error) {
	ctx, span := m.tracer.Start(ctx, "store.datafield.update")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.dataFields[id]
	if !ok {
		return nil, ErrNotFound
	}

	if patch.Name != nil {
		f.Name = *patch.Name
	}
	if patch.DisplayLabel != nil {
		f.DisplayLabel = *patch.DisplayLabel
	}
	if patch.UIControlType != nil {
		f.UIControlType = *patch.UIControlType
	}
	if patch.DataType != nil {
		f.DataType = *patch.DataType
	}
	if patch.Placeholder != nil {
		f.Placeholder = *patch.Placeholder
	}
	if patch.DefaultValue != nil {
		f.DefaultValue = *patch.DefaultValue
	}
	if patch.MaxLength != nil {
		f.MaxLength = patch.MaxLength
	}
	if patch.Required != nil {
		f.Required = *patch.Required
	}
	if patch.ValidationRules != nil {
		f.ValidationRules = patch.ValidationRules
	}
	if patch.Order != nil {
		f.Order = *patch.Order
	}

	m.record(ctx, "datafield", "update")
	return f, nil
}

func (m *memoryStore) DeleteDataField(ctx context.Context, id string) (bool, error) {
	ctx, span := m.tracer.Start(ctx, "store.datafield.delete")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.dataFields[id]; !ok {
		return false, nil
	}
	delete(m.dataFields, id)
	m.record(ctx, "datafield", "delete")
	return true, nil
}

func (m *memoryStore) ReorderDataFields(ctx context.Context, projectID string, ids []string) ([]*entity.DataField, error) {
	ctx, span := m.tracer.Start(ctx, "store.datafield.reorder")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, id := range ids {
		if f, ok := m.dataFields[id]; ok && f.ProjectID == projectID {
			f.Order = i
		}
	}

	m.record(ctx, "datafield", "reorder")
	return m.sortedDataFields(projectID), nil
}

// Features

func (m *memoryStore) CreateFeature(ctx context.Context, f *entity.Feature) (*entity.Feature, error) {
	ctx, span := m.tracer.Start(ctx, "store.feature.create")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	f.ID = uuid.New().String()
	f.CreatedAt = m.now()
	if f.Order < 0 {
		f.Order = m.countFeatures(f.ProjectID)
	}
	m.features[f.ID] = f
	m.nextSeq(f.ID)

	m.record(ctx, "feature", "create")
	return f, nil
}

// countFeatures must be called with the lock held.
func (m *memoryStore) countFeatures(projectID string) int {
	n := 0
	for _, f := range m.features {
		if f.ProjectID == projectID {
			n++
		}
	}
	return n
}

func (m *memoryStore) ListFeatures(ctx context.Context, projectID string) ([]*entity.Feature, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedFeatures(projectID), nil
}

// sortedFeatures must be called with the lock held.
func (m *memoryStore) sortedFeatures(projectID string) []*entity.Feature {
	out := make([]*entity.Feature, 0)
	for _, f := range m.features {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order == out[j].Order {
			return m.seq[out[i].ID] < m.seq[out[j].ID]
		}
		return out[i].Order < out[j].Order
	})
	return out
}

func (m *memoryStore) UpdateFeature(ctx context.Context, id string, patch *entity.FeaturePatch) (*entity.Feature, error) {
	ctx, span := m.tracer.Start(ctx, "store.feature.update")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.features[id]
	if !ok {
		return nil, ErrNotFound
	}

	if patch.Title != nil {
		f.Title = *patch.Title
	}
	if patch.Description != nil {
		f.Description = *patch.Description
	}
	if patch.Priority != nil {
		f.Priority = *patch.Priority
	}
	if patch.Type != nil {
		f.Type = *patch.Type
	}
	if patch.Specifications != nil {
		f.Specifications = *patch.Specifications
	}
	if patch.Order != nil {
		f.Order = *patch.Order
	}

	m.record(ctx, "feature", "update")
	return f, nil
}

func (m *memoryStore) DeleteFeature(ctx context.Context, id string) (bool, error) {
	ctx, span := m.tracer.Start(ctx, "store.feature.delete")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.features[id]; !ok {
		return false, nil
	}
	delete(m.features, id)
	m.record(ctx, "feature", "delete")
	return true, nil
}

func (m *memoryStore) ReorderFeatures(ctx context.Context, projectID string, ids []string) ([]*entity.Feature, error) {
	ctx, span := m.tracer.Start(ctx, "store.feature.reorder")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, id := range ids {
		if f, ok := m.features[id]; ok && f.ProjectID == projectID {
			f.Order = i
		}
	}

	m.record(ctx, "feature", "reorder")
	return m.sortedFeatures(projectID), nil
}

// Versions

func (m *memoryStore) CreateVersion(ctx context.Context, v *entity.ProjectVersion) (*entity.ProjectVersion, error) {
	ctx, span := m.tracer.Start(ctx, "store.version.create")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	v.ID = uuid.New().String()
	v.CreatedAt = m.now()
	m.versions[v.ProjectID] = append(m.versions[v.ProjectID], v)

	m.record(ctx, "version", "create")
	return v, nil
}

func (m *memoryStore) ListVersions(ctx context.Context, projectID string) ([]*entity.ProjectVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.versions[projectID]
	out := make([]*entity.ProjectVersion, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		out = append(out, rows[i])
	}
	return out, nil
}

// Activity

func (m *memoryStore) AppendActivity(ctx context.Context, e *entity.ActivityEntry) (*entity.ActivityEntry, error) {
	ctx, span := m.tracer.Start(ctx, "store.activity.append")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = uuid.New().String()
	e.CreatedAt = m.now()
	m.activity[e.ProjectID] = append(m.activity[e.ProjectID], e)

	m.record(ctx, "activity", "append")
	return e, nil
}

func (m *memoryStore) ListActivity(ctx context.Context, projectID string, limit int) ([]*entity.ActivityEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	rows := m.activity[projectID]
	out := make([]*entity.ActivityEntry, 0, limit)
	for i := len(rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, rows[i])
	}
	return out, nil
}

// Bundle

func (m *memoryStore) Bundle(ctx context.Context, projectID string) (*entity.Bundle, error) {
	ctx, span := m.tracer.Start(ctx, "store.bundle")
	defer span.End()

	m.mu.RLock()
	p, ok := m.projects[projectID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	stakeholders, _ := m.ListStakeholders(ctx, projectID)
	milestones, _ := m.ListMilestones(ctx, projectID)
	requirements, _ := m.GetRequirements(ctx, projectID)
	dataFields, _ := m.ListDataFields(ctx, projectID)
	features, _ := m.ListFeatures(ctx, projectID)

	span.SetAttributes(attribute.String("project_id", projectID))
	return &entity.Bundle{
		Project:      p,
		Requirements: requirements,
		Stakeholders: stakeholders,
		Milestones:   milestones,
		DataFields:   dataFields,
		Features:     features,
	}, nil
}
