// Package store holds the entity collections behind the REST API.
//
// The interface is repository-shaped so a persistent implementation can be
// substituted without touching route logic. The shipped implementation is
// memory-resident: data is lost on restart and there is no multi-user
// concurrency control beyond last-write-wins.
package store

import (
	"context"
	"errors"

	"github.com/fyrsmithlabs/specforge/internal/entity"
)

// ErrNotFound is returned when an operation references an unknown entity ID.
var ErrNotFound = errors.New("entity not found")

// DefaultActivityLimit is used when a caller asks for recent activity
// without a limit.
const DefaultActivityLimit = 10

// Store provides keyed access to the project aggregate and its children.
//
// Create operations assign IDs, fill defaults, and return the fully
// materialized entity. Partial updates shallow-merge the given fields and
// return the merged entity. List operations never error on an unknown
// project; they return empty slices.
type Store interface {
	CreateProject(ctx context.Context, p *entity.Project) (*entity.Project, error)
	ListProjects(ctx context.Context) ([]*entity.Project, error)
	GetProject(ctx context.Context, id string) (*entity.Project, error)
	UpdateProject(ctx context.Context, id string, patch *entity.ProjectPatch) (*entity.Project, error)
	DeleteProject(ctx context.Context, id string) (bool, error)

	CreateStakeholder(ctx context.Context, s *entity.Stakeholder) (*entity.Stakeholder, error)
	ListStakeholders(ctx context.Context, projectID string) ([]*entity.Stakeholder, error)
	DeleteStakeholder(ctx context.Context, id string) (bool, error)

	CreateMilestone(ctx context.Context, m *entity.Milestone) (*entity.Milestone, error)
	ListMilestones(ctx context.Context, projectID string) ([]*entity.Milestone, error)

	// UpsertRequirements creates the singleton requirements row for the
	// project if absent, otherwise merges the patch onto the existing row.
	UpsertRequirements(ctx context.Context, projectID string, patch *entity.RequirementsPatch) (*entity.Requirements, error)
	// GetRequirements returns (nil, nil) when no row exists yet; callers
	// surface that as an empty object, never as not-found.
	GetRequirements(ctx context.Context, projectID string) (*entity.Requirements, error)

	CreateDataField(ctx context.Context, f *entity.DataField) (*entity.DataField, error)
	ListDataFields(ctx context.Context, projectID string) ([]*entity.DataField, error)
	UpdateDataField(ctx context.Context, id string, patch *entity.DataFieldPatch) (*entity.DataField, error)
	DeleteDataField(ctx context.Context, id string) (bool, error)
	// ReorderDataFields rewrites order values to the dense 0..N-1 sequence
	// implied by ids and returns the project's fields in the new order.
	ReorderDataFields(ctx context.Context, projectID string, ids []string) ([]*entity.DataField, error)

	CreateFeature(ctx context.Context, f *entity.Feature) (*entity.Feature, error)
	ListFeatures(ctx context.Context, projectID string) ([]*entity.Feature, error)
	UpdateFeature(ctx context.Context, id string, patch *entity.FeaturePatch) (*entity.Feature, error)
	DeleteFeature(ctx context.Context, id string) (bool, error)
	ReorderFeatures(ctx context.Context, projectID string, ids []string) ([]*entity.Feature, error)

	CreateVersion(ctx context.Context, v *entity.ProjectVersion) (*entity.ProjectVersion, error)
	ListVersions(ctx context.Context, projectID string) ([]*entity.ProjectVersion, error)

	AppendActivity(ctx context.Context, e *entity.ActivityEntry) (*entity.ActivityEntry, error)
	// ListActivity returns the most recent limit entries, newest first.
	// A limit <= 0 falls back to DefaultActivityLimit.
	ListActivity(ctx context.Context, projectID string, limit int) ([]*entity.ActivityEntry, error)

	// Bundle assembles the full aggregate for one project.
	Bundle(ctx context.Context, projectID string) (*entity.Bundle, error)
}
