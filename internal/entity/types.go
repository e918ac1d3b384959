// Package entity defines the domain model for the requirements manager:
// the Project aggregate root and its child entities, plus the append-only
// version and activity records.
//
// Status, type and priority fields are deliberately open strings. The
// conventional values below are what clients usually send, but the store
// never validates membership; unknown values round-trip untouched.
package entity

import "time"

// Conventional Project status values.
const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusReview    = "review"
	StatusCompleted = "completed"
)

// Conventional Stakeholder types. Some clients extend this set with
// "user" and "technical"; both are accepted like any other string.
const (
	StakeholderPrimary   = "primary"
	StakeholderSecondary = "secondary"
	StakeholderReviewer  = "reviewer"
)

// Conventional Milestone status values.
const (
	MilestoneCompleted  = "completed"
	MilestoneInProgress = "in-progress"
	MilestonePending    = "pending"
)

// Conventional Feature priority and type values.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	FeatureFunctional    = "functional"
	FeatureNonFunctional = "non-functional"
)

// Activity action tags appended by the API layer.
const (
	ActionProjectCreated      = "project_created"
	ActionProjectUpdated      = "project_updated"
	ActionStakeholderAdded    = "stakeholder_added"
	ActionRequirementsUpdated = "requirements_updated"
	ActionDataFieldAdded      = "data_field_added"
	ActionFeatureAdded        = "feature_added"
	ActionFRSGenerated        = "frs_generated"
)

// DefaultProjectVersion is assigned when a project is created without one.
const DefaultProjectVersion = "1.0.0"

// Project is the aggregate root for one requirements document effort.
type Project struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Version            string    `json:"version"`
	Description        string    `json:"description,omitempty"`
	Author             string    `json:"author"`
	StartDate          string    `json:"startDate,omitempty"`
	ExpectedCompletion string    `json:"expectedCompletion,omitempty"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ProjectPatch carries a partial project update. Nil fields are left
// untouched by the merge.
type ProjectPatch struct {
	Title              *string `json:"title"`
	Version            *string `json:"version"`
	Description        *string `json:"description"`
	Author             *string `json:"author"`
	StartDate          *string `json:"startDate"`
	ExpectedCompletion *string `json:"expectedCompletion"`
	Status             *string `json:"status"`
}

// Stakeholder is a named person attached to a project.
type Stakeholder struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Type      string    `json:"type"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Valid reports whether the stakeholder carries the fields progress
// scoring and document rendering treat as meaningful.
func (s *Stakeholder) Valid() bool {
	return s.Name != "" && s.Role != "" && s.Type != ""
}

// Milestone is a dated project checkpoint. Date is a free-form string;
// the format is not validated.
type Milestone struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Requirements is the singleton per-project requirements row. All fields
// are optional; absent ones render with fallback text in composed
// documents.
type Requirements struct {
	ID                      string    `json:"id"`
	ProjectID               string    `json:"projectId"`
	UserExperienceGoals     string    `json:"userExperienceGoals,omitempty"`
	ScopeIncluded           []string  `json:"scopeIncluded,omitempty"`
	ScopeExcluded           []string  `json:"scopeExcluded,omitempty"`
	Assumptions             []string  `json:"assumptions,omitempty"`
	Dependencies            []string  `json:"dependencies,omitempty"`
	DataIntegrationNeeds    string    `json:"dataIntegrationNeeds,omitempty"`
	ExternalServices        []string  `json:"externalServices,omitempty"`
	SuccessMetrics          []string  `json:"successMetrics,omitempty"`
	UserTestingPlans        string    `json:"userTestingPlans,omitempty"`
	DataQualityRules        []string  `json:"dataQualityRules,omitempty"`
	PerformanceRequirements []string  `json:"performanceRequirements,omitempty"`
	SecurityRequirements    []string  `json:"securityRequirements,omitempty"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// RequirementsPatch carries an upsert payload. Nil fields are not
// provided and keep any existing value; non-nil fields win.
type RequirementsPatch struct {
	UserExperienceGoals     *string  `json:"userExperienceGoals"`
	ScopeIncluded           []string `json:"scopeIncluded"`
	ScopeExcluded           []string `json:"scopeExcluded"`
	Assumptions             []string `json:"assumptions"`
	Dependencies            []string `json:"dependencies"`
	DataIntegrationNeeds    *string  `json:"dataIntegrationNeeds"`
	ExternalServices        []string `json:"externalServices"`
	SuccessMetrics          []string `json:"successMetrics"`
	UserTestingPlans        *string  `json:"userTestingPlans"`
	DataQualityRules        []string `json:"dataQualityRules"`
	PerformanceRequirements []string `json:"performanceRequirements"`
	SecurityRequirements    []string `json:"securityRequirements"`
}

// DataField specifies one data element the target system must capture.
type DataField struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"projectId"`
	Name            string    `json:"name"`
	DisplayLabel    string    `json:"displayLabel"`
	UIControlType   string    `json:"uiControlType"`
	DataType        string    `json:"dataType"`
	Placeholder     string    `json:"placeholder,omitempty"`
	DefaultValue    string    `json:"defaultValue,omitempty"`
	MaxLength       *int      `json:"maxLength"`
	Required        bool      `json:"required"`
	ValidationRules []string  `json:"validationRules,omitempty"`
	Order           int       `json:"order"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Valid reports whether the data field counts toward progress scoring.
func (f *DataField) Valid() bool {
	return f.Name != "" && f.DisplayLabel != ""
}

// DataFieldPatch carries a partial data-field update.
type DataFieldPatch struct {
	Name            *string  `json:"name"`
	DisplayLabel    *string  `json:"displayLabel"`
	UIControlType   *string  `json:"uiControlType"`
	DataType        *string  `json:"dataType"`
	Placeholder     *string  `json:"placeholder"`
	DefaultValue    *string  `json:"defaultValue"`
	MaxLength       *int     `json:"maxLength"`
	Required        *bool    `json:"required"`
	ValidationRules []string `json:"validationRules"`
	Order           *int     `json:"order"`
}

// Feature is one functional or non-functional requirement entry.
type Feature struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"projectId"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Priority       string    `json:"priority"`
	Type           string    `json:"type"`
	Specifications string    `json:"specifications,omitempty"`
	Order          int       `json:"order"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Valid reports whether the feature counts toward progress scoring.
func (f *Feature) Valid() bool {
	return f.Title != "" && f.Description != ""
}

// FeaturePatch carries a partial feature update.
type FeaturePatch struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Priority       *string `json:"priority"`
	Type           *string `json:"type"`
	Specifications *string `json:"specifications"`
	Order          *int    `json:"order"`
}

// ProjectVersion is an append-only version label with its change list.
type ProjectVersion struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Version   string    `json:"version"`
	Changes   []string  `json:"changes,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// ActivityEntry is one append-only audit row. Action is an open tag such
// as "project_created"; Description is a human-readable sentence naming
// the affected entity.
type ActivityEntry struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Bundle is the assembled project aggregate handed to the document
// composer and returned by generate-frs. Requirements is nil when no row
// exists yet.
type Bundle struct {
	Project      *Project       `json:"project"`
	Requirements *Requirements  `json:"requirements"`
	Stakeholders []*Stakeholder `json:"stakeholders"`
	Milestones   []*Milestone   `json:"milestones"`
	DataFields   []*DataField   `json:"dataFields"`
	Features     []*Feature     `json:"features"`
}
