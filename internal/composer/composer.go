// Package composer renders a project aggregate into an FRS document.
//
// Compose is a pure transformation: it performs no I/O and is
// deterministic for a fixed bundle and injected generation time. Each
// output format renders the same intermediate document, so new formats
// only need a new renderer.
package composer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/specforge/internal/entity"
)

// Format selects the output rendering.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	// FormatWord is HTML content served with a Word MIME type and .doc
	// extension. No binary Word encoding is performed.
	FormatWord Format = "word"
	FormatJSON Format = "json"
)

// ParseFormat converts a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatHTML:
		return FormatHTML, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	case FormatWord:
		return FormatWord, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Options configure one composition.
type Options struct {
	Format Format `json:"format"`

	// GeneratedAt stamps the document. Callers needing reproducible
	// output must set it; when zero the current time is used.
	GeneratedAt time.Time `json:"-"`
}

// Document is a rendered FRS.
type Document struct {
	Content   string
	MIMEType  string
	Extension string
}

// Filename derives a download name from the project title.
func (d *Document) Filename(title string) string {
	slug := slugify(title)
	if slug == "" {
		slug = "project"
	}
	return slug + "-frs" + d.Extension
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// Fallback text is part of the output contract and must match across
// formats byte for byte.
const (
	fallbackNotSpecified    = "Not specified."
	fallbackNoStakeholders  = "No stakeholders defined."
	fallbackNoDataFields    = "No data fields defined."
	fallbackNoFeatures      = "No features defined."
	fallbackNoScopeIncluded = "No scope items defined."
	fallbackNoScopeExcluded = "No exclusions defined."
	fallbackNoAssumptions   = "No assumptions defined."
	fallbackNoDependencies  = "No dependencies defined."
	fallbackNoExternal      = "No external services defined."
	fallbackNoMetrics       = "No success metrics defined."
	fallbackNoQualityRules  = "No data quality rules defined."
	fallbackNoPerformance   = "No performance requirements defined."
	fallbackNoSecurity      = "No security requirements defined."
)

// Compose renders the bundle in the requested format.
func Compose(b *entity.Bundle, opts Options) (*Document, error) {
	if b == nil || b.Project == nil {
		return nil, errors.New("bundle with project is required")
	}

	generatedAt := opts.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	doc := buildDocument(b, generatedAt)

	switch opts.Format {
	case FormatHTML, "":
		return &Document{Content: renderHTML(doc), MIMEType: "text/html; charset=utf-8", Extension: ".html"}, nil
	case FormatWord:
		return &Document{Content: renderHTML(doc), MIMEType: "application/msword", Extension: ".doc"}, nil
	case FormatMarkdown:
		return &Document{Content: renderMarkdown(doc), MIMEType: "text/markdown; charset=utf-8", Extension: ".md"}, nil
	case FormatJSON:
		content, err := renderJSON(b, opts, generatedAt)
		if err != nil {
			return nil, err
		}
		return &Document{Content: content, MIMEType: "application/json", Extension: ".json"}, nil
	}
	return nil, fmt.Errorf("unknown format %q", opts.Format)
}

// Intermediate representation shared by the text renderers.

type tocEntry struct {
	ID    string
	Title string
}

type keyValue struct {
	Key   string
	Value string
}

// narrative is one requirements or success-criteria subsection: either
// free text, an ordered list, or its fallback when both are empty.
type narrative struct {
	Title    string
	Text     string
	Items    []string
	Fallback string
}

func (n narrative) empty() bool {
	return n.Text == "" && len(n.Items) == 0
}

type frsDocument struct {
	Project         *entity.Project
	GeneratedAt     time.Time
	TOC             []tocEntry
	BasicInfo       []keyValue
	Stakeholders    []*entity.Stakeholder
	Requirements    []narrative
	DataFields      []*entity.DataField
	Features        []*entity.Feature
	SuccessCriteria []narrative
}

func buildDocument(b *entity.Bundle, generatedAt time.Time) *frsDocument {
	p := b.Project
	req := b.Requirements
	if req == nil {
		req = &entity.Requirements{}
	}

	doc := &frsDocument{
		Project:     p,
		GeneratedAt: generatedAt,
		TOC: []tocEntry{
			{ID: "basic-info", Title: "Basic Information"},
			{ID: "stakeholders", Title: "Stakeholders"},
			{ID: "what-we-need", Title: "What We Need"},
			{ID: "data-fields", Title: "Data Fields"},
			{ID: "features", Title: "Features"},
			{ID: "success-criteria", Title: "Success Criteria"},
		},
		BasicInfo: []keyValue{
			{Key: "Title", Value: p.Title},
			{Key: "Version", Value: p.Version},
			{Key: "Author", Value: p.Author},
			{Key: "Status", Value: p.Status},
			{Key: "Description", Value: orFallback(p.Description, fallbackNotSpecified)},
			{Key: "Start Date", Value: orFallback(p.StartDate, fallbackNotSpecified)},
			{Key: "Expected Completion", Value: orFallback(p.ExpectedCompletion, fallbackNotSpecified)},
		},
		Stakeholders: b.Stakeholders,
		Requirements: []narrative{
			{Title: "User Experience Goals", Text: req.UserExperienceGoals, Fallback: fallbackNotSpecified},
			{Title: "Scope Included", Items: req.ScopeIncluded, Fallback: fallbackNoScopeIncluded},
			{Title: "Scope Excluded", Items: req.ScopeExcluded, Fallback: fallbackNoScopeExcluded},
			{Title: "Key Assumptions", Items: req.Assumptions, Fallback: fallbackNoAssumptions},
			{Title: "Dependencies", Items: req.Dependencies, Fallback: fallbackNoDependencies},
			{Title: "Data Integration Needs", Text: req.DataIntegrationNeeds, Fallback: fallbackNotSpecified},
			{Title: "External Services", Items: req.ExternalServices, Fallback: fallbackNoExternal},
		},
		DataFields: b.DataFields,
		Features:   b.Features,
		SuccessCriteria: []narrative{
			{Title: "Success Metrics", Items: req.SuccessMetrics, Fallback: fallbackNoMetrics},
			{Title: "User Testing Plan", Text: req.UserTestingPlans, Fallback: fallbackNotSpecified},
			{Title: "Data Quality Rules", Items: req.DataQualityRules, Fallback: fallbackNoQualityRules},
			{Title: "Performance Requirements", Items: req.PerformanceRequirements, Fallback: fallbackNoPerformance},
			{Title: "Security Requirements", Items: req.SecurityRequirements, Fallback: fallbackNoSecurity},
		},
	}
	return doc
}

func orFallback(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func requiredLabel(required bool) string {
	if required {
		return "Yes"
	}
	return "No"
}

// fieldSpecifications flattens a data field's constraints into the
// Specifications table column.
func fieldSpecifications(f *entity.DataField) string {
	var parts []string
	if f.MaxLength != nil {
		parts = append(parts, fmt.Sprintf("max length %d", *f.MaxLength))
	}
	if f.DefaultValue != "" {
		parts = append(parts, "default "+f.DefaultValue)
	}
	if f.Placeholder != "" {
		parts = append(parts, "placeholder "+f.Placeholder)
	}
	if len(f.ValidationRules) > 0 {
		parts = append(parts, strings.Join(f.ValidationRules, ", "))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "; ")
}
