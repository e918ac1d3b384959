package composer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/specforge/internal/entity"
)

// jsonExport is the verbatim structured dump plus export metadata.
type jsonExport struct {
	Project      *entity.Project       `json:"project"`
	Requirements *entity.Requirements  `json:"requirements"`
	Stakeholders []*entity.Stakeholder `json:"stakeholders"`
	Milestones   []*entity.Milestone   `json:"milestones"`
	DataFields   []*entity.DataField   `json:"dataFields"`
	Features     []*entity.Feature     `json:"features"`
	ExportedAt   string                `json:"exportedAt"`
	Options      jsonExportOptions     `json:"options"`
}

type jsonExportOptions struct {
	Format string `json:"format"`
}

func renderJSON(b *entity.Bundle, opts Options, generatedAt time.Time) (string, error) {
	format := opts.Format
	if format == "" {
		format = FormatJSON
	}
	export := jsonExport{
		Project:      b.Project,
		Requirements: b.Requirements,
		Stakeholders: b.Stakeholders,
		Milestones:   b.Milestones,
		DataFields:   b.DataFields,
		Features:     b.Features,
		ExportedAt:   generatedAt.UTC().Format(time.RFC3339),
		Options:      jsonExportOptions{Format: string(format)},
	}

	out, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal export: %w", err)
	}
	return string(out) + "\n", nil
}
