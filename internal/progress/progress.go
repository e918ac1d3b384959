// Package progress computes derived completion scores for a project
// aggregate. Scores are read-only views; nothing here is persisted.
package progress

import (
	"math"

	"github.com/fyrsmithlabs/specforge/internal/entity"
)

// Summary holds per-section completion percentages and the overall
// score. All values are 0-100.
type Summary struct {
	BasicInfo       int `json:"basicInfo"`
	Stakeholders    int `json:"stakeholders"`
	Requirements    int `json:"requirements"`
	DataFields      int `json:"dataFields"`
	Features        int `json:"features"`
	SuccessCriteria int `json:"successCriteria"`
	Overall         int `json:"overall"`
}

// Score computes the completion summary for a bundle.
//
// Basic Info counts seven equally-weighted signals. Requirements and
// Success Criteria use fixed checklists over their narrative fields.
// Data Fields, Features, and Stakeholders score the ratio of valid
// entries to total, with 0 for an empty list. Overall is the rounded
// mean of the six section percentages. All rounding is half-up.
func Score(b *entity.Bundle) *Summary {
	s := &Summary{
		BasicInfo:       scoreBasicInfo(b),
		Stakeholders:    ratio(countValidStakeholders(b.Stakeholders), len(b.Stakeholders)),
		Requirements:    scoreRequirements(b.Requirements),
		DataFields:      scoreDataFields(b.DataFields),
		Features:        scoreFeatures(b.Features),
		SuccessCriteria: scoreSuccessCriteria(b.Requirements),
	}

	sum := s.BasicInfo + s.Stakeholders + s.Requirements + s.DataFields + s.Features + s.SuccessCriteria
	s.Overall = roundHalfUp(float64(sum) / 6)
	return s
}

// scoreBasicInfo checks seven signals: title, author, version,
// description, status, start date, and at least one valid stakeholder.
func scoreBasicInfo(b *entity.Bundle) int {
	p := b.Project
	if p == nil {
		return 0
	}

	satisfied := 0
	for _, set := range []bool{
		p.Title != "",
		p.Author != "",
		p.Version != "",
		p.Description != "",
		p.Status != "",
		p.StartDate != "",
		countValidStakeholders(b.Stakeholders) > 0,
	} {
		if set {
			satisfied++
		}
	}
	return roundHalfUp(100 * float64(satisfied) / 7)
}

func scoreRequirements(req *entity.Requirements) int {
	if req == nil {
		return 0
	}
	satisfied := 0
	for _, set := range []bool{
		req.UserExperienceGoals != "",
		len(req.ScopeIncluded) > 0,
		len(req.ScopeExcluded) > 0,
		len(req.Assumptions) > 0,
		len(req.Dependencies) > 0,
		req.DataIntegrationNeeds != "",
		len(req.ExternalServices) > 0,
	} {
		if set {
			satisfied++
		}
	}
	return roundHalfUp(100 * float64(satisfied) / 7)
}

func scoreSuccessCriteria(req *entity.Requirements) int {
	if req == nil {
		return 0
	}
	satisfied := 0
	for _, set := range []bool{
		len(req.SuccessMetrics) > 0,
		req.UserTestingPlans != "",
		len(req.DataQualityRules) > 0,
		len(req.PerformanceRequirements) > 0,
		len(req.SecurityRequirements) > 0,
	} {
		if set {
			satisfied++
		}
	}
	return roundHalfUp(100 * float64(satisfied) / 5)
}

func scoreDataFields(fields []*entity.DataField) int {
	valid := 0
	for _, f := range fields {
		if f.Valid() {
			valid++
		}
	}
	return ratio(valid, len(fields))
}

func scoreFeatures(features []*entity.Feature) int {
	valid := 0
	for _, f := range features {
		if f.Valid() {
			valid++
		}
	}
	return ratio(valid, len(features))
}

func countValidStakeholders(stakeholders []*entity.Stakeholder) int {
	valid := 0
	for _, s := range stakeholders {
		if s.Valid() {
			valid++
		}
	}
	return valid
}

// ratio returns the valid/total percentage, 0 for an empty list.
func ratio(valid, total int) int {
	if total == 0 {
		return 0
	}
	return roundHalfUp(100 * float64(valid) / float64(total))
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
