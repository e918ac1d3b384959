package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/specforge/internal/entity"
)

func completeProject() *entity.Project {
	return &entity.Project{
		ID:          "p1",
		Title:       "Test",
		Author:      "A",
		Version:     "1.0.0",
		Description: "desc",
		Status:      entity.StatusDraft,
		StartDate:   "2026-01-01",
	}
}

func validStakeholder() *entity.Stakeholder {
	return &entity.Stakeholder{Name: "B", Role: "R", Type: entity.StakeholderPrimary}
}

func TestScore_BasicInfoAllSignals(t *testing.T) {
	b := &entity.Bundle{
		Project:      completeProject(),
		Stakeholders: []*entity.Stakeholder{validStakeholder()},
	}

	s := Score(b)
	assert.Equal(t, 100, s.BasicInfo)
}

func TestScore_BasicInfoSixOfSeven(t *testing.T) {
	// Dropping any one signal lands on round(100*6/7) = 86.
	cases := map[string]func(*entity.Bundle){
		"no description": func(b *entity.Bundle) { b.Project.Description = "" },
		"no start date":  func(b *entity.Bundle) { b.Project.StartDate = "" },
		"no version":     func(b *entity.Bundle) { b.Project.Version = "" },
		"no stakeholder": func(b *entity.Bundle) { b.Stakeholders = nil },
		"invalid stakeholder only": func(b *entity.Bundle) {
			b.Stakeholders = []*entity.Stakeholder{{Name: "B"}}
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			b := &entity.Bundle{
				Project:      completeProject(),
				Stakeholders: []*entity.Stakeholder{validStakeholder()},
			}
			mutate(b)
			assert.Equal(t, 86, Score(b).BasicInfo)
		})
	}
}

func TestScore_EmptyListsScoreZero(t *testing.T) {
	b := &entity.Bundle{Project: completeProject()}

	s := Score(b)
	assert.Equal(t, 0, s.Stakeholders)
	assert.Equal(t, 0, s.DataFields)
	assert.Equal(t, 0, s.Features)
}

func TestScore_RatioSections(t *testing.T) {
	b := &entity.Bundle{
		Project: completeProject(),
		DataFields: []*entity.DataField{
			{Name: "email", DisplayLabel: "Email"},
			{Name: "incomplete"},
		},
		Features: []*entity.Feature{
			{Title: "A", Description: "d"},
			{Title: "B", Description: "d"},
			{Title: "no description"},
		},
	}

	s := Score(b)
	assert.Equal(t, 50, s.DataFields)
	assert.Equal(t, 67, s.Features) // round(100*2/3)
}

func TestScore_RequirementsChecklist(t *testing.T) {
	req := &entity.Requirements{
		UserExperienceGoals:  "goals",
		ScopeIncluded:        []string{"a"},
		ScopeExcluded:        []string{"b"},
		Assumptions:          []string{"c"},
		Dependencies:         []string{"d"},
		DataIntegrationNeeds: "needs",
		ExternalServices:     []string{"e"},
	}
	b := &entity.Bundle{Project: completeProject(), Requirements: req}
	assert.Equal(t, 100, Score(b).Requirements)

	req.ExternalServices = nil
	assert.Equal(t, 86, Score(b).Requirements)
}

func TestScore_SuccessCriteriaChecklist(t *testing.T) {
	b := &entity.Bundle{
		Project: completeProject(),
		Requirements: &entity.Requirements{
			SuccessMetrics:   []string{"m"},
			UserTestingPlans: "plan",
		},
	}
	// 2 of 5 signals -> 40.
	assert.Equal(t, 40, Score(b).SuccessCriteria)
}

func TestScore_NilRequirementsScoreZero(t *testing.T) {
	b := &entity.Bundle{Project: completeProject()}

	s := Score(b)
	assert.Equal(t, 0, s.Requirements)
	assert.Equal(t, 0, s.SuccessCriteria)
}

func TestScore_OverallIsRoundedMean(t *testing.T) {
	// BasicInfo 100, Stakeholders 100, everything else 0:
	// round(200/6) = round(33.33) = 33.
	b := &entity.Bundle{
		Project:      completeProject(),
		Stakeholders: []*entity.Stakeholder{validStakeholder()},
	}

	s := Score(b)
	require.Equal(t, 100, s.BasicInfo)
	require.Equal(t, 100, s.Stakeholders)
	assert.Equal(t, 33, s.Overall)
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 86, roundHalfUp(85.714))
	assert.Equal(t, 50, roundHalfUp(49.5))
	assert.Equal(t, 33, roundHalfUp(33.333))
	assert.Equal(t, 0, roundHalfUp(0))
}
