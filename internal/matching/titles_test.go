package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-radar/internal/types"
)

func TestTitleFilter_Matches(t *testing.T) {
	filter := TitleFilter{
		RoleLevelKeywords: []string{"intern", "internship"},
		RoleTypeKeywords:  []string{"software", "backend", "machine learning"},
	}

	tests := []struct {
		name     string
		title    string
		expected bool
	}{
		{"Both gates satisfied", "Software Engineering Intern", true},
		{"Case-insensitive", "SOFTWARE INTERN", true},
		{"Backend variant", "Backend Intern - Summer 2026", true},
		{"Missing role level", "Senior Software Engineer", false},
		{"Missing role type", "Marketing Intern", false},
		{"Empty title", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, filter.Matches(tt.title))
		})
	}
}

func TestTitleFilter_EmptyKeywordSetsAreVacuous(t *testing.T) {
	assert.True(t, TitleFilter{}.Matches("Anything At All"))
	assert.True(t, TitleFilter{RoleLevelKeywords: []string{"intern"}}.Matches("Marketing Intern"),
		"empty role-type set imposes no constraint")
}

func TestFilterJobs(t *testing.T) {
	filter := TitleFilter{
		RoleLevelKeywords: []string{"intern"},
		RoleTypeKeywords:  []string{"software"},
	}
	jobs := []types.RawJob{
		{JobTitle: "Software Intern", Company: "Acme"},
		{JobTitle: "Staff Software Engineer", Company: "Initech"},
		{JobTitle: "Software Engineering Intern", Company: "Globex"},
	}

	filtered := FilterJobs(jobs, filter)
	assert.Len(t, filtered, 2)
	assert.Equal(t, "Acme", filtered[0].Company)
	assert.Equal(t, "Globex", filtered[1].Company)
}
