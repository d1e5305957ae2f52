package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseFilter() RichFilter {
	return RichFilter{
		RequiredJobType: []string{"intern"},
		Keywords:        []string{"software"},
		MaxDaysBack:     30,
		UsOnly:          true,
		RemoteAllowed:   false,
	}
}

func baseListing() Listing {
	return Listing{
		Title:    "Software Engineering Intern",
		Location: "New York, NY",
		Age:      "10 days",
	}
}

func TestRichFilter_AllGatesSatisfied(t *testing.T) {
	assert.True(t, baseFilter().Matches(baseListing()))
}

func TestRichFilter_EachGateRejectsIndependently(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RichFilter, *Listing)
	}{
		{"Wrong job type", func(f *RichFilter, l *Listing) { l.Title = "Software Engineer" }},
		{"Missing keyword", func(f *RichFilter, l *Listing) { l.Title = "Marketing Intern" }},
		{"Too old", func(f *RichFilter, l *Listing) { l.Age = "45 days" }},
		{"Month-denominated age", func(f *RichFilter, l *Listing) { l.Age = "3 months" }},
		{"Short month suffix", func(f *RichFilter, l *Listing) { l.Age = "2mo" }},
		{"Non-US with us_only", func(f *RichFilter, l *Listing) { l.Location = "London" }},
		{"Canada always rejected", func(f *RichFilter, l *Listing) { l.Location = "Toronto, ON, Canada" }},
		{"Remote when disallowed", func(f *RichFilter, l *Listing) { l.Location = "Remote" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := baseFilter()
			l := baseListing()
			tt.mutate(&f, &l)
			assert.False(t, f.Matches(l))
		})
	}
}

func TestRichFilter_USGate(t *testing.T) {
	f := baseFilter()
	f.RemoteAllowed = true

	tests := []struct {
		location string
		expected bool
	}{
		{"New York, NY", true},
		{"Austin, TX", true},
		{"Washington, DC", true},
		{"nyc", true},
		{"SF", true},
		{"Remote", true},
		{"Remote - Canada", false}, // canada overrides the remote signal
		{"London", false},
		{"Berlin, Germany", false},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			l := baseListing()
			l.Location = tt.location
			assert.Equal(t, tt.expected, f.Matches(l))
		})
	}
}

func TestRichFilter_EmptyListsImposeNoConstraint(t *testing.T) {
	f := RichFilter{MaxDaysBack: 30, RemoteAllowed: true}
	l := Listing{Title: "Anything", Location: "Anywhere", Age: "1d"}
	assert.True(t, f.Matches(l))
}

func TestAgeInDays(t *testing.T) {
	tests := []struct {
		age  string
		days int
		ok   bool
	}{
		{"10 days", 10, true},
		{"5d", 5, true},
		{"posted 3 days ago", 3, true},
		{"", 0, false},
		{"today", 0, false},
	}

	for _, tt := range tests {
		days, ok := AgeInDays(tt.age)
		assert.Equal(t, tt.ok, ok, tt.age)
		assert.Equal(t, tt.days, days, tt.age)
	}
}
