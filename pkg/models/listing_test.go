package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingIdentityKey_StableUnderWhitespaceAndCase(t *testing.T) {
	a := Listing{Title: "Senior  Go   Engineer", Company: "Acme Corp", Source: "adzuna"}
	b := Listing{Title: "senior go engineer", Company: "ACME CORP", Source: "Adzuna"}

	assert.Equal(t, a.IdentityKey(), b.IdentityKey())
}

func TestListingIdentityKey_DistinguishesCompanyAndSource(t *testing.T) {
	base := Listing{Title: "Go Engineer", Company: "Acme", Source: "adzuna"}
	otherCompany := Listing{Title: "Go Engineer", Company: "Globex", Source: "adzuna"}
	otherSource := Listing{Title: "Go Engineer", Company: "Acme", Source: "jooble"}

	assert.NotEqual(t, base.IdentityKey(), otherCompany.IdentityKey())
	assert.NotEqual(t, base.IdentityKey(), otherSource.IdentityKey())
}

func TestDedupListings_PreservesFirstSeenOrder(t *testing.T) {
	listings := []Listing{
		{Title: "Go Engineer", Company: "Acme", Source: "adzuna"},
		{Title: "Backend Developer", Company: "Globex", Source: "jooble"},
		{Title: "go  engineer", Company: "acme", Source: "ADZUNA"},
	}

	deduped := DedupListings(listings)

	assert.Len(t, deduped, 2)
	assert.Equal(t, "Go Engineer", deduped[0].Title)
	assert.Equal(t, "Backend Developer", deduped[1].Title)
}

func TestProfileHasSignal(t *testing.T) {
	tests := []struct {
		name    string
		profile CandidateProfile
		want    bool
	}{
		{"empty", CandidateProfile{}, false},
		{"skills only", CandidateProfile{TechnicalSkills: []string{"go"}}, true},
		{"experience only", CandidateProfile{WorkExperience: []WorkExperience{{Title: "Engineer"}}}, true},
		{"responsibilities only", CandidateProfile{Responsibilities: []string{"built APIs"}}, true},
		{"soft skills do not count", CandidateProfile{SoftSkills: []string{"communication"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.HasSignal())
		})
	}
}

func TestSearchRequestQuery(t *testing.T) {
	withExperience := SearchRequest{Profile: CandidateProfile{
		TechnicalSkills: []string{"go", "postgres"},
		WorkExperience:  []WorkExperience{{Title: "Platform Engineer"}},
	}}
	assert.Equal(t, "Platform Engineer", withExperience.Query())

	skillsOnly := SearchRequest{Profile: CandidateProfile{
		TechnicalSkills: []string{"go", "postgres", "kubernetes", "redis"},
	}}
	assert.Equal(t, "go postgres kubernetes", skillsOnly.Query())

	empty := SearchRequest{}
	assert.Equal(t, "", empty.Query())
}
