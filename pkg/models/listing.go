package models

import (
	"strings"
	"time"
)

// Listing represents a normalized job listing from any provider
type Listing struct {
	Title               string    `json:"title"`
	Company             string    `json:"company"`
	Location            string    `json:"location"`
	Link                string    `json:"link"`
	Source              string    `json:"source"`
	Description         string    `json:"description"`
	Salary              string    `json:"salary"`
	EmploymentType      string    `json:"employment_type,omitempty"`
	DatePosted          time.Time `json:"date_posted,omitempty"`
	MatchPercentage     int       `json:"match_percentage,omitempty"`
	IndustryMatch       int       `json:"industry_match,omitempty"`
	SeniorityMatch      int       `json:"seniority_match,omitempty"`
	GrowthPotential     int       `json:"growth_potential,omitempty"`
	MatchedSkills       []string  `json:"matched_skills,omitempty"`
	MatchedSoftSkills   []string  `json:"matched_soft_skills,omitempty"`
	MatchedExperience   []string  `json:"matched_experience,omitempty"`
	MissingRequirements []string  `json:"missing_requirements,omitempty"`
	MatchReasoning      string    `json:"match_reasoning,omitempty"`
}

// MatchResult holds the scoring breakdown for a single listing
type MatchResult struct {
	MatchPercentage     int      `json:"match_percentage"`
	IndustryMatch       int      `json:"industry_match,omitempty"`
	SeniorityMatch      int      `json:"seniority_match,omitempty"`
	GrowthPotential     int      `json:"growth_potential,omitempty"`
	MatchedSkills       []string `json:"matched_technical_skills,omitempty"`
	MatchedSoftSkills   []string `json:"matched_soft_skills,omitempty"`
	MatchedExperience   []string `json:"matched_experience,omitempty"`
	MissingRequirements []string `json:"missing_requirements,omitempty"`
	Reasoning           string   `json:"reasoning,omitempty"`
}

// ApplyMatch copies a scoring result onto the listing
func (l *Listing) ApplyMatch(m *MatchResult) {
	if m == nil {
		return
	}
	l.MatchPercentage = m.MatchPercentage
	l.IndustryMatch = m.IndustryMatch
	l.SeniorityMatch = m.SeniorityMatch
	l.GrowthPotential = m.GrowthPotential
	l.MatchedSkills = m.MatchedSkills
	l.MatchedSoftSkills = m.MatchedSoftSkills
	l.MatchedExperience = m.MatchedExperience
	l.MissingRequirements = m.MissingRequirements
	l.MatchReasoning = m.Reasoning
}

// IdentityKey returns the dedup key for a listing. The key is stable under
// case and whitespace differences but still distinguishes the same title at
// different companies or reported by different sources.
func (l *Listing) IdentityKey() string {
	return normalizeKeyPart(l.Title) + "|" + normalizeKeyPart(l.Company) + "|" + normalizeKeyPart(l.Source)
}

func normalizeKeyPart(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// DedupListings removes identity-key duplicates, preserving first-seen order
func DedupListings(listings []Listing) []Listing {
	seen := make(map[string]struct{}, len(listings))
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		key := l.IdentityKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, l)
	}
	return out
}
