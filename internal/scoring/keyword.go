package scoring

import (
	"context"
	"fmt"
	"strings"

	"jobscout/pkg/models"
)

// KeywordScorer is the deterministic fallback used when no LLM is available.
// It scores by weighted keyword overlap between the profile and the listing
// text: technical skills carry 40 points, work experience 30, responsibilities
// 15, and seniority alignment 15.
type KeywordScorer struct{}

// NewKeywordScorer creates a keyword-overlap scorer
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{}
}

func (ks *KeywordScorer) Name() string {
	return "keyword"
}

// ScoreListing computes the weighted overlap score for one listing
func (ks *KeywordScorer) ScoreListing(ctx context.Context, listing models.Listing, profile models.CandidateProfile) (*models.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	haystack := strings.ToLower(listing.Title + " " + listing.Description + " " + listing.EmploymentType)

	result := &models.MatchResult{}
	score := 0

	matched, total := matchTerms(haystack, profile.TechnicalSkills)
	result.MatchedSkills = matched
	score += scaled(len(matched), total, 40)

	var expTitles []string
	for _, exp := range profile.WorkExperience {
		expTitles = append(expTitles, exp.Title)
	}
	matchedExp, totalExp := matchTerms(haystack, expTitles)
	result.MatchedExperience = matchedExp
	score += scaled(len(matchedExp), totalExp, 30)

	matchedResp, totalResp := matchTerms(haystack, profile.Responsibilities)
	score += scaled(len(matchedResp), totalResp, 15)

	seniorityScore := seniorityAlignment(haystack, profile.Seniority)
	result.SeniorityMatch = seniorityScore * 100 / 15
	score += seniorityScore

	matchedSoft, _ := matchTerms(haystack, profile.SoftSkills)
	result.MatchedSoftSkills = matchedSoft

	result.MatchPercentage = clampPercentage(score)
	result.Reasoning = buildReasoning(result)
	return result, nil
}

// matchTerms returns the profile terms found in the listing text. A term
// matches when the whole phrase or any word of 4+ characters appears.
func matchTerms(haystack string, terms []string) ([]string, int) {
	var matched []string
	for _, term := range terms {
		t := strings.ToLower(strings.TrimSpace(term))
		if t == "" {
			continue
		}
		if strings.Contains(haystack, t) {
			matched = append(matched, term)
			continue
		}
		for _, word := range strings.Fields(t) {
			if len(word) >= 4 && strings.Contains(haystack, word) {
				matched = append(matched, term)
				break
			}
		}
	}
	return matched, len(terms)
}

func scaled(matched, total, weight int) int {
	if total == 0 {
		return 0
	}
	return matched * weight / total
}

// seniorityAlignment awards the full 15 points when the listing text names
// the profile's seniority level and half when it names no level at all.
func seniorityAlignment(haystack, seniority string) int {
	if seniority == "" {
		return 7
	}

	markers := map[string][]string{
		models.SeniorityEntry:  {"entry", "junior", "graduate", "intern"},
		models.SeniorityMid:    {"mid-level", "mid level", "intermediate"},
		models.SenioritySenior: {"senior", "sr.", "sr "},
		models.SeniorityLead:   {"lead", "principal", "staff", "head of"},
	}

	own := markers[strings.ToLower(seniority)]
	for _, m := range own {
		if strings.Contains(haystack, m) {
			return 15
		}
	}

	for level, words := range markers {
		if level == strings.ToLower(seniority) {
			continue
		}
		for _, m := range words {
			if strings.Contains(haystack, m) {
				return 0
			}
		}
	}

	// No seniority marker in the listing at all.
	return 7
}

func buildReasoning(result *models.MatchResult) string {
	if len(result.MatchedSkills) == 0 && len(result.MatchedExperience) == 0 {
		return "No direct skill or experience overlap found."
	}

	parts := []string{}
	if n := len(result.MatchedSkills); n > 0 {
		parts = append(parts, fmt.Sprintf("%d matching skills", n))
	}
	if n := len(result.MatchedExperience); n > 0 {
		parts = append(parts, fmt.Sprintf("%d relevant roles", n))
	}
	return "Match based on " + strings.Join(parts, " and ") + "."
}
