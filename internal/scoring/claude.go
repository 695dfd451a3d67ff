package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"jobscout/internal/config"
	"jobscout/internal/logging"
	"jobscout/pkg/models"
)

// ClaudeScorer scores listings against a candidate profile using Anthropic's
// Claude. It asks for a strict JSON breakdown and clamps the model's numbers
// into the 0-100 range.
type ClaudeScorer struct {
	client anthropic.Client
	config *config.Config
	logger logging.Logger
}

// NewClaudeScorer creates a new Claude scorer instance
func NewClaudeScorer(cfg *config.Config) *ClaudeScorer {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.LLM.APIKey),
	)

	return &ClaudeScorer{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger().WithField("scorer", "claude"),
	}
}

func (cs *ClaudeScorer) Name() string {
	return "claude"
}

// ScoreListing asks Claude for a match breakdown of one listing
func (cs *ClaudeScorer) ScoreListing(ctx context.Context, listing models.Listing, profile models.CandidateProfile) (*models.MatchResult, error) {
	startTime := time.Now()

	prompt := cs.buildScoringPrompt(listing, profile)

	response, err := cs.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(cs.config.LLM.Model),
		MaxTokens:   int64(cs.config.LLM.MaxTokens),
		Temperature: anthropic.Float(float64(cs.config.LLM.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call Claude API: %w", err)
	}

	result, err := parseScoringResponse(response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Claude response: %w", err)
	}

	cs.logger.Debug("Listing scored", map[string]interface{}{
		"title":            listing.Title,
		"company":          listing.Company,
		"match_percentage": result.MatchPercentage,
		"processing_time":  time.Since(startTime).String(),
	})

	return result, nil
}

func (cs *ClaudeScorer) buildScoringPrompt(listing models.Listing, profile models.CandidateProfile) string {
	profileJSON, _ := json.Marshal(profile)

	return fmt.Sprintf(`You are a career matching analyst. Compare the candidate profile below against the job listing and return a match assessment as a JSON object.

Return exactly this structure:

{
  "match_percentage": number - Overall fit from 0 to 100,
  "industry_match": number - Industry alignment from 0 to 100,
  "seniority_match": number - Seniority alignment from 0 to 100,
  "growth_potential": number - Growth opportunity for this candidate from 0 to 100,
  "matched_technical_skills": ["skills from the profile this job asks for"],
  "matched_soft_skills": ["soft skills from the profile this job values"],
  "matched_experience": ["profile experience relevant to this job"],
  "missing_requirements": ["job requirements the profile does not cover"],
  "reasoning": "string - One or two sentences explaining the score"
}

IMPORTANT RULES:
1. Return ONLY valid JSON, no additional text or explanation
2. All numeric fields must be integers between 0 and 100
3. Only list skills and experience that actually appear in the profile
4. Keep reasoning concise

CANDIDATE PROFILE:
%s

JOB LISTING:
Title: %s
Company: %s
Location: %s
Employment type: %s
Salary: %s
Description: %s`,
		string(profileJSON),
		listing.Title, listing.Company, listing.Location,
		listing.EmploymentType, listing.Salary, listing.Description)
}

func parseScoringResponse(response *anthropic.Message) (*models.MatchResult, error) {
	if len(response.Content) == 0 {
		return nil, fmt.Errorf("empty response from Claude")
	}

	var responseText string
	for _, content := range response.Content {
		textContent := content.AsText()
		responseText = textContent.Text
		break
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in Claude response")
	}

	// Strip markdown code fences if the model wrapped the JSON in them.
	responseText = strings.TrimSpace(responseText)
	if strings.HasPrefix(responseText, "```json") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	} else if strings.HasPrefix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	}

	var result models.MatchResult
	if err := json.Unmarshal([]byte(responseText), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response from Claude: %w, response: %s", err, responseText)
	}

	result.MatchPercentage = clampPercentage(result.MatchPercentage)
	result.IndustryMatch = clampPercentage(result.IndustryMatch)
	result.SeniorityMatch = clampPercentage(result.SeniorityMatch)
	result.GrowthPotential = clampPercentage(result.GrowthPotential)

	return &result, nil
}

func clampPercentage(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// IsHealthy checks if the Claude scorer is usable
func (cs *ClaudeScorer) IsHealthy(ctx context.Context) error {
	if cs.config.LLM.APIKey == "" {
		return fmt.Errorf("Claude API key not configured - set LLM_API_KEY environment variable")
	}

	_, err := cs.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(cs.config.LLM.Model),
		MaxTokens: 10,
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: "Hello"},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return fmt.Errorf("Claude API health check failed: %w", err)
	}

	return nil
}
