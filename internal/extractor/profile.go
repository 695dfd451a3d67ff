package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"jobscout/internal/config"
	"jobscout/internal/logging"
	"jobscout/pkg/models"
)

// Profile extraction failure kinds
var (
	ErrTextTooShort       = errors.New("resume text too short to extract a profile")
	ErrServiceUnavailable = errors.New("profile extraction service unavailable")
	ErrRateLimited        = errors.New("profile extraction rate limited")
)

// minResumeLength is the smallest text we hand to the model. Anything
// shorter cannot yield a usable profile.
const minResumeLength = 80

// ProfileExtractor turns raw resume text into a structured CandidateProfile
// using Anthropic's Claude.
type ProfileExtractor struct {
	client anthropic.Client
	config *config.Config
	logger logging.Logger
}

// NewProfileExtractor creates a Claude-backed profile extractor
func NewProfileExtractor(cfg *config.Config) *ProfileExtractor {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.LLM.APIKey),
	)

	return &ProfileExtractor{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger().WithField("component", "profile_extractor"),
	}
}

// ExtractProfile parses resume text into a structured candidate profile
func (pe *ProfileExtractor) ExtractProfile(ctx context.Context, text string) (*models.CandidateProfile, error) {
	text = strings.TrimSpace(text)
	if len(text) < minResumeLength {
		return nil, ErrTextTooShort
	}
	if pe.config.LLM.APIKey == "" {
		return nil, ErrServiceUnavailable
	}

	startTime := time.Now()

	// Truncate to fit token limits, roughly 3 chars per token.
	maxContentLength := pe.config.LLM.MaxTokens * 3
	if len(text) > maxContentLength {
		text = text[:maxContentLength] + "..."
	}

	response, err := pe.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(pe.config.LLM.Model),
		MaxTokens:   int64(pe.config.LLM.MaxTokens),
		Temperature: anthropic.Float(float64(pe.config.LLM.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: pe.buildExtractionPrompt(text)},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return nil, classifyAPIError(err)
	}

	profile, err := parseProfileResponse(response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	pe.logger.Info("Profile extracted", map[string]interface{}{
		"skills":          len(profile.TechnicalSkills),
		"experience":      len(profile.WorkExperience),
		"processing_time": time.Since(startTime).String(),
	})

	return profile, nil
}

func (pe *ProfileExtractor) buildExtractionPrompt(text string) string {
	return fmt.Sprintf(`You are a resume parser. Extract structured candidate information from the resume text below and return it as a JSON object.

Return exactly this structure:

{
  "technical_skills": ["array of strings - Programming languages, tools, frameworks, technologies"],
  "soft_skills": ["array of strings - Communication, leadership, and similar skills"],
  "work_experience": [{"title": "string", "company": "string", "duration": "string", "summary": "string"}],
  "industries": ["array of strings - Industries the candidate has worked in"],
  "responsibilities": ["array of strings - Key responsibilities held across roles"],
  "achievements": ["array of strings - Notable accomplishments"],
  "education": [{"institution": "string", "degree": "string", "field": "string", "year": "string"}],
  "seniority": "string - One of: entry, mid, senior, lead"
}

IMPORTANT RULES:
1. Return ONLY valid JSON, no additional text or explanation
2. If information is not found, use empty string "" for strings and empty array [] for arrays
3. Classify seniority from total experience: entry (<2 years), mid (2-5), senior (5-10), lead (10+ or leadership titles)
4. Keep summaries to one sentence

RESUME TEXT:
%s`, text)
}

func parseProfileResponse(response *anthropic.Message) (*models.CandidateProfile, error) {
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

	var profile models.CandidateProfile
	if err := json.Unmarshal([]byte(responseText), &profile); err != nil {
		return nil, fmt.Errorf("invalid JSON from Claude: %w", err)
	}

	return &profile, nil
}

// classifyAPIError maps SDK failures onto the extraction error kinds. HTTP
// failures arrive as a typed *anthropic.Error carrying the response status;
// anything else, dial errors included, counts as the service being
// unavailable.
func classifyAPIError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
}
