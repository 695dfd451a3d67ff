package jooble

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"jobscout/internal/config"
	"jobscout/internal/logging"
	"jobscout/internal/providers"
	"jobscout/pkg/models"
	"jobscout/pkg/utils"
)

const (
	providerName   = "jooble"
	defaultBaseURL = "https://jooble.org/api"
)

// Client fetches job listings from the Jooble search API. Jooble takes a
// POST with a JSON body and keys the endpoint path by the API key.
type Client struct {
	apiKey     string
	maxResults int
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// New constructs a Jooble adapter from configuration
func New(cfg *config.Config) *Client {
	return &Client{
		apiKey:     cfg.Providers.Jooble.APIKey,
		maxResults: cfg.Search.MaxPerProvider,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		logger:     logging.GetGlobalLogger().WithField("provider", providerName),
	}
}

func (c *Client) Name() string {
	return providerName
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// SetBaseURL overrides the API endpoint, used by tests
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

type joobleRequest struct {
	Keywords string `json:"keywords"`
	Location string `json:"location,omitempty"`
	Salary   int    `json:"salary,omitempty"`
	Page     int    `json:"page"`
}

type joobleResponse struct {
	TotalCount int         `json:"totalCount"`
	Jobs       []joobleJob `json:"jobs"`
}

type joobleJob struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Snippet  string `json:"snippet"`
	Salary   string `json:"salary"`
	Type     string `json:"type"`
	Link     string `json:"link"`
	Company  string `json:"company"`
	Updated  string `json:"updated"`
}

// Search runs one Jooble query and normalizes the response
func (c *Client) Search(ctx context.Context, query string, filters models.SearchFilters) ([]models.Listing, error) {
	payload := joobleRequest{
		Keywords: query,
		Location: filters.Region,
		Salary:   filters.MinSalary,
		Page:     1,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, providers.NewProviderError(providerName, providers.ErrKindParse, err)
	}

	endpoint := fmt.Sprintf("%s/%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, providers.NewProviderError(providerName, providers.ErrKindHTTP, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, providers.NewProviderError(providerName, providers.ErrKindTimeout, err)
		}
		return nil, providers.NewProviderError(providerName, providers.ErrKindHTTP, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, providers.NewProviderError(providerName, providers.ErrKindHTTP, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, providers.NewProviderError(providerName, providers.ErrKindUnauthorized,
			fmt.Errorf("jooble rejected api key: status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, providers.NewProviderError(providerName, providers.ErrKindHTTP,
			fmt.Errorf("jooble returned %d: %s", resp.StatusCode, string(raw)))
	}

	var apiResp joobleResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, providers.NewProviderError(providerName, providers.ErrKindParse, err)
	}

	limit := c.maxResults
	listings := make([]models.Listing, 0, len(apiResp.Jobs))
	for _, j := range apiResp.Jobs {
		if len(listings) >= limit {
			break
		}
		if j.Title == "" || j.Company == "" {
			c.logger.Debug("Skipping malformed record", map[string]interface{}{"link": j.Link})
			continue
		}

		salary := utils.GetStringOrDefault(providers.CollapseWhitespace(j.Salary), "Salary not specified")

		listings = append(listings, models.Listing{
			Title:          providers.CollapseWhitespace(j.Title),
			Company:        providers.CollapseWhitespace(j.Company),
			Location:       j.Location,
			Link:           j.Link,
			Source:         providerName,
			Description:    providers.Truncate(providers.StripTags(j.Snippet), 1500),
			Salary:         salary,
			EmploymentType: j.Type,
			DatePosted:     providers.ParseDate(j.Updated),
		})
	}

	return listings, nil
}
