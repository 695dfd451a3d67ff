package adzuna

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"jobscout/internal/config"
	"jobscout/internal/logging"
	"jobscout/internal/providers"
	"jobscout/pkg/models"
)

const (
	providerName   = "adzuna"
	defaultBaseURL = "https://api.adzuna.com/v1/api/jobs"
)

// Client fetches job listings from the Adzuna public API
type Client struct {
	appID      string
	appKey     string
	country    string
	maxResults int
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// New constructs an Adzuna adapter from configuration
func New(cfg *config.Config) *Client {
	return &Client{
		appID:      cfg.Providers.Adzuna.AppID,
		appKey:     cfg.Providers.Adzuna.AppKey,
		country:    cfg.Providers.Adzuna.Country,
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
	return c.appID != "" && c.appKey != ""
}

// SetBaseURL overrides the API endpoint, used by tests
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// adzunaResponse mirrors the top-level Adzuna JSON response
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

type adzunaResult struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Company      adzunaCompany  `json:"company"`
	Location     adzunaLocation `json:"location"`
	SalaryMin    float64        `json:"salary_min"`
	SalaryMax    float64        `json:"salary_max"`
	RedirectURL  string         `json:"redirect_url"`
	Created      string         `json:"created"`
	ContractTime string         `json:"contract_time"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

// Search runs one Adzuna query and normalizes the response
func (c *Client) Search(ctx context.Context, query string, filters models.SearchFilters) ([]models.Listing, error) {
	endpoint := fmt.Sprintf("%s/%s/search/1", c.baseURL, c.country)

	params := url.Values{}
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)
	params.Set("results_per_page", strconv.Itoa(c.maxResults))
	params.Set("what", query)
	params.Set("content-type", "application/json")
	params.Set("sort_by", "date")
	if filters.Region != "" {
		params.Set("where", filters.Region)
	}
	if filters.MinSalary > 0 {
		params.Set("salary_min", strconv.Itoa(filters.MinSalary))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, providers.NewProviderError(providerName, providers.ErrKindHTTP, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, providers.NewProviderError(providerName, providers.ErrKindTimeout, err)
		}
		return nil, providers.NewProviderError(providerName, providers.ErrKindHTTP, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, providers.NewProviderError(providerName, providers.ErrKindHTTP, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, providers.NewProviderError(providerName, providers.ErrKindUnauthorized,
			fmt.Errorf("adzuna rejected credentials: status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, providers.NewProviderError(providerName, providers.ErrKindHTTP,
			fmt.Errorf("adzuna returned %d: %s", resp.StatusCode, string(body)))
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, providers.NewProviderError(providerName, providers.ErrKindParse, err)
	}

	listings := make([]models.Listing, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		// A record without a title or company is unusable; skip it and
		// keep the rest of the batch.
		if r.Title == "" || r.Company.DisplayName == "" {
			c.logger.Debug("Skipping malformed record", map[string]interface{}{"id": r.ID})
			continue
		}

		listings = append(listings, models.Listing{
			Title:          providers.CollapseWhitespace(r.Title),
			Company:        providers.CollapseWhitespace(r.Company.DisplayName),
			Location:       r.Location.DisplayName,
			Link:           r.RedirectURL,
			Source:         providerName,
			Description:    providers.Truncate(providers.StripTags(r.Description), 1500),
			Salary:         providers.FormatSalary(int(r.SalaryMin), int(r.SalaryMax)),
			EmploymentType: contractTimeLabel(r.ContractTime),
			DatePosted:     providers.ParseDate(r.Created),
		})
	}

	return listings, nil
}

func contractTimeLabel(contractTime string) string {
	switch contractTime {
	case "full_time":
		return "Full-time"
	case "part_time":
		return "Part-time"
	default:
		return ""
	}
}
