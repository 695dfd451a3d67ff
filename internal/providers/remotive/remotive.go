package remotive

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
	"jobscout/pkg/utils"
)

const (
	providerName   = "remotive"
	defaultBaseURL = "https://remotive.com/api/remote-jobs"
)

// Client fetches remote job listings from the public Remotive API. The API
// needs no credentials, so configuration is a plain enable flag.
type Client struct {
	enabled    bool
	maxResults int
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// New constructs a Remotive adapter from configuration
func New(cfg *config.Config) *Client {
	return &Client{
		enabled:    cfg.Providers.Remotive.Enabled,
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
	return c.enabled
}

// SetBaseURL overrides the API endpoint, used by tests
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

type remotiveJob struct {
	URL             string `json:"url"`
	Title           string `json:"title"`
	CompanyName     string `json:"company_name"`
	JobType         string `json:"job_type"`
	PublicationDate string `json:"publication_date"`
	Location        string `json:"candidate_required_location"`
	Salary          string `json:"salary"`
	Description     string `json:"description"`
}

// Search runs one Remotive query and normalizes the response
func (c *Client) Search(ctx context.Context, query string, filters models.SearchFilters) ([]models.Listing, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("limit", strconv.Itoa(c.maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
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

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, providers.NewProviderError(providerName, providers.ErrKindHTTP, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, providers.NewProviderError(providerName, providers.ErrKindHTTP,
			fmt.Errorf("remotive returned %d: %s", resp.StatusCode, string(raw)))
	}

	var apiResp remotiveResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, providers.NewProviderError(providerName, providers.ErrKindParse, err)
	}

	listings := make([]models.Listing, 0, len(apiResp.Jobs))
	for _, j := range apiResp.Jobs {
		if j.Title == "" || j.CompanyName == "" {
			c.logger.Debug("Skipping malformed record", map[string]interface{}{"url": j.URL})
			continue
		}

		salary := utils.GetStringOrDefault(providers.CollapseWhitespace(j.Salary), "Salary not specified")
		location := utils.GetStringOrDefault(j.Location, "Remote")

		listings = append(listings, models.Listing{
			Title:          providers.CollapseWhitespace(j.Title),
			Company:        providers.CollapseWhitespace(j.CompanyName),
			Location:       location,
			Link:           j.URL,
			Source:         providerName,
			Description:    providers.Truncate(providers.StripTags(j.Description), 1500),
			Salary:         salary,
			EmploymentType: j.JobType,
			DatePosted:     providers.ParseDate(j.PublicationDate),
		})
	}

	return listings, nil
}
