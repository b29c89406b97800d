package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"market-pulse/internal/config/configs"
	"market-pulse/internal/core/domain"
)

// Client is a Graph API client for the advertising platform. It covers
// the two calls this service needs: account-level campaign insights and
// per-campaign ad-set targeting. The underlying http.Client carries the
// configured timeout and does not retry.
type Client struct {
	baseURL     string
	accessToken string
	adAccountID string
	httpClient  *http.Client
}

// NewClient creates a new Graph API client from configuration.
func NewClient(cfg configs.Facebook) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		accessToken: cfg.AccessToken,
		adAccountID: cfg.AdAccountID,
		httpClient:  &http.Client{Timeout: cfg.Timeout()},
	}
}

// insightRow mirrors the wire shape of one insights entry. The API
// returns every metric as a string.
type insightRow struct {
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	Impressions  string `json:"impressions"`
	Reach        string `json:"reach"`
	Spend        string `json:"spend"`
}

type page struct {
	Data   json.RawMessage `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// CampaignInsights fetches campaign-level performance rows for the date
// window, following pagination until exhausted.
func (c *Client) CampaignInsights(ctx context.Context, since, until time.Time) ([]domain.CampaignInsight, error) {
	timeRange, err := json.Marshal(map[string]string{
		"since": since.Format("2006-01-02"),
		"until": until.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("level", "campaign")
	params.Set("time_range", string(timeRange))
	params.Set("fields", "campaign_id,campaign_name,impressions,reach,spend")

	next := fmt.Sprintf("%s/%s/insights?%s", c.baseURL, c.adAccountID, params.Encode())

	var out []domain.CampaignInsight
	for next != "" {
		var pg page
		if err := c.get(ctx, next, &pg); err != nil {
			return nil, err
		}
		var rows []insightRow
		if len(pg.Data) > 0 {
			if err := json.Unmarshal(pg.Data, &rows); err != nil {
				return nil, fmt.Errorf("decoding insights data: %w", err)
			}
		}
		for _, row := range rows {
			out = append(out, domain.CampaignInsight{
				CampaignID:   row.CampaignID,
				CampaignName: row.CampaignName,
				Impressions:  parseMetric(row.Impressions),
				Reach:        parseMetric(row.Reach),
				Spend:        parseMetric(row.Spend),
			})
		}
		next = pg.Paging.Next
	}
	return out, nil
}

// AdSets fetches the ad-sets of a campaign with nested targeting detail.
func (c *Client) AdSets(ctx context.Context, campaignID string) ([]domain.AdSet, error) {
	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("fields", "id,name,targeting{geo_locations,age_min,age_max,genders}")

	next := fmt.Sprintf("%s/%s/adsets?%s", c.baseURL, campaignID, params.Encode())

	var out []domain.AdSet
	for next != "" {
		var pg page
		if err := c.get(ctx, next, &pg); err != nil {
			return nil, err
		}
		var rows []domain.AdSet
		if len(pg.Data) > 0 {
			if err := json.Unmarshal(pg.Data, &rows); err != nil {
				return nil, fmt.Errorf("decoding adsets data: %w", err)
			}
		}
		out = append(out, rows...)
		next = pg.Paging.Next
	}
	return out, nil
}

// get performs one GET against the Graph API and decodes the page shape.
func (c *Client) get(ctx context.Context, fullURL string, dst *page) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graph API error (status %d): %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// parseMetric converts the API's stringly-typed metrics; blanks and
// malformed values read as zero rather than failing the whole page.
func parseMetric(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
