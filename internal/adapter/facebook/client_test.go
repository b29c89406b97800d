package facebook

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-pulse/internal/config/configs"
)

func testClient(baseURL string) *Client {
	return NewClient(configs.Facebook{
		BaseURL:        baseURL,
		AccessToken:    "token",
		AdAccountID:    "act_123",
		TimeoutSeconds: 5,
	})
}

func TestCampaignInsightsFollowsPaging(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/act_123/insights", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "token", q.Get("access_token"))
		assert.Equal(t, "campaign", q.Get("level"))
		assert.Contains(t, q.Get("time_range"), "2025-01-01")

		if q.Get("after") == "" {
			fmt.Fprintf(w, `{
				"data": [{"campaign_id": "c1", "campaign_name": "TIR Austin TX 12345", "impressions": "100000", "reach": "40000", "spend": "2000.50"}],
				"paging": {"next": %q}
			}`, srv.URL+"/act_123/insights?"+r.URL.RawQuery+"&after=cursor")
			return
		}
		fmt.Fprint(w, `{"data": [{"campaign_id": "c2", "campaign_name": "EP Boston MA 67890", "impressions": "", "reach": "n/a"}]}`)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 5, 22, 0, 0, 0, 0, time.UTC)

	insights, err := c.CampaignInsights(context.Background(), since, until)
	require.NoError(t, err)
	require.Len(t, insights, 2)

	assert.Equal(t, "c1", insights[0].CampaignID)
	assert.Equal(t, "TIR Austin TX 12345", insights[0].CampaignName)
	assert.Equal(t, 100000.0, insights[0].Impressions)
	assert.Equal(t, 2000.50, insights[0].Spend)

	assert.Equal(t, "c2", insights[1].CampaignID)
	assert.Zero(t, insights[1].Impressions, "blank metrics read as zero")
	assert.Zero(t, insights[1].Reach, "malformed metrics read as zero")
}

func TestCampaignInsightsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "Invalid OAuth access token"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CampaignInsights(context.Background(), time.Now(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestAdSetsDecodesTargeting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/c1/adsets", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("fields"), "targeting")
		fmt.Fprint(w, `{"data": [{
			"id": "a1",
			"name": "55+ Austin 25mi",
			"targeting": {
				"geo_locations": {"cities": [{"key": "2420605", "radius": 25}]},
				"age_min": 55,
				"age_max": 75,
				"genders": [1, 2]
			}
		}]}`)
	}))
	defer srv.Close()

	adsets, err := testClient(srv.URL).AdSets(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, adsets, 1)

	assert.Equal(t, "a1", adsets[0].ID)
	assert.Equal(t, 55, adsets[0].Targeting.AgeMin)
	assert.Equal(t, 75, adsets[0].Targeting.AgeMax)
	assert.Equal(t, []int{1, 2}, adsets[0].Targeting.Genders)
	assert.JSONEq(t, `{"cities": [{"key": "2420605", "radius": 25}]}`, string(adsets[0].Targeting.GeoLocations))
	assert.False(t, adsets[0].Targeting.IsZero())
}
