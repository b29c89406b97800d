package domain

// CampaignInsight is a single campaign row returned by the advertising
// platform's insights API. The name is free text that encodes topic, city,
// state, dates and job number by convention. Metrics are optional and may
// be zero when the platform omits them.
type CampaignInsight struct {
	CampaignID   string  `json:"campaign_id"`
	CampaignName string  `json:"campaign_name"`
	Impressions  float64 `json:"impressions"`
	Reach        float64 `json:"reach"`
	Spend        float64 `json:"spend"`
}

// AttributedCampaign links an advertising campaign to the job it promotes.
// JobNumber is nil when extraction found no candidate token; City and State
// are nil when no catalog job matched. Rows are upserted whole on every
// attribution run, keyed by CampaignID.
type AttributedCampaign struct {
	CampaignID   string  `json:"campaign_id"`
	CampaignName string  `json:"campaign_name"`
	JobNumber    *string `json:"job_number"`
	City         *string `json:"city"`
	State        *string `json:"state"`
}
