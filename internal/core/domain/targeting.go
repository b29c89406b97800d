package domain

import (
	"encoding/json"
	"time"
)

// AdSetTargeting describes the audience parameters attached to an ad-set.
// GeoLocations is kept as raw JSON because its shape varies by platform
// version; it is persisted as serialized text. Genders follows the
// platform convention (1 male, 2 female); an empty slice means "all".
type AdSetTargeting struct {
	GeoLocations json.RawMessage `json:"geo_locations,omitempty"`
	AgeMin       int             `json:"age_min"`
	AgeMax       int             `json:"age_max"`
	Genders      []int           `json:"genders,omitempty"`
}

// IsZero reports whether the ad-set carries no targeting detail at all.
func (t AdSetTargeting) IsZero() bool {
	return len(t.GeoLocations) == 0 && t.AgeMin == 0 && t.AgeMax == 0 && len(t.Genders) == 0
}

// AdSet is an ad-set row returned by the platform for a campaign.
type AdSet struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Targeting AdSetTargeting `json:"targeting"`
}

// TargetingRecord is the persisted audience snapshot for a job, keyed by
// job number with the source campaign and ad-set carried alongside.
// GeoLocations is serialized JSON, nil when the ad-set carries none.
// Gender is a comma-joined list or nil when the ad-set targets everyone.
// Re-syncing an un-skipped campaign supersedes the whole row.
type TargetingRecord struct {
	JobNumber    string    `json:"job_number"`
	CampaignID   string    `json:"campaign_id"`
	AdSetID      string    `json:"adset_id"`
	GeoLocations *string   `json:"geo_locations"`
	AgeMin       int       `json:"age_min"`
	AgeMax       int       `json:"age_max"`
	Gender       *string   `json:"gender"`
	LastSynced   time.Time `json:"last_synced"`
}
