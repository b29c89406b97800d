package domain

import (
	"fmt"
	"strings"
	"time"
)

// Topic codes used in queries. The event dataset stores the long form, the
// callers and campaign names use the short code.
var topicNames = map[string]string{
	"TIR": "taxes_in_retirement_567",
	"EP":  "estate_planning_567",
	"SS":  "social_security_567",
}

// topicFactors adjusts predicted CPR per topic. Unknown topics use 1.0.
var topicFactors = map[string]float64{
	"EP":  0.9,
	"SS":  0.85,
	"TIR": 1.15,
}

// TopicName maps a short topic code (TIR, EP, SS) to the dataset's long
// topic string. The boolean is false for unknown codes.
func TopicName(code string) (string, bool) {
	name, ok := topicNames[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}

// TopicFactor returns the CPR multiplier for a topic code, 1.0 when the
// code is unknown or empty.
func TopicFactor(code string) float64 {
	if f, ok := topicFactors[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return f
	}
	return 1.0
}

// MarketQuery is a transient prediction request. Either Zip or City+State
// must be present; Topic is optional and narrows the historical slice.
type MarketQuery struct {
	City  string `json:"city"`
	State string `json:"state"`
	Zip   string `json:"zip"`
	Topic string `json:"topic"`
}

// Locality is the resolved slice key for the event dataset: either the
// best-matching historical city within a state, or a zip code verbatim.
type Locality struct {
	City  string
	State string
	Zip   string
}

// Label renders the locality for reports and logs.
func (l Locality) Label() string {
	if l.Zip != "" {
		return fmt.Sprintf("ZIP Code %s", l.Zip)
	}
	return fmt.Sprintf("%s, %s", l.City, l.State)
}

// MediaEfficiency aggregates delivery statistics over the filtered event
// window. Nil pointers mark ratios whose denominator was zero: the value
// is undefined, not zero.
type MediaEfficiency struct {
	Impressions          float64  `json:"impressions"`
	Reach                float64  `json:"reach"`
	Spend                float64  `json:"spend"`
	Registrants          float64  `json:"registrants"`
	Frequency            *float64 `json:"frequency"`
	RegsPer1kImpressions *float64 `json:"regs_per_1k_impressions"`
	CPM                  *float64 `json:"cpm"`
	ConversionRate       *float64 `json:"conversion_rate"`
	MediaCPR             *float64 `json:"media_cpr"`
}

// MarketDecayReport is the projection returned for a market query. All
// derived values are deterministic functions of the historical slice and
// the caller-supplied reference date.
type MarketDecayReport struct {
	Locality              string           `json:"locality"`
	Topic                 string           `json:"topic"`
	LastEventDate         time.Time        `json:"last_event_date"`
	LastCPR               float64          `json:"last_cpr"`
	DaysSinceLast         int              `json:"days_since_last"`
	EventsLast30Days      int              `json:"events_last_30_days"`
	PredictedCPR          float64          `json:"predicted_cpr"`
	Trend                 string           `json:"trend"`
	DeltaPct              float64          `json:"delta_pct"`
	DecayPct              float64          `json:"decay_pct"`
	RecoveryPct           float64          `json:"recovery_pct"`
	ProjectedRecoveryDate *time.Time       `json:"projected_recovery_date"`
	SampleSize            int              `json:"sample_size"`
	ExpectedRegistrants   *float64         `json:"expected_fb_registrants"`
	Media                 *MediaEfficiency `json:"media"`
}

// MarketHealthReport is the qualitative saturation read for a market.
type MarketHealthReport struct {
	Locality                string   `json:"locality"`
	Topic                   string   `json:"topic"`
	AvgCPR                  float64  `json:"avg_cpr"`
	AvgRegsPer1kImpressions *float64 `json:"avg_regs_per_1k_impressions"`
	AvgRegsPer1kReach       *float64 `json:"avg_regs_per_1k_reach"`
	AvgFrequency            *float64 `json:"avg_frequency"`
	EventsSampled           int      `json:"events_sampled"`
	EventsLast30Days        int      `json:"events_last_30_days"`
	RiskLevel               string   `json:"risk_level"`
}
