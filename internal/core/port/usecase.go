package port

import (
	"context"
	"errors"
	"time"

	"market-pulse/internal/core/domain"
)

// ErrNoMatchingLocality is returned when fuzzy city resolution finds no
// candidate above the similarity threshold.
var ErrNoMatchingLocality = errors.New("no matching locality")

// ErrNoHistoricalData is returned when the resolved locality/topic slice
// of the event dataset is empty.
var ErrNoHistoricalData = errors.New("no historical data for market")

// ErrInvalidQuery is returned when a market query carries neither a zip
// code nor a city/state pair.
var ErrInvalidQuery = errors.New("query needs either zip or city and state")

// AttributionUseCase joins platform campaigns to the job catalog and
// persists the resulting mapping.
type AttributionUseCase interface {
	// Sync fetches campaign insights for the window, attributes each
	// campaign against the catalog and upserts every touched row. A nil or
	// empty catalog falls back to jobs already known to the store. Zero
	// since/until default to year-to-date.
	Sync(ctx context.Context, catalog []domain.Job, since, until time.Time) (*AttributionResult, error)
	// ListCampaigns returns the persisted attribution rows.
	ListCampaigns(ctx context.Context) ([]domain.AttributedCampaign, error)
}

// TargetingUseCase pulls per-ad-set audience detail for attributed
// campaigns not yet covered by the dedup index.
type TargetingUseCase interface {
	Sync(ctx context.Context) (*TargetingSyncResult, error)
}

// MarketUseCase answers market queries against the historical event
// dataset. asOf is caller-supplied so results are reproducible.
type MarketUseCase interface {
	// PredictCPR resolves the locality and projects cost per registrant
	// for a new campaign. Returns ErrNoMatchingLocality, ErrNoHistoricalData
	// or ErrInvalidQuery as typed not-found/invalid results.
	PredictCPR(ctx context.Context, q domain.MarketQuery, asOf time.Time) (*domain.MarketDecayReport, error)
	// Health returns the aggregate saturation read for the same slice.
	Health(ctx context.Context, q domain.MarketQuery, asOf time.Time) (*domain.MarketHealthReport, error)
}

// AttributionResult reports one attribution run. Matched+Unmatched always
// equals Total.
type AttributionResult struct {
	RunID      string                      `json:"run_id"`
	Total      int                         `json:"total"`
	Matched    int                         `json:"matched"`
	Unmatched  int                         `json:"unmatched"`
	Attributed []domain.AttributedCampaign `json:"attributed"`
}

// TargetingSyncResult reports one targeting sync run. Stored counts
// persisted records; Skipped counts campaigns passed over because they
// were already synced, had no job number or returned zero ad-sets; Failed
// counts campaigns whose ad-set fetch errored (logged, batch continued).
type TargetingSyncResult struct {
	RunID   string                   `json:"run_id"`
	Stored  int                      `json:"stored"`
	Skipped int                      `json:"skipped"`
	Failed  int                      `json:"failed"`
	Records []domain.TargetingRecord `json:"records"`
}
