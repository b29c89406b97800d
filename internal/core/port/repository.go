package port

import (
	"context"

	"market-pulse/internal/core/domain"
)

// CampaignRepository defines the persistence layer for attribution and
// targeting rows. It is an outbound port in hexagonal architecture.
// Upserts must be atomic per row: a sync run is a sequence of independent
// upserts, not one transaction, so a crash mid-run leaves valid partial
// state.
type CampaignRepository interface {
	// UpsertCampaignTarget inserts or wholly replaces an attribution row
	// keyed by campaign id.
	UpsertCampaignTarget(ctx context.Context, c domain.AttributedCampaign) error
	// ListCampaignTargets returns every persisted attribution row.
	ListCampaignTargets(ctx context.Context) ([]domain.AttributedCampaign, error)
	// DistinctJobs returns the distinct non-null (job_number, city, state)
	// triples already present in the attribution table, usable as a catalog
	// snapshot when the caller supplies none.
	DistinctJobs(ctx context.Context) ([]domain.Job, error)

	// UpsertTargetingRecord inserts or wholly replaces a targeting row
	// keyed by job number.
	UpsertTargetingRecord(ctx context.Context, rec domain.TargetingRecord) error
	// SyncedCampaignIDs returns the dedup index: campaign ids that already
	// have targeting rows persisted.
	SyncedCampaignIDs(ctx context.Context) (map[string]struct{}, error)
}
