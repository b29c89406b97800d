package port

import (
	"context"
	"time"

	"market-pulse/internal/core/domain"
)

// InsightsProvider fetches campaign performance rows from the advertising
// platform for a date window. Implementations own their timeouts and do
// not retry.
type InsightsProvider interface {
	CampaignInsights(ctx context.Context, since, until time.Time) ([]domain.CampaignInsight, error)
}

// TargetingProvider fetches the ad-sets of a single campaign, including
// nested geo/demographic targeting.
type TargetingProvider interface {
	AdSets(ctx context.Context, campaignID string) ([]domain.AdSet, error)
}

// EventSource loads the historical event dataset. The returned slice is a
// read-only snapshot; callers must not mutate it.
type EventSource interface {
	LoadEvents(ctx context.Context) ([]domain.EventRecord, error)
}
