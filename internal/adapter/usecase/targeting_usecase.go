package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"market-pulse/internal/core/domain"
	"market-pulse/internal/core/port"
)

// TargetingUseCase pulls per-ad-set geo/demographic targeting for every
// attributed campaign not yet covered by the dedup index and persists one
// row per (job, ad-set). It implements port.TargetingUseCase.
type TargetingUseCase struct {
	targeting port.TargetingProvider
	repo      port.CampaignRepository
	logger    *slog.Logger

	now func() time.Time
}

// NewTargetingUseCase creates the usecase with the provided targeting
// provider and repository.
func NewTargetingUseCase(targeting port.TargetingProvider, repo port.CampaignRepository, logger *slog.Logger) *TargetingUseCase {
	return &TargetingUseCase{targeting: targeting, repo: repo, logger: logger, now: time.Now}
}

// Sync walks the attribution catalog. A campaign already in the dedup
// index, lacking a job number or returning zero ad-sets is skipped. One
// ad-set fetch failing never aborts the batch: the failure is logged,
// counted and the loop continues. Re-running with an unchanged dedup
// index therefore stores nothing.
func (u *TargetingUseCase) Sync(ctx context.Context) (*port.TargetingSyncResult, error) {
	runID := uuid.NewString()
	log := u.logger.With(slog.String("run_id", runID))

	targets, err := u.repo.ListCampaignTargets(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing campaign targets: %w", err)
	}
	synced, err := u.repo.SyncedCampaignIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dedup index: %w", err)
	}

	res := &port.TargetingSyncResult{RunID: runID}
	syncedAt := u.now()

	for _, target := range targets {
		if _, done := synced[target.CampaignID]; done {
			res.Skipped++
			continue
		}
		if target.JobNumber == nil {
			res.Skipped++
			continue
		}

		adsets, err := u.targeting.AdSets(ctx, target.CampaignID)
		if err != nil {
			log.Warn("adset fetch failed, continuing",
				slog.String("campaign_id", target.CampaignID),
				slog.Any("error", err))
			res.Failed++
			continue
		}
		if len(adsets) == 0 {
			res.Skipped++
			continue
		}

		stored := false
		for _, adset := range adsets {
			if adset.Targeting.IsZero() {
				continue
			}
			rec := buildTargetingRecord(*target.JobNumber, target.CampaignID, adset, syncedAt)
			if err := u.repo.UpsertTargetingRecord(ctx, rec); err != nil {
				log.Warn("targeting upsert failed, continuing",
					slog.String("campaign_id", target.CampaignID),
					slog.String("adset_id", adset.ID),
					slog.Any("error", err))
				res.Failed++
				continue
			}
			res.Stored++
			res.Records = append(res.Records, rec)
			stored = true
		}
		if !stored {
			res.Skipped++
		}
	}

	log.Info("targeting sync complete",
		slog.Int("stored", res.Stored),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed))
	return res, nil
}

// buildTargetingRecord flattens ad-set targeting into the persisted shape:
// geo locations serialized as JSON text or nil when absent, age bounds
// defaulting to 0 and genders comma-joined or nil when the ad-set targets
// everyone.
func buildTargetingRecord(jobNumber, campaignID string, adset domain.AdSet, syncedAt time.Time) domain.TargetingRecord {
	rec := domain.TargetingRecord{
		JobNumber:  jobNumber,
		CampaignID: campaignID,
		AdSetID:    adset.ID,
		AgeMin:     adset.Targeting.AgeMin,
		AgeMax:     adset.Targeting.AgeMax,
		LastSynced: syncedAt,
	}
	if len(adset.Targeting.GeoLocations) > 0 {
		geo := string(adset.Targeting.GeoLocations)
		var buf bytes.Buffer
		if err := json.Compact(&buf, adset.Targeting.GeoLocations); err == nil {
			geo = buf.String()
		}
		rec.GeoLocations = &geo
	}
	if len(adset.Targeting.Genders) > 0 {
		parts := make([]string, len(adset.Targeting.Genders))
		for i, g := range adset.Targeting.Genders {
			parts[i] = strconv.Itoa(g)
		}
		joined := strings.Join(parts, ",")
		rec.Gender = &joined
	}
	return rec
}
