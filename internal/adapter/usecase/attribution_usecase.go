package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"market-pulse/internal/core/domain"
	"market-pulse/internal/core/port"
)

// AttributionUseCase joins platform campaign insights to the job catalog
// and persists one attribution row per campaign. It implements
// port.AttributionUseCase.
type AttributionUseCase struct {
	insights port.InsightsProvider
	repo     port.CampaignRepository
	logger   *slog.Logger

	now func() time.Time
}

// NewAttributionUseCase creates the usecase with the provided insights
// provider and repository.
func NewAttributionUseCase(insights port.InsightsProvider, repo port.CampaignRepository, logger *slog.Logger) *AttributionUseCase {
	return &AttributionUseCase{insights: insights, repo: repo, logger: logger, now: time.Now}
}

// Attribute runs the pure join of campaigns against a job catalog
// snapshot. Records missing a name or id are skipped. The catalog is
// indexed once and the first occurrence of a job number wins. No side
// effects.
func Attribute(campaigns []domain.CampaignInsight, catalog []domain.Job) port.AttributionResult {
	byNumber := make(map[string]domain.Job, len(catalog))
	for _, job := range catalog {
		if _, ok := byNumber[job.Number]; !ok {
			byNumber[job.Number] = job
		}
	}

	var res port.AttributionResult
	for _, c := range campaigns {
		if c.CampaignID == "" || c.CampaignName == "" {
			continue
		}
		res.Total++

		row := domain.AttributedCampaign{
			CampaignID:   c.CampaignID,
			CampaignName: c.CampaignName,
		}
		if number, ok := domain.ExtractJobNumber(c.CampaignName); ok {
			row.JobNumber = &number
			if job, ok := byNumber[number]; ok {
				city, state := job.City, job.State
				row.City = &city
				row.State = &state
			}
		}
		if row.City != nil {
			res.Matched++
		} else {
			res.Unmatched++
		}
		res.Attributed = append(res.Attributed, row)
	}
	return res
}

// Sync fetches campaign insights for the window, attributes them and
// upserts every touched row, including rows with no job number, so later
// runs can re-attribute once the catalog grows. A nil catalog falls back
// to the distinct jobs already known to the store.
func (u *AttributionUseCase) Sync(ctx context.Context, catalog []domain.Job, since, until time.Time) (*port.AttributionResult, error) {
	runID := uuid.NewString()
	log := u.logger.With(slog.String("run_id", runID))

	if until.IsZero() {
		until = u.now()
	}
	if since.IsZero() {
		since = time.Date(until.Year(), time.January, 1, 0, 0, 0, 0, until.Location())
	}

	if len(catalog) == 0 {
		var err error
		catalog, err = u.repo.DistinctJobs(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading job catalog: %w", err)
		}
		log.Info("using stored job catalog", slog.Int("jobs", len(catalog)))
	}

	campaigns, err := u.insights.CampaignInsights(ctx, since, until)
	if err != nil {
		return nil, fmt.Errorf("fetching campaign insights: %w", err)
	}

	res := Attribute(campaigns, catalog)
	res.RunID = runID

	for _, row := range res.Attributed {
		if err := u.repo.UpsertCampaignTarget(ctx, row); err != nil {
			return nil, fmt.Errorf("upserting campaign %s: %w", row.CampaignID, err)
		}
	}

	log.Info("attribution run complete",
		slog.Int("total", res.Total),
		slog.Int("matched", res.Matched),
		slog.Int("unmatched", res.Unmatched))
	return &res, nil
}

// ListCampaigns returns the persisted attribution rows.
func (u *AttributionUseCase) ListCampaigns(ctx context.Context) ([]domain.AttributedCampaign, error) {
	return u.repo.ListCampaignTargets(ctx)
}
