package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"market-pulse/internal/core/domain"
)

// CampaignRepository implements port.CampaignRepository using pgxpool for
// PostgreSQL. Every upsert is a single atomic statement; sync runs issue
// them independently rather than inside one transaction, so interrupted
// runs leave valid partial state.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a new repository instance.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

// UpsertCampaignTarget inserts or wholly replaces an attribution row.
func (r *CampaignRepository) UpsertCampaignTarget(ctx context.Context, c domain.AttributedCampaign) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO campaign_targets (campaign_id, campaign_name, job_number, city, state)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (campaign_id) DO UPDATE SET
            campaign_name = EXCLUDED.campaign_name,
            job_number = EXCLUDED.job_number,
            city = EXCLUDED.city,
            state = EXCLUDED.state`,
		c.CampaignID, c.CampaignName, c.JobNumber, c.City, c.State)
	return err
}

// ListCampaignTargets returns every persisted attribution row.
func (r *CampaignRepository) ListCampaignTargets(ctx context.Context) ([]domain.AttributedCampaign, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT campaign_id, campaign_name, job_number, city, state
        FROM campaign_targets
        ORDER BY campaign_id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AttributedCampaign, error) {
		var c domain.AttributedCampaign
		err := row.Scan(&c.CampaignID, &c.CampaignName, &c.JobNumber, &c.City, &c.State)
		return c, err
	})
}

// DistinctJobs returns the distinct job triples already attributed,
// usable as a catalog snapshot when the caller supplies none.
func (r *CampaignRepository) DistinctJobs(ctx context.Context) ([]domain.Job, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT DISTINCT job_number, city, state
        FROM campaign_targets
        WHERE job_number IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Job, error) {
		var (
			j           domain.Job
			city, state *string
		)
		err := row.Scan(&j.Number, &city, &state)
		if city != nil {
			j.City = *city
		}
		if state != nil {
			j.State = *state
		}
		return j, err
	})
}

// UpsertTargetingRecord inserts or wholly replaces a targeting row.
func (r *CampaignRepository) UpsertTargetingRecord(ctx context.Context, rec domain.TargetingRecord) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO targeting_data (job_number, campaign_id, adset_id, geo_locations, age_min, age_max, gender, last_synced)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (job_number) DO UPDATE SET
            campaign_id = EXCLUDED.campaign_id,
            adset_id = EXCLUDED.adset_id,
            geo_locations = EXCLUDED.geo_locations,
            age_min = EXCLUDED.age_min,
            age_max = EXCLUDED.age_max,
            gender = EXCLUDED.gender,
            last_synced = EXCLUDED.last_synced`,
		rec.JobNumber, rec.CampaignID, rec.AdSetID, rec.GeoLocations,
		rec.AgeMin, rec.AgeMax, rec.Gender, rec.LastSynced)
	return err
}

// SyncedCampaignIDs returns the dedup index of campaign ids that already
// have targeting rows.
func (r *CampaignRepository) SyncedCampaignIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT campaign_id FROM targeting_data`)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, err
	}
	index := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		index[id] = struct{}{}
	}
	return index, nil
}
