package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo attribution and targeting rows so the API is
// exercisable against an empty database.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	type demo struct {
		campaignID string
		name       string
		jobNumber  string
		city       string
		state      string
	}
	demos := []demo{
		{"demo-c1", "TIR Austin TX 03.01 5 50 60 118770 $45", "118770", "Austin", "TX"},
		{"demo-c2", "EP Boston MA 04.12 5 55 70 120455 $52", "120455", "Boston", "MA"},
		{"demo-c3", "SS Denver CO 05.20 5 60 75 121302 $48", "121302", "Denver", "CO"},
	}

	for _, d := range demos {
		_, err := db.Exec(ctx, `INSERT INTO campaign_targets
    (campaign_id, campaign_name, job_number, city, state)
VALUES ($1,$2,$3,$4,$5) ON CONFLICT DO NOTHING`,
			d.campaignID, d.name, d.jobNumber, d.city, d.state)
		if err != nil {
			return err
		}
	}

	// one targeting row so the dedup index is non-empty
	geo := `{"custom_locations":[{"latitude":30.2672,"longitude":-97.7431,"radius":25,"distance_unit":"mile"}]}`
	_, err := db.Exec(ctx, `INSERT INTO targeting_data
    (job_number, campaign_id, adset_id, geo_locations, age_min, age_max, gender, last_synced)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8) ON CONFLICT DO NOTHING`,
		"118770", "demo-c1", "demo-a1", geo, 55, 75, nil, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("seeding targeting_data: %w", err)
	}
	return nil
}
