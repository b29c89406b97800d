package configs

import "time"

// Events holds configuration for the historical event dataset stored as a
// CSV object in S3.
type Events struct {
	// Bucket is the S3 bucket holding the venue event export.
	Bucket string `env:"BUCKET" envDefault:"venue-event-data"`
	// Key is the object key of the CSV export.
	Key string `env:"KEY" envDefault:"all_events.csv"`
	// Region is the AWS region of the bucket.
	Region string `env:"REGION" envDefault:"us-east-2"`
	// CacheTTLMinutes controls how long a decoded snapshot is reused
	// before re-fetching. Zero reloads on every request.
	CacheTTLMinutes int `env:"CACHE_TTL_MINUTES" envDefault:"60"`
}

// CacheTTL returns the snapshot lifetime as a duration.
func (c Events) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}
