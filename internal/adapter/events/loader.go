package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"market-pulse/internal/config/configs"
	"market-pulse/internal/core/domain"
)

// ObjectGetter is the slice of the S3 client this loader needs. The AWS
// SDK client satisfies it; tests substitute a stub.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader fetches the venue event-history CSV from S3 and decodes it into
// the canonical EventRecord shape. The decoded snapshot is memoized for
// the configured TTL because the dataset changes at most daily; a zero
// TTL disables caching and reloads per request. It implements
// port.EventSource.
type Loader struct {
	client ObjectGetter
	bucket string
	key    string
	ttl    time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	snapshot []domain.EventRecord
	loadedAt time.Time
}

// NewLoader creates a loader for the configured bucket and object key.
func NewLoader(client ObjectGetter, cfg configs.Events, logger *slog.Logger) *Loader {
	return &Loader{
		client: client,
		bucket: cfg.Bucket,
		key:    cfg.Key,
		ttl:    cfg.CacheTTL(),
		logger: logger,
	}
}

// LoadEvents returns the current dataset snapshot, fetching from S3 when
// the cache is cold or expired. The returned slice is shared: callers
// must treat it as read-only.
func (l *Loader) LoadEvents(ctx context.Context) ([]domain.EventRecord, error) {
	// the lock spans fetch and decode: concurrent callers on a cold or
	// expired cache wait for one load instead of fetching in parallel
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.snapshot != nil && l.ttl > 0 && time.Since(l.loadedAt) < l.ttl {
		return l.snapshot, nil
	}

	resp, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.key),
	})
	if err != nil {
		return nil, fmt.Errorf("S3 GetObject %s/%s: %w", l.bucket, l.key, err)
	}
	defer resp.Body.Close()

	records, skipped, err := parseEvents(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing event CSV %s/%s: %w", l.bucket, l.key, err)
	}

	l.logger.Info("event dataset loaded",
		slog.String("bucket", l.bucket),
		slog.String("key", l.key),
		slog.Int("rows", len(records)),
		slog.Int("skipped", skipped))

	l.snapshot = records
	l.loadedAt = time.Now()
	return records, nil
}
