package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/seo-scanner/internal/entity"
	"github.com/user/seo-scanner/internal/repository"
)

const (
	reportKeyPrefix = "report:"
	maxSetAttempts  = 5
)

// ReportCacheImpl provides a concrete implementation for the ReportCache interface using Redis strings.
type ReportCacheImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a cache whose entries expire after ttl.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCacheImpl {
	return &ReportCacheImpl{client: client, ttl: ttl}
}

func (c *ReportCacheImpl) generateKey(domain string) string {
	return fmt.Sprintf("%s%s", reportKeyPrefix, domain)
}

func (c *ReportCacheImpl) Get(ctx context.Context, domain string) (*entity.DomainReport, error) {
	data, err := c.client.Get(ctx, c.generateKey(domain)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read cached report: %w", err)
	}

	var report entity.DomainReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	return &report, nil
}

// Set stores report unless the cached copy was scanned later. The compare
// and write run under WATCH, so overlapping writers cannot put an older row
// back over a newer one.
func (c *ReportCacheImpl) Set(ctx context.Context, report *entity.DomainReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	key := c.generateKey(report.Domain)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil && cachedIsNewer(current, report) {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxSetAttempts; i++ {
		err := c.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("write cached report: %w", err)
		}
		return nil
	}
	return fmt.Errorf("write cached report for %s: too many concurrent writers", report.Domain)
}

func cachedIsNewer(cached []byte, report *entity.DomainReport) bool {
	var existing struct {
		LastScannedAt *time.Time `json:"lastScannedAt"`
	}
	if err := json.Unmarshal(cached, &existing); err != nil {
		return false
	}
	if existing.LastScannedAt == nil || report.LastScannedAt == nil {
		return false
	}
	return existing.LastScannedAt.After(*report.LastScannedAt)
}

func (c *ReportCacheImpl) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
