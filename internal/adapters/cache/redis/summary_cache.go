// Package rediscache stores the account-summary projection in Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const (
	// SummaryKey holds the JSON encoded []domain.AccountSummary.
	SummaryKey = "ledger:account_summary"
	// GenerationKey is incremented on every invalidation and never expires.
	GenerationKey = "ledger:account_summary:generation"

	DefaultTTL = 5 * time.Minute
)

// SummaryCache implements portsrepo.SummaryCache on a go-redis client.
type SummaryCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ portsrepo.SummaryCache = (*SummaryCache)(nil)

// NewSummaryCache wraps an existing client. The caller owns the client and closes it.
// A non-positive ttl falls back to DefaultTTL.
func NewSummaryCache(client redis.UniversalClient, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SummaryCache{client: client, ttl: ttl}
}

// NewClient parses a redis:// URL and checks the connection.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// GetSummary returns the cached projection. A missing key is a miss, not an error.
func (c *SummaryCache) GetSummary(ctx context.Context) ([]domain.AccountSummary, bool, error) {
	raw, err := c.client.Get(ctx, SummaryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read account summary from cache: %w", err)
	}

	var summaries []domain.AccountSummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		// Callers recompute on error; the next SetSummary overwrites the bad value.
		return nil, false, fmt.Errorf("failed to decode cached account summary: %w", err)
	}
	return summaries, true, nil
}

// SummaryGeneration returns the invalidation counter; an absent key is generation 0.
func (c *SummaryCache) SummaryGeneration(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read account summary generation: %w", err)
	}
	return gen, nil
}

// SetSummary writes summaries only if no invalidation happened since generation was read.
// The check and the write run under WATCH so a concurrent InvalidateSummary aborts the write.
func (c *SummaryCache) SetSummary(ctx context.Context, generation int64, summaries []domain.AccountSummary) error {
	raw, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to encode account summary: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, GenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return portsrepo.ErrSummaryStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, SummaryKey, raw, c.ttl)
			return nil
		})
		return err
	}, GenerationKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, portsrepo.ErrSummaryStale):
		return err
	case errors.Is(err, redis.TxFailedErr):
		return portsrepo.ErrSummaryStale
	default:
		return fmt.Errorf("failed to write account summary to cache: %w", err)
	}
}

// InvalidateSummary advances the generation and drops the stored projection in one transaction.
func (c *SummaryCache) InvalidateSummary(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, SummaryKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate account summary cache: %w", err)
	}
	return nil
}
