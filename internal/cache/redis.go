package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLedger keeps delivery records as plain string keys holding the issue
// ID, expiring after the configured TTL.
type RedisLedger struct {
	client *redis.Client
}

func NewRedisLedger(url string) (*RedisLedger, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisLedger{client: client}, nil
}

func (r *RedisLedger) Close() error {
	return r.client.Close()
}

func (r *RedisLedger) DeliveredIssue(ctx context.Context, key string) (string, error) {
	issueID, err := r.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read delivery record: %w", err)
	}
	return issueID, nil
}

// RecordDelivery stores issueID under key. The first record for a key wins,
// so two overlapping processes cannot overwrite each other's issue.
func (r *RedisLedger) RecordDelivery(ctx context.Context, key, issueID string, ttl time.Duration) error {
	if err := r.client.SetNX(ctx, keyPrefix+key, issueID, ttl).Err(); err != nil {
		return fmt.Errorf("write delivery record: %w", err)
	}
	return nil
}

// Clear drops every delivery record, leaving other keys in the database alone.
func (r *RedisLedger) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scan delivery records: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Unlink(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete delivery records: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
