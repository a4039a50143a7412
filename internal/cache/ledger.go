// Package cache records which newsletter issues have already been delivered.
package cache

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bilgisen/technews/internal/config"
	"github.com/bilgisen/technews/internal/logger"
	"github.com/bilgisen/technews/internal/utils"
)

// keyPrefix namespaces delivery records: newsletter:sent:{date}:{audience}.
const keyPrefix = "newsletter:sent:"

// Ledger maps a (day, audience) pair to the ID of the issue delivered to it,
// so a second run on the same day is a no-op.
type Ledger interface {
	// DeliveredIssue returns the issue ID recorded for key, or "" if none.
	DeliveredIssue(ctx context.Context, key string) (string, error)
	RecordDelivery(ctx context.Context, key, issueID string, ttl time.Duration) error
	Clear(ctx context.Context) error
	Close() error
}

// LedgerKey identifies the issue for a day and recipient list as
// "{YYYY-MM-DD}:{audience hash}". Recipient order and case do not matter.
func LedgerKey(day time.Time, recipients []string) string {
	normalized := make([]string, 0, len(recipients))
	for _, r := range recipients {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(r)))
	}
	sort.Strings(normalized)
	return day.Format("2006-01-02") + ":" + utils.HashParts(normalized...)
}

// NewLedger returns a Redis ledger when REDIS_URL is configured and an
// in-memory one otherwise. An unreachable Redis also falls back to memory.
func NewLedger(cfg *config.Config) Ledger {
	if cfg.RedisURL == "" {
		return NewMemoryLedger()
	}

	ledger, err := NewRedisLedger(cfg.RedisURL)
	if err != nil {
		logger.WithComponent("ledger").Warn().Err(err).Msg("Redis unavailable, using in-memory delivery ledger")
		return NewMemoryLedger()
	}
	return ledger
}
