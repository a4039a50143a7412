package cache

import (
	"context"
	"sync"
	"time"
)

type memoryRecord struct {
	issueID string
	expires time.Time
}

// MemoryLedger is a process-local ledger used when Redis is not configured.
// It forgets everything when the process exits.
type MemoryLedger struct {
	mu      sync.Mutex
	records map[string]memoryRecord
	now     func() time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		records: make(map[string]memoryRecord),
		now:     time.Now,
	}
}

func (m *MemoryLedger) Close() error {
	return nil
}

func (m *MemoryLedger) DeliveredIssue(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[key]
	if !ok {
		return "", nil
	}
	if !rec.expires.IsZero() && !m.now().Before(rec.expires) {
		delete(m.records, key)
		return "", nil
	}
	return rec.issueID, nil
}

// RecordDelivery stores issueID under key unless a live record exists. A
// non-positive ttl never expires.
func (m *MemoryLedger) RecordDelivery(ctx context.Context, key, issueID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if rec, ok := m.records[key]; ok && (rec.expires.IsZero() || now.Before(rec.expires)) {
		return nil
	}

	rec := memoryRecord{issueID: issueID}
	if ttl > 0 {
		rec.expires = now.Add(ttl)
	}
	m.records[key] = rec
	return nil
}

func (m *MemoryLedger) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make(map[string]memoryRecord)
	return nil
}
