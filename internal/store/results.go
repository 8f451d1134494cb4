package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/local/printssistant/internal/analysis"
)

// ResultStore keeps finished analysis reports for later lookup.
type ResultStore interface {
	Save(ctx context.Context, rep analysis.Report) error
	Get(ctx context.Context, id string) (analysis.Report, bool, error)
}

// RedisResults stores reports as JSON strings with a TTL.
type RedisResults struct {
	client *redis.Client
	keyNS  string
	ttl    time.Duration
}

func NewRedisResults(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisResults {
	return &RedisResults{client: client, keyNS: keyPrefix + "analysis", ttl: ttl}
}

func (s *RedisResults) key(id string) string { return fmt.Sprintf("%s:%s", s.keyNS, id) }

func (s *RedisResults) Save(ctx context.Context, rep analysis.Report) error {
	if rep.ID == "" {
		return errors.New("report has no id")
	}
	b, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return s.client.Set(ctx, s.key(rep.ID), b, s.ttl).Err()
}

func (s *RedisResults) Get(ctx context.Context, id string) (analysis.Report, bool, error) {
	b, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return analysis.Report{}, false, nil
	}
	if err != nil {
		return analysis.Report{}, false, err
	}
	var rep analysis.Report
	if err := json.Unmarshal(b, &rep); err != nil {
		return analysis.Report{}, false, fmt.Errorf("decode report %s: %w", id, err)
	}
	return rep, true, nil
}

// MemoryResults is the in-process fallback when Redis is not configured.
// Entries expire lazily on read.
type MemoryResults struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memEntry
}

type memEntry struct {
	rep     analysis.Report
	expires time.Time
}

func NewMemoryResults(ttl time.Duration) *MemoryResults {
	return &MemoryResults{ttl: ttl, now: time.Now, entries: make(map[string]memEntry)}
}

func (m *MemoryResults) Save(_ context.Context, rep analysis.Report) error {
	if rep.ID == "" {
		return errors.New("report has no id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memEntry{rep: rep}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.entries[rep.ID] = e
	return nil
}

func (m *MemoryResults) Get(_ context.Context, id string) (analysis.Report, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return analysis.Report{}, false, nil
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return analysis.Report{}, false, nil
	}
	return e.rep, true, nil
}
