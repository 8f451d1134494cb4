package preflight

import (
	"context"
	"sync"
)

// Sequencer hands out increasing request numbers per session so a late
// answer to an older request can be recognised and dropped.
type Sequencer interface {
	Next(ctx context.Context, session string) (int64, error)
	Latest(ctx context.Context, session string) (int64, error)
}

// IsCurrent reports whether seq is still the newest request for session.
func IsCurrent(ctx context.Context, s Sequencer, session string, seq int64) (bool, error) {
	latest, err := s.Latest(ctx, session)
	if err != nil {
		return false, err
	}
	return seq >= latest, nil
}

// MemorySequencer is an in-process Sequencer for single-instance runs.
type MemorySequencer struct {
	mu   sync.Mutex
	last map[string]int64
}

func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{last: make(map[string]int64)}
}

func (m *MemorySequencer) Next(_ context.Context, session string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[session]++
	return m.last[session], nil
}

func (m *MemorySequencer) Latest(_ context.Context, session string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last[session], nil
}
