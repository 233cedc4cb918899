package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
)

// Sequencer hands out monotonically increasing numbers per partition key.
type Sequencer interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

// MemorySequencer counts in process. Numbering restarts with the process.
type MemorySequencer struct {
	mu   sync.Mutex
	last map[string]int64
}

func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{last: make(map[string]int64)}
}

func (s *MemorySequencer) NextSequence(_ context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, fmt.Errorf("partition key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[partitionKey]++
	return s.last[partitionKey], nil
}

type SequenceStore interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSequencer keeps counters in the event_sequences table so they survive restarts.
type PostgresSequencer struct {
	store SequenceStore
}

func NewPostgresSequencer(store SequenceStore) *PostgresSequencer {
	return &PostgresSequencer{store: store}
}

func (s *PostgresSequencer) NextSequence(ctx context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, fmt.Errorf("partition key is required")
	}

	var seq int64
	err := s.store.QueryRow(ctx, `
		INSERT INTO event_sequences (partition_key, last_sequence)
		VALUES ($1, 1)
		ON CONFLICT (partition_key)
		DO UPDATE SET last_sequence = event_sequences.last_sequence + 1, updated_at = now()
		RETURNING last_sequence
	`, partitionKey).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
