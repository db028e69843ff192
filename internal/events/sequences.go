package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SequenceRepository numbers events within a partition. The number is only
// kept when emit succeeds; a failed emit rolls it back and the next event gets
// it again. The partition row stays locked while emit runs.
type SequenceRepository interface {
	WithNextSequence(ctx context.Context, partitionKey string, emit func(seq int64) error) error
}

const bumpSequenceSQL = `INSERT INTO event_sequences (partition_key, last_sequence, updated_at)
         VALUES ($1, 1, NOW())
         ON CONFLICT (partition_key) DO UPDATE
         SET last_sequence = event_sequences.last_sequence + 1, updated_at = NOW()
         RETURNING last_sequence`

type sequenceRepository struct {
	db *sql.DB
}

func NewSequenceRepository(db *sql.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

// WithNextSequence bumps the partition counter, hands the new value to emit
// and commits only if emit returns nil. If the commit itself fails after a
// successful emit, the number is handed out again.
func (r *sequenceRepository) WithNextSequence(ctx context.Context, partitionKey string, emit func(seq int64) error) error {
	if partitionKey == "" {
		return errors.New("partition key is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, bumpSequenceSQL, partitionKey).Scan(&seq); err != nil {
		return fmt.Errorf("bump sequence of %s: %w", partitionKey, err)
	}

	if err := emit(seq); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sequence %d of %s: %w", seq, partitionKey, err)
	}
	return nil
}
