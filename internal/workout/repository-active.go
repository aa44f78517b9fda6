package workout

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// sqliteActiveRepository stores the single in-progress workout as a JSON
// snapshot. Saving replaces any previous snapshot.
type sqliteActiveRepository struct {
	baseRepository
}

// Get retrieves the active snapshot or ErrNoActiveWorkout.
func (r *sqliteActiveRepository) Get(ctx context.Context) (ActiveSnapshot, error) {
	var workoutData string
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT workout_data
		FROM active_workout
		ORDER BY id DESC
		LIMIT 1`).Scan(&workoutData)
	if errors.Is(err, sql.ErrNoRows) {
		return ActiveSnapshot{}, ErrNoActiveWorkout
	}
	if err != nil {
		return ActiveSnapshot{}, fmt.Errorf("query active workout: %w", err)
	}

	var snapshot ActiveSnapshot
	if err := json.Unmarshal([]byte(workoutData), &snapshot); err != nil {
		return ActiveSnapshot{}, fmt.Errorf("unmarshal active workout: %w", err)
	}
	return snapshot, nil
}

// SaveActiveWorkout persists the snapshot, replacing any previous one.
func (r *sqliteActiveRepository) SaveActiveWorkout(ctx context.Context, snapshot ActiveSnapshot) (err error) {
	workoutData, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal active workout: %w", err)
	}

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rollbackErr))
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM active_workout`); err != nil {
		return fmt.Errorf("delete previous snapshot: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO active_workout (workout_data, last_updated)
		VALUES (?, ?)`,
		string(workoutData),
		formatTimestamp(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Clear removes the active snapshot. Clearing an empty slot is a no-op.
func (r *sqliteActiveRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM active_workout`); err != nil {
		return fmt.Errorf("clear active workout: %w", err)
	}
	return nil
}
