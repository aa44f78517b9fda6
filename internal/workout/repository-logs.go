package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// sqliteLogRepository stores completed workout logs. History is append-only;
// logs are never updated or deleted once written.
type sqliteLogRepository struct {
	baseRepository
}

// Append writes a completed log with its exercises and sets in one
// transaction.
func (r *sqliteLogRepository) Append(ctx context.Context, log Log) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rollbackErr))
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO workout_logs (
			log_id, template_id, name, type, started_at, completed_at,
			total_volume, total_sets, total_reps, duration_minutes, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID,
		log.TemplateID,
		log.Name,
		log.Type,
		formatTimestamp(log.StartedAt),
		formatNullableTimestamp(log.CompletedAt),
		log.TotalVolume,
		log.TotalSets,
		log.TotalReps,
		log.DurationMinutes,
		log.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert workout log: %w", err)
	}

	for order, exercise := range log.Exercises {
		var result sql.Result
		result, err = tx.ExecContext(ctx, `
			INSERT INTO logged_exercises (
				log_id, exercise_id, name, body_part, target, equipment, exercise_order
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			log.ID,
			exercise.ExerciseID,
			exercise.Name,
			exercise.BodyPart,
			exercise.Target,
			exercise.Equipment,
			order,
		)
		if err != nil {
			return fmt.Errorf("insert logged exercise: %w", err)
		}

		var loggedExerciseID int64
		if loggedExerciseID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("logged exercise id: %w", err)
		}

		for _, set := range exercise.Sets {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO sets (
					logged_exercise_id, set_number, weight, reps, completed, rpe, notes
				) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				loggedExerciseID,
				set.Number,
				set.Weight,
				set.Reps,
				set.Completed,
				set.RPE,
				set.Notes,
			)
			if err != nil {
				return fmt.Errorf("insert set: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// List retrieves history newest-first, at most limit entries. A limit of
// zero or less returns everything.
func (r *sqliteLogRepository) List(ctx context.Context, limit int) (_ []Log, err error) {
	query := `
		SELECT log_id, template_id, name, type, started_at, completed_at,
		       total_volume, total_sets, total_reps, duration_minutes, notes
		FROM workout_logs
		ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += `
		LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.ReadOnly.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query workout logs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var logs []Log
	for rows.Next() {
		var (
			log            Log
			startedAtStr   string
			completedAtStr sql.NullString
			totalVolume    sql.NullFloat64
		)
		if err = rows.Scan(
			&log.ID,
			&log.TemplateID,
			&log.Name,
			&log.Type,
			&startedAtStr,
			&completedAtStr,
			&totalVolume,
			&log.TotalSets,
			&log.TotalReps,
			&log.DurationMinutes,
			&log.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan workout log: %w", err)
		}
		if log.StartedAt, err = parseTimestamp(startedAtStr); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if log.CompletedAt, err = parseNullableTimestamp(completedAtStr); err != nil {
			return nil, fmt.Errorf("parse completed_at: %w", err)
		}
		log.TotalVolume = totalVolume.Float64
		logs = append(logs, log)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range logs {
		if logs[i].Exercises, err = r.loadExercises(ctx, logs[i].ID); err != nil {
			return nil, fmt.Errorf("load exercises for log %s: %w", logs[i].ID, err)
		}
	}

	return logs, nil
}

func (r *sqliteLogRepository) loadExercises(ctx context.Context, logID string) (_ []LoggedExercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT le.id, le.exercise_id, le.name, le.body_part, le.target, le.equipment,
		       s.set_number, s.weight, s.reps, s.completed, s.rpe, s.notes
		FROM logged_exercises le
		LEFT JOIN sets s ON s.logged_exercise_id = le.id
		WHERE le.log_id = ?
		ORDER BY le.exercise_order, s.set_number`, logID)
	if err != nil {
		return nil, fmt.Errorf("query logged exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var (
		exercises []LoggedExercise
		currentID int64 = -1
	)
	for rows.Next() {
		var (
			rowID     int64
			exercise  LoggedExercise
			setNumber sql.NullInt64
			set       SetEntry
			completed sql.NullBool
		)
		if err = rows.Scan(
			&rowID,
			&exercise.ExerciseID,
			&exercise.Name,
			&exercise.BodyPart,
			&exercise.Target,
			&exercise.Equipment,
			&setNumber,
			&set.Weight,
			&set.Reps,
			&completed,
			&set.RPE,
			&set.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan logged exercise: %w", err)
		}

		if rowID != currentID {
			exercise.Sets = []SetEntry{}
			exercises = append(exercises, exercise)
			currentID = rowID
		}

		// Exercises without sets produce a NULL set row from the join.
		if setNumber.Valid {
			set.Number = int(setNumber.Int64)
			set.Completed = completed.Bool
			last := &exercises[len(exercises)-1]
			last.Sets = append(last.Sets, set)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return exercises, nil
}
