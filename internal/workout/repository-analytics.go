package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PersonalRecord returns the heaviest completed set for an exercise,
// matching the name exactly. Ties on weight go to the highest rep count.
func (r *sqliteLogRepository) PersonalRecord(ctx context.Context, exerciseName string) (PersonalRecord, error) {
	var record PersonalRecord
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT s.weight, s.reps
		FROM sets s
		JOIN logged_exercises le ON s.logged_exercise_id = le.id
		WHERE le.name = ?
		  AND s.completed = 1
		  AND s.weight IS NOT NULL
		  AND s.reps IS NOT NULL
		ORDER BY s.weight DESC, s.reps DESC
		LIMIT 1`, exerciseName).Scan(&record.Weight, &record.Reps)
	if errors.Is(err, sql.ErrNoRows) {
		return PersonalRecord{}, ErrNotFound
	}
	if err != nil {
		return PersonalRecord{}, fmt.Errorf("query personal record: %w", err)
	}
	record.ExerciseName = exerciseName
	return record, nil
}

// VolumeTrend returns per-workout volume for an exercise over a trailing
// window of days, oldest first. Only completed sets count.
func (r *sqliteLogRepository) VolumeTrend(ctx context.Context, exerciseName string, windowDays int) (_ []VolumePoint, err error) {
	cutoff := time.Now().AddDate(0, 0, -windowDays)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT wl.completed_at, SUM(s.weight * s.reps) AS volume
		FROM sets s
		JOIN logged_exercises le ON s.logged_exercise_id = le.id
		JOIN workout_logs wl ON le.log_id = wl.log_id
		WHERE le.name = ?
		  AND s.completed = 1
		  AND wl.completed_at >= ?
		GROUP BY wl.completed_at
		ORDER BY wl.completed_at ASC`,
		exerciseName, formatTimestamp(cutoff))
	if err != nil {
		return nil, fmt.Errorf("query volume trend: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var points []VolumePoint
	for rows.Next() {
		var (
			point          VolumePoint
			completedAtStr string
			volume         sql.NullFloat64
		)
		if err = rows.Scan(&completedAtStr, &volume); err != nil {
			return nil, fmt.Errorf("scan volume point: %w", err)
		}
		if point.CompletedAt, err = parseTimestamp(completedAtStr); err != nil {
			return nil, fmt.Errorf("parse completed_at: %w", err)
		}
		point.Volume = volume.Float64
		points = append(points, point)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return points, nil
}

// LastPerformed returns when the exercise was most recently part of a
// completed workout, or ErrNotFound.
func (r *sqliteLogRepository) LastPerformed(ctx context.Context, exerciseName string) (time.Time, error) {
	var completedAtStr string
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT wl.completed_at
		FROM workout_logs wl
		JOIN logged_exercises le ON le.log_id = wl.log_id
		WHERE le.name = ?
		  AND wl.completed_at IS NOT NULL
		ORDER BY wl.completed_at DESC
		LIMIT 1`, exerciseName).Scan(&completedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query last performed: %w", err)
	}

	completedAt, err := parseTimestamp(completedAtStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse completed_at: %w", err)
	}
	return completedAt, nil
}
