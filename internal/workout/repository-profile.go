package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// sqliteProfileRepository stores the single current user profile.
type sqliteProfileRepository struct {
	baseRepository
}

// Get retrieves the current profile or ErrNotFound before onboarding.
func (r *sqliteProfileRepository) Get(ctx context.Context) (Profile, error) {
	var (
		profile      Profile
		goalsJSON    string
		equipJSON     string
		createdAtStr string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT user_id, fitness_goals, experience_level, available_equipment,
		       workout_frequency, preferred_split, rest_timer_default,
		       weight_unit, created_at
		FROM user_profile
		LIMIT 1`).Scan(
		&profile.UserID,
		&goalsJSON,
		&profile.Experience,
		&equipJSON,
		&profile.WorkoutFrequency,
		&profile.PreferredSplit,
		&profile.RestTimerDefault,
		&profile.WeightUnit,
		&createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("query user profile: %w", err)
	}

	if profile.FitnessGoals, err = decodeStrings(goalsJSON); err != nil {
		return Profile{}, fmt.Errorf("decode fitness goals: %w", err)
	}
	if profile.Equipment, err = decodeStrings(equipJSON); err != nil {
		return Profile{}, fmt.Errorf("decode equipment: %w", err)
	}
	if profile.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return Profile{}, fmt.Errorf("parse created_at: %w", err)
	}

	return profile, nil
}

// Set replaces the current profile wholesale.
func (r *sqliteProfileRepository) Set(ctx context.Context, profile Profile) (err error) {
	goalsJSON, err := encodeStrings(profile.FitnessGoals)
	if err != nil {
		return fmt.Errorf("encode fitness goals: %w", err)
	}
	equipJSON, err := encodeStrings(profile.Equipment)
	if err != nil {
		return fmt.Errorf("encode equipment: %w", err)
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

	if _, err = tx.ExecContext(ctx, `DELETE FROM user_profile`); err != nil {
		return fmt.Errorf("delete previous profile: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_profile (
			user_id, fitness_goals, experience_level, available_equipment,
			workout_frequency, preferred_split, rest_timer_default,
			weight_unit, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.UserID,
		goalsJSON,
		profile.Experience,
		equipJSON,
		profile.WorkoutFrequency,
		profile.PreferredSplit,
		profile.RestTimerDefault,
		profile.WeightUnit,
		formatTimestamp(profile.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	r.logger.LogAttrs(ctx, slog.LevelInfo, "profile saved",
		slog.String("userID", profile.UserID),
		slog.String("split", profile.PreferredSplit))

	return nil
}
