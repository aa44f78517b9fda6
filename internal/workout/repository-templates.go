package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// sqliteTemplateRepository stores the current workout plan.
type sqliteTemplateRepository struct {
	baseRepository
}

// List retrieves all templates with their exercises in prescription order.
func (r *sqliteTemplateRepository) List(ctx context.Context) (_ []Template, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT template_id, name, type, estimated_duration, created_at
		FROM workout_templates
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var templates []Template
	for rows.Next() {
		var (
			template     Template
			createdAtStr string
		)
		if err = rows.Scan(
			&template.ID,
			&template.Name,
			&template.Type,
			&template.EstimatedDuration,
			&createdAtStr,
		); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		if template.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		templates = append(templates, template)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range templates {
		if templates[i].Exercises, err = r.loadExercises(ctx, templates[i].ID); err != nil {
			return nil, fmt.Errorf("load exercises for template %s: %w", templates[i].ID, err)
		}
	}

	return templates, nil
}

// Get retrieves a single template by ID.
func (r *sqliteTemplateRepository) Get(ctx context.Context, templateID string) (Template, error) {
	var (
		template     Template
		createdAtStr string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT template_id, name, type, estimated_duration, created_at
		FROM workout_templates
		WHERE template_id = ?`, templateID).Scan(
		&template.ID,
		&template.Name,
		&template.Type,
		&template.EstimatedDuration,
		&createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, ErrNotFound
	}
	if err != nil {
		return Template{}, fmt.Errorf("query template: %w", err)
	}
	if template.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return Template{}, fmt.Errorf("parse created_at: %w", err)
	}
	if template.Exercises, err = r.loadExercises(ctx, template.ID); err != nil {
		return Template{}, fmt.Errorf("load exercises: %w", err)
	}
	return template, nil
}

// Replace swaps the full plan for a new one in a single transaction.
func (r *sqliteTemplateRepository) Replace(ctx context.Context, templates []Template) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rollbackErr))
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM template_exercises`); err != nil {
		return fmt.Errorf("delete template exercises: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM workout_templates`); err != nil {
		return fmt.Errorf("delete templates: %w", err)
	}

	for _, template := range templates {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO workout_templates (template_id, name, type, estimated_duration, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			template.ID,
			template.Name,
			template.Type,
			template.EstimatedDuration,
			formatTimestamp(template.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert template: %w", err)
		}

		for order, exercise := range template.Exercises {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO template_exercises (
					template_id, exercise_id, name, body_part, target, equipment,
					gif_url, sets, target_reps, rest_time, notes, exercise_order
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				template.ID,
				exercise.ExerciseID,
				exercise.Name,
				exercise.BodyPart,
				exercise.Target,
				exercise.Equipment,
				exercise.GifURL,
				exercise.Sets,
				exercise.TargetReps,
				exercise.RestSeconds,
				exercise.Notes,
				order,
			)
			if err != nil {
				return fmt.Errorf("insert template exercise: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	r.logger.LogAttrs(ctx, slog.LevelInfo, "plan replaced",
		slog.Int("templates", len(templates)))

	return nil
}

func (r *sqliteTemplateRepository) loadExercises(ctx context.Context, templateID string) (_ []TemplateExercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT exercise_id, name, body_part, target, equipment, gif_url,
		       sets, target_reps, rest_time, notes
		FROM template_exercises
		WHERE template_id = ?
		ORDER BY exercise_order`, templateID)
	if err != nil {
		return nil, fmt.Errorf("query template exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []TemplateExercise
	for rows.Next() {
		var exercise TemplateExercise
		if err = rows.Scan(
			&exercise.ExerciseID,
			&exercise.Name,
			&exercise.BodyPart,
			&exercise.Target,
			&exercise.Equipment,
			&exercise.GifURL,
			&exercise.Sets,
			&exercise.TargetReps,
			&exercise.RestSeconds,
			&exercise.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan template exercise: %w", err)
		}
		exercises = append(exercises, exercise)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return exercises, nil
}
