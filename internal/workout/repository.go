package workout

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/liftline/liftline/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

// baseRepository carries the database handles shared by all repositories.
type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newBaseRepository(db *sqlite.Database, logger *slog.Logger) baseRepository {
	return baseRepository{db: db, logger: logger}
}

// repository groups the per-aggregate repositories.
type repository struct {
	baseRepository
	profile   *sqliteProfileRepository
	templates *sqliteTemplateRepository
	active    *sqliteActiveRepository
	logs      *sqliteLogRepository
}

func newRepository(db *sqlite.Database, logger *slog.Logger) *repository {
	base := newBaseRepository(db, logger)
	return &repository{
		baseRepository: base,
		profile:        &sqliteProfileRepository{baseRepository: base},
		templates:      &sqliteTemplateRepository{baseRepository: base},
		active:         &sqliteActiveRepository{baseRepository: base},
		logs:           &sqliteLogRepository{baseRepository: base},
	}
}

// clearAll wipes every workout table. Used by the re-onboarding flow.
func (r *repository) clearAll(ctx context.Context) error {
	statements := []string{
		"DELETE FROM sets",
		"DELETE FROM logged_exercises",
		"DELETE FROM workout_logs",
		"DELETE FROM active_workout",
		"DELETE FROM template_exercises",
		"DELETE FROM workout_templates",
		"DELETE FROM user_profile",
	}
	for _, statement := range statements {
		if _, err := r.db.ReadWrite.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("clear table: %w", err)
		}
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

func formatNullableTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTimestamp(*t)
}

func parseTimestamp(timestampStr string) (time.Time, error) {
	t, err := time.Parse(timestampFormat, timestampStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", timestampStr, err)
	}
	return t, nil
}

func parseNullableTimestamp(timestampStr sql.NullString) (*time.Time, error) {
	if !timestampStr.Valid {
		return nil, nil //nolint:nilnil // NULL timestamp maps to a nil pointer.
	}
	t, err := parseTimestamp(timestampStr.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// encodeStrings serializes a string slice for a TEXT column.
func encodeStrings(values []string) (string, error) {
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal string list: %w", err)
	}
	return string(encoded), nil
}

func decodeStrings(encoded string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return nil, fmt.Errorf("unmarshal string list: %w", err)
	}
	return values, nil
}
