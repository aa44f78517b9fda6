package workout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/liftline/liftline/internal/catalog"
	"github.com/liftline/liftline/internal/sqlite"
)

// CatalogProvider supplies the exercise pool for plan generation.
type CatalogProvider interface {
	FetchAll(ctx context.Context) ([]catalog.Exercise, error)
}

// Service handles the business logic for training plans, workout sessions,
// and history.
type Service struct {
	repo     *repository
	provider CatalogProvider
	logger   *slog.Logger
	rng      *rand.Rand
	now      func() time.Time

	mu        sync.Mutex
	engine    *Engine
	cancelRun context.CancelFunc
}

// NewService creates a new workout service.
func NewService(db *sqlite.Database, provider CatalogProvider, logger *slog.Logger) *Service {
	return &Service{
		repo:     newRepository(db, logger),
		provider: provider,
		logger:   logger,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:      time.Now,
	}
}

// Profile retrieves the current user profile.
func (s *Service) Profile(ctx context.Context) (Profile, error) {
	profile, err := s.repo.profile.Get(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// CompleteOnboarding saves the profile and generates a fresh plan from it.
func (s *Service) CompleteOnboarding(ctx context.Context, profile Profile) ([]Template, error) {
	if profile.UserID == "" {
		profile.UserID = uuid.NewString()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = s.now()
	}

	if err := s.repo.profile.Set(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	templates, err := s.RegeneratePlan(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	return templates, nil
}

// RegeneratePlan rebuilds the workout plan from the current profile and the
// exercise catalog, replacing any previous plan.
func (s *Service) RegeneratePlan(ctx context.Context) ([]Template, error) {
	profile, err := s.repo.profile.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	pool, err := s.provider.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch exercise catalog: %w", err)
	}

	templates := newGenerator(s.rng).Generate(profile, pool)
	if len(templates) == 0 {
		return nil, ErrNoTemplates
	}

	if err := s.repo.templates.Replace(ctx, templates); err != nil {
		return nil, fmt.Errorf("replace plan: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "plan regenerated",
		slog.String("split", profile.PreferredSplit),
		slog.Int("templates", len(templates)))

	return templates, nil
}

// Templates retrieves the current workout plan.
func (s *Service) Templates(ctx context.Context) ([]Template, error) {
	templates, err := s.repo.templates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// Exercises retrieves the catalog narrowed by the criteria.
func (s *Service) Exercises(ctx context.Context, criteria catalog.Criteria) ([]catalog.Exercise, error) {
	pool, err := s.provider.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch exercise catalog: %w", err)
	}
	return catalog.Filter(pool, criteria), nil
}

// StartWorkout begins a session from a template. Any session already in
// progress is discarded; its snapshot is superseded by the new one.
func (s *Service) StartWorkout(ctx context.Context, templateID string) (Log, error) {
	template, err := s.repo.templates.Get(ctx, templateID)
	if err != nil {
		return Log{}, fmt.Errorf("get template %s: %w", templateID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopEngineLocked()

	engine := NewEngine(s.repo.active, s.logger)
	log := engine.Begin(template)

	if err := engine.Snapshot(ctx); err != nil {
		return Log{}, fmt.Errorf("persist initial snapshot: %w", err)
	}

	s.startEngineLocked(engine)
	return log, nil
}

// ResumeWorkout re-enters the persisted in-progress session, for example
// after a restart. With a session already running it returns that session.
func (s *Service) ResumeWorkout(ctx context.Context) (Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine != nil {
		if log, err := s.engine.Active(); err == nil {
			return log, nil
		}
	}

	snapshot, err := s.repo.active.Get(ctx)
	if err != nil {
		return Log{}, fmt.Errorf("get active workout: %w", err)
	}

	engine := NewEngine(s.repo.active, s.logger)
	log := engine.Resume(snapshot)
	s.startEngineLocked(engine)
	return log, nil
}

// ActiveWorkout returns the in-progress workout with its elapsed-seconds
// counter, preferring the live session over the persisted snapshot.
func (s *Service) ActiveWorkout(ctx context.Context) (ActiveSnapshot, error) {
	s.mu.Lock()
	engine := s.engine
	s.mu.Unlock()

	if engine != nil {
		if log, err := engine.Active(); err == nil {
			return ActiveSnapshot{Log: log, ElapsedSeconds: engine.Elapsed()}, nil
		}
	}

	snapshot, err := s.repo.active.Get(ctx)
	if err != nil {
		return ActiveSnapshot{}, fmt.Errorf("get active workout: %w", err)
	}
	return snapshot, nil
}

// UpdateActiveSet writes one field of a set in the running session.
func (s *Service) UpdateActiveSet(ctx context.Context, exerciseIndex, setIndex int, update SetUpdate) error {
	engine, err := s.activeEngine()
	if err != nil {
		return err
	}
	if err := engine.UpdateSet(exerciseIndex, setIndex, update); err != nil {
		return fmt.Errorf("update set: %w", err)
	}
	return nil
}

// ToggleActiveSet flips the completion flag of a set in the running session.
func (s *Service) ToggleActiveSet(ctx context.Context, exerciseIndex, setIndex int) error {
	engine, err := s.activeEngine()
	if err != nil {
		return err
	}
	if err := engine.ToggleSet(exerciseIndex, setIndex); err != nil {
		return fmt.Errorf("toggle set: %w", err)
	}
	return nil
}

// SnapshotActive persists the running session immediately.
func (s *Service) SnapshotActive(ctx context.Context) error {
	engine, err := s.activeEngine()
	if err != nil {
		return err
	}
	if err := engine.Snapshot(ctx); err != nil {
		return fmt.Errorf("snapshot session: %w", err)
	}
	return nil
}

// FinishWorkout completes the running session, appends it to history, and
// clears the active slot.
func (s *Service) FinishWorkout(ctx context.Context) (Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return Log{}, ErrNoActiveWorkout
	}

	log, err := s.engine.Finalize()
	if err != nil {
		return Log{}, fmt.Errorf("finalize session: %w", err)
	}

	// The session stays active until the log is safely in history, so a
	// failed append can be retried.
	if err := s.repo.logs.Append(ctx, log); err != nil {
		return Log{}, fmt.Errorf("append to history: %w", err)
	}
	if err := s.engine.Complete(); err != nil {
		return Log{}, fmt.Errorf("complete session: %w", err)
	}
	if err := s.repo.active.Clear(ctx); err != nil {
		return Log{}, fmt.Errorf("clear active workout: %w", err)
	}

	s.stopEngineLocked()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "workout finished",
		slog.String("logID", log.ID),
		slog.Int("totalSets", log.TotalSets),
		slog.Float64("totalVolume", log.TotalVolume))

	return log, nil
}

// DiscardWorkout abandons the running session without recording history.
func (s *Service) DiscardWorkout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine != nil {
		if err := s.engine.Discard(); err != nil && !errors.Is(err, ErrNoActiveWorkout) {
			return fmt.Errorf("discard session: %w", err)
		}
	}
	if err := s.repo.active.Clear(ctx); err != nil {
		return fmt.Errorf("clear active workout: %w", err)
	}

	s.stopEngineLocked()
	return nil
}

// History retrieves completed workouts newest-first, at most limit entries.
func (s *Service) History(ctx context.Context, limit int) ([]Log, error) {
	logs, err := s.repo.logs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return logs, nil
}

// PersonalRecordFor returns the personal record for an exercise, or nil when
// the exercise has no completed sets yet.
func (s *Service) PersonalRecordFor(ctx context.Context, exerciseName string) (*PersonalRecord, error) {
	record, err := s.repo.logs.PersonalRecord(ctx, exerciseName)
	if errors.Is(err, ErrNotFound) {
		return nil, nil //nolint:nilnil // no record is an expected outcome.
	}
	if err != nil {
		return nil, fmt.Errorf("personal record: %w", err)
	}
	return &record, nil
}

// VolumeTrend returns per-workout volume for an exercise over a trailing
// window of days, oldest first.
func (s *Service) VolumeTrend(ctx context.Context, exerciseName string, windowDays int) ([]VolumePoint, error) {
	points, err := s.repo.logs.VolumeTrend(ctx, exerciseName, windowDays)
	if err != nil {
		return nil, fmt.Errorf("volume trend: %w", err)
	}
	return points, nil
}

// LastPerformed returns when the exercise was last part of a completed
// workout, or nil when it never was.
func (s *Service) LastPerformed(ctx context.Context, exerciseName string) (*time.Time, error) {
	performed, err := s.repo.logs.LastPerformed(ctx, exerciseName)
	if errors.Is(err, ErrNotFound) {
		return nil, nil //nolint:nilnil // never performed is an expected outcome.
	}
	if err != nil {
		return nil, fmt.Errorf("last performed: %w", err)
	}
	return &performed, nil
}

// ClearAllData wipes the profile, plan, session, and history.
func (s *Service) ClearAllData(ctx context.Context) error {
	s.mu.Lock()
	s.stopEngineLocked()
	s.mu.Unlock()

	if err := s.repo.clearAll(ctx); err != nil {
		return fmt.Errorf("clear all data: %w", err)
	}
	return nil
}

// Close stops any running session loops.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopEngineLocked()
}

func (s *Service) activeEngine() (*Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return nil, ErrNoActiveWorkout
	}
	return s.engine, nil
}

// startEngineLocked launches the session loops. The caller must hold s.mu.
func (s *Service) startEngineLocked(engine *Engine) {
	runCtx, cancel := context.WithCancel(context.Background())
	s.engine = engine
	s.cancelRun = cancel

	go func() {
		if err := engine.Run(runCtx); err != nil {
			s.logger.LogAttrs(runCtx, slog.LevelError, "session loops stopped",
				slog.String("error", err.Error()))
		}
	}()
}

// stopEngineLocked cancels the session loops. The caller must hold s.mu.
func (s *Service) stopEngineLocked() {
	if s.cancelRun != nil {
		s.cancelRun()
		s.cancelRun = nil
	}
	s.engine = nil
}
