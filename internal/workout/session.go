package workout

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type sessionState int

const (
	stateCreated sessionState = iota
	stateActive
	stateCompleted
	stateDiscarded
)

const (
	elapsedTickInterval = time.Second
	autoSaveInterval    = 30 * time.Second
)

// activeStore persists in-progress workout snapshots.
type activeStore interface {
	SaveActiveWorkout(ctx context.Context, snapshot ActiveSnapshot) error
}

// SetUpdate carries a new value for exactly one mutable set field.
type SetUpdate struct {
	Weight *float64 `json:"weight,omitempty"`
	Reps   *int     `json:"reps,omitempty"`
	Notes  *string  `json:"notes,omitempty"`
}

// Engine drives a single workout session from start to completion or
// discard. It owns the workout log, an elapsed-seconds counter ticking once
// per second, and a periodic snapshot loop. All methods are safe for
// concurrent use.
type Engine struct {
	store  activeStore
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	mu      sync.Mutex
	log     *Log
	elapsed int
	state   sessionState
	done    chan struct{}
}

// NewEngine creates an engine for one workout session. Start the session
// with Begin or Resume before calling Run.
func NewEngine(store activeStore, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
		done:   make(chan struct{}),
	}
}

// Begin starts a session from a template. Each prescribed set becomes an
// empty SetEntry numbered from 1.
func (e *Engine) Begin(template Template) Log {
	e.mu.Lock()
	defer e.mu.Unlock()

	templateID := template.ID
	log := &Log{
		ID:         e.newID(),
		TemplateID: &templateID,
		Name:       template.Name,
		Type:       template.Type,
		StartedAt:  e.now(),
		Exercises:  make([]LoggedExercise, len(template.Exercises)),
	}
	for i, exercise := range template.Exercises {
		sets := make([]SetEntry, exercise.Sets)
		for s := range sets {
			sets[s] = SetEntry{Number: s + 1}
		}
		log.Exercises[i] = LoggedExercise{
			ExerciseID: exercise.ExerciseID,
			Name:       exercise.Name,
			BodyPart:   exercise.BodyPart,
			Target:     exercise.Target,
			Equipment:  exercise.Equipment,
			Sets:       sets,
		}
	}

	e.log = log
	e.elapsed = 0
	e.state = stateActive

	return copyLog(log)
}

// Resume re-enters a session from a persisted snapshot, continuing the
// elapsed counter where it left off.
func (e *Engine) Resume(snapshot ActiveSnapshot) Log {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := snapshot.Log
	e.log = &log
	e.elapsed = snapshot.ElapsedSeconds
	e.state = stateActive

	return copyLog(e.log)
}

// Active returns a copy of the in-progress log.
func (e *Engine) Active() (Log, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateActive {
		return Log{}, ErrNoActiveWorkout
	}
	return copyLog(e.log), nil
}

// Elapsed returns the elapsed session time in seconds.
func (e *Engine) Elapsed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsed
}

// UpdateSet writes the one field carried by update to the addressed set.
// Out-of-range indices and updates carrying zero or several fields leave the
// log untouched and return ErrPrecondition.
func (e *Engine) UpdateSet(exerciseIndex, setIndex int, update SetUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateActive {
		return ErrNoActiveWorkout
	}
	set, err := e.set(exerciseIndex, setIndex)
	if err != nil {
		return err
	}

	fields := 0
	if update.Weight != nil {
		fields++
	}
	if update.Reps != nil {
		fields++
	}
	if update.Notes != nil {
		fields++
	}
	if fields != 1 {
		return fmt.Errorf("set update must carry exactly one field, got %d: %w", fields, ErrPrecondition)
	}

	switch {
	case update.Weight != nil:
		set.Weight = update.Weight
	case update.Reps != nil:
		set.Reps = update.Reps
	case update.Notes != nil:
		set.Notes = update.Notes
	}
	return nil
}

// ToggleSet flips the completion flag of the addressed set.
func (e *Engine) ToggleSet(exerciseIndex, setIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateActive {
		return ErrNoActiveWorkout
	}
	set, err := e.set(exerciseIndex, setIndex)
	if err != nil {
		return err
	}
	set.Completed = !set.Completed
	return nil
}

// set addresses a single set entry. The caller must hold the mutex.
func (e *Engine) set(exerciseIndex, setIndex int) (*SetEntry, error) {
	if exerciseIndex < 0 || exerciseIndex >= len(e.log.Exercises) {
		return nil, fmt.Errorf("exercise index %d out of range: %w", exerciseIndex, ErrPrecondition)
	}
	exercise := &e.log.Exercises[exerciseIndex]
	if setIndex < 0 || setIndex >= len(exercise.Sets) {
		return nil, fmt.Errorf("set index %d out of range: %w", setIndex, ErrPrecondition)
	}
	return &exercise.Sets[setIndex], nil
}

// Snapshot persists the current session state. It is idempotent; snapshots
// of an inactive session are a no-op.
func (e *Engine) Snapshot(ctx context.Context) error {
	e.mu.Lock()
	if e.state != stateActive {
		e.mu.Unlock()
		return nil
	}
	snapshot := ActiveSnapshot{
		Log:            copyLog(e.log),
		ElapsedSeconds: e.elapsed,
	}
	e.mu.Unlock()

	if err := e.store.SaveActiveWorkout(ctx, snapshot); err != nil {
		return fmt.Errorf("save active workout: %w", err)
	}
	return nil
}

// Finalize returns a completed copy of the log without leaving the active
// state. Totals count only sets that are marked completed and carry both a
// weight and a rep count greater than zero. The session stays active until
// Complete, so a caller whose persist of the finalized log fails can retry.
func (e *Engine) Finalize() (Log, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateActive {
		return Log{}, ErrNoActiveWorkout
	}

	var (
		totalVolume float64
		totalSets   int
		totalReps   int
	)
	for _, exercise := range e.log.Exercises {
		for _, set := range exercise.Sets {
			if !set.Completed || set.Weight == nil || set.Reps == nil || *set.Weight <= 0 || *set.Reps <= 0 {
				continue
			}
			totalVolume += *set.Weight * float64(*set.Reps)
			totalSets++
			totalReps += *set.Reps
		}
	}

	finalized := copyLog(e.log)
	completedAt := e.now()
	finalized.CompletedAt = &completedAt
	finalized.TotalVolume = totalVolume
	finalized.TotalSets = totalSets
	finalized.TotalReps = totalReps
	finalized.DurationMinutes = int(math.Round(float64(e.elapsed) / 60))

	return finalized, nil
}

// Complete moves the session to its terminal completed state and stops the
// tick and snapshot loops.
func (e *Engine) Complete() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateActive {
		return ErrNoActiveWorkout
	}
	e.state = stateCompleted
	close(e.done)
	return nil
}

// Finish finalizes and completes the session in one step.
func (e *Engine) Finish() (Log, error) {
	log, err := e.Finalize()
	if err != nil {
		return Log{}, err
	}
	if err := e.Complete(); err != nil {
		return Log{}, err
	}
	return log, nil
}

// Discard abandons the session without recording anything.
func (e *Engine) Discard() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateActive {
		return ErrNoActiveWorkout
	}
	e.state = stateDiscarded
	close(e.done)
	return nil
}

// Run ticks the elapsed counter once per second and snapshots the session
// every thirty seconds. It returns when the session finishes, is discarded,
// or ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(elapsedTickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-e.done:
				return nil
			case <-ticker.C:
				e.mu.Lock()
				if e.state == stateActive {
					e.elapsed++
				}
				e.mu.Unlock()
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(autoSaveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-e.done:
				return nil
			case <-ticker.C:
				if err := e.Snapshot(ctx); err != nil {
					e.logger.LogAttrs(ctx, slog.LevelWarn, "auto-save failed",
						slog.String("error", err.Error()))
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("session loops: %w", err)
	}
	return nil
}

// copyLog deep-copies a log so callers cannot mutate engine state.
func copyLog(log *Log) Log {
	copied := *log
	copied.Exercises = make([]LoggedExercise, len(log.Exercises))
	for i, exercise := range log.Exercises {
		copied.Exercises[i] = exercise
		copied.Exercises[i].Sets = make([]SetEntry, len(exercise.Sets))
		copy(copied.Exercises[i].Sets, exercise.Sets)
	}
	return copied
}
