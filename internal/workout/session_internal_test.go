package workout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/liftline/liftline/internal/ptr"
	"github.com/liftline/liftline/internal/testhelpers"
)

// fakeActiveStore records snapshots in memory.
type fakeActiveStore struct {
	saves     []ActiveSnapshot
	returnErr error
}

func (f *fakeActiveStore) SaveActiveWorkout(_ context.Context, snapshot ActiveSnapshot) error {
	if f.returnErr != nil {
		return f.returnErr
	}
	f.saves = append(f.saves, snapshot)
	return nil
}

func testTemplate() Template {
	return Template{
		ID:   "template-1",
		Name: "Push Day",
		Type: "Push",
		Exercises: []TemplateExercise{
			{ExerciseID: "0001", Name: "barbell bench press", BodyPart: "chest", Sets: 3, TargetReps: "5-8", RestSeconds: 180},
			{ExerciseID: "0002", Name: "overhead press", BodyPart: "shoulders", Sets: 2, TargetReps: "5-8", RestSeconds: 180},
		},
	}
}

func testEngine(t *testing.T, store *fakeActiveStore) *Engine {
	t.Helper()
	engine := NewEngine(store, testhelpers.NewLogger(testhelpers.NewWriter(t)))
	engine.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	engine.newID = func() string { return "log-1" }
	return engine
}

func TestEngineBegin(t *testing.T) {
	t.Parallel()

	engine := testEngine(t, &fakeActiveStore{})
	log := engine.Begin(testTemplate())

	if log.ID != "log-1" {
		t.Errorf("log ID = %q, want log-1", log.ID)
	}
	if log.TemplateID == nil || *log.TemplateID != "template-1" {
		t.Errorf("template ID = %v, want template-1", log.TemplateID)
	}
	if log.CompletedAt != nil {
		t.Error("new log already has a completion timestamp")
	}
	if len(log.Exercises) != 2 {
		t.Fatalf("got %d exercises, want 2", len(log.Exercises))
	}

	wantSets := []SetEntry{{Number: 1}, {Number: 2}, {Number: 3}}
	if diff := cmp.Diff(wantSets, log.Exercises[0].Sets); diff != "" {
		t.Errorf("first exercise sets mismatch (-want +got):\n%s", diff)
	}
	if len(log.Exercises[1].Sets) != 2 {
		t.Errorf("second exercise has %d sets, want 2", len(log.Exercises[1].Sets))
	}
}

func TestEngineBeginThenFinish(t *testing.T) {
	t.Parallel()

	engine := testEngine(t, &fakeActiveStore{})
	engine.Begin(testTemplate())

	log, err := engine.Finish()
	if err != nil {
		t.Fatalf("Finish() error: %v", err)
	}
	if log.TotalVolume != 0 || log.TotalSets != 0 || log.TotalReps != 0 {
		t.Errorf("untouched workout totals = %v/%v/%v, want zeros",
			log.TotalVolume, log.TotalSets, log.TotalReps)
	}
	if log.CompletedAt == nil {
		t.Error("finished log has no completion timestamp")
	}
	if log.DurationMinutes != 0 {
		t.Errorf("duration = %d minutes, want 0", log.DurationMinutes)
	}
}

func TestEngineFinishTotals(t *testing.T) {
	t.Parallel()

	engine := testEngine(t, &fakeActiveStore{})
	engine.Begin(testTemplate())

	// Two fully recorded sets plus one completed set without a weight,
	// which must not count towards the totals.
	mustUpdate(t, engine, 0, 0, SetUpdate{Weight: ptr.Ref(100.0)})
	mustUpdate(t, engine, 0, 0, SetUpdate{Reps: ptr.Ref(5)})
	mustToggle(t, engine, 0, 0)
	mustUpdate(t, engine, 0, 1, SetUpdate{Weight: ptr.Ref(80.0)})
	mustUpdate(t, engine, 0, 1, SetUpdate{Reps: ptr.Ref(10)})
	mustToggle(t, engine, 0, 1)
	mustUpdate(t, engine, 1, 0, SetUpdate{Reps: ptr.Ref(12)})
	mustToggle(t, engine, 1, 0)

	engine.elapsed = 150

	log, err := engine.Finish()
	if err != nil {
		t.Fatalf("Finish() error: %v", err)
	}
	if want := 100.0*5 + 80.0*10; log.TotalVolume != want {
		t.Errorf("total volume = %v, want %v", log.TotalVolume, want)
	}
	if log.TotalSets != 2 {
		t.Errorf("total sets = %d, want 2", log.TotalSets)
	}
	if log.TotalReps != 15 {
		t.Errorf("total reps = %d, want 15", log.TotalReps)
	}
	// 150 seconds rounds to 3 minutes.
	if log.DurationMinutes != 3 {
		t.Errorf("duration = %d minutes, want 3", log.DurationMinutes)
	}
}

func TestEngineUpdateSetPreconditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		exerciseIndex int
		setIndex      int
		update        SetUpdate
	}{
		{name: "exercise index too large", exerciseIndex: 2, setIndex: 0, update: SetUpdate{Weight: ptr.Ref(50.0)}},
		{name: "negative exercise index", exerciseIndex: -1, setIndex: 0, update: SetUpdate{Weight: ptr.Ref(50.0)}},
		{name: "set index too large", exerciseIndex: 0, setIndex: 3, update: SetUpdate{Weight: ptr.Ref(50.0)}},
		{name: "empty update", exerciseIndex: 0, setIndex: 0, update: SetUpdate{}},
		{
			name:          "update carrying two fields",
			exerciseIndex: 0,
			setIndex:      0,
			update:        SetUpdate{Weight: ptr.Ref(50.0), Reps: ptr.Ref(5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			engine := testEngine(t, &fakeActiveStore{})
			before := engine.Begin(testTemplate())

			err := engine.UpdateSet(tt.exerciseIndex, tt.setIndex, tt.update)
			if !errors.Is(err, ErrPrecondition) {
				t.Fatalf("UpdateSet() error = %v, want ErrPrecondition", err)
			}

			after, err := engine.Active()
			if err != nil {
				t.Fatalf("Active() error: %v", err)
			}
			if diff := cmp.Diff(before, after); diff != "" {
				t.Errorf("rejected update mutated the log (-before +after):\n%s", diff)
			}
		})
	}
}

func TestEngineToggleSet(t *testing.T) {
	t.Parallel()

	engine := testEngine(t, &fakeActiveStore{})
	engine.Begin(testTemplate())

	mustToggle(t, engine, 0, 2)
	log, err := engine.Active()
	if err != nil {
		t.Fatal(err)
	}
	if !log.Exercises[0].Sets[2].Completed {
		t.Error("toggled set is not completed")
	}

	mustToggle(t, engine, 0, 2)
	log, err = engine.Active()
	if err != nil {
		t.Fatal(err)
	}
	if log.Exercises[0].Sets[2].Completed {
		t.Error("double-toggled set is still completed")
	}
}

func TestEngineSnapshotIdempotent(t *testing.T) {
	t.Parallel()

	store := &fakeActiveStore{}
	engine := testEngine(t, store)
	engine.Begin(testTemplate())
	mustUpdate(t, engine, 0, 0, SetUpdate{Weight: ptr.Ref(60.0)})

	ctx := context.Background()
	if err := engine.Snapshot(ctx); err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if err := engine.Snapshot(ctx); err != nil {
		t.Fatalf("second Snapshot() error: %v", err)
	}

	if len(store.saves) != 2 {
		t.Fatalf("got %d saves, want 2", len(store.saves))
	}
	if diff := cmp.Diff(store.saves[0], store.saves[1]); diff != "" {
		t.Errorf("repeated snapshots differ (-first +second):\n%s", diff)
	}
}

func TestEngineSnapshotAfterFinishIsNoop(t *testing.T) {
	t.Parallel()

	store := &fakeActiveStore{}
	engine := testEngine(t, store)
	engine.Begin(testTemplate())
	if _, err := engine.Finish(); err != nil {
		t.Fatal(err)
	}

	if err := engine.Snapshot(context.Background()); err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if len(store.saves) != 0 {
		t.Errorf("finished session still snapshotted %d times", len(store.saves))
	}
}

func TestEngineLifecycleTransitions(t *testing.T) {
	t.Parallel()

	t.Run("operations before begin", func(t *testing.T) {
		t.Parallel()

		engine := testEngine(t, &fakeActiveStore{})

		if _, err := engine.Active(); !errors.Is(err, ErrNoActiveWorkout) {
			t.Errorf("Active() before begin = %v, want ErrNoActiveWorkout", err)
		}
		if err := engine.UpdateSet(0, 0, SetUpdate{Weight: ptr.Ref(50.0)}); !errors.Is(err, ErrNoActiveWorkout) {
			t.Errorf("UpdateSet() before begin = %v, want ErrNoActiveWorkout", err)
		}
		if err := engine.ToggleSet(0, 0); !errors.Is(err, ErrNoActiveWorkout) {
			t.Errorf("ToggleSet() before begin = %v, want ErrNoActiveWorkout", err)
		}
		if _, err := engine.Finish(); !errors.Is(err, ErrNoActiveWorkout) {
			t.Errorf("Finish() before begin = %v, want ErrNoActiveWorkout", err)
		}
		if err := engine.Discard(); !errors.Is(err, ErrNoActiveWorkout) {
			t.Errorf("Discard() before begin = %v, want ErrNoActiveWorkout", err)
		}
	})

	t.Run("operations after finish", func(t *testing.T) {
		t.Parallel()

		engine := testEngine(t, &fakeActiveStore{})
		engine.Begin(testTemplate())
		if _, err := engine.Finish(); err != nil {
			t.Fatal(err)
		}

		if err := engine.UpdateSet(0, 0, SetUpdate{Weight: ptr.Ref(50.0)}); !errors.Is(err, ErrNoActiveWorkout) {
			t.Errorf("UpdateSet() after finish = %v, want ErrNoActiveWorkout", err)
		}
		if _, err := engine.Finish(); !errors.Is(err, ErrNoActiveWorkout) {
			t.Errorf("double Finish() = %v, want ErrNoActiveWorkout", err)
		}
	})

	t.Run("operations after discard", func(t *testing.T) {
		t.Parallel()

		engine := testEngine(t, &fakeActiveStore{})
		engine.Begin(testTemplate())
		if err := engine.Discard(); err != nil {
			t.Fatal(err)
		}

		if _, err := engine.Finish(); !errors.Is(err, ErrNoActiveWorkout) {
			t.Errorf("Finish() after discard = %v, want ErrNoActiveWorkout", err)
		}
		if err := engine.Discard(); !errors.Is(err, ErrNoActiveWorkout) {
			t.Errorf("double Discard() = %v, want ErrNoActiveWorkout", err)
		}
	})
}

func TestEngineFinalizeKeepsSessionActive(t *testing.T) {
	t.Parallel()

	engine := testEngine(t, &fakeActiveStore{})
	engine.Begin(testTemplate())
	mustUpdate(t, engine, 0, 0, SetUpdate{Weight: ptr.Ref(100.0)})
	mustUpdate(t, engine, 0, 0, SetUpdate{Reps: ptr.Ref(5)})
	mustToggle(t, engine, 0, 0)

	first, err := engine.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if first.TotalVolume != 500 || first.CompletedAt == nil {
		t.Errorf("finalized log = volume %v / completedAt %v, want 500 and a timestamp", first.TotalVolume, first.CompletedAt)
	}

	// The session survives a failed persist of the finalized log.
	if _, err := engine.Active(); err != nil {
		t.Errorf("Active() after Finalize() = %v, want the session still active", err)
	}
	second, err := engine.Finalize()
	if err != nil {
		t.Fatalf("second Finalize() error: %v", err)
	}
	if second.TotalVolume != first.TotalVolume || second.TotalSets != first.TotalSets {
		t.Errorf("retried totals = %v/%d, want %v/%d", second.TotalVolume, second.TotalSets, first.TotalVolume, first.TotalSets)
	}

	if err := engine.Complete(); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if _, err := engine.Active(); !errors.Is(err, ErrNoActiveWorkout) {
		t.Errorf("Active() after Complete() = %v, want ErrNoActiveWorkout", err)
	}
	if err := engine.Complete(); !errors.Is(err, ErrNoActiveWorkout) {
		t.Errorf("double Complete() = %v, want ErrNoActiveWorkout", err)
	}
}

func TestEngineResume(t *testing.T) {
	t.Parallel()

	store := &fakeActiveStore{}
	first := testEngine(t, store)
	first.Begin(testTemplate())
	mustUpdate(t, first, 0, 0, SetUpdate{Weight: ptr.Ref(100.0)})
	first.elapsed = 95
	if err := first.Snapshot(context.Background()); err != nil {
		t.Fatal(err)
	}

	second := testEngine(t, store)
	log := second.Resume(store.saves[0])

	if second.Elapsed() != 95 {
		t.Errorf("resumed elapsed = %d, want 95", second.Elapsed())
	}
	if log.Exercises[0].Sets[0].Weight == nil || *log.Exercises[0].Sets[0].Weight != 100.0 {
		t.Error("resumed log lost the recorded weight")
	}
}

func TestEngineRunStopsOnFinish(t *testing.T) {
	t.Parallel()

	engine := testEngine(t, &fakeActiveStore{})
	engine.Begin(testTemplate())

	runDone := make(chan error, 1)
	go func() {
		runDone <- engine.Run(context.Background())
	}()

	if _, err := engine.Finish(); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-runDone:
		if err != nil {
			t.Errorf("Run() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after Finish()")
	}
}

func mustUpdate(t *testing.T, engine *Engine, exerciseIndex, setIndex int, update SetUpdate) {
	t.Helper()
	if err := engine.UpdateSet(exerciseIndex, setIndex, update); err != nil {
		t.Fatalf("UpdateSet(%d, %d) error: %v", exerciseIndex, setIndex, err)
	}
}

func mustToggle(t *testing.T, engine *Engine, exerciseIndex, setIndex int) {
	t.Helper()
	if err := engine.ToggleSet(exerciseIndex, setIndex); err != nil {
		t.Fatalf("ToggleSet(%d, %d) error: %v", exerciseIndex, setIndex, err)
	}
}
