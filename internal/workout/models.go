// Package workout implements plan generation, workout sessions, and
// training history.
package workout

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPrecondition is returned when an operation references state that
	// cannot be mutated, for example an out-of-range set index.
	ErrPrecondition = errors.New("precondition violated")
	// ErrNoTemplates is returned when plan generation produces nothing.
	ErrNoTemplates = errors.New("no templates generated")
	// ErrNoActiveWorkout is returned by session operations when no workout
	// is in progress.
	ErrNoActiveWorkout = errors.New("no active workout")
)

// Profile holds the user's onboarding answers that drive plan generation.
// There is at most one current profile; re-onboarding replaces it wholesale.
type Profile struct {
	UserID           string    `json:"userId"`
	FitnessGoals     []string  `json:"fitnessGoals"`
	Experience       string    `json:"experienceLevel"`
	Equipment        []string  `json:"availableEquipment"`
	WorkoutFrequency int       `json:"workoutFrequency"`
	PreferredSplit   string    `json:"preferredSplit"`
	RestTimerDefault int       `json:"restTimerDefault"`
	WeightUnit       string    `json:"weightUnit"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Template is a generated workout blueprint for one training day.
type Template struct {
	ID                string             `json:"templateId"`
	Name              string             `json:"name"`
	Type              string             `json:"type"`
	EstimatedDuration int                `json:"estimatedDuration"`
	CreatedAt         time.Time          `json:"createdAt"`
	Exercises         []TemplateExercise `json:"exercises"`
}

// TemplateExercise is a single prescribed exercise within a template.
type TemplateExercise struct {
	ExerciseID  string  `json:"id"`
	Name        string  `json:"name"`
	BodyPart    string  `json:"bodyPart"`
	Target      string  `json:"target"`
	Equipment   string  `json:"equipment"`
	GifURL      string  `json:"gifUrl"`
	Sets        int     `json:"sets"`
	TargetReps  string  `json:"targetReps"`
	RestSeconds int     `json:"restTime"`
	Notes       *string `json:"notes"`
}

// Log records one workout, in progress or completed. Exercise and set order
// is stable from creation onwards.
type Log struct {
	ID              string           `json:"logId"`
	TemplateID      *string          `json:"templateId"`
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	StartedAt       time.Time        `json:"startedAt"`
	CompletedAt     *time.Time       `json:"completedAt"`
	TotalVolume     float64          `json:"totalVolume"`
	TotalSets       int              `json:"totalSets"`
	TotalReps       int              `json:"totalReps"`
	DurationMinutes int              `json:"durationMinutes"`
	Notes           *string          `json:"notes"`
	Exercises       []LoggedExercise `json:"exercises"`
}

// LoggedExercise is one exercise within a workout log.
type LoggedExercise struct {
	ExerciseID string     `json:"id"`
	Name       string     `json:"name"`
	BodyPart   string     `json:"bodyPart"`
	Target     string     `json:"target"`
	Equipment  string     `json:"equipment"`
	Sets       []SetEntry `json:"sets"`
}

// SetEntry is one set of an exercise. Number is 1-based and never changes
// after the log is created.
type SetEntry struct {
	Number    int      `json:"setNumber"`
	Weight    *float64 `json:"weight"`
	Reps      *int     `json:"reps"`
	Completed bool     `json:"completed"`
	RPE       *float64 `json:"rpe"`
	Notes     *string  `json:"notes"`
}

// ActiveSnapshot is the persisted form of an in-progress workout.
type ActiveSnapshot struct {
	Log            Log `json:"log"`
	ElapsedSeconds int `json:"elapsedSeconds"`
}

// PersonalRecord is the heaviest completed set for an exercise.
type PersonalRecord struct {
	ExerciseName string  `json:"exerciseName"`
	Weight       float64 `json:"maxWeight"`
	Reps         int     `json:"reps"`
}

// VolumePoint is the total volume for an exercise in one completed workout.
type VolumePoint struct {
	CompletedAt time.Time `json:"completedAt"`
	Volume      float64   `json:"volume"`
}
