package workout

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/liftline/liftline/internal/catalog"
)

// minutesPerSet is the duration estimate for one working set including rest.
const minutesPerSet = 3

// generator builds workout templates from a profile and an exercise pool.
type generator struct {
	rng   *rand.Rand
	now   func() time.Time
	newID func() string
}

func newGenerator(rng *rand.Rand) *generator {
	return &generator{
		rng:   rng,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Generate produces one template per distinct day label of the user's
// preferred split that yields at least one exercise.
//
// An empty pool, an unknown split, or a day label without a structure never
// fail; they produce no templates for that portion of the plan.
func (g *generator) Generate(profile Profile, pool []catalog.Exercise) []Template {
	if len(pool) == 0 {
		return nil
	}

	equipment := make([]string, len(profile.Equipment))
	for i, name := range profile.Equipment {
		equipment[i] = normalizeEquipment(name)
	}
	available := catalog.Filter(pool, catalog.Criteria{EquipmentIn: equipment})

	days, ok := rules.Splits[profile.PreferredSplit]
	if !ok {
		return nil
	}

	scheme := rules.RepSchemes[resolveGoal(profile.FitnessGoals)][resolveExperience(profile.Experience)]

	var templates []Template
	for _, day := range uniqueInOrder(days) {
		slots, ok := rules.Structures[day]
		if !ok {
			continue
		}

		var exercises []TemplateExercise
		for _, slot := range slots {
			candidates := catalog.Filter(available, catalog.Criteria{BodyPart: slot.BodyPart})
			for _, exercise := range g.sample(candidates, slot.Count) {
				exercises = append(exercises, TemplateExercise{
					ExerciseID:  exercise.ID,
					Name:        exercise.Name,
					BodyPart:    exercise.BodyPart,
					Target:      exercise.Target,
					Equipment:   exercise.Equipment,
					GifURL:      exercise.GifURL,
					Sets:        scheme.Sets,
					TargetReps:  scheme.Reps,
					RestSeconds: scheme.RestSeconds,
				})
			}
		}

		// A day with no matching exercises yields no template; an all-empty
		// plan surfaces as a generation failure upstream.
		if len(exercises) == 0 {
			continue
		}

		totalSets := 0
		for _, exercise := range exercises {
			totalSets += exercise.Sets
		}

		templates = append(templates, Template{
			ID:                g.newID(),
			Name:              day + " Day",
			Type:              day,
			EstimatedDuration: totalSets * minutesPerSet,
			CreatedAt:         g.now(),
			Exercises:         exercises,
		})
	}

	return templates
}

// sample picks count exercises uniformly without replacement. Fewer
// candidates than requested returns them all, shuffled.
func (g *generator) sample(candidates []catalog.Exercise, count int) []catalog.Exercise {
	if len(candidates) == 0 {
		return nil
	}
	shuffled := slices.Clone(candidates)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}

// uniqueInOrder drops repeated day labels while preserving first-seen order.
func uniqueInOrder(days []string) []string {
	seen := make(map[string]struct{}, len(days))
	unique := make([]string, 0, len(days))
	for _, day := range days {
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		unique = append(unique, day)
	}
	return unique
}
