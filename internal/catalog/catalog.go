// Package catalog provides the exercise catalog backed by a remote API with
// a TTL cache in front of it.
package catalog

import "strings"

// Exercise is a single catalog entry as served by the exercise API.
type Exercise struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BodyPart  string `json:"bodyPart"`
	Target    string `json:"target"`
	Equipment string `json:"equipment"`
	GifURL    string `json:"gifUrl"`
}

// Criteria narrows a catalog listing. Zero-value fields are no-ops and the
// set fields combine with AND. All matching is case-insensitive.
type Criteria struct {
	// BodyPart matches the body part exactly.
	BodyPart string
	// Equipment matches the equipment tag exactly.
	Equipment string
	// EquipmentIn matches any of the given equipment tags.
	EquipmentIn []string
	// Target matches the target muscle exactly.
	Target string
	// Search matches a substring of the exercise name.
	Search string
}

// Filter returns the exercises matching the criteria, preserving order.
func Filter(exercises []Exercise, criteria Criteria) []Exercise {
	equipmentIn := make(map[string]struct{}, len(criteria.EquipmentIn))
	for _, equipment := range criteria.EquipmentIn {
		equipmentIn[strings.ToLower(equipment)] = struct{}{}
	}

	matched := make([]Exercise, 0, len(exercises))
	for _, exercise := range exercises {
		if criteria.BodyPart != "" && !strings.EqualFold(exercise.BodyPart, criteria.BodyPart) {
			continue
		}
		if criteria.Equipment != "" && !strings.EqualFold(exercise.Equipment, criteria.Equipment) {
			continue
		}
		if len(equipmentIn) > 0 {
			if _, ok := equipmentIn[strings.ToLower(exercise.Equipment)]; !ok {
				continue
			}
		}
		if criteria.Target != "" && !strings.EqualFold(exercise.Target, criteria.Target) {
			continue
		}
		if criteria.Search != "" &&
			!strings.Contains(strings.ToLower(exercise.Name), strings.ToLower(criteria.Search)) {
			continue
		}
		matched = append(matched, exercise)
	}
	return matched
}
