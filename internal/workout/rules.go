package workout

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	_ "embed"
)

//go:embed rules.yaml
var rulesYAML []byte

// repScheme prescribes sets, a target rep range, and rest for one exercise.
type repScheme struct {
	Sets        int    `yaml:"sets"`
	Reps        string `yaml:"reps"`
	RestSeconds int    `yaml:"rest"`
}

// structureSlot reserves count exercise slots for a body part.
type structureSlot struct {
	BodyPart string `yaml:"bodyPart"`
	Count    int    `yaml:"count"`
}

type planRules struct {
	Splits           map[string][]string             `yaml:"splits"`
	Structures       map[string][]structureSlot      `yaml:"structures"`
	RepSchemes       map[string]map[string]repScheme `yaml:"repSchemes"`
	EquipmentAliases map[string]string               `yaml:"equipmentAliases"`
}

//nolint:gochecknoglobals // rules is the parsed form of the embedded rule tables.
var rules = mustLoadRules()

func mustLoadRules() planRules {
	var parsed planRules
	if err := yaml.Unmarshal(rulesYAML, &parsed); err != nil {
		panic(fmt.Sprintf("parse embedded rules.yaml: %v", err))
	}
	return parsed
}

// resolveGoal maps the user's primary fitness goal to a rep scheme key with
// a substring match. Only the first goal is considered.
func resolveGoal(goals []string) string {
	if len(goals) == 0 {
		return "hypertrophy"
	}
	goal := strings.ToLower(goals[0])
	switch {
	case strings.Contains(goal, "strength"):
		return "strength"
	case strings.Contains(goal, "hypertrophy"):
		return "hypertrophy"
	case strings.Contains(goal, "endurance"):
		return "endurance"
	case strings.Contains(goal, "weight"), strings.Contains(goal, "loss"):
		return "weight loss"
	}
	return "hypertrophy"
}

// resolveExperience maps a free-form experience level to a rep scheme key.
func resolveExperience(level string) string {
	lower := strings.ToLower(level)
	switch {
	case strings.Contains(lower, "beginner"):
		return "beginner"
	case strings.Contains(lower, "intermediate"):
		return "intermediate"
	case strings.Contains(lower, "advanced"):
		return "advanced"
	}
	return "beginner"
}

// normalizeEquipment maps a user-facing equipment name to the catalog's
// equipment tag.
func normalizeEquipment(name string) string {
	lower := strings.ToLower(name)
	if tag, ok := rules.EquipmentAliases[lower]; ok {
		return tag
	}
	return lower
}
