// Package journey holds the session-level state of a venture creation
// journey: the ordered stages and the accumulated StageContext that travels
// between turns as an opaque serialized blob.
package journey

import (
	"errors"
	"fmt"
)

// Stage is one step of the fixed venture creation sequence.
// The zero value is StageOnboarding.
type Stage int

const (
	StageOnboarding Stage = iota
	StageIdeaGeneration
	StageValidation
	StageRequirements
	StagePromptEngineering
	StageComplete
)

// StageCount is the total number of stages, including Complete.
const StageCount = 6

// ErrUnknownStage is returned by ParseStage for tags outside the stage set.
var ErrUnknownStage = errors.New("unknown stage")

var stageTags = [StageCount]string{
	"onboarding",
	"idea_generation",
	"validation",
	"requirements",
	"prompt_engineering",
	"complete",
}

var stageNames = [StageCount]string{
	"Onboarding",
	"Idea Generation",
	"Validation",
	"Requirements",
	"Prompt Engineering",
	"Complete",
}

var stageDescriptions = [StageCount]string{
	"Get to know the founder: name, background, industry focus and the problem they care about.",
	"Generate a slate of startup ideas for the founder's problem space and help them pick one.",
	"Research the chosen idea's market and present a scored validation report.",
	"Turn the validated idea into a product requirements outline (users, features, scope).",
	"Produce a build-ready prompt that a coding assistant can use to scaffold the product.",
	"The journey is finished; all stage outputs are available.",
}

// AllStages returns the stages in journey order.
func AllStages() []Stage {
	return []Stage{
		StageOnboarding,
		StageIdeaGeneration,
		StageValidation,
		StageRequirements,
		StagePromptEngineering,
		StageComplete,
	}
}

// Valid reports whether s is one of the defined stages.
func (s Stage) Valid() bool {
	return s >= StageOnboarding && s <= StageComplete
}

// Tag returns the persisted identifier for the stage (e.g. "idea_generation").
func (s Stage) Tag() string {
	if !s.Valid() {
		return "unknown"
	}
	return stageTags[s]
}

// String returns the display name for the stage.
func (s Stage) String() string {
	if !s.Valid() {
		return "Unknown"
	}
	return stageNames[s]
}

// Description explains what the stage is for. Used by prompts that need the
// stage definition (e.g. intent classification).
func (s Stage) Description() string {
	if !s.Valid() {
		return ""
	}
	return stageDescriptions[s]
}

// Next returns the successor stage. Complete is absorbing.
func (s Stage) Next() Stage {
	if !s.Valid() || s >= StageComplete {
		return StageComplete
	}
	return s + 1
}

// IsTerminal reports whether s is the Complete stage.
func (s Stage) IsTerminal() bool {
	return s == StageComplete
}

// ParseStage maps a persisted tag back to a Stage.
func ParseStage(tag string) (Stage, error) {
	for i, t := range stageTags {
		if t == tag {
			return Stage(i), nil
		}
	}
	return StageOnboarding, fmt.Errorf("%w: %q", ErrUnknownStage, tag)
}

// MarshalText implements encoding.TextMarshaler so stages serialize as tags.
func (s Stage) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStage, int(s))
	}
	return []byte(s.Tag()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stage) UnmarshalText(text []byte) error {
	parsed, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
