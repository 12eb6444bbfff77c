// Package orchestrator runs one turn of the venture creation journey: it
// delegates generation to the current stage's agent, records the output in
// the StageContext and asks the intent classifier whether to advance.
// It holds no session state; everything travels in the stage tag and the
// serialized context.
package orchestrator

import (
	"context"
	"errors"

	"github.com/ventureforge/ventureforge/pkg/journey"
)

// ErrNoGenerator is returned when the stage table has no agent for a stage.
var ErrNoGenerator = errors.New("no generator registered for stage")

// StageInput is everything a stage agent sees for one turn.
type StageInput struct {
	SessionID     string
	Stage         journey.Stage
	UserName      string
	IndustryFocus string
	StartupIdea   string
	UserMessage   string

	// IdeaSlate is the idea generation output the founder picks from.
	IdeaSlate string

	// PriorOutputs holds the outputs of every earlier stage that has
	// completed, in journey order.
	PriorOutputs []journey.StageOutput

	// CurrentOutput is this stage's own stored output when it repeats.
	CurrentOutput string

	// History is a bounded window of the most recent conversation entries.
	History []journey.Message
}

// Generator produces the assistant output for one stage turn.
type Generator interface {
	Generate(ctx context.Context, stage journey.Stage, in *StageInput) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, stage journey.Stage, in *StageInput) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, stage journey.Stage, in *StageInput) (string, error) {
	return f(ctx, stage, in)
}

// StageTable maps each non-terminal stage to its agent.
type StageTable map[journey.Stage]Generator

// Missing returns the non-terminal stages without an agent.
func (t StageTable) Missing() []journey.Stage {
	var missing []journey.Stage
	for _, s := range journey.AllStages() {
		if s.IsTerminal() {
			continue
		}
		if t[s] == nil {
			missing = append(missing, s)
		}
	}
	return missing
}

// BuildInput assembles the stage input from the context: all prior stage
// outputs plus the last historyWindow conversation entries.
func BuildInput(sessionID string, stage journey.Stage, sc *journey.StageContext, historyWindow int) *StageInput {
	return &StageInput{
		SessionID:     sessionID,
		Stage:         stage,
		UserName:      sc.UserName,
		IndustryFocus: sc.IndustryFocus,
		StartupIdea:   sc.StartupIdea,
		UserMessage:   sc.UserMessage,
		IdeaSlate:     sc.IdeaSlate,
		PriorOutputs:  sc.CompletedOutputs(stage),
		CurrentOutput: sc.StageOutput(stage),
		History:       sc.RecentHistory(historyWindow),
	}
}
