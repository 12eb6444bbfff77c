package orchestrator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ventureforge/ventureforge/pkg/journey"
	"github.com/ventureforge/ventureforge/pkg/market"
)

// ErrNoIdea is returned when validation is asked for without any idea.
var ErrNoIdea = errors.New("no startup idea to validate")

// ValidationAgent is the Validation stage generator: it researches the
// chosen idea, scores the findings and renders the validation report.
type ValidationAgent struct {
	gatherer *market.Gatherer
}

// NewValidationAgent creates a ValidationAgent over gatherer.
func NewValidationAgent(gatherer *market.Gatherer) *ValidationAgent {
	return &ValidationAgent{gatherer: gatherer}
}

// Generate runs research, normalization, scoring and rendering. The idea is
// the recorded startup idea, else the slate item the founder's message picks,
// else the message itself.
func (v *ValidationAgent) Generate(ctx context.Context, _ journey.Stage, in *StageInput) (string, error) {
	idea := ResolveIdea(in.StartupIdea, in.IdeaSlate, in.UserMessage)
	if idea == "" {
		return "", ErrNoIdea
	}

	report, scores, intel := v.gatherer.Assess(ctx, idea, in.IndustryFocus)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	slog.Info("Market validation scored",
		"session_id", in.SessionID,
		"overall_score", scores.OverallScore,
		"confidence", scores.Confidence,
		"competitors", len(intel.Competitors),
		"source", intel.Source)
	return report, nil
}
