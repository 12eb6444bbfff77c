package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/ventureforge/ventureforge/pkg/intent"
	"github.com/ventureforge/ventureforge/pkg/journey"
)

// Defaults applied when Options leave a field at zero.
const (
	DefaultHistoryWindow     = 10
	DefaultGenerationTimeout = 2 * time.Minute
)

// ErrGarbageOutput marks agent output that carries no usable content.
var ErrGarbageOutput = errors.New("stage agent produced no usable output")

// Options tunes an Executor.
type Options struct {
	HistoryWindow     int
	GenerationTimeout time.Duration
}

// Result is the outcome of one turn.
type Result struct {
	// Output is the text shown to the founder.
	Output string
	// NextStage is the stage the session is in after this turn.
	NextStage journey.Stage
	// Context is the updated context. The input context is never mutated.
	Context *journey.StageContext
	// Advanced reports whether the classifier moved the session forward.
	Advanced bool
	// Decision is the classifier verdict, zero when classification was skipped.
	Decision intent.Decision
	// Classified reports whether the classifier ran.
	Classified bool
	// Err is the generation failure behind a retry message, if any.
	Err error
}

// Failed reports whether generation failed and the turn should be retried.
func (r *Result) Failed() bool { return r.Err != nil }

// Executor drives a single stage turn.
type Executor struct {
	stages     StageTable
	classifier *intent.Classifier
	opts       Options
}

// NewExecutor creates an Executor. A nil classifier means sessions never
// advance on their own.
func NewExecutor(stages StageTable, classifier *intent.Classifier, opts Options) *Executor {
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = DefaultHistoryWindow
	}
	if opts.GenerationTimeout <= 0 {
		opts.GenerationTimeout = DefaultGenerationTimeout
	}
	if stages == nil {
		stages = StageTable{}
	}
	return &Executor{stages: stages, classifier: classifier, opts: opts}
}

// RunStage generates the stage output for sc.UserMessage, stores it, and
// decides whether to advance. It never returns an error: generation
// failures produce a retry message with the context unchanged and the
// stage held.
func (e *Executor) RunStage(ctx context.Context, stage journey.Stage, sc *journey.StageContext) *Result {
	if sc == nil {
		sc = journey.New()
	}
	sessionID := SessionIDFrom(ctx)
	log := slog.With("session_id", sessionID, "stage", stage.Tag())

	if !stage.Valid() {
		log.Error("Unknown stage, restarting at onboarding")
		stage = journey.StageOnboarding
	}

	if stage.IsTerminal() {
		next := sc.Clone()
		out := CompleteSummary(next)
		next.AppendExchange(sc.UserMessage, out)
		return &Result{Output: out, NextStage: journey.StageComplete, Context: next}
	}

	start := time.Now()
	out, err := e.generate(ctx, sessionID, stage, sc)
	if err != nil {
		log.Warn("Stage generation failed",
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return &Result{
			Output:    RetryMessage(stage),
			NextStage: stage,
			Context:   sc.Clone(),
			Err:       err,
		}
	}
	log.Info("Stage output generated",
		"duration_ms", time.Since(start).Milliseconds(),
		"output_length", len(out))

	next := sc.Clone()
	next.SetStageOutput(stage, out)
	next.AppendExchange(sc.UserMessage, out)

	res := &Result{Output: out, NextStage: stage, Context: next}
	if e.classifier == nil || !e.classifier.Ready(stage, next) {
		return res
	}

	d := e.classifier.Classify(ctx, sc.UserMessage, stage, next.RecentHistory(e.opts.HistoryWindow))
	next.ApplyFacts(d.Facts)
	res.Decision = d
	res.Classified = true
	if d.ShouldProceed {
		res.NextStage = stage.Next()
		res.Advanced = true
		log.Info("Advancing journey",
			"next_stage", res.NextStage.Tag(),
			"confidence", d.Confidence)
	}
	return res
}

func (e *Executor) generate(ctx context.Context, sessionID string, stage journey.Stage, sc *journey.StageContext) (string, error) {
	gen := e.stages[stage]
	if gen == nil {
		return "", fmt.Errorf("%w: %s", ErrNoGenerator, stage.Tag())
	}

	gctx, cancel := context.WithTimeout(ctx, e.opts.GenerationTimeout)
	defer cancel()

	out, err := gen.Generate(gctx, stage, BuildInput(sessionID, stage, sc, e.opts.HistoryWindow))
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if IsGarbage(out) {
		return "", ErrGarbageOutput
	}
	return out, nil
}

// IsGarbage reports whether text is empty or has no letter or digit.
func IsGarbage(text string) bool {
	return !strings.ContainsFunc(text, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	})
}

// RetryMessage is shown when a stage agent fails.
func RetryMessage(stage journey.Stage) string {
	return fmt.Sprintf("Sorry, I ran into a problem while working on the %s step. "+
		"Could you send your last message again?", stage)
}

// CompleteSummary is the fixed reply for sessions that finished the journey.
func CompleteSummary(sc *journey.StageContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 Congratulations, %s! You've completed the venture creation journey.\n\n", sc.UserName)
	b.WriteString("Here's what we built together:\n")
	for _, o := range sc.CompletedOutputs(journey.StageComplete) {
		fmt.Fprintf(&b, "- ✅ %s\n", o.Stage)
	}
	b.WriteString("\nYour build prompt is ready to hand to a coding assistant. ")
	b.WriteString("Start a new session whenever you want to explore another idea.")
	return b.String()
}
