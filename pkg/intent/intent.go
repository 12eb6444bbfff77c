// Package intent decides whether the founder is ready to leave the current
// journey stage. It asks a reasoning collaborator for a JSON verdict and
// fails closed: anything short of a confident, well-formed "proceed"
// keeps the session where it is.
package intent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/ventureforge/ventureforge/pkg/journey"
	"github.com/ventureforge/ventureforge/pkg/llmjson"
)

// Defaults used when Config leaves a field at its zero value.
const (
	DefaultThreshold             = 0.7
	DefaultHistoryWindow         = 10
	DefaultMinOnboardingMessages = 2
	DefaultTimeout               = 30 * time.Second
)

// Collaborator is the reasoning service that answers a classification prompt.
type Collaborator interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

// Decision is the classifier verdict for one turn.
type Decision struct {
	ShouldProceed bool
	Confidence    float64
	Reason        string
	// Facts carries optional session facts noticed in the conversation.
	Facts journey.Facts
}

// Stay is the fail-closed decision.
func Stay(reason string) Decision {
	return Decision{ShouldProceed: false, Confidence: 0.0, Reason: reason}
}

// Config tunes a Classifier.
type Config struct {
	Threshold             float64
	HistoryWindow         int
	MinOnboardingMessages int
	Timeout               time.Duration
}

func (c Config) withDefaults() Config {
	if c.Threshold <= 0 || c.Threshold > 1 {
		c.Threshold = DefaultThreshold
	}
	if c.HistoryWindow <= 0 {
		c.HistoryWindow = DefaultHistoryWindow
	}
	if c.MinOnboardingMessages <= 0 {
		c.MinOnboardingMessages = DefaultMinOnboardingMessages
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Classifier turns collaborator replies into advancement decisions.
type Classifier struct {
	collaborator Collaborator
	cfg          Config
}

// NewClassifier creates a Classifier; zero Config fields take defaults.
func NewClassifier(collaborator Collaborator, cfg Config) *Classifier {
	return &Classifier{collaborator: collaborator, cfg: cfg.withDefaults()}
}

// Threshold returns the effective advancement threshold.
func (c *Classifier) Threshold() float64 { return c.cfg.Threshold }

// Ready applies the minimum-context guard with the configured minimum.
func (c *Classifier) Ready(stage journey.Stage, sc *journey.StageContext) bool {
	return ReadyToClassify(stage, sc, c.cfg.MinOnboardingMessages)
}

// ReadyToClassify reports whether there is enough context to consider
// leaving stage. Leaving Onboarding needs a stored onboarding summary and
// at least minMessages history entries; Complete never advances.
func ReadyToClassify(stage journey.Stage, sc *journey.StageContext, minMessages int) bool {
	switch stage {
	case journey.StageComplete:
		return false
	case journey.StageOnboarding:
		if sc == nil {
			return false
		}
		return strings.TrimSpace(sc.OnboardingSummary) != "" && len(sc.History) >= minMessages
	default:
		return stage.Valid()
	}
}

// Classify asks the collaborator whether userMessage signals readiness to
// leave stage. It never returns an error; failures yield Stay.
func (c *Classifier) Classify(ctx context.Context, userMessage string, stage journey.Stage, history []journey.Message) Decision {
	log := slog.With("stage", stage.Tag())

	if c.collaborator == nil {
		return Stay("no classification collaborator configured")
	}

	prompt := BuildPrompt(userMessage, stage, window(history, c.cfg.HistoryWindow))

	cctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	reply, err := c.collaborator.Classify(cctx, prompt)
	if err != nil {
		reason := "classification unavailable"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "classification timed out"
		}
		log.Warn("Intent classification failed",
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return Stay(reason)
	}

	d := ParseDecision(reply, c.cfg.Threshold)
	log.Debug("Intent classified",
		"should_proceed", d.ShouldProceed,
		"confidence", d.Confidence,
		"reason", d.Reason,
		"duration_ms", time.Since(start).Milliseconds())
	return d
}

type rawDecision struct {
	ShouldProceed *bool         `json:"should_proceed"`
	Confidence    *float64      `json:"confidence"`
	Reason        string        `json:"reason"`
	Facts         journey.Facts `json:"facts"`
}

// ParseDecision interprets a collaborator reply. The JSON object may be
// fenced or embedded in prose. A proceed vote below threshold, a missing
// field or an out-of-range confidence all fail closed.
func ParseDecision(reply string, threshold float64) Decision {
	var raw rawDecision
	if err := llmjson.Decode(reply, &raw); err != nil {
		return Stay(fmt.Sprintf("unparseable classification reply: %v", err))
	}
	if raw.ShouldProceed == nil || raw.Confidence == nil {
		return Stay("classification reply missing should_proceed or confidence")
	}
	conf := *raw.Confidence
	if math.IsNaN(conf) || conf < 0 || conf > 1 {
		return Stay(fmt.Sprintf("classification confidence %v out of range", conf))
	}

	if *raw.ShouldProceed && conf < threshold {
		d := Stay(fmt.Sprintf("proceed vote below threshold (%.2f < %.2f): %s", conf, threshold, raw.Reason))
		d.Facts = raw.Facts
		return d
	}
	return Decision{
		ShouldProceed: *raw.ShouldProceed,
		Confidence:    conf,
		Reason:        raw.Reason,
		Facts:         raw.Facts,
	}
}

func window(history []journey.Message, n int) []journey.Message {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
