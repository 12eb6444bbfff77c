package intent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ventureforge/ventureforge/pkg/journey"
)

type mockCollaborator struct {
	reply   string
	err     error
	delay   time.Duration
	prompts []string
}

func (m *mockCollaborator) Classify(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.reply, m.err
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		proceed bool
		conf    float64
	}{
		{"confident proceed", `{"should_proceed": true, "confidence": 0.9, "reason": "picked idea 2"}`, true, 0.9},
		{"exactly at threshold", `{"should_proceed": true, "confidence": 0.7, "reason": "ok"}`, true, 0.7},
		{"fenced", "```json\n{\"should_proceed\": true, \"confidence\": 0.85, \"reason\": \"yes\"}\n```", true, 0.85},
		{"surrounded by prose", `Sure. {"should_proceed": true, "confidence": 0.8, "reason": "go"} Let me know.`, true, 0.8},
		{"below threshold proceed", `{"should_proceed": true, "confidence": 0.65, "reason": "maybe"}`, false, 0.0},
		{"explicit stay keeps confidence", `{"should_proceed": false, "confidence": 0.95, "reason": "has questions"}`, false, 0.95},
		{"not json", "I think they want to continue", false, 0.0},
		{"empty", "", false, 0.0},
		{"confidence above one", `{"should_proceed": true, "confidence": 1.5}`, false, 0.0},
		{"negative confidence", `{"should_proceed": true, "confidence": -0.2}`, false, 0.0},
		{"confidence as string", `{"should_proceed": true, "confidence": "high"}`, false, 0.0},
		{"missing confidence", `{"should_proceed": true}`, false, 0.0},
		{"missing should_proceed", `{"confidence": 0.9}`, false, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ParseDecision(tt.reply, DefaultThreshold)
			assert.Equal(t, tt.proceed, d.ShouldProceed)
			assert.Equal(t, tt.conf, d.Confidence)
			assert.NotEmpty(t, d.Reason)
		})
	}
}

func TestParseDecision_Facts(t *testing.T) {
	d := ParseDecision(`{"should_proceed": true, "confidence": 0.9, "reason": "chose",
		"facts": {"startup_idea": "Carbon ledger", "industry_focus": ""}}`, DefaultThreshold)
	require.True(t, d.ShouldProceed)
	assert.Equal(t, "Carbon ledger", d.Facts.StartupIdea)
	assert.Empty(t, d.Facts.IndustryFocus)

	low := ParseDecision(`{"should_proceed": true, "confidence": 0.2, "reason": "?", "facts": {"user_name": "Ada"}}`, DefaultThreshold)
	assert.False(t, low.ShouldProceed)
	assert.Equal(t, "Ada", low.Facts.UserName, "facts survive a below-threshold vote")
}

func TestParseDecision_CustomThreshold(t *testing.T) {
	reply := `{"should_proceed": true, "confidence": 0.6, "reason": "ok"}`
	assert.False(t, ParseDecision(reply, 0.7).ShouldProceed)
	assert.True(t, ParseDecision(reply, 0.5).ShouldProceed)
}

func TestClassifier_Classify(t *testing.T) {
	history := []journey.Message{
		{Role: journey.RoleUser, Content: "I'm Ada"},
		{Role: journey.RoleAssistant, Content: "Here are five ideas"},
	}

	t.Run("proceeds on confident reply", func(t *testing.T) {
		m := &mockCollaborator{reply: `{"should_proceed": true, "confidence": 0.9, "reason": "picked #2"}`}
		d := NewClassifier(m, Config{}).Classify(context.Background(), "let's go with #2", journey.StageIdeaGeneration, history)

		assert.Equal(t, Decision{ShouldProceed: true, Confidence: 0.9, Reason: "picked #2"}, d)
		require.Len(t, m.prompts, 1)
		assert.Contains(t, m.prompts[0], "Idea Generation")
		assert.Contains(t, m.prompts[0], "let's go with #2")
		assert.Contains(t, m.prompts[0], "Here are five ideas")
	})

	t.Run("transport failure stays", func(t *testing.T) {
		m := &mockCollaborator{err: errors.New("connection refused")}
		d := NewClassifier(m, Config{}).Classify(context.Background(), "next", journey.StageValidation, nil)
		assert.False(t, d.ShouldProceed)
		assert.Equal(t, 0.0, d.Confidence)
		assert.Equal(t, "classification unavailable", d.Reason)
	})

	t.Run("timeout stays", func(t *testing.T) {
		m := &mockCollaborator{reply: `{"should_proceed": true, "confidence": 1}`, delay: time.Second}
		c := NewClassifier(m, Config{Timeout: 10 * time.Millisecond})
		d := c.Classify(context.Background(), "next", journey.StageValidation, nil)
		assert.Equal(t, Stay("classification timed out"), d)
	})

	t.Run("nil collaborator stays", func(t *testing.T) {
		d := NewClassifier(nil, Config{}).Classify(context.Background(), "next", journey.StageValidation, nil)
		assert.False(t, d.ShouldProceed)
	})

	t.Run("history window is bounded", func(t *testing.T) {
		long := make([]journey.Message, 30)
		for i := range long {
			long[i] = journey.Message{Role: journey.RoleUser, Content: "msg"}
		}
		long[0].Content = "oldest-message"
		long[29].Content = "newest-message"

		m := &mockCollaborator{reply: `{"should_proceed": false, "confidence": 0.5}`}
		NewClassifier(m, Config{HistoryWindow: 5}).Classify(context.Background(), "hm", journey.StageRequirements, long)

		assert.NotContains(t, m.prompts[0], "oldest-message")
		assert.Contains(t, m.prompts[0], "newest-message")
	})
}

func TestConfigDefaults(t *testing.T) {
	c := NewClassifier(nil, Config{Threshold: 3})
	assert.Equal(t, DefaultThreshold, c.Threshold())
	assert.Equal(t, DefaultHistoryWindow, c.cfg.HistoryWindow)
	assert.Equal(t, DefaultMinOnboardingMessages, c.cfg.MinOnboardingMessages)
	assert.Equal(t, DefaultTimeout, c.cfg.Timeout)

	assert.Equal(t, 0.8, NewClassifier(nil, Config{Threshold: 0.8}).Threshold())
}

func TestReadyToClassify(t *testing.T) {
	withSummary := func(messages int) *journey.StageContext {
		sc := journey.New()
		sc.OnboardingSummary = "Ada, climate"
		for i := 0; i < messages; i++ {
			sc.History = append(sc.History, journey.Message{Role: journey.RoleUser, Content: "x"})
		}
		return sc
	}

	assert.False(t, ReadyToClassify(journey.StageOnboarding, journey.New(), 2), "fresh session")
	assert.False(t, ReadyToClassify(journey.StageOnboarding, withSummary(1), 2), "one message is not an exchange")
	assert.True(t, ReadyToClassify(journey.StageOnboarding, withSummary(2), 2))

	noSummary := withSummary(4)
	noSummary.OnboardingSummary = " "
	assert.False(t, ReadyToClassify(journey.StageOnboarding, noSummary, 2))
	assert.False(t, ReadyToClassify(journey.StageOnboarding, nil, 2))

	assert.True(t, ReadyToClassify(journey.StageValidation, journey.New(), 2), "guard only applies to onboarding")
	assert.False(t, ReadyToClassify(journey.StageComplete, withSummary(10), 2))
	assert.False(t, ReadyToClassify(journey.Stage(99), withSummary(10), 2))

	c := NewClassifier(nil, Config{MinOnboardingMessages: 4})
	assert.False(t, c.Ready(journey.StageOnboarding, withSummary(3)))
	assert.True(t, c.Ready(journey.StageOnboarding, withSummary(4)))
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("sounds great", journey.StageOnboarding, nil)
	assert.Contains(t, p, "Onboarding")
	assert.Contains(t, p, "sounds great")
	assert.Contains(t, p, "should_proceed")
	assert.NotContains(t, p, "Recent conversation")
}
