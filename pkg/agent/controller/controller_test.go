package controller

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ventureforge/ventureforge/pkg/agent"
	"github.com/ventureforge/ventureforge/pkg/agent/prompt"
	"github.com/ventureforge/ventureforge/pkg/config"
	"github.com/ventureforge/ventureforge/pkg/journey"
	"github.com/ventureforge/ventureforge/pkg/orchestrator"
)

// mockLLMClient answers by purpose and records every input.
type mockLLMClient struct {
	mu      sync.Mutex
	replies map[string][]agent.Chunk
	inputs  []*agent.GenerateInput
}

func newMockLLMClient() *mockLLMClient {
	return &mockLLMClient{replies: make(map[string][]agent.Chunk)}
}

func (m *mockLLMClient) on(purposePrefix string, chunks ...agent.Chunk) *mockLLMClient {
	m.replies[purposePrefix] = chunks
	return m
}

func (m *mockLLMClient) Generate(_ context.Context, input *agent.GenerateInput) (<-chan agent.Chunk, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	var chunks []agent.Chunk
	for prefix, c := range m.replies {
		if strings.HasPrefix(input.Purpose, prefix) {
			chunks = c
		}
	}
	m.mu.Unlock()

	ch := make(chan agent.Chunk, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func (m *mockLLMClient) Close() error { return nil }

func (m *mockLLMClient) lastInput() *agent.GenerateInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.inputs) == 0 {
		return nil
	}
	return m.inputs[len(m.inputs)-1]
}

func text(s string) agent.Chunk { return &agent.TextChunk{Content: s} }

var testProvider = &config.LLMProviderConfig{Type: config.LLMProviderTypeGoogle, Model: "gemini-2.5-flash"}

func TestStageController_Generate(t *testing.T) {
	client := newMockLLMClient().on("stage:", text("Here are "), text("five ideas."))
	temp := float32(0.9)
	ctrl := NewStageController(client, testProvider,
		&config.StageConfig{CustomInstructions: "Favour B2B ideas.", Temperature: &temp},
		prompt.NewPromptBuilder())

	out, err := ctrl.Generate(context.Background(), journey.StageIdeaGeneration, &orchestrator.StageInput{
		SessionID:   "sess-1",
		Stage:       journey.StageIdeaGeneration,
		UserName:    "Ada",
		UserMessage: "Give me ideas",
	})

	require.NoError(t, err)
	assert.Equal(t, "Here are five ideas.", out)

	in := client.lastInput()
	require.NotNil(t, in)
	assert.Equal(t, "stage:idea_generation", in.Purpose)
	assert.Equal(t, "sess-1", in.SessionID)
	assert.Same(t, testProvider, in.Config)
	assert.Equal(t, &temp, in.Temperature)
	assert.False(t, in.JSONResponse)
	assert.Contains(t, in.Messages[0].Content, "Favour B2B ideas.")
}

func TestStageController_NilStageConfig(t *testing.T) {
	client := newMockLLMClient().on("stage:", text("Welcome!"))
	ctrl := NewStageController(client, testProvider, nil, prompt.NewPromptBuilder())

	out, err := ctrl.Generate(context.Background(), journey.StageOnboarding, &orchestrator.StageInput{Stage: journey.StageOnboarding})
	require.NoError(t, err)
	assert.Equal(t, "Welcome!", out)
	assert.Nil(t, client.lastInput().Temperature)
}

func TestSingleShot(t *testing.T) {
	t.Run("thinking fallback", func(t *testing.T) {
		client := newMockLLMClient().on("stage:", &agent.ThinkingChunk{Content: "only thoughts"})
		out, err := singleShot(context.Background(), client, &agent.GenerateInput{Purpose: "stage:onboarding"})
		require.NoError(t, err)
		assert.Equal(t, "only thoughts", out)
	})

	t.Run("empty response", func(t *testing.T) {
		client := newMockLLMClient()
		_, err := singleShot(context.Background(), client, &agent.GenerateInput{Purpose: "stage:onboarding"})
		assert.ErrorIs(t, err, agent.ErrEmptyResponse)
	})

	t.Run("provider error", func(t *testing.T) {
		client := newMockLLMClient().on("research", &agent.ErrorChunk{Message: "quota", Code: "429"})
		_, err := singleShot(context.Background(), client, &agent.GenerateInput{Purpose: "research"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "research LLM call failed")
		assert.Contains(t, err.Error(), "quota")
	})
}

func TestClassifierController_Classify(t *testing.T) {
	reply := `{"should_proceed": true, "confidence": 0.9, "reason": "picked idea 2"}`
	client := newMockLLMClient().on("classifier", text(reply))
	ctrl := NewClassifierController(client, testProvider, prompt.NewPromptBuilder())

	ctx := orchestrator.WithSessionID(context.Background(), "sess-9")
	out, err := ctrl.Classify(ctx, "Should the founder advance?")

	require.NoError(t, err)
	assert.Equal(t, reply, out)

	in := client.lastInput()
	assert.Equal(t, "sess-9", in.SessionID)
	assert.True(t, in.JSONResponse)
	assert.Same(t, DecisionSchema, in.ResponseSchema)
	require.NotNil(t, in.Temperature)
	assert.Zero(t, *in.Temperature)
	assert.Equal(t, "Should the founder advance?", in.Messages[1].Content)
}

func TestResearchController_Research(t *testing.T) {
	client := newMockLLMClient().on("research", text(`{"tam": "$5 billion"}`))
	ctrl := NewResearchController(client, testProvider, prompt.NewPromptBuilder())

	out, err := ctrl.Research(context.Background(), "Total addressable market for pet insurance")

	require.NoError(t, err)
	assert.Equal(t, `{"tam": "$5 billion"}`, out)
	in := client.lastInput()
	assert.True(t, in.EnableSearch)
	assert.True(t, in.JSONResponse)
	assert.Contains(t, in.Messages[1].Content, "pet insurance")
}
