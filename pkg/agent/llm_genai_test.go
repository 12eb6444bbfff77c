package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/ventureforge/ventureforge/pkg/config"
)

func TestToGenAIRequest(t *testing.T) {
	temp := float32(0.9)
	input := &GenerateInput{
		Messages: []ConversationMessage{
			{Role: RoleSystem, Content: "You are a startup coach."},
			{Role: RoleSystem, Content: "Be concise."},
			{Role: RoleUser, Content: "Hi"},
			{Role: RoleAssistant, Content: "Hello!"},
			{Role: RoleUser, Content: "Give me ideas"},
		},
		Config:      &config.LLMProviderConfig{Type: config.LLMProviderTypeGoogle, Model: "gemini-2.5-flash", MaxOutputTokens: 4096},
		Temperature: &temp,
	}

	contents, cfg := toGenAIRequest(input)

	require.Len(t, contents, 3)
	assert.Equal(t, genai.RoleUser, contents[0].Role)
	assert.Equal(t, genai.RoleModel, contents[1].Role)
	assert.Equal(t, "Give me ideas", contents[2].Parts[0].Text)

	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "You are a startup coach.\n\nBe concise.", cfg.SystemInstruction.Parts[0].Text)
	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, float32(0.9), *cfg.Temperature)
	assert.Equal(t, int32(4096), cfg.MaxOutputTokens)
	assert.Empty(t, cfg.Tools)
	assert.Empty(t, cfg.ResponseMIMEType)
}

func TestToGenAIRequest_JSONMode(t *testing.T) {
	schema := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: map[string]*genai.Schema{"ok": {Type: genai.TypeBoolean}},
	}
	_, cfg := toGenAIRequest(&GenerateInput{
		Messages:       []ConversationMessage{{Role: RoleUser, Content: "classify"}},
		JSONResponse:   true,
		ResponseSchema: schema,
	})
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.Same(t, schema, cfg.ResponseSchema)
}

func TestToGenAIRequest_SearchDisablesJSONMode(t *testing.T) {
	provider := &config.LLMProviderConfig{
		Type:  config.LLMProviderTypeGoogle,
		Model: "gemini-2.5-flash",
		NativeTools: map[config.GoogleNativeTool]bool{
			config.GoogleNativeToolGoogleSearch: true,
		},
	}
	_, cfg := toGenAIRequest(&GenerateInput{
		Messages:     []ConversationMessage{{Role: RoleUser, Content: "research"}},
		Config:       provider,
		JSONResponse: true,
		EnableSearch: true,
	})
	require.Len(t, cfg.Tools, 1)
	assert.NotNil(t, cfg.Tools[0].GoogleSearch)
	assert.Empty(t, cfg.ResponseMIMEType)
}

func TestToGenAIRequest_SearchNotEnabledOnProvider(t *testing.T) {
	provider := &config.LLMProviderConfig{Type: config.LLMProviderTypeGoogle, Model: "gemini-2.5-flash"}
	_, cfg := toGenAIRequest(&GenerateInput{
		Messages:     []ConversationMessage{{Role: RoleUser, Content: "research"}},
		Config:       provider,
		JSONResponse: true,
		EnableSearch: true,
	})
	assert.Empty(t, cfg.Tools)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
}

func TestChunksFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: genai.RoleModel,
				Parts: []*genai.Part{
					{Text: "weighing options", Thought: true},
					{Text: "Here are three ideas"},
					{Text: ""},
				},
			},
		}},
	}

	chunks := chunksFromResponse(resp)
	require.Len(t, chunks, 2)
	assert.Equal(t, &ThinkingChunk{Content: "weighing options"}, chunks[0])
	assert.Equal(t, &TextChunk{Content: "Here are three ideas"}, chunks[1])

	assert.Nil(t, chunksFromResponse(nil))
	assert.Nil(t, chunksFromResponse(&genai.GenerateContentResponse{}))
}
