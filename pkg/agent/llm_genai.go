package agent

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/ventureforge/ventureforge/pkg/config"
)

// GenAIClient implements LLMClient on the Gemini API or Vertex AI through
// the genai SDK.
type GenAIClient struct {
	client *genai.Client
	model  string
}

// NewGenAIClient creates a client for a google or vertexai provider.
// Credentials are read from the environment variables the provider names.
func NewGenAIClient(ctx context.Context, provider *config.LLMProviderConfig) (*GenAIClient, error) {
	cc := &genai.ClientConfig{}
	switch provider.Type {
	case config.LLMProviderTypeVertexAI:
		cc.Backend = genai.BackendVertexAI
		cc.Project = os.Getenv(provider.ProjectEnv)
		cc.Location = os.Getenv(provider.LocationEnv)
	default:
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = os.Getenv(provider.APIKeyEnv)
	}
	if provider.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: provider.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client for model %s: %w", provider.Model, err)
	}
	return &GenAIClient{client: client, model: provider.Model}, nil
}

// Generate streams a Gemini reply as chunks.
func (c *GenAIClient) Generate(ctx context.Context, input *GenerateInput) (<-chan Chunk, error) {
	model := c.model
	if input.Config != nil && input.Config.Model != "" {
		model = input.Config.Model
	}
	contents, cfg := toGenAIRequest(input)
	if len(contents) == 0 {
		return nil, fmt.Errorf("genai request for %s has no user content", model)
	}

	ch := make(chan Chunk, 32)
	go func() {
		defer close(ch)
		send := func(chunk Chunk) bool {
			select {
			case ch <- chunk:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var usage *genai.GenerateContentResponseUsageMetadata
		for resp, err := range c.client.Models.GenerateContentStream(ctx, model, contents, cfg) {
			if err != nil {
				send(&ErrorChunk{Message: err.Error(), Retryable: false})
				return
			}
			for _, chunk := range chunksFromResponse(resp) {
				if !send(chunk) {
					return
				}
			}
			if resp.UsageMetadata != nil {
				usage = resp.UsageMetadata
			}
		}
		if usage != nil {
			send(&UsageChunk{
				InputTokens:    int(usage.PromptTokenCount),
				OutputTokens:   int(usage.CandidatesTokenCount),
				TotalTokens:    int(usage.TotalTokenCount),
				ThinkingTokens: int(usage.ThoughtsTokenCount),
			})
		}
	}()
	return ch, nil
}

// Close is a no-op; the genai client holds no long-lived connection.
func (c *GenAIClient) Close() error { return nil }

// toGenAIRequest maps the conversation onto genai contents. System messages
// become the system instruction.
func toGenAIRequest(input *GenerateInput) ([]*genai.Content, *genai.GenerateContentConfig) {
	var system []string
	var contents []*genai.Content
	for _, m := range input.Messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	cfg := &genai.GenerateContentConfig{Temperature: input.Temperature}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}
	if input.Config != nil && input.Config.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(input.Config.MaxOutputTokens)
	}

	// Gemini rejects a JSON response mode combined with tools.
	if input.EnableSearch {
		cfg.Tools = searchTools(input.Config)
	}
	if len(cfg.Tools) == 0 && input.JSONResponse {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = input.ResponseSchema
	}
	return contents, cfg
}

func searchTools(provider *config.LLMProviderConfig) []*genai.Tool {
	if provider == nil {
		return []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	var tools []*genai.Tool
	if provider.NativeToolEnabled(config.GoogleNativeToolGoogleSearch) {
		tools = append(tools, &genai.Tool{GoogleSearch: &genai.GoogleSearch{}})
	}
	if provider.NativeToolEnabled(config.GoogleNativeToolURLContext) {
		tools = append(tools, &genai.Tool{URLContext: &genai.URLContext{}})
	}
	return tools
}

// chunksFromResponse splits the first candidate's parts into text and
// thinking chunks.
func chunksFromResponse(resp *genai.GenerateContentResponse) []Chunk {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var chunks []Chunk
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		if part.Thought {
			chunks = append(chunks, &ThinkingChunk{Content: part.Text})
		} else {
			chunks = append(chunks, &TextChunk{Content: part.Text})
		}
	}
	return chunks
}
