package agent

import (
	"context"

	"google.golang.org/genai"

	"github.com/ventureforge/ventureforge/pkg/config"
)

// LLMClient is the Go-side interface for calling a model.
// Implementations stream the reply as a channel of chunks.
type LLMClient interface {
	// Generate sends a conversation to the LLM and returns a stream of chunks.
	// The returned channel is closed when the stream completes.
	// Errors are delivered as ErrorChunk values in the channel.
	Generate(ctx context.Context, input *GenerateInput) (<-chan Chunk, error)

	// Close releases the underlying connection.
	Close() error
}

// GenerateInput is one Generate request.
type GenerateInput struct {
	SessionID string
	// Purpose tags the call for logging ("stage:validation", "classifier", ...).
	Purpose  string
	Messages []ConversationMessage
	Config   *config.LLMProviderConfig

	// Temperature overrides the provider default when set.
	Temperature *float32
	// JSONResponse asks the provider for a bare JSON object reply.
	JSONResponse bool
	// ResponseSchema constrains a JSON reply on providers that support it.
	ResponseSchema *genai.Schema
	// EnableSearch turns on web search grounding where the provider supports it.
	EnableSearch bool
}

// ConversationMessage is the Go-side message type.
type ConversationMessage struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// Chunk is the interface for all streaming chunk types.
type Chunk interface {
	chunkType() ChunkType
}

// ChunkType identifies the kind of streaming chunk.
type ChunkType string

const (
	ChunkTypeText     ChunkType = "text"
	ChunkTypeThinking ChunkType = "thinking"
	ChunkTypeUsage    ChunkType = "usage"
	ChunkTypeError    ChunkType = "error"
)

// TextChunk is a chunk of the LLM's text response.
type TextChunk struct{ Content string }

// ThinkingChunk is a chunk of the LLM's internal reasoning.
type ThinkingChunk struct{ Content string }

// UsageChunk reports token consumption for this LLM call.
type UsageChunk struct{ InputTokens, OutputTokens, TotalTokens, ThinkingTokens int }

// ErrorChunk signals an error from the LLM provider.
type ErrorChunk struct {
	Message   string
	Code      string
	Retryable bool
}

func (c *TextChunk) chunkType() ChunkType     { return ChunkTypeText }
func (c *ThinkingChunk) chunkType() ChunkType { return ChunkTypeThinking }
func (c *UsageChunk) chunkType() ChunkType    { return ChunkTypeUsage }
func (c *ErrorChunk) chunkType() ChunkType    { return ChunkTypeError }
