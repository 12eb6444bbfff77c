package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ventureforge/ventureforge/pkg/config"
	"github.com/ventureforge/ventureforge/pkg/version"
)

// GenerateMethod is the full gRPC method name of the LLM service's
// server-streaming Generate call. Requests and responses are
// google.protobuf.Struct messages.
const GenerateMethod = "/llm.v1.LLMService/Generate"

var generateStreamDesc = &grpc.StreamDesc{
	StreamName:    "Generate",
	ServerStreams: true,
}

// GRPCLLMClient implements LLMClient by calling the LLM service via gRPC.
// It serves the providers the genai SDK cannot reach (OpenAI, Anthropic).
type GRPCLLMClient struct {
	conn *grpc.ClientConn
}

// NewGRPCLLMClient creates a new gRPC LLM client. Extra dial options are
// appended after the default insecure transport credentials.
func NewGRPCLLMClient(addr string, opts ...grpc.DialOption) (*GRPCLLMClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LLM service at %s: %w", addr, err)
	}
	return &GRPCLLMClient{conn: conn}, nil
}

// Generate sends a conversation to the LLM and returns a channel of chunks.
func (c *GRPCLLMClient) Generate(ctx context.Context, input *GenerateInput) (<-chan Chunk, error) {
	req, err := toRequestStruct(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode Generate request: %w", err)
	}

	stream, err := c.conn.NewStream(ctx, generateStreamDesc, GenerateMethod)
	if err != nil {
		return nil, fmt.Errorf("gRPC Generate call failed: %w", err)
	}
	if err := stream.SendMsg(req); err != nil {
		return nil, fmt.Errorf("gRPC Generate send failed: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return nil, fmt.Errorf("gRPC Generate close-send failed: %w", err)
	}

	ch := make(chan Chunk, 32)
	go func() {
		defer close(ch)
		for {
			resp := &structpb.Struct{}
			err := stream.RecvMsg(resp)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				select {
				case ch <- &ErrorChunk{Message: err.Error(), Retryable: false}:
				case <-ctx.Done():
				}
				return
			}
			chunk := fromResponseStruct(resp)
			if chunk != nil {
				select {
				case ch <- chunk:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// Close releases the gRPC connection.
func (c *GRPCLLMClient) Close() error {
	return c.conn.Close()
}

// ────────────────────────────────────────────────────────────
// Wire conversion helpers
// ────────────────────────────────────────────────────────────

func toRequestStruct(input *GenerateInput) (*structpb.Struct, error) {
	messages := make([]any, len(input.Messages))
	for i, m := range input.Messages {
		messages[i] = map[string]any{
			"role":    m.Role,
			"content": m.Content,
		}
	}
	req := map[string]any{
		"session_id":    input.SessionID,
		"purpose":       input.Purpose,
		"messages":      messages,
		"json_response": input.JSONResponse,
		"enable_search": input.EnableSearch,
		"client":        version.Full(),
	}
	if input.Temperature != nil {
		req["temperature"] = float64(*input.Temperature)
	}
	if input.Config != nil {
		req["llm_config"] = toLLMConfigMap(input.Config)
	}
	return structpb.NewStruct(req)
}

func toLLMConfigMap(cfg *config.LLMProviderConfig) map[string]any {
	pc := map[string]any{
		"provider":    string(cfg.Type),
		"model":       cfg.Model,
		"api_key_env": cfg.APIKeyEnv,
		"base_url":    cfg.BaseURL,
	}
	if cfg.MaxOutputTokens > 0 {
		pc["max_output_tokens"] = cfg.MaxOutputTokens
	}
	// Resolve VertexAI fields
	if cfg.ProjectEnv != "" {
		pc["project"] = os.Getenv(cfg.ProjectEnv)
	}
	if cfg.LocationEnv != "" {
		pc["location"] = os.Getenv(cfg.LocationEnv)
	}
	// Map native tools
	if len(cfg.NativeTools) > 0 {
		tools := make(map[string]any, len(cfg.NativeTools))
		for tool, enabled := range cfg.NativeTools {
			tools[string(tool)] = enabled
		}
		pc["native_tools"] = tools
	}
	return pc
}

func fromResponseStruct(resp *structpb.Struct) Chunk {
	fields := resp.GetFields()
	str := func(key string) string { return fields[key].GetStringValue() }
	num := func(key string) int { return int(fields[key].GetNumberValue()) }

	switch ChunkType(str("type")) {
	case ChunkTypeText:
		return &TextChunk{Content: str("content")}
	case ChunkTypeThinking:
		return &ThinkingChunk{Content: str("content")}
	case ChunkTypeUsage:
		return &UsageChunk{
			InputTokens:    num("input_tokens"),
			OutputTokens:   num("output_tokens"),
			TotalTokens:    num("total_tokens"),
			ThinkingTokens: num("thinking_tokens"),
		}
	case ChunkTypeError:
		return &ErrorChunk{
			Message:   str("message"),
			Code:      str("code"),
			Retryable: fields["retryable"].GetBoolValue(),
		}
	default:
		return nil
	}
}
