package config

// LLMProviderType defines supported LLM providers
type LLMProviderType string

const (
	// LLMProviderTypeGoogle is Google Gemini API
	LLMProviderTypeGoogle LLMProviderType = "google"
	// LLMProviderTypeVertexAI is Google Vertex AI
	LLMProviderTypeVertexAI LLMProviderType = "vertexai"
	// LLMProviderTypeOpenAI is OpenAI API (served by the LLM service)
	LLMProviderTypeOpenAI LLMProviderType = "openai"
	// LLMProviderTypeAnthropic is Anthropic API (served by the LLM service)
	LLMProviderTypeAnthropic LLMProviderType = "anthropic"
)

// IsValid checks if the LLM provider type is valid
func (t LLMProviderType) IsValid() bool {
	switch t {
	case LLMProviderTypeGoogle,
		LLMProviderTypeVertexAI,
		LLMProviderTypeOpenAI,
		LLMProviderTypeAnthropic:
		return true
	default:
		return false
	}
}

// LLMBackend selects how a provider is reached.
type LLMBackend string

const (
	// LLMBackendGenAI calls Gemini directly through the genai SDK
	LLMBackendGenAI LLMBackend = "genai"
	// LLMBackendService streams through the gRPC LLM service
	LLMBackendService LLMBackend = "llm-service"
)

// IsValid checks if the backend is valid
func (b LLMBackend) IsValid() bool {
	return b == LLMBackendGenAI || b == LLMBackendService
}

// GoogleNativeTool defines Google/Gemini native tools
type GoogleNativeTool string

const (
	// GoogleNativeToolGoogleSearch enables Google Search grounding
	GoogleNativeToolGoogleSearch GoogleNativeTool = "google_search"
	// GoogleNativeToolURLContext enables URL context fetching
	GoogleNativeToolURLContext GoogleNativeTool = "url_context"
)

// IsValid checks if the Google native tool is valid
func (t GoogleNativeTool) IsValid() bool {
	return t == GoogleNativeToolGoogleSearch || t == GoogleNativeToolURLContext
}
