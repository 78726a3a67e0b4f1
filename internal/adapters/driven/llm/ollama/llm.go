// Package ollama provides a tool-calling LLM adapter using the Ollama
// chat API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/courseqa/internal/core/domain"
	"github.com/custodia-labs/courseqa/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the LLM model to use (default: llama3.2).
	// The model must support tool calling.
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides tool-calling LLM operations using Ollama.
type LLMService struct {
	client  *http.Client
	baseURL string
	model   string
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Tools    []chatTool    `json:"tools,omitempty"`
	Options  *options      `json:"options,omitempty"`
}

// options holds generation parameters.
type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// chatMessage is the Ollama chat message format.
type chatMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []chatToolCall `json:"tool_calls,omitempty"`
}

// chatTool mirrors the OpenAI function tool shape Ollama adopted.
type chatTool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Parameters  map[string]any `json:"parameters"`
	} `json:"function"`
}

// chatToolCall is a model-requested function call. Arguments is a JSON
// object, unlike OpenAI's encoded string.
type chatToolCall struct {
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

// chatResponse is the Ollama /api/chat response format.
type chatResponse struct {
	Message    chatMessage `json:"message"`
	Done       bool        `json:"done"`
	DoneReason string      `json:"done_reason"`
	Error      string      `json:"error,omitempty"`
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// Messages sends one conversation turn to the model.
func (s *LLMService) Messages(ctx context.Context, req driven.MessagesRequest) (*driven.ModelResponse, error) {
	reqBody := chatRequest{
		Model:    s.model,
		Messages: toChatMessages(req.System, req.Messages),
		Stream:   false,
		Tools:    toChatTools(req.Tools),
	}
	if req.MaxTokens > 0 || req.Temperature > 0 {
		reqBody.Options = &options{
			NumPredict:  req.MaxTokens,
			Temperature: req.Temperature,
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/chat",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", chatResp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	return fromChatResponse(&chatResp), nil
}

// toChatMessages flattens port messages to the Ollama shape.
func toChatMessages(system string, messages []driven.Message) []chatMessage {
	var out []chatMessage
	if system != "" {
		out = append(out, chatMessage{Role: "system", Content: system})
	}

	for _, msg := range messages {
		converted := chatMessage{Role: msg.Role}
		for _, block := range msg.Content {
			switch block.Type {
			case driven.BlockText:
				converted.Content += block.Text
			case driven.BlockToolUse:
				if block.ToolUse == nil {
					continue
				}
				var call chatToolCall
				call.Function.Name = block.ToolUse.Name
				call.Function.Arguments = block.ToolUse.Input
				converted.ToolCalls = append(converted.ToolCalls, call)
			case driven.BlockToolResult:
				if block.ToolResult == nil {
					continue
				}
				out = append(out, chatMessage{
					Role:    "tool",
					Content: block.ToolResult.Content,
				})
			}
		}
		if converted.Content != "" || len(converted.ToolCalls) > 0 {
			out = append(out, converted)
		}
	}
	return out
}

// toChatTools converts tool definitions to the Ollama format.
func toChatTools(tools []domain.ToolDefinition) []chatTool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]chatTool, len(tools))
	for i, tool := range tools {
		out[i].Type = "function"
		out[i].Function.Name = tool.Name
		out[i].Function.Description = tool.Description
		out[i].Function.Parameters = tool.InputSchema
	}
	return out
}

// fromChatResponse converts an API response to the port format.
// Ollama does not assign tool call IDs, so synthetic ones keep the
// orchestrator's result matching intact.
func fromChatResponse(resp *chatResponse) *driven.ModelResponse {
	out := &driven.ModelResponse{StopReason: driven.StopEndTurn}

	if resp.Message.Content != "" {
		out.Content = append(out.Content, driven.TextBlock(resp.Message.Content))
	}
	for i, call := range resp.Message.ToolCalls {
		out.Content = append(out.Content, driven.ContentBlock{
			Type: driven.BlockToolUse,
			ToolUse: &domain.ToolCall{
				ID:    fmt.Sprintf("call_%d", i),
				Name:  call.Function.Name,
				Input: call.Function.Arguments,
			},
		})
	}
	if len(resp.Message.ToolCalls) > 0 {
		out.StopReason = driven.StopToolUse
	}
	return out
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the version endpoint.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/version", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: API returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
