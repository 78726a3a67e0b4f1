// Package openai provides a tool-calling LLM adapter using the OpenAI
// chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/courseqa/internal/core/domain"
	"github.com/custodia-labs/courseqa/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second
	defaultMaxTokens  = 800

	requestsPerSecond = 2
)

// LLMConfig holds configuration for the OpenAI LLM service.
type LLMConfig struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the LLM model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides tool-calling LLM operations using the OpenAI API.
type LLMService struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	model   string
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
	Tools       []chatTool          `json:"tools,omitempty"`
}

// chatCompletionMsg is the OpenAI chat message format.
type chatCompletionMsg struct {
	Role       string         `json:"role"`
	Content    string         `json:"content,omitempty"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

// chatTool is the OpenAI function tool format.
type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// chatToolCall is a model-requested function call.
// Arguments is a JSON-encoded string, not an object.
type chatToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message      chatCompletionMsg `json:"message"`
		FinishReason string            `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewLLMService creates a new OpenAI LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
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
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond*2),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Messages sends one conversation turn to the model.
func (s *LLMService) Messages(ctx context.Context, req driven.MessagesRequest) (*driven.ModelResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("openai: rate limit wait: %w", err)
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	reqBody := chatCompletionRequest{
		Model:     s.model,
		Messages:  toChatMessages(req.System, req.Messages),
		MaxTokens: maxTokens,
		Tools:     toChatTools(req.Tools),
	}
	if req.Temperature > 0 {
		reqBody.Temperature = req.Temperature
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: openai API", domain.ErrRateLimited)
	case chatResp.Error != nil:
		return nil, fmt.Errorf("openai error: %s", chatResp.Error.Message)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	case len(chatResp.Choices) == 0:
		return nil, fmt.Errorf("openai: no choices returned")
	}

	return fromChatResponse(&chatResp), nil
}

// toChatMessages flattens port messages to the OpenAI shape: tool
// results become "tool" role messages and tool_use blocks ride on the
// assistant message.
func toChatMessages(system string, messages []driven.Message) []chatCompletionMsg {
	var out []chatCompletionMsg
	if system != "" {
		out = append(out, chatCompletionMsg{Role: "system", Content: system})
	}

	for _, msg := range messages {
		converted := chatCompletionMsg{Role: msg.Role}
		for _, block := range msg.Content {
			switch block.Type {
			case driven.BlockText:
				converted.Content += block.Text
			case driven.BlockToolUse:
				if block.ToolUse == nil {
					continue
				}
				call := chatToolCall{ID: block.ToolUse.ID, Type: "function"}
				call.Function.Name = block.ToolUse.Name
				call.Function.Arguments = string(block.ToolUse.Input)
				converted.ToolCalls = append(converted.ToolCalls, call)
			case driven.BlockToolResult:
				if block.ToolResult == nil {
					continue
				}
				out = append(out, chatCompletionMsg{
					Role:       "tool",
					Content:    block.ToolResult.Content,
					ToolCallID: block.ToolResult.ToolUseID,
				})
			}
		}
		if converted.Content != "" || len(converted.ToolCalls) > 0 {
			out = append(out, converted)
		}
	}
	return out
}

// toChatTools converts tool definitions to the OpenAI function format.
func toChatTools(tools []domain.ToolDefinition) []chatTool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]chatTool, len(tools))
	for i, tool := range tools {
		out[i] = chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.InputSchema,
			},
		}
	}
	return out
}

// fromChatResponse converts an API response to the port format.
func fromChatResponse(resp *chatCompletionResponse) *driven.ModelResponse {
	choice := resp.Choices[0]

	out := &driven.ModelResponse{}
	switch choice.FinishReason {
	case "tool_calls":
		out.StopReason = driven.StopToolUse
	case "length":
		out.StopReason = driven.StopMaxTokens
	default:
		out.StopReason = driven.StopEndTurn
	}

	if choice.Message.Content != "" {
		out.Content = append(out.Content, driven.TextBlock(choice.Message.Content))
	}
	for _, call := range choice.Message.ToolCalls {
		out.Content = append(out.Content, driven.ContentBlock{
			Type: driven.BlockToolUse,
			ToolUse: &domain.ToolCall{
				ID:    call.ID,
				Name:  call.Function.Name,
				Input: json.RawMessage(call.Function.Arguments),
			},
		})
	}
	return out
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /models endpoint.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("openai: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("openai: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
