package driven

import (
	"context"

	"github.com/custodia-labs/courseqa/internal/core/domain"
)

// Message roles in a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content block types within a message.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// Stop reasons reported by the model.
const (
	StopEndTurn   = "end_turn"
	StopToolUse   = "tool_use"
	StopMaxTokens = "max_tokens"
)

// ContentBlock is one unit of message content. Exactly one of Text,
// ToolUse or ToolResult is populated, selected by Type.
type ContentBlock struct {
	// Type is one of BlockText, BlockToolUse, BlockToolResult.
	Type string

	// Text carries BlockText content.
	Text string

	// ToolUse carries a model-requested tool invocation.
	ToolUse *domain.ToolCall

	// ToolResult carries the outcome of a tool invocation.
	ToolResult *ToolResultBlock
}

// TextBlock builds a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

// ToolResultBlock echoes a tool outcome back to the model.
type ToolResultBlock struct {
	// ToolUseID is the ID of the tool call this result answers.
	ToolUseID string

	// Content is the tool output, or the error text when IsError is set.
	Content string

	// IsError marks a failed execution.
	IsError bool
}

// Message is one turn in a conversation.
type Message struct {
	// Role is RoleUser or RoleAssistant.
	Role string

	// Content is the ordered list of content blocks.
	Content []ContentBlock
}

// UserText builds a plain-text user message.
func UserText(text string) Message {
	return Message{Role: RoleUser, Content: []ContentBlock{TextBlock(text)}}
}

// MessagesRequest is one call to the model.
type MessagesRequest struct {
	// System is the system prompt, outside the message list.
	System string

	// Messages is the conversation so far.
	Messages []Message

	// Tools the model may call. Empty disables tool use, which the
	// orchestrator relies on to force a final synthesis.
	Tools []domain.ToolDefinition

	// MaxTokens caps the response length. Zero means the adapter default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// ModelResponse is the model's reply to a MessagesRequest.
type ModelResponse struct {
	// Content is the ordered response blocks. Text and tool_use blocks
	// may be interleaved.
	Content []ContentBlock

	// StopReason is why generation ended (StopEndTurn, StopToolUse, ...).
	StopReason string
}

// ToolCalls returns the tool invocations requested in the response,
// in content order.
func (r *ModelResponse) ToolCalls() []domain.ToolCall {
	var calls []domain.ToolCall
	for _, block := range r.Content {
		if block.Type == BlockToolUse && block.ToolUse != nil {
			calls = append(calls, *block.ToolUse)
		}
	}
	return calls
}

// FirstText returns the first text block in the response, and whether
// one exists.
func (r *ModelResponse) FirstText() (string, bool) {
	for _, block := range r.Content {
		if block.Type == BlockText {
			return block.Text, true
		}
	}
	return "", false
}

// LLMService provides tool-calling language model operations.
//
// Implementations may include:
//   - Anthropic (Claude, native tool use)
//   - OpenAI (GPT-4o family, function calling)
//   - Ollama (local models with tool support)
type LLMService interface {
	// Messages sends one conversation turn to the model and returns
	// its reply. The caller drives the tool loop; this method never
	// executes tools itself.
	Messages(ctx context.Context, req MessagesRequest) (*ModelResponse, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before accepting queries.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
