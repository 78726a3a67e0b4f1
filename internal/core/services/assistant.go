package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/courseqa/internal/core/domain"
	"github.com/custodia-labs/courseqa/internal/core/ports/driven"
	"github.com/custodia-labs/courseqa/internal/core/ports/driving"
	"github.com/custodia-labs/courseqa/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.AssistantService = (*AssistantService)(nil)

// MaxToolRounds caps the number of tool execution rounds per query.
// After the cap the model is called once more without tools, forcing
// it to synthesise an answer from what it has.
const MaxToolRounds = 2

// fallbackSystemPrompt is used when no prompt store is wired or the
// store cannot serve the assistant prompt.
const fallbackSystemPrompt = `You are an AI assistant specialised in course materials and educational content.

Use get_course_outline for questions about a course's structure and
search_course_content for questions about specific course content.
Use at most one search per question. Answer general knowledge questions
directly without tools. Be brief and do not mention the tools.`

// AssistantService orchestrates query answering: it drives the model's
// tool loop, executes requested tools, collects citations, and records
// the exchange in the session history.
type AssistantService struct {
	llm      driven.LLMService
	tools    *ToolManager
	sessions *SessionService
	prompts  driven.PromptStore
}

// NewAssistantService creates the assistant orchestrator.
// prompts is optional; nil falls back to the embedded system prompt.
func NewAssistantService(
	llm driven.LLMService,
	tools *ToolManager,
	sessions *SessionService,
	prompts driven.PromptStore,
) *AssistantService {
	return &AssistantService{
		llm:      llm,
		tools:    tools,
		sessions: sessions,
		prompts:  prompts,
	}
}

// ProcessQuery answers one user query. An empty sessionID starts a new
// session; the returned Answer carries the session the exchange was
// recorded under.
func (a *AssistantService) ProcessQuery(
	ctx context.Context, query, sessionID string,
) (*domain.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if a.llm == nil {
		return nil, fmt.Errorf("%w: no LLM provider configured", domain.ErrLLMUnavailable)
	}

	if sessionID == "" {
		sessionID = a.sessions.Create()
		logger.Debug("Created session %s", sessionID)
	}

	logger.Section("Query Processing")
	logger.Debug("Query: %q, session: %s", query, sessionID)

	messages := a.buildMessages(sessionID, query)
	tools := a.tools.Definitions()

	resp, err := a.llm.Messages(ctx, driven.MessagesRequest{
		System:   a.systemPrompt(),
		Messages: messages,
		Tools:    tools,
	})
	if err != nil {
		return nil, fmt.Errorf("model call: %w", err)
	}

	var sources []domain.SourceRef
	for round := 0; round < MaxToolRounds; round++ {
		calls := resp.ToolCalls()
		if len(calls) == 0 {
			break
		}
		logger.Debug("Tool round %d: %d calls", round+1, len(calls))

		messages = append(messages, driven.Message{
			Role:    driven.RoleAssistant,
			Content: resp.Content,
		})

		resultBlocks, roundSources, allFailed := a.runTools(ctx, calls)
		messages = append(messages, driven.Message{
			Role:    driven.RoleUser,
			Content: resultBlocks,
		})
		sources = append(sources, roundSources...)

		// The last round, and any round where every tool failed, is
		// followed by a toolless call so the model must answer.
		nextTools := tools
		if round == MaxToolRounds-1 || allFailed {
			nextTools = nil
		}

		resp, err = a.llm.Messages(ctx, driven.MessagesRequest{
			System:   a.systemPrompt(),
			Messages: messages,
			Tools:    nextTools,
		})
		if err != nil {
			return nil, fmt.Errorf("model call: %w", err)
		}
		if nextTools == nil {
			break
		}
	}

	text, ok := resp.FirstText()
	if !ok || strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text in final response", domain.ErrMalformedModelResponse)
	}

	a.sessions.AddExchange(sessionID, domain.Exchange{
		UserMessage:      query,
		AssistantMessage: text,
	})

	return &domain.Answer{
		Text:      text,
		Sources:   dedupeSources(sources),
		SessionID: sessionID,
	}, nil
}

// buildMessages assembles the conversation: retained history exchanges
// as alternating turns, then the current query.
func (a *AssistantService) buildMessages(sessionID, query string) []driven.Message {
	var messages []driven.Message
	for _, exchange := range a.sessions.History(sessionID) {
		messages = append(messages,
			driven.UserText(exchange.UserMessage),
			driven.Message{
				Role:    driven.RoleAssistant,
				Content: []driven.ContentBlock{driven.TextBlock(exchange.AssistantMessage)},
			},
		)
	}
	return append(messages, driven.UserText(query))
}

// runTools executes one round of tool calls. Failures become error
// tool results rather than aborting the query; the model gets to see
// what went wrong. Reports whether every call in the round failed.
func (a *AssistantService) runTools(
	ctx context.Context, calls []domain.ToolCall,
) ([]driven.ContentBlock, []domain.SourceRef, bool) {
	blocks := make([]driven.ContentBlock, 0, len(calls))
	var sources []domain.SourceRef
	failed := 0

	for _, call := range calls {
		outcome, err := a.tools.Execute(ctx, call)
		if err != nil {
			logger.Warn("Tool %q failed: %v", call.Name, err)
			outcome.Failed = true
			outcome.Text = fmt.Sprintf("Error executing tool '%s': %v", call.Name, err)
		}
		if outcome.Failed {
			failed++
		} else {
			sources = append(sources, outcome.Sources...)
		}
		blocks = append(blocks, driven.ContentBlock{
			Type: driven.BlockToolResult,
			ToolResult: &driven.ToolResultBlock{
				ToolUseID: call.ID,
				Content:   outcome.Text,
				IsError:   outcome.Failed,
			},
		})
	}

	return blocks, sources, failed == len(calls)
}

// systemPrompt loads the assistant system prompt, falling back to the
// embedded default.
func (a *AssistantService) systemPrompt() string {
	if a.prompts == nil {
		return fallbackSystemPrompt
	}
	prompt, err := a.prompts.Load(driven.PromptAssistantSystem)
	if err != nil || prompt == "" {
		return fallbackSystemPrompt
	}
	return prompt
}

// dedupeSources removes duplicate citations, preserving first-seen
// order.
func dedupeSources(sources []domain.SourceRef) []domain.SourceRef {
	if len(sources) == 0 {
		return nil
	}
	seen := make(map[domain.SourceRef]bool, len(sources))
	out := make([]domain.SourceRef, 0, len(sources))
	for _, src := range sources {
		if seen[src] {
			continue
		}
		seen[src] = true
		out = append(out, src)
	}
	return out
}
