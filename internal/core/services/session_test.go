package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/courseqa/internal/core/domain"
)

func TestSessionService_CreateReturnsUniqueIDs(t *testing.T) {
	sessions := NewSessionService(2)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id := sessions.Create()
		require.NotEmpty(t, id)
		assert.False(t, seen[id], "session IDs must be unique")
		seen[id] = true
	}
}

func TestSessionService_HistoryIsBounded(t *testing.T) {
	sessions := NewSessionService(2)
	id := sessions.Create()

	for i := 1; i <= 5; i++ {
		sessions.AddExchange(id, domain.Exchange{
			UserMessage:      fmt.Sprintf("question %d", i),
			AssistantMessage: fmt.Sprintf("answer %d", i),
		})
	}

	history := sessions.History(id)
	require.Len(t, history, 2)
	assert.Equal(t, "question 4", history[0].UserMessage)
	assert.Equal(t, "question 5", history[1].UserMessage)
}

func TestSessionService_UnknownSessionHasNoHistory(t *testing.T) {
	sessions := NewSessionService(2)
	assert.Empty(t, sessions.History("nope"))
}

func TestSessionService_ImplicitSessionCreation(t *testing.T) {
	sessions := NewSessionService(2)

	sessions.AddExchange("adopted", domain.Exchange{UserMessage: "q", AssistantMessage: "a"})
	history := sessions.History("adopted")
	require.Len(t, history, 1)
	assert.Equal(t, "q", history[0].UserMessage)
}

func TestSessionService_HistoryReturnsCopy(t *testing.T) {
	sessions := NewSessionService(2)
	id := sessions.Create()
	sessions.AddExchange(id, domain.Exchange{UserMessage: "q", AssistantMessage: "a"})

	history := sessions.History(id)
	history[0].UserMessage = "mutated"

	assert.Equal(t, "q", sessions.History(id)[0].UserMessage)
}

func TestSessionService_Clear(t *testing.T) {
	sessions := NewSessionService(2)
	id := sessions.Create()
	sessions.AddExchange(id, domain.Exchange{UserMessage: "q", AssistantMessage: "a"})

	sessions.Clear(id)
	assert.Empty(t, sessions.History(id))
}

func TestSessionService_ZeroLimitFallsBackToDefault(t *testing.T) {
	sessions := NewSessionService(0)
	id := sessions.Create()

	for i := 0; i < DefaultMaxHistory+3; i++ {
		sessions.AddExchange(id, domain.Exchange{UserMessage: "q", AssistantMessage: "a"})
	}
	assert.Len(t, sessions.History(id), DefaultMaxHistory)
}
