package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/courseqa/internal/core/domain"
)

// DefaultMaxHistory is the number of user/assistant exchanges kept per
// session when no limit is configured.
const DefaultMaxHistory = 2

// SessionService tracks conversation history in memory, bounded per
// session. Sessions are never persisted; a restart forgets them.
type SessionService struct {
	mu         sync.Mutex
	maxHistory int
	sessions   map[string][]domain.Exchange
}

// NewSessionService creates a session service keeping at most
// maxHistory exchanges per session. Zero falls back to
// DefaultMaxHistory.
func NewSessionService(maxHistory int) *SessionService {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &SessionService{
		maxHistory: maxHistory,
		sessions:   make(map[string][]domain.Exchange),
	}
}

// Create starts a new session and returns its ID.
func (s *SessionService) Create() string {
	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = nil
	s.mu.Unlock()
	return id
}

// AddExchange records one completed user/assistant turn, evicting the
// oldest exchange once the session is full. An unknown session ID is
// created implicitly.
func (s *SessionService) AddExchange(sessionID string, exchange domain.Exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.sessions[sessionID], exchange)
	if len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}
	s.sessions[sessionID] = history
}

// History returns the retained exchanges for a session, oldest first.
// Unknown sessions return nil.
func (s *SessionService) History(sessionID string) []domain.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.sessions[sessionID]
	out := make([]domain.Exchange, len(history))
	copy(out, history)
	return out
}

// Clear forgets one session's history.
func (s *SessionService) Clear(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}
