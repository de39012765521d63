package store

import (
	"sync"
)

// MemoryStore keeps sessions and contexts in process memory behind one
// coarse RWMutex. Appends and eviction share a critical section so
// concurrent writers to the same session can never tear the cap.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Turn
	contexts map[string]FinancialContext
	maxTurns int
}

func NewMemoryStore(maxTurns int) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]Turn),
		contexts: make(map[string]FinancialContext),
		maxTurns: maxTurns,
	}
}

func (m *MemoryStore) Append(sessionID string, turn Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = append(m.sessions[sessionID], turn)
	m.trimLocked(sessionID)
}

func (m *MemoryStore) trimLocked(sessionID string) {
	if m.maxTurns <= 0 {
		return
	}
	turns := m.sessions[sessionID]
	if len(turns) > m.maxTurns {
		m.sessions[sessionID] = turns[len(turns)-m.maxTurns:]
	}
}

// History returns up to limit of the most recent turns, oldest first.
// limit <= 0 means the whole session.
func (m *MemoryStore) History(sessionID string, limit int) []Turn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	turns := m.sessions[sessionID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

func (m *MemoryStore) Delete(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

func (m *MemoryStore) ListForUser(userID string) []SessionSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	summaries := make([]SessionSummary, 0)
	for sessionID, turns := range m.sessions {
		if len(turns) == 0 {
			continue
		}
		belongs := false
		for _, t := range turns {
			if t.UserID == userID {
				belongs = true
				break
			}
		}
		if !belongs {
			continue
		}
		last := turns[len(turns)-1]
		summaries = append(summaries, SessionSummary{
			SessionID:    sessionID,
			LastMessage:  last.UserMessage,
			LastUpdated:  last.Timestamp,
			MessageCount: len(turns),
		})
	}
	return summaries
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) GetContext(userID string) (FinancialContext, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ctx, ok := m.contexts[userID]
	if !ok {
		return FinancialContext{}, false, nil
	}
	// Copy the goals slice so callers cannot mutate stored state.
	ctx.FinancialGoals = append([]string(nil), ctx.FinancialGoals...)
	return ctx, true, nil
}

func (m *MemoryStore) PutContext(ctx FinancialContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctx.FinancialGoals = append([]string(nil), ctx.FinancialGoals...)
	m.contexts[ctx.UserID] = ctx
	return nil
}
