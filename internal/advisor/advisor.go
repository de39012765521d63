package advisor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"finsight-backend/internal/store"
)

// ErrEmptyMessage rejects chat input without message text.
var ErrEmptyMessage = errors.New("message is required")

// ChatInput is one inbound advisory request.
type ChatInput struct {
	Message   string
	UserID    string
	SessionID string
	Overrides ContextOverrides
}

// ChatResult is the structured outcome of one advisory turn.
type ChatResult struct {
	Success      bool
	Response     string
	QuickReplies []string
	Suggestions  []string
	Intent       Intent
	SessionID    string
	Timestamp    time.Time
	// Degraded marks fallback responses. Degraded service is still a
	// successful turn, not a caller-facing error.
	Degraded bool
}

// Advisor orchestrates a turn: validate, resolve context, load history, call
// the capability under a deadline, fall back deterministically on any
// capability failure, compose, persist.
type Advisor struct {
	sessions store.SessionStore
	contexts *ContextManager
	provider Provider
	fallback *FallbackLibrary
	timeout  time.Duration
}

func New(sessions store.SessionStore, contexts *ContextManager, provider Provider, fallback *FallbackLibrary, timeout time.Duration) *Advisor {
	if fallback == nil {
		fallback = NewFallbackLibrary()
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Advisor{
		sessions: sessions,
		contexts: contexts,
		provider: provider,
		fallback: fallback,
		timeout:  timeout,
	}
}

// Available reports whether a language-model capability is configured.
func (a *Advisor) Available() bool { return a.provider != nil }

// FallbackResponse returns the canned paragraph for a message without
// touching any session state.
func (a *Advisor) FallbackResponse(message string) (string, Intent) {
	return a.fallback.Respond(message)
}

// Sessions exposes the session store for history/listing/deletion handlers.
func (a *Advisor) Sessions() store.SessionStore { return a.sessions }

// Contexts exposes the context manager for explicit context updates.
func (a *Advisor) Contexts() *ContextManager { return a.contexts }

// Chat runs one full advisory turn.
func (a *Advisor) Chat(ctx context.Context, input ChatInput) (ChatResult, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return ChatResult{}, ErrEmptyMessage
	}
	userID := input.UserID
	if userID == "" {
		userID = "anonymous"
	}
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = newSessionID(userID)
	}

	finCtx, err := a.contexts.Resolve(userID, input.Overrides)
	if err != nil {
		return ChatResult{}, fmt.Errorf("failed to resolve context: %w", err)
	}

	history := a.sessions.History(sessionID, promptHistoryLimit)

	response, intent, degraded := a.respond(ctx, message, finCtx, history)

	composed := Compose(response, finCtx)

	a.sessions.Append(sessionID, store.Turn{
		UserID:      userID,
		UserMessage: message,
		Response:    response,
		Timestamp:   time.Now(),
	})

	return ChatResult{
		Success:      true,
		Response:     response,
		QuickReplies: composed.QuickReplies,
		Suggestions:  composed.Suggestions,
		Intent:       intent,
		SessionID:    sessionID,
		Timestamp:    time.Now(),
		Degraded:     degraded,
	}, nil
}

// respond tries the capability once under the configured deadline; any
// failure, timeout included, resolves into the deterministic fallback.
func (a *Advisor) respond(ctx context.Context, message string, finCtx store.FinancialContext, history []store.Turn) (string, Intent, bool) {
	if a.provider == nil {
		log.Printf("[advisor] %v, using fallback", ErrUnavailable)
		text, intent := a.fallback.Respond(message)
		return text, intent, true
	}

	prompt := buildPrompt(message, finCtx, history)
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.provider.Generate(callCtx, prompt, historyMessages(history))
	if err != nil {
		log.Printf("[advisor] capability call failed, using fallback: %v", err)
		text, intent := a.fallback.Respond(message)
		return text, intent, true
	}
	return text, Classify(message), false
}

func historyMessages(history []store.Turn) []HistoryMessage {
	out := make([]HistoryMessage, 0, len(history)*2)
	for _, t := range history {
		out = append(out, HistoryMessage{Role: "user", Content: truncate(t.UserMessage, promptHistoryMaxChars)})
		out = append(out, HistoryMessage{Role: "assistant", Content: truncate(t.Response, promptHistoryMaxChars)})
	}
	return out
}

func newSessionID(userID string) string {
	return fmt.Sprintf("session_%s_%s", userID, uuid.NewString())
}
