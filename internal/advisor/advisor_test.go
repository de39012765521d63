package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight-backend/internal/store"
)

// stubProvider scripts the capability for tests.
type stubProvider struct {
	reply      string
	err        error
	lastPrompt string
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, history []HistoryMessage) (string, error) {
	p.lastPrompt = prompt
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func newTestAdvisor(provider Provider) (*Advisor, *store.MemoryStore) {
	memory := store.NewMemoryStore(50)
	adv := New(memory, NewContextManager(memory), provider, NewFallbackLibrary(), time.Second)
	return adv, memory
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	adv, _ := newTestAdvisor(&stubProvider{reply: "ok"})
	_, err := adv.Chat(context.Background(), ChatInput{Message: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestChatSuccessPath(t *testing.T) {
	provider := &stubProvider{reply: "Consider a budget with the 50/30/20 split."}
	adv, memory := newTestAdvisor(provider)

	res, err := adv.Chat(context.Background(), ChatInput{
		Message: "How should I budget?",
		UserID:  "alice",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Degraded)
	assert.Equal(t, IntentBudgeting, res.Intent)
	assert.Equal(t, provider.reply, res.Response)
	assert.Equal(t, "Show me budget templates", res.QuickReplies[0])
	assert.NotEmpty(t, res.SessionID)

	// The turn is persisted.
	history := memory.History(res.SessionID, 0)
	require.Len(t, history, 1)
	assert.Equal(t, "How should I budget?", history[0].UserMessage)
	assert.Equal(t, provider.reply, history[0].Response)
}

func TestChatFallbackOnProviderFailure(t *testing.T) {
	adv, _ := newTestAdvisor(&stubProvider{err: errors.New("provider exploded")})

	res, err := adv.Chat(context.Background(), ChatInput{
		Message: "How do I start investing?",
		UserID:  "alice",
	})
	require.NoError(t, err)
	assert.True(t, res.Success, "degraded service is not a caller-facing error")
	assert.True(t, res.Degraded)
	assert.Equal(t, IntentInvesting, res.Intent)
	assert.Equal(t, defaultFallbacks[IntentInvesting], res.Response)
}

func TestChatFallbackOnTimeout(t *testing.T) {
	slow := &slowProvider{delay: 200 * time.Millisecond}
	memory := store.NewMemoryStore(50)
	adv := New(memory, NewContextManager(memory), slow, NewFallbackLibrary(), 10*time.Millisecond)

	res, err := adv.Chat(context.Background(), ChatInput{Message: "budget help please"})
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, defaultFallbacks[IntentBudgeting], res.Response)
}

type slowProvider struct {
	delay time.Duration
}

func (p *slowProvider) Generate(ctx context.Context, prompt string, history []HistoryMessage) (string, error) {
	select {
	case <-time.After(p.delay):
		return "too late", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestChatWithoutProviderIsDegraded(t *testing.T) {
	adv, _ := newTestAdvisor(nil)
	assert.False(t, adv.Available())

	res, err := adv.Chat(context.Background(), ChatInput{Message: "hello"})
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, defaultFallbacks[IntentGeneral], res.Response)
}

func TestChatGeneratesSessionIDWhenAbsent(t *testing.T) {
	adv, _ := newTestAdvisor(&stubProvider{reply: "ok"})

	res, err := adv.Chat(context.Background(), ChatInput{Message: "hi", UserID: "bob"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.SessionID, "session_bob_"))

	res2, err := adv.Chat(context.Background(), ChatInput{Message: "hi again", UserID: "bob"})
	require.NoError(t, err)
	assert.NotEqual(t, res.SessionID, res2.SessionID)
}

func TestChatPromptCarriesContextAndBoundedHistory(t *testing.T) {
	provider := &stubProvider{reply: "ok"}
	adv, memory := newTestAdvisor(provider)

	long := strings.Repeat("x", 300)
	for i := 0; i < 15; i++ {
		memory.Append("s1", store.Turn{
			UserID:      "alice",
			UserMessage: long,
			Response:    "short answer",
			Timestamp:   time.Now(),
		})
	}

	_, err := adv.Chat(context.Background(), ChatInput{
		Message:   "what next?",
		UserID:    "alice",
		SessionID: "s1",
		Overrides: ContextOverrides{MonthlyIncome: floatPtr(4000)},
	})
	require.NoError(t, err)

	assert.Contains(t, provider.lastPrompt, "Monthly Income: $4,000.00")
	assert.Contains(t, provider.lastPrompt, "Current Question: what next?")
	// History entries are clipped to 100 chars plus ellipsis.
	assert.Contains(t, provider.lastPrompt, long[:100]+"...")
	assert.NotContains(t, provider.lastPrompt, long[:150])
	// Only the 10 most recent turns are surfaced.
	assert.Equal(t, 10, strings.Count(provider.lastPrompt, "User: "))
}

func TestFallbackLibraryIntentsWithoutEntryUseGeneral(t *testing.T) {
	lib := NewFallbackLibrary()
	text, intent := lib.Respond("can you explain how interest works")
	assert.Equal(t, IntentEducation, intent)
	assert.Equal(t, defaultFallbacks[IntentGeneral], text)
}

func TestFallbackResponseDoesNotTouchSessions(t *testing.T) {
	adv, memory := newTestAdvisor(nil)
	text, intent := adv.FallbackResponse("how do I pay off my loan")
	assert.Equal(t, IntentDebt, intent)
	assert.Equal(t, defaultFallbacks[IntentDebt], text)
	assert.Equal(t, 0, memory.Len())
}
