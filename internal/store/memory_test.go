package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func turn(userID string, n int) Turn {
	return Turn{
		UserID:      userID,
		UserMessage: fmt.Sprintf("message %d", n),
		Response:    fmt.Sprintf("response %d", n),
		Timestamp:   time.Now(),
	}
}

func TestAppendEvictsFIFO(t *testing.T) {
	m := NewMemoryStore(50)
	for i := 1; i <= 51; i++ {
		m.Append("s1", turn("u1", i))
	}
	history := m.History("s1", 0)
	require.Len(t, history, 50)
	// Oldest turn (1) evicted; survivors are 2..51 in order.
	assert.Equal(t, "message 2", history[0].UserMessage)
	assert.Equal(t, "message 51", history[49].UserMessage)
}

func TestHistoryLimitReturnsMostRecentOldestFirst(t *testing.T) {
	m := NewMemoryStore(50)
	for i := 1; i <= 20; i++ {
		m.Append("s1", turn("u1", i))
	}
	history := m.History("s1", 10)
	require.Len(t, history, 10)
	assert.Equal(t, "message 11", history[0].UserMessage)
	assert.Equal(t, "message 20", history[9].UserMessage)
}

func TestHistoryUnknownSessionIsEmpty(t *testing.T) {
	m := NewMemoryStore(50)
	assert.Empty(t, m.History("nope", 10))
}

func TestDeleteIsIdempotent(t *testing.T) {
	m := NewMemoryStore(50)
	m.Append("s1", turn("u1", 1))
	m.Delete("s1")
	m.Delete("s1")
	assert.Empty(t, m.History("s1", 0))
	assert.Equal(t, 0, m.Len())
}

func TestListForUser(t *testing.T) {
	m := NewMemoryStore(50)
	m.Append("s1", turn("alice", 1))
	m.Append("s1", turn("alice", 2))
	m.Append("s2", turn("bob", 3))

	sessions := m.ListForUser("alice")
	require.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].SessionID)
	assert.Equal(t, "message 2", sessions[0].LastMessage)
	assert.Equal(t, 2, sessions[0].MessageCount)

	assert.Empty(t, m.ListForUser("carol"))
}

func TestContextRoundTrip(t *testing.T) {
	m := NewMemoryStore(50)
	_, ok, err := m.GetContext("alice")
	require.NoError(t, err)
	assert.False(t, ok)

	income := 4000.0
	require.NoError(t, m.PutContext(FinancialContext{
		UserID:         "alice",
		MonthlyIncome:  &income,
		FinancialGoals: []string{"emergency fund"},
	}))

	ctx, ok, err := m.GetContext("alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, ctx.MonthlyIncome)
	assert.Equal(t, 4000.0, *ctx.MonthlyIncome)

	// Mutating the returned slice must not touch stored state.
	ctx.FinancialGoals[0] = "changed"
	again, _, err := m.GetContext("alice")
	require.NoError(t, err)
	assert.Equal(t, "emergency fund", again.FinancialGoals[0])
}
