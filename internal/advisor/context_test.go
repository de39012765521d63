package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight-backend/internal/store"
)

func strPtr(s string) *string { return &s }

func TestResolveMergesPerField(t *testing.T) {
	cm := NewContextManager(store.NewMemoryStore(50))

	_, err := cm.Resolve("alice", ContextOverrides{
		MonthlyIncome: floatPtr(4000),
		RiskTolerance: strPtr("moderate"),
	})
	require.NoError(t, err)

	// A later partial update must not clear unspecified fields.
	merged, err := cm.Resolve("alice", ContextOverrides{
		MonthlyExpenses: floatPtr(2500),
	})
	require.NoError(t, err)

	require.NotNil(t, merged.MonthlyIncome)
	assert.Equal(t, 4000.0, *merged.MonthlyIncome)
	require.NotNil(t, merged.MonthlyExpenses)
	assert.Equal(t, 2500.0, *merged.MonthlyExpenses)
	require.NotNil(t, merged.RiskTolerance)
	assert.Equal(t, "moderate", *merged.RiskTolerance)
}

func TestResolveLastWriteWins(t *testing.T) {
	cm := NewContextManager(store.NewMemoryStore(50))

	_, err := cm.Resolve("alice", ContextOverrides{MonthlyIncome: floatPtr(4000)})
	require.NoError(t, err)
	merged, err := cm.Resolve("alice", ContextOverrides{MonthlyIncome: floatPtr(5500)})
	require.NoError(t, err)
	assert.Equal(t, 5500.0, *merged.MonthlyIncome)
}

func TestResolveIsIdempotent(t *testing.T) {
	memory := store.NewMemoryStore(50)
	cm := NewContextManager(memory)

	overrides := ContextOverrides{
		MonthlyIncome:  floatPtr(4000),
		FinancialGoals: []string{"house", "retirement"},
	}
	first, err := cm.Resolve("alice", overrides)
	require.NoError(t, err)
	second, err := cm.Resolve("alice", overrides)
	require.NoError(t, err)

	assert.Equal(t, *first.MonthlyIncome, *second.MonthlyIncome)
	assert.Equal(t, first.FinancialGoals, second.FinancialGoals)

	stored, ok, err := memory.GetContext("alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"house", "retirement"}, stored.FinancialGoals)
}

func TestResolveEmptyOverridesReturnsStored(t *testing.T) {
	cm := NewContextManager(store.NewMemoryStore(50))

	_, err := cm.Resolve("alice", ContextOverrides{DebtAmount: floatPtr(12000)})
	require.NoError(t, err)
	merged, err := cm.Resolve("alice", ContextOverrides{})
	require.NoError(t, err)
	require.NotNil(t, merged.DebtAmount)
	assert.Equal(t, 12000.0, *merged.DebtAmount)
}
