package infrastructure

import (
	"context"
	"github.com/sebuszqo/BudgetLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestMemoryCategoryRepository(t *testing.T) {
	testCategoryRepository(t, func(t *testing.T) domain.CategoryRepository {
		return NewMemoryCategoryRepository()
	})
}

func TestMemoryCategoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCategoryRepository()
	_, err := repo.Upsert(ctx, "1", "Groceries", decimal.NewFromInt(500))
	require.NoError(t, err)

	category, err := repo.FindByKey(ctx, "1", "Groceries")
	require.NoError(t, err)
	_, err = category.RecordSpend(decimal.NewFromInt(5), "Outside the store", "2024-05-01")
	require.NoError(t, err)

	stored, err := repo.FindByKey(ctx, "1", "Groceries")
	require.NoError(t, err)
	assert.True(t, stored.SpentAmountSoFar.IsZero())
	assert.Empty(t, stored.TransactionHistory)
}
