package infrastructure

import (
	"context"
	"fmt"
	"github.com/sebuszqo/BudgetLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetLedger/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

// testCategoryRepository runs the behaviour every CategoryRepository must share against a fresh store.
func testCategoryRepository(t *testing.T, newRepo func(t *testing.T) domain.CategoryRepository) {
	t.Run("upsert creates then updates", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		outcome, err := repo.Upsert(ctx, "1", "Groceries", decimal.RequireFromString("500"))
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeCreated, outcome)

		outcome, err = repo.Upsert(ctx, "1", "Groceries", decimal.RequireFromString("650.25"))
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeUpdated, outcome)

		category, err := repo.FindByKey(ctx, "1", "Groceries")
		require.NoError(t, err)
		assert.Equal(t, "650.25", category.OriginalValue.String())
		assert.True(t, category.SpentAmountSoFar.IsZero())
		assert.NotNil(t, category.TransactionHistory)
		assert.Empty(t, category.TransactionHistory)
	})

	t.Run("find missing is not found", func(t *testing.T) {
		_, err := newRepo(t).FindByKey(context.Background(), "1", "Ghost")
		assert.True(t, financeErrors.IsNotFoundError(err))
	})

	t.Run("find all is per user and sorted", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		for _, name := range []string{"Rent", "Dining", "Groceries"} {
			_, err := repo.Upsert(ctx, "1", name, decimal.NewFromInt(10))
			require.NoError(t, err)
		}
		_, err := repo.Upsert(ctx, "2", "Travel", decimal.NewFromInt(10))
		require.NoError(t, err)

		categories, err := repo.FindAllByUser(ctx, "1")
		require.NoError(t, err)
		names := make([]string, len(categories))
		for i, category := range categories {
			names[i] = category.Name
		}
		assert.Equal(t, []string{"Dining", "Groceries", "Rent"}, names)

		none, err := repo.FindAllByUser(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("modify persists history and total", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		_, err := repo.Upsert(ctx, "1", "Groceries", decimal.NewFromInt(500))
		require.NoError(t, err)

		for _, spend := range []struct{ amount, description string }{
			{"45.50", "Weekly shop"},
			{"12.25", "Milk and bread"},
		} {
			_, err := repo.Modify(ctx, "1", "Groceries", func(category *domain.BudgetCategory) error {
				_, err := category.RecordSpend(decimal.RequireFromString(spend.amount), spend.description, "2024-05-01")
				return err
			})
			require.NoError(t, err)
		}

		category, err := repo.FindByKey(ctx, "1", "Groceries")
		require.NoError(t, err)
		assert.Equal(t, "57.75", category.SpentAmountSoFar.String())
		entries := category.TransactionHistory["2024-05-01"]
		require.Len(t, entries, 2)
		assert.Equal(t, "Weekly shop", entries[0].Description)
		assert.Equal(t, "45.5", entries[0].Amount.String())
		assert.Equal(t, "Milk and bread", entries[1].Description)
		assert.True(t, category.Consistent())

		// updating the original value keeps what was spent
		_, err = repo.Upsert(ctx, "1", "Groceries", decimal.NewFromInt(700))
		require.NoError(t, err)
		category, err = repo.FindByKey(ctx, "1", "Groceries")
		require.NoError(t, err)
		assert.Equal(t, "57.75", category.SpentAmountSoFar.String())
		assert.Equal(t, 2, category.TransactionHistory.Count())
	})

	t.Run("modify failure writes nothing", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		_, err := repo.Upsert(ctx, "1", "Groceries", decimal.NewFromInt(500))
		require.NoError(t, err)

		_, err = repo.Modify(ctx, "1", "Groceries", func(category *domain.BudgetCategory) error {
			category.SpentAmountSoFar = decimal.NewFromInt(99)
			return financeErrors.ErrNonPositiveAmount
		})
		assert.ErrorIs(t, err, financeErrors.ErrNonPositiveAmount)

		category, err := repo.FindByKey(ctx, "1", "Groceries")
		require.NoError(t, err)
		assert.True(t, category.SpentAmountSoFar.IsZero())
	})

	t.Run("modify missing is not found", func(t *testing.T) {
		called := false
		_, err := newRepo(t).Modify(context.Background(), "1", "Ghost", func(*domain.BudgetCategory) error {
			called = true
			return nil
		})
		assert.True(t, financeErrors.IsNotFoundError(err))
		assert.False(t, called)
	})

	t.Run("delete", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		_, err := repo.Upsert(ctx, "1", "Dining", decimal.NewFromInt(80))
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, "1", "Dining")
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		deleted, err = repo.Delete(ctx, "1", "Dining")
		require.NoError(t, err)
		assert.Equal(t, int64(0), deleted)

		_, err = repo.FindByKey(ctx, "1", "Dining")
		assert.True(t, financeErrors.IsNotFoundError(err))
	})

	t.Run("concurrent modify loses nothing", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		_, err := repo.Upsert(ctx, "1", "Groceries", decimal.NewFromInt(500))
		require.NoError(t, err)

		const workers = 20
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := repo.Modify(ctx, "1", "Groceries", func(category *domain.BudgetCategory) error {
					_, err := category.RecordSpend(decimal.RequireFromString("0.10"), fmt.Sprintf("item %d", i), "2024-05-01")
					return err
				})
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		category, err := repo.FindByKey(ctx, "1", "Groceries")
		require.NoError(t, err)
		assert.Equal(t, "2", category.SpentAmountSoFar.String())
		assert.Len(t, category.TransactionHistory["2024-05-01"], workers)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newRepo(t).Ping(context.Background()))
	})
}
