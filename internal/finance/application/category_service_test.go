package application

import (
	"context"
	"errors"
	"github.com/rs/zerolog"
	"github.com/sebuszqo/BudgetLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetLedger/internal/finance/errors"
	"github.com/sebuszqo/BudgetLedger/internal/finance/infrastructure"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestAddOrUpdateCategory_CreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	repo := infrastructure.NewMemoryCategoryRepository()
	publisher := &recordingPublisher{}
	service := NewCategoryService(repo, publisher, zerolog.Nop())

	outcome, err := service.AddOrUpdateCategory(ctx, "1", "Groceries", decimal.RequireFromString("500"))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, outcome)

	created, err := service.GetCategoryDetails(ctx, "1", "Groceries")
	require.NoError(t, err)
	assert.True(t, created.OriginalValue.Equal(decimal.NewFromInt(500)))
	assert.True(t, created.SpentAmountSoFar.IsZero())
	assert.Empty(t, created.TransactionHistory)

	outcome, err = service.AddOrUpdateCategory(ctx, "1", "Groceries", decimal.RequireFromString("650"))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdated, outcome)

	updated, err := service.GetCategoryDetails(ctx, "1", "Groceries")
	require.NoError(t, err)
	assert.True(t, updated.OriginalValue.Equal(decimal.NewFromInt(650)))

	assert.Equal(t, []domain.EventType{domain.EventCategoryCreated, domain.EventCategoryUpdated}, publisher.types())
}

func TestAddOrUpdateCategory_KeepsSpendOnUpdate(t *testing.T) {
	ctx := context.Background()
	repo := infrastructure.NewMemoryCategoryRepository()
	categories := NewCategoryService(repo, nil, zerolog.Nop())
	ledger := NewLedgerService(repo, nil, zerolog.Nop()).WithClock(fixedClock("2024-05-01"))

	_, err := categories.AddOrUpdateCategory(ctx, "1", "Groceries", decimal.NewFromInt(500))
	require.NoError(t, err)
	_, err = ledger.RecordSpend(ctx, "1", "Groceries", decimal.RequireFromString("45.50"), "Weekly shop", "")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = categories.AddOrUpdateCategory(ctx, "1", "Groceries", decimal.NewFromInt(650))
		require.NoError(t, err)
	}

	category, err := categories.GetCategoryDetails(ctx, "1", "Groceries")
	require.NoError(t, err)
	assert.True(t, category.OriginalValue.Equal(decimal.NewFromInt(650)))
	assert.Equal(t, "45.5", category.SpentAmountSoFar.String())
	assert.Equal(t, 1, category.TransactionHistory.Count())
}

func TestAddOrUpdateCategory_Validation(t *testing.T) {
	tests := []struct {
		name          string
		categoryName  string
		originalValue decimal.Decimal
		wantMessages  []string
	}{
		{
			name:          "empty name",
			categoryName:  "",
			originalValue: decimal.NewFromInt(10),
			wantMessages:  []string{"Category name must not be empty"},
		},
		{
			name:          "negative value",
			categoryName:  "Rent",
			originalValue: decimal.NewFromInt(-1),
			wantMessages:  []string{"Original value must not be negative"},
		},
		{
			name:          "name too long and negative",
			categoryName:  strings.Repeat("x", 256),
			originalValue: decimal.NewFromInt(-5),
			wantMessages: []string{
				"Category name must be at most 255 characters",
				"Original value must not be negative",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := infrastructure.NewMemoryCategoryRepository()
			service := NewCategoryService(repo, nil, zerolog.Nop())

			_, err := service.AddOrUpdateCategory(context.Background(), "1", tt.categoryName, tt.originalValue)
			require.Error(t, err)

			var messages []string
			var validationErrors *financeErrors.ValidationErrors
			if errors.As(err, &validationErrors) {
				for _, vErr := range validationErrors.Errors {
					messages = append(messages, vErr.Error())
				}
			} else {
				assert.True(t, financeErrors.IsValidationError(err))
				messages = []string{err.Error()}
			}
			assert.Equal(t, tt.wantMessages, messages)

			all, err := service.GetAllCategories(context.Background(), "1")
			require.NoError(t, err)
			assert.Empty(t, all, "nothing may be stored for invalid input")
		})
	}
}

func TestAddOrUpdateCategory_ZeroValueAllowed(t *testing.T) {
	service := NewCategoryService(infrastructure.NewMemoryCategoryRepository(), nil, zerolog.Nop())

	outcome, err := service.AddOrUpdateCategory(context.Background(), "1", "Savings", decimal.Zero)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, outcome)
}

func TestAddOrUpdateCategory_StorageFailure(t *testing.T) {
	repo := infrastructure.NewMockCategoryRepository()
	repo.UpsertErr = financeErrors.NewStorageError("upsert", errors.New("connection refused"))
	publisher := &recordingPublisher{}
	service := NewCategoryService(repo, publisher, zerolog.Nop())

	_, err := service.AddOrUpdateCategory(context.Background(), "1", "Groceries", decimal.NewFromInt(1))

	assert.True(t, financeErrors.IsStorageError(err))
	assert.Empty(t, publisher.events)
}

func TestAddOrUpdateCategory_PublishFailureDoesNotFail(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("broker down")}
	service := NewCategoryService(infrastructure.NewMemoryCategoryRepository(), publisher, zerolog.Nop())

	outcome, err := service.AddOrUpdateCategory(context.Background(), "1", "Groceries", decimal.NewFromInt(1))

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, outcome)
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()
	publisher := &recordingPublisher{}
	service := NewCategoryService(infrastructure.NewMemoryCategoryRepository(), publisher, zerolog.Nop())

	_, err := service.AddOrUpdateCategory(ctx, "1", "Dining", decimal.NewFromInt(80))
	require.NoError(t, err)

	deleted, err := service.DeleteCategory(ctx, "1", "Dining")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = service.GetCategoryDetails(ctx, "1", "Dining")
	assert.True(t, financeErrors.IsNotFoundError(err))

	deleted, err = service.DeleteCategory(ctx, "1", "Dining")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	assert.Equal(t, []domain.EventType{domain.EventCategoryCreated, domain.EventCategoryDeleted}, publisher.types())
}

func TestDeleteCategory_EmptyName(t *testing.T) {
	service := NewCategoryService(infrastructure.NewMemoryCategoryRepository(), nil, zerolog.Nop())

	_, err := service.DeleteCategory(context.Background(), "1", " ")

	assert.ErrorIs(t, err, financeErrors.ErrCategoryNameRequired)
}

func TestGetAllCategories_ScopedToUser(t *testing.T) {
	ctx := context.Background()
	service := NewCategoryService(infrastructure.NewMemoryCategoryRepository(), nil, zerolog.Nop())

	for _, name := range []string{"Rent", "Groceries"} {
		_, err := service.AddOrUpdateCategory(ctx, "1", name, decimal.NewFromInt(100))
		require.NoError(t, err)
	}
	_, err := service.AddOrUpdateCategory(ctx, "2", "Travel", decimal.NewFromInt(100))
	require.NoError(t, err)

	categories, err := service.GetAllCategories(ctx, "1")
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Groceries", categories[0].Name)
	assert.Equal(t, "Rent", categories[1].Name)

	empty, err := service.GetAllCategories(ctx, "3")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestGetCategoryDetails_NotFound(t *testing.T) {
	service := NewCategoryService(infrastructure.NewMemoryCategoryRepository(), nil, zerolog.Nop())

	category, err := service.GetCategoryDetails(context.Background(), "1", "Ghost")

	assert.Nil(t, category)
	assert.EqualError(t, err, "Budget category 'Ghost' not found for user.")
}
