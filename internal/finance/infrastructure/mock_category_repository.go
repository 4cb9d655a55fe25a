package infrastructure

import (
	"context"
	"github.com/sebuszqo/BudgetLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
)

// MockCategoryRepository wraps a MemoryCategoryRepository and fails the operations whose error is set.
type MockCategoryRepository struct {
	*MemoryCategoryRepository

	UpsertErr  error
	FindErr    error
	DeleteErr  error
	ModifyErr  error
	PingErr    error
	ModifyHits int
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{MemoryCategoryRepository: NewMemoryCategoryRepository()}
}

func (m *MockCategoryRepository) Upsert(ctx context.Context, userID, name string, originalValue decimal.Decimal) (domain.UpsertOutcome, error) {
	if m.UpsertErr != nil {
		return 0, m.UpsertErr
	}
	return m.MemoryCategoryRepository.Upsert(ctx, userID, name, originalValue)
}

func (m *MockCategoryRepository) FindByKey(ctx context.Context, userID, name string) (*domain.BudgetCategory, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	return m.MemoryCategoryRepository.FindByKey(ctx, userID, name)
}

func (m *MockCategoryRepository) FindAllByUser(ctx context.Context, userID string) ([]domain.BudgetCategory, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	return m.MemoryCategoryRepository.FindAllByUser(ctx, userID)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, userID, name string) (int64, error) {
	if m.DeleteErr != nil {
		return 0, m.DeleteErr
	}
	return m.MemoryCategoryRepository.Delete(ctx, userID, name)
}

func (m *MockCategoryRepository) Modify(ctx context.Context, userID, name string, fn func(category *domain.BudgetCategory) error) (*domain.BudgetCategory, error) {
	m.ModifyHits++
	if m.ModifyErr != nil {
		return nil, m.ModifyErr
	}
	return m.MemoryCategoryRepository.Modify(ctx, userID, name, fn)
}

func (m *MockCategoryRepository) Ping(ctx context.Context) error {
	if m.PingErr != nil {
		return m.PingErr
	}
	return m.MemoryCategoryRepository.Ping(ctx)
}
