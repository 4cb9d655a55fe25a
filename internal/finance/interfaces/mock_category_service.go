package interfaces

import (
	"context"
	"errors"
	"github.com/sebuszqo/BudgetLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetLedger/internal/finance/errors"
	"github.com/shopspring/decimal"
)

var errMockService = errors.New("service error")

type MockCategoryService struct {
	categories []domain.BudgetCategory
	outcome    domain.UpsertOutcome
	deleted    int64
	err        error
	shouldFail bool

	lastUserID   string
	lastCategory string
	lastValue    decimal.Decimal
}

func (m *MockCategoryService) failure() error {
	if m.err != nil {
		return m.err
	}
	if m.shouldFail {
		return errMockService
	}
	return nil
}

func (m *MockCategoryService) AddOrUpdateCategory(_ context.Context, userID, categoryName string, originalValue decimal.Decimal) (domain.UpsertOutcome, error) {
	m.lastUserID, m.lastCategory, m.lastValue = userID, categoryName, originalValue
	if err := m.failure(); err != nil {
		return 0, err
	}
	return m.outcome, nil
}

func (m *MockCategoryService) DeleteCategory(_ context.Context, userID, categoryName string) (int64, error) {
	m.lastUserID, m.lastCategory = userID, categoryName
	if err := m.failure(); err != nil {
		return 0, err
	}
	return m.deleted, nil
}

func (m *MockCategoryService) GetAllCategories(_ context.Context, userID string) ([]domain.BudgetCategory, error) {
	m.lastUserID = userID
	if err := m.failure(); err != nil {
		return nil, err
	}
	return m.categories, nil
}

func (m *MockCategoryService) GetCategoryDetails(_ context.Context, userID, categoryName string) (*domain.BudgetCategory, error) {
	m.lastUserID, m.lastCategory = userID, categoryName
	if err := m.failure(); err != nil {
		return nil, err
	}
	for i := range m.categories {
		if m.categories[i].Name == categoryName {
			return &m.categories[i], nil
		}
	}
	return nil, financeErrors.NewNotFoundError(categoryName)
}
