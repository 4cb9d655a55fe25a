package infrastructure

import (
	"context"
	"github.com/sebuszqo/BudgetLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetLedger/internal/finance/errors"
	"github.com/shopspring/decimal"
	"sort"
	"sync"
)

type categoryKey struct {
	userID string
	name   string
}

// MemoryCategoryRepository keeps categories in process memory. Every read returns a copy.
type MemoryCategoryRepository struct {
	mu         sync.Mutex
	categories map[categoryKey]*domain.BudgetCategory
}

func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{categories: make(map[categoryKey]*domain.BudgetCategory)}
}

func (r *MemoryCategoryRepository) Upsert(_ context.Context, userID, name string, originalValue decimal.Decimal) (domain.UpsertOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := categoryKey{userID: userID, name: name}
	if existing, ok := r.categories[key]; ok {
		existing.OriginalValue = originalValue
		return domain.OutcomeUpdated, nil
	}
	r.categories[key] = domain.NewBudgetCategory(userID, name, originalValue)
	return domain.OutcomeCreated, nil
}

func (r *MemoryCategoryRepository) FindByKey(_ context.Context, userID, name string) (*domain.BudgetCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	category, ok := r.categories[categoryKey{userID: userID, name: name}]
	if !ok {
		return nil, financeErrors.NewNotFoundError(name)
	}
	return category.Clone(), nil
}

func (r *MemoryCategoryRepository) FindAllByUser(_ context.Context, userID string) ([]domain.BudgetCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	categories := []domain.BudgetCategory{}
	for key, category := range r.categories {
		if key.userID == userID {
			categories = append(categories, *category.Clone())
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (r *MemoryCategoryRepository) Delete(_ context.Context, userID, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := categoryKey{userID: userID, name: name}
	if _, ok := r.categories[key]; !ok {
		return 0, nil
	}
	delete(r.categories, key)
	return 1, nil
}

func (r *MemoryCategoryRepository) Modify(_ context.Context, userID, name string, fn func(category *domain.BudgetCategory) error) (*domain.BudgetCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := categoryKey{userID: userID, name: name}
	stored, ok := r.categories[key]
	if !ok {
		return nil, financeErrors.NewNotFoundError(name)
	}
	working := stored.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	r.categories[key] = working
	return working.Clone(), nil
}

func (r *MemoryCategoryRepository) Ping(context.Context) error {
	return nil
}
