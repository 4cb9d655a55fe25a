package application

import (
	"context"
	"github.com/rs/zerolog"
	"github.com/sebuszqo/BudgetLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
	"time"
)

type CategoryService struct {
	repo      domain.CategoryRepository
	publisher domain.EventPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewCategoryService(repo domain.CategoryRepository, publisher domain.EventPublisher, logger zerolog.Logger) *CategoryService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &CategoryService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With().Str("service", "category").Logger(),
		now:       time.Now,
	}
}

// AddOrUpdateCategory creates the category or, if it exists, changes only its original value.
func (s *CategoryService) AddOrUpdateCategory(ctx context.Context, userID, categoryName string, originalValue decimal.Decimal) (domain.UpsertOutcome, error) {
	if err := domain.ValidateCategory(userID, categoryName, originalValue); err != nil {
		return 0, err
	}

	outcome, err := s.repo.Upsert(ctx, userID, categoryName, originalValue)
	if err != nil {
		return 0, err
	}

	eventType := domain.EventCategoryUpdated
	if outcome == domain.OutcomeCreated {
		eventType = domain.EventCategoryCreated
	}
	publishEvent(ctx, s.logger, s.publisher, domain.BudgetEvent{
		Type:          eventType,
		UserID:        userID,
		Category:      categoryName,
		OriginalValue: &originalValue,
		OccurredAt:    s.now(),
	})
	return outcome, nil
}

// DeleteCategory removes the category with its whole history and returns the number of rows removed.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, categoryName string) (int64, error) {
	if err := domain.ValidateCategoryName(categoryName); err != nil {
		return 0, err
	}

	deleted, err := s.repo.Delete(ctx, userID, categoryName)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		publishEvent(ctx, s.logger, s.publisher, domain.BudgetEvent{
			Type:       domain.EventCategoryDeleted,
			UserID:     userID,
			Category:   categoryName,
			OccurredAt: s.now(),
		})
	}
	return deleted, nil
}

func (s *CategoryService) GetAllCategories(ctx context.Context, userID string) ([]domain.BudgetCategory, error) {
	categories, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		return []domain.BudgetCategory{}, nil
	}
	return categories, nil
}

func (s *CategoryService) GetCategoryDetails(ctx context.Context, userID, categoryName string) (*domain.BudgetCategory, error) {
	if err := domain.ValidateCategoryName(categoryName); err != nil {
		return nil, err
	}
	return s.repo.FindByKey(ctx, userID, categoryName)
}
