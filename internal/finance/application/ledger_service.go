package application

import (
	"context"
	"github.com/rs/zerolog"
	"github.com/sebuszqo/BudgetLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
	"time"
)

type LedgerService struct {
	repo      domain.CategoryRepository
	publisher domain.EventPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewLedgerService(repo domain.CategoryRepository, publisher domain.EventPublisher, logger zerolog.Logger) *LedgerService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &LedgerService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With().Str("service", "ledger").Logger(),
		now:       time.Now,
	}
}

// WithClock replaces the source of "today" used when a spend has no explicit date.
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	s.now = now
	return s
}

// RecordSpend appends a spend to the category's ledger and returns the new spent total.
// An empty date means today in server-local time. A missing category is a NotFoundError and nothing is written.
func (s *LedgerService) RecordSpend(ctx context.Context, userID, categoryName string, amountSpent decimal.Decimal, description, date string) (decimal.Decimal, error) {
	if err := domain.ValidateCategoryName(categoryName); err != nil {
		return decimal.Zero, err
	}
	if err := domain.ValidateSpend(amountSpent, description); err != nil {
		return decimal.Zero, err
	}
	if date == "" {
		date = domain.DateKey(s.now())
	} else if err := domain.ValidateDateKey(date); err != nil {
		return decimal.Zero, err
	}

	var newTotal decimal.Decimal
	_, err := s.repo.Modify(ctx, userID, categoryName, func(category *domain.BudgetCategory) error {
		total, err := category.RecordSpend(amountSpent, description, date)
		if err != nil {
			return err
		}
		newTotal = total
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	publishEvent(ctx, s.logger, s.publisher, domain.BudgetEvent{
		Type:        domain.EventSpendRecorded,
		UserID:      userID,
		Category:    categoryName,
		Amount:      &amountSpent,
		NewTotal:    &newTotal,
		Description: description,
		Date:        date,
		OccurredAt:  s.now(),
	})
	return newTotal, nil
}
