package domain

import (
	"context"
	"github.com/sebuszqo/BudgetLedger/internal/finance/errors"
	"github.com/shopspring/decimal"
	"strings"
	"unicode/utf8"
)

const maxCategoryNameLength = 255

// UpsertOutcome tells whether Upsert inserted a new row or changed an existing one.
type UpsertOutcome int

const (
	OutcomeCreated UpsertOutcome = iota + 1
	OutcomeUpdated
)

func (o UpsertOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// BudgetCategory is one named budget bucket of a user, keyed by (UserID, Name).
// SpentAmountSoFar always equals TransactionHistory.Total().
type BudgetCategory struct {
	UserID             string
	Name               string
	OriginalValue      decimal.Decimal
	SpentAmountSoFar   decimal.Decimal
	TransactionHistory TransactionHistory
}

type CategoryRepository interface {
	Upsert(ctx context.Context, userID, name string, originalValue decimal.Decimal) (UpsertOutcome, error)
	FindByKey(ctx context.Context, userID, name string) (*BudgetCategory, error)
	FindAllByUser(ctx context.Context, userID string) ([]BudgetCategory, error)
	Delete(ctx context.Context, userID, name string) (int64, error)
	// Modify loads the row, applies fn and writes it back in one transaction.
	// Nothing is written when fn returns an error.
	Modify(ctx context.Context, userID, name string, fn func(category *BudgetCategory) error) (*BudgetCategory, error)
	Ping(ctx context.Context) error
}

func NewBudgetCategory(userID, name string, originalValue decimal.Decimal) *BudgetCategory {
	return &BudgetCategory{
		UserID:             userID,
		Name:               name,
		OriginalValue:      originalValue,
		SpentAmountSoFar:   decimal.Zero,
		TransactionHistory: TransactionHistory{},
	}
}

// RecordSpend appends a spend to the date bucket and raises the running total by the same amount.
func (c *BudgetCategory) RecordSpend(amount decimal.Decimal, description, date string) (decimal.Decimal, error) {
	if err := ValidateSpend(amount, description); err != nil {
		return c.SpentAmountSoFar, err
	}
	if err := ValidateDateKey(date); err != nil {
		return c.SpentAmountSoFar, err
	}
	if c.TransactionHistory == nil {
		c.TransactionHistory = TransactionHistory{}
	}
	c.TransactionHistory[date] = append(c.TransactionHistory[date], TransactionEntry{
		Amount:      amount,
		Description: description,
	})
	c.SpentAmountSoFar = c.SpentAmountSoFar.Add(amount)
	return c.SpentAmountSoFar, nil
}

func (c *BudgetCategory) Consistent() bool {
	return c.SpentAmountSoFar.Equal(c.TransactionHistory.Total())
}

func (c *BudgetCategory) Clone() *BudgetCategory {
	clone := *c
	clone.TransactionHistory = c.TransactionHistory.Clone()
	return &clone
}

func ValidateCategory(userID, name string, originalValue decimal.Decimal) error {
	var validationErrors = &errors.ValidationErrors{}
	if strings.TrimSpace(userID) == "" {
		validationErrors.Add(errors.ErrUserIDRequired)
	}
	if err := ValidateCategoryName(name); err != nil {
		validationErrors.Add(err)
	}
	if originalValue.IsNegative() {
		validationErrors.Add(errors.ErrNegativeOriginalValue)
	} else if !AmountInRange(originalValue) {
		validationErrors.Add(errors.ErrOriginalValueOutOfRange)
	}
	return validationErrors.Err()
}

func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.ErrCategoryNameRequired
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLength {
		return errors.ErrCategoryNameTooLong
	}
	return nil
}
