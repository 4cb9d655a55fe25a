package interfaces

import (
	"context"
	"github.com/shopspring/decimal"
)

type MockLedgerService struct {
	newTotal decimal.Decimal
	err      error

	lastUserID      string
	lastCategory    string
	lastAmount      decimal.Decimal
	lastDescription string
	lastDate        string
}

func (m *MockLedgerService) RecordSpend(_ context.Context, userID, categoryName string, amountSpent decimal.Decimal, description, date string) (decimal.Decimal, error) {
	m.lastUserID = userID
	m.lastCategory = categoryName
	m.lastAmount = amountSpent
	m.lastDescription = description
	m.lastDate = date
	if m.err != nil {
		return decimal.Zero, m.err
	}
	return m.newTotal, nil
}
