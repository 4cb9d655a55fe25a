package domain

import (
	"context"
	"github.com/shopspring/decimal"
	"time"
)

type EventType string

const (
	EventCategoryCreated EventType = "category.created"
	EventCategoryUpdated EventType = "category.updated"
	EventCategoryDeleted EventType = "category.deleted"
	EventSpendRecorded   EventType = "spend.recorded"
)

// BudgetEvent describes a committed change. Amount and NewTotal are set for spend.recorded only,
// OriginalValue for category.created and category.updated.
type BudgetEvent struct {
	Type          EventType        `json:"type"`
	UserID        string           `json:"userId"`
	Category      string           `json:"category"`
	OriginalValue *decimal.Decimal `json:"originalValue,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	NewTotal      *decimal.Decimal `json:"newTotal,omitempty"`
	Description   string           `json:"description,omitempty"`
	Date          string           `json:"date,omitempty"`
	OccurredAt    time.Time        `json:"occurredAt"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event BudgetEvent) error
}
