package application

import (
	"context"
	"errors"
	"github.com/rs/zerolog"
	"github.com/sebuszqo/BudgetLedger/internal/finance/domain"
)

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.BudgetEvent) error {
	return nil
}

// MultiPublisher hands every event to all publishers and joins their errors.
type MultiPublisher []domain.EventPublisher

func (m MultiPublisher) Publish(ctx context.Context, event domain.BudgetEvent) error {
	var errs []error
	for _, publisher := range m {
		if publisher == nil {
			continue
		}
		if err := publisher.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// publishEvent runs after commit, so a failure is only logged.
func publishEvent(ctx context.Context, fallback zerolog.Logger, publisher domain.EventPublisher, event domain.BudgetEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger := loggerFrom(ctx, fallback)
		logger.Warn().
			Err(err).
			Str("event", string(event.Type)).
			Str("category", event.Category).
			Msg("failed to publish budget event")
	}
}

func loggerFrom(ctx context.Context, fallback zerolog.Logger) *zerolog.Logger {
	if logger := zerolog.Ctx(ctx); logger.GetLevel() != zerolog.Disabled {
		return logger
	}
	return &fallback
}
