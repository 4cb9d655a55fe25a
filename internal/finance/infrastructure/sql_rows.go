package infrastructure

import (
	"database/sql"
	stdErrors "errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/BudgetLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetLedger/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// scanCategory expects the columns user_id, category, original_value, spent_amount_so_far,
// transaction_history, with amounts and history rendered as text.
func scanCategory(row rowScanner) (*domain.BudgetCategory, error) {
	var (
		category                  domain.BudgetCategory
		originalValue, spentSoFar string
		historyText               string
	)
	if err := row.Scan(&category.UserID, &category.Name, &originalValue, &spentSoFar, &historyText); err != nil {
		return nil, err
	}

	var err error
	if category.OriginalValue, err = decimal.NewFromString(originalValue); err != nil {
		return nil, errors.Wrapf(err, "parse original_value of %q", category.Name)
	}
	if category.SpentAmountSoFar, err = decimal.NewFromString(spentSoFar); err != nil {
		return nil, errors.Wrapf(err, "parse spent_amount_so_far of %q", category.Name)
	}
	if category.TransactionHistory, err = domain.DecodeHistory(historyText); err != nil {
		return nil, errors.Wrapf(err, "category %q", category.Name)
	}
	return &category, nil
}

func scanCategories(rows *sql.Rows) ([]domain.BudgetCategory, error) {
	defer rows.Close()

	categories := []domain.BudgetCategory{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, financeErrors.NewStorageError("scan categories", err)
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, financeErrors.NewStorageError("iterate categories", err)
	}
	return categories, nil
}

func isNoRows(err error) bool {
	return stdErrors.Is(err, sql.ErrNoRows)
}

func safeRollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !stdErrors.Is(err, sql.ErrTxDone) {
		log.Error().Err(err).Msg("error during transaction rollback")
	}
}
