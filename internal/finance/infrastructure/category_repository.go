package infrastructure

import (
	"context"
	"database/sql"
	"github.com/pkg/errors"
	"github.com/sebuszqo/BudgetLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetLedger/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const selectCategoryColumns = `SELECT user_id, category, original_value::text, spent_amount_so_far::text, transaction_history::text
        FROM budget_categories`

// CategoryRepository stores categories in PostgreSQL. Amounts are NUMERIC and the history is JSONB.
type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Upsert(ctx context.Context, userID, name string, originalValue decimal.Decimal) (domain.UpsertOutcome, error) {
	query := `
        INSERT INTO budget_categories (user_id, category, original_value, spent_amount_so_far, transaction_history)
        VALUES ($1, $2, $3, 0, '{}'::jsonb)
        ON CONFLICT (user_id, category)
        DO UPDATE SET original_value = EXCLUDED.original_value, updated_at = NOW()
        RETURNING (xmax = 0) AS inserted
    `
	var inserted bool
	err := r.db.QueryRowContext(ctx, query, userID, name, originalValue.String()).Scan(&inserted)
	if err != nil {
		return 0, financeErrors.NewStorageError("upsert category", errors.Wrapf(err, "category %q", name))
	}
	if inserted {
		return domain.OutcomeCreated, nil
	}
	return domain.OutcomeUpdated, nil
}

func (r *CategoryRepository) FindByKey(ctx context.Context, userID, name string) (*domain.BudgetCategory, error) {
	query := selectCategoryColumns + ` WHERE user_id = $1 AND category = $2`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, userID, name))
	if err != nil {
		if isNoRows(err) {
			return nil, financeErrors.NewNotFoundError(name)
		}
		return nil, financeErrors.NewStorageError("select category", err)
	}
	return category, nil
}

func (r *CategoryRepository) FindAllByUser(ctx context.Context, userID string) ([]domain.BudgetCategory, error) {
	query := selectCategoryColumns + ` WHERE user_id = $1 ORDER BY category`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, financeErrors.NewStorageError("select categories", err)
	}
	return scanCategories(rows)
}

// Delete removes the row and, with it, the whole history held in the same row.
func (r *CategoryRepository) Delete(ctx context.Context, userID, name string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budget_categories WHERE user_id = $1 AND category = $2`, userID, name)
	if err != nil {
		return 0, financeErrors.NewStorageError("delete category", errors.Wrapf(err, "category %q", name))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, financeErrors.NewStorageError("delete category", err)
	}
	return affected, nil
}

// Modify holds a row lock (SELECT ... FOR UPDATE) for the whole read-modify-write,
// so concurrent writers of the same category are applied one after another.
func (r *CategoryRepository) Modify(ctx context.Context, userID, name string, fn func(category *domain.BudgetCategory) error) (*domain.BudgetCategory, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, financeErrors.NewStorageError("begin transaction", err)
	}
	defer safeRollback(tx)

	query := selectCategoryColumns + ` WHERE user_id = $1 AND category = $2 FOR UPDATE`
	category, err := scanCategory(tx.QueryRowContext(ctx, query, userID, name))
	if err != nil {
		if isNoRows(err) {
			return nil, financeErrors.NewNotFoundError(name)
		}
		return nil, financeErrors.NewStorageError("lock category", err)
	}

	if err := fn(category); err != nil {
		return nil, err
	}

	history, err := domain.EncodeHistory(category.TransactionHistory)
	if err != nil {
		return nil, financeErrors.NewStorageError("encode history", err)
	}

	update := `
        UPDATE budget_categories
        SET original_value = $1, spent_amount_so_far = $2, transaction_history = $3::jsonb, updated_at = NOW()
        WHERE user_id = $4 AND category = $5
    `
	if _, err := tx.ExecContext(ctx, update, category.OriginalValue.String(), category.SpentAmountSoFar.String(), history, userID, name); err != nil {
		return nil, financeErrors.NewStorageError("update category", errors.Wrapf(err, "category %q", name))
	}
	if err := tx.Commit(); err != nil {
		return nil, financeErrors.NewStorageError("commit transaction", err)
	}
	return category, nil
}

func (r *CategoryRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
