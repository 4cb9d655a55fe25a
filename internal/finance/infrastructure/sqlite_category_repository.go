package infrastructure

import (
	"context"
	"database/sql"
	"github.com/pkg/errors"
	"github.com/sebuszqo/BudgetLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetLedger/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const sqliteSelectCategoryColumns = `SELECT user_id, category, original_value, spent_amount_so_far, transaction_history
        FROM budget_categories`

// SQLiteCategoryRepository stores categories in SQLite with amounts and history as TEXT.
// The *sql.DB must be limited to one open connection; that is what serializes concurrent transactions.
type SQLiteCategoryRepository struct {
	db *sql.DB
}

func NewSQLiteCategoryRepository(db *sql.DB) *SQLiteCategoryRepository {
	return &SQLiteCategoryRepository{db: db}
}

func (r *SQLiteCategoryRepository) Upsert(ctx context.Context, userID, name string, originalValue decimal.Decimal) (domain.UpsertOutcome, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, financeErrors.NewStorageError("begin transaction", err)
	}
	defer safeRollback(tx)

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM budget_categories WHERE user_id = ? AND category = ?)`, userID, name).Scan(&exists)
	if err != nil {
		return 0, financeErrors.NewStorageError("check category", errors.Wrapf(err, "category %q", name))
	}

	outcome := domain.OutcomeCreated
	if exists {
		outcome = domain.OutcomeUpdated
		_, err = tx.ExecContext(ctx,
			`UPDATE budget_categories SET original_value = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND category = ?`,
			originalValue.String(), userID, name)
	} else {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO budget_categories (user_id, category, original_value, spent_amount_so_far, transaction_history) VALUES (?, ?, ?, '0', '{}')`,
			userID, name, originalValue.String())
	}
	if err != nil {
		return 0, financeErrors.NewStorageError("upsert category", errors.Wrapf(err, "category %q", name))
	}
	if err := tx.Commit(); err != nil {
		return 0, financeErrors.NewStorageError("commit transaction", err)
	}
	return outcome, nil
}

func (r *SQLiteCategoryRepository) FindByKey(ctx context.Context, userID, name string) (*domain.BudgetCategory, error) {
	query := sqliteSelectCategoryColumns + ` WHERE user_id = ? AND category = ?`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, userID, name))
	if err != nil {
		if isNoRows(err) {
			return nil, financeErrors.NewNotFoundError(name)
		}
		return nil, financeErrors.NewStorageError("select category", err)
	}
	return category, nil
}

func (r *SQLiteCategoryRepository) FindAllByUser(ctx context.Context, userID string) ([]domain.BudgetCategory, error) {
	rows, err := r.db.QueryContext(ctx, sqliteSelectCategoryColumns+` WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, financeErrors.NewStorageError("select categories", err)
	}
	return scanCategories(rows)
}

func (r *SQLiteCategoryRepository) Delete(ctx context.Context, userID, name string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budget_categories WHERE user_id = ? AND category = ?`, userID, name)
	if err != nil {
		return 0, financeErrors.NewStorageError("delete category", errors.Wrapf(err, "category %q", name))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, financeErrors.NewStorageError("delete category", err)
	}
	return affected, nil
}

func (r *SQLiteCategoryRepository) Modify(ctx context.Context, userID, name string, fn func(category *domain.BudgetCategory) error) (*domain.BudgetCategory, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, financeErrors.NewStorageError("begin transaction", err)
	}
	defer safeRollback(tx)

	category, err := scanCategory(tx.QueryRowContext(ctx, sqliteSelectCategoryColumns+` WHERE user_id = ? AND category = ?`, userID, name))
	if err != nil {
		if isNoRows(err) {
			return nil, financeErrors.NewNotFoundError(name)
		}
		return nil, financeErrors.NewStorageError("select category", err)
	}

	if err := fn(category); err != nil {
		return nil, err
	}

	history, err := domain.EncodeHistory(category.TransactionHistory)
	if err != nil {
		return nil, financeErrors.NewStorageError("encode history", err)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE budget_categories SET original_value = ?, spent_amount_so_far = ?, transaction_history = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND category = ?`,
		category.OriginalValue.String(), category.SpentAmountSoFar.String(), history, userID, name)
	if err != nil {
		return nil, financeErrors.NewStorageError("update category", errors.Wrapf(err, "category %q", name))
	}
	if err := tx.Commit(); err != nil {
		return nil, financeErrors.NewStorageError("commit transaction", err)
	}
	return category, nil
}

func (r *SQLiteCategoryRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
