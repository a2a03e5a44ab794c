package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"projecthub/internal/model"
)

type ExpenseRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewExpenseRepository(db *pgxpool.Pool, logger *zap.Logger) *ExpenseRepository {
	return &ExpenseRepository{db: db, logger: logger}
}

func (r *ExpenseRepository) Insert(ctx context.Context, e *model.Expense) error {
	query := `
        INSERT INTO expenses (project_id, category, amount, description, date)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		e.ProjectID, e.Category, e.Amount.StringFixed(2), e.Description, e.Date,
	).Scan(&e.ID)
	if err != nil {
		r.logger.Error("Failed to insert expense",
			zap.Int64("project_id", e.ProjectID),
			zap.String("category", e.Category),
			zap.Error(err),
		)
		return err
	}
	r.logger.Info("Expense created",
		zap.Int64("expense_id", e.ID),
		zap.Int64("project_id", e.ProjectID),
		zap.String("amount", e.Amount.StringFixed(2)),
	)
	return nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*model.Expense, error) {
	query := `
        SELECT id, project_id, category, amount::text, description, date
        FROM expenses WHERE id = $1
    `
	return scanExpense(r.db.QueryRow(ctx, query, id))
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete expense", zap.Int64("expense_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ExpenseRepository) ListByProject(ctx context.Context, projectID int64) ([]model.Expense, error) {
	query := `
        SELECT id, project_id, category, amount::text, description, date
        FROM expenses
        WHERE project_id = $1
        ORDER BY date DESC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query expenses", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	expenses := []model.Expense{}
	for rows.Next() {
		e, err := scanExpenseRow(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func scanExpense(row pgx.Row) (*model.Expense, error) {
	e, err := scanExpenseRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return e, err
}

func scanExpenseRow(row pgx.Row) (*model.Expense, error) {
	var (
		e      model.Expense
		amount string
	)
	if err := row.Scan(&e.ID, &e.ProjectID, &e.Category, &amount, &e.Description, &e.Date); err != nil {
		return nil, err
	}
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	e.Amount = dec
	return &e, nil
}
