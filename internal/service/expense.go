package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"projecthub/internal/event"
	"projecthub/internal/model"
	"projecthub/internal/repository"
)

type ExpenseService struct {
	expenses   *repository.ExpenseRepository
	projects   *repository.ProjectRepository
	authz      *Authz
	dispatcher EventSink
}

func NewExpenseService(
	expenses *repository.ExpenseRepository,
	projects *repository.ProjectRepository,
	authz *Authz,
	dispatcher EventSink,
) *ExpenseService {
	return &ExpenseService{
		expenses:   expenses,
		projects:   projects,
		authz:      authz,
		dispatcher: dispatcher,
	}
}

func (s *ExpenseService) Create(ctx context.Context, actorID int64, e *model.Expense) error {
	if err := s.authz.CheckAccess(ctx, actorID, e); err != nil {
		return err
	}
	if !model.ValidExpenseCategory(e.Category) {
		return fmt.Errorf("invalid expense category %q: %w", e.Category, model.ErrInvalid)
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("expense amount must be positive: %w", model.ErrInvalid)
	}
	if e.Date.IsZero() {
		e.Date = time.Now()
	}

	if err := s.expenses.Insert(ctx, e); err != nil {
		return err
	}

	p, err := s.projects.GetByID(ctx, e.ProjectID)
	if err != nil {
		return nil
	}
	s.dispatcher.Dispatch(ctx, event.Event{
		Kind:    event.KindExpenseCreated,
		ActorID: actorID,
		Project: p,
		Expense: e,
		At:      time.Now(),
	})
	return nil
}

func (s *ExpenseService) ListByProject(ctx context.Context, actorID, projectID int64) ([]model.Expense, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CheckAccess(ctx, actorID, p); err != nil {
		return nil, err
	}
	return s.expenses.ListByProject(ctx, projectID)
}

func (s *ExpenseService) Delete(ctx context.Context, actorID, expenseID int64) error {
	e, err := s.expenses.GetByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if err := s.authz.CheckAccess(ctx, actorID, e); err != nil {
		return err
	}
	return s.expenses.Delete(ctx, expenseID)
}
