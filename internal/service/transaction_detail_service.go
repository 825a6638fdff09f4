package service

import (
	"context"

	"go-bookkeeping-ws/internal/model"
	"go-bookkeeping-ws/internal/repository"

	"github.com/google/uuid"
)

// TransactionDetailService hanya baca. Baris detail ditulis lewat TransactionService
// supaya total header selalu dihitung ulang.
type TransactionDetailService interface {
	ListItems(ctx context.Context, filter model.DetailFilter, q model.PageQuery) (*model.Page[model.TransactionItem], error)
	GetItem(ctx context.Context, id uuid.UUID) (*model.TransactionItem, error)
	ListExpenses(ctx context.Context, filter model.DetailFilter, q model.PageQuery) (*model.Page[model.TransactionExpense], error)
	GetExpense(ctx context.Context, id uuid.UUID) (*model.TransactionExpense, error)
}

type transactionDetailService struct {
	txRepo repository.TransactionRepository
}

func NewTransactionDetailService(txRepo repository.TransactionRepository) TransactionDetailService {
	return &transactionDetailService{txRepo: txRepo}
}

func (s *transactionDetailService) ListItems(ctx context.Context, filter model.DetailFilter, q model.PageQuery) (*model.Page[model.TransactionItem], error) {
	q = q.Normalize()
	rows, total, err := s.txRepo.FindItemsPaginated(ctx, filter, q)
	if err != nil {
		return nil, err
	}
	return newPage(rows, q, total), nil
}

func (s *transactionDetailService) GetItem(ctx context.Context, id uuid.UUID) (*model.TransactionItem, error) {
	item, err := s.txRepo.FindItemByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Transaction item not found")
	}
	return item, nil
}

func (s *transactionDetailService) ListExpenses(ctx context.Context, filter model.DetailFilter, q model.PageQuery) (*model.Page[model.TransactionExpense], error) {
	q = q.Normalize()
	rows, total, err := s.txRepo.FindExpensesPaginated(ctx, filter, q)
	if err != nil {
		return nil, err
	}
	return newPage(rows, q, total), nil
}

func (s *transactionDetailService) GetExpense(ctx context.Context, id uuid.UUID) (*model.TransactionExpense, error) {
	expense, err := s.txRepo.FindExpenseByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Transaction expense not found")
	}
	return expense, nil
}
