package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go-bookkeeping-ws/internal/model"
	"go-bookkeeping-ws/internal/observability"
	"go-bookkeeping-ws/internal/repository"
	"go-bookkeeping-ws/internal/ws"
	"go-bookkeeping-ws/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgProductsRequired  = "Transaction Products not found"
	msgSupplierRequired  = "Supplier ID is required for BUY transactions"
	msgCustomerRequired  = "Customer ID is required for SELL transactions"
	msgSupplierNotFound  = "Supplier not found"
	msgCustomerNotFound  = "Customer not found"
	msgTransactionAbsent = "Transaction not found"
)

type TransactionService interface {
	Create(ctx context.Context, req *model.CreateTransactionRequest, actorID string) (*model.TransactionResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateTransactionRequest, actorID string) (*model.TransactionResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.TransactionResponse, error)
	List(ctx context.Context, filter model.TransactionFilter, q model.PageQuery, isReport bool) (*model.PaginatedTransactions, error)
	Delete(ctx context.Context, id uuid.UUID, actorID string) error
}

type TransactionServiceConfig struct {
	CleanupTimeout time.Duration
	Logger         *slog.Logger
	Metrics        *observability.Metrics
}

type transactionService struct {
	db          *gorm.DB
	txRepo      repository.TransactionRepository
	contactRepo repository.ContactRepository
	wsHub       *ws.Hub
	cfg         TransactionServiceConfig
	log         *slog.Logger
}

func NewTransactionService(db *gorm.DB, txRepo repository.TransactionRepository, contactRepo repository.ContactRepository, hub *ws.Hub, cfg TransactionServiceConfig) TransactionService {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &transactionService{
		db:          db,
		txRepo:      txRepo,
		contactRepo: contactRepo,
		wsHub:       hub,
		cfg:         cfg,
		log:         log.With("component", "transaction_service"),
	}
}

func (s *transactionService) Create(ctx context.Context, req *model.CreateTransactionRequest, actorID string) (*model.TransactionResponse, error) {
	actorID = actorOrDefault(actorID)

	// 1. Validasi input (tanpa side effect)
	if err := validateCreate(req); err != nil {
		return nil, err
	}
	date, err := parseTransactionDate(req.TransactionDate)
	if err != nil {
		return nil, err
	}

	// 2. Header dengan total dari aturan yang sama dengan update
	header := &model.Transaction{
		Type:            req.Type,
		Total:           CombineTotal(req.Type, sumProducts(req.Products), sumExpenses(req.Expenses)),
		TransactionDate: date,
		Notes:           req.Notes,
	}
	header.Audit(actorID)
	contactMsg := msgSupplierNotFound
	if req.Type == model.TransactionBuy {
		header.SupplierID = req.SupplierID
	} else {
		header.CustomerID = req.CustomerID
		contactMsg = msgCustomerNotFound
	}

	saga := &createSaga{
		createHeader: func(ctx context.Context) (uuid.UUID, error) {
			err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				if err := s.ensureContact(tx, header.ContactID(), contactMsg); err != nil {
					return err
				}
				return s.txRepo.CreateHeader(tx, header)
			})
			return header.ID, err
		},
		commitDetails: func(ctx context.Context, headerID uuid.UUID) error {
			return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				if err := s.txRepo.BulkCreateItems(tx, buildItems(headerID, req.Products, actorID)); err != nil {
					return fmt.Errorf("insert transaction items: %w", err)
				}
				if len(req.Expenses) > 0 {
					if err := s.txRepo.BulkCreateExpenses(tx, buildExpenses(headerID, req.Expenses, actorID)); err != nil {
						return fmt.Errorf("insert transaction expenses: %w", err)
					}
				}
				return nil
			})
		},
		compensate: func(ctx context.Context, headerID uuid.UUID) error {
			return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				return s.txRepo.Delete(tx, headerID)
			})
		},
		cleanupTimeout: s.cfg.CleanupTimeout,
		log:            s.log,
		metrics:        s.cfg.Metrics,
	}

	id, err := saga.Run(ctx)
	s.cfg.Metrics.Write("create", err)
	if err != nil {
		var nf *NotFoundError
		var failed *TransactionCreateFailedError
		switch {
		case errors.As(err, &nf), errors.As(err, &failed):
			return nil, err
		default:
			return nil, &TransactionCreateFailedError{Err: err}
		}
	}

	// 3. Re-fetch lengkap dengan relasi
	resp, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch created transaction %s: %w", id, err)
	}

	s.log.Info("transaction created", "transaction_id", id, "type", req.Type, "total", resp.Total.StringFixed(2), "actor", actorID)
	s.wsHub.Publish(ws.EventTransactionCreated, actorID, resp)
	return resp, nil
}

func (s *transactionService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateTransactionRequest, actorID string) (*model.TransactionResponse, error) {
	actorID = actorOrDefault(actorID)
	if req == nil {
		req = &model.UpdateTransactionRequest{}
	}

	// 1. Validasi bentuk payload
	date, err := validateUpdate(req)
	if err != nil {
		return nil, err
	}

	// 2. Preconditions
	db := s.db.WithContext(ctx)
	existing, err := s.txRepo.FindHeader(db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError(msgTransactionAbsent)
		}
		return nil, &TransactionUpdateFailedError{Err: err}
	}
	txType := existing.Type
	if req.Type != nil {
		txType = *req.Type
	}
	if err := requireCounterparty(existing, req, txType); err != nil {
		return nil, err
	}
	if err := s.ensureContact(db, req.SupplierID, msgSupplierNotFound); err != nil {
		return nil, preconditionError(err)
	}
	if err := s.ensureContact(db, req.CustomerID, msgCustomerNotFound); err != nil {
		return nil, preconditionError(err)
	}

	// 3. Semua mutasi dalam satu scoped transaction
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.txRepo.UpdateHeader(tx, id, headerFields(req, txType, date, actorID)); err != nil {
			return fmt.Errorf("update header: %w", err)
		}
		if req.Expenses != nil {
			if err := s.reconcileExpenses(tx, id, *req.Expenses, actorID); err != nil {
				return fmt.Errorf("reconcile expenses: %w", err)
			}
		}
		if req.Products != nil {
			if err := s.reconcileItems(tx, id, *req.Products, actorID); err != nil {
				return fmt.Errorf("reconcile items: %w", err)
			}
		}

		// Total dihitung ulang dari storage setelah rekonsiliasi
		items, err := s.txRepo.SumItems(tx, id)
		if err != nil {
			return fmt.Errorf("sum items: %w", err)
		}
		expenses, err := s.txRepo.SumExpenses(tx, id)
		if err != nil {
			return fmt.Errorf("sum expenses: %w", err)
		}
		return s.txRepo.UpdateHeader(tx, id, map[string]interface{}{
			"total":      CombineTotal(txType, items, expenses),
			"updated_by": actorID,
		})
	})
	s.cfg.Metrics.Write("update", err)
	if err != nil {
		return nil, &TransactionUpdateFailedError{Err: err}
	}

	resp, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch updated transaction %s: %w", id, err)
	}

	s.log.Info("transaction updated", "transaction_id", id, "total", resp.Total.StringFixed(2), "actor", actorID)
	s.wsHub.Publish(ws.EventTransactionUpdated, actorID, resp)
	return resp, nil
}

func (s *transactionService) GetByID(ctx context.Context, id uuid.UUID) (*model.TransactionResponse, error) {
	t, err := s.txRepo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError(msgTransactionAbsent)
		}
		return nil, err
	}
	return model.NewTransactionResponse(t), nil
}

// List: total_debit/total_credit selalu dari query agregat atas seluruh filter.
func (s *transactionService) List(ctx context.Context, filter model.TransactionFilter, q model.PageQuery, isReport bool) (*model.PaginatedTransactions, error) {
	if isReport {
		q.Page = 1
		q.Limit = model.ReportPageLimit
	}
	q = q.Normalize()

	rows, total, err := s.txRepo.FindPaginated(ctx, filter, q)
	if err != nil {
		return nil, err
	}
	debit, credit, err := s.txRepo.SumTotals(ctx, filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.Transaction{}
	}
	return &model.PaginatedTransactions{
		Data:        rows,
		Meta:        model.NewPagination(q, total),
		TotalDebit:  debit,
		TotalCredit: credit,
	}, nil
}

func (s *transactionService) Delete(ctx context.Context, id uuid.UUID, actorID string) error {
	actorID = actorOrDefault(actorID)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.txRepo.Delete(tx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError(msgTransactionAbsent)
		}
		return err
	}
	s.log.Info("transaction deleted", "transaction_id", id, "actor", actorID)
	s.wsHub.Publish(ws.EventTransactionDeleted, actorID, map[string]interface{}{"id": id})
	return nil
}

func (s *transactionService) ensureContact(db *gorm.DB, id *uuid.UUID, notFoundMsg string) error {
	if id == nil {
		return nil
	}
	ok, err := s.contactRepo.Exists(db, *id)
	if err != nil {
		return err
	}
	if !ok {
		return NewNotFoundError(notFoundMsg)
	}
	return nil
}

func (s *transactionService) reconcileItems(tx *gorm.DB, id uuid.UUID, submitted []model.TransactionProductRequest, actorID string) error {
	existing, err := s.txRepo.ListItems(tx, id)
	if err != nil {
		return err
	}
	plan := Reconcile(existing, submitted,
		func(e model.TransactionItem) uuid.UUID { return e.ID },
		func(p model.TransactionProductRequest) *uuid.UUID { return p.ID },
	)

	// Delete dulu, baru update/insert
	if err := s.txRepo.DeleteItems(tx, id, plan.ToDelete); err != nil {
		return err
	}
	for _, p := range plan.ToUpdate {
		item := productToItem(id, p, actorID)
		item.ID = *p.ID
		if err := s.txRepo.UpdateItem(tx, id, &item); err != nil {
			return fmt.Errorf("item %s: %w", *p.ID, err)
		}
	}
	return s.txRepo.BulkCreateItems(tx, buildItems(id, plan.ToInsert, actorID))
}

func (s *transactionService) reconcileExpenses(tx *gorm.DB, id uuid.UUID, submitted []model.TransactionExpenseRequest, actorID string) error {
	existing, err := s.txRepo.ListExpenses(tx, id)
	if err != nil {
		return err
	}
	plan := Reconcile(existing, submitted,
		func(e model.TransactionExpense) uuid.UUID { return e.ID },
		func(r model.TransactionExpenseRequest) *uuid.UUID { return r.ID },
	)

	if err := s.txRepo.DeleteExpenses(tx, id, plan.ToDelete); err != nil {
		return err
	}
	for _, r := range plan.ToUpdate {
		expense := requestToExpense(id, r, actorID)
		expense.ID = *r.ID
		if err := s.txRepo.UpdateExpense(tx, id, &expense); err != nil {
			return fmt.Errorf("expense %s: %w", *r.ID, err)
		}
	}
	return s.txRepo.BulkCreateExpenses(tx, buildExpenses(id, plan.ToInsert, actorID))
}

// ===== Helpers =====

func validateCreate(req *model.CreateTransactionRequest) error {
	if req == nil || len(req.Products) == 0 {
		return &ValidationError{Message: msgProductsRequired}
	}
	if req.Type == model.TransactionBuy && req.SupplierID == nil {
		return &ValidationError{Message: msgSupplierRequired}
	}
	if req.Type == model.TransactionSell && req.CustomerID == nil {
		return &ValidationError{Message: msgCustomerRequired}
	}
	if msg := validator.FirstError(req); msg != "" {
		return &ValidationError{Message: msg}
	}
	return nil
}

func validateUpdate(req *model.UpdateTransactionRequest) (*time.Time, error) {
	if msg := validator.FirstError(req); msg != "" {
		return nil, &ValidationError{Message: msg}
	}
	if req.Products != nil {
		for i := range *req.Products {
			if msg := validator.FirstError(&(*req.Products)[i]); msg != "" {
				return nil, &ValidationError{Message: msg}
			}
		}
	}
	if req.Expenses != nil {
		for i := range *req.Expenses {
			if msg := validator.FirstError(&(*req.Expenses)[i]); msg != "" {
				return nil, &ValidationError{Message: msg}
			}
		}
	}
	if req.TransactionDate == nil {
		return nil, nil
	}
	date, err := parseTransactionDate(*req.TransactionDate)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// parseTransactionDate accepts YYYY-MM-DD or RFC3339 and keeps only the calendar date, as UTC midnight.
func parseTransactionDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, NewValidationError("Invalid transaction_date %q, expected YYYY-MM-DD", raw)
}

// requireCounterparty: setelah update, buy harus punya supplier dan sell harus punya customer.
func requireCounterparty(existing *model.Transaction, req *model.UpdateTransactionRequest, txType model.TransactionType) error {
	switch txType {
	case model.TransactionBuy:
		if req.SupplierID == nil && existing.SupplierID == nil {
			return &ValidationError{Message: msgSupplierRequired}
		}
	case model.TransactionSell:
		if req.CustomerID == nil && existing.CustomerID == nil {
			return &ValidationError{Message: msgCustomerRequired}
		}
	}
	return nil
}

// headerFields hanya menyimpan kontak sisi yang sesuai type, sama seperti create.
func headerFields(req *model.UpdateTransactionRequest, txType model.TransactionType, date *time.Time, actorID string) map[string]interface{} {
	fields := map[string]interface{}{"updated_by": actorID}
	if req.SupplierID != nil {
		fields["supplier_id"] = *req.SupplierID
	}
	if req.CustomerID != nil {
		fields["customer_id"] = *req.CustomerID
	}
	if req.Type != nil {
		fields["type"] = *req.Type
	}
	if date != nil {
		fields["transaction_date"] = *date
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if txType == model.TransactionSell {
		fields["supplier_id"] = nil
	} else {
		fields["customer_id"] = nil
	}
	return fields
}

func productToItem(transactionID uuid.UUID, p model.TransactionProductRequest, actorID string) model.TransactionItem {
	item := model.TransactionItem{
		TransactionID: transactionID,
		ItemID:        p.ProductID,
		UnitPrice:     p.AmountPerProduct,
		Qty:           p.Quantity,
		Subtotal:      p.SubTotal,
	}
	item.Audit(actorID)
	return item
}

func buildItems(transactionID uuid.UUID, products []model.TransactionProductRequest, actorID string) []model.TransactionItem {
	items := make([]model.TransactionItem, 0, len(products))
	for _, p := range products {
		items = append(items, productToItem(transactionID, p, actorID))
	}
	return items
}

func requestToExpense(transactionID uuid.UUID, r model.TransactionExpenseRequest, actorID string) model.TransactionExpense {
	expense := model.TransactionExpense{
		TransactionID: transactionID,
		ExpenseTypeID: r.ExpenseType,
		Amount:        r.Amount,
		Notes:         r.Notes,
		Subtotal:      r.Amount,
	}
	expense.Audit(actorID)
	return expense
}

func buildExpenses(transactionID uuid.UUID, reqs []model.TransactionExpenseRequest, actorID string) []model.TransactionExpense {
	expenses := make([]model.TransactionExpense, 0, len(reqs))
	for _, r := range reqs {
		expenses = append(expenses, requestToExpense(transactionID, r, actorID))
	}
	return expenses
}

// preconditionError keeps NotFoundError unwrapped and wraps storage failures.
func preconditionError(err error) error {
	if IsNotFound(err) {
		return err
	}
	return &TransactionUpdateFailedError{Err: err}
}

func actorOrDefault(actorID string) string {
	if strings.TrimSpace(actorID) == "" {
		return model.DefaultActor
	}
	return actorID
}
