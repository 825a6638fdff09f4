package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-bookkeeping-ws/internal/handler"
	"go-bookkeeping-ws/internal/model"
	"go-bookkeeping-ws/internal/observability"
	"go-bookkeeping-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTransactionService struct {
	err        error
	lastActor  string
	lastCreate *model.CreateTransactionRequest
	lastUpdate *model.UpdateTransactionRequest
	lastFilter model.TransactionFilter
	lastQuery  model.PageQuery
	lastReport bool
}

func (m *mockTransactionService) Create(_ context.Context, req *model.CreateTransactionRequest, actorID string) (*model.TransactionResponse, error) {
	m.lastCreate, m.lastActor = req, actorID
	if m.err != nil {
		return nil, m.err
	}
	t := model.Transaction{Type: req.Type, Total: decimal.NewFromInt(2050000)}
	t.ID = uuid.New()
	return model.NewTransactionResponse(&t), nil
}

func (m *mockTransactionService) Update(_ context.Context, id uuid.UUID, req *model.UpdateTransactionRequest, actorID string) (*model.TransactionResponse, error) {
	m.lastUpdate, m.lastActor = req, actorID
	if m.err != nil {
		return nil, m.err
	}
	t := model.Transaction{}
	t.ID = id
	return model.NewTransactionResponse(&t), nil
}

func (m *mockTransactionService) GetByID(_ context.Context, id uuid.UUID) (*model.TransactionResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	t := model.Transaction{}
	t.ID = id
	return model.NewTransactionResponse(&t), nil
}

func (m *mockTransactionService) List(_ context.Context, filter model.TransactionFilter, q model.PageQuery, isReport bool) (*model.PaginatedTransactions, error) {
	m.lastFilter, m.lastQuery, m.lastReport = filter, q, isReport
	if m.err != nil {
		return nil, m.err
	}
	return &model.PaginatedTransactions{Data: []model.Transaction{}, Meta: model.NewPagination(q, 0)}, nil
}

func (m *mockTransactionService) Delete(_ context.Context, _ uuid.UUID, actorID string) error {
	m.lastActor = actorID
	return m.err
}

func newTestApp(svc service.TransactionService) *fiber.App {
	app := fiber.New()
	handler.SetupRoutes(app, handler.Routes{
		Transactions: handler.NewTransactionHandler(svc, nil),
		Metrics:      observability.NewMetrics(),
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

const createBody = `{
	"transaction_date": "2025-01-15",
	"type": "buy",
	"supplier_id": "3f1c2b9e-6a7d-4c1e-9f0a-2b3c4d5e6f70",
	"transaction_products": [{"product_id": "a1b2c3d4-0000-4000-8000-000000000001", "quantity": 2, "amount_per_product": 1000000, "sub_total": "2000000"}],
	"transaction_expenses": [{"expense_type": "a1b2c3d4-0000-4000-8000-000000000002", "amount": 50000}]
}`

func TestCreateTransaction(t *testing.T) {
	svc := &mockTransactionService{}
	app := newTestApp(svc)

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/transactions", createBody,
		map[string]string{"X-Clerk-ID": "user_2abc"})

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Transaction created", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "0.00", data["sub_total_products"])
	assert.Equal(t, "user_2abc", svc.lastActor)

	require.NotNil(t, svc.lastCreate)
	require.Len(t, svc.lastCreate.Products, 1)
	assert.True(t, svc.lastCreate.Products[0].SubTotal.Equal(decimal.NewFromInt(2000000)))
	assert.True(t, svc.lastCreate.Expenses[0].Amount.Equal(decimal.NewFromInt(50000)))
}

func TestCreateTransaction_DefaultActor(t *testing.T) {
	svc := &mockTransactionService{}
	app := newTestApp(svc)

	status, _ := doRequest(t, app, http.MethodPost, "/api/v1/transactions", createBody, nil)

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "system", svc.lastActor)
}

func TestTransactionHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", &service.ValidationError{Message: "Transaction Products not found"}, 400, "Transaction Products not found"},
		{"not found", service.NewNotFoundError("Supplier not found"), 404, "Supplier not found"},
		{"create failed", &service.TransactionCreateFailedError{Err: errors.New("insert transaction items: boom")}, 500, "Failed to create transaction: insert transaction items: boom"},
		{"unexpected", errors.New("connection refused"), 500, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&mockTransactionService{err: tt.err})

			status, body := doRequest(t, app, http.MethodPost, "/api/v1/transactions", createBody, nil)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestCreateTransaction_InvalidJSON(t *testing.T) {
	app := newTestApp(&mockTransactionService{})

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/transactions", `{"type":`, nil)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid JSON", body["error"])
}

func TestUpdateTransaction(t *testing.T) {
	id := uuid.New()

	t.Run("absent keys stay nil, empty list is kept", func(t *testing.T) {
		svc := &mockTransactionService{}
		app := newTestApp(svc)

		status, _ := doRequest(t, app, http.MethodPut, "/api/v1/transactions/"+id.String(),
			`{"notes": "revisi", "transaction_expenses": []}`, map[string]string{"X-Clerk-ID": "user_9"})

		assert.Equal(t, fiber.StatusOK, status)
		require.NotNil(t, svc.lastUpdate)
		assert.Nil(t, svc.lastUpdate.Products)
		require.NotNil(t, svc.lastUpdate.Expenses)
		assert.Empty(t, *svc.lastUpdate.Expenses)
		assert.Equal(t, "revisi", *svc.lastUpdate.Notes)
		assert.Equal(t, "user_9", svc.lastActor)
	})

	t.Run("update failure is a 500 with the cause", func(t *testing.T) {
		app := newTestApp(&mockTransactionService{err: &service.TransactionUpdateFailedError{Err: errors.New("row does not belong to transaction")}})

		status, body := doRequest(t, app, http.MethodPut, "/api/v1/transactions/"+id.String(), `{}`, nil)

		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.Equal(t, "Failed to update transaction: row does not belong to transaction", body["error"])
	})

	t.Run("bad id", func(t *testing.T) {
		app := newTestApp(&mockTransactionService{})

		status, body := doRequest(t, app, http.MethodPut, "/api/v1/transactions/not-a-uuid", `{}`, nil)

		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "Invalid transaction ID", body["error"])
	})
}

func TestGetTransactions_Query(t *testing.T) {
	svc := &mockTransactionService{}
	app := newTestApp(svc)
	supplier := uuid.New()

	status, body := doRequest(t, app, http.MethodGet,
		"/api/v1/transactions?type=BUY&supplier_id="+supplier.String()+"&start_date=2025-01-01&end_date=2025-01-31&page=2&limit=500&is_report=true",
		"", nil)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "total_debit")
	assert.Equal(t, model.TransactionBuy, svc.lastFilter.Type)
	require.NotNil(t, svc.lastFilter.SupplierID)
	assert.Equal(t, supplier, *svc.lastFilter.SupplierID)
	assert.Equal(t, "2025-01-31", svc.lastFilter.EndDate.Format("2006-01-02"))
	assert.True(t, svc.lastReport)
	assert.Equal(t, model.MaxPageLimit, svc.lastQuery.Limit)
}

func TestGetTransactions_BadFilters(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"type=refund", "Invalid type, use buy or sell"},
		{"customer_id=123", "Invalid customer_id"},
		{"start_date=01-01-2025", "Invalid start_date, use YYYY-MM-DD"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			app := newTestApp(&mockTransactionService{})

			status, body := doRequest(t, app, http.MethodGet, "/api/v1/transactions?"+tt.query, "", nil)

			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestDeleteTransaction(t *testing.T) {
	svc := &mockTransactionService{}
	app := newTestApp(svc)

	status, body := doRequest(t, app, http.MethodDelete, "/api/v1/transactions/"+uuid.NewString(), "",
		map[string]string{"X-Clerk-ID": "  owner  "})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Transaction deleted", body["message"])
	assert.Equal(t, "owner", svc.lastActor)

	app = newTestApp(&mockTransactionService{err: service.NewNotFoundError("Transaction not found")})
	status, _ = doRequest(t, app, http.MethodDelete, "/api/v1/transactions/"+uuid.NewString(), "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(&mockTransactionService{})

	status, body := doRequest(t, app, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
