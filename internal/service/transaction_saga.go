package service

import (
	"context"
	"log/slog"
	"time"

	"go-bookkeeping-ws/internal/observability"

	"github.com/google/uuid"
)

type sagaState int

const (
	sagaPending sagaState = iota
	sagaCreated
	sagaItemsCommitted
	sagaFailed
	sagaCleanedUp
)

func (s sagaState) String() string {
	switch s {
	case sagaPending:
		return "pending"
	case sagaCreated:
		return "created"
	case sagaItemsCommitted:
		return "items_committed"
	case sagaFailed:
		return "failed"
	case sagaCleanedUp:
		return "cleaned_up"
	default:
		return "unknown"
	}
}

// createSaga menjalankan create transaksi dalam dua DB transaction terpisah.
// Phase 1 commit header, phase 2 commit items+expenses; jika phase 2 gagal,
// compensate menghapus header (cascade ke detail) dengan context sendiri.
type createSaga struct {
	createHeader  func(ctx context.Context) (uuid.UUID, error)
	commitDetails func(ctx context.Context, headerID uuid.UUID) error
	compensate    func(ctx context.Context, headerID uuid.UUID) error

	cleanupTimeout time.Duration
	log            *slog.Logger
	metrics        *observability.Metrics

	state    sagaState
	headerID uuid.UUID
}

// Run returns phase 1 errors untouched (nothing was committed) and wraps
// phase 2 errors in TransactionCreateFailedError after compensating.
func (s *createSaga) Run(ctx context.Context) (uuid.UUID, error) {
	s.state = sagaPending

	id, err := s.createHeader(ctx)
	if err != nil {
		s.state = sagaFailed
		return uuid.Nil, err
	}
	s.headerID = id
	s.state = sagaCreated

	if err := s.commitDetails(ctx, id); err != nil {
		s.state = sagaFailed
		s.cleanup(ctx)
		return uuid.Nil, &TransactionCreateFailedError{Err: err}
	}

	s.state = sagaItemsCommitted
	return id, nil
}

// cleanup never returns an error: a failed compensation is logged and counted,
// and the original phase 2 error stays the one reported to the caller.
func (s *createSaga) cleanup(parent context.Context) {
	timeout := s.cleanupTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), timeout)
	defer cancel()

	if err := s.compensate(ctx, s.headerID); err != nil {
		s.metrics.Cleanup("failed")
		s.logger().Error("transaction cleanup failed, header may be orphaned",
			"transaction_id", s.headerID, "error", err)
		return
	}
	s.metrics.Cleanup("ok")
	s.state = sagaCleanedUp
	s.logger().Warn("transaction header removed after detail insert failure", "transaction_id", s.headerID)
}

func (s *createSaga) logger() *slog.Logger {
	if s.log == nil {
		return slog.Default()
	}
	return s.log
}
