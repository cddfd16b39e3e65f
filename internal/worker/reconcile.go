// Package worker runs background sweeps over the payment records.
package worker

import (
	"context"
	"fmt"
	"jobify-api/internal/common"
	"jobify-api/internal/entity"
	"log/slog"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

type PendingPayments interface {
	GetPendingReconciliations(ctx context.Context, limit int) ([]entity.PendingReconciliation, error)
}

type Reconciler interface {
	ReconcilePayment(ctx context.Context, jobAdId uuid.UUID, sessionId string) *entity.PaymentStatusOutputModel
}

// ReconcileWorker settles checkout sessions whose payment is still pending,
// covering clients that never came back to the payment status page.
type ReconcileWorker struct {
	cron       *cron.Cron
	pending    PendingPayments
	reconciler Reconciler
	batchSize  int
	logger     *slog.Logger
}

func NewReconcileWorker(schedule string, batchSize int, pending PendingPayments, reconciler Reconciler, logger *slog.Logger) (*ReconcileWorker, error) {
	w := &ReconcileWorker{
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		pending:    pending,
		reconciler: reconciler,
		batchSize:  batchSize,
		logger:     logger,
	}

	if _, err := w.cron.AddFunc(schedule, func() { w.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("reconcile schedule %q: %w", schedule, err)
	}

	return w, nil
}

func (w *ReconcileWorker) Start() {
	w.cron.Start()
}

// Stop waits for a running sweep to finish.
func (w *ReconcileWorker) Stop() {
	<-w.cron.Stop().Done()
}

// RunOnce reconciles one batch and returns how many payments came back paid.
func (w *ReconcileWorker) RunOnce(ctx context.Context) int {
	pending, err := w.pending.GetPendingReconciliations(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("failed to list pending payments", slog.Any("error", err))
		return 0
	}

	paid := 0
	for _, p := range pending {
		if ctx.Err() != nil {
			break
		}

		status := w.reconciler.ReconcilePayment(ctx, p.JobAdId, p.SessionId)
		switch status.Status {
		case common.InvoicePaid:
			paid++
		case common.InvoiceError:
			w.logger.Warn("payment reconciliation failed",
				slog.String("jobAdId", p.JobAdId.String()),
				slog.String("message", status.Message),
			)
		}
	}

	if len(pending) > 0 {
		w.logger.Info("reconciled payments", slog.Int("pending", len(pending)), slog.Int("paid", paid))
	}

	return paid
}
