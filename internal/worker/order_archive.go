package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bozowang/fdsell/internal/domain"
	"github.com/bozowang/fdsell/internal/queue"
	"github.com/bozowang/fdsell/internal/repo"
	"go.uber.org/zap"
)

// OrderArchiveWorker consumes confirmed-order events and persists them to the
// local archive. The spreadsheet is the system of record; this archive backs
// the order lookup and QR endpoints.
type OrderArchiveWorker struct {
	orderRepo repo.OrderRepository
	broker    queue.Broker
	logger    *zap.SugaredLogger
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewOrderArchiveWorker(
	orderRepo repo.OrderRepository,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *OrderArchiveWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &OrderArchiveWorker{
		orderRepo: orderRepo,
		broker:    broker,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (w *OrderArchiveWorker) Start() error {
	w.logger.Info("starting order archive worker")

	return w.broker.Subscribe(w.ctx, queue.QueueOrderConfirmed, w.handleMessage)
}

func (w *OrderArchiveWorker) Stop() {
	w.logger.Info("stopping order archive worker")
	w.cancel()
}

func (w *OrderArchiveWorker) handleMessage(ctx context.Context, message []byte) error {
	var event domain.OrderConfirmedEvent
	if err := json.Unmarshal(message, &event); err != nil {
		w.logger.Errorw("failed to unmarshal order event", "error", err)
		return fmt.Errorf("failed to unmarshal order event: %w", err)
	}

	if event.Order.CreatedAt.IsZero() {
		event.Order.CreatedAt = time.Now()
	}

	w.logger.Infow("archiving confirmed order", "order_number", event.Order.OrderNumber)

	if err := w.orderRepo.Create(ctx, &event.Order); err != nil {
		w.logger.Errorw("failed to archive order", "order_number", event.Order.OrderNumber, "error", err)
		return err
	}

	return nil
}
