package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bozowang/fdsell/internal/domain"
	"github.com/bozowang/fdsell/internal/gateway"
	"github.com/bozowang/fdsell/internal/queue"
	"github.com/bozowang/fdsell/internal/supplier"
	"go.uber.org/zap"
)

var ErrEmptyCart = errors.New("cannot check out an empty cart")

// SaveError is a persistence rejection whose message is safe to show the
// customer.
type SaveError struct {
	Message string
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("order save rejected: %s", e.Message)
}

// CheckoutService turns a cart plus checkout details into a persisted
// ConfirmedOrder.
type CheckoutService struct {
	supplier    supplier.Supplier
	gateway     gateway.Gateway
	broker      queue.Broker
	logger      *zap.SugaredLogger
	shippingFee float64
	now         func() time.Time
}

func NewCheckoutService(
	sup supplier.Supplier,
	gw gateway.Gateway,
	broker queue.Broker,
	logger *zap.SugaredLogger,
	shippingFee float64,
) *CheckoutService {
	if shippingFee <= 0 {
		shippingFee = DefaultShippingFee
	}

	return &CheckoutService{
		supplier:    sup,
		gateway:     gw,
		broker:      broker,
		logger:      logger,
		shippingFee: shippingFee,
		now:         time.Now,
	}
}

func (s *CheckoutService) ShippingFee() float64 {
	return s.shippingFee
}

// Submit confirms, assembles and persists the order. The supplier confirmation
// cannot fail (it falls back locally), so the only failure mode is the
// persistence gateway; on a gateway failure the caller keeps the cart and the
// customer retries.
func (s *CheckoutService) Submit(ctx context.Context, details domain.OrderDetails, items []domain.CartItem) (*domain.ConfirmedOrder, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	confirmation := s.supplier.ConfirmOrder(ctx, details, items)

	order := Assemble(details, items, confirmation, s.shippingFee, s.now())

	result, err := s.gateway.SaveOrder(ctx, order)
	if err != nil {
		s.logger.Errorw("failed to save order", "order_number", order.OrderNumber, "error", err)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	if !result.Success {
		s.logger.Warnw("order save rejected", "order_number", order.OrderNumber, "message", result.Message)
		return nil, &SaveError{Message: result.Message}
	}

	s.publishConfirmed(ctx, order)

	s.logger.Infow("order confirmed",
		"order_number", order.OrderNumber,
		"customer", order.CustomerName,
		"total", order.Total,
	)

	return order, nil
}

// publishConfirmed hands the order to the archive pipeline. Best-effort: the
// order is already durable in the spreadsheet, so a publish failure must not
// fail the checkout.
func (s *CheckoutService) publishConfirmed(ctx context.Context, order *domain.ConfirmedOrder) {
	if s.broker == nil {
		return
	}

	event := domain.OrderConfirmedEvent{
		EventType: domain.EventOrderConfirmed,
		Order:     *order,
		Timestamp: s.now(),
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorw("failed to marshal order event", "order_number", order.OrderNumber, "error", err)
		return
	}

	if err := s.broker.Publish(ctx, queue.QueueOrderConfirmed, eventBytes); err != nil {
		s.logger.Errorw("failed to publish order event", "order_number", order.OrderNumber, "error", err)
	}
}
