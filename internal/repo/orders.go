package repo

import (
	"context"
	"errors"

	"github.com/bozowang/fdsell/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository interface {
	Create(ctx context.Context, order *domain.ConfirmedOrder) error
	GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.ConfirmedOrder, error)
	List(ctx context.Context, limit int) ([]domain.ConfirmedOrder, error)
}
