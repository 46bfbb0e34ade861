package supplier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bozowang/fdsell/internal/domain"
)

// Faults from the generative supplier are normalized into these errors at the
// package boundary; callers never see raw transport failures.
var (
	ErrMissingAPIKey = errors.New("supplier API key is not configured")
	ErrEmptyResult   = errors.New("supplier returned no data")
	ErrUnavailable   = errors.New("supplier request failed")
)

type Confirmation struct {
	OrderNumber           string `json:"orderNumber"`
	EstimatedDeliveryTime string `json:"estimatedDeliveryTime"`
}

// Supplier is the generative data source that invents restaurant, menu and
// order-confirmation data.
type Supplier interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	ListMenu(ctx context.Context, restaurantName string) ([]domain.MenuItem, error)
	// ConfirmOrder never fails: on any fault it returns FallbackConfirmation.
	ConfirmOrder(ctx context.Context, details domain.OrderDetails, items []domain.CartItem) Confirmation
}

// FallbackConfirmation is the deterministic local stand-in used when the
// supplier cannot produce a confirmation. The order number is derived from the
// current timestamp so checkout always completes with a well-formed order.
func FallbackConfirmation(now time.Time) Confirmation {
	millis := fmt.Sprintf("%d", now.UnixMilli())

	return Confirmation{
		OrderNumber:           "ORD-" + millis[len(millis)-6:],
		EstimatedDeliveryTime: "30-45 分鐘",
	}
}
