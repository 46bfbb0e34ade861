package order

import (
	"time"

	"github.com/bozowang/fdsell/internal/domain"
	"github.com/bozowang/fdsell/internal/supplier"
)

// DefaultShippingFee is the fixed delivery charge in TWD.
const DefaultShippingFee = 30

// Assemble combines the checkout details, the cart contents at submission
// time, and the supplier confirmation into the final read-only order record.
// Item snapshots carry name and quantity only, decoupled from live cart
// entries.
func Assemble(
	details domain.OrderDetails,
	items []domain.CartItem,
	confirmation supplier.Confirmation,
	shippingFee float64,
	now time.Time,
) *domain.ConfirmedOrder {
	subtotal := 0.0
	snapshot := make([]domain.OrderedItem, 0, len(items))
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
		snapshot = append(snapshot, domain.OrderedItem{Name: item.Name, Quantity: item.Quantity})
	}

	return &domain.ConfirmedOrder{
		OrderDetails:          details,
		OrderNumber:           confirmation.OrderNumber,
		EstimatedDeliveryTime: confirmation.EstimatedDeliveryTime,
		Items:                 snapshot,
		Subtotal:              subtotal,
		ShippingFee:           shippingFee,
		Total:                 subtotal + shippingFee,
		CreatedAt:             now,
	}
}
