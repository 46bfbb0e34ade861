package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentCard    PaymentMethod = "card"
	PaymentLinePay PaymentMethod = "linepay"
)

// CartItem is a MenuItem plus a quantity. Quantity is always >= 1; reaching 0
// removes the entry from the ledger.
type CartItem struct {
	MenuItem `bson:",inline"`
	Quantity int `json:"quantity" bson:"quantity"`
}

// OrderDetails is what the customer enters at checkout. Immutable once
// submitted.
type OrderDetails struct {
	CustomerName    string        `json:"customerName" bson:"customer_name"`
	CustomerPhone   string        `json:"customerPhone" bson:"customer_phone"`
	DeliveryAddress string        `json:"deliveryAddress" bson:"delivery_address"`
	PaymentMethod   PaymentMethod `json:"paymentMethod" bson:"payment_method"`
	OrderNotes      string        `json:"orderNotes,omitempty" bson:"order_notes,omitempty"`
}

// OrderedItem is a display snapshot of a cart entry, decoupled from the live
// MenuItem so a confirmed order never changes after the fact.
type OrderedItem struct {
	Name     string `json:"name" bson:"name"`
	Quantity int    `json:"quantity" bson:"quantity"`
}

// ConfirmedOrder is created exactly once per successful checkout and is
// read-only afterward. Order number and delivery estimate are assigned at
// confirmation time and never recomputed.
type ConfirmedOrder struct {
	ID                    primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	OrderDetails          `bson:",inline"`
	OrderNumber           string        `json:"orderNumber" bson:"order_number"`
	EstimatedDeliveryTime string        `json:"estimatedDeliveryTime" bson:"estimated_delivery_time"`
	Items                 []OrderedItem `json:"items" bson:"items"`
	Subtotal              float64       `json:"subtotal" bson:"subtotal"`
	ShippingFee           float64       `json:"shippingFee" bson:"shipping_fee"`
	Total                 float64       `json:"total" bson:"total"`
	CreatedAt             time.Time     `json:"createdAt" bson:"created_at"`
}
