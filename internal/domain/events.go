package domain

import "time"

type OrderConfirmedEvent struct {
	EventType string         `json:"event_type"`
	Order     ConfirmedOrder `json:"order"`
	Timestamp time.Time      `json:"timestamp"`
}

const (
	EventOrderConfirmed = "order.confirmed"
)
