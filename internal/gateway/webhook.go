package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bozowang/fdsell/internal/domain"
)

// WebhookGateway posts confirmed orders to an Apps-Script style spreadsheet
// webhook.
type WebhookGateway struct {
	client    *http.Client
	scriptURL string
	now       func() time.Time
}

type WebhookConfig struct {
	ScriptURL string
	Timeout   time.Duration
}

func NewWebhookGateway(cfg WebhookConfig) (*WebhookGateway, error) {
	if cfg.ScriptURL == "" {
		return nil, fmt.Errorf("webhook gateway: script URL is required")
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &WebhookGateway{
		client:    &http.Client{Timeout: cfg.Timeout},
		scriptURL: cfg.ScriptURL,
		now:       time.Now,
	}, nil
}

type sheetRow struct {
	OrderNumber     string  `json:"orderNumber"`
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	DeliveryAddress string  `json:"deliveryAddress"`
	PaymentMethod   string  `json:"paymentMethod"`
	OrderNotes      string  `json:"orderNotes"`
	Items           string  `json:"items"`
	Subtotal        float64 `json:"subtotal"`
	ShippingFee     float64 `json:"shippingFee"`
	Total           float64 `json:"total"`
	OrderTime       string  `json:"orderTime"`
}

type webhookRequest struct {
	OrderData sheetRow `json:"orderData"`
}

type webhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (g *WebhookGateway) SaveOrder(ctx context.Context, order *domain.ConfirmedOrder) (Result, error) {
	body, err := json.Marshal(webhookRequest{OrderData: sheetRow{
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		DeliveryAddress: order.DeliveryAddress,
		PaymentMethod:   string(order.PaymentMethod),
		OrderNotes:      order.OrderNotes,
		Items:           FlattenItems(order.Items),
		Subtotal:        order.Subtotal,
		ShippingFee:     order.ShippingFee,
		Total:           order.Total,
		OrderTime:       OrderTime(g.now()),
	}})
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.scriptURL+"?action=saveOrder", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build webhook request: %w", err)
	}
	// Apps Script rejects preflighted content types
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := g.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to reach spreadsheet webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{
			Success: false,
			Message: fmt.Sprintf("Google Sheets API 回應錯誤，狀態碼: %d", resp.StatusCode),
		}, nil
	}

	var decoded webhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, fmt.Errorf("failed to decode webhook response: %w", err)
	}

	if !decoded.Success {
		message := decoded.Error
		if message == "" {
			message = "無法將訂單儲存至 Google Sheets"
		}
		return Result{Success: false, Message: message}, nil
	}

	return Result{Success: true, Message: decoded.Message}, nil
}
