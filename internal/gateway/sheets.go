package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/bozowang/fdsell/internal/domain"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsGateway appends confirmed orders to a Google Spreadsheet directly via
// the Sheets API, as an alternative to the Apps-Script webhook.
type SheetsGateway struct {
	service       *sheets.Service
	spreadsheetID string
	writeRange    string
	now           func() time.Time
}

type SheetsConfig struct {
	CredentialsJSON []byte
	SpreadsheetID   string
	WriteRange      string
}

func NewSheetsGateway(cfg SheetsConfig) (*SheetsGateway, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets gateway: spreadsheet ID is required")
	}

	if cfg.WriteRange == "" {
		cfg.WriteRange = "Orders!A:K"
	}

	service, err := sheets.NewService(context.Background(), option.WithCredentialsJSON(cfg.CredentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsGateway{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		writeRange:    cfg.WriteRange,
		now:           time.Now,
	}, nil
}

func (g *SheetsGateway) SaveOrder(ctx context.Context, order *domain.ConfirmedOrder) (Result, error) {
	row := []interface{}{
		order.OrderNumber,
		order.CustomerName,
		order.CustomerPhone,
		order.DeliveryAddress,
		string(order.PaymentMethod),
		order.OrderNotes,
		FlattenItems(order.Items),
		order.Subtotal,
		order.ShippingFee,
		order.Total,
		OrderTime(g.now()),
	}

	values := &sheets.ValueRange{Values: [][]interface{}{row}}

	resp, err := g.service.Spreadsheets.Values.
		Append(g.spreadsheetID, g.writeRange, values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return Result{}, fmt.Errorf("failed to append order row: %w", err)
	}

	if resp.Updates == nil || resp.Updates.UpdatedRows == 0 {
		return Result{Success: false, Message: "無法將訂單儲存至 Google Sheets"}, nil
	}

	return Result{Success: true, Message: "訂單已寫入試算表"}, nil
}
