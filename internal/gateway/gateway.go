package gateway

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bozowang/fdsell/internal/domain"
)

// Result is the gateway's verdict on a save attempt. A transport-level fault
// is returned as an error instead; callers treat both as checkout failures.
type Result struct {
	Success bool
	Message string
}

// Gateway durably stores a confirmed order in the external spreadsheet.
type Gateway interface {
	SaveOrder(ctx context.Context, order *domain.ConfirmedOrder) (Result, error)
}

// FlattenItems renders the ordered items as the spreadsheet's single-cell
// item list, e.g. "小籠包 x2, 蛋炒飯 x1".
func FlattenItems(items []domain.OrderedItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, item.Name+" x"+strconv.Itoa(item.Quantity))
	}

	return strings.Join(parts, ", ")
}

// OrderTime formats the localized timestamp column (zh-TW, Asia/Taipei).
func OrderTime(t time.Time) string {
	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		loc = time.FixedZone("CST", 8*60*60)
	}

	return t.In(loc).Format("2006/01/02 15:04:05")
}
