package types

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/weaveai/weaveai-backend/pkg/enums"
)

// SaleRecord is one row of the canonical sales table produced by the
// normalizer. Records are immutable once built; the analytic components only
// ever read them.
type SaleRecord struct {
	OrderID  string            `json:"order_id"`
	SKU      string            `json:"sku"`
	Quantity int               `json:"quantity"`
	Amount   decimal.Decimal   `json:"amount"`
	Category string            `json:"category"`
	Date     time.Time         `json:"date"`
	Status   enums.OrderStatus `json:"status"`
}
