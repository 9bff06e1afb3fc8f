package clustering

import (
	"sort"

	"github.com/weaveai/weaveai-backend/pkg/types"
)

// ProductAggregate is one SKU rolled up across all of its sale lines.
type ProductAggregate struct {
	SKU         string  `json:"sku"`
	TotalAmount float64 `json:"total_amount"`
	TotalQty    int     `json:"total_qty"`
	OrderCount  int     `json:"order_count"`
}

// Aggregate rolls sale records up per SKU. OrderCount is the number of
// distinct orders the SKU appears in, not the number of lines. Output is
// sorted by SKU so downstream sampling and clustering see a stable order.
func Aggregate(records []types.SaleRecord) []ProductAggregate {
	type acc struct {
		amount float64
		qty    int
		orders map[string]struct{}
	}

	bySKU := make(map[string]*acc)
	for _, rec := range records {
		a, ok := bySKU[rec.SKU]
		if !ok {
			a = &acc{orders: make(map[string]struct{})}
			bySKU[rec.SKU] = a
		}
		amount, _ := rec.Amount.Float64()
		a.amount += amount
		a.qty += rec.Quantity
		a.orders[rec.OrderID] = struct{}{}
	}

	aggregates := make([]ProductAggregate, 0, len(bySKU))
	for sku, a := range bySKU {
		aggregates = append(aggregates, ProductAggregate{
			SKU:         sku,
			TotalAmount: a.amount,
			TotalQty:    a.qty,
			OrderCount:  len(a.orders),
		})
	}
	sort.Slice(aggregates, func(i, j int) bool { return aggregates[i].SKU < aggregates[j].SKU })
	return aggregates
}

// featureMatrix maps aggregates to their (total_amount, total_qty, order_count)
// feature rows in the same order.
func featureMatrix(aggregates []ProductAggregate) [][]float64 {
	rows := make([][]float64, len(aggregates))
	for i, a := range aggregates {
		rows[i] = []float64{a.TotalAmount, float64(a.TotalQty), float64(a.OrderCount)}
	}
	return rows
}
