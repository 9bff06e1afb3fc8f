// Package normalizer turns arbitrary marketplace sales exports into the
// canonical sale-record table every analytic component consumes.
package normalizer

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/weaveai/weaveai-backend/pkg/enums"
	pkgerrors "github.com/weaveai/weaveai-backend/pkg/errors"
	"github.com/weaveai/weaveai-backend/pkg/tabular"
	"github.com/weaveai/weaveai-backend/pkg/types"
)

// Canonical column names after synonym renaming.
const (
	ColAmount   = "Amount"
	ColCategory = "Category"
	ColDate     = "Date"
	ColStatus   = "Status"
	ColSKU      = "SKU"
	ColOrderID  = "Order ID"
	ColQty      = "Qty"
)

// synonymColumns maps known export variants onto canonical names. Matching is
// exact; fuzzy matching is deliberately avoided so behavior stays auditable.
var synonymColumns = map[string]string{
	"Total Sales": ColAmount,
	"Product":     ColSKU,
	"Quantity":    ColQty,
	"Order_ID":    ColOrderID,
}

var requiredColumns = []string{ColAmount, ColCategory, ColDate, ColStatus, ColSKU, ColOrderID, ColQty}

// strictDateLayout is tried for the whole column first; exports from the
// primary marketplace use month-day-two-digit-year.
const strictDateLayout = "01-02-06"

// permissiveDateLayouts are attempted in order when the strict layout fails
// anywhere in the column. Values no layout accepts become missing, they never
// abort the run.
var permissiveDateLayouts = []string{
	strictDateLayout,
	"2006-01-02",
	"01-02-2006",
	"01/02/2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Normalize validates and cleans the uploaded table into canonical sale
// records. The input table is never mutated. A missing required column is a
// schema error naming every absent column; everything else degrades by
// dropping the offending row.
func Normalize(input *tabular.Table) ([]types.SaleRecord, error) {
	if input == nil {
		return nil, pkgerrors.New(pkgerrors.CodeSchema, "no table provided").
			WithDetails(map[string]any{"missing_columns": requiredColumns})
	}

	table := input.Clone()
	table.Rename(synonymColumns)

	if missing := table.MissingColumns(requiredColumns); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeSchema, "missing required columns: "+strings.Join(missing, ", ")).
			WithDetails(map[string]any{"missing_columns": missing})
	}

	dates := parseDateColumn(table.Col(ColDate))

	records := make([]types.SaleRecord, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		amountRaw := table.Cell(i, ColAmount)
		category := strings.TrimSpace(table.Cell(i, ColCategory))
		if tabular.IsBlank(amountRaw) || category == "" || tabular.IsBlank(table.Cell(i, ColDate)) {
			continue
		}

		date, ok := dates[i]
		if !ok {
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(amountRaw))
		if err != nil {
			continue
		}

		status, err := enums.ParseOrderStatus(strings.TrimSpace(table.Cell(i, ColStatus)))
		if err != nil {
			continue
		}

		sku := strings.TrimSpace(table.Cell(i, ColSKU))
		orderID := strings.TrimSpace(table.Cell(i, ColOrderID))
		if sku == "" || orderID == "" {
			continue
		}

		qty, ok := parseQuantity(table.Cell(i, ColQty))
		if !ok {
			continue
		}

		records = append(records, types.SaleRecord{
			OrderID:  orderID,
			SKU:      sku,
			Quantity: qty,
			Amount:   amount,
			Category: category,
			Date:     date,
			Status:   status,
		})
	}

	return records, nil
}

// parseDateColumn tries the strict layout across the whole column; if any
// non-blank value rejects it, the column is re-read permissively and values
// no layout accepts are reported as missing.
func parseDateColumn(values []string) map[int]time.Time {
	parsed := make(map[int]time.Time, len(values))

	strictOK := true
	for _, value := range values {
		if tabular.IsBlank(value) {
			continue
		}
		if _, err := time.Parse(strictDateLayout, strings.TrimSpace(value)); err != nil {
			strictOK = false
			break
		}
	}

	for i, value := range values {
		if tabular.IsBlank(value) {
			continue
		}
		trimmed := strings.TrimSpace(value)
		if strictOK {
			if t, err := time.Parse(strictDateLayout, trimmed); err == nil {
				parsed[i] = t
			}
			continue
		}
		for _, layout := range permissiveDateLayouts {
			if t, err := time.Parse(layout, trimmed); err == nil {
				parsed[i] = t
				break
			}
		}
	}

	return parsed
}

func parseQuantity(raw string) (int, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	qty, err := strconv.Atoi(trimmed)
	if err != nil {
		// Exports sometimes write quantities as "2.0".
		f, ferr := strconv.ParseFloat(trimmed, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, false
		}
		qty = int(f)
	}
	if qty < 0 {
		return 0, false
	}
	return qty, true
}

// RecordsTable renders canonical records back into tabular form. The result
// normalizes to itself, which keeps re-submission of a cleaned export cheap.
func RecordsTable(records []types.SaleRecord) *tabular.Table {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Amount.String(),
			rec.Category,
			rec.Date.Format(strictDateLayout),
			rec.Status.String(),
			rec.SKU,
			rec.OrderID,
			strconv.Itoa(rec.Quantity),
		})
	}
	return tabular.New(requiredColumns, rows)
}
