package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgerrors "github.com/weaveai/weaveai-backend/pkg/errors"
	"github.com/weaveai/weaveai-backend/pkg/tabular"
)

func salesTable(rows [][]string) *tabular.Table {
	return tabular.New(
		[]string{"Amount", "Category", "Date", "Status", "SKU", "Order ID", "Qty"},
		rows,
	)
}

func TestNormalizeHappyPath(t *testing.T) {
	table := salesTable([][]string{
		{"100.50", "Apparel", "04-30-22", "Shipped", "SKU-1", "O-1", "2"},
		{"-15.00", "Apparel", "05-01-22", "Cancelled", "SKU-2", "O-2", "1"},
	})

	records, err := Normalize(table)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "SKU-1", records[0].SKU)
	assert.Equal(t, "O-1", records[0].OrderID)
	assert.Equal(t, 2, records[0].Quantity)
	assert.Equal(t, "100.5", records[0].Amount.String())
	assert.Equal(t, 2022, records[0].Date.Year())
	assert.True(t, records[1].Amount.IsNegative(), "returns keep their negative amount")
}

func TestNormalizeMissingColumnsNamed(t *testing.T) {
	table := tabular.New([]string{"Amount", "SKU"}, [][]string{{"1", "S"}})

	_, err := Normalize(table)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeSchema, typed.Code())

	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	missing, ok := details["missing_columns"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"Category", "Date", "Status", "Order ID", "Qty"}, missing)
}

func TestNormalizeSynonymsRenamedBeforeValidation(t *testing.T) {
	table := tabular.New(
		[]string{"Total Sales", "Category", "Date", "Status", "Product", "Order_ID", "Quantity"},
		[][]string{{"42", "Toys", "01-15-23", "Completed", "SKU-9", "O-9", "3"}},
	)

	records, err := Normalize(table)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SKU-9", records[0].SKU)
	assert.Equal(t, "42", records[0].Amount.String())
}

func TestNormalizeDropsUnknownStatus(t *testing.T) {
	table := salesTable([][]string{
		{"10", "A", "04-30-22", "Refunded", "S1", "O1", "1"},
		{"10", "A", "04-30-22", "Shipped - Delivered to Buyer", "S2", "O2", "1"},
	})

	records, err := Normalize(table)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "S2", records[0].SKU)
}

func TestNormalizeDropsNullAndUnparseableRows(t *testing.T) {
	table := salesTable([][]string{
		{"", "A", "04-30-22", "Shipped", "S1", "O1", "1"},         // blank amount
		{"10", "", "04-30-22", "Shipped", "S2", "O2", "1"},        // blank category
		{"10", "A", "", "Shipped", "S3", "O3", "1"},               // blank date
		{"not-a-number", "A", "04-30-22", "Shipped", "S4", "O4", "1"}, // bad amount
		{"10", "A", "04-30-22", "Shipped", "S5", "O5", "-2"},      // negative qty
		{"10", "A", "04-30-22", "Shipped", "S6", "O6", "2"},       // keeper
	})

	records, err := Normalize(table)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "S6", records[0].SKU)
}

func TestNormalizePermissiveDateFallback(t *testing.T) {
	// One ISO date poisons the strict layout for the whole column; both rows
	// should still come through via the permissive pass.
	table := salesTable([][]string{
		{"10", "A", "2022-04-30", "Shipped", "S1", "O1", "1"},
		{"20", "A", "05-01-22", "Shipped", "S2", "O2", "1"},
	})

	records, err := Normalize(table)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2022, records[0].Date.Year())
	assert.Equal(t, 2022, records[1].Date.Year())
}

func TestNormalizeUnparseableDateBecomesMissing(t *testing.T) {
	table := salesTable([][]string{
		{"10", "A", "2022-04-30", "Shipped", "S1", "O1", "1"},
		{"20", "A", "someday", "Shipped", "S2", "O2", "1"},
	})

	records, err := Normalize(table)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "S1", records[0].SKU)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	table := tabular.New(
		[]string{"Total Sales", "Category", "Date", "Status", "Product", "Order_ID", "Quantity"},
		[][]string{{"42", "Toys", "01-15-23", "Completed", "SKU-9", "O-9", "3"}},
	)

	_, err := Normalize(table)
	require.NoError(t, err)
	assert.Equal(t, "Total Sales", table.Columns[0], "caller's table must keep its column names")
	assert.Equal(t, "42", table.Rows[0][0])
}

func TestNormalizeIdempotent(t *testing.T) {
	table := salesTable([][]string{
		{"100.5", "Apparel", "04-30-22", "Shipped", "SKU-1", "O-1", "2"},
		{"7", "Toys", "05-02-22", "Pending", "SKU-2", "O-2", "1"},
	})

	first, err := Normalize(table)
	require.NoError(t, err)

	second, err := Normalize(RecordsTable(first))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalizeEmptyTable(t *testing.T) {
	records, err := Normalize(salesTable(nil))
	require.NoError(t, err)
	assert.Empty(t, records)
}
