package reviews

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgerrors "github.com/weaveai/weaveai-backend/pkg/errors"
	"github.com/weaveai/weaveai-backend/pkg/tabular"
)

func TestFindReviewColumnExactPriority(t *testing.T) {
	table := tabular.New(
		[]string{"id", "review_text", "customer_feedback"},
		[][]string{{"1", "great product", "meh"}},
	)

	col, err := FindReviewColumn(table)
	require.NoError(t, err)
	assert.Equal(t, "review_text", col)
}

func TestFindReviewColumnPriorityRequiresContent(t *testing.T) {
	// "review" exists but is all blank; the fuzzy rule should pick the
	// populated keyword column instead.
	table := tabular.New(
		[]string{"review", "feedback text"},
		[][]string{{"", "loved it, would buy again"}, {"  ", "too small"}},
	)

	col, err := FindReviewColumn(table)
	require.NoError(t, err)
	assert.Equal(t, "feedback text", col)
}

func TestFindReviewColumnFuzzyPicksLongestMean(t *testing.T) {
	table := tabular.New(
		[]string{"comment_code", "product comments"},
		[][]string{
			{"ab", "the stitching came apart after two days of light use"},
			{"cd", "color much lighter than pictured but still beautiful"},
		},
	)

	col, err := FindReviewColumn(table)
	require.NoError(t, err)
	assert.Equal(t, "product comments", col)
}

func TestFindReviewColumnFuzzySkipsNumericColumns(t *testing.T) {
	table := tabular.New(
		[]string{"text_id", "notes"},
		[][]string{{"1001", "arrived broken"}, {"1002", "fast shipping"}},
	)

	// "text_id" matches a keyword but is numeric; fall through to the first
	// text-typed column.
	col, err := FindReviewColumn(table)
	require.NoError(t, err)
	assert.Equal(t, "notes", col)
}

func TestFindReviewColumnFallbackFirstText(t *testing.T) {
	table := tabular.New(
		[]string{"price", "description"},
		[][]string{{"9.99", "soft leather wallet"}},
	)

	col, err := FindReviewColumn(table)
	require.NoError(t, err)
	assert.Equal(t, "description", col)
}

func TestFindReviewColumnNotFound(t *testing.T) {
	table := tabular.New(
		[]string{"price", "qty"},
		[][]string{{"9.99", "2"}},
	)

	_, err := FindReviewColumn(table)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNoReviewColumn))
}

func TestIsTextColumnMajorityRule(t *testing.T) {
	assert.True(t, isTextColumn([]string{"hello", "world", "3"}))
	assert.False(t, isTextColumn([]string{"1", "2", "three"}))
	assert.False(t, isTextColumn([]string{"", "  "}))
}
