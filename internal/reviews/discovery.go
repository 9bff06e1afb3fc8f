package reviews

import (
	"strconv"
	"strings"

	pkgerrors "github.com/weaveai/weaveai-backend/pkg/errors"
	"github.com/weaveai/weaveai-backend/pkg/tabular"
)

// priorityColumns are well-known review export headers, checked verbatim
// before any fuzzy matching.
var priorityColumns = []string{"reviews.text", "review_text", "content", "comment", "review"}

// fuzzyKeywords mark a column name as review-ish when contained
// case-insensitively.
var fuzzyKeywords = []string{"text", "review", "content", "comment"}

// discoveryRule is one step of the prioritized search. Rules run in order and
// the first match wins; each is independently testable.
type discoveryRule struct {
	name  string
	apply func(t *tabular.Table) (string, bool)
}

var discoveryRules = []discoveryRule{
	{name: "exact_priority_name", apply: matchPriorityColumn},
	{name: "fuzzy_keyword_longest_text", apply: matchFuzzyKeyword},
	{name: "first_text_column", apply: matchFirstTextColumn},
}

// FindReviewColumn locates the column most likely to contain free-text review
// content. Deliberately permissive: downstream scoring tolerates occasional
// non-review text, while a miss makes the whole upload unusable.
func FindReviewColumn(t *tabular.Table) (string, error) {
	if t != nil {
		for _, rule := range discoveryRules {
			if col, ok := rule.apply(t); ok {
				return col, nil
			}
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeNoReviewColumn, "no review text column found").
		WithDetails(map[string]any{"columns": columnsOf(t)})
}

func columnsOf(t *tabular.Table) []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.Columns...)
}

func matchPriorityColumn(t *tabular.Table) (string, bool) {
	for _, name := range priorityColumns {
		if t.HasColumn(name) && hasNonBlank(t.Col(name)) {
			return name, true
		}
	}
	return "", false
}

func matchFuzzyKeyword(t *tabular.Table) (string, bool) {
	best := ""
	bestLen := -1.0
	for _, col := range t.Columns {
		if !containsKeyword(col) {
			continue
		}
		values := t.Col(col)
		if !isTextColumn(values) {
			continue
		}
		if mean := meanTextLength(values); mean > bestLen {
			best, bestLen = col, mean
		}
	}
	return best, best != ""
}

func matchFirstTextColumn(t *tabular.Table) (string, bool) {
	for _, col := range t.Columns {
		values := t.Col(col)
		if isTextColumn(values) && hasNonBlank(values) {
			return col, true
		}
	}
	return "", false
}

func containsKeyword(column string) bool {
	lowered := strings.ToLower(column)
	for _, key := range fuzzyKeywords {
		if strings.Contains(lowered, key) {
			return true
		}
	}
	return false
}

func hasNonBlank(values []string) bool {
	for _, v := range values {
		if !tabular.IsBlank(v) {
			return true
		}
	}
	return false
}

// isTextColumn reports whether the majority of non-blank values fail numeric
// parsing, i.e. the column holds prose rather than measures.
func isTextColumn(values []string) bool {
	nonBlank, numeric := 0, 0
	for _, v := range values {
		if tabular.IsBlank(v) {
			continue
		}
		nonBlank++
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			numeric++
		}
	}
	if nonBlank == 0 {
		return false
	}
	return numeric*2 < nonBlank
}

func meanTextLength(values []string) float64 {
	count, total := 0, 0
	for _, v := range values {
		if tabular.IsBlank(v) {
			continue
		}
		count++
		total += len(strings.TrimSpace(v))
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}
