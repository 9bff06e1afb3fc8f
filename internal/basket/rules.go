package basket

import (
	"sort"
	"strings"
)

// Rule is one association between SKU sets, ranked by lift.
type Rule struct {
	Antecedents []string `json:"antecedents"`
	Consequents []string `json:"consequents"`
	Support     float64  `json:"support"`
	Confidence  float64  `json:"confidence"`
	Lift        float64  `json:"lift"`
}

// deriveRules expands every frequent itemset of size ≥2 into candidate rules
// and keeps those at or above minLift. Supports of every antecedent and
// consequent are available by downward closure: any subset of a frequent
// itemset is itself frequent and therefore already mined.
func deriveRules(itemsets []Itemset, minLift float64, topN int) []Rule {
	supportByKey := make(map[string]float64, len(itemsets))
	for _, is := range itemsets {
		supportByKey[itemsetKey(is.Items)] = is.Support
	}

	var rules []Rule
	for _, is := range itemsets {
		if len(is.Items) < 2 {
			continue
		}
		for _, antecedent := range properSubsets(is.Items) {
			consequent := difference(is.Items, antecedent)

			antSupport := supportByKey[itemsetKey(antecedent)]
			conSupport := supportByKey[itemsetKey(consequent)]
			if antSupport == 0 || conSupport == 0 {
				continue
			}

			confidence := is.Support / antSupport
			lift := confidence / conSupport
			if lift < minLift {
				continue
			}
			rules = append(rules, Rule{
				Antecedents: antecedent,
				Consequents: consequent,
				Support:     is.Support,
				Confidence:  confidence,
				Lift:        lift,
			})
		}
	}

	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Lift != rules[j].Lift {
			return rules[i].Lift > rules[j].Lift
		}
		if rules[i].Support != rules[j].Support {
			return rules[i].Support > rules[j].Support
		}
		ki, kj := itemsetKey(rules[i].Antecedents), itemsetKey(rules[j].Antecedents)
		if ki != kj {
			return ki < kj
		}
		return itemsetKey(rules[i].Consequents) < itemsetKey(rules[j].Consequents)
	})
	if topN > 0 && len(rules) > topN {
		rules = rules[:topN]
	}
	return rules
}

// properSubsets returns every non-empty proper subset of items. Itemsets this
// deep in the pipeline are tiny (support ≥2% of baskets bounds their size), so
// the bitmask walk is fine here even though mining itself must not enumerate
// subsets.
func properSubsets(items []string) [][]string {
	n := len(items)
	var subsets [][]string
	for mask := 1; mask < (1<<n)-1; mask++ {
		subset := make([]string, 0, n)
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				subset = append(subset, items[i])
			}
		}
		subsets = append(subsets, subset)
	}
	return subsets
}

func difference(items, exclude []string) []string {
	excluded := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		excluded[e] = struct{}{}
	}
	var out []string
	for _, item := range items {
		if _, ok := excluded[item]; !ok {
			out = append(out, item)
		}
	}
	return out
}

func itemsetKey(items []string) string {
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}
