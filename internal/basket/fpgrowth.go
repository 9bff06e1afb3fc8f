package basket

import "sort"

// Itemset is a frequent SKU combination with its support relative to the
// basket count.
type Itemset struct {
	Items   []string
	Count   int
	Support float64
}

type fpNode struct {
	item     string
	count    int
	parent   *fpNode
	children map[string]*fpNode
	next     *fpNode
}

type fpTree struct {
	root    *fpNode
	headers map[string]*fpNode
	counts  map[string]int
}

// mineFrequentItemsets runs FP-growth over the transactions at the given
// minimum support count. It never enumerates the full powerset; only
// conditional trees of frequent prefixes are expanded, so cost scales with
// the number of frequent patterns rather than 2^SKUs.
func mineFrequentItemsets(transactions [][]string, minCount, totalBaskets int) []Itemset {
	if minCount < 1 {
		minCount = 1
	}
	tree := buildTree(transactions, minCount)
	if tree == nil {
		return nil
	}

	var itemsets []Itemset
	mineTree(tree, nil, minCount, &itemsets)

	for i := range itemsets {
		sort.Strings(itemsets[i].Items)
		itemsets[i].Support = float64(itemsets[i].Count) / float64(totalBaskets)
	}
	sort.Slice(itemsets, func(i, j int) bool {
		return itemsetKey(itemsets[i].Items) < itemsetKey(itemsets[j].Items)
	})
	return itemsets
}

func buildTree(transactions [][]string, minCount int) *fpTree {
	counts := make(map[string]int)
	for _, txn := range transactions {
		for _, item := range txn {
			counts[item]++
		}
	}
	for item, count := range counts {
		if count < minCount {
			delete(counts, item)
		}
	}
	if len(counts) == 0 {
		return nil
	}

	tree := &fpTree{
		root:    &fpNode{children: make(map[string]*fpNode)},
		headers: make(map[string]*fpNode),
		counts:  counts,
	}
	for _, txn := range transactions {
		filtered := make([]string, 0, len(txn))
		for _, item := range txn {
			if _, ok := counts[item]; ok {
				filtered = append(filtered, item)
			}
		}
		// Frequency-descending insert order keeps the tree compact; the name
		// tiebreak keeps it deterministic.
		sort.Slice(filtered, func(i, j int) bool {
			if counts[filtered[i]] != counts[filtered[j]] {
				return counts[filtered[i]] > counts[filtered[j]]
			}
			return filtered[i] < filtered[j]
		})
		tree.insert(filtered, 1)
	}
	return tree
}

func (t *fpTree) insert(items []string, count int) {
	node := t.root
	for _, item := range items {
		child, ok := node.children[item]
		if !ok {
			child = &fpNode{item: item, parent: node, children: make(map[string]*fpNode)}
			node.children[item] = child
			child.next = t.headers[item]
			t.headers[item] = child
		}
		child.count += count
		node = child
	}
}

func mineTree(tree *fpTree, suffix []string, minCount int, out *[]Itemset) {
	items := make([]string, 0, len(tree.headers))
	for item := range tree.headers {
		items = append(items, item)
	}
	sort.Strings(items)

	for _, item := range items {
		support := tree.counts[item]
		pattern := append(append([]string(nil), suffix...), item)
		*out = append(*out, Itemset{Items: pattern, Count: support})

		conditional := conditionalTree(tree, item, minCount)
		if conditional != nil {
			mineTree(conditional, pattern, minCount, out)
		}
	}
}

// conditionalTree builds the FP-tree of prefix paths leading to item.
func conditionalTree(tree *fpTree, item string, minCount int) *fpTree {
	var paths [][]string
	var pathCounts []int
	for node := tree.headers[item]; node != nil; node = node.next {
		var path []string
		for p := node.parent; p != nil && p.item != ""; p = p.parent {
			path = append([]string{p.item}, path...)
		}
		if len(path) > 0 {
			paths = append(paths, path)
			pathCounts = append(pathCounts, node.count)
		}
	}
	if len(paths) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for i, path := range paths {
		for _, p := range path {
			counts[p] += pathCounts[i]
		}
	}
	for p, c := range counts {
		if c < minCount {
			delete(counts, p)
		}
	}
	if len(counts) == 0 {
		return nil
	}

	conditional := &fpTree{
		root:    &fpNode{children: make(map[string]*fpNode)},
		headers: make(map[string]*fpNode),
		counts:  counts,
	}
	for i, path := range paths {
		filtered := make([]string, 0, len(path))
		for _, p := range path {
			if _, ok := counts[p]; ok {
				filtered = append(filtered, p)
			}
		}
		sort.Slice(filtered, func(a, b int) bool {
			if counts[filtered[a]] != counts[filtered[b]] {
				return counts[filtered[a]] > counts[filtered[b]]
			}
			return filtered[a] < filtered[b]
		})
		conditional.insert(filtered, pathCounts[i])
	}
	return conditional
}
