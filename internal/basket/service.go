package basket

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"github.com/weaveai/weaveai-backend/pkg/config"
	"github.com/weaveai/weaveai-backend/pkg/logger"
	"github.com/weaveai/weaveai-backend/pkg/types"
)

// Output carries the ranked association rules. Numeric fields stay raw;
// percentage formatting belongs to whoever renders them.
type Output struct {
	Rules []Rule `json:"rules"`
}

// Service mines SKU co-occurrence rules from order baskets.
type Service interface {
	Mine(ctx context.Context, records []types.SaleRecord) (*Output, error)
}

type service struct {
	cfg  config.PipelineConfig
	logg *logger.Logger
}

func NewService(cfg config.PipelineConfig, logg *logger.Logger) Service {
	return &service{cfg: cfg, logg: logg}
}

func (s *service) Mine(ctx context.Context, records []types.SaleRecord) (*Output, error) {
	baskets := buildBaskets(records)
	orderIDs := sortedOrderIDs(baskets)

	if s.cfg.BasketSampleOrders > 0 && len(orderIDs) > s.cfg.BasketSampleOrders {
		rng := rand.New(rand.NewSource(s.cfg.Seed))
		perm := rng.Perm(len(orderIDs))
		sampled := make([]string, s.cfg.BasketSampleOrders)
		for i := range sampled {
			sampled[i] = orderIDs[perm[i]]
		}
		sort.Strings(sampled)
		orderIDs = sampled
	}

	transactions := toTransactions(baskets, orderIDs, s.cfg.BasketMinSKUQty)
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"orders": len(orderIDs),
			"lines":  len(records),
		})
		s.logg.Debug(logCtx, "basket.transactions_ready")
	}
	if len(orderIDs) == 0 {
		return &Output{Rules: []Rule{}}, nil
	}

	minCount := int(math.Ceil(s.cfg.BasketMinSupport * float64(len(orderIDs))))
	itemsets := mineFrequentItemsets(transactions, minCount, len(orderIDs))
	rules := deriveRules(itemsets, s.cfg.BasketMinLift, s.cfg.BasketTopRules)
	if rules == nil {
		rules = []Rule{}
	}
	return &Output{Rules: rules}, nil
}

// buildBaskets groups positive-quantity line items per order.
func buildBaskets(records []types.SaleRecord) map[string]map[string]int {
	baskets := make(map[string]map[string]int)
	for _, rec := range records {
		if rec.Quantity <= 0 {
			continue
		}
		b, ok := baskets[rec.OrderID]
		if !ok {
			b = make(map[string]int)
			baskets[rec.OrderID] = b
		}
		b[rec.SKU] += rec.Quantity
	}
	return baskets
}

func sortedOrderIDs(baskets map[string]map[string]int) []string {
	ids := make([]string, 0, len(baskets))
	for id := range baskets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// toTransactions drops SKUs whose total quantity across the sampled baskets
// is below the long-tail cutoff, then renders each order as a sorted SKU set.
// Orders emptied by the cutoff stay in the basket count: transactions may be
// empty slices, and support denominators include them.
func toTransactions(baskets map[string]map[string]int, orderIDs []string, minSKUQty int) [][]string {
	totalQty := make(map[string]int)
	for _, id := range orderIDs {
		for sku, qty := range baskets[id] {
			totalQty[sku] += qty
		}
	}

	transactions := make([][]string, len(orderIDs))
	for i, id := range orderIDs {
		var txn []string
		for sku := range baskets[id] {
			if totalQty[sku] >= minSKUQty {
				txn = append(txn, sku)
			}
		}
		sort.Strings(txn)
		transactions[i] = txn
	}
	return transactions
}
