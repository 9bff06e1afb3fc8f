package clustering

import (
	"context"
	"math/rand"
	"sort"

	"github.com/weaveai/weaveai-backend/pkg/config"
	"github.com/weaveai/weaveai-backend/pkg/logger"
	"github.com/weaveai/weaveai-backend/pkg/types"
)

// ClusterSummary describes one segment of the catalog. The amount/qty/order
// fields are per-cluster means but keep the plain feature names on the wire,
// matching what dashboard consumers already read. Hot marks the single
// cluster with the highest mean revenue.
type ClusterSummary struct {
	Cluster         int     `json:"cluster"`
	Size            int     `json:"size"`
	MeanTotalAmount float64 `json:"total_amount"`
	MeanTotalQty    float64 `json:"total_qty"`
	MeanOrderCount  float64 `json:"order_count"`
	Hot             bool    `json:"is_hot_cluster"`
}

// ProductPoint is one SKU with its raw features and assigned cluster,
// suitable for a 3-feature scatter plot.
type ProductPoint struct {
	SKU         string  `json:"sku"`
	Cluster     int     `json:"cluster"`
	TotalAmount float64 `json:"total_amount"`
	TotalQty    int     `json:"total_qty"`
	OrderCount  int     `json:"order_count"`
}

// Output is the full clustering payload: ranked segments, per-SKU points and
// the advisory elbow series.
type Output struct {
	ClusterSummary []ClusterSummary `json:"cluster_summary"`
	ProductPoints  []ProductPoint   `json:"product_points"`
	ElbowData      []ElbowPoint     `json:"elbow_data"`
}

// Service segments the product catalog into commercially meaningful groups.
type Service interface {
	Cluster(ctx context.Context, records []types.SaleRecord) (*Output, error)
}

type service struct {
	cfg  config.PipelineConfig
	logg *logger.Logger
}

func NewService(cfg config.PipelineConfig, logg *logger.Logger) Service {
	return &service{cfg: cfg, logg: logg}
}

func (s *service) Cluster(ctx context.Context, records []types.SaleRecord) (*Output, error) {
	aggregates := Aggregate(records)
	if len(aggregates) == 0 {
		return &Output{
			ClusterSummary: []ClusterSummary{},
			ProductPoints:  []ProductPoint{},
			ElbowData:      []ElbowPoint{},
		}, nil
	}

	fitSample := aggregates
	if s.cfg.ClusterFitCap > 0 && len(aggregates) > s.cfg.ClusterFitCap {
		fitSample = topByAmount(aggregates, s.cfg.ClusterFitCap)
	}

	var scaler StandardScaler
	fitFeatures := featureMatrix(fitSample)
	scaler.Fit(fitFeatures)
	scaledFit := scaler.Transform(fitFeatures)

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"skus":       len(aggregates),
			"fit_sample": len(fitSample),
		})
		s.logg.Debug(logCtx, "clustering.fit_sample_ready")
	}

	elbow := ComputeElbowCurve(scaledFit, s.cfg.ElbowMaxK, s.cfg.ElbowSampleRows, s.cfg.Seed)
	if elbow == nil {
		elbow = []ElbowPoint{}
	}

	assignments := make([]int, len(aggregates))
	if len(scaledFit) >= 2 {
		k := s.cfg.ClusterCount
		if k > len(scaledFit) {
			k = len(scaledFit)
		}
		rng := rand.New(rand.NewSource(s.cfg.Seed))
		fit := kmeansFit(scaledFit, k, rng)

		scaledAll := scaler.Transform(featureMatrix(aggregates))
		for i, row := range scaledAll {
			assignments[i], _ = nearestCentroid(row, fit.centroids)
		}
	}
	// <2 feature rows: every SKU stays in cluster 0.

	points := make([]ProductPoint, len(aggregates))
	for i, a := range aggregates {
		points[i] = ProductPoint{
			SKU:         a.SKU,
			Cluster:     assignments[i],
			TotalAmount: a.TotalAmount,
			TotalQty:    a.TotalQty,
			OrderCount:  a.OrderCount,
		}
	}

	return &Output{
		ClusterSummary: summarize(aggregates, assignments),
		ProductPoints:  points,
		ElbowData:      elbow,
	}, nil
}

// topByAmount returns the n highest-revenue aggregates, keeping the original
// SKU order within the cut stable via the sort's tiebreak.
func topByAmount(aggregates []ProductAggregate, n int) []ProductAggregate {
	sorted := append([]ProductAggregate(nil), aggregates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalAmount > sorted[j].TotalAmount
	})
	return sorted[:n]
}

// summarize groups assignments into per-cluster stats sorted descending by
// mean revenue, flagging exactly one cluster hot.
func summarize(aggregates []ProductAggregate, assignments []int) []ClusterSummary {
	type acc struct {
		size                    int
		amount, qty, orderCount float64
	}
	byCluster := make(map[int]*acc)
	for i, a := range aggregates {
		c := assignments[i]
		stats, ok := byCluster[c]
		if !ok {
			stats = &acc{}
			byCluster[c] = stats
		}
		stats.size++
		stats.amount += a.TotalAmount
		stats.qty += float64(a.TotalQty)
		stats.orderCount += float64(a.OrderCount)
	}

	summaries := make([]ClusterSummary, 0, len(byCluster))
	for c, stats := range byCluster {
		n := float64(stats.size)
		summaries = append(summaries, ClusterSummary{
			Cluster:         c,
			Size:            stats.size,
			MeanTotalAmount: stats.amount / n,
			MeanTotalQty:    stats.qty / n,
			MeanOrderCount:  stats.orderCount / n,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].MeanTotalAmount != summaries[j].MeanTotalAmount {
			return summaries[i].MeanTotalAmount > summaries[j].MeanTotalAmount
		}
		return summaries[i].Cluster < summaries[j].Cluster
	})
	if len(summaries) > 0 {
		summaries[0].Hot = true
	}
	return summaries
}
