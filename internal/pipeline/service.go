package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/weaveai/weaveai-backend/internal/basket"
	"github.com/weaveai/weaveai-backend/internal/clustering"
	"github.com/weaveai/weaveai-backend/internal/forecast"
	"github.com/weaveai/weaveai-backend/internal/normalizer"
	pkgerrors "github.com/weaveai/weaveai-backend/pkg/errors"
	"github.com/weaveai/weaveai-backend/pkg/logger"
	"github.com/weaveai/weaveai-backend/pkg/metrics"
	"github.com/weaveai/weaveai-backend/pkg/tabular"
	"github.com/weaveai/weaveai-backend/pkg/types"
)

// Component labels used for logging, metrics and error reporting.
const (
	ComponentNormalize  = "normalize"
	ComponentClustering = "clustering"
	ComponentBasket     = "basket"
	ComponentForecast   = "forecast"
)

// Result is the combined full-report payload. A component that failed leaves
// its payload nil and its message under Errors; the rest of the report is
// still produced.
type Result struct {
	Rows       int                `json:"rows"`
	Clustering *clustering.Output `json:"clustering,omitempty"`
	Basket     *basket.Output     `json:"basket,omitempty"`
	Forecast   *forecast.Output   `json:"forecast,omitempty"`
	Errors     map[string]string  `json:"errors,omitempty"`
}

// RunRecord summarizes one completed pipeline run for the optional history
// store.
type RunRecord struct {
	Rows       int
	Duration   time.Duration
	Components map[string]string // component -> "ok" or the failure message
}

// Recorder persists run records. Implementations must tolerate being called
// after the response was already decided; recording failures are logged, not
// surfaced.
type Recorder interface {
	Record(ctx context.Context, record RunRecord) error
}

// Service runs the full analytics pipeline over one uploaded table.
type Service interface {
	Run(ctx context.Context, table *tabular.Table) (*Result, error)
}

type service struct {
	clustering clustering.Service
	basket     basket.Service
	forecast   forecast.Service
	metrics    *metrics.PipelineMetrics
	recorder   Recorder
	logg       *logger.Logger
}

// NewService wires the pipeline. Metrics and recorder may be nil; clustering,
// basket and forecast must not be.
func NewService(
	clusteringSvc clustering.Service,
	basketSvc basket.Service,
	forecastSvc forecast.Service,
	pipelineMetrics *metrics.PipelineMetrics,
	recorder Recorder,
	logg *logger.Logger,
) (Service, error) {
	if clusteringSvc == nil || basketSvc == nil || forecastSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "pipeline requires clustering, basket and forecast services")
	}
	return &service{
		clustering: clusteringSvc,
		basket:     basketSvc,
		forecast:   forecastSvc,
		metrics:    pipelineMetrics,
		recorder:   recorder,
		logg:       logg,
	}, nil
}

func (s *service) Run(ctx context.Context, table *tabular.Table) (*Result, error) {
	started := time.Now()

	records, err := s.normalize(ctx, table)
	if err != nil {
		// A table that cannot be cleaned aborts the whole run.
		return nil, err
	}

	result := &Result{Rows: len(records), Errors: map[string]string{}}
	var mu sync.Mutex
	var componentErrs []error

	group, groupCtx := errgroup.WithContext(ctx)
	runComponent := func(component string, fn func(context.Context) error) {
		group.Go(func() error {
			componentStart := time.Now()
			s.metrics.ObserveRows(component, len(records))

			err := fn(groupCtx)
			s.metrics.ObserveDuration(component, time.Since(componentStart))
			if err != nil {
				s.metrics.IncFailure(component)
				mu.Lock()
				result.Errors[component] = err.Error()
				componentErrs = append(componentErrs, pkgerrors.Wrap(pkgerrors.CodeInternal, err, component))
				mu.Unlock()
				if s.logg != nil {
					s.logg.Error(s.logg.WithComponent(ctx, component), "pipeline.component_failed", err)
				}
				// Component failures are isolated; never cancel siblings.
				return nil
			}
			s.metrics.IncSuccess(component)
			return nil
		})
	}

	runComponent(ComponentClustering, func(ctx context.Context) error {
		out, err := s.clustering.Cluster(ctx, records)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Clustering = out
		mu.Unlock()
		return nil
	})
	runComponent(ComponentBasket, func(ctx context.Context) error {
		out, err := s.basket.Mine(ctx, records)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Basket = out
		mu.Unlock()
		return nil
	})
	runComponent(ComponentForecast, func(ctx context.Context) error {
		out, err := s.forecast.Forecast(ctx, records)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Forecast = out
		mu.Unlock()
		return nil
	})

	_ = group.Wait()
	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	if combined := multierr.Combine(componentErrs...); combined != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "failures", combined.Error()), "pipeline.partial_result")
	}

	s.record(ctx, result, time.Since(started))
	return result, nil
}

func (s *service) normalize(ctx context.Context, table *tabular.Table) ([]types.SaleRecord, error) {
	componentStart := time.Now()
	records, err := normalizer.Normalize(table)
	s.metrics.ObserveDuration(ComponentNormalize, time.Since(componentStart))
	if err != nil {
		s.metrics.IncFailure(ComponentNormalize)
		return nil, err
	}
	s.metrics.IncSuccess(ComponentNormalize)
	s.metrics.ObserveRows(ComponentNormalize, len(records))
	return records, nil
}

func (s *service) record(ctx context.Context, result *Result, duration time.Duration) {
	if s.recorder == nil {
		return
	}

	components := map[string]string{
		ComponentClustering: "ok",
		ComponentBasket:     "ok",
		ComponentForecast:   "ok",
	}
	for component, message := range result.Errors {
		components[component] = message
	}

	record := RunRecord{Rows: result.Rows, Duration: duration, Components: components}
	if err := s.recorder.Record(ctx, record); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "cause", err.Error()), "pipeline.run_record_failed")
	}
}
