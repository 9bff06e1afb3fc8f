package pipeline

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaveai/weaveai-backend/internal/basket"
	"github.com/weaveai/weaveai-backend/internal/clustering"
	"github.com/weaveai/weaveai-backend/internal/forecast"
	pkgerrors "github.com/weaveai/weaveai-backend/pkg/errors"
	"github.com/weaveai/weaveai-backend/pkg/metrics"
	"github.com/weaveai/weaveai-backend/pkg/tabular"
	"github.com/weaveai/weaveai-backend/pkg/types"
)

type stubClustering struct {
	out *clustering.Output
	err error
}

func (s stubClustering) Cluster(context.Context, []types.SaleRecord) (*clustering.Output, error) {
	return s.out, s.err
}

type stubBasket struct {
	out *basket.Output
	err error
}

func (s stubBasket) Mine(context.Context, []types.SaleRecord) (*basket.Output, error) {
	return s.out, s.err
}

type stubForecast struct {
	out *forecast.Output
	err error
}

func (s stubForecast) Forecast(context.Context, []types.SaleRecord) (*forecast.Output, error) {
	return s.out, s.err
}

type capturingRecorder struct {
	records []RunRecord
}

func (r *capturingRecorder) Record(_ context.Context, record RunRecord) error {
	r.records = append(r.records, record)
	return nil
}

func validTable() *tabular.Table {
	return tabular.New(
		[]string{"Amount", "Category", "Date", "Status", "SKU", "Order ID", "Qty"},
		[][]string{
			{"10", "A", "04-30-22", "Shipped", "S1", "O1", "1"},
			{"20", "A", "05-01-22", "Completed", "S2", "O2", "2"},
		},
	)
}

func newTestService(t *testing.T, c clustering.Service, b basket.Service, f forecast.Service, m *metrics.PipelineMetrics, r Recorder) Service {
	t.Helper()
	svc, err := NewService(c, b, f, m, r, nil)
	require.NoError(t, err)
	return svc
}

func TestRunAllComponentsSucceed(t *testing.T) {
	svc := newTestService(t,
		stubClustering{out: &clustering.Output{}},
		stubBasket{out: &basket.Output{}},
		stubForecast{out: &forecast.Output{}},
		nil, nil,
	)

	result, err := svc.Run(context.Background(), validTable())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)
	assert.NotNil(t, result.Clustering)
	assert.NotNil(t, result.Basket)
	assert.NotNil(t, result.Forecast)
	assert.Nil(t, result.Errors)
}

func TestRunComponentFailuresAreIsolated(t *testing.T) {
	svc := newTestService(t,
		stubClustering{out: &clustering.Output{}},
		stubBasket{err: pkgerrors.New(pkgerrors.CodeInternal, "mining blew up")},
		stubForecast{err: pkgerrors.New(pkgerrors.CodeEmptyInput, "no sales days to forecast from")},
		nil, nil,
	)

	result, err := svc.Run(context.Background(), validTable())
	require.NoError(t, err, "component failures never fail the run")
	assert.NotNil(t, result.Clustering, "healthy component still delivers")
	assert.Nil(t, result.Basket)
	assert.Nil(t, result.Forecast)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[ComponentBasket], "mining blew up")
}

func TestRunNormalizationFailureAborts(t *testing.T) {
	svc := newTestService(t,
		stubClustering{out: &clustering.Output{}},
		stubBasket{out: &basket.Output{}},
		stubForecast{out: &forecast.Output{}},
		nil, nil,
	)

	badTable := tabular.New([]string{"Amount"}, [][]string{{"1"}})
	_, err := svc.Run(context.Background(), badTable)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeSchema))
}

func TestRunObservesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewPipelineMetrics(reg)
	svc := newTestService(t,
		stubClustering{out: &clustering.Output{}},
		stubBasket{err: pkgerrors.New(pkgerrors.CodeInternal, "boom")},
		stubForecast{out: &forecast.Output{}},
		m, nil,
	)

	_, err := svc.Run(context.Background(), validTable())
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["pipeline_component_duration_seconds"])
	assert.True(t, names["pipeline_component_success"])
	assert.True(t, names["pipeline_component_failure"])

	count, err := testutil.GatherAndCount(reg, "pipeline_component_failure")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "only the basket failure is counted")
}

func TestRunRecordsHistory(t *testing.T) {
	recorder := &capturingRecorder{}
	svc := newTestService(t,
		stubClustering{out: &clustering.Output{}},
		stubBasket{err: pkgerrors.New(pkgerrors.CodeInternal, "boom")},
		stubForecast{out: &forecast.Output{}},
		nil, recorder,
	)

	_, err := svc.Run(context.Background(), validTable())
	require.NoError(t, err)

	require.Len(t, recorder.records, 1)
	record := recorder.records[0]
	assert.Equal(t, 2, record.Rows)
	assert.Equal(t, "ok", record.Components[ComponentClustering])
	assert.Contains(t, record.Components[ComponentBasket], "boom")
}

func TestNewServiceRejectsMissingDeps(t *testing.T) {
	_, err := NewService(nil, stubBasket{}, stubForecast{}, nil, nil, nil)
	require.Error(t, err)
}
