package forecast

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaveai/weaveai-backend/pkg/config"
	"github.com/weaveai/weaveai-backend/pkg/enums"
	pkgerrors "github.com/weaveai/weaveai-backend/pkg/errors"
	"github.com/weaveai/weaveai-backend/pkg/types"
)

func testConfig() config.PipelineConfig {
	return config.PipelineConfig{
		Seed:                42,
		ForecastLookback:    7,
		ForecastHorizonDays: 30,
		ForecastHiddenUnits: 8,
		ForecastEpochs:      20,
	}
}

func sale(day time.Time, amount float64) types.SaleRecord {
	return types.SaleRecord{
		OrderID:  fmt.Sprintf("O-%s", day.Format("20060102")),
		SKU:      "SKU-1",
		Quantity: 1,
		Amount:   decimal.NewFromFloat(amount),
		Category: "Apparel",
		Date:     day,
		Status:   enums.OrderStatusShipped,
	}
}

func daily(start time.Time, amounts ...float64) []types.SaleRecord {
	records := make([]types.SaleRecord, len(amounts))
	for i, amount := range amounts {
		records[i] = sale(start.AddDate(0, 0, i), amount)
	}
	return records
}

func TestForecastConstantSeriesStaysFlat(t *testing.T) {
	start := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	amounts := make([]float64, 30)
	for i := range amounts {
		amounts[i] = 100
	}

	out, err := NewService(testConfig(), nil).Forecast(context.Background(), daily(start, amounts...))
	require.NoError(t, err)
	require.Len(t, out.Forecast, 30)
	for _, p := range out.Forecast {
		assert.InDelta(t, 100.0, p.Amount, 1e-6)
	}
}

func TestForecastDatesContinueFromHistory(t *testing.T) {
	start := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	amounts := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	out, err := NewService(testConfig(), nil).Forecast(context.Background(), daily(start, amounts...))
	require.NoError(t, err)
	require.Len(t, out.History, 10)
	require.Len(t, out.Forecast, 30)

	assert.Equal(t, "2023-05-10", out.History[9].Date)
	assert.Equal(t, "2023-05-11", out.Forecast[0].Date)
	assert.Equal(t, "2023-06-09", out.Forecast[29].Date)
}

func TestForecastDeterministic(t *testing.T) {
	start := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	amounts := []float64{5, 12, 8, 30, 25, 14, 9, 40, 33, 21, 7, 16, 28, 35}
	svc := NewService(testConfig(), nil)

	first, err := svc.Forecast(context.Background(), daily(start, amounts...))
	require.NoError(t, err)
	second, err := svc.Forecast(context.Background(), daily(start, amounts...))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestForecastEmptyInput(t *testing.T) {
	_, err := NewService(testConfig(), nil).Forecast(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeEmptyInput))
}

func TestForecastTooFewDays(t *testing.T) {
	start := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewService(testConfig(), nil).Forecast(context.Background(), daily(start, 1, 2, 3, 4, 5))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeEmptyInput))
}

func TestDailySeriesZeroFillsGaps(t *testing.T) {
	day1 := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	day4 := time.Date(2023, 5, 4, 0, 0, 0, 0, time.UTC)
	records := []types.SaleRecord{sale(day1, 10), sale(day4, 40), sale(day4, 2)}

	series := DailySeries(records)
	require.Len(t, series, 4)
	assert.InDelta(t, 10.0, series[0].Amount, 1e-9)
	assert.InDelta(t, 0.0, series[1].Amount, 1e-9, "missing day is a real zero-sales day")
	assert.InDelta(t, 0.0, series[2].Amount, 1e-9)
	assert.InDelta(t, 42.0, series[3].Amount, 1e-9, "same-day lines are summed")
}

func TestSlidingWindows(t *testing.T) {
	inputs, targets := slidingWindows([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, inputs, 2)
	assert.Equal(t, []float64{1, 2, 3}, inputs[0])
	assert.InDelta(t, 4.0, targets[0], 1e-9)
	assert.Equal(t, []float64{2, 3, 4}, inputs[1])
	assert.InDelta(t, 5.0, targets[1], 1e-9)
}

func TestMinMaxScalerRoundTrip(t *testing.T) {
	var s MinMaxScaler
	s.Fit([]float64{10, 20, 30})

	scaled := s.Transform([]float64{10, 20, 30})
	assert.InDelta(t, 0.0, scaled[0], 1e-9)
	assert.InDelta(t, 0.5, scaled[1], 1e-9)
	assert.InDelta(t, 1.0, scaled[2], 1e-9)
	assert.InDelta(t, 20.0, s.Inverse(scaled[1]), 1e-9)
}

func TestForecastRunStateMachine(t *testing.T) {
	// Stub predictor echoes the newest window value plus one, so the
	// recursion is visible: each step builds on the previous prediction.
	predict := func(window []float64) float64 { return window[len(window)-1] + 1 }
	run := newForecastRun([]float64{1, 2, 3}, 4, predict)
	assert.Equal(t, stateSeeded, run.state)

	v, ok := run.Next()
	require.True(t, ok)
	assert.InDelta(t, 4.0, v, 1e-9)
	assert.Equal(t, statePredicting, run.state)

	values := run.All()
	assert.Equal(t, []float64{5, 6, 7}, values)
	assert.Equal(t, stateExhausted, run.state)

	_, ok = run.Next()
	assert.False(t, ok, "an exhausted run stays exhausted")
}

func TestForecastRunZeroHorizon(t *testing.T) {
	run := newForecastRun([]float64{1}, 0, func([]float64) float64 { return 9 })
	_, ok := run.Next()
	assert.False(t, ok)
	assert.Equal(t, stateExhausted, run.state)
}
