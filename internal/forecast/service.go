package forecast

import (
	"context"
	"math/rand"

	"github.com/weaveai/weaveai-backend/pkg/config"
	pkgerrors "github.com/weaveai/weaveai-backend/pkg/errors"
	"github.com/weaveai/weaveai-backend/pkg/logger"
	"github.com/weaveai/weaveai-backend/pkg/types"
)

const dateLayout = "2006-01-02"

// SeriesPoint is one dated value, historical or predicted.
type SeriesPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// Output pairs the historical daily series with the predicted horizon,
// both ready for plotting. No confidence bounds; this is a point forecaster.
type Output struct {
	History  []SeriesPoint `json:"history"`
	Forecast []SeriesPoint `json:"forecast"`
}

// Service predicts the next days of daily sales from the uploaded history.
type Service interface {
	Forecast(ctx context.Context, records []types.SaleRecord) (*Output, error)
}

type service struct {
	cfg  config.PipelineConfig
	logg *logger.Logger
}

func NewService(cfg config.PipelineConfig, logg *logger.Logger) Service {
	return &service{cfg: cfg, logg: logg}
}

func (s *service) Forecast(ctx context.Context, records []types.SaleRecord) (*Output, error) {
	series := DailySeries(records)
	if len(series) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyInput, "no sales days to forecast from")
	}
	if len(series) < s.cfg.ForecastLookback+1 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyInput, "not enough history for a training window").
			WithDetails(map[string]any{
				"days_required": s.cfg.ForecastLookback + 1,
				"days_present":  len(series),
			})
	}

	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Amount
	}

	var scaler MinMaxScaler
	scaler.Fit(values)
	scaled := scaler.Transform(values)

	inputs, targets := slidingWindows(scaled, s.cfg.ForecastLookback)
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"days":    len(series),
			"windows": len(inputs),
		})
		s.logg.Debug(logCtx, "forecast.training_set_ready")
	}

	rng := rand.New(rand.NewSource(s.cfg.Seed))
	net := newRecurrentNet(s.cfg.ForecastHiddenUnits, rng)
	net.Train(inputs, targets, s.cfg.ForecastEpochs)

	seed := scaled[len(scaled)-s.cfg.ForecastLookback:]
	run := newForecastRun(seed, s.cfg.ForecastHorizonDays, net.Predict)
	predictions := run.All()

	history := make([]SeriesPoint, len(series))
	for i, p := range series {
		history[i] = SeriesPoint{Date: p.Date.Format(dateLayout), Amount: p.Amount}
	}

	lastDay := series[len(series)-1].Date
	horizon := make([]SeriesPoint, len(predictions))
	for i, v := range predictions {
		horizon[i] = SeriesPoint{
			Date:   lastDay.AddDate(0, 0, i+1).Format(dateLayout),
			Amount: scaler.Inverse(v),
		}
	}

	return &Output{History: history, Forecast: horizon}, nil
}
