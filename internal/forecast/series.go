package forecast

import (
	"sort"
	"time"

	"github.com/weaveai/weaveai-backend/pkg/types"
)

// DailyPoint is one calendar day of summed sales.
type DailyPoint struct {
	Date   time.Time
	Amount float64
}

// DailySeries sums amounts per calendar day and reindexes to a continuous
// daily frequency. Days with no sales are real zero days, not gaps, so the
// model never sees a hole in the sequence.
func DailySeries(records []types.SaleRecord) []DailyPoint {
	byDay := make(map[time.Time]float64)
	for _, rec := range records {
		day := rec.Date.Truncate(24 * time.Hour)
		amount, _ := rec.Amount.Float64()
		byDay[day] += amount
	}
	if len(byDay) == 0 {
		return nil
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	first, last := days[0], days[len(days)-1]
	var series []DailyPoint
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		series = append(series, DailyPoint{Date: day, Amount: byDay[day]})
	}
	return series
}

// slidingWindows builds the supervised dataset: each window of lookback
// consecutive values predicts the following value.
func slidingWindows(values []float64, lookback int) (inputs [][]float64, targets []float64) {
	for i := 0; i+lookback < len(values); i++ {
		inputs = append(inputs, values[i:i+lookback])
		targets = append(targets, values[i+lookback])
	}
	return inputs, targets
}
