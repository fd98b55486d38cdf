package analytics

import (
	"math"
	"time"
)

// Forecast horizon bounds.
const (
	MinForecastDays = 1
	MaxForecastDays = 30
	// DefaultForecastDays is used when the caller does not override the horizon
	DefaultForecastDays = 7

	// minRegressionDays is the shortest history a line can be fit through
	minRegressionDays = 2
)

// DailySales aggregates completed orders per calendar day, ascending by date.
// Days with no completed orders are absent rather than zero-filled.
func DailySales(ds *Dataset) []DailyPoint {
	type agg struct {
		sales  float64
		orders int
	}
	byDay := make(map[string]*agg)

	for _, o := range ds.orders {
		if o.Status != StatusCompleted {
			continue
		}
		key := day(o.OrderDate).Format("2006-01-02")
		a, ok := byDay[key]
		if !ok {
			a = &agg{}
			byDay[key] = a
		}
		a.sales += o.Amount
		a.orders++
	}

	points := make([]DailyPoint, 0, len(byDay))
	for _, key := range sortedKeys(byDay) {
		a := byDay[key]
		d, _ := parseDay(key)
		points = append(points, DailyPoint{
			Date:   d,
			Sales:  round2(a.sales),
			Orders: a.orders,
			Kind:   PointActual,
		})
	}
	return points
}

// ForecastSales fits a linear trend to the daily completed-sales series and
// extrapolates the requested number of future days. Historical points pass
// through unchanged; forecast order counts scale predicted sales by the
// historical orders-per-sales ratio. Negative predictions are passed through
// rather than clipped.
func ForecastSales(ds *Dataset, horizon int) ([]DailyPoint, error) {
	if err := checkRange("forecast_days", horizon, MinForecastDays, MaxForecastDays); err != nil {
		return nil, err
	}

	history := DailySales(ds)
	if len(history) < minRegressionDays {
		return nil, &InsufficientHistoryError{Days: len(history), Required: minRegressionDays}
	}

	// Zero-based day offsets from the earliest observed day.
	origin := history[0].Date
	xs := make([]float64, len(history))
	ys := make([]float64, len(history))
	var sumSales, sumOrders float64
	for i, p := range history {
		xs[i] = float64(dayIndex(origin, p.Date))
		ys[i] = p.Sales
		sumSales += p.Sales
		sumOrders += float64(p.Orders)
	}

	intercept, slope := linearFit(xs, ys)

	ordersPerSales := 0.0
	if sumSales > 0 {
		ordersPerSales = sumOrders / sumSales
	}

	lastIdx := xs[len(xs)-1]
	lastDate := history[len(history)-1].Date

	out := make([]DailyPoint, 0, len(history)+horizon)
	out = append(out, history...)
	for i := 1; i <= horizon; i++ {
		sales := intercept + slope*(lastIdx+float64(i))
		out = append(out, DailyPoint{
			Date:   lastDate.AddDate(0, 0, i),
			Sales:  round2(sales),
			Orders: int(math.Round(sales * ordersPerSales)),
			Kind:   PointForecast,
		})
	}
	return out, nil
}

// dayIndex returns the whole-day offset between two day-truncated dates.
func dayIndex(origin, d time.Time) int {
	return int(d.Sub(origin).Hours() / 24)
}

func parseDay(key string) (time.Time, error) {
	return time.Parse("2006-01-02", key)
}
