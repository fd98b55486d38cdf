package analytics

// Trend window bounds shared with the daily-stats endpoint.
const (
	MinTrendDays = 1
	MaxTrendDays = 180
)

// ComputeKPI calculates the headline metrics for the snapshot. Monetary
// outputs are rounded to 2 decimals, rates to 4. Zero denominators resolve to
// zero rather than an error.
func ComputeKPI(ds *Dataset) KPI {
	var (
		gmv, profit  float64
		paid, refund int
		userOrders   = make(map[string]int)
	)

	for _, o := range ds.orders {
		userOrders[o.UserID]++
		switch o.Status {
		case StatusCompleted:
			paid++
			gmv += o.Amount
			profit += o.Profit
		case StatusRefunded:
			refund++
		}
	}

	total := len(ds.orders)
	unique := len(userOrders)

	repeat := 0
	for _, n := range userOrders {
		if n > 1 {
			repeat++
		}
	}

	kpi := KPI{
		GMV:         round2(gmv),
		TotalOrders: total,
		PaidOrders:  paid,
		Profit:      round2(profit),
		UniqueUsers: unique,
	}
	if total > 0 {
		kpi.RefundRate = round4(float64(refund) / float64(total))
	}
	if paid > 0 {
		kpi.AOV = round2(gmv / float64(paid))
	}
	if unique > 0 {
		kpi.RepeatRate = round4(float64(repeat) / float64(unique))
	}
	return kpi
}

// KPITrendOver compares completed GMV in the last 'days' days of the dataset
// against the prior equal-length window. With less than 2*days of history the
// previous window is simply shorter or empty; previous=0 yields change=0.
func KPITrendOver(ds *Dataset, days int) (KPITrend, error) {
	if err := checkRange("days", days, MinTrendDays, MaxTrendDays); err != nil {
		return KPITrend{}, err
	}

	latest := ds.MaxOrderDate()
	cutoff := latest.AddDate(0, 0, -days)
	prevCutoff := cutoff.AddDate(0, 0, -days)

	var recent, previous float64
	for _, o := range ds.orders {
		if o.Status != StatusCompleted {
			continue
		}
		switch {
		case o.OrderDate.After(cutoff):
			recent += o.Amount
		case o.OrderDate.After(prevCutoff) && !o.OrderDate.After(cutoff):
			previous += o.Amount
		}
	}

	trend := KPITrend{
		RecentGMV:   round2(recent),
		PreviousGMV: round2(previous),
	}
	if previous > 0 {
		trend.GMVChange = round2((recent - previous) / previous * 100)
	}
	return trend, nil
}
