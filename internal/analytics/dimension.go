package analytics

import (
	"sort"
	"time"
)

// Top-N parameter bounds.
const (
	MinTopN = 1
	MaxTopN = 100
	// DefaultTopN is used when the caller does not override n
	DefaultTopN = 10
)

// Dimension names a categorical order column the engine can roll up on.
type Dimension string

const (
	DimensionCategory Dimension = "category"
	DimensionChannel  Dimension = "channel"
	DimensionCity     Dimension = "city"
)

// ParseDimension validates a dimension name from the API surface.
func ParseDimension(name string) (Dimension, error) {
	switch Dimension(name) {
	case DimensionCategory, DimensionChannel, DimensionCity:
		return Dimension(name), nil
	}
	return "", &SchemaError{Column: name, Reason: "not a groupable dimension"}
}

// value extracts the dimension's value from an order.
func (d Dimension) value(o Order) string {
	switch d {
	case DimensionCategory:
		return o.Category
	case DimensionChannel:
		return o.Channel
	case DimensionCity:
		return o.City
	}
	return ""
}

// ByDimension rolls completed orders up over a single categorical column:
// order count, GMV, profit, distinct customers, AOV and GMV share per group,
// sorted descending by GMV with ascending key tie-break.
func ByDimension(ds *Dataset, dim Dimension) ([]DimensionStat, error) {
	if _, err := ParseDimension(string(dim)); err != nil {
		return nil, err
	}

	type agg struct {
		orders      int
		gmv, profit float64
		users       map[string]struct{}
	}
	groups := make(map[string]*agg)
	totalGMV := 0.0

	for _, o := range ds.orders {
		if o.Status != StatusCompleted {
			continue
		}
		key := dim.value(o)
		a, ok := groups[key]
		if !ok {
			a = &agg{users: make(map[string]struct{})}
			groups[key] = a
		}
		a.orders++
		a.gmv += o.Amount
		a.profit += o.Profit
		a.users[o.UserID] = struct{}{}
		totalGMV += o.Amount
	}

	stats := make([]DimensionStat, 0, len(groups))
	for _, key := range sortedKeys(groups) {
		a := groups[key]
		s := DimensionStat{
			Key:       key,
			Orders:    a.orders,
			GMV:       round2(a.gmv),
			Profit:    round2(a.profit),
			Customers: len(a.users),
		}
		if a.orders > 0 {
			s.AOV = round2(a.gmv / float64(a.orders))
		}
		if totalGMV > 0 {
			s.GMVShare = round2(a.gmv / totalGMV * 100)
		}
		stats = append(stats, s)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].GMV > stats[j].GMV
	})
	return stats, nil
}

// TopUsers ranks customers by completed-order spend descending, ties broken
// by ascending user id, keeping the top n.
func TopUsers(ds *Dataset, n int) ([]TopUser, error) {
	if err := checkRange("n", n, MinTopN, MaxTopN); err != nil {
		return nil, err
	}

	type agg struct {
		spend  float64
		orders int
		last   time.Time
	}
	byUser := make(map[string]*agg)
	for _, o := range ds.orders {
		if o.Status != StatusCompleted {
			continue
		}
		a, ok := byUser[o.UserID]
		if !ok {
			a = &agg{}
			byUser[o.UserID] = a
		}
		a.spend += o.Amount
		a.orders++
		if o.OrderDate.After(a.last) {
			a.last = o.OrderDate
		}
	}

	users := make([]TopUser, 0, len(byUser))
	for _, id := range sortedKeys(byUser) {
		a := byUser[id]
		users = append(users, TopUser{
			UserID:    id,
			Spend:     round2(a.spend),
			Orders:    a.orders,
			LastOrder: a.last,
		})
	}

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Spend > users[j].Spend
	})
	if len(users) > n {
		users = users[:n]
	}
	return users, nil
}

// TopProducts ranks products by completed-order revenue descending, ties
// broken by ascending product id, keeping the top n.
func TopProducts(ds *Dataset, n int) ([]TopProduct, error) {
	if err := checkRange("n", n, MinTopN, MaxTopN); err != nil {
		return nil, err
	}

	type agg struct {
		revenue  float64
		quantity int
		orders   int
	}
	byProduct := make(map[string]*agg)
	for _, o := range ds.orders {
		if o.Status != StatusCompleted {
			continue
		}
		a, ok := byProduct[o.ProductID]
		if !ok {
			a = &agg{}
			byProduct[o.ProductID] = a
		}
		a.revenue += o.Amount
		a.quantity += o.Quantity
		a.orders++
	}

	products := make([]TopProduct, 0, len(byProduct))
	for _, id := range sortedKeys(byProduct) {
		a := byProduct[id]
		products = append(products, TopProduct{
			ProductID: id,
			Revenue:   round2(a.revenue),
			Quantity:  a.quantity,
			Orders:    a.orders,
		})
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Revenue > products[j].Revenue
	})
	if len(products) > n {
		products = products[:n]
	}
	return products, nil
}

// DailyStats returns the daily completed-sales aggregates restricted to the
// last 'days' days of history.
func DailyStats(ds *Dataset, days int) ([]DailyPoint, error) {
	if err := checkRange("days", days, MinTrendDays, MaxTrendDays); err != nil {
		return nil, err
	}

	points := DailySales(ds)
	if len(points) == 0 {
		return points, nil
	}

	cutoff := day(ds.MaxOrderDate()).AddDate(0, 0, -days)
	out := points[:0:0]
	for _, p := range points {
		if p.Date.After(cutoff) {
			out = append(out, p)
		}
	}
	return out, nil
}
