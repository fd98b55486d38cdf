package analytics

import (
	"math"
	"sort"
	"time"
)

// Status is the normalized lifecycle state of an order.
type Status int

const (
	// StatusUnknown marks rows whose source label could not be normalized
	StatusUnknown Status = iota
	// StatusCompleted is a paid and fulfilled order
	StatusCompleted
	// StatusRefunded is an order that was paid and later refunded
	StatusRefunded
	// StatusPendingShipment is a paid order awaiting shipment
	StatusPendingShipment
	// StatusCancelled is an order cancelled before payment
	StatusCancelled
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusRefunded:
		return "refunded"
	case StatusPendingShipment:
		return "pending_shipment"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// statusAliases maps source labels to normalized statuses. Upstream feeds mix
// English and localized labels in the same file.
var statusAliases = map[string]Status{
	"completed":        StatusCompleted,
	"paid":             StatusCompleted,
	"已完成":              StatusCompleted,
	"refunded":         StatusRefunded,
	"已退款":              StatusRefunded,
	"pending_shipment": StatusPendingShipment,
	"pending":          StatusPendingShipment,
	"待发货":              StatusPendingShipment,
	"cancelled":        StatusCancelled,
	"canceled":         StatusCancelled,
	"已取消":              StatusCancelled,
}

// ParseStatus normalizes a source status label. Unrecognized labels map to
// StatusUnknown so a single bad row does not abort ingestion.
func ParseStatus(label string) Status {
	if s, ok := statusAliases[normalizeLabel(label)]; ok {
		return s
	}
	return StatusUnknown
}

func normalizeLabel(label string) string {
	b := make([]rune, 0, len(label))
	for _, r := range label {
		switch {
		case r >= 'A' && r <= 'Z':
			b = append(b, r+('a'-'A'))
		case r == ' ' || r == '\t':
			// skip
		default:
			b = append(b, r)
		}
	}
	return string(b)
}

// Order is a single row of the order ledger.
type Order struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	OrderDate time.Time `json:"order_date"`
	Status    Status    `json:"status"`
	Channel   string    `json:"channel"`
	Discount  float64   `json:"discount"`
	Price     float64   `json:"price"`
	Cost      float64   `json:"cost"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Profit    float64   `json:"profit"`
	City      string    `json:"city"`
}

// IsValid checks the row-level invariants: non-negative amount, discount in
// [0,1], profit no greater than amount.
func (o Order) IsValid() bool {
	return o.OrderID != "" && o.Quantity > 0 && !o.OrderDate.IsZero() &&
		o.Amount >= 0 && o.Discount >= 0 && o.Discount <= 1 &&
		o.Profit <= o.Amount+amountTolerance
}

const amountTolerance = 1e-9

// Dataset is an immutable snapshot of the order ledger. Every analysis in
// this package is a pure function of a Dataset plus explicit parameters, so
// concurrent calls on the same snapshot need no locking.
type Dataset struct {
	orders []Order
}

// NewDataset builds a snapshot from the given rows. The slice is copied;
// later mutation of the caller's slice does not affect the dataset.
func NewDataset(orders []Order) *Dataset {
	cp := make([]Order, len(orders))
	copy(cp, orders)
	return &Dataset{orders: cp}
}

// Len returns the number of orders in the snapshot.
func (ds *Dataset) Len() int {
	return len(ds.orders)
}

// Orders returns a copy of the underlying rows, preserving immutability for
// callers outside this package.
func (ds *Dataset) Orders() []Order {
	cp := make([]Order, len(ds.orders))
	copy(cp, ds.orders)
	return cp
}

// MaxOrderDate returns the latest order timestamp across all statuses, or the
// zero time for an empty dataset.
func (ds *Dataset) MaxOrderDate() time.Time {
	var max time.Time
	for _, o := range ds.orders {
		if o.OrderDate.After(max) {
			max = o.OrderDate
		}
	}
	return max
}

// maxCompletedDate returns the latest completed-order timestamp.
func (ds *Dataset) maxCompletedDate() time.Time {
	var max time.Time
	for _, o := range ds.orders {
		if o.Status == StatusCompleted && o.OrderDate.After(max) {
			max = o.OrderDate
		}
	}
	return max
}

// completed returns the completed-order subset in ledger order.
func (ds *Dataset) completed() []Order {
	var out []Order
	for _, o := range ds.orders {
		if o.Status == StatusCompleted {
			out = append(out, o)
		}
	}
	return out
}

// KPI holds the headline business metrics for one snapshot.
type KPI struct {
	GMV         float64 `json:"gmv"`
	TotalOrders int     `json:"total_orders"`
	PaidOrders  int     `json:"paid_orders"`
	RefundRate  float64 `json:"refund_rate"`
	AOV         float64 `json:"aov"`
	Profit      float64 `json:"profit"`
	UniqueUsers int     `json:"unique_users"`
	RepeatRate  float64 `json:"repeat_rate"`
}

// KPITrend compares completed-order GMV in the most recent window against the
// prior equal-length window.
type KPITrend struct {
	RecentGMV   float64 `json:"recent_gmv"`
	PreviousGMV float64 `json:"previous_gmv"`
	GMVChange   float64 `json:"gmv_change"`
}

// FunnelStage is one step of a conversion funnel. ConversionRate is relative
// to the previous stage; OverallRate is last stage over first, repeated on
// every row for row-oriented serialization.
type FunnelStage struct {
	Stage          string  `json:"stage"`
	Count          int     `json:"count"`
	ConversionRate float64 `json:"conversion_rate"`
	OverallRate    float64 `json:"overall_rate"`
}

// RFMRecord is the per-customer Recency/Frequency/Monetary feature triple
// together with its cluster assignment.
type RFMRecord struct {
	UserID    string  `json:"user_id"`
	Recency   int     `json:"recency"`
	Frequency int     `json:"frequency"`
	Monetary  float64 `json:"monetary"`
	Cluster   int     `json:"cluster"`
	Label     string  `json:"label"`
	Strategy  string  `json:"strategy"`
}

// SegmentSummary aggregates one labeled cluster.
type SegmentSummary struct {
	Label        string  `json:"label"`
	Customers    int     `json:"customers"`
	AvgRecency   float64 `json:"avg_recency"`
	AvgFrequency float64 `json:"avg_frequency"`
	AvgMonetary  float64 `json:"avg_monetary"`
	Share        float64 `json:"share"` // percentage of segmented customers
}

// RFMResult is the full output of one segmentation run.
type RFMResult struct {
	Records   []RFMRecord      `json:"records"`
	Summaries []SegmentSummary `json:"summaries"`
}

// PointKind tags a daily point as observed history or model output.
type PointKind string

const (
	// PointActual marks an observed daily aggregate
	PointActual PointKind = "actual"
	// PointForecast marks a trend-extrapolated daily aggregate
	PointForecast PointKind = "forecast"
)

// DailyPoint is one calendar day of completed sales, either observed or
// forecast.
type DailyPoint struct {
	Date   time.Time `json:"date"`
	Sales  float64   `json:"sales"`
	Orders int       `json:"orders"`
	Kind   PointKind `json:"type"`
}

// DimensionStat is one group of a single-dimension rollup over completed
// orders.
type DimensionStat struct {
	Key       string  `json:"key"`
	Orders    int     `json:"orders"`
	GMV       float64 `json:"gmv"`
	Profit    float64 `json:"profit"`
	Customers int     `json:"customers"`
	AOV       float64 `json:"aov"`
	GMVShare  float64 `json:"gmv_share"`
}

// TopUser is one row of the top-spenders ranking.
type TopUser struct {
	UserID    string    `json:"user_id"`
	Spend     float64   `json:"spend"`
	Orders    int       `json:"orders"`
	LastOrder time.Time `json:"last_order"`
}

// TopProduct is one row of the top-revenue product ranking.
type TopProduct struct {
	ProductID string  `json:"product_id"`
	Revenue   float64 `json:"revenue"`
	Quantity  int     `json:"quantity"`
	Orders    int     `json:"orders"`
}

// round2 rounds to 2 decimal places, the precision used for monetary outputs.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round4 rounds to 4 decimal places, the precision used for rates.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// day truncates a timestamp to calendar-day granularity in UTC.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sortedKeys returns map keys in ascending order for deterministic output.
func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
