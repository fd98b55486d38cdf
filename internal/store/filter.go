package store

import (
	"strings"
	"time"

	"ecomlens/internal/analytics"
)

// OrderFilter is a validated parameter object for narrowing a snapshot to a
// sub-ledger. Filters are built from typed fields, never interpolated into
// query text, and applied in memory against the immutable snapshot.
type OrderFilter struct {
	Status   string
	Channel  string
	Category string
	City     string
	From     time.Time
	To       time.Time
}

// IsZero reports whether the filter matches everything.
func (f OrderFilter) IsZero() bool {
	return f.Status == "" && f.Channel == "" && f.Category == "" &&
		f.City == "" && f.From.IsZero() && f.To.IsZero()
}

// Validate checks field-level constraints before the filter is applied.
func (f OrderFilter) Validate() error {
	if f.Status != "" && analytics.ParseStatus(f.Status) == analytics.StatusUnknown {
		return &analytics.InvalidParameterError{Param: "status", Detail: "unknown status label " + f.Status}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return &analytics.InvalidParameterError{Param: "to", Detail: "end of range precedes start"}
	}
	return nil
}

// Apply returns a new snapshot containing only the matching rows. The input
// dataset is not modified. An invalid filter returns an error and no dataset.
func (f OrderFilter) Apply(ds *analytics.Dataset) (*analytics.Dataset, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.IsZero() {
		return ds, nil
	}

	var status analytics.Status
	if f.Status != "" {
		status = analytics.ParseStatus(f.Status)
	}

	var matched []analytics.Order
	for _, o := range ds.Orders() {
		if f.Status != "" && o.Status != status {
			continue
		}
		if f.Channel != "" && !strings.EqualFold(o.Channel, f.Channel) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(o.Category, f.Category) {
			continue
		}
		if f.City != "" && !strings.EqualFold(o.City, f.City) {
			continue
		}
		if !f.From.IsZero() && o.OrderDate.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && o.OrderDate.After(f.To) {
			continue
		}
		matched = append(matched, o)
	}
	return analytics.NewDataset(matched), nil
}
