package analytics

import "fmt"

// InvalidParameterError reports a parameter outside its documented range.
// Callers are expected to validate before invocation; the engine rejects
// rather than clamps.
type InvalidParameterError struct {
	Param string
	Value int
	Min   int
	Max   int

	// Detail carries the reason for parameters that are not integer ranges.
	Detail string
}

func (e *InvalidParameterError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Detail)
	}
	return fmt.Sprintf("invalid parameter %s=%d: must be in [%d,%d]", e.Param, e.Value, e.Min, e.Max)
}

// InsufficientDataError reports too few completed orders or distinct
// customers for clustering. The caller should skip segmentation rather than
// produce degenerate clusters.
type InsufficientDataError struct {
	Customers int
	Required  int
}

func (e *InsufficientDataError) Error() string {
	if e.Required > 0 {
		return fmt.Sprintf("insufficient data for clustering: %d distinct customers, need at least %d", e.Customers, e.Required)
	}
	return "insufficient data: no completed orders"
}

// InsufficientHistoryError reports too few distinct days of completed-order
// history for trend regression.
type InsufficientHistoryError struct {
	Days     int
	Required int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history for regression: %d distinct days, need at least %d", e.Days, e.Required)
}

// SchemaError reports a required column that is absent or unparseable in the
// upstream table.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error on column %q: %s", e.Column, e.Reason)
}

// checkRange validates an integer parameter against its closed range.
func checkRange(name string, v, min, max int) error {
	if v < min || v > max {
		return &InvalidParameterError{Param: name, Value: v, Min: min, Max: max}
	}
	return nil
}
