// Package analytics is the business-analytics engine over an e-commerce
// order ledger: headline KPIs, RFM customer segmentation, conversion-funnel
// rates, dimension rollups and short-horizon sales forecasts.
//
// # Core Components
//
// Every analysis is a pure, stateless function of an immutable Dataset
// snapshot plus explicit parameters:
//
//  1. KPI: GMV, order counts, refund/repeat rates, AOV, profit, plus a
//     period-over-period GMV trend
//  2. Funnel: stage-to-stage and overall conversion rates, either from
//     caller-supplied stage counts or estimated from the ledger
//  3. RFM: per-customer Recency/Frequency/Monetary features, k-means
//     clustering and value-ranked business labels with operational strategies
//  4. Forecast: daily sales aggregation and linear trend extrapolation
//  5. Dimension: group-by rollups over category, channel or city, and top-N
//     customer/product rankings
//
// # Architecture
//
//   - types.go: order model, dataset snapshot, result types
//   - kpi.go: headline metrics and trend comparison
//   - funnel.go: conversion-rate transformation
//   - rfm.go: feature engineering, standardization and label assignment
//   - kmeans.go: seeded Lloyd's algorithm with restarts
//   - regression.go: ordinary least squares line fit
//   - forecast.go: daily aggregation and extrapolation
//   - dimension.go: rollups and top-N rankings
//   - errors.go: caller-recoverable error taxonomy
//
// # Determinism
//
// Clustering uses a fixed random seed, a fixed number of restarts and
// lowest-inertia selection, and all map iteration is ordered, so calling any
// analysis twice on the same snapshot yields identical output. Components do
// not depend on each other and are safe to run concurrently on one snapshot.
//
// # Usage Example
//
//	ds := analytics.NewDataset(orders)
//	kpi := analytics.ComputeKPI(ds)
//	segments, err := analytics.SegmentCustomers(ds, analytics.DefaultClusters, nil)
//	if err != nil {
//	    var insufficient *analytics.InsufficientDataError
//	    if errors.As(err, &insufficient) {
//	        // skip clustering for this snapshot
//	    }
//	}
package analytics
