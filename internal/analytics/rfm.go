package analytics

import (
	"math"
	"sort"
)

// Cluster count bounds for segmentation.
const (
	MinClusters = 2
	MaxClusters = 8
	// DefaultClusters is used when the caller does not override k
	DefaultClusters = 4
)

// Value score weights over centroid features in original units. High
// frequency and monetary raise the score; high recency (staleness) lowers it.
const (
	scoreWeightFrequency = 0.3
	scoreWeightMonetary  = 0.5
	scoreWeightRecency   = 0.2
)

// SegmentCustomers performs RFM segmentation over completed orders: feature
// build anchored one day after the latest completed order, per-column
// standardization, seeded k-means, then value-ranked label assignment. Passing
// nil labels uses DefaultSegmentLabels.
func SegmentCustomers(ds *Dataset, k int, labels []string) (*RFMResult, error) {
	if err := checkRange("k", k, MinClusters, MaxClusters); err != nil {
		return nil, err
	}
	if labels == nil {
		labels = DefaultSegmentLabels
	}

	records := buildRFM(ds)
	if len(records) == 0 {
		return nil, &InsufficientDataError{}
	}
	if len(records) < k {
		return nil, &InsufficientDataError{Customers: len(records), Required: k}
	}

	points, scaler := standardize(records)
	clustering := kMeans(points, k)

	// Centroids back in original R/F/M units for scoring and summaries.
	centroids := make([]point, k)
	for c, ctr := range clustering.centroids {
		centroids[c] = scaler.invert(ctr)
	}

	labelByCluster := assignLabels(centroids, labels)

	for i := range records {
		c := clustering.assignments[i]
		records[i].Cluster = c
		records[i].Label = labelByCluster[c]
		records[i].Strategy = StrategyFor(labelByCluster[c])
	}

	return &RFMResult{
		Records:   records,
		Summaries: summarize(records),
	}, nil
}

// buildRFM computes the per-customer feature triple over completed orders,
// sorted by customer id so downstream clustering sees a deterministic order.
func buildRFM(ds *Dataset) []RFMRecord {
	completed := ds.completed()
	if len(completed) == 0 {
		return nil
	}

	anchor := day(ds.maxCompletedDate()).AddDate(0, 0, 1)

	type agg struct {
		last     int // recency in days
		count    int
		monetary float64
	}
	byUser := make(map[string]*agg)

	for _, o := range completed {
		a, ok := byUser[o.UserID]
		if !ok {
			a = &agg{last: math.MaxInt32}
			byUser[o.UserID] = a
		}
		recency := int(anchor.Sub(day(o.OrderDate)).Hours() / 24)
		if recency < a.last {
			a.last = recency
		}
		a.count++
		a.monetary += o.Amount
	}

	records := make([]RFMRecord, 0, len(byUser))
	for _, id := range sortedKeys(byUser) {
		a := byUser[id]
		records = append(records, RFMRecord{
			UserID:    id,
			Recency:   a.last,
			Frequency: a.count,
			Monetary:  round2(a.monetary),
		})
	}
	return records
}

// zscaler holds the per-column mean and standard deviation used to
// standardize features, and inverts the transform for centroid reporting.
type zscaler struct {
	mean [3]float64
	std  [3]float64
}

func (z zscaler) invert(p point) point {
	var out point
	for d := 0; d < 3; d++ {
		out[d] = p[d]*z.std[d] + z.mean[d]
	}
	return out
}

// standardize maps records to zero-mean unit-variance points. A zero-variance
// column stays at 0 after scaling instead of dividing by zero.
func standardize(records []RFMRecord) ([]point, zscaler) {
	n := float64(len(records))
	raw := make([]point, len(records))
	for i, r := range records {
		raw[i] = point{float64(r.Recency), float64(r.Frequency), r.Monetary}
	}

	var z zscaler
	for d := 0; d < 3; d++ {
		sum := 0.0
		for _, p := range raw {
			sum += p[d]
		}
		z.mean[d] = sum / n

		ss := 0.0
		for _, p := range raw {
			diff := p[d] - z.mean[d]
			ss += diff * diff
		}
		z.std[d] = math.Sqrt(ss / n)
	}

	scaled := make([]point, len(raw))
	for i, p := range raw {
		for d := 0; d < 3; d++ {
			if z.std[d] > 0 {
				scaled[i][d] = (p[d] - z.mean[d]) / z.std[d]
			}
		}
	}
	return scaled, z
}

// assignLabels ranks centroids by value score and hands out the configured
// labels in descending-score order. Clusters past the label list get a
// generic fallback. Score ties break on the lower cluster index.
func assignLabels(centroids []point, labels []string) map[int]string {
	var maxR, maxF, maxM float64
	for _, c := range centroids {
		maxR = math.Max(maxR, c[0])
		maxF = math.Max(maxF, c[1])
		maxM = math.Max(maxM, c[2])
	}

	ratio := func(v, max float64) float64 {
		if max <= 0 {
			return 0
		}
		return v / max
	}

	type scored struct {
		cluster int
		score   float64
	}
	scoredClusters := make([]scored, len(centroids))
	for i, c := range centroids {
		scoredClusters[i] = scored{
			cluster: i,
			score: scoreWeightFrequency*ratio(c[1], maxF) +
				scoreWeightMonetary*ratio(c[2], maxM) +
				scoreWeightRecency*(1-ratio(c[0], maxR)),
		}
	}
	sort.SliceStable(scoredClusters, func(i, j int) bool {
		return scoredClusters[i].score > scoredClusters[j].score
	})

	out := make(map[int]string, len(centroids))
	for rank, sc := range scoredClusters {
		if rank < len(labels) {
			out[sc.cluster] = labels[rank]
		} else {
			out[sc.cluster] = fallbackLabel(sc.cluster)
		}
	}
	return out
}

// summarize aggregates labeled records into per-segment summaries, ordered by
// descending customer value (the label assignment order is recovered from the
// records' cluster scores implicitly by sorting on monetary mean).
func summarize(records []RFMRecord) []SegmentSummary {
	type agg struct {
		n       int
		r, f, m float64
	}
	byLabel := make(map[string]*agg)
	for _, rec := range records {
		a, ok := byLabel[rec.Label]
		if !ok {
			a = &agg{}
			byLabel[rec.Label] = a
		}
		a.n++
		a.r += float64(rec.Recency)
		a.f += float64(rec.Frequency)
		a.m += rec.Monetary
	}

	total := float64(len(records))
	summaries := make([]SegmentSummary, 0, len(byLabel))
	for _, label := range sortedKeys(byLabel) {
		a := byLabel[label]
		n := float64(a.n)
		summaries = append(summaries, SegmentSummary{
			Label:        label,
			Customers:    a.n,
			AvgRecency:   round2(a.r / n),
			AvgFrequency: round2(a.f / n),
			AvgMonetary:  round2(a.m / n),
			Share:        round2(n / total * 100),
		})
	}

	// Most valuable segments first.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].AvgMonetary > summaries[j].AvgMonetary
	})
	return summaries
}
