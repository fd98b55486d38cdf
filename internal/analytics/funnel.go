package analytics

// Funnel estimation multipliers. The order ledger does not carry browse or
// cart events, so the default funnel scales order counts by fixed factors.
// This is a heuristic placeholder, not a measured funnel.
const (
	browseMultiplier = 30
	cartMultiplier   = 5
)

// StageCount is a caller-supplied funnel stage with its raw count.
type StageCount struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

// FunnelFromCounts computes stage-to-stage and overall conversion rates for
// an ordered list of stages. Stage 0 converts at exactly 100%; a zero
// predecessor count yields a 0 rate for its successor.
func FunnelFromCounts(stages []StageCount) []FunnelStage {
	if len(stages) == 0 {
		return nil
	}

	out := make([]FunnelStage, len(stages))
	overall := 0.0
	if stages[0].Count > 0 {
		overall = round2(float64(stages[len(stages)-1].Count) / float64(stages[0].Count) * 100)
	}

	for i, sc := range stages {
		rate := 0.0
		if i == 0 {
			rate = 100.0
		} else if prev := stages[i-1].Count; prev > 0 {
			rate = round2(float64(sc.Count) / float64(prev) * 100)
		}
		out[i] = FunnelStage{
			Stage:          sc.Stage,
			Count:          sc.Count,
			ConversionRate: rate,
			OverallRate:    overall,
		}
	}
	return out
}

// EstimateFunnel derives a Browse/Cart/Order/Pay funnel from the snapshot
// using the fixed estimation multipliers.
func EstimateFunnel(ds *Dataset) []FunnelStage {
	total := ds.Len()
	paid := 0
	for _, o := range ds.orders {
		if o.Status == StatusCompleted {
			paid++
		}
	}

	return FunnelFromCounts([]StageCount{
		{Stage: "browse", Count: total * browseMultiplier},
		{Stage: "cart", Count: total * cartMultiplier},
		{Stage: "order", Count: total},
		{Stage: "pay", Count: paid},
	})
}
