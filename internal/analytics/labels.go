package analytics

import "fmt"

// DefaultSegmentLabels is the ordered label list assigned to clusters by
// descending value score, most valuable first.
var DefaultSegmentLabels = []string{
	"high-value",
	"growing",
	"maintained",
	"at-risk",
}

// segmentStrategies maps a segment label to its operational playbook.
var segmentStrategies = map[string]string{
	"high-value": "VIP service, early access to new products, dedicated support",
	"growing":    "personalized recommendations and limited-time offers to lift repeat purchases",
	"maintained": "regular touchpoints, seasonal campaigns, reactivation nudges",
	"at-risk":    "win-back coupons, recall messaging, time-limited discounts",
}

// StrategyFor returns the operational strategy for a segment label. Fallback
// labels get a generic retention strategy.
func StrategyFor(label string) string {
	if s, ok := segmentStrategies[label]; ok {
		return s
	}
	return "monitor segment and tailor campaigns to observed behavior"
}

// fallbackLabel names clusters beyond the configured label list.
func fallbackLabel(cluster int) string {
	return fmt.Sprintf("segment %d", cluster)
}
