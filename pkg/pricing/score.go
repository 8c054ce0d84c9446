package pricing

// Weights configure how per-node capacity is derived from hardware
// attributes. They are engine configuration, not request input; the
// defaults weigh one core and one GB of memory equally.
type Weights struct {
	CPU   float64
	RAMGB float64
}

// DefaultWeights are the documented production weights.
var DefaultWeights = Weights{CPU: 1.0, RAMGB: 1.0}

// generationMultipliers model the price/performance edge of newer
// hardware generations. The table is monotonically non-decreasing;
// tiers above the newest known entry clamp to it.
var generationMultipliers = map[int]float64{
	1: 1.0,
	2: 1.10,
}

const maxKnownGeneration = 2

func generationMultiplier(gen int) float64 {
	if gen < 1 {
		gen = 1
	}
	if gen > maxKnownGeneration {
		gen = maxKnownGeneration
	}
	return generationMultipliers[gen]
}

// riskBalanceWeights returns the (value, performance) weighting of the
// balanced composite score for a risk level. The weights sum to 1 and
// shift toward value as risk tolerance decreases.
func riskBalanceWeights(risk RiskLevel) (valueWeight, perfWeight float64) {
	switch risk {
	case RiskLow:
		return 0.70, 0.30
	case RiskHigh:
		return 0.30, 0.70
	default:
		return 0.50, 0.50
	}
}

// riskBidMultipliers scale the market price into a suggested spot bid:
// cautious callers bid higher to reduce preemption risk.
var riskBidMultipliers = map[RiskLevel]float64{
	RiskLow:    1.35,
	RiskMedium: 1.20,
	RiskHigh:   1.05,
}

// riskPoolTargets bound how many offerings the balanced strategy may
// spread the cluster across.
var riskPoolTargets = map[RiskLevel]int{
	RiskLow:    3,
	RiskMedium: 2,
	RiskHigh:   1,
}

// Score derives the comparison metrics for each offering. Pure and
// deterministic for a given weight configuration.
func Score(offerings []Offering, w Weights) []ScoredOffering {
	scored := make([]ScoredOffering, 0, len(offerings))
	for _, off := range offerings {
		capacity := (float64(off.CPUCores)*w.CPU + off.RAMGB*w.RAMGB) * generationMultiplier(off.Generation)
		value := 0.0
		if off.HourlyPrice > 0 {
			value = capacity / off.HourlyPrice
		}
		scored = append(scored, ScoredOffering{
			Offering:      off,
			CapacityScore: capacity,
			ValueScore:    value,
		})
	}
	return scored
}

// normalizeScore maps a value into [0,1] over the observed range.
// Degenerate ranges map to 1 so a uniform candidate set stays ranked.
func normalizeScore(v, lo, hi float64) float64 {
	if hi-lo < 1e-12 {
		return 1.0
	}
	return (v - lo) / (hi - lo)
}
