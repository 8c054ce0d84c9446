package pricing

import "sort"

// poolAlloc is one ranked allocation before scenario assembly.
type poolAlloc struct {
	offering ScoredOffering
	nodes    int
}

// rankSingle implements the shared mechanics of the single-offering
// strategies: among candidates able to host the full cluster within
// budget, pick the one with the highest score. Ties break on lower
// hourly price, then lexicographically smaller identifier.
func rankSingle(cands []ScoredOffering, score func(ScoredOffering) float64, b Budget, nodes int, strategy Strategy) ([]poolAlloc, error) {
	ranked := sortRanked(cands, score)
	for _, c := range ranked {
		if b.Feasible(c.Offering, nodes) {
			return []poolAlloc{{offering: c, nodes: nodes}}, nil
		}
	}
	return nil, &InfeasibleBudgetError{
		Strategy: strategy,
		Reason:   "no single offering can host the full node count within budget",
	}
}

func rankMaxPerformance(cands []ScoredOffering, b Budget, nodes int) ([]poolAlloc, error) {
	return rankSingle(cands, func(c ScoredOffering) float64 { return c.CapacityScore }, b, nodes, StrategyMaxPerformance)
}

func rankMaxValue(cands []ScoredOffering, b Budget, nodes int) ([]poolAlloc, error) {
	return rankSingle(cands, func(c ScoredOffering) float64 { return c.ValueScore }, b, nodes, StrategyMaxValue)
}

// rankBalanced ranks candidates by a risk-weighted composite of their
// min-max normalized value and capacity scores, then diversifies the
// cluster across up to k pools. Nodes are allocated proportionally to
// the normalized composite score, with the rounding remainder assigned
// to the top pool. Each pool must stay within its share of the budget;
// infeasible diversifications fall back to narrower splits and finally
// to a single offering.
func rankBalanced(cands []ScoredOffering, b Budget, nodes int, risk RiskLevel) ([]poolAlloc, error) {
	capLo, capHi := scoreRange(cands, func(c ScoredOffering) float64 { return c.CapacityScore })
	valLo, valHi := scoreRange(cands, func(c ScoredOffering) float64 { return c.ValueScore })
	valueWeight, perfWeight := riskBalanceWeights(risk)

	composite := func(c ScoredOffering) float64 {
		return normalizeScore(c.ValueScore, valLo, valHi)*valueWeight +
			normalizeScore(c.CapacityScore, capLo, capHi)*perfWeight
	}
	ranked := sortRanked(cands, composite)

	target := riskPoolTargets[risk]
	if target < 1 {
		target = 1
	}
	if target > nodes {
		target = nodes
	}
	if target > len(ranked) {
		target = len(ranked)
	}

	for k := target; k >= 2; k-- {
		if alloc := diversify(ranked[:k], composite, b, nodes); alloc != nil {
			return alloc, nil
		}
	}

	// Single-pool fallback walks the full ranking like the other strategies.
	for _, c := range ranked {
		if b.Feasible(c.Offering, nodes) {
			return []poolAlloc{{offering: c, nodes: nodes}}, nil
		}
	}
	return nil, &InfeasibleBudgetError{
		Strategy: StrategyBalanced,
		Reason:   "neither a diversified nor a single-offering allocation fits the budget",
	}
}

// diversify splits nodes across the given pools proportionally to their
// composite score. Returns nil when any resulting pool violates its
// slice of the budget.
func diversify(top []ScoredOffering, composite func(ScoredOffering) float64, b Budget, nodes int) []poolAlloc {
	sum := 0.0
	for _, c := range top {
		sum += composite(c)
	}

	counts := make([]int, len(top))
	assigned := 0
	for i, c := range top {
		share := 1.0 / float64(len(top))
		if sum > 0 {
			share = composite(c) / sum
		}
		counts[i] = int(share * float64(nodes))
		assigned += counts[i]
	}
	// Remainder goes to the highest-scoring pool.
	counts[0] += nodes - assigned

	alloc := make([]poolAlloc, 0, len(top))
	for i, c := range top {
		if counts[i] < 1 {
			continue
		}
		if !b.FeasibleSlice(c.Offering, counts[i], nodes) {
			return nil
		}
		alloc = append(alloc, poolAlloc{offering: c, nodes: counts[i]})
	}
	if len(alloc) < 2 {
		return nil
	}
	return alloc
}

// sortRanked orders candidates by score descending, breaking ties on
// lower hourly price and then identifier, so identical inputs always
// produce identical rankings.
func sortRanked(cands []ScoredOffering, score func(ScoredOffering) float64) []ScoredOffering {
	ranked := make([]ScoredOffering, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := score(ranked[i]), score(ranked[j])
		if si != sj {
			return si > sj
		}
		if ranked[i].HourlyPrice != ranked[j].HourlyPrice {
			return ranked[i].HourlyPrice < ranked[j].HourlyPrice
		}
		return ranked[i].ID() < ranked[j].ID()
	})
	return ranked
}

func scoreRange(cands []ScoredOffering, score func(ScoredOffering) float64) (lo, hi float64) {
	for i, c := range cands {
		v := score(c)
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi
}
