package pricing

import (
	"time"
)

// Engine turns a catalog and a request into ranked sizing scenarios.
// It holds only configuration, never per-call state, so a single Engine
// is safe for concurrent use.
type Engine struct {
	weights Weights
}

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithWeights overrides the capacity score weights.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

// New creates an Engine with the provided options.
func New(opts ...Option) *Engine {
	e := &Engine{weights: DefaultWeights}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

// BuildRecommendation evaluates a raw catalog against the request using
// a shared default Engine. Prefer an explicit Engine when custom weights
// are required.
func BuildRecommendation(records []Record, req *Request) (*Result, error) {
	return defaultEngine.Build(records, req)
}

// Build normalizes the raw catalog and evaluates the request against it.
func (e *Engine) Build(records []Record, req *Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		buildTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	offerings, warnings, err := Normalize(records)
	if err != nil {
		buildTotal.WithLabelValues("unusable_catalog").Inc()
		return nil, err
	}

	res, err := e.Evaluate(offerings, req)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

// Evaluate runs the request against an already normalized catalog:
// derive scores, filter, then rank each requested strategy under the
// budget bounds. The computation is pure and deterministic; identical
// inputs always yield identical scenarios or the identical error.
func (e *Engine) Evaluate(offerings []Offering, req *Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		buildTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	start := time.Now()
	defer func() {
		buildDuration.Observe(time.Since(start).Seconds())
	}()

	scored := Score(offerings, e.weights)
	cands, err := Filter(scored, req)
	if err != nil {
		buildTotal.WithLabelValues("no_match").Inc()
		return nil, err
	}

	budget := budgetFromRequest(req)
	risk := req.risk()
	bid := riskBidMultipliers[risk]

	res := &Result{
		Assumptions: Assumptions{
			HoursPerMonth: HoursPerMonth,
			CPUWeight:     e.weights.CPU,
			RAMWeight:     e.weights.RAMGB,
			BidMultiplier: bid,
		},
	}

	var failures []*InfeasibleBudgetError
	for _, strategy := range strategyOrder {
		if !req.wantsStrategy(strategy) {
			continue
		}

		var alloc []poolAlloc
		var rankErr error
		switch strategy {
		case StrategyMaxPerformance:
			alloc, rankErr = rankMaxPerformance(cands, budget, req.Nodes)
		case StrategyMaxValue:
			alloc, rankErr = rankMaxValue(cands, budget, req.Nodes)
		case StrategyBalanced:
			alloc, rankErr = rankBalanced(cands, budget, req.Nodes, risk)
		}

		if rankErr != nil {
			strategyInfeasibleTotal.WithLabelValues(string(strategy)).Inc()
			var infeasible *InfeasibleBudgetError
			if ib, ok := rankErr.(*InfeasibleBudgetError); ok {
				infeasible = ib
			} else {
				infeasible = &InfeasibleBudgetError{Strategy: strategy, Reason: rankErr.Error()}
			}
			failures = append(failures, infeasible)
			continue
		}

		res.Scenarios = append(res.Scenarios, assembleScenario(strategy, alloc, bid))
	}

	if len(res.Scenarios) == 0 {
		buildTotal.WithLabelValues("infeasible").Inc()
		return nil, &NoFeasibleScenarioError{Failures: failures}
	}

	for _, f := range failures {
		res.Warnings = append(res.Warnings, f.Error())
	}
	buildTotal.WithLabelValues("success").Inc()
	return res, nil
}

// assembleScenario turns a ranked allocation into the output scenario,
// computing pool and aggregate cost and capacity figures.
func assembleScenario(strategy Strategy, alloc []poolAlloc, bidMultiplier float64) Scenario {
	s := Scenario{Strategy: strategy, Pools: make([]Pool, 0, len(alloc))}
	for _, a := range alloc {
		hourly := a.offering.HourlyPrice * float64(a.nodes)
		s.Pools = append(s.Pools, Pool{
			Offering:            a.offering.Offering,
			Nodes:               a.nodes,
			HourlyTotal:         hourly,
			MonthlyTotal:        hourly * HoursPerMonth,
			SuggestedBidPerNode: a.offering.HourlyPrice * bidMultiplier,
		})
		s.TotalHourly += hourly
		s.TotalCapacity += a.offering.CapacityScore * float64(a.nodes)
		s.TotalCPUCores += a.offering.CPUCores * a.nodes
		s.TotalRAMGB += a.offering.RAMGB * float64(a.nodes)
	}
	s.TotalMonthly = s.TotalHourly * HoursPerMonth
	return s
}
