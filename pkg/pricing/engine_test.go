package pricing

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogRecords() []Record {
	return []Record{
		{
			"name":         "gp.vs1.small",
			"region":       "us-central-dfw-1",
			"market_price": "$0.05",
			"cpu":          "2",
			"memory":       "4GB",
		},
		{
			"name":         "gp.vs2.large",
			"region":       "us-central-dfw-1",
			"market_price": "$0.09",
			"cpu":          "4",
			"memory":       "8GB",
		},
	}
}

func allStrategies() []Strategy {
	return []Strategy{StrategyMaxPerformance, StrategyMaxValue, StrategyBalanced}
}

func TestBuildMaxPerformance(t *testing.T) {
	req := &Request{Nodes: 4, Strategies: []Strategy{StrategyMaxPerformance}}

	res, err := BuildRecommendation(catalogRecords(), req)
	require.NoError(t, err)
	require.Len(t, res.Scenarios, 1)

	s := res.Scenarios[0]
	assert.Equal(t, StrategyMaxPerformance, s.Strategy)
	require.Len(t, s.Pools, 1)
	assert.Equal(t, "gp.vs2.large", s.Pools[0].Offering.Name)
	assert.Equal(t, 4, s.Pools[0].Nodes)
	assert.InDelta(t, 0.36, s.TotalHourly, 1e-9)
	assert.InDelta(t, 0.36*HoursPerMonth, s.TotalMonthly, 1e-9)
	assert.Equal(t, 16, s.TotalCPUCores)
	assert.InDelta(t, 32, s.TotalRAMGB, 1e-9)

	// Default risk is medium, so the bid sits 20% above market.
	assert.InDelta(t, 0.09*1.20, s.Pools[0].SuggestedBidPerNode, 1e-9)
}

func TestBuildBudgetForcesCheaperClass(t *testing.T) {
	req := &Request{
		Nodes:      4,
		Strategies: []Strategy{StrategyMaxPerformance},
		MaxHourly:  0.20,
	}

	res, err := BuildRecommendation(catalogRecords(), req)
	require.NoError(t, err)
	require.Len(t, res.Scenarios, 1)
	require.Len(t, res.Scenarios[0].Pools, 1)
	assert.Equal(t, "gp.vs1.small", res.Scenarios[0].Pools[0].Offering.Name)
	assert.InDelta(t, 0.20, res.Scenarios[0].TotalHourly, 1e-9)
}

func TestBuildAllStrategiesInfeasible(t *testing.T) {
	req := &Request{
		Nodes:      4,
		Strategies: allStrategies(),
		MaxHourly:  0.10,
	}

	_, err := BuildRecommendation(catalogRecords(), req)
	var noFeasible *NoFeasibleScenarioError
	require.ErrorAs(t, err, &noFeasible)
	assert.Len(t, noFeasible.Failures, 3)
}

func TestBuildNoMatch(t *testing.T) {
	req := &Request{
		Nodes:      4,
		Strategies: allStrategies(),
		MinCPU:     5,
	}

	_, err := BuildRecommendation(catalogRecords(), req)
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, 2, noMatch.Candidates)
}

func TestBuildRejectsInvalidRequest(t *testing.T) {
	tests := []struct {
		name  string
		req   *Request
		field string
	}{
		{"nil request", nil, "request"},
		{"zero nodes", &Request{Strategies: allStrategies()}, "nodes"},
		{"no strategies", &Request{Nodes: 3}, "strategies"},
		{"bad strategy", &Request{Nodes: 3, Strategies: []Strategy{"fastest"}}, "strategies"},
		{"bad risk", &Request{Nodes: 3, Strategies: allStrategies(), Risk: "none"}, "risk"},
		{"inverted cpu", &Request{Nodes: 3, Strategies: allStrategies(), MinCPU: 8, MaxCPU: 2}, "cpu"},
		{"inverted budget", &Request{Nodes: 3, Strategies: allStrategies(), MinHourly: 2, MaxHourly: 1}, "hourly budget"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildRecommendation(catalogRecords(), tc.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestBuildEmissionOrderAndNodeConservation(t *testing.T) {
	req := &Request{Nodes: 4, Strategies: allStrategies()}

	res, err := BuildRecommendation(catalogRecords(), req)
	require.NoError(t, err)
	require.Len(t, res.Scenarios, 3)

	// Scenarios come out in fixed order no matter how they were requested.
	assert.Equal(t, StrategyMaxPerformance, res.Scenarios[0].Strategy)
	assert.Equal(t, StrategyMaxValue, res.Scenarios[1].Strategy)
	assert.Equal(t, StrategyBalanced, res.Scenarios[2].Strategy)

	for _, s := range res.Scenarios {
		total := 0
		for _, p := range s.Pools {
			total += p.Nodes
		}
		assert.Equal(t, req.Nodes, total, "strategy %s", s.Strategy)
	}
}

func TestBuildDeterministic(t *testing.T) {
	req := &Request{Nodes: 7, Strategies: allStrategies(), Risk: RiskLow}

	first, err := BuildRecommendation(catalogRecords(), req)
	require.NoError(t, err)
	second, err := BuildRecommendation(catalogRecords(), req)
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(first, second))
}

func TestBuildPropagatesNormalizationWarnings(t *testing.T) {
	records := append(catalogRecords(), Record{
		"name":         "gp.vs1.broken",
		"market_price": "free",
		"cpu":          "2",
		"memory":       "4GB",
	})
	req := &Request{Nodes: 2, Strategies: []Strategy{StrategyMaxValue}}

	res, err := BuildRecommendation(records, req)
	require.NoError(t, err)
	require.Len(t, res.Scenarios, 1)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "gp.vs1.broken")
}

func TestBuildAssumptionsEcho(t *testing.T) {
	req := &Request{Nodes: 2, Strategies: []Strategy{StrategyMaxValue}, Risk: RiskLow}

	res, err := BuildRecommendation(catalogRecords(), req)
	require.NoError(t, err)
	assert.Equal(t, HoursPerMonth, res.Assumptions.HoursPerMonth)
	assert.InDelta(t, 1.0, res.Assumptions.CPUWeight, 1e-9)
	assert.InDelta(t, 1.0, res.Assumptions.RAMWeight, 1e-9)
	assert.InDelta(t, 1.35, res.Assumptions.BidMultiplier, 1e-9)
}

func TestEngineWithWeights(t *testing.T) {
	// Weighting memory only makes the memory-heavy class win on capacity
	// even without the newer generation multiplier.
	e := New(WithWeights(Weights{CPU: 0, RAMGB: 1}))

	offerings := []Offering{
		{Name: "gp.vs2.compute", CPUCores: 16, RAMGB: 8, HourlyPrice: 0.10, Generation: 2},
		{Name: "mh.vs1.memory", CPUCores: 4, RAMGB: 30, HourlyPrice: 0.10, Generation: 1},
	}
	req := &Request{Nodes: 2, Strategies: []Strategy{StrategyMaxPerformance}}

	res, err := e.Evaluate(offerings, req)
	require.NoError(t, err)
	require.Len(t, res.Scenarios, 1)
	assert.Equal(t, "mh.vs1.memory", res.Scenarios[0].Pools[0].Offering.Name)
	assert.InDelta(t, 0, res.Assumptions.CPUWeight, 1e-9)
}
