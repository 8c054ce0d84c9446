package pricing

import (
	"fmt"
	"strings"
)

// HoursPerMonth is the fixed hour count used to project hourly prices
// into monthly cost figures.
const HoursPerMonth = 730

// Strategy identifies one of the cluster sizing policies.
type Strategy string

const (
	StrategyMaxPerformance Strategy = "max_performance"
	StrategyMaxValue       Strategy = "max_value"
	StrategyBalanced       Strategy = "balanced"
)

// strategyOrder fixes the order in which scenarios are emitted,
// regardless of which subset was requested.
var strategyOrder = []Strategy{StrategyMaxPerformance, StrategyMaxValue, StrategyBalanced}

func (s Strategy) IsValid() bool {
	switch s {
	case StrategyMaxPerformance, StrategyMaxValue, StrategyBalanced:
		return true
	default:
		return false
	}
}

func (s Strategy) String() string {
	return string(s)
}

// SupportedStrategies returns all strategy names in emission order.
func SupportedStrategies() []string {
	out := make([]string, 0, len(strategyOrder))
	for _, s := range strategyOrder {
		out = append(out, string(s))
	}
	return out
}

// RiskLevel dials the balanced strategy between cost efficiency and raw
// performance, and scales the suggested spot bid.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

func (r RiskLevel) String() string {
	return string(r)
}

// ParseRiskLevel parses a string into a RiskLevel, accepting the
// abbreviated "med" form used by earlier releases.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "medium", "med":
		return RiskMedium, nil
	case "low":
		return RiskLow, nil
	case "high":
		return RiskHigh, nil
	default:
		return RiskMedium, fmt.Errorf("invalid risk level: %s", s)
	}
}

// SupportedRiskLevels returns all risk levels from most to least cautious.
func SupportedRiskLevels() []string {
	return []string{string(RiskLow), string(RiskMedium), string(RiskHigh)}
}

// Offering is one purchasable server class in a region, normalized to
// canonical units. Offerings are immutable once produced by Normalize.
type Offering struct {
	// Name is the server class name, e.g. gp.vs2.medium-dfw.
	Name string `json:"name" yaml:"name"`

	// ClassPrefix is the segment of Name before the first dot (gp, ch, mh).
	ClassPrefix string `json:"class" yaml:"class"`

	// Region is the provider region the offering is sold in.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// CPUCores is the vCPU core count per node.
	CPUCores int `json:"cpu" yaml:"cpu"`

	// RAMGB is the memory per node in gigabytes.
	RAMGB float64 `json:"memoryGb" yaml:"memoryGb"`

	// HourlyPrice is the market price per node hour, currency agnostic.
	HourlyPrice float64 `json:"hourlyPrice" yaml:"hourlyPrice"`

	// Generation is the hardware generation tier, 1 when unknown.
	Generation int `json:"generation" yaml:"generation"`
}

// ID returns the stable identifier used for deterministic tie breaking:
// class name qualified by region.
func (o Offering) ID() string {
	if o.Region == "" {
		return o.Name
	}
	return o.Name + "@" + o.Region
}

// MonthlyPrice projects the hourly price over a full month.
func (o Offering) MonthlyPrice() float64 {
	return o.HourlyPrice * HoursPerMonth
}

// ScoredOffering is an Offering with its derived comparison metrics.
// Scores are recomputed on every engine invocation.
type ScoredOffering struct {
	Offering `yaml:",inline"`

	// CapacityScore measures raw compute capability of one node.
	CapacityScore float64 `json:"capacityScore" yaml:"capacityScore"`

	// ValueScore is capacity per unit of hourly price.
	ValueScore float64 `json:"valueScore" yaml:"valueScore"`
}

// Pool allocates a node count to a single offering within a scenario.
type Pool struct {
	Offering Offering `json:"offering" yaml:"offering"`
	Nodes    int      `json:"nodes" yaml:"nodes"`

	HourlyTotal  float64 `json:"hourlyTotal" yaml:"hourlyTotal"`
	MonthlyTotal float64 `json:"monthlyTotal" yaml:"monthlyTotal"`

	// SuggestedBidPerNode is the recommended spot bid for one node,
	// derived from the market price and the request risk level.
	SuggestedBidPerNode float64 `json:"suggestedBidPerNode" yaml:"suggestedBidPerNode"`
}

// Scenario is the full recommended cluster composition for one strategy.
// The pool node counts always sum to the requested node count.
type Scenario struct {
	Strategy Strategy `json:"strategy" yaml:"strategy"`
	Pools    []Pool   `json:"pools" yaml:"pools"`

	TotalHourly   float64 `json:"totalHourly" yaml:"totalHourly"`
	TotalMonthly  float64 `json:"totalMonthly" yaml:"totalMonthly"`
	TotalCapacity float64 `json:"totalCapacity" yaml:"totalCapacity"`
	TotalCPUCores int     `json:"totalCpu" yaml:"totalCpu"`
	TotalRAMGB    float64 `json:"totalMemoryGb" yaml:"totalMemoryGb"`
}

// Result is a successful engine evaluation: one scenario per strategy
// that produced a feasible allocation, in fixed strategy order, plus any
// non-fatal normalization warnings.
type Result struct {
	Scenarios   []Scenario  `json:"scenarios" yaml:"scenarios"`
	Warnings    []string    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Assumptions Assumptions `json:"assumptions" yaml:"assumptions"`
}

// Assumptions echoes the engine constants that shaped the result so
// callers can render them next to the recommendation.
type Assumptions struct {
	HoursPerMonth int     `json:"hoursPerMonth" yaml:"hoursPerMonth"`
	CPUWeight     float64 `json:"cpuWeight" yaml:"cpuWeight"`
	RAMWeight     float64 `json:"memoryWeight" yaml:"memoryWeight"`
	BidMultiplier float64 `json:"bidMultiplier" yaml:"bidMultiplier"`
}

// Request carries the validated inputs of one engine evaluation.
// Zero values mean "not constrained" for all optional fields.
type Request struct {
	// Nodes is the total node count to allocate, at least 1.
	Nodes int

	// Strategies selects which policies to evaluate. Must not be empty.
	Strategies []Strategy

	// Risk shifts the balanced strategy and the suggested bid.
	Risk RiskLevel

	// Regions restricts candidates to the given regions when non-empty.
	Regions []string

	// Classes restricts candidates to the given class prefixes when non-empty.
	Classes []string

	// MinGeneration drops offerings of an older hardware generation.
	MinGeneration int

	// MinCPU and MaxCPU bound the per node core count, inclusive.
	MinCPU int
	MaxCPU int

	// Hourly and monthly budget bounds for the whole cluster, inclusive.
	MinHourly  float64
	MaxHourly  float64
	MinMonthly float64
	MaxMonthly float64
}

// Validate checks request invariants before any catalog work is done.
func (r *Request) Validate() error {
	if r == nil {
		return &ValidationError{Field: "request", Reason: "cannot be nil"}
	}
	if r.Nodes < 1 {
		return &ValidationError{Field: "nodes", Reason: fmt.Sprintf("must be at least 1, got %d", r.Nodes)}
	}
	if len(r.Strategies) == 0 {
		return &ValidationError{Field: "strategies", Reason: "at least one strategy must be selected"}
	}
	for _, s := range r.Strategies {
		if !s.IsValid() {
			return &ValidationError{Field: "strategies", Reason: fmt.Sprintf("unknown strategy %q", s)}
		}
	}
	if r.Risk != "" && !r.Risk.IsValid() {
		return &ValidationError{Field: "risk", Reason: fmt.Sprintf("unknown risk level %q", r.Risk)}
	}
	if r.MinCPU < 0 || r.MaxCPU < 0 {
		return &ValidationError{Field: "cpu", Reason: "cpu bounds cannot be negative"}
	}
	if r.MinCPU > 0 && r.MaxCPU > 0 && r.MinCPU > r.MaxCPU {
		return &ValidationError{Field: "cpu", Reason: fmt.Sprintf("min %d exceeds max %d", r.MinCPU, r.MaxCPU)}
	}
	if r.MinHourly > 0 && r.MaxHourly > 0 && r.MinHourly > r.MaxHourly {
		return &ValidationError{Field: "hourly budget", Reason: fmt.Sprintf("min %g exceeds max %g", r.MinHourly, r.MaxHourly)}
	}
	if r.MinMonthly > 0 && r.MaxMonthly > 0 && r.MinMonthly > r.MaxMonthly {
		return &ValidationError{Field: "monthly budget", Reason: fmt.Sprintf("min %g exceeds max %g", r.MinMonthly, r.MaxMonthly)}
	}
	return nil
}

// wantsStrategy reports whether the request selected the given strategy.
func (r *Request) wantsStrategy(s Strategy) bool {
	for _, sel := range r.Strategies {
		if sel == s {
			return true
		}
	}
	return false
}

// risk returns the effective risk level, defaulting to medium.
func (r *Request) risk() RiskLevel {
	if r.Risk == "" {
		return RiskMedium
	}
	return r.Risk
}
