package pricing

import (
	"fmt"
	"strings"
)

// ValidationError reports an invalid request before any catalog work.
// Always fatal to the whole call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// NormalizationError reports a raw catalog that is unusable as a whole.
// Individual malformed records are dropped with warnings instead.
type NormalizationError struct {
	Reason string
}

func (e *NormalizationError) Error() string {
	return "catalog normalization failed: " + e.Reason
}

// NoMatchError reports that the request filters eliminated every offering.
// Terminal for the whole request since no strategy has a candidate set.
type NoMatchError struct {
	// Candidates is the catalog size before filtering.
	Candidates int
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no offerings matched the provided filters (%d candidates before filtering)", e.Candidates)
}

// InfeasibleBudgetError reports that one strategy found no allocation
// within the budget bounds. Sibling strategies are unaffected.
type InfeasibleBudgetError struct {
	Strategy Strategy
	Reason   string
}

func (e *InfeasibleBudgetError) Error() string {
	return fmt.Sprintf("strategy %s: no budget-feasible allocation: %s", e.Strategy, e.Reason)
}

// NoFeasibleScenarioError is the call-level failure returned when every
// requested strategy was budget infeasible. It carries the per-strategy
// reasons for rendering.
type NoFeasibleScenarioError struct {
	Failures []*InfeasibleBudgetError
}

func (e *NoFeasibleScenarioError) Error() string {
	reasons := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		reasons = append(reasons, f.Error())
	}
	return "no strategy produced a feasible scenario: " + strings.Join(reasons, "; ")
}
