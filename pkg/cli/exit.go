package cli

import (
	"errors"

	"github.com/rackerlabs/rsspot/pkg/pricing"
)

// Process exit codes. Scripts branch on these to tell "bad input" from
// "no offering matched" from "matched but over budget".
const (
	exitSuccess       = 0
	exitFailure       = 1
	exitNormalization = 2
	exitNoMatch       = 3
	exitInfeasible    = 4
)

// exitCode maps an error to the process exit code. Engine outcomes get
// dedicated codes; everything else, including validation and transport
// failures, is a general failure.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}

	var (
		noMatch    *pricing.NoMatchError
		infeasible *pricing.NoFeasibleScenarioError
		normErr    *pricing.NormalizationError
	)
	switch {
	case errors.As(err, &noMatch):
		return exitNoMatch
	case errors.As(err, &infeasible):
		return exitInfeasible
	case errors.As(err, &normErr):
		return exitNormalization
	default:
		return exitFailure
	}
}
