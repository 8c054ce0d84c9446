// Package pricing implements the spot pricing recommendation engine.
//
// Given a catalog of purchasable server class offerings and a validated
// request, the engine derives comparable capacity and value metrics and
// produces ranked, budget-constrained cluster sizing recommendations
// under three strategies:
//
//   - max_performance: the single offering with the highest capacity
//     score that can host the full cluster within budget
//   - max_value: the same mechanics ranked by capacity per unit price
//   - balanced: a risk-weighted composite of the two that may diversify
//     the cluster across multiple offerings
//
// The evaluation pipeline runs strictly left to right:
//
//	raw catalog -> Normalize -> Score -> Filter -> per-strategy ranking -> scenarios
//
// The engine is a pure, deterministic transformation: it performs no
// I/O, persists nothing, and holds no state across invocations, so
// concurrent calls need no coordination. Catalog fetching, persistence,
// retries, and rendering belong to the surrounding SDK and CLI layers.
//
// Failure modes are typed: ValidationError for bad requests,
// NormalizationError for unusable catalogs, NoMatchError when the
// filters eliminate every offering, InfeasibleBudgetError per strategy,
// and NoFeasibleScenarioError when every requested strategy fails.
// Malformed catalog records are dropped with warnings rather than
// failing the call.
package pricing
