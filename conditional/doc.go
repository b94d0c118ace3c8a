// Package conditional implements the conditional constraint engine: per-view
// collections that bind constraint sets to conditions and keep exactly the
// matching sets active as the observed view state changes.
//
// ARCHITECTURE:
//
// Reactive Collection:
// Each view with conditional constraints owns one List (created lazily by the
// Coordinator). A List tracks its registered items, the last-computed
// active-id set, and the observer subscriptions derived from its conditions.
// Update() re-evaluates every item against a single consistent snapshot of
// view state and applies activation changes as one batch - the engine never
// leaves a partially-applied constraint set behind.
//
// Direct vs Coalesced Updates:
// Install() resolves the minimal observer set for the list's conditions.
// When exactly one (view, kind) pair is observed there is provably no way for
// two signals to race within a turn, and SetNeedsUpdate() runs Update()
// synchronously. Otherwise the list marks itself dirty and schedules one idle
// callback on the run loop; any number of same-turn signals collapse into a
// single evaluation pass at end of turn.
//
// No-Change Fast Path:
// If an update pass computes the same active-id set as the previous pass, no
// activation or deactivation happens at all. This equality check is what
// keeps observed-signal noise from causing redundant layout churn.
//
// Builder Façade:
// Builder carries the active-condition stack and the set of touched lists as
// an explicit context object, so nested If/IfElse trees compose (inner
// conditions AND with outer ones) without any process-global state. Only the
// outermost frame installs observers, once per touched list.
package conditional
