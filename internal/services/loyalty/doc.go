// Package loyalty implements the tier ladder and achievement engine.
//
// Tiers are a pure function of the passport's running point total; the
// stored tier is only a cache and is repaired whenever it is read stale.
// Achievements are catalog entries with threshold predicates over user
// aggregates (events attended, countries visited, lifetime points, tier
// rank). Unlocks are made idempotent by a composite unique index so an
// achievement's credit bonus is paid at most once.
package loyalty
