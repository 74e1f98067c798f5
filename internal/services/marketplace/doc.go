// Package marketplace sells catalog perks for credits.
//
// A claim is a single database transaction pairing a conditional inventory
// decrement with a ledger SPEND and the claim record itself. Pre-checks
// before the transaction only exist to fail fast with a precise error; the
// transaction re-verifies both stock and balance, so a stale pre-check can
// never oversell or overdraw.
package marketplace
