/*
Package credit implements the loyalty credit ledger.

The ledger is append-only: EARN and SPEND rows are never mutated or deleted,
and corrections are issued as offsetting rows. A user's balance is the sum
over their rows; the passport profile keeps a running total for fast reads,
maintained in the same transaction as every insert, but the ledger sum stays
the source of truth.

Spend refuses any row that would take the balance negative, enforced under a
per-user row lock in the repository, so the balance invariant holds under
arbitrary concurrency.
*/
package credit
