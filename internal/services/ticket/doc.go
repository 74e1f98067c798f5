/*
Package ticket implements the ticket ledger: issuance after payment
confirmation, single-use scan validation, transfer bookkeeping and refunds.

The ledger's central guarantee is at-most-once admission: a ticket makes the
valid→used transition exactly once no matter how many scanners race on it.
The transition is a conditional single-row update in the repository; this
service layers the scan policy on top and reports repeat scans as
AlreadyScanned with the original scan timestamp instead of failing them.

Usage:

	svc := ticket.NewService(ticketRepo, notifier, ticket.Config{SigningSecret: secret})

	// Issue after the payment collaborator confirms
	tp, err := svc.Issue(ctx, ticket.IssueParams{...})

	// Gate scanner
	res, err := svc.Scan(ctx, "SGX-TIX-7-1")

Refunds flip ticket state only; the payment collaborator moves the money and
is notified through the RefundNotifier interface.
*/
package ticket
