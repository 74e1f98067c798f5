// Package checkin coordinates passport check-ins at events.
//
// A check-in is one row per (user, event), enforced by a composite unique
// index rather than a read-then-write check. The coordinator verifies the
// caller's proof of presence (access code, geolocation, or a scanned
// passport token), inserts the row, and only on the first insert awards
// the event's points and re-evaluates achievements. A duplicate insert is
// reported as AlreadyCheckedIn and awards nothing.
package checkin
