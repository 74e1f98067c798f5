// Package ticketcode produces and parses the two code formats the engine
// accepts: the human-enterable ticket scan code and the signed passport
// check-in token. Everything here is a pure function; no state, no storage.
package ticketcode

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Scan code literal segments. The wire format is fixed for scanner
// compatibility: exactly four dash-delimited segments, first two literal.
const (
	ScanCodePrefix = "SGX"
	ScanCodeSuffix = "TIX"
)

// FormatScanCode renders the canonical scan code for a ticket:
// SGX-TIX-<ticketId>-<orderId>.
func FormatScanCode(ticketID, orderID uint) string {
	return fmt.Sprintf("%s-%s-%d-%d", ScanCodePrefix, ScanCodeSuffix, ticketID, orderID)
}

// ParseScanCode extracts the ticket and order IDs from a scan code. Any
// deviation from the exact four-segment format is ErrInvalidFormat; the
// caller must not touch any ticket row before this succeeds.
func ParseScanCode(code string) (ticketID, orderID uint, err error) {
	parts := strings.Split(code, "-")
	if len(parts) != 4 {
		return 0, 0, ErrInvalidFormat
	}
	if parts[0] != ScanCodePrefix || parts[1] != ScanCodeSuffix {
		return 0, 0, ErrInvalidFormat
	}

	tid, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil || parts[2] == "" {
		return 0, 0, ErrInvalidFormat
	}
	oid, err := strconv.ParseUint(parts[3], 10, 32)
	if err != nil || parts[3] == "" {
		return 0, 0, ErrInvalidFormat
	}

	return uint(tid), uint(oid), nil
}

// SecurityHash computes the per-ticket integrity hash stored alongside the
// QR payload, keyed by the server secret.
func SecurityHash(ticketID, orderID, userID uint, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d|%d|%d", ticketID, orderID, userID)
	return hex.EncodeToString(mac.Sum(nil))
}
