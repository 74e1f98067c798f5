package ticketcode

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenValidity is the passport check-in token lifetime. Tokens are
// re-issued per user; storing a new one invalidates the previous one.
const TokenValidity = 24 * time.Hour

// IssueToken builds a signed passport check-in token for a user. The
// payload carries the user ID, issue time and a uuid nonce so two tokens
// for the same user never collide.
func IssueToken(userID uint, now time.Time, secret string) string {
	payload := fmt.Sprintf("%d:%d:%s", userID, now.Unix(), uuid.NewString())
	encoded := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return encoded + "." + signPayload(encoded, secret)
}

// VerifyToken checks the signature and validity window of a passport token
// and returns the user it was issued to. Forged, malformed and expired
// tokens all come back as ErrInvalidOrExpiredCode; the caller learns
// nothing about which check failed.
func VerifyToken(token string, now time.Time, secret string) (uint, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return 0, ErrInvalidOrExpiredCode
	}

	expected := signPayload(parts[0], secret)
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return 0, ErrInvalidOrExpiredCode
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return 0, ErrInvalidOrExpiredCode
	}
	fields := strings.Split(string(raw), ":")
	if len(fields) != 3 {
		return 0, ErrInvalidOrExpiredCode
	}

	userID, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return 0, ErrInvalidOrExpiredCode
	}
	issuedUnix, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, ErrInvalidOrExpiredCode
	}

	issuedAt := time.Unix(issuedUnix, 0)
	if now.Before(issuedAt) || now.Sub(issuedAt) > TokenValidity {
		return 0, ErrInvalidOrExpiredCode
	}

	return uint(userID), nil
}

func signPayload(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
