package ticketcode

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func TestIssueAndVerifyToken(t *testing.T) {
	now := time.Now()

	token := IssueToken(42, now, testSecret)
	userID, err := VerifyToken(token, now.Add(time.Hour), testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestIssueTokenUnique(t *testing.T) {
	now := time.Now()
	a := IssueToken(42, now, testSecret)
	b := IssueToken(42, now, testSecret)
	assert.NotEqual(t, a, b, "nonce must make tokens unique per issue")
}

func TestVerifyTokenFailures(t *testing.T) {
	now := time.Now()
	token := IssueToken(42, now, testSecret)

	tests := []struct {
		name  string
		token string
		at    time.Time
	}{
		{"expired", token, now.Add(TokenValidity + time.Minute)},
		{"issued in the future", token, now.Add(-time.Hour)},
		{"wrong secret", IssueToken(42, now, "other"), now},
		{"malformed", "not-a-token", now},
		{"empty", "", now},
		{"tampered signature", strings.Split(token, ".")[0] + ".deadbeef", now},
		{"tampered payload", "dGFtcGVyZWQ." + strings.Split(token, ".")[1], now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyToken(tt.token, tt.at, testSecret)
			assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
		})
	}
}

func TestVerifyTokenWithinWindow(t *testing.T) {
	now := time.Now()
	token := IssueToken(7, now, testSecret)

	// Still valid right up to the 24h boundary.
	userID, err := VerifyToken(token, now.Add(TokenValidity-time.Second), testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}
