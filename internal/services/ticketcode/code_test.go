package ticketcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatScanCode(t *testing.T) {
	assert.Equal(t, "SGX-TIX-7-1", FormatScanCode(7, 1))
	assert.Equal(t, "SGX-TIX-123456-987", FormatScanCode(123456, 987))
}

func TestParseScanCode(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		wantTicketID uint
		wantOrderID  uint
		wantErr      error
	}{
		{
			name:         "valid code",
			code:         "SGX-TIX-7-1",
			wantTicketID: 7,
			wantOrderID:  1,
		},
		{
			name:         "round trips through format",
			code:         FormatScanCode(42, 9001),
			wantTicketID: 42,
			wantOrderID:  9001,
		},
		{
			name:    "garbage",
			code:    "garbage",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "empty",
			code:    "",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "wrong prefix",
			code:    "AGX-TIX-7-1",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "wrong second literal",
			code:    "SGX-TIK-7-1",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "too many segments",
			code:    "SGX-TIX-7-1-extra",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "too few segments",
			code:    "SGX-TIX-7",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "non numeric ticket id",
			code:    "SGX-TIX-abc-1",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "non numeric order id",
			code:    "SGX-TIX-7-xyz",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "negative ticket id",
			code:    "SGX-TIX--7-1",
			wantErr: ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticketID, orderID, err := ParseScanCode(tt.code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantTicketID, ticketID)
			assert.Equal(t, tt.wantOrderID, orderID)
		})
	}
}

func TestSecurityHash(t *testing.T) {
	h1 := SecurityHash(7, 1, 100, "secret")
	h2 := SecurityHash(7, 1, 100, "secret")
	assert.Equal(t, h1, h2, "hash must be deterministic")

	assert.NotEqual(t, h1, SecurityHash(8, 1, 100, "secret"))
	assert.NotEqual(t, h1, SecurityHash(7, 1, 100, "other-secret"))
	assert.Len(t, h1, 64)
}
