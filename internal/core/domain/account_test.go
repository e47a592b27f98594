package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"checksummed address", "0x9DD2E2cFDFf249317Ef0F3c770E679FDCEee6FA0", false},
		{"lowercase address", "0x9dd2e2cfdff249317ef0f3c770e679fdceee6fa0", false},
		{"surrounding whitespace", "  0x9dd2e2cfdff249317ef0f3c770e679fdceee6fa0 ", false},
		{"missing prefix", "9dd2e2cfdff249317ef0f3c770e679fdceee6fa0aa", true},
		{"too short", "0x1234", true},
		{"not hex", "0xZZd2e2cfdff249317ef0f3c770e679fdceee6fa0", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct, err := ParseAccount(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.True(t, acct.IsZero())
				return
			}
			require.NoError(t, err)
			assert.False(t, acct.IsZero())
		})
	}
}

func TestAccount_Equal(t *testing.T) {
	a := Account("0x9DD2E2cFDFf249317Ef0F3c770E679FDCEee6FA0")
	b := Account("0x9dd2e2cfdff249317ef0f3c770e679fdceee6fa0")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Account("")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "0x9DD2E...CEee6FA0", Account("0x9DD2E2cFDFf249317Ef0F3c770E679FDCEee6FA0").Short())
	assert.Equal(t, "0x9DD2E...CEee6FA0", Truncate("0x9DD2E2cFDFf249317Ef0F3c770E679FDCEee6FA0"))
	assert.Equal(t, "short", Truncate("short"))
	assert.Equal(t, "", Truncate(""))
}
