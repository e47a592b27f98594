package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// captureOutput redirects cmd's output for the duration of the test.
func captureOutput(t *testing.T, cmd *cobra.Command) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	t.Cleanup(func() { cmd.SetOut(nil) })
	return buf
}

func TestRootCmd_HasCommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{
		"hash", "upload", "delete", "verify", "history", "watch",
		"wallet", "connect", "disconnect", "status",
		"exporter", "admin", "config", "serve", "mcp", "tui", "version",
	} {
		assert.Contains(t, names, want)
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "precondition",
			err:  domain.Precondition(domain.ErrNotConnected),
			want: "Warning: no account connected",
		},
		{
			name: "validation",
			err:  domain.NewValidationError(domain.MethodAddExporter, "you need to provide %s", "address & information to add"),
			want: "Warning: ",
		},
		{
			name: "no wallet",
			err:  fmt.Errorf("connect: %w", domain.ErrNoWallet),
			want: "Error: no wallet detected. Create one with 'docproof wallet new'",
		},
		{
			name: "other",
			err:  errors.New("rpc down"),
			want: "Error: rpc down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, formatError(tt.err), tt.want)
		})
	}
}

func TestSetVersion(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	SetVersion("")
	assert.Equal(t, orig, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}
