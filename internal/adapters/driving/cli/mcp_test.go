package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docproof/internal/adapters/driving/mcp"
)

func TestMCPToolsCmd_ListsDocproofTools(t *testing.T) {
	setupTestServices(t, Services{
		Verification: &mockVerification{},
		History:      &mockHistory{},
		Exporter:     &mockExporter{},
		Session:      &mockSession{},
	})

	out, err := execute(t, "mcp", "tools")

	require.NoError(t, err)
	for _, name := range []string{
		mcp.ToolFingerprint, mcp.ToolVerify, mcp.ToolHistory, mcp.ToolExporterInfo, mcp.ToolLedgerCounters,
	} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "keccak256 of the UTF-8 text")
}

func TestMCPToolsCmd_VerificationOnly(t *testing.T) {
	setupTestServices(t, Services{Verification: &mockVerification{}})

	out, err := execute(t, "mcp", "tools")

	require.NoError(t, err)
	assert.Contains(t, out, mcp.ToolVerify)
	assert.NotContains(t, out, mcp.ToolHistory)
	assert.NotContains(t, out, mcp.ToolLedgerCounters)
}

func TestMCPToolsCmd_NoServices(t *testing.T) {
	setupTestServices(t, Services{})

	_, err := execute(t, "mcp", "tools")

	assert.ErrorIs(t, err, mcp.ErrMissingVerificationService)
}

func TestMCPPorts_UsesInstalledServices(t *testing.T) {
	verification := &mockVerification{}
	history := &mockHistory{}
	setupTestServices(t, Services{Verification: verification, History: history})

	ports := mcpPorts()

	assert.Same(t, verification, ports.Verification)
	assert.Same(t, history, ports.History)
	assert.Nil(t, ports.Exporter)
}
