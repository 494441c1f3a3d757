package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Use(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)

	names := make(map[string]bool)
	for _, cmd := range mcpCmd.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["serve"], "mcp serve should be registered")
}

func TestMCPServeCmd_PortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_Help(t *testing.T) {
	out, err := execute(t, "mcp", "serve", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "Model Context Protocol")
	assert.Contains(t, out, "Claude Desktop")
	assert.Contains(t, out, "--port")
}
