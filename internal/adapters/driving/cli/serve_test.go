package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Use(t *testing.T) {
	assert.Equal(t, "serve", serveCmd.Use)

	flag := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, flag)
	assert.Equal(t, ":8080", flag.DefValue)
}

func TestServeCmd_Help(t *testing.T) {
	out, err := execute(t, "serve", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "POST /api/search")
	assert.Contains(t, out, "POST /api/ask")
	assert.Contains(t, out, "GET  /api/documents")
	assert.Contains(t, out, "GET  /healthz")
}

func TestServeCmd_ServicesNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	queryService = nil

	_, err := execute(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api services not configured")
}
