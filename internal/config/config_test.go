package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http", cfg.Delivery.Mode)
	assert.Equal(t, "01", cfg.Delivery.PaymentCondition)
	assert.Equal(t, "/webhooks/pos/order-completed", cfg.Webhook.Path)
	assert.Equal(t, "clocky.pos.integration", cfg.Delivery.RPCNamespace)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadRejectsBadDeliveryMode(t *testing.T) {
	path := writeConfig(t, "delivery:\n  mode: pigeon\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delivery.mode")
}

func TestLoadRejectsBadWebhookPath(t *testing.T) {
	path := writeConfig(t, "webhook:\n  path: no-slash\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook.path")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
