package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "orders.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
orders:
  datasource: order_service
  poll_interval: 5
  workers_count: 2
datasources:
  order_service:
    kind: http
    url: http://localhost:8080/api/pedidos
    timeout: 10
prometheus:
  url: 127.0.0.1:9090
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.EqualValues(t, 5, cfg.Orders.PollInterval)
	require.Equal(t, 2, cfg.Orders.WorkersCount)

	ds, err := cfg.DataSource()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/api/pedidos", ds.URL)
	require.EqualValues(t, 10, ds.Timeout)

	require.NotNil(t, cfg.Prometheus)
	require.Equal(t, "127.0.0.1:9090", cfg.Prometheus.URL)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `
log_level: verbose
datasources:
  order_service:
    url: http://localhost:8080/api/pedidos
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestConfig_UnknownDataSource(t *testing.T) {
	cfg := Config{
		Orders: OrdersConfig{Datasource: "missing"},
	}
	_, err := cfg.DataSource()
	require.Error(t, err)
}
