package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, "presence_agent.db", cfg.DatabaseDSN)
	assert.Equal(t, "freelance", cfg.CarrierClass)
	assert.Equal(t, 30*time.Second, cfg.SendInterval)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestParseJson_OverlaysValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_url": "https://presence.example.com",
		"send_interval": "45s",
		"carrier_class": "fleet"
	}`), 0o600))

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"agent", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "https://presence.example.com", cfg.ServerURL)
	assert.Equal(t, 45*time.Second, cfg.SendInterval)
	assert.Equal(t, "fleet", cfg.CarrierClass)
	// untouched fields keep defaults
	assert.Equal(t, "presence_agent.db", cfg.DatabaseDSN)
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"agent", "-a", "http://10.0.0.1:9090", "-i", "60", "-t", "tok", "-route", "route.json"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "http://10.0.0.1:9090", cfg.ServerURL)
	assert.Equal(t, 60*time.Second, cfg.SendInterval)
	assert.Equal(t, "tok", cfg.Token)
	assert.Equal(t, "route.json", cfg.RoutePath)
}

func TestParseFlags_IgnoresUnknownFlags(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"agent", "-a", "http://10.0.0.1:9090", "-unknown", "zzz"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "http://10.0.0.1:9090", cfg.ServerURL)
}
