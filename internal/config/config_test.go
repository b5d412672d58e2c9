package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"LISTEN_ADDR", "APPLIANCE_URL", "APPLIANCE_URL_FILE", "INSTALL_URL", "PANEL_LAYOUT", "REQUEST_TIMEOUT", "HEALTH_INTERVAL", "HEALTH_PROBE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.ApplianceURL)
	assert.Equal(t, "ws://127.0.0.1:8000/api/system/install", cfg.InstallURL)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.HealthInterval)
	assert.Equal(t, "/api/disks", cfg.HealthProbe)
}

func TestLoad_FromEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "appliance")
	require.NoError(t, os.WriteFile(path, []byte("https://10.0.0.5:8443/\n"), 0600))

	t.Setenv("APPLIANCE_URL", "")
	t.Setenv("APPLIANCE_URL_FILE", path)
	t.Setenv("INSTALL_URL", "")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("HEALTH_INTERVAL", "0s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://10.0.0.5:8443", cfg.ApplianceURL)
	assert.Equal(t, "wss://10.0.0.5:8443/api/system/install", cfg.InstallURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Duration(0), cfg.HealthInterval)
}

func TestLoad_BadTimeout(t *testing.T) {
	t.Setenv("APPLIANCE_URL", "")
	t.Setenv("APPLIANCE_URL_FILE", "")
	t.Setenv("REQUEST_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestInstallURLFor(t *testing.T) {
	type test struct {
		base string
		want string
		err  bool
	}
	tests := map[string]test{
		"http":   {base: "http://192.168.99.119:8000", want: "ws://192.168.99.119:8000/api/system/install"},
		"https":  {base: "https://panel.local", want: "wss://panel.local/api/system/install"},
		"prefix": {base: "http://h/appliance/", want: "ws://h/appliance/api/system/install"},
		"ftp":    {base: "ftp://h", err: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := InstallURLFor(tt.base)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadLayout(t *testing.T) {
	l, err := LoadLayout("")
	require.NoError(t, err)
	assert.Len(t, l.Tables, 2)
	assert.Equal(t, "Block Devices", l.Tables[0].Title)

	dir := t.TempDir()
	path := filepath.Join(dir, "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
panels:
  - id: summary
    label: Summary
tables:
  - target: "#summary"
    endpoint: /api/zpools
    title: Pools
actions:
  - href: "#reboot"
    label: Reboot
    data: '{"delay": 15}'
`), 0600))

	l, err = LoadLayout(path)
	require.NoError(t, err)
	assert.Equal(t, "/api/zpools", l.Tables[0].Endpoint)
	assert.Equal(t, `{"delay": 15}`, l.Actions[0].Data)
}

func TestLoadLayout_Invalid(t *testing.T) {
	tests := map[string]string{
		"no-panels":      "tables: []\n",
		"duplicate":      "panels:\n  - id: a\n  - id: a\n",
		"unknown-target": "panels:\n  - id: a\ntables:\n  - target: '#b'\n    endpoint: /x\n    title: X\n",
		"bad-href":       "panels:\n  - id: a\nactions:\n  - href: reboot\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "layout.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0600))
			_, err := LoadLayout(path)
			assert.Error(t, err)
		})
	}
}
