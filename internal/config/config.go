package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const Version = "0.1.0"

// InstallPath is the appliance install socket path.
const InstallPath = "/api/system/install"

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	ListenAddr     string        // LISTEN_ADDR, default ":8080"
	ApplianceURL   string        // APPLIANCE_URL, default "http://127.0.0.1:8000"
	InstallURL     string        // INSTALL_URL, default derived from ApplianceURL
	LayoutPath     string        // PANEL_LAYOUT, default empty (built-in layout)
	RequestTimeout time.Duration // REQUEST_TIMEOUT, default 0 (no timeout)
	HealthInterval time.Duration // HEALTH_INTERVAL, default 30s (0 disables)
	HealthProbe    string        // HEALTH_PROBE, default "/api/disks"
}

// Load reads configuration from environment variables.
// Supports _FILE suffix for values kept in files (e.g. APPLIANCE_URL_FILE).
func Load() (*Config, error) {
	c := &Config{
		ListenAddr:  envOrDefault("LISTEN_ADDR", ":8080"),
		LayoutPath:  os.Getenv("PANEL_LAYOUT"),
		HealthProbe: envOrDefault("HEALTH_PROBE", "/api/disks"),
	}

	appliance, err := envOrFile("APPLIANCE_URL")
	if err != nil {
		return nil, fmt.Errorf("APPLIANCE_URL: %w", err)
	}
	if appliance == "" {
		appliance = "http://127.0.0.1:8000"
	}
	c.ApplianceURL = strings.TrimRight(appliance, "/")

	c.InstallURL = os.Getenv("INSTALL_URL")
	if c.InstallURL == "" {
		c.InstallURL, err = InstallURLFor(c.ApplianceURL)
		if err != nil {
			return nil, fmt.Errorf("APPLIANCE_URL: %w", err)
		}
	}

	timeout := envOrDefault("REQUEST_TIMEOUT", "0s")
	c.RequestTimeout, err = time.ParseDuration(timeout)
	if err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}
	c.HealthInterval, err = time.ParseDuration(envOrDefault("HEALTH_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("HEALTH_INTERVAL: %w", err)
	}
	return c, nil
}

// InstallURLFor derives the install socket address from the appliance base
// URL: http becomes ws and https becomes wss.
func InstallURLFor(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + InstallPath
	return u.String(), nil
}

// Layout describes the panel page: navigation panels, the tables rendered
// into them and the system actions offered.
type Layout struct {
	Panels  []PanelConfig  `yaml:"panels"`
	Tables  []TableConfig  `yaml:"tables"`
	Actions []ActionConfig `yaml:"actions"`
}

type PanelConfig struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

type TableConfig struct {
	Target   string `yaml:"target"`
	Endpoint string `yaml:"endpoint"`
	Title    string `yaml:"title"`
}

type ActionConfig struct {
	Href  string `yaml:"href"`
	Label string `yaml:"label"`
	Data  string `yaml:"data"`
}

// DefaultLayout mirrors the stock appliance page.
func DefaultLayout() *Layout {
	return &Layout{
		Panels: []PanelConfig{
			{ID: "summary", Label: "Summary"},
			{ID: "disks", Label: "Disks"},
			{ID: "network", Label: "Network"},
			{ID: "system", Label: "System"},
		},
		Tables: []TableConfig{
			{Target: "#summary", Endpoint: "/api/disks", Title: "Block Devices"},
			{Target: "#summary", Endpoint: "/api/zpools", Title: "Zpools"},
		},
		Actions: []ActionConfig{
			{Href: "#reboot", Label: "Reboot", Data: "{}"},
			{Href: "#poweroff", Label: "Power Off", Data: "{}"},
		},
	}
}

// LoadLayout reads and parses a panel layout file. An empty path yields the
// default layout.
func LoadLayout(path string) (*Layout, error) {
	if path == "" {
		return DefaultLayout(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l *Layout) validate() error {
	if len(l.Panels) == 0 {
		return fmt.Errorf("layout: at least one panel is required")
	}
	ids := make(map[string]bool, len(l.Panels))
	for _, p := range l.Panels {
		if p.ID == "" {
			return fmt.Errorf("layout: panel id is required")
		}
		if ids[p.ID] {
			return fmt.Errorf("layout: duplicate panel %q", p.ID)
		}
		ids[p.ID] = true
	}
	for _, t := range l.Tables {
		if t.Endpoint == "" || t.Title == "" {
			return fmt.Errorf("layout: table needs endpoint and title")
		}
		if !strings.HasPrefix(t.Target, "#") || !ids[t.Target[1:]] {
			return fmt.Errorf("layout: table %q targets unknown panel %q", t.Title, t.Target)
		}
	}
	for _, a := range l.Actions {
		if !strings.HasPrefix(a.Href, "#") || len(a.Href) < 2 {
			return fmt.Errorf("layout: action href %q must be #command", a.Href)
		}
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrFile reads a value from env var KEY, or from a file at KEY_FILE.
func envOrFile(key string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	fileKey := key + "_FILE"
	if path := os.Getenv(fileKey); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", fileKey, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return "", nil
}
