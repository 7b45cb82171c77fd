package transfer

import "github.com/desertthunder/droplet/internal/shared"

const (
	DefaultPort        = 8080
	DefaultPortRetries = 20
	DefaultHost        = "0.0.0.0"
	DefaultAppName     = "droplet"
)

// Config holds the settings read at each start.
type Config struct {
	Host        string
	Port        int
	PortRetries int
	Debug       bool
	// Interface overrides the platform Wi-Fi interface used for the shareable address.
	Interface string
	AppName   string
	// RateLimit is requests per second per client; zero disables limiting.
	RateLimit float64
	RateBurst int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Host:        DefaultHost,
		Port:        DefaultPort,
		PortRetries: DefaultPortRetries,
		AppName:     DefaultAppName,
	}
}

// ConfigFrom maps the [server] section of the config file onto a Config.
func ConfigFrom(sc shared.ServerConfig) Config {
	cfg := Config{
		Host:        sc.Host,
		Port:        sc.Port,
		PortRetries: sc.PortRetries,
		Debug:       sc.Debug,
		Interface:   sc.Interface,
		AppName:     sc.AppName,
		RateLimit:   sc.RateLimit,
		RateBurst:   sc.RateBurst,
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}
	return cfg
}
