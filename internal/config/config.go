package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is prepended to every environment variable, e.g. HERROUTE_PORT.
const envPrefix = "HERROUTE"

// Streets sources.
const (
	StreetsSourceHTTP     = "http"
	StreetsSourcePostgres = "postgres"
)

// Config holds the configuration settings for the HerRoute service.
//
// Fields:
// - Env: The current environment (local, development, production).
// - Port: The port of the public HTTP server.
// - MonitoringPort: The port of the /healthz and /metrics server.
// - ProviderType: The geocoding provider to use (nominatim, google).
// - ProviderKey: The API key of the geocoding provider (required for Google).
// - MapsAPIKey: The Google Maps JavaScript API key used by the page.
// - UserAgent: The User-Agent sent to Nominatim.
// - Streets: Where street scores come from and how often they are refreshed.
// - FetchTimeout: Timeout of every outbound HTTP request.
// - SessionTTL: How long an idle browser session is kept.
// - Database: Configuration settings for the PostgreSQL street source.
type Config struct {
	Env            string         `yaml:"env"`
	Port           int            `yaml:"port"`
	MonitoringPort int            `yaml:"monitoring.port"`
	ProviderType   string         `yaml:"provider.type"`
	ProviderKey    string         `yaml:"provider.key"`
	MapsAPIKey     string         `yaml:"maps.api_key"`
	UserAgent      string         `yaml:"user_agent"`
	Streets        StreetsConfig  `yaml:"streets"`
	FetchTimeout   time.Duration  `yaml:"fetch.timeout"`
	SessionTTL     time.Duration  `yaml:"session.ttl"`
	Database       PostgresConfig `yaml:"db"`
}

// StreetsConfig selects the street data source.
type StreetsConfig struct {
	Source  string        `yaml:"source"`  // Source is http or postgres.
	URL     string        `yaml:"url"`     // URL is the scoring backend base URL.
	Refresh time.Duration `yaml:"refresh"` // Refresh is the reload interval, zero loads once.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"username"` // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Name     string `yaml:"name"`     // Name is the name of the database.
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("port", "8080")
	v.SetDefault("monitoring.port", "9090")
	v.SetDefault("provider.type", "nominatim")
	v.SetDefault("provider.key", "")
	v.SetDefault("maps.api_key", "")
	v.SetDefault("user_agent", "")
	v.SetDefault("streets.source", StreetsSourceHTTP)
	v.SetDefault("streets.url", "http://localhost:8081")
	v.SetDefault("streets.refresh", "0s")
	v.SetDefault("fetch.timeout", "10s")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "")
}

// MustLoad reads .env (if present), the optional YAML file at path and the
// HERROUTE_* environment, in increasing order of precedence. It panics on any
// value it cannot parse.
func MustLoad(path string) *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	port, err := strconv.Atoi(v.GetString("port"))
	if err != nil {
		panic("failed to parse port for http server from configuration")
	}

	monitoringPort, err := strconv.Atoi(v.GetString("monitoring.port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	refresh, err := time.ParseDuration(v.GetString("streets.refresh"))
	if err != nil {
		panic("failed to parse streets refresh interval from configuration")
	}

	timeout, err := time.ParseDuration(v.GetString("fetch.timeout"))
	if err != nil {
		panic("failed to parse fetch timeout from configuration")
	}

	ttl, err := time.ParseDuration(v.GetString("session.ttl"))
	if err != nil {
		panic("failed to parse session ttl from configuration")
	}

	source := v.GetString("streets.source")
	if source != StreetsSourceHTTP && source != StreetsSourcePostgres {
		panic("failed to parse streets source from configuration, must be http or postgres")
	}

	return &Config{
		Env:            v.GetString("env"),
		Port:           port,
		MonitoringPort: monitoringPort,
		ProviderType:   v.GetString("provider.type"),
		ProviderKey:    v.GetString("provider.key"),
		MapsAPIKey:     v.GetString("maps.api_key"),
		UserAgent:      v.GetString("user_agent"),
		Streets: StreetsConfig{
			Source:  source,
			URL:     v.GetString("streets.url"),
			Refresh: refresh,
		},
		FetchTimeout: timeout,
		SessionTTL:   ttl,
		Database: PostgresConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			User:     v.GetString("db.username"),
			Password: v.GetString("db.password"),
			Name:     v.GetString("db.name"),
		},
	}
}
