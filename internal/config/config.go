package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultEnvFile        = ".env"
	defaultPort           = "8080"
	defaultReadTimeout    = 15 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second
	defaultBackendTimeout = 8 * time.Second
	defaultLoginPath      = "/user/login"
	defaultFallbackLocale = "vi"
	defaultCompareStore   = "cookie"
	defaultRedisKeyPrefix = "storefront:"
	defaultLogLevel       = "info"
)

var defaultForwardCookies = []string{"JSESSIONID"}
var defaultLocales = []string{"vi", "en"}

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Session   SessionConfig
	Compare   CompareConfig
	Catalog   CatalogConfig
	Analytics AnalyticsConfig
	Locale    LocaleConfig
	Log       LogConfig
	DevMode   bool
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Addr returns the listen address for the configured port.
func (s ServerConfig) Addr() string {
	return ":" + strings.TrimPrefix(s.Port, ":")
}

// BackendConfig points at the storefront REST API that owns carts, wishlists and vouchers.
// An empty BaseURL makes the shop client serve an in-process demo backend.
type BackendConfig struct {
	BaseURL        string
	Timeout        time.Duration
	ForwardCookies []string
	LoginPath      string
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	SigningKey string
	Secure     bool
}

// CompareConfig selects where the compare list is persisted.
type CompareConfig struct {
	Store     string
	RedisAddr string
	RedisDB   int
	KeyPrefix string
}

// CatalogConfig lists the products shown on the home and product pages.
// Empty means the demo catalogue when no backend is configured.
type CatalogConfig struct {
	Featured []string
}

// AnalyticsConfig holds client instrumentation settings rendered into the layout.
type AnalyticsConfig struct {
	GA4MeasurementID string
}

// LocaleConfig lists the supported languages.
type LocaleConfig struct {
	Fallback  string
	Supported []string
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	configFile   string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithConfigFile sets the YAML file consulted before environment variables.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) {
		o.configFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// fileConfig mirrors Config for the optional YAML file.
type fileConfig struct {
	Server struct {
		Port         string `yaml:"port"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
		IdleTimeout  string `yaml:"idle_timeout"`
	} `yaml:"server"`
	Backend struct {
		BaseURL        string   `yaml:"base_url"`
		Timeout        string   `yaml:"timeout"`
		ForwardCookies []string `yaml:"forward_cookies"`
		LoginPath      string   `yaml:"login_path"`
	} `yaml:"backend"`
	Compare struct {
		Store     string `yaml:"store"`
		RedisAddr string `yaml:"redis_addr"`
		RedisDB   int    `yaml:"redis_db"`
		KeyPrefix string `yaml:"key_prefix"`
	} `yaml:"compare"`
	Catalog struct {
		Featured []string `yaml:"featured"`
	} `yaml:"catalog"`
	Analytics struct {
		GA4MeasurementID string `yaml:"ga4_measurement_id"`
	} `yaml:"analytics"`
	Locale struct {
		Fallback  string   `yaml:"fallback"`
		Supported []string `yaml:"supported"`
	} `yaml:"locale"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load assembles the configuration from defaults, the optional YAML file, .env overrides
// and environment variables, in increasing order of precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	configFile := options.configFile
	if configFile == "" {
		configFile, _ = lookup("STOREFRONT_CONFIG_FILE")
	}
	file, err := loadFile(configFile)
	if err != nil {
		return Config{}, err
	}

	port := stringWithDefault(lookup, "STOREFRONT_PORT", firstNonEmpty(file.Server.Port, defaultPort))
	if p, ok := lookup("PORT"); ok && p != "" {
		if _, set := lookup("STOREFRONT_PORT"); !set {
			port = p
		}
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         port,
			ReadTimeout:  durationWithDefault(lookup, "STOREFRONT_READ_TIMEOUT", parseDuration(file.Server.ReadTimeout, defaultReadTimeout)),
			WriteTimeout: durationWithDefault(lookup, "STOREFRONT_WRITE_TIMEOUT", parseDuration(file.Server.WriteTimeout, defaultWriteTimeout)),
			IdleTimeout:  durationWithDefault(lookup, "STOREFRONT_IDLE_TIMEOUT", parseDuration(file.Server.IdleTimeout, defaultIdleTimeout)),
		},
		Backend: BackendConfig{
			BaseURL:        stringWithDefault(lookup, "STOREFRONT_BACKEND_URL", file.Backend.BaseURL),
			Timeout:        durationWithDefault(lookup, "STOREFRONT_BACKEND_TIMEOUT", parseDuration(file.Backend.Timeout, defaultBackendTimeout)),
			ForwardCookies: csvWithDefault(lookup, "STOREFRONT_BACKEND_FORWARD_COOKIES", firstNonEmptySlice(file.Backend.ForwardCookies, defaultForwardCookies)),
			LoginPath:      stringWithDefault(lookup, "STOREFRONT_LOGIN_PATH", firstNonEmpty(file.Backend.LoginPath, defaultLoginPath)),
		},
		Session: SessionConfig{
			SigningKey: stringWithDefault(lookup, "STOREFRONT_SESSION_SIGNING_KEY", ""),
			Secure:     strings.EqualFold(stringWithDefault(lookup, "STOREFRONT_ENV", ""), "prod"),
		},
		Compare: CompareConfig{
			Store:     strings.ToLower(stringWithDefault(lookup, "STOREFRONT_COMPARE_STORE", firstNonEmpty(file.Compare.Store, defaultCompareStore))),
			RedisAddr: stringWithDefault(lookup, "STOREFRONT_REDIS_ADDR", file.Compare.RedisAddr),
			RedisDB:   intWithDefault(lookup, "STOREFRONT_REDIS_DB", file.Compare.RedisDB),
			KeyPrefix: stringWithDefault(lookup, "STOREFRONT_REDIS_KEY_PREFIX", firstNonEmpty(file.Compare.KeyPrefix, defaultRedisKeyPrefix)),
		},
		Catalog: CatalogConfig{
			Featured: csvWithDefault(lookup, "STOREFRONT_FEATURED_PRODUCTS", file.Catalog.Featured),
		},
		Analytics: AnalyticsConfig{
			GA4MeasurementID: stringWithDefault(lookup, "STOREFRONT_GA_MEASUREMENT_ID", file.Analytics.GA4MeasurementID),
		},
		Locale: LocaleConfig{
			Fallback:  stringWithDefault(lookup, "STOREFRONT_LOCALE_FALLBACK", firstNonEmpty(file.Locale.Fallback, defaultFallbackLocale)),
			Supported: csvWithDefault(lookup, "STOREFRONT_LOCALES", firstNonEmptySlice(file.Locale.Supported, defaultLocales)),
		},
		Log: LogConfig{
			Level: stringWithDefault(lookup, "LOG_LEVEL", firstNonEmpty(file.Log.Level, defaultLogLevel)),
		},
		DevMode: boolWithDefault(lookup, "STOREFRONT_DEV", false),
	}
	cfg.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Backend.BaseURL), "/")

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if strings.TrimSpace(cfg.Server.Port) == "" {
		missing = append(missing, "Server.Port")
	}
	if cfg.Backend.Timeout <= 0 {
		missing = append(missing, "Backend.Timeout")
	}
	if !strings.HasPrefix(cfg.Backend.LoginPath, "/") {
		missing = append(missing, "Backend.LoginPath")
	}
	switch cfg.Compare.Store {
	case "cookie":
	case "redis":
		if strings.TrimSpace(cfg.Compare.RedisAddr) == "" {
			missing = append(missing, "Compare.RedisAddr")
		}
	default:
		missing = append(missing, "Compare.Store")
	}
	if cfg.Locale.Fallback == "" || !contains(cfg.Locale.Supported, cfg.Locale.Fallback) {
		missing = append(missing, "Locale.Fallback")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	return values, nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	path = strings.TrimSpace(path)
	if path == "" {
		return fc, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fc, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return fc, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string, fallback []string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		out := make([]string, len(fallback))
		copy(out, fallback)
		return out
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(raw)); err == nil && d > 0 {
		return d
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func firstNonEmptySlice(values ...[]string) []string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
