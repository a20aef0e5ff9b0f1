// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Catalog backends.
const (
	CatalogBackendFile   = "file"
	CatalogBackendSQLite = "sqlite"
)

// Cart backends.
const (
	CartBackendBadger = "badger"
	CartBackendRedis  = "redis"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Data     DataConfig
	Catalog  CatalogConfig
	Cart     CartConfig
	Server   ServerConfig
	Admin    AdminConfig
	Checkout CheckoutConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds the on-disk layout.
type DataConfig struct {
	BasePath string
}

// CatalogFile is the whole-document JSON file used by the file backend.
func (d DataConfig) CatalogFile() string { return filepath.Join(d.BasePath, "catalog.json") }

// CatalogDB is the SQLite database used by the sqlite backend.
func (d DataConfig) CatalogDB() string { return filepath.Join(d.BasePath, "catalog.db") }

// CartDir is the badger directory holding cart sessions.
func (d DataConfig) CartDir() string { return filepath.Join(d.BasePath, "carts") }

// CatalogConfig selects where the catalog document lives.
type CatalogConfig struct {
	Backend string // file | sqlite (default: file)
	Watch   bool   // Reload when the catalog file changes on disk (file backend only)
}

// CartConfig selects the cart session store.
type CartConfig struct {
	Backend  string        // badger | redis (default: badger)
	RedisURL string        // Required when Backend is redis
	TTL      time.Duration // Idle lifetime of a cart session (default: 720h)
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           string        // Server port (default: 8080)
	ReadTimeout    time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout   time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout    time.Duration // HTTP idle timeout (default: 60s)
	AllowedOrigins []string      // CORS origins (default: *)
}

// AdminConfig holds limits for the catalog management routes.
type AdminConfig struct {
	RateLimit float64 // Requests per second per client (default: 5)
	RateBurst int     // Burst size (default: 20)
}

// CheckoutConfig holds the order handoff settings.
type CheckoutConfig struct {
	WhatsAppNumber string // Destination in international format, digits only
	StoreName      string // Shown in the order header (default: PROBOOTS)
	Locale         string // BCP-47 tag used for price formatting (default: pt-BR)
	CurrencySymbol string // Default: R$
}

// LoadConfig loads configuration from os.Args with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load is LoadConfig with explicit arguments.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Base path for catalog and cart data")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	catalogBackend := fs.String("catalog-backend", "", "Catalog backend: file or sqlite (default: file)")
	catalogWatch := fs.String("catalog-watch", "", "Reload the catalog file on external changes (default: true)")

	cartBackend := fs.String("cart-backend", "", "Cart backend: badger or redis (default: badger)")
	redisURL := fs.String("redis-url", "", "Redis URL for the redis cart backend")
	cartTTL := fs.String("cart-ttl", "", "Idle lifetime of a cart (default: 720h)")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	allowedOrigins := fs.String("allowed-origins", "", "Comma-separated CORS origins (default: *)")

	adminRate := fs.String("admin-rate", "", "Admin requests per second per client (default: 5)")
	adminBurst := fs.String("admin-burst", "", "Admin request burst (default: 20)")

	whatsapp := fs.String("whatsapp-number", "", "WhatsApp number receiving orders")
	storeName := fs.String("store-name", "", "Store name in the order header (default: PROBOOTS)")
	locale := fs.String("locale", "", "Price locale (default: pt-BR)")
	currency := fs.String("currency-symbol", "", "Currency symbol (default: R$)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Catalog: CatalogConfig{
			Backend: strings.ToLower(getConfigValue(*catalogBackend, "CATALOG_BACKEND", CatalogBackendFile)),
			Watch:   getBoolConfigValue(*catalogWatch, "CATALOG_WATCH", true),
		},
		Cart: CartConfig{
			Backend:  strings.ToLower(getConfigValue(*cartBackend, "CART_BACKEND", CartBackendBadger)),
			RedisURL: getConfigValue(*redisURL, "REDIS_URL", ""),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getConfigValue(*allowedOrigins, "ALLOWED_ORIGINS", "*")),
		},
		Admin: AdminConfig{
			RateLimit: getFloatConfigValue(*adminRate, "ADMIN_RATE_LIMIT", 5),
			RateBurst: getIntConfigValue(*adminBurst, "ADMIN_RATE_BURST", 20),
		},
		Checkout: CheckoutConfig{
			WhatsAppNumber: getConfigValue(*whatsapp, "WHATSAPP_NUMBER", "5599985306285"),
			StoreName:      getConfigValue(*storeName, "STORE_NAME", "PROBOOTS"),
			Locale:         getConfigValue(*locale, "LOCALE", "pt-BR"),
			CurrencySymbol: getConfigValue(*currency, "CURRENCY_SYMBOL", "R$"),
		},
	}

	var err error
	if cfg.Cart.TTL, err = getDurationConfigValue(*cartTTL, "CART_TTL", "720h"); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	switch c.Catalog.Backend {
	case CatalogBackendFile, CatalogBackendSQLite:
	default:
		return fmt.Errorf("invalid catalog backend: %s (must be file or sqlite)", c.Catalog.Backend)
	}

	switch c.Cart.Backend {
	case CartBackendBadger:
	case CartBackendRedis:
		if c.Cart.RedisURL == "" {
			return errors.New("REDIS_URL is required when CART_BACKEND is redis")
		}
	default:
		return fmt.Errorf("invalid cart backend: %s (must be badger or redis)", c.Cart.Backend)
	}

	if c.Admin.RateLimit <= 0 || c.Admin.RateBurst <= 0 {
		return errors.New("admin rate limit and burst must be positive")
	}

	if n := len(c.Checkout.WhatsAppNumber); n < 10 || strings.Trim(c.Checkout.WhatsAppNumber, "0123456789") != "" {
		return fmt.Errorf("invalid whatsapp number: %q (digits only, country code included)", c.Checkout.WhatsAppNumber)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults to ~/ProBoots/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "ProBoots", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result float64
	if _, err := fmt.Sscanf(strValue, "%g", &result); err != nil {
		return defaultValue
	}
	return result
}

// getDurationConfigValue parses a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
