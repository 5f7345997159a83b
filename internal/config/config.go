// Package config loads bookrec configuration from command-line flags,
// environment variables and an optional .env file.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Storage   StorageConfig
	Server    ServerConfig
	RateLimit RateLimitConfig
	Recommend RecommendConfig
	Covers    CoversConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig holds on-disk locations.
type StorageConfig struct {
	DataPath          string // base directory (default: ~/.bookrec)
	CatalogDBPath     string // SQLite catalog (default: {data}/catalog.db)
	CatalogImportPath string // optional CSV imported at startup when set
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	CORSAllowedOrigins []string
}

// RateLimitConfig holds inbound per-client rate limiting.
type RateLimitConfig struct {
	RPS   float64 // 0 disables limiting
	Burst int
}

// RecommendConfig holds result-size limits.
type RecommendConfig struct {
	DefaultTopN   int
	MaxTopN       int
	MaxCandidates int // title resolver suggestion cap
}

// CoversConfig holds cover lookup configuration.
type CoversConfig struct {
	Enabled        bool
	SearchURL      string
	ImageURL       string
	PlaceholderURL string
	Timeout        time.Duration
	RPS            float64
	CachePath      string // empty keeps the cache in memory
	FailureTTL     time.Duration
}

// LoadConfig loads configuration from os.Args with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load is LoadConfig over an explicit argument list.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("bookrec", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Base path for bookrec data")
	catalogDB := fs.String("catalog-db", "", "Path to the SQLite catalog database")
	catalogImport := fs.String("catalog-import", "", "CSV export to import at startup")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-allowed-origins", "", "Comma-separated CORS origins (default: *)")

	rateRPS := fs.String("rate-limit-rps", "", "Requests per second per client (default: 20, 0 disables)")
	rateBurst := fs.String("rate-limit-burst", "", "Burst per client (default: 40)")

	defaultTopN := fs.String("default-top-n", "", "Default number of recommendations (default: 10)")
	maxTopN := fs.String("max-top-n", "", "Maximum number of recommendations (default: 50)")
	maxCandidates := fs.String("max-candidates", "", "Title resolver candidate cap (default: 10)")

	coversEnabled := fs.String("covers-enabled", "", "Look up covers on Open Library (default: true)")
	coversCache := fs.String("covers-cache-path", "", "Badger directory for the cover cache (default: in-memory)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

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
		Storage: StorageConfig{
			DataPath:          getConfigValue(*dataPath, "DATA_PATH", ""),
			CatalogDBPath:     getConfigValue(*catalogDB, "CATALOG_DB_PATH", ""),
			CatalogImportPath: getConfigValue(*catalogImport, "CATALOG_IMPORT_PATH", ""),
		},
		Server: ServerConfig{
			Port:               getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSAllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "*")),
		},
		RateLimit: RateLimitConfig{
			Burst: getIntConfigValue(*rateBurst, "RATE_LIMIT_BURST", 40),
		},
		Recommend: RecommendConfig{
			DefaultTopN:   getIntConfigValue(*defaultTopN, "RECOMMEND_DEFAULT_TOP_N", 10),
			MaxTopN:       getIntConfigValue(*maxTopN, "RECOMMEND_MAX_TOP_N", 50),
			MaxCandidates: getIntConfigValue(*maxCandidates, "RESOLVER_MAX_CANDIDATES", 10),
		},
		Covers: CoversConfig{
			Enabled:        getBoolConfigValue(*coversEnabled, "COVERS_ENABLED", true),
			SearchURL:      getConfigValue("", "COVERS_SEARCH_URL", "https://openlibrary.org/search.json"),
			ImageURL:       getConfigValue("", "COVERS_IMAGE_URL", "https://covers.openlibrary.org/b/id/%d-M.jpg"),
			PlaceholderURL: getConfigValue("", "COVERS_PLACEHOLDER_URL", "https://via.placeholder.com/160x240.png?text=No+Cover"),
			CachePath:      getConfigValue(*coversCache, "COVERS_CACHE_PATH", ""),
		},
	}

	var err error
	if cfg.RateLimit.RPS, err = getFloatConfigValue(*rateRPS, "RATE_LIMIT_RPS", 20); err != nil {
		return nil, err
	}
	if cfg.Covers.RPS, err = getFloatConfigValue("", "COVERS_RPS", 1); err != nil {
		return nil, err
	}

	durations := []struct {
		flagValue string
		envKey    string
		def       string
		dst       *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{"", "COVERS_TIMEOUT", "5s", &cfg.Covers.Timeout},
		{"", "COVERS_FAILURE_TTL", "10m", &cfg.Covers.FailureTTL},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dst = parsed
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("invalid storage path: %w", err)
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

	if c.Storage.CatalogDBPath == "" {
		return errors.New("catalog database path cannot be empty after expansion")
	}

	if c.Recommend.DefaultTopN < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_TOP_N must be at least 1, got %d", c.Recommend.DefaultTopN)
	}
	if c.Recommend.MaxTopN < c.Recommend.DefaultTopN {
		return fmt.Errorf("RECOMMEND_MAX_TOP_N (%d) must not be below RECOMMEND_DEFAULT_TOP_N (%d)",
			c.Recommend.MaxTopN, c.Recommend.DefaultTopN)
	}
	if c.Recommend.MaxCandidates < 1 {
		return fmt.Errorf("RESOLVER_MAX_CANDIDATES must be at least 1, got %d", c.Recommend.MaxCandidates)
	}

	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS cannot be negative, got %g", c.RateLimit.RPS)
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled, got %d", c.RateLimit.Burst)
	}

	if c.Covers.Enabled {
		if c.Covers.RPS <= 0 {
			return fmt.Errorf("COVERS_RPS must be positive, got %g", c.Covers.RPS)
		}
		if !strings.Contains(c.Covers.ImageURL, "%d") {
			return fmt.Errorf("COVERS_IMAGE_URL must contain %%d for the cover id: %s", c.Covers.ImageURL)
		}
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

// expandPaths resolves the data directory and the paths derived from it.
// The cover cache path stays empty unless set, which selects in-memory mode.
func (c *Config) expandPaths() error {
	defaultData := ""
	if c.Storage.DataPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		defaultData = filepath.Join(homeDir, ".bookrec")
	}

	data, err := expandPath(c.Storage.DataPath, defaultData)
	if err != nil {
		return err
	}
	c.Storage.DataPath = data

	if c.Storage.CatalogDBPath, err = expandPath(c.Storage.CatalogDBPath, filepath.Join(data, "catalog.db")); err != nil {
		return err
	}
	if c.Storage.CatalogImportPath, err = expandPath(c.Storage.CatalogImportPath, ""); err != nil {
		return err
	}
	if c.Covers.CachePath, err = expandPath(c.Covers.CachePath, ""); err != nil {
		return err
	}
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
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) (float64, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return result, nil
}

func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
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

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Real environment variables win over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
