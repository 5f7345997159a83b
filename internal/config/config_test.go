package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{DataPath: "/data", CatalogDBPath: "/data/catalog.db"},
		RateLimit: RateLimitConfig{
			RPS:   20,
			Burst: 40,
		},
		Recommend: RecommendConfig{DefaultTopN: 10, MaxTopN: 50, MaxCandidates: 10},
		Covers: CoversConfig{
			Enabled:  true,
			ImageURL: "https://covers.openlibrary.org/b/id/%d-M.jpg",
			RPS:      1,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Limits(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty catalog path", func(c *Config) { c.Storage.CatalogDBPath = "" }},
		{"zero default top_n", func(c *Config) { c.Recommend.DefaultTopN = 0 }},
		{"max below default", func(c *Config) { c.Recommend.MaxTopN = 5 }},
		{"zero candidates", func(c *Config) { c.Recommend.MaxCandidates = 0 }},
		{"negative rate", func(c *Config) { c.RateLimit.RPS = -1 }},
		{"rate without burst", func(c *Config) { c.RateLimit.Burst = 0 }},
		{"cover rps", func(c *Config) { c.Covers.RPS = 0 }},
		{"cover image url", func(c *Config) { c.Covers.ImageURL = "https://example.com/cover.jpg" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_DisabledFeaturesSkipChecks(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit = RateLimitConfig{}
	cfg.Covers = CoversConfig{Enabled: false}

	assert.NoError(t, cfg.Validate())
}

func TestLoad_DefaultsAndFlags(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load([]string{
		"-data-path", dir,
		"-env-file", filepath.Join(dir, "missing.env"),
		"-max-top-n", "25",
	})
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Storage.DataPath)
	assert.Equal(t, filepath.Join(dir, "catalog.db"), cfg.Storage.CatalogDBPath)
	assert.Empty(t, cfg.Covers.CachePath, "cover cache defaults to in-memory")
	assert.Equal(t, 10, cfg.Recommend.DefaultTopN)
	assert.Equal(t, 25, cfg.Recommend.MaxTopN)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RECOMMEND_DEFAULT_TOP_N", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("COVERS_FAILURE_TTL", "1m")

	cfg, err := Load([]string{"-data-path", dir, "-env-file", filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Recommend.DefaultTopN)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "1m0s", cfg.Covers.FailureTTL.String())
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SERVER_READ_TIMEOUT", "soon")

	_, err := Load([]string{"-data-path", dir, "-env-file", filepath.Join(dir, "missing.env")})
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/books", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "books"), got)

	got, err = expandPath("", "/fallback")
	require.NoError(t, err)
	assert.Equal(t, "/fallback", got)

	got, err = expandPath("/abs/../abs/path", "")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("TEST_ENV_KEY", "env-value")

	assert.Equal(t, "flag-value", getConfigValue("flag-value", "TEST_ENV_KEY", "default"))
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "TEST_MISSING_KEY", "default"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "# comment\n\nBOOKREC_TEST_A=alpha\nBOOKREC_TEST_B = \"quoted\"\nBOOKREC_TEST_KEEP=file\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	t.Setenv("BOOKREC_TEST_KEEP", "original")
	t.Setenv("BOOKREC_TEST_A", "")
	t.Setenv("BOOKREC_TEST_B", "")

	require.NoError(t, loadEnvFile(envFile))
	assert.Equal(t, "alpha", os.Getenv("BOOKREC_TEST_A"))
	assert.Equal(t, "quoted", os.Getenv("BOOKREC_TEST_B"))
	assert.Equal(t, "original", os.Getenv("BOOKREC_TEST_KEEP"))
}

func TestLoadEnvFile_Errors(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/file/.env"))

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("NOT_A_PAIR\n"), 0o600))
	assert.Error(t, loadEnvFile(envFile))
}
