package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("MESHCOMPARE_SERVER_PORT")
		os.Unsetenv("MESHCOMPARE_SERVER_ENVIRONMENT")
		os.Unsetenv("MESHCOMPARE_EXTRACTION_PROVIDER")
		os.Unsetenv("MESHCOMPARE_EXTRACTION_API_KEY")
		os.Unsetenv("MESHCOMPARE_EXTRACTION_TIMEOUT")
		os.Unsetenv("MESHCOMPARE_CATALOG_ORPHAN_POLICY")
		os.Unsetenv("MESHCOMPARE_RATELIMIT_PER_IP")
		os.Unsetenv("MESHCOMPARE_LOG_LEVEL")
	}

	// Run from an empty directory so no config.yaml or .env is picked up
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)
	os.Chdir(t.TempDir())

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Server.MaxUploadMB != 20 {
			t.Errorf("Server.MaxUploadMB = %d, want 20", cfg.Server.MaxUploadMB)
		}
		if cfg.Extraction.Provider != "none" {
			t.Errorf("Extraction.Provider = %s, want none", cfg.Extraction.Provider)
		}
		if cfg.Extraction.Timeout != 60*time.Second {
			t.Errorf("Extraction.Timeout = %v, want 60s", cfg.Extraction.Timeout)
		}
		if cfg.Catalog.OrphanPolicy != "retain" {
			t.Errorf("Catalog.OrphanPolicy = %s, want retain", cfg.Catalog.OrphanPolicy)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		os.Setenv("MESHCOMPARE_SERVER_PORT", "9090")
		os.Setenv("MESHCOMPARE_SERVER_ENVIRONMENT", "production")
		os.Setenv("MESHCOMPARE_EXTRACTION_PROVIDER", "gemini")
		os.Setenv("MESHCOMPARE_EXTRACTION_API_KEY", "test-key")
		os.Setenv("MESHCOMPARE_EXTRACTION_TIMEOUT", "90s")
		os.Setenv("MESHCOMPARE_CATALOG_ORPHAN_POLICY", "cascade")
		os.Setenv("MESHCOMPARE_RATELIMIT_PER_IP", "30")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Extraction.Provider != "gemini" {
			t.Errorf("Extraction.Provider = %s, want gemini", cfg.Extraction.Provider)
		}
		if cfg.Extraction.APIKey != "test-key" {
			t.Errorf("Extraction.APIKey = %s, want test-key", cfg.Extraction.APIKey)
		}
		if cfg.Extraction.Timeout != 90*time.Second {
			t.Errorf("Extraction.Timeout = %v, want 90s", cfg.Extraction.Timeout)
		}
		if cfg.Catalog.OrphanPolicy != "cascade" {
			t.Errorf("Catalog.OrphanPolicy = %s, want cascade", cfg.Catalog.OrphanPolicy)
		}
		if cfg.RateLimit.PerIP != 30 {
			t.Errorf("RateLimit.PerIP = %d, want 30", cfg.RateLimit.PerIP)
		}
	})

	t.Run("fails for gemini provider without API key", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		os.Setenv("MESHCOMPARE_EXTRACTION_PROVIDER", "gemini")

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing API key")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	writeEnv := func(t *testing.T, content string) {
		t.Helper()
		wd, err := os.Getwd()
		if err != nil {
			t.Fatalf("getwd: %v", err)
		}
		if err := os.Chdir(t.TempDir()); err != nil {
			t.Fatalf("chdir: %v", err)
		}
		t.Cleanup(func() { _ = os.Chdir(wd) })
		if content == "" {
			return
		}
		if err := os.WriteFile(".env", []byte(content), 0o644); err != nil {
			t.Fatalf("write .env: %v", err)
		}
	}

	t.Run("missing file is not an error", func(t *testing.T) {
		writeEnv(t, "")
		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil", err)
		}
	})

	t.Run("loads extraction settings", func(t *testing.T) {
		writeEnv(t, `
# extraction provider
MESHCOMPARE_EXTRACTION_PROVIDER=gemini
export MESHCOMPARE_EXTRACTION_API_KEY="key from file"
MESHCOMPARE_EXTRACTION_MODEL='gemini-2.5-pro'
`)
		t.Setenv("MESHCOMPARE_EXTRACTION_PROVIDER", "")
		t.Setenv("MESHCOMPARE_EXTRACTION_API_KEY", "")
		t.Setenv("MESHCOMPARE_EXTRACTION_MODEL", "")
		os.Unsetenv("MESHCOMPARE_EXTRACTION_PROVIDER")
		os.Unsetenv("MESHCOMPARE_EXTRACTION_API_KEY")
		os.Unsetenv("MESHCOMPARE_EXTRACTION_MODEL")

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v", err)
		}

		want := map[string]string{
			"MESHCOMPARE_EXTRACTION_PROVIDER": "gemini",
			"MESHCOMPARE_EXTRACTION_API_KEY":  "key from file",
			"MESHCOMPARE_EXTRACTION_MODEL":    "gemini-2.5-pro",
		}
		for key, value := range want {
			if got := os.Getenv(key); got != value {
				t.Errorf("%s = %q, want %q", key, got, value)
			}
		}
	})

	t.Run("process environment wins over the file", func(t *testing.T) {
		writeEnv(t, "MESHCOMPARE_CATALOG_ORPHAN_POLICY=cascade\n")
		t.Setenv("MESHCOMPARE_CATALOG_ORPHAN_POLICY", "block")

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v", err)
		}
		if got := os.Getenv("MESHCOMPARE_CATALOG_ORPHAN_POLICY"); got != "block" {
			t.Errorf("MESHCOMPARE_CATALOG_ORPHAN_POLICY = %q, want block", got)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Catalog.OrphanPolicy != "block" {
			t.Errorf("Catalog.OrphanPolicy = %q, want block", cfg.Catalog.OrphanPolicy)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:     ServerConfig{MaxUploadMB: 20},
			Extraction: ExtractionConfig{Provider: "none", Timeout: 60 * time.Second},
			Catalog:    CatalogConfig{OrphanPolicy: "retain"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "gemini with key", mutate: func(c *Config) {
			c.Extraction.Provider = "gemini"
			c.Extraction.APIKey = "k"
		}},
		{name: "gemini without key", mutate: func(c *Config) { c.Extraction.Provider = "gemini" }, wantErr: true},
		{name: "unknown provider", mutate: func(c *Config) { c.Extraction.Provider = "openai" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Extraction.Timeout = 0 }, wantErr: true},
		{name: "block orphan policy", mutate: func(c *Config) { c.Catalog.OrphanPolicy = "block" }},
		{name: "unknown orphan policy", mutate: func(c *Config) { c.Catalog.OrphanPolicy = "archive" }, wantErr: true},
		{name: "negative upload size", mutate: func(c *Config) { c.Server.MaxUploadMB = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
