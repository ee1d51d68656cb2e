// Package config loads suite and stub API settings from the environment and
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the e2e suite settings.
type Config struct {
	BaseURL        string        `mapstructure:"BASE_URL"`
	APIURL         string        `mapstructure:"API_URL"`
	Email          string        `mapstructure:"EMAIL"`
	Password       string        `mapstructure:"PASSWORD"`
	Headless       bool          `mapstructure:"HEADLESS"`
	SlowMo         time.Duration `mapstructure:"SLOW_MO"`
	Timeout        time.Duration `mapstructure:"TIMEOUT"`
	Screenshots    bool          `mapstructure:"SCREENSHOTS"`
	Videos         bool          `mapstructure:"VIDEOS"`
	ArtifactsDir   string        `mapstructure:"ARTIFACTS_DIR"`
	LoginStateFile string        `mapstructure:"LOGIN_STATE_FILE"`
}

// StubConfig holds the settings of the stub Stocktake API.
type StubConfig struct {
	Addr         string        `mapstructure:"STUB_ADDR"`
	DBPath       string        `mapstructure:"DB_PATH"`
	JWTSecret    string        `mapstructure:"JWT_SECRET"`
	TokenTTL     time.Duration `mapstructure:"TOKEN_TTL"`
	SeedEmail    string        `mapstructure:"SEED_EMAIL"`
	SeedPassword string        `mapstructure:"SEED_PASSWORD"`
}

var suiteDefaults = map[string]any{
	"BASE_URL":         "http://127.0.0.1:8000",
	"API_URL":          "",
	"EMAIL":            "",
	"PASSWORD":         "",
	"HEADLESS":         true,
	"SLOW_MO":          time.Duration(0),
	"TIMEOUT":          5 * time.Second,
	"SCREENSHOTS":      true,
	"VIDEOS":           false,
	"ARTIFACTS_DIR":    "test_artifacts",
	"LOGIN_STATE_FILE": "login_state.json",
}

var stubDefaults = map[string]any{
	"STUB_ADDR":     ":8000",
	"DB_PATH":       "stocktake.db",
	"JWT_SECRET":    "",
	"TOKEN_TTL":     24 * time.Hour,
	"SEED_EMAIL":    "test_user@gmail.com",
	"SEED_PASSWORD": "Test600!",
}

// Load reads the suite settings. envFile may be empty or point to a missing
// file; variables already present in the environment win over the file.
func Load(envFile string) (*Config, error) {
	v, err := newViper(envFile, suiteDefaults)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.APIURL == "" {
		cfg.APIURL = cfg.BaseURL
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("invalid TIMEOUT %s: must be positive", cfg.Timeout)
	}
	return cfg, nil
}

// LoadStub reads the stub API settings.
func LoadStub(envFile string) (*StubConfig, error) {
	v, err := newViper(envFile, stubDefaults)
	if err != nil {
		return nil, err
	}

	cfg := &StubConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stub config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

// RequireCredentials returns an error naming every missing login key.
func (c *Config) RequireCredentials() error {
	var missing []string
	if c.Email == "" {
		missing = append(missing, "EMAIL")
	}
	if c.Password == "" {
		missing = append(missing, "PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing keys in environment or .env file: %s", strings.Join(missing, ", "))
	}
	return nil
}

// URL joins path onto the application base URL.
func (c *Config) URL(path string) string {
	if path == "" || strings.HasPrefix(path, "/") {
		return c.BaseURL + path
	}
	return c.BaseURL + "/" + path
}

func newViper(envFile string, defaults map[string]any) (*viper.Viper, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		}
	}

	v.AutomaticEnv()
	return v, nil
}
