// Package config loads lingoform settings from defaults, an optional config
// file, an optional .env file, the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/lingoform/internal/translator"
)

const EnvPrefix = "LINGOFORM"

type Config struct {
	Server struct {
		Addr            string        `mapstructure:"addr"`
		WasmDir         string        `mapstructure:"wasm_dir"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
		// DetectSource resolves "auto" locally for services that cannot.
		DetectSource bool `mapstructure:"detect_source"`
		// ValidateOutput logs translations that do not look like the target language.
		ValidateOutput bool `mapstructure:"validate_output"`
	} `mapstructure:"server"`

	Service        string                   `mapstructure:"service"`
	LibreTranslate translator.ServiceConfig `mapstructure:"libretranslate"`
	Google         translator.ServiceConfig `mapstructure:"google"`
	MyMemory       translator.ServiceConfig `mapstructure:"mymemory"`
	Systran        translator.ServiceConfig `mapstructure:"systran"`
	Ollama         translator.ServiceConfig `mapstructure:"ollama"`

	RateLimit struct {
		RPS   float64 `mapstructure:"rps"`
		Burst int     `mapstructure:"burst"`
	} `mapstructure:"rate_limit"`

	DBPath string `mapstructure:"db"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Client struct {
		Server  string        `mapstructure:"server"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"client"`
}

// ServiceConfig returns the settings of the selected upstream service.
func (c *Config) ServiceConfig() translator.ServiceConfig {
	switch c.Service {
	case "google":
		return c.Google
	case "mymemory":
		return c.MyMemory
	case "systran":
		return c.Systran
	case "ollama":
		return c.Ollama
	default:
		return c.LibreTranslate
	}
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.wasm_dir", "")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.detect_source", true)
	v.SetDefault("server.validate_output", false)

	v.SetDefault("service", "libretranslate")
	v.SetDefault("libretranslate.base_url", translator.DefaultLibreTranslateURL)
	v.SetDefault("libretranslate.api_key", "")
	v.SetDefault("libretranslate.timeout", 15*time.Second)
	v.SetDefault("google.credentials", "")
	v.SetDefault("google.api_key", "")
	v.SetDefault("google.project_id", "")
	v.SetDefault("mymemory.email", "")
	v.SetDefault("systran.api_key", "")
	v.SetDefault("systran.base_url", "")
	v.SetDefault("ollama.base_url", translator.DefaultOllamaURL)
	v.SetDefault("ollama.model", translator.DefaultOllamaModel)

	v.SetDefault("rate_limit.rps", 2.0)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("db", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("client.server", "http://localhost:8000")
	v.SetDefault("client.timeout", 30*time.Second)
}

// Load reads configuration into a validated Config. configFile may be empty.
// Flags must already be bound to v.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unprefixed names accepted for existing LibreTranslate deployments.
	if err := v.BindEnv("libretranslate.base_url", EnvPrefix+"_LIBRETRANSLATE_BASE_URL", "LIBRETRANSLATE_URL"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("libretranslate.api_key", EnvPrefix+"_LIBRETRANSLATE_API_KEY", "LIBRETRANSLATE_API_KEY"); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration invalid: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Service {
	case "libretranslate", "google", "mymemory", "systran", "ollama":
	default:
		errs = append(errs, fmt.Errorf("unknown service %q", c.Service))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("rate_limit.rps must not be negative"))
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("rate_limit.burst must be at least 1"))
	}
	if c.Service == "libretranslate" && c.LibreTranslate.BaseURL == "" {
		errs = append(errs, errors.New("libretranslate.base_url must not be empty"))
	}

	return errors.Join(errs...)
}

// LoadDotEnv exports the variables of a dotenv file that are not already
// set in the environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	dv := viper.New()
	dv.SetConfigFile(path)
	dv.SetConfigType("env")
	if err := dv.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	for _, key := range dv.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, dv.GetString(key)); err != nil {
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
	}

	return nil
}
