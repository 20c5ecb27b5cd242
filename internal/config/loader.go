package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/shelfscan/expiryocr/internal/photometric"
)

const (
	// ConfigFileName is the base name for configuration files.
	ConfigFileName = "expiryocr"

	// EnvPrefix is the prefix for environment variables, e.g.
	// EXPIRYOCR_LOG_LEVEL.
	EnvPrefix = "EXPIRYOCR"
)

// Scalar-valued keys that configuration sources have historically supplied
// as multi-channel lists. They are coerced before unmarshaling.
var scalarKeys = []string{
	"pipeline.photometric_normalizer.target_brightness",
	"pipeline.photometric_normalizer.clahe_clip_limit",
}

// Loader loads configuration from files and environment variables.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader on the global viper instance so cobra flag
// bindings stay in effect.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// Load reads configuration from the search paths and environment, applies
// defaults, and validates. A missing config file is not an error.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironment()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return l.unmarshal()
}

// LoadWithFile reads configuration from an explicit file path.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}
	l.v.SetConfigFile(configFile)
	l.setupEnvironment()
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", configFile, err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	if err := l.coerceScalars(); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// coerceScalars narrows structured values on scalar keys. A target
// brightness configured as an RGB triple becomes its channel mean here, once
// at load time, instead of failing deep inside a transform.
func (l *Loader) coerceScalars() error {
	for _, key := range scalarKeys {
		raw := l.v.Get(key)
		if raw == nil {
			continue
		}
		if _, ok := raw.(string); ok {
			// Environment values arrive as strings; viper converts those.
			continue
		}
		scalar, err := photometric.CoerceScalar(raw)
		if err != nil {
			return fmt.Errorf("config key %s: %w", key, err)
		}
		l.v.Set(key, scalar)
	}
	return nil
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "expiryocr"))
	}
	l.v.AddConfigPath("/etc/expiryocr")
}

func (l *Loader) setupEnvironment() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
}
