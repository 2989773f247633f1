// Package core contains the business logic of pocket-todo: the parameterized
// task store, confirmation handling, the screen session that presenters drive,
// the calendar date picker and configuration loading.
package core

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

// ConfigurationManager loads and validates the .todoconfig file.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the root directory where .todoconfig resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// .todoconfig relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with defaults.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		Variant:        models.VariantRich,
		Locale:         LocaleEnglish,
		StorageDir:     "data",
		MinTitleLength: DefaultMinTitleLength,
		EventLog:       true,
		Log: models.LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// LoadGlobalConfig reads .todoconfig from the base path. If the file does not
// exist the defaults are returned. Environment variables prefixed with TODO_
// override file values (TODO_VARIANT, TODO_LOG_LEVEL, ...).
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(".todoconfig")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)
	v.SetEnvPrefix("todo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("variant", string(cfg.Variant))
	v.SetDefault("locale", cfg.Locale)
	v.SetDefault("storage.dir", cfg.StorageDir)
	v.SetDefault("rich.min_title_length", cfg.MinTitleLength)
	v.SetDefault("event_log", cfg.EventLog)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading .todoconfig: %w", err)
		}
	}

	cfg.Variant = models.Variant(v.GetString("variant"))
	cfg.Locale = v.GetString("locale")
	cfg.StorageDir = v.GetString("storage.dir")
	cfg.MinTitleLength = v.GetInt("rich.min_title_length")
	cfg.EventLog = v.GetBool("event_log")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	return cfg, nil
}

// ValidateConfig checks the configuration for invalid values and reports all
// problems at once.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if _, err := models.ParseVariant(string(cfg.Variant)); err != nil {
		errs = append(errs, err.Error())
	}
	if !IsKnownLocale(cfg.Locale) {
		errs = append(errs, fmt.Sprintf("locale %q is not supported, must be one of: %s",
			cfg.Locale, strings.Join(KnownLocales(), ", ")))
	}
	if cfg.MinTitleLength < 1 {
		errs = append(errs, fmt.Sprintf("rich.min_title_length must be at least 1, got %d", cfg.MinTitleLength))
	}
	if strings.TrimSpace(cfg.StorageDir) == "" {
		errs = append(errs, "storage.dir must not be empty")
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q is invalid, must be one of: debug, info, warn, error", cfg.Log.Level))
	}
	switch cfg.Log.Format {
	case "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q is invalid, must be one of: text, json, logfmt", cfg.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
