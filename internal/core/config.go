package core

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/drapaimern/lumina/pkg/models"
)

// DefaultModel is used for AI assist calls when .luminarc does not name one.
const DefaultModel = "claude-haiku-4-5"

// ConfigManager loads lumina configuration from the base path.
type ConfigManager interface {
	Load() (*models.Config, error)
}

// viperConfigManager implements ConfigManager by reading the .luminarc
// YAML file with Viper.
type viperConfigManager struct {
	basePath string
}

// NewConfigManager creates a ConfigManager that reads .luminarc from basePath.
func NewConfigManager(basePath string) ConfigManager {
	return &viperConfigManager{basePath: basePath}
}

// Load reads .luminarc from the base path. A missing file yields defaults;
// the ANTHROPIC_API_KEY environment variable always wins over the file.
func (cm *viperConfigManager) Load() (*models.Config, error) {
	cfg := &models.Config{Model: DefaultModel}

	v := viper.New()
	v.SetConfigName(".luminarc")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("ai.model", cfg.Model)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("theme.default", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading .luminarc: %w", err)
		}
	}

	cfg.Model = v.GetString("ai.model")
	cfg.APIKey = v.GetString("ai.api_key")
	cfg.DefaultTheme = v.GetString("theme.default")

	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	return cfg, nil
}
