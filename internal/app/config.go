package app

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/zeynale/menubot/core/config"
	coredatabase "github.com/zeynale/menubot/core/database"
	"github.com/zeynale/menubot/internal/admin"
	"github.com/zeynale/menubot/internal/dialog"
)

// DialogConfig selects the rendering strategy and the attachment source dir.
type DialogConfig struct {
	Variant    string `yaml:"variant" envconfig:"DIALOG_VARIANT"`
	UploadsDir string `yaml:"uploads_dir" envconfig:"DIALOG_UPLOADS_DIR"`
}

// Config is the full application configuration: the shared core sections plus
// database, dashboard, and dialog settings.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Admin    admin.Config        `yaml:"admin"`
	Dialog   DialogConfig        `yaml:"dialog"`
}

// CoreConfig exposes the embedded core section for the shared runtime.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// Load reads YAML from path, applies environment overrides, and validates.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return err
	}

	cfg.Admin.Normalize()

	switch cfg.Dialog.Variant {
	case "":
		cfg.Dialog.Variant = dialog.VariantTree
	case dialog.VariantTree, dialog.VariantFlat:
	default:
		return fmt.Errorf("invalid dialog.variant %q; allowed: %s, %s",
			cfg.Dialog.Variant, dialog.VariantTree, dialog.VariantFlat)
	}

	if cfg.Dialog.UploadsDir == "" {
		cfg.Dialog.UploadsDir = cfg.Admin.UploadsDir
	}
	return nil
}
