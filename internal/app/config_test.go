package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/zeynale/menubot/core/config"
	"github.com/zeynale/menubot/internal/dialog"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Core.Telegram.Token = "123:abc"
	return cfg
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Normalize(cfg))

	assert.Equal(t, coreconfig.RunModeLongpoll, cfg.Core.Telegram.RunMode)
	assert.Equal(t, dialog.VariantTree, cfg.Dialog.Variant)
	assert.Equal(t, ":8081", cfg.Admin.Listen)
	assert.Equal(t, "uploads", cfg.Admin.UploadsDir)
	// Renderer reads attachments from the same dir the dashboard writes to.
	assert.Equal(t, cfg.Admin.UploadsDir, cfg.Dialog.UploadsDir)
}

func TestNormalizeRequiresToken(t *testing.T) {
	assert.Error(t, Normalize(&Config{}))
}

func TestNormalizeRejectsUnknownVariant(t *testing.T) {
	cfg := validConfig()
	cfg.Dialog.Variant = "spiral"
	assert.Error(t, Normalize(cfg))
}

func TestNormalizeKeepsExplicitDialogDir(t *testing.T) {
	cfg := validConfig()
	cfg.Dialog.UploadsDir = "/srv/uploads"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, "/srv/uploads", cfg.Dialog.UploadsDir)
}
