package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, RendererWeb, cfg.Renderer)
	require.Equal(t, 8080, cfg.Web.Port)
	require.Equal(t, 1024, cfg.Width)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, ":memory:", cfg.Store)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("MINIPLOT_RENDERER", "png")
	t.Setenv("MINIPLOT_WEB_PORT", "9000")
	t.Setenv("MINIPLOT_TELEGRAM_USERS", "10,20")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, RendererPNG, cfg.Renderer)
	require.Equal(t, 9000, cfg.Web.Port)
	require.Equal(t, []int64{10, 20}, cfg.Telegram.Users)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "miniplot.yaml")
	content := "renderer: text\nwidth: 640\ntext:\n  histograms: true\n  bins: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, RendererText, cfg.Renderer)
	require.Equal(t, 640, cfg.Width)
	require.True(t, cfg.Text.Histograms)
	require.Equal(t, 5, cfg.Text.Bins)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("MINIPLOT_RENDERER", "plotter")
	_, err := Load("")
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadLog_IgnoresRendererSettings(t *testing.T) {
	t.Setenv("MINIPLOT_RENDERER", "bogus")
	t.Setenv("MINIPLOT_WIDTH", "-1")
	t.Setenv("MINIPLOT_LOG_LEVEL", "debug")

	log, err := LoadLog("")
	require.NoError(t, err)
	require.Equal(t, "debug", log.Level)
	require.Equal(t, LogZerolog, log.Backend)

	t.Setenv("MINIPLOT_LOG_BACKEND", "syslog")
	_, err = LoadLog("")
	require.Error(t, err)
}
