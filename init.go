package miniplot

import (
	"os"

	"github.com/raykavin/miniplot/pkg/config"
	"github.com/raykavin/miniplot/pkg/core"
	"github.com/raykavin/miniplot/pkg/logger"
	"github.com/raykavin/miniplot/pkg/logger/logrus"
	"github.com/raykavin/miniplot/pkg/logger/zerolog"
	"github.com/raykavin/miniplot/pkg/render"
)

// DefaultLog is the logger used by charts created without WithLogger.
// It is configured from the MINIPLOT_LOG_* environment variables.
var DefaultLog logger.Logger

func init() {
	log, err := defaultLogger()
	if err != nil {
		panic(err)
	}

	DefaultLog = log
}

// defaultLogger reads only the log settings, so a bad renderer setting
// surfaces from Show instead of failing the import
func defaultLogger() (logger.Logger, error) {
	cfg, err := config.LoadLog("")
	if err != nil {
		return nil, err
	}
	return NewLogger(*cfg)
}

// NewLogger builds a logger for the configured backend
func NewLogger(cfg config.LogConfig) (logger.Logger, error) {
	if cfg.Backend == config.LogLogrus {
		level, err := logger.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		return logrus.New(os.Stdout, level, cfg.JSON), nil
	}

	return zerolog.New(zerolog.Config{
		Level:      cfg.Level,
		TimeFormat: cfg.TimeFormat,
		Colored:    cfg.Colored,
		JSON:       cfg.JSON,
	})
}

// DefaultRenderer builds the renderer used by Show when none was configured.
// The MINIPLOT_RENDERER environment variable selects it, the web viewer by default.
func DefaultRenderer() (core.Renderer, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	return render.New(cfg, DefaultLog)
}
