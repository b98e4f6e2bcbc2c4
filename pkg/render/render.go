// Package render builds the renderer selected by the configuration.
package render

import (
	"fmt"

	"github.com/raykavin/miniplot/pkg/config"
	"github.com/raykavin/miniplot/pkg/core"
	"github.com/raykavin/miniplot/pkg/logger"
	"github.com/raykavin/miniplot/pkg/render/echarts"
	"github.com/raykavin/miniplot/pkg/render/raster"
	"github.com/raykavin/miniplot/pkg/render/telegram"
	"github.com/raykavin/miniplot/pkg/render/text"
	"github.com/raykavin/miniplot/pkg/render/web"
	"github.com/raykavin/miniplot/pkg/storage"
)

// New returns the renderer named by cfg.Renderer
func New(cfg *config.Config, log logger.Logger) (core.Renderer, error) {
	if log == nil {
		log = logger.Nop()
	}

	rasterizer := raster.New(
		raster.WithSize(cfg.Width, cfg.Height),
		raster.WithOutput(cfg.Output),
		raster.WithLogger(log),
	)

	switch cfg.Renderer {
	case config.RendererPNG:
		return rasterizer, nil

	case config.RendererHTML:
		return echarts.New(
			echarts.WithWidth(cfg.Width),
			echarts.WithOutput(cfg.Output),
			echarts.WithLogger(log),
		), nil

	case config.RendererText:
		options := []text.Option{text.WithLogger(log)}
		if cfg.Text.Histograms {
			options = append(options, text.WithHistograms(cfg.Text.Bins))
		}
		return text.New(options...), nil

	case config.RendererTelegram:
		bot, err := telegram.New(cfg.Telegram.Token, cfg.Telegram.Users,
			telegram.WithRaster(rasterizer),
			telegram.WithLogger(log),
		)
		if err != nil {
			return nil, err
		}
		return bot, nil

	case config.RendererWeb:
		store, err := storage.Open(cfg.Store)
		if err != nil {
			return nil, err
		}

		options := []web.Option{
			web.WithPort(cfg.Web.Port),
			web.WithOwnedStore(store),
			web.WithRaster(rasterizer),
			web.WithLogger(log),
		}
		if cfg.Web.Debug {
			options = append(options, web.WithDebug())
		}
		server, err := web.NewServer(options...)
		if err != nil {
			store.Close()
			return nil, err
		}
		return server, nil
	}

	return nil, fmt.Errorf("unknown renderer %q", cfg.Renderer)
}
