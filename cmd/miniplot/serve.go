package main

import (
	"context"
	"fmt"

	"github.com/raykavin/miniplot/pkg/render/raster"
	"github.com/raykavin/miniplot/pkg/render/telegram"
	"github.com/raykavin/miniplot/pkg/render/web"
	"github.com/raykavin/miniplot/pkg/storage"
	"github.com/spf13/cobra"
	"github.com/xhit/go-str2duration/v2"
)

// serveFlags holds the flags of the serve command
type serveFlags struct {
	store    string
	port     int
	duration string
	debug    bool
}

func buildServeCmd() *cobra.Command {
	flags := &serveFlags{}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the charts kept in a store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}

	serveCmd.Flags().StringVarP(&flags.store, "store", "s", "", "Chart store: file path, sqlite:<path> or :memory:")
	serveCmd.Flags().IntVarP(&flags.port, "port", "p", 0, "HTTP port (default from config, 8080)")
	serveCmd.Flags().StringVar(&flags.duration, "for", "", "Stop after this long (e.g. 30m, 2h, 1d)")
	serveCmd.Flags().BoolVar(&flags.debug, "debug", false, "Serve unminified scripts")

	return serveCmd
}

func runServe(cmd *cobra.Command, flags *serveFlags) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	if flags.store != "" {
		cfg.Store = flags.store
	}
	if cmd.Flags().Changed("port") {
		cfg.Web.Port = flags.port
	}

	ctx := cmd.Context()
	if flags.duration != "" {
		duration, err := str2duration.ParseDuration(flags.duration)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", flags.duration, err)
		}

		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	store, err := storage.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	rasterizer := raster.New(raster.WithSize(cfg.Width, cfg.Height), raster.WithLogger(log))

	options := []web.Option{
		web.WithPort(cfg.Web.Port),
		web.WithStore(store),
		web.WithRaster(rasterizer),
		web.WithLogger(log),
	}
	if flags.debug || cfg.Web.Debug {
		options = append(options, web.WithDebug())
	}

	server, err := web.NewServer(options...)
	if err != nil {
		return err
	}

	if cfg.Telegram.Token != "" {
		bot, err := telegram.New(cfg.Telegram.Token, cfg.Telegram.Users,
			telegram.WithStore(store),
			telegram.WithRaster(rasterizer),
			telegram.WithLogger(log),
		)
		if err != nil {
			return err
		}
		go bot.Start(ctx)
	}

	return server.Serve(ctx)
}
