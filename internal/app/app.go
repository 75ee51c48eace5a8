package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"geonotes/config"
	"geonotes/internal/adapter/in/cli"
	"geonotes/internal/adapter/out/geolocation"
	inmemorybus "geonotes/internal/adapter/out/pubsub/inmemory"
	memstore "geonotes/internal/adapter/out/storage/inmemory"
	"geonotes/internal/service"
	"geonotes/pkg/coords"
	"geonotes/pkg/logger"
)

type App struct {
	cfg    config.Config
	client *cli.Client
}

func NewApp(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) (*App, error) {
	log := logger.FromContext(ctx)

	locator, err := newLocator(cfg.Geo, log)
	if err != nil {
		return nil, fmt.Errorf("geolocation: %w", err)
	}

	postStorage := memstore.NewPostStorage()
	bus := inmemorybus.New(cfg.BusBuffer)
	postSvc := service.NewPostService(postStorage, bus)

	client := cli.NewClient(postSvc, locator, in, out, cfg.PageSize)

	log.Info("app initialized",
		"geo_source", cfg.Geo.Source,
		"geo_timeout", cfg.Geo.Timeout,
		"geo_maximum_age", cfg.Geo.MaximumAge,
	)
	return &App{cfg: cfg, client: client}, nil
}

func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	err := a.client.Run(ctx)
	if ctx.Err() != nil {
		log.Info("shutdown requested")
	}
	return err
}

func newLocator(cfg config.GeoConfig, log *slog.Logger) (*geolocation.Cached, error) {
	var base geolocation.Locator

	switch cfg.Source {
	case config.GeoSourceStatic:
		pos, err := coords.Parse(cfg.StaticPosition)
		if err != nil {
			return nil, fmt.Errorf("static position %q: %w", cfg.StaticPosition, err)
		}
		base = geolocation.Static{Position: pos}

	case config.GeoSourceSerial:
		base = geolocation.NewSerial(geolocation.SerialConfig{
			Port:     cfg.SerialPort,
			BaudRate: cfg.SerialBaud,
			Logger:   log,
		})

	default:
		base = geolocation.Unavailable{}
	}

	return geolocation.NewCached(base, cfg.Timeout, cfg.MaximumAge), nil
}
