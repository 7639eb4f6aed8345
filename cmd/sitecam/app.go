package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sitecam/internal/annotations"
	"sitecam/internal/footage"
	"sitecam/internal/platform/config"
	"sitecam/internal/platform/logger"
	"sitecam/internal/platform/metrics"
	"sitecam/internal/sharing"
	"sitecam/internal/timeline"
)

// demoArtifactsPerDay is how many artifacts SEED_DEMO creates for each seeded day.
const demoArtifactsPerDay = 24

// app holds the wired services shared by every command.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	metrics   *metrics.Metrics
	store     annotations.Store
	clips     *footage.Service
	artifacts *annotations.Service
	shares    *sharing.Service
}

func loadApp() (*app, error) {
	_ = config.Load()

	cfg, err := config.Read()
	if err != nil {
		return nil, err
	}
	return newApp(cfg, logger.New(cfg.Log.Level, cfg.Log.Format))
}

func newApp(cfg *config.Config, log *slog.Logger) (*app, error) {
	store, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	catalog := footage.NewMockCatalog(cfg.Video.MaxGapsPerDay, nil)
	resolver := footage.NewResolver(catalog, cfg.Video.BaseURL, m)

	return &app{
		cfg:       cfg,
		log:       log,
		metrics:   m,
		store:     store,
		clips:     footage.NewService(catalog, resolver, cfg.Video.PlaylistWindow, log),
		artifacts: annotations.NewService(store, log, m),
		shares:    sharing.NewService(resolver, cfg.Share.TTL, log, m),
	}, nil
}

func openStore(cfg config.Store) (annotations.Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return annotations.NewMemoryStore(), nil
	case "sqlite":
		return annotations.OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want memory or sqlite)", cfg.Driver)
	}
}

func (a *app) Close() error {
	return a.store.Close()
}

// seedDemo fills yesterday and today with demo artifacts.
func (a *app) seedDemo(ctx context.Context, now time.Time) error {
	for _, day := range []time.Time{now.AddDate(0, 0, -1), now} {
		date := day.Format(timeline.DateLayout)
		clips, err := a.clips.ListClips(ctx, date)
		if err != nil {
			return err
		}
		if _, err := a.artifacts.Seed(ctx, clips, demoArtifactsPerDay, day.Unix()/86400); err != nil {
			return err
		}
	}
	return nil
}
