// Package bootstrap arma el grafo de almacenamiento compartido por cmd/api y cmd/mirror-sync:
// Primary Store según STORE_DRIVER, Secondary Mirror si hay credenciales, y el facade hybrid.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/crm-sync/internal/domain/repository"
	"github.com/jhoicas/crm-sync/internal/infrastructure/hybrid"
	"github.com/jhoicas/crm-sync/internal/infrastructure/lock"
	"github.com/jhoicas/crm-sync/internal/infrastructure/memory"
	"github.com/jhoicas/crm-sync/internal/infrastructure/metrics"
	"github.com/jhoicas/crm-sync/internal/infrastructure/postgres"
	"github.com/jhoicas/crm-sync/internal/infrastructure/sheets"
	"github.com/jhoicas/crm-sync/internal/infrastructure/sqlite"
	"github.com/jhoicas/crm-sync/pkg/config"
)

// Options ajusta qué se construye.
type Options struct {
	// RequireMirror construye el cliente de Sheets aunque USE_GOOGLE_SHEETS sea false
	// (setup y backfill manuales). Las lecturas siguen saliendo del Primary Store.
	RequireMirror bool
}

// Storage resultado del arranque. Close libera conexiones en orden inverso.
type Storage struct {
	Repo    *hybrid.Repository
	Mirror  *sheets.Mirror // nil si no hay mirror
	Metrics *metrics.Metrics

	closers []func()
}

// Close libera pool, base embebida y cliente Redis.
func (s *Storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// Build construye Primary Store, mirror y facade. Ante error ya liberó lo abierto.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts Options) (_ *Storage, err error) {
	s := &Storage{Metrics: metrics.New(nil)}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	primary, err := s.openPrimary(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var mirror hybrid.Mirror
	if cfg.Sheets.Enabled || opts.RequireMirror {
		m, err := s.openMirror(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		s.Mirror = m
		mirror = m
	}

	repo, err := hybrid.New(primary, mirror, hybrid.Config{MirrorEnabled: cfg.Sheets.Enabled},
		hybrid.WithLogger(log.With().Str("component", "hybrid").Logger()),
		hybrid.WithMetrics(s.Metrics),
	)
	if err != nil {
		return nil, err
	}
	s.Repo = repo
	return s, nil
}

func (s *Storage) openPrimary(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.CRMRepository, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		if err := postgres.RunMigrations(pool); err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Store.Driver).Msg("Primary Store listo")
		return postgres.NewStore(pool), nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = db.Close() })
		if err := sqlite.RunMigrations(db); err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Store.Driver).Str("path", cfg.SQLite.Path).Msg("Primary Store listo")
		return sqlite.NewStore(db), nil

	case config.DriverMemory:
		log.Warn().Msg("Primary Store en memoria: los datos se pierden al reiniciar")
		return memory.NewStore(), nil
	}
	return nil, errors.New("STORE_DRIVER no soportado: " + cfg.Store.Driver)
}

func (s *Storage) openMirror(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*sheets.Mirror, error) {
	client, err := sheets.NewClient(ctx, cfg.Sheets)
	if err != nil {
		return nil, err
	}
	var locker lock.Locker = lock.NewKeyed()
	if cfg.Redis.URL != "" {
		rl, err := lock.NewRedisFromURL(cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = rl.Close() })
		locker = rl
		log.Info().Msg("lock distribuido de escrituras al mirror (Redis)")
	}
	return sheets.NewMirror(client,
		sheets.WithLocker(locker),
		sheets.WithMetrics(s.Metrics),
		sheets.WithLogger(log.With().Str("component", "sheets").Logger()),
	), nil
}
