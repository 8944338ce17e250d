// Command mirror-sync prepara la hoja de cálculo y reescribe el mirror desde el Primary Store.
//
// Uso:
//
//	mirror-sync -setup            crea las hojas que falten (Leads, Manufacturers, Orders, Tasks)
//	mirror-sync -backfill         copia cada registro del Primary Store al mirror (update o append)
//	mirror-sync -setup -backfill  ambos, en ese orden
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/crm-sync/internal/bootstrap"
	"github.com/jhoicas/crm-sync/pkg/config"
	"github.com/jhoicas/crm-sync/pkg/logger"
)

func main() {
	setup := flag.Bool("setup", false, "crear las hojas faltantes en el spreadsheet")
	backfill := flag.Bool("backfill", false, "reescribir el mirror desde el Primary Store")
	timeout := flag.Duration("timeout", 10*time.Minute, "tiempo máximo de ejecución")
	flag.Parse()

	if !*setup && !*backfill {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	storage, err := bootstrap.Build(ctx, cfg, log.Zerolog(), bootstrap.Options{RequireMirror: true})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer storage.Close()

	if *setup {
		if err := storage.Mirror.SetupSheets(ctx); err != nil {
			log.Error().Err(err).Msg("setup de hojas")
			storage.Close()
			os.Exit(1)
		}
		log.Info().Msg("hojas verificadas")
	}

	if *backfill {
		report, err := storage.Repo.Backfill(ctx)
		failed := 0
		for name, r := range report {
			failed += len(r.Failed)
			log.Info().Str("entity", name).Int("synced", r.Synced).Ints64("failed", r.Failed).Msg("backfill")
		}
		if err != nil || failed > 0 {
			log.Error().Err(err).Int("failed", failed).Msg("backfill incompleto")
			storage.Close()
			os.Exit(1)
		}
		log.Info().Msg("mirror sincronizado")
	}
}
