package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forumlake/internal/modkit"
	"forumlake/internal/platform/config"
	"forumlake/internal/platform/logger"
	"forumlake/internal/platform/store"

	memberhealth "forumlake/internal/services/memberhealth/module"
)

func main() {
	once := flag.Bool("once", false, "run a single scoring pass and exit")
	every := flag.Duration("every", 24*time.Hour, "interval between scoring passes")
	flag.Parse()

	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "forumlake-health",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	mod := memberhealth.New(modkit.Deps{Log: *l, Cfg: root, PG: st.PG, CH: st.CH})
	runner := mod.Ports().(memberhealth.Ports).Runner

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := func() {
		if _, err := runner.Run(ctx); err != nil {
			l.Error().Err(err).Msg("scoring run failed")
		}
	}

	if *once {
		run()
		return
	}

	l.Info().Dur("every", *every).Msg("scoring loop started")
	run()
	t := time.NewTicker(*every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Info().Msg("scoring loop stopped")
			return
		case <-t.C:
			run()
		}
	}
}
