package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forumlake/internal/modkit"
	"forumlake/internal/modkit/httpkit"
	"forumlake/internal/platform/config"
	"forumlake/internal/platform/logger"
	phttp "forumlake/internal/platform/net/http"
	"forumlake/internal/platform/store"

	ingestor "forumlake/internal/services/ingestor/module"
)

func main() {
	root := config.New()
	ingCfg := root.Prefix("CORE_INGEST_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()

	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "forumlake-ingest",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 8)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
			CH: store.CHConfig{
				Enabled: chCfg.MayBool("ENABLED", false),
				URL:     chCfg.MayString("DBURL", ""),
				Role:    "ingest",
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mod := ingestor.New(modkit.Deps{Log: *l, Cfg: root, PG: st.PG, CH: st.CH})

	// queue consumer, the primary transport
	consumerDone := make(chan struct{})
	if root.MayString("INGEST_SQS_QUEUE_URL", "") != "" {
		go func() {
			defer close(consumerDone)
			if err := mod.RunConsumer(ctx); err != nil {
				l.Error().Err(err).Msg("consumer failed")
			}
		}()
	} else {
		close(consumerDone)
		l.Warn().Msg("no queue configured, http intake only")
	}

	// supplementary http intake
	srv := phttp.NewServer(ingCfg)
	r := srv.Router()
	r.Use(httpkit.CommonStack()...)
	mod.MountRoutes(r)

	go func() {
		if err := srv.Run(ctx); err != nil {
			l.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	l.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("http shutdown failed")
	}
	<-consumerDone
}
