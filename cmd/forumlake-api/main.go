// @title         Forumlake API
// @version       0.1.0
// @description   Read only analytics endpoints over the forum projection

package main

import (
	"context"

	"forumlake/internal/platform/config"
	"forumlake/internal/platform/logger"
	phttp "forumlake/internal/platform/net/http"
	"forumlake/internal/platform/store"

	"forumlake/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "forumlake-api",
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

	srv := phttp.NewServer(apiCfg)

	api.Mount(srv.Router(), api.Options{
		Config:        root,
		Store:         st,
		Logger:        l,
		EnableSwagger: apiCfg.MayBool("SWAGGER", true),
	})

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
