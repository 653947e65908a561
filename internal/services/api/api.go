// Package api assembles the read side HTTP surface
package api

import (
	"forumlake/internal/platform/config"
	"forumlake/internal/platform/logger"
	phttp "forumlake/internal/platform/net/http"
	"forumlake/internal/platform/store"

	"forumlake/internal/modkit"
	"forumlake/internal/modkit/httpkit"
	"forumlake/internal/modkit/module"
	"forumlake/internal/modkit/swaggerkit"

	analyticsmod "forumlake/internal/services/api/analytics/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	EnableSwagger bool
}

// Mount mounts the analytics API onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Cfg: opt.Config,
		Log: *opt.Logger,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	mods := []module.Module{
		analyticsmod.New(deps),
	}

	r.Use(httpkit.CommonStack()...)
	swaggerkit.Mount(r, opt.EnableSwagger, "")

	for _, m := range mods {
		module.Register(m.Name(), m.Ports())
		m.MountRoutes(r)
	}
}
