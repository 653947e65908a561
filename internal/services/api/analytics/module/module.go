// Package module implements the analytics service module
package module

import (
	"net/http"

	"forumlake/internal/modkit"
	"forumlake/internal/modkit/httpkit"
	"forumlake/internal/services/api/analytics/domain"
	ahttp "forumlake/internal/services/api/analytics/http"
	"forumlake/internal/services/api/analytics/service"
	factrepo "forumlake/internal/services/facts/repo"
	mhrepo "forumlake/internal/services/memberhealth/repo"
	threpo "forumlake/internal/services/threads/repo"
)

// Ports exposed by the analytics module
type Ports struct {
	Query domain.QueryPort
}

// Module implements the analytics service module
type Module struct {
	deps  modkit.Deps
	svc   *service.Service
	ports Ports
}

// New constructs a new analytics module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(
		deps.PG,
		factrepo.NewPG(),
		threpo.NewPG(),
		mhrepo.NewPG(),
		service.Config{
			DefaultCostPerTicket: opts.CostPerTicket,
			DefaultStaleDays:     opts.StaleDays,
			DefaultUnansweredHrs: opts.UnansweredHours,
		},
	)

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{Query: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "analytics" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "/analytics/v1" }

// MountRoutes satisfies modkit.Module
// every endpoint requires the tenant header installed by the auth gate
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(),
		[]func(http.Handler) http.Handler{httpkit.RequireTenant()},
		func(sub httpkit.Router) {
			ahttp.Register(sub, m.svc)
		})
}
