// Package module implements the member health service module
package module

import (
	"forumlake/internal/modkit"
	"forumlake/internal/modkit/httpkit"
	factrepo "forumlake/internal/services/facts/repo"
	"forumlake/internal/services/memberhealth/domain"
	"forumlake/internal/services/memberhealth/repo"
	"forumlake/internal/services/memberhealth/service"
)

// Ports exposed by the member health module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the member health service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new member health module
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.PG, factrepo.NewPG(), repo.NewPG())

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "memberhealth" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
