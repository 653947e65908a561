// Package module implements the ingestor service module
package module

import (
	"context"

	"forumlake/internal/adapters/ingest/sqs"
	"forumlake/internal/modkit"
	"forumlake/internal/modkit/httpkit"
	factrepo "forumlake/internal/services/facts/repo"
	"forumlake/internal/services/ingestor/domain"
	ihttp "forumlake/internal/services/ingestor/http"
	"forumlake/internal/services/ingestor/service"
	threpo "forumlake/internal/services/threads/repo"
)

// Ports exposed by the ingestor module
type Ports struct {
	Ingest domain.IngestPort
}

// Module implements the ingestor service module
type Module struct {
	deps  modkit.Deps
	opts  Options
	svc   *service.Service
	ports Ports
}

// New constructs a new ingestor module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(
		deps.PG,
		factrepo.NewPG(),
		threpo.NewPG(),
		factrepo.NewArchive(deps.CH),
	)

	m := &Module{deps: deps, opts: opts, svc: svc}
	m.ports = Ports{Ingest: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "ingestor" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "/ingest/v1" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), nil, func(sub httpkit.Router) {
		ihttp.Register(sub, m.svc)
	})
}

// RunConsumer builds the queue source from config and drains it until ctx is
// done. It blocks; the caller owns the goroutine
func (m *Module) RunConsumer(ctx context.Context) error {
	src, err := sqs.New(ctx, sqs.Config{
		Region:   m.opts.QueueRegion,
		QueueURL: m.opts.QueueURL,
		Endpoint: m.opts.QueueEndpoint,
	})
	if err != nil {
		return err
	}

	service.NewConsumer(src, m.svc, service.ConsumerConfig{
		Workers:     m.opts.Workers,
		MaxMessages: int32(m.opts.MaxMessages),
		WaitSeconds: int32(m.opts.WaitSeconds),
	}).Run(ctx)
	return nil
}
