package domain

import "context"

// QueryPort is the read surface over the projected tables.
// Pass-through only; every number here comes straight from a repo read shape
type QueryPort interface {
	Activity(ctx context.Context, tenantID string) ([]ActivityPoint, error)
	Responsiveness(ctx context.Context, tenantID string) (Responsiveness, error)
	DeflectionSavings(ctx context.Context, tenantID string, costPerTicket float64) (DeflectionSavings, error)
	Champions(ctx context.Context, tenantID string) ([]Member, error)
	ChurnRisk(ctx context.Context, tenantID, threshold string) ([]Member, error)
	StaleThreads(ctx context.Context, tenantID string, days int) ([]Thread, error)
	UnansweredThreads(ctx context.Context, tenantID string, hours int) ([]Thread, error)
}
