// Package repo provides the fact log repository implementation.
// The table is append-only; nothing here updates or deletes
package repo

import (
	"context"
	"time"

	"forumlake/internal/modkit/repokit"
	perr "forumlake/internal/platform/errors"
	"forumlake/internal/services/facts/domain"

	"github.com/google/uuid"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the fact log repository
type Storage interface {
	Append(ctx context.Context, e domain.Entry) error
	ExistsByEventID(ctx context.Context, eventID uuid.UUID) (bool, error)
	CountByTenantAndType(ctx context.Context, tenantID string, t domain.ActivityType) (int64, error)
	UserActivityOverWindow(ctx context.Context, since time.Time) ([]domain.UserActivityRow, error)
	DailyActiveUsers(ctx context.Context, tenantID string, since time.Time) ([]domain.DailyActiveRow, error)
}

// Append implements Storage
func (s *pg) Append(ctx context.Context, e domain.Entry) error {
	err := repokit.ExecOne(ctx, s.q, `
		INSERT INTO fact_activity
			(id, occurred_at, event_id, tenant_id, user_id, activity_type, target_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.OccurredAt, e.EventID, e.TenantID, e.UserID,
		string(e.ActivityType), e.TargetID, e.Metadata,
	)
	if err != nil {
		return perr.FromPostgres(err, "facts append")
	}
	return nil
}

// ExistsByEventID implements Storage
func (s *pg) ExistsByEventID(ctx context.Context, eventID uuid.UUID) (bool, error) {
	exists, err := repokit.Scalar[bool](ctx, s.q,
		`SELECT EXISTS (SELECT 1 FROM fact_activity WHERE event_id = $1)`,
		eventID)
	if err != nil {
		return false, perr.FromPostgres(err, "facts exists by event id")
	}
	return exists, nil
}

// CountByTenantAndType implements Storage
func (s *pg) CountByTenantAndType(ctx context.Context, tenantID string, t domain.ActivityType) (int64, error) {
	n, err := repokit.Scalar[int64](ctx, s.q,
		`SELECT count(*) FROM fact_activity WHERE tenant_id = $1 AND activity_type = $2`,
		tenantID, string(t))
	if err != nil {
		return 0, perr.FromPostgres(err, "facts count by tenant and type")
	}
	return n, nil
}

// UserActivityOverWindow implements Storage
// Grouping is by user and tenant so one job run scores every tenant
func (s *pg) UserActivityOverWindow(ctx context.Context, since time.Time) ([]domain.UserActivityRow, error) {
	out, err := repokit.Many(ctx, s.q,
		func(r repokit.Row) (domain.UserActivityRow, error) {
			var row domain.UserActivityRow
			err := r.Scan(&row.UserID, &row.TenantID, &row.Count)
			return row, err
		}, `
		SELECT user_id, tenant_id, count(*)
		FROM fact_activity
		WHERE user_id IS NOT NULL AND occurred_at >= $1
		GROUP BY user_id, tenant_id`,
		since)
	if err != nil {
		return nil, perr.FromPostgres(err, "facts user activity over window")
	}
	return out, nil
}

// DailyActiveUsers implements Storage: distinct acting users per day
func (s *pg) DailyActiveUsers(ctx context.Context, tenantID string, since time.Time) ([]domain.DailyActiveRow, error) {
	out, err := repokit.Many(ctx, s.q,
		func(r repokit.Row) (domain.DailyActiveRow, error) {
			var row domain.DailyActiveRow
			err := r.Scan(&row.Day, &row.Count)
			return row, err
		}, `
		SELECT date_trunc('day', occurred_at) AS day, count(DISTINCT user_id)
		FROM fact_activity
		WHERE tenant_id = $1 AND occurred_at >= $2
		GROUP BY day
		ORDER BY day`,
		tenantID, since)
	if err != nil {
		return nil, perr.FromPostgres(err, "facts daily active users")
	}
	return out, nil
}
