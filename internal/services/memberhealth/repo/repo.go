// Package repo provides the member health snapshot repository implementation
package repo

import (
	"context"

	"forumlake/internal/modkit/repokit"
	perr "forumlake/internal/platform/errors"
	"forumlake/internal/services/memberhealth/domain"
)

// runLockKey is the advisory lock id claimed for the duration of one scoring
// run; any instance that fails to take it skips its firing. The lock is
// transaction scoped because pool connections are not stable across calls
const runLockKey int64 = 0x666c5f686c74686a

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the member health repository
type Storage interface {
	Insert(ctx context.Context, s domain.Snapshot) error
	FindByEngagementLevel(ctx context.Context, tenantID string, level domain.EngagementLevel) ([]domain.Snapshot, error)
	FindByChurnRisk(ctx context.Context, tenantID string, risk domain.ChurnRisk) ([]domain.Snapshot, error)
	TryRunLock(ctx context.Context) (bool, error)
}

// Insert implements Storage; each run appends one row per user
func (s *pg) Insert(ctx context.Context, snap domain.Snapshot) error {
	err := repokit.ExecOne(ctx, s.q, `
		INSERT INTO dim_member_health
			(user_id, tenant_id, health_score, engagement_level, churn_risk, calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		snap.UserID, snap.TenantID, snap.HealthScore,
		string(snap.EngagementLevel), string(snap.ChurnRisk), snap.CalculatedAt,
	)
	if err != nil {
		return perr.FromPostgres(err, "member health insert")
	}
	return nil
}

func scanSnapshot(r repokit.Row) (domain.Snapshot, error) {
	var snap domain.Snapshot
	var level, risk string
	err := r.Scan(
		&snap.UserID, &snap.TenantID, &snap.HealthScore,
		&level, &risk, &snap.CalculatedAt,
	)
	snap.EngagementLevel = domain.EngagementLevel(level)
	snap.ChurnRisk = domain.ChurnRisk(risk)
	return snap, err
}

// latestPerUser narrows the history table to each user's newest snapshot
const latestPerUser = `
	SELECT DISTINCT ON (user_id)
		user_id, tenant_id, health_score, engagement_level, churn_risk, calculated_at
	FROM dim_member_health
	WHERE tenant_id = $1
	ORDER BY user_id, calculated_at DESC`

// FindByEngagementLevel implements Storage over the latest snapshot per user
func (s *pg) FindByEngagementLevel(
	ctx context.Context, tenantID string, level domain.EngagementLevel,
) ([]domain.Snapshot, error) {
	return s.find(ctx, `
		SELECT user_id, tenant_id, health_score, engagement_level, churn_risk, calculated_at
		FROM (`+latestPerUser+`) latest
		WHERE engagement_level = $2
		ORDER BY health_score DESC`,
		"member health find by engagement", tenantID, string(level))
}

// FindByChurnRisk implements Storage over the latest snapshot per user
func (s *pg) FindByChurnRisk(
	ctx context.Context, tenantID string, risk domain.ChurnRisk,
) ([]domain.Snapshot, error) {
	return s.find(ctx, `
		SELECT user_id, tenant_id, health_score, engagement_level, churn_risk, calculated_at
		FROM (`+latestPerUser+`) latest
		WHERE churn_risk = $2
		ORDER BY health_score`,
		"member health find by churn", tenantID, string(risk))
}

func (s *pg) find(ctx context.Context, sql, op string, args ...any) ([]domain.Snapshot, error) {
	out, err := repokit.Many(ctx, s.q, scanSnapshot, sql, args...)
	if err != nil {
		return nil, perr.FromPostgres(err, op)
	}
	return out, nil
}

// TryRunLock implements Storage. Must be called inside a transaction; the
// lock releases itself when that transaction ends
func (s *pg) TryRunLock(ctx context.Context) (bool, error) {
	got, err := repokit.Scalar[bool](ctx, s.q, `SELECT pg_try_advisory_xact_lock($1)`, runLockKey)
	if err != nil {
		return false, perr.FromPostgres(err, "member health run lock")
	}
	return got, nil
}
