// Package repo provides the thread aggregate repository implementation.
// Identity-keyed storage only; mutation logic lives in the ingestion handlers
package repo

import (
	"context"
	"time"

	"forumlake/internal/modkit/repokit"
	perr "forumlake/internal/platform/errors"
	"forumlake/internal/services/threads/domain"

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

// Storage defines the thread aggregate repository
type Storage interface {
	Create(ctx context.Context, a domain.Aggregate) error
	GetByID(ctx context.Context, threadID uuid.UUID) (*domain.Aggregate, error)
	GetForUpdate(ctx context.Context, threadID uuid.UUID) (*domain.Aggregate, error)
	Save(ctx context.Context, a domain.Aggregate) error
	FindStale(ctx context.Context, tenantID string, cutoff time.Time) ([]domain.Aggregate, error)
	FindUnanswered(ctx context.Context, tenantID string, cutoff time.Time) ([]domain.Aggregate, error)
	CountAnswered(ctx context.Context, tenantID string) (int64, error)
	CountTotal(ctx context.Context, tenantID string) (int64, error)
	MedianResponseTime(ctx context.Context, tenantID string) (*float64, error)
}

const aggregateColumns = `
	thread_id, tenant_id, category_id, author_id, title, status, tags,
	created_at, last_activity_at, response_time_minutes, is_answered, reply_count`

func scanAggregate(r repokit.Row) (domain.Aggregate, error) {
	var a domain.Aggregate
	var status string
	err := r.Scan(
		&a.ThreadID, &a.TenantID, &a.CategoryID, &a.AuthorID, &a.Title,
		&status, &a.Tags, &a.CreatedAt, &a.LastActivityAt,
		&a.ResponseTimeMinutes, &a.IsAnswered, &a.ReplyCount,
	)
	a.Status = domain.Status(status)
	return a, err
}

// Create implements Storage
func (s *pg) Create(ctx context.Context, a domain.Aggregate) error {
	err := repokit.ExecOne(ctx, s.q, `
		INSERT INTO dim_threads (`+aggregateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ThreadID, a.TenantID, a.CategoryID, a.AuthorID, a.Title,
		string(a.Status), a.Tags, a.CreatedAt, a.LastActivityAt,
		a.ResponseTimeMinutes, a.IsAnswered, a.ReplyCount,
	)
	if err != nil {
		return perr.FromPostgres(err, "threads create")
	}
	return nil
}

// GetByID implements Storage; absence is a NotFound error
func (s *pg) GetByID(ctx context.Context, threadID uuid.UUID) (*domain.Aggregate, error) {
	return s.getOne(ctx,
		`SELECT `+aggregateColumns+` FROM dim_threads WHERE thread_id = $1`,
		threadID, "threads get by id")
}

// GetForUpdate implements Storage; the row lock serializes concurrent
// read-modify-write cycles on one thread for the duration of the tx
func (s *pg) GetForUpdate(ctx context.Context, threadID uuid.UUID) (*domain.Aggregate, error) {
	return s.getOne(ctx,
		`SELECT `+aggregateColumns+` FROM dim_threads WHERE thread_id = $1 FOR UPDATE`,
		threadID, "threads get for update")
}

func (s *pg) getOne(ctx context.Context, sql string, threadID uuid.UUID, op string) (*domain.Aggregate, error) {
	a, err := repokit.One(ctx, s.q, scanAggregate, sql, threadID)
	if err != nil {
		if perr.IsNotFound(err) {
			return nil, err
		}
		return nil, perr.FromPostgres(err, op)
	}
	return &a, nil
}

// Save implements Storage as a full replace of the mutable fields
func (s *pg) Save(ctx context.Context, a domain.Aggregate) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE dim_threads SET
			title = $2,
			status = $3,
			tags = $4,
			last_activity_at = $5,
			response_time_minutes = $6,
			is_answered = $7,
			reply_count = $8
		WHERE thread_id = $1`,
		a.ThreadID, a.Title, string(a.Status), a.Tags, a.LastActivityAt,
		a.ResponseTimeMinutes, a.IsAnswered, a.ReplyCount,
	)
	if err != nil {
		return perr.FromPostgres(err, "threads save")
	}
	if tag.RowsAffected() != 1 {
		return perr.NotFoundf("thread %s not found", a.ThreadID)
	}
	return nil
}

// FindStale implements Storage: open threads idle since before cutoff
func (s *pg) FindStale(ctx context.Context, tenantID string, cutoff time.Time) ([]domain.Aggregate, error) {
	return s.list(ctx, `
		SELECT `+aggregateColumns+`
		FROM dim_threads
		WHERE tenant_id = $1 AND status = 'OPEN' AND last_activity_at < $2
		ORDER BY last_activity_at`,
		"threads find stale", tenantID, cutoff)
}

// FindUnanswered implements Storage: open zero-reply threads created before cutoff
func (s *pg) FindUnanswered(ctx context.Context, tenantID string, cutoff time.Time) ([]domain.Aggregate, error) {
	return s.list(ctx, `
		SELECT `+aggregateColumns+`
		FROM dim_threads
		WHERE tenant_id = $1 AND status = 'OPEN' AND reply_count = 0 AND created_at < $2
		ORDER BY created_at`,
		"threads find unanswered", tenantID, cutoff)
}

func (s *pg) list(ctx context.Context, sql, op string, args ...any) ([]domain.Aggregate, error) {
	out, err := repokit.Many(ctx, s.q, scanAggregate, sql, args...)
	if err != nil {
		return nil, perr.FromPostgres(err, op)
	}
	return out, nil
}

// CountAnswered implements Storage
func (s *pg) CountAnswered(ctx context.Context, tenantID string) (int64, error) {
	return s.count(ctx,
		`SELECT count(*) FROM dim_threads WHERE tenant_id = $1 AND is_answered`,
		"threads count answered", tenantID)
}

// CountTotal implements Storage
func (s *pg) CountTotal(ctx context.Context, tenantID string) (int64, error) {
	return s.count(ctx,
		`SELECT count(*) FROM dim_threads WHERE tenant_id = $1`,
		"threads count total", tenantID)
}

func (s *pg) count(ctx context.Context, sql, op string, args ...any) (int64, error) {
	n, err := repokit.Scalar[int64](ctx, s.q, sql, args...)
	if err != nil {
		return 0, perr.FromPostgres(err, op)
	}
	return n, nil
}

// MedianResponseTime implements Storage; nil when no thread has a first reply yet
func (s *pg) MedianResponseTime(ctx context.Context, tenantID string) (*float64, error) {
	median, err := repokit.Scalar[*float64](ctx, s.q, `
		SELECT percentile_cont(0.5) WITHIN GROUP (ORDER BY response_time_minutes)
		FROM dim_threads
		WHERE tenant_id = $1 AND response_time_minutes IS NOT NULL`,
		tenantID)
	if err != nil {
		return nil, perr.FromPostgres(err, "threads median response time")
	}
	return median, nil
}
