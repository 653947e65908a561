package repo

import (
	"context"
	"strings"
	"testing"
	"time"

	perr "forumlake/internal/platform/errors"
	"forumlake/internal/platform/testkit"
	"forumlake/internal/services/threads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func aggregateRow(a domain.Aggregate) []any {
	return []any{
		a.ThreadID, a.TenantID, a.CategoryID, a.AuthorID, a.Title,
		string(a.Status), a.Tags, a.CreatedAt, a.LastActivityAt,
		a.ResponseTimeMinutes, a.IsAnswered, a.ReplyCount,
	}
}

func TestGetByID(t *testing.T) {
	t.Parallel()

	cat := uuid.New()
	rt := 12
	want := domain.Aggregate{
		ThreadID:            uuid.New(),
		TenantID:            "acme",
		CategoryID:          &cat,
		AuthorID:            uuid.New(),
		Title:               "welcome",
		Status:              domain.StatusSolved,
		Tags:                []string{"intro"},
		CreatedAt:           time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		LastActivityAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		ResponseTimeMinutes: &rt,
		IsAnswered:          true,
		ReplyCount:          3,
	}
	q := &testkit.FakeQuerier{Rows: [][]any{aggregateRow(want)}}

	got, err := NewPG().Bind(q).GetByID(context.Background(), want.ThreadID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ThreadID != want.ThreadID || got.Status != domain.StatusSolved {
		t.Fatalf("GetByID = %+v", got)
	}
	if got.ResponseTimeMinutes == nil || *got.ResponseTimeMinutes != 12 {
		t.Fatalf("ResponseTimeMinutes = %v, want 12", got.ResponseTimeMinutes)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "intro" {
		t.Fatalf("Tags = %v", got.Tags)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	t.Parallel()

	q := &testkit.FakeQuerier{}
	_, err := NewPG().Bind(q).GetByID(context.Background(), uuid.New())
	if !perr.IsNotFound(err) {
		t.Fatalf("GetByID on empty set = %v, want not found", err)
	}
}

func TestGetForUpdate_LocksRow(t *testing.T) {
	t.Parallel()

	agg := domain.New(uuid.New(), "acme", nil, uuid.New(), "t", nil, time.Now().UTC())
	q := &testkit.FakeQuerier{Rows: [][]any{aggregateRow(agg)}}

	if _, err := NewPG().Bind(q).GetForUpdate(context.Background(), agg.ThreadID); err != nil {
		t.Fatalf("GetForUpdate: %v", err)
	}
	if !strings.Contains(q.LastSQL, "FOR UPDATE") {
		t.Fatalf("GetForUpdate did not lock: %s", q.LastSQL)
	}
}

func TestCreate_DuplicateKeySurfaces(t *testing.T) {
	t.Parallel()

	q := &testkit.FakeQuerier{
		ExecErr: &pgconn.PgError{Code: "23505", ConstraintName: "dim_threads_pkey"},
	}
	agg := domain.New(uuid.New(), "acme", nil, uuid.New(), "t", nil, time.Now().UTC())

	err := NewPG().Bind(q).Create(context.Background(), agg)
	if !perr.IsDuplicateKey(err) {
		t.Fatalf("Create on existing key = %v, want duplicate key", err)
	}
}

func TestSave_MissingRowIsNotFound(t *testing.T) {
	t.Parallel()

	q := &testkit.FakeQuerier{ExecN: 0}
	agg := domain.New(uuid.New(), "acme", nil, uuid.New(), "t", nil, time.Now().UTC())

	err := NewPG().Bind(q).Save(context.Background(), agg)
	if !perr.IsNotFound(err) {
		t.Fatalf("Save of missing row = %v, want not found", err)
	}
}

func TestFindStale(t *testing.T) {
	t.Parallel()

	a := domain.New(uuid.New(), "acme", nil, uuid.New(), "old one", nil, time.Now().UTC())
	b := domain.New(uuid.New(), "acme", nil, uuid.New(), "older one", nil, time.Now().UTC())
	q := &testkit.FakeQuerier{Rows: [][]any{aggregateRow(a), aggregateRow(b)}}
	cutoff := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	got, err := NewPG().Bind(q).FindStale(context.Background(), "acme", cutoff)
	if err != nil {
		t.Fatalf("FindStale: %v", err)
	}
	if len(got) != 2 || got[0].ThreadID != a.ThreadID {
		t.Fatalf("FindStale = %+v", got)
	}
	if q.LastArgs[0] != "acme" || q.LastArgs[1] != cutoff {
		t.Fatalf("FindStale args = %v", q.LastArgs)
	}
}

func TestCountAnswered(t *testing.T) {
	t.Parallel()

	q := &testkit.FakeQuerier{Rows: [][]any{{int64(5)}}}
	got, err := NewPG().Bind(q).CountAnswered(context.Background(), "acme")
	if err != nil {
		t.Fatalf("CountAnswered: %v", err)
	}
	if got != 5 {
		t.Fatalf("CountAnswered = %d, want 5", got)
	}
}

func TestMedianResponseTime(t *testing.T) {
	t.Parallel()

	m := 7.5
	q := &testkit.FakeQuerier{Rows: [][]any{{&m}}}
	got, err := NewPG().Bind(q).MedianResponseTime(context.Background(), "acme")
	if err != nil {
		t.Fatalf("MedianResponseTime: %v", err)
	}
	if got == nil || *got != 7.5 {
		t.Fatalf("MedianResponseTime = %v, want 7.5", got)
	}
}

func TestMedianResponseTime_NilWhenNoReplies(t *testing.T) {
	t.Parallel()

	q := &testkit.FakeQuerier{Rows: [][]any{{nil}}}
	got, err := NewPG().Bind(q).MedianResponseTime(context.Background(), "acme")
	if err != nil {
		t.Fatalf("MedianResponseTime: %v", err)
	}
	if got != nil {
		t.Fatalf("MedianResponseTime = %v, want nil", got)
	}
}
