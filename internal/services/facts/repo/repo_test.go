package repo

import (
	"context"
	"testing"
	"time"

	perr "forumlake/internal/platform/errors"
	"forumlake/internal/platform/testkit"
	"forumlake/internal/services/facts/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestAppend(t *testing.T) {
	t.Parallel()

	q := &testkit.FakeQuerier{ExecN: 1}
	e := domain.Entry{
		ID:           uuid.New(),
		OccurredAt:   time.Now().UTC(),
		EventID:      uuid.New(),
		TenantID:     "acme",
		ActivityType: domain.ActivityReaction,
	}
	if err := NewPG().Bind(q).Append(context.Background(), e); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if q.LastArgs[0] != e.ID || q.LastArgs[2] != e.EventID {
		t.Fatalf("Append args = %v", q.LastArgs)
	}
}

func TestAppend_RaceSurfacesAsDuplicateKey(t *testing.T) {
	t.Parallel()

	q := &testkit.FakeQuerier{
		ExecErr: &pgconn.PgError{Code: "23505", ConstraintName: "uq_fact_activity_event"},
	}
	err := NewPG().Bind(q).Append(context.Background(), domain.Entry{
		ID:           uuid.New(),
		OccurredAt:   time.Now().UTC(),
		EventID:      uuid.New(),
		TenantID:     "acme",
		ActivityType: domain.ActivityPostCreated,
	})
	if !perr.IsDuplicateKey(err) {
		t.Fatalf("Append losing the race = %v, want duplicate key", err)
	}
}

func TestExistsByEventID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	q := &testkit.FakeQuerier{Rows: [][]any{{true}}}

	got, err := NewPG().Bind(q).ExistsByEventID(context.Background(), id)
	if err != nil {
		t.Fatalf("ExistsByEventID: %v", err)
	}
	if !got {
		t.Fatalf("ExistsByEventID = false, want true")
	}
	if q.LastArgs[0] != id {
		t.Fatalf("ExistsByEventID args = %v", q.LastArgs)
	}
}

func TestUserActivityOverWindow(t *testing.T) {
	t.Parallel()

	u := uuid.New()
	since := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	q := &testkit.FakeQuerier{Rows: [][]any{
		{u, "acme", int64(42)},
		{u, "globex", int64(3)},
	}}

	got, err := NewPG().Bind(q).UserActivityOverWindow(context.Background(), since)
	if err != nil {
		t.Fatalf("UserActivityOverWindow: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("UserActivityOverWindow = %+v", got)
	}
	if got[0].UserID != u || got[0].TenantID != "acme" || got[0].Count != 42 {
		t.Fatalf("first row = %+v", got[0])
	}
	if got[1].TenantID != "globex" {
		t.Fatalf("second row = %+v", got[1])
	}
	if q.LastArgs[0] != since {
		t.Fatalf("window args = %v", q.LastArgs)
	}
}

func TestDailyActiveUsers(t *testing.T) {
	t.Parallel()

	d1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	q := &testkit.FakeQuerier{Rows: [][]any{
		{d1, int64(9)},
		{d2, int64(11)},
	}}

	got, err := NewPG().Bind(q).DailyActiveUsers(context.Background(), "acme", d1)
	if err != nil {
		t.Fatalf("DailyActiveUsers: %v", err)
	}
	if len(got) != 2 || !got[0].Day.Equal(d1) || got[1].Count != 11 {
		t.Fatalf("DailyActiveUsers = %+v", got)
	}
}
