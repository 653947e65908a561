package service

import (
	"context"
	"testing"
	"time"

	"forumlake/internal/modkit/repokit"
	perr "forumlake/internal/platform/errors"
	factdom "forumlake/internal/services/facts/domain"
	factrepo "forumlake/internal/services/facts/repo"
	"forumlake/internal/services/memberhealth/domain"
	"forumlake/internal/services/memberhealth/repo"

	"github.com/google/uuid"
)

type fakeDB struct{}

func (fakeDB) Exec(ctx context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	return nil, nil
}

func (fakeDB) Query(ctx context.Context, sql string, args ...any) (repokit.Rows, error) {
	return nil, nil
}

func (fakeDB) QueryRow(ctx context.Context, sql string, args ...any) repokit.Row { return nil }

func (f fakeDB) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error { return fn(f) }

type fakeFacts struct {
	rows  []factdom.UserActivityRow
	since time.Time
}

func (f *fakeFacts) Append(ctx context.Context, e factdom.Entry) error { return nil }

func (f *fakeFacts) ExistsByEventID(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeFacts) CountByTenantAndType(ctx context.Context, tenantID string, t factdom.ActivityType) (int64, error) {
	return 0, nil
}

func (f *fakeFacts) UserActivityOverWindow(ctx context.Context, since time.Time) ([]factdom.UserActivityRow, error) {
	f.since = since
	return f.rows, nil
}

func (f *fakeFacts) DailyActiveUsers(ctx context.Context, tenantID string, since time.Time) ([]factdom.DailyActiveRow, error) {
	return nil, nil
}

type fakeHealth struct {
	snaps     []domain.Snapshot
	locked    bool
	failUser  uuid.UUID
	insertErr error
}

func (f *fakeHealth) Insert(ctx context.Context, s domain.Snapshot) error {
	if f.insertErr != nil && s.UserID == f.failUser {
		return f.insertErr
	}
	f.snaps = append(f.snaps, s)
	return nil
}

func (f *fakeHealth) FindByEngagementLevel(ctx context.Context, tenantID string, level domain.EngagementLevel) ([]domain.Snapshot, error) {
	return nil, nil
}

func (f *fakeHealth) FindByChurnRisk(ctx context.Context, tenantID string, risk domain.ChurnRisk) ([]domain.Snapshot, error) {
	return nil, nil
}

func (f *fakeHealth) TryRunLock(ctx context.Context) (bool, error) { return !f.locked, nil }

func newService(fa *fakeFacts, fh *fakeHealth) *Service {
	return New(
		fakeDB{},
		repokit.BindFunc[factrepo.Storage](func(repokit.Queryer) factrepo.Storage { return fa }),
		repokit.BindFunc[repo.Storage](func(repokit.Queryer) repo.Storage { return fh }),
	)
}

func TestRun_ScoresAndClassifies(t *testing.T) {
	t.Parallel()

	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()
	fa := &fakeFacts{rows: []factdom.UserActivityRow{
		{UserID: u1, TenantID: "acme", Count: 150},
		{UserID: u2, TenantID: "acme", Count: 42},
		{UserID: u3, TenantID: "globex", Count: 3},
	}}
	fh := &fakeHealth{}
	svc := newService(fa, fh)

	now := time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	processed, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if processed != 3 || len(fh.snaps) != 3 {
		t.Fatalf("processed = %d, snaps = %d", processed, len(fh.snaps))
	}

	wantSince := now.Add(-30 * 24 * time.Hour)
	if !fa.since.Equal(wantSince) {
		t.Fatalf("window start = %v, want %v", fa.since, wantSince)
	}

	byUser := map[uuid.UUID]domain.Snapshot{}
	for _, s := range fh.snaps {
		byUser[s.UserID] = s
		if !s.CalculatedAt.Equal(now) {
			t.Fatalf("calculatedAt = %v, want shared %v", s.CalculatedAt, now)
		}
	}

	if s := byUser[u1]; s.HealthScore != 100 || s.EngagementLevel != domain.EngagementChampion || s.ChurnRisk != domain.ChurnLow {
		t.Fatalf("u1 = %+v", s)
	}
	if s := byUser[u2]; s.HealthScore != 42 || s.EngagementLevel != domain.EngagementContributor || s.ChurnRisk != domain.ChurnMedium {
		t.Fatalf("u2 = %+v", s)
	}
	if s := byUser[u3]; s.HealthScore != 3 || s.EngagementLevel != domain.EngagementLurker || s.ChurnRisk != domain.ChurnHigh || s.TenantID != "globex" {
		t.Fatalf("u3 = %+v", s)
	}
}

func TestRun_EmptyWindow(t *testing.T) {
	t.Parallel()

	fh := &fakeHealth{}
	svc := newService(&fakeFacts{}, fh)

	processed, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if processed != 0 || len(fh.snaps) != 0 {
		t.Fatalf("processed = %d, snaps = %d, want zero of each", processed, len(fh.snaps))
	}
}

func TestRun_SkipsWhenLockHeld(t *testing.T) {
	t.Parallel()

	fa := &fakeFacts{rows: []factdom.UserActivityRow{
		{UserID: uuid.New(), TenantID: "acme", Count: 10},
	}}
	fh := &fakeHealth{locked: true}
	svc := newService(fa, fh)

	processed, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if processed != 0 || len(fh.snaps) != 0 {
		t.Fatal("a held lock must be a clean skip")
	}
}

func TestRun_RowFailureDoesNotStopTheLoop(t *testing.T) {
	t.Parallel()

	u1, u2 := uuid.New(), uuid.New()
	fa := &fakeFacts{rows: []factdom.UserActivityRow{
		{UserID: u1, TenantID: "acme", Count: 10},
		{UserID: u2, TenantID: "acme", Count: 20},
	}}
	fh := &fakeHealth{failUser: u1, insertErr: perr.Unavailablef("write failed")}
	svc := newService(fa, fh)

	processed, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if processed != 1 || len(fh.snaps) != 1 || fh.snaps[0].UserID != u2 {
		t.Fatalf("processed = %d, snaps = %+v", processed, fh.snaps)
	}
}
