package service

import (
	"context"
	"testing"
	"time"

	"forumlake/internal/modkit/repokit"
	"forumlake/internal/services/api/analytics/domain"
	factdom "forumlake/internal/services/facts/domain"
	factrepo "forumlake/internal/services/facts/repo"
	mhdom "forumlake/internal/services/memberhealth/domain"
	mhrepo "forumlake/internal/services/memberhealth/repo"
	thdom "forumlake/internal/services/threads/domain"
	threpo "forumlake/internal/services/threads/repo"

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

type fakeFacts struct{ daily []factdom.DailyActiveRow }

func (f *fakeFacts) Append(ctx context.Context, e factdom.Entry) error { return nil }

func (f *fakeFacts) ExistsByEventID(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeFacts) CountByTenantAndType(ctx context.Context, tenantID string, t factdom.ActivityType) (int64, error) {
	return 0, nil
}

func (f *fakeFacts) UserActivityOverWindow(ctx context.Context, since time.Time) ([]factdom.UserActivityRow, error) {
	return nil, nil
}

func (f *fakeFacts) DailyActiveUsers(ctx context.Context, tenantID string, since time.Time) ([]factdom.DailyActiveRow, error) {
	return f.daily, nil
}

type fakeThreads struct {
	total    int64
	answered int64
	median   *float64

	staleCutoff      time.Time
	unansweredCutoff time.Time
}

func (f *fakeThreads) Create(ctx context.Context, a thdom.Aggregate) error { return nil }

func (f *fakeThreads) GetByID(ctx context.Context, id uuid.UUID) (*thdom.Aggregate, error) {
	return nil, nil
}

func (f *fakeThreads) GetForUpdate(ctx context.Context, id uuid.UUID) (*thdom.Aggregate, error) {
	return nil, nil
}

func (f *fakeThreads) Save(ctx context.Context, a thdom.Aggregate) error { return nil }

func (f *fakeThreads) FindStale(ctx context.Context, tenantID string, cutoff time.Time) ([]thdom.Aggregate, error) {
	f.staleCutoff = cutoff
	return nil, nil
}

func (f *fakeThreads) FindUnanswered(ctx context.Context, tenantID string, cutoff time.Time) ([]thdom.Aggregate, error) {
	f.unansweredCutoff = cutoff
	return nil, nil
}

func (f *fakeThreads) CountAnswered(ctx context.Context, tenantID string) (int64, error) {
	return f.answered, nil
}

func (f *fakeThreads) CountTotal(ctx context.Context, tenantID string) (int64, error) {
	return f.total, nil
}

func (f *fakeThreads) MedianResponseTime(ctx context.Context, tenantID string) (*float64, error) {
	return f.median, nil
}

type fakeHealth struct {
	level mhdom.EngagementLevel
	risk  mhdom.ChurnRisk
	snaps []mhdom.Snapshot
}

func (f *fakeHealth) Insert(ctx context.Context, s mhdom.Snapshot) error { return nil }

func (f *fakeHealth) FindByEngagementLevel(ctx context.Context, tenantID string, level mhdom.EngagementLevel) ([]mhdom.Snapshot, error) {
	f.level = level
	return f.snaps, nil
}

func (f *fakeHealth) FindByChurnRisk(ctx context.Context, tenantID string, risk mhdom.ChurnRisk) ([]mhdom.Snapshot, error) {
	f.risk = risk
	return f.snaps, nil
}

func (f *fakeHealth) TryRunLock(ctx context.Context) (bool, error) { return true, nil }

func newService(fa *fakeFacts, th *fakeThreads, fh *fakeHealth) *Service {
	return New(
		fakeDB{},
		repokit.BindFunc[factrepo.Storage](func(repokit.Queryer) factrepo.Storage { return fa }),
		repokit.BindFunc[threpo.Storage](func(repokit.Queryer) threpo.Storage { return th }),
		repokit.BindFunc[mhrepo.Storage](func(repokit.Queryer) mhrepo.Storage { return fh }),
		Config{},
	)
}

func TestResponsiveness(t *testing.T) {
	t.Parallel()

	median := 12.0
	th := &fakeThreads{total: 10, answered: 4, median: &median}
	svc := newService(&fakeFacts{}, th, &fakeHealth{})

	got, err := svc.Responsiveness(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Responsiveness: %v", err)
	}
	if got.AnswerRate != 0.4 {
		t.Fatalf("answerRate = %v", got.AnswerRate)
	}
	if got.MedianResponseTimeMinutes == nil || *got.MedianResponseTimeMinutes != 12 {
		t.Fatalf("median = %v", got.MedianResponseTimeMinutes)
	}
}

func TestResponsiveness_NoThreads(t *testing.T) {
	t.Parallel()

	svc := newService(&fakeFacts{}, &fakeThreads{}, &fakeHealth{})

	got, err := svc.Responsiveness(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Responsiveness: %v", err)
	}
	if got.AnswerRate != 0 || got.MedianResponseTimeMinutes != nil {
		t.Fatalf("empty tenant = %+v", got)
	}
}

func TestDeflectionSavings(t *testing.T) {
	t.Parallel()

	th := &fakeThreads{answered: 6}
	svc := newService(&fakeFacts{}, th, &fakeHealth{})

	cases := []struct {
		name     string
		cost     float64
		wantCost float64
		wantSave float64
	}{
		{"default cost", 0, 50, 300},
		{"override", 80, 80, 480},
	}
	for _, tc := range cases {
		got, err := svc.DeflectionSavings(context.Background(), "acme", tc.cost)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got.SolvedThreads != 6 || got.CostPerTicket != tc.wantCost || got.Savings != tc.wantSave {
			t.Fatalf("%s: %+v", tc.name, got)
		}
	}
}

func TestChurnRisk_ThresholdDefaultsAndCasing(t *testing.T) {
	t.Parallel()

	fh := &fakeHealth{snaps: []mhdom.Snapshot{{UserID: uuid.New(), HealthScore: 5}}}
	svc := newService(&fakeFacts{}, &fakeThreads{}, fh)

	if _, err := svc.ChurnRisk(context.Background(), "acme", ""); err != nil {
		t.Fatalf("ChurnRisk: %v", err)
	}
	if fh.risk != mhdom.ChurnHigh {
		t.Fatalf("default risk = %s", fh.risk)
	}

	if _, err := svc.ChurnRisk(context.Background(), "acme", "medium"); err != nil {
		t.Fatalf("ChurnRisk: %v", err)
	}
	if fh.risk != mhdom.ChurnMedium {
		t.Fatalf("risk = %s", fh.risk)
	}
}

func TestChampions_QueriesChampionTier(t *testing.T) {
	t.Parallel()

	fh := &fakeHealth{snaps: []mhdom.Snapshot{
		{UserID: uuid.New(), HealthScore: 90, EngagementLevel: mhdom.EngagementChampion},
	}}
	svc := newService(&fakeFacts{}, &fakeThreads{}, fh)

	got, err := svc.Champions(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Champions: %v", err)
	}
	if fh.level != mhdom.EngagementChampion {
		t.Fatalf("queried level = %s", fh.level)
	}
	if len(got) != 1 || got[0].EngagementLevel != "CHAMPION" {
		t.Fatalf("champions = %+v", got)
	}
}

func TestThreadQueues_DefaultWindows(t *testing.T) {
	t.Parallel()

	th := &fakeThreads{}
	svc := newService(&fakeFacts{}, th, &fakeHealth{})
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.StaleThreads(context.Background(), "acme", 0); err != nil {
		t.Fatalf("StaleThreads: %v", err)
	}
	if want := now.AddDate(0, 0, -7); !th.staleCutoff.Equal(want) {
		t.Fatalf("stale cutoff = %v, want %v", th.staleCutoff, want)
	}

	if _, err := svc.UnansweredThreads(context.Background(), "acme", 0); err != nil {
		t.Fatalf("UnansweredThreads: %v", err)
	}
	if want := now.Add(-24 * time.Hour); !th.unansweredCutoff.Equal(want) {
		t.Fatalf("unanswered cutoff = %v, want %v", th.unansweredCutoff, want)
	}
}

func TestActivity_MapsSeries(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	fa := &fakeFacts{daily: []factdom.DailyActiveRow{{Day: day, Count: 17}}}
	svc := newService(fa, &fakeThreads{}, &fakeHealth{})

	got, err := svc.Activity(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Activity: %v", err)
	}
	if len(got) != 1 || !got[0].Day.Equal(day) || got[0].ActiveUsers != 17 {
		t.Fatalf("activity = %+v", got)
	}
}

var _ domain.QueryPort = (*Service)(nil)
