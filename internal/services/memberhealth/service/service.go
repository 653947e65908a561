// Package service implements the member health scoring job
package service

import (
	"context"
	"time"

	"forumlake/internal/modkit/repokit"
	"forumlake/internal/platform/logger"
	factrepo "forumlake/internal/services/facts/repo"
	"forumlake/internal/services/memberhealth/domain"
	"forumlake/internal/services/memberhealth/repo"
)

// window is the fixed trailing window scores are computed over
const window = 30 * 24 * time.Hour

// Service recomputes member health snapshots from the fact log
type Service struct {
	db     repokit.TxRunner
	facts  repokit.Binder[factrepo.Storage]
	health repokit.Binder[repo.Storage]
	log    *logger.Logger

	// now is swapped in tests
	now func() time.Time
}

// New constructs the scoring service
func New(
	db repokit.TxRunner,
	facts repokit.Binder[factrepo.Storage],
	health repokit.Binder[repo.Storage],
) *Service {
	return &Service{
		db:     db,
		facts:  facts,
		health: health,
		log:    logger.Named("memberhealth"),
		now:    time.Now,
	}
}

// Run executes one scoring pass and reports how many users were written.
// The run lease is a transaction-scoped advisory lock held for the whole
// pass; if another instance holds it this run is a clean skip. Snapshot
// writes are independent of each other: a failed row is logged and the loop
// continues, so a partial run is corrected by the next firing
func (s *Service) Run(ctx context.Context) (int, error) {
	s.log.Info().Msg("scoring run started")

	var processed int
	var skipped bool

	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		got, err := s.health.Bind(q).TryRunLock(ctx)
		if err != nil {
			return err
		}
		if !got {
			skipped = true
			return nil
		}

		processed, err = s.score(ctx)
		return err
	})
	if err != nil {
		return processed, err
	}
	if skipped {
		s.log.Info().Msg("scoring run already in progress elsewhere, skipped")
		return 0, nil
	}

	s.log.Info().Int("processed", processed).Msg("scoring run completed")
	return processed, nil
}

func (s *Service) score(ctx context.Context) (int, error) {
	now := s.now()
	since := now.Add(-window)

	stats, err := s.facts.Bind(s.db).UserActivityOverWindow(ctx, since)
	if err != nil {
		return 0, err
	}

	health := s.health.Bind(s.db)
	processed := 0
	for _, row := range stats {
		score := domain.Score(row.Count)
		snap := domain.Snapshot{
			UserID:          row.UserID,
			TenantID:        row.TenantID,
			HealthScore:     score,
			EngagementLevel: domain.EngagementFor(score),
			ChurnRisk:       domain.ChurnFor(score),
			CalculatedAt:    now,
		}
		if err := health.Insert(ctx, snap); err != nil {
			s.log.Warn().Err(err).Str("user_id", row.UserID.String()).Msg("snapshot write failed")
			continue
		}
		processed++
	}
	return processed, nil
}
