// Package service provides the analytics service implementation
package service

import (
	"context"
	"strings"
	"time"

	"forumlake/internal/modkit/repokit"
	"forumlake/internal/services/api/analytics/domain"
	factrepo "forumlake/internal/services/facts/repo"
	mhdom "forumlake/internal/services/memberhealth/domain"
	mhrepo "forumlake/internal/services/memberhealth/repo"
	thdom "forumlake/internal/services/threads/domain"
	threpo "forumlake/internal/services/threads/repo"
)

// activityWindow is the fixed lookback for the daily-active-users series
const activityWindow = 30 * 24 * time.Hour

// Config for the analytics service
type Config struct {
	DefaultCostPerTicket float64
	DefaultStaleDays     int
	DefaultUnansweredHrs int
}

// Service implements domain.QueryPort over the projection repos
type Service struct {
	db      repokit.TxRunner
	facts   repokit.Binder[factrepo.Storage]
	threads repokit.Binder[threpo.Storage]
	health  repokit.Binder[mhrepo.Storage]
	cfg     Config

	now func() time.Time
}

// New constructs the analytics service
func New(
	db repokit.TxRunner,
	facts repokit.Binder[factrepo.Storage],
	threads repokit.Binder[threpo.Storage],
	health repokit.Binder[mhrepo.Storage],
	cfg Config,
) *Service {
	if cfg.DefaultCostPerTicket <= 0 {
		cfg.DefaultCostPerTicket = 50
	}
	if cfg.DefaultStaleDays <= 0 {
		cfg.DefaultStaleDays = 7
	}
	if cfg.DefaultUnansweredHrs <= 0 {
		cfg.DefaultUnansweredHrs = 24
	}
	return &Service{
		db:      db,
		facts:   facts,
		threads: threads,
		health:  health,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Activity implements domain.QueryPort
func (s *Service) Activity(ctx context.Context, tenantID string) ([]domain.ActivityPoint, error) {
	since := s.now().Add(-activityWindow)
	rows, err := s.facts.Bind(s.db).DailyActiveUsers(ctx, tenantID, since)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ActivityPoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.ActivityPoint{Day: r.Day, ActiveUsers: r.Count})
	}
	return out, nil
}

// Responsiveness implements domain.QueryPort
func (s *Service) Responsiveness(ctx context.Context, tenantID string) (domain.Responsiveness, error) {
	th := s.threads.Bind(s.db)

	total, err := th.CountTotal(ctx, tenantID)
	if err != nil {
		return domain.Responsiveness{}, err
	}
	answered, err := th.CountAnswered(ctx, tenantID)
	if err != nil {
		return domain.Responsiveness{}, err
	}
	median, err := th.MedianResponseTime(ctx, tenantID)
	if err != nil {
		return domain.Responsiveness{}, err
	}

	var rate float64
	if total > 0 {
		rate = float64(answered) / float64(total)
	}
	return domain.Responsiveness{AnswerRate: rate, MedianResponseTimeMinutes: median}, nil
}

// DeflectionSavings implements domain.QueryPort; answered threads stand in
// for solved ones
func (s *Service) DeflectionSavings(
	ctx context.Context, tenantID string, costPerTicket float64,
) (domain.DeflectionSavings, error) {
	if costPerTicket <= 0 {
		costPerTicket = s.cfg.DefaultCostPerTicket
	}
	solved, err := s.threads.Bind(s.db).CountAnswered(ctx, tenantID)
	if err != nil {
		return domain.DeflectionSavings{}, err
	}
	return domain.DeflectionSavings{
		SolvedThreads: solved,
		CostPerTicket: costPerTicket,
		Savings:       float64(solved) * costPerTicket,
	}, nil
}

// Champions implements domain.QueryPort
func (s *Service) Champions(ctx context.Context, tenantID string) ([]domain.Member, error) {
	snaps, err := s.health.Bind(s.db).FindByEngagementLevel(ctx, tenantID, mhdom.EngagementChampion)
	if err != nil {
		return nil, err
	}
	return members(snaps), nil
}

// ChurnRisk implements domain.QueryPort
func (s *Service) ChurnRisk(ctx context.Context, tenantID, threshold string) ([]domain.Member, error) {
	if threshold == "" {
		threshold = "high"
	}
	risk := mhdom.ChurnRisk(strings.ToUpper(threshold))
	snaps, err := s.health.Bind(s.db).FindByChurnRisk(ctx, tenantID, risk)
	if err != nil {
		return nil, err
	}
	return members(snaps), nil
}

// StaleThreads implements domain.QueryPort
func (s *Service) StaleThreads(ctx context.Context, tenantID string, days int) ([]domain.Thread, error) {
	if days <= 0 {
		days = s.cfg.DefaultStaleDays
	}
	cutoff := s.now().AddDate(0, 0, -days)
	aggs, err := s.threads.Bind(s.db).FindStale(ctx, tenantID, cutoff)
	if err != nil {
		return nil, err
	}
	return threadViews(aggs), nil
}

// UnansweredThreads implements domain.QueryPort
func (s *Service) UnansweredThreads(ctx context.Context, tenantID string, hours int) ([]domain.Thread, error) {
	if hours <= 0 {
		hours = s.cfg.DefaultUnansweredHrs
	}
	cutoff := s.now().Add(-time.Duration(hours) * time.Hour)
	aggs, err := s.threads.Bind(s.db).FindUnanswered(ctx, tenantID, cutoff)
	if err != nil {
		return nil, err
	}
	return threadViews(aggs), nil
}

func members(snaps []mhdom.Snapshot) []domain.Member {
	out := make([]domain.Member, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, domain.Member{
			UserID:          s.UserID,
			HealthScore:     s.HealthScore,
			EngagementLevel: string(s.EngagementLevel),
			ChurnRisk:       string(s.ChurnRisk),
			CalculatedAt:    s.CalculatedAt,
		})
	}
	return out
}

func threadViews(aggs []thdom.Aggregate) []domain.Thread {
	out := make([]domain.Thread, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, domain.Thread{
			ThreadID:            a.ThreadID,
			Title:               a.Title,
			Status:              string(a.Status),
			Tags:                a.Tags,
			CreatedAt:           a.CreatedAt,
			LastActivityAt:      a.LastActivityAt,
			ReplyCount:          a.ReplyCount,
			IsAnswered:          a.IsAnswered,
			ResponseTimeMinutes: a.ResponseTimeMinutes,
		})
	}
	return out
}
