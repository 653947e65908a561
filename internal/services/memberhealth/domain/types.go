// Package domain defines member health snapshots and the scoring rules
package domain

import (
	"time"

	"github.com/google/uuid"
)

// EngagementLevel is the ordinal engagement classification
type EngagementLevel string

// Engagement levels
const (
	EngagementLurker      EngagementLevel = "LURKER"
	EngagementContributor EngagementLevel = "CONTRIBUTOR"
	EngagementChampion    EngagementLevel = "CHAMPION"
)

// ChurnRisk is the ordinal churn classification
type ChurnRisk string

// Churn risks
const (
	ChurnLow    ChurnRisk = "LOW"
	ChurnMedium ChurnRisk = "MEDIUM"
	ChurnHigh   ChurnRisk = "HIGH"
)

// Snapshot is one scoring-run result for one user. Runs append; history is
// kept and reads take the latest row per user
type Snapshot struct {
	UserID          uuid.UUID
	TenantID        string
	HealthScore     int
	EngagementLevel EngagementLevel
	ChurnRisk       ChurnRisk
	CalculatedAt    time.Time
}

// Score maps a windowed activity count to a health score, one point per
// activity, clamped to 100
func Score(activityCount int64) int {
	if activityCount > 100 {
		return 100
	}
	return int(activityCount)
}

// EngagementFor classifies a score; tiers are inclusive on their lower bound
func EngagementFor(score int) EngagementLevel {
	switch {
	case score >= 80:
		return EngagementChampion
	case score >= 20:
		return EngagementContributor
	default:
		return EngagementLurker
	}
}

// ChurnFor classifies a score; tiers are inclusive on their lower bound
func ChurnFor(score int) ChurnRisk {
	switch {
	case score < 10:
		return ChurnHigh
	case score < 50:
		return ChurnMedium
	default:
		return ChurnLow
	}
}
