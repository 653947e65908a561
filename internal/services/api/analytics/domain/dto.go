// Package domain defines the analytics read DTOs and query inputs
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityPoint is one day of the daily-active-users series
type ActivityPoint struct {
	Day         time.Time `json:"day"`
	ActiveUsers int64     `json:"activeUsers"`
}

// Responsiveness summarizes how well threads get answered
type Responsiveness struct {
	AnswerRate                float64  `json:"answerRate"`
	MedianResponseTimeMinutes *float64 `json:"medianResponseTimeMinutes"`
}

// DeflectionSavings estimates support cost avoided by solved threads
type DeflectionSavings struct {
	SolvedThreads int64   `json:"solvedThreads"`
	CostPerTicket float64 `json:"costPerTicket"`
	Savings       float64 `json:"savings"`
}

// Member is the read shape of a member health snapshot
type Member struct {
	UserID          uuid.UUID `json:"userId"`
	HealthScore     int       `json:"healthScore"`
	EngagementLevel string    `json:"engagementLevel"`
	ChurnRisk       string    `json:"churnRisk"`
	CalculatedAt    time.Time `json:"calculatedAt"`
}

// Thread is the read shape of a thread aggregate
type Thread struct {
	ThreadID            uuid.UUID `json:"threadId"`
	Title               string    `json:"title"`
	Status              string    `json:"status"`
	Tags                []string  `json:"tags,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	LastActivityAt      time.Time `json:"lastActivityAt"`
	ReplyCount          int       `json:"replyCount"`
	IsAnswered          bool      `json:"isAnswered"`
	ResponseTimeMinutes *int      `json:"responseTimeMinutes,omitempty"`
}

// DeflectionIn carries the optional cost override
type DeflectionIn struct {
	CostPerTicket float64 `query:"cost_per_ticket" validate:"omitempty,min=0"`
}

// ChurnIn selects the churn tier to list
type ChurnIn struct {
	Threshold string `query:"threshold" validate:"omitempty,oneof=low medium high"`
}

// StaleIn bounds the idle window for stale threads
type StaleIn struct {
	Days int `query:"days" validate:"omitempty,min=1,max=365"`
}

// UnansweredIn bounds the age window for unanswered threads
type UnansweredIn struct {
	Hours int `query:"hours" validate:"omitempty,min=1,max=8760"`
}
