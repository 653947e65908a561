// Package domain defines the mutable per-thread summary aggregate
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the thread lifecycle state
type Status string

// Thread statuses
const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
	StatusSolved Status = "SOLVED"
)

// Aggregate is the per-thread summary, created once and then mutated in place
// by reply events. ResponseTimeMinutes is set on the first reply and never
// recomputed; ReplyCount counts the replies successfully applied
type Aggregate struct {
	ThreadID            uuid.UUID
	TenantID            string
	CategoryID          *uuid.UUID
	AuthorID            uuid.UUID
	Title               string
	Status              Status
	Tags                []string
	CreatedAt           time.Time
	LastActivityAt      time.Time
	ResponseTimeMinutes *int
	IsAnswered          bool
	ReplyCount          int
}

// New builds the creation-time shape of an aggregate
func New(threadID uuid.UUID, tenantID string, categoryID *uuid.UUID, authorID uuid.UUID,
	title string, tags []string, createdAt time.Time,
) Aggregate {
	return Aggregate{
		ThreadID:       threadID,
		TenantID:       tenantID,
		CategoryID:     categoryID,
		AuthorID:       authorID,
		Title:          title,
		Status:         StatusOpen,
		Tags:           tags,
		CreatedAt:      createdAt,
		LastActivityAt: createdAt,
	}
}

// ApplyReply advances the aggregate for one reply at occurredAt.
// The first reply fixes ResponseTimeMinutes as the whole-minute gap since
// creation; later replies leave it untouched
func (a *Aggregate) ApplyReply(occurredAt time.Time) {
	a.LastActivityAt = occurredAt
	a.ReplyCount++
	if a.ReplyCount == 1 {
		m := int(occurredAt.Sub(a.CreatedAt) / time.Minute)
		a.ResponseTimeMinutes = &m
	}
}
