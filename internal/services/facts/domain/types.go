// Package domain defines the types for the append-only activity fact log
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActivityType classifies one fact log entry
type ActivityType string

// Activity types recorded by the ingestion handlers
const (
	ActivityThreadCreated       ActivityType = "THREAD_CREATED"
	ActivityPostCreated         ActivityType = "POST_CREATED"
	ActivityReaction            ActivityType = "REACTION"
	ActivitySubscriptionCreated ActivityType = "SUBSCRIPTION_CREATED"
	ActivityThreadImported      ActivityType = "THREAD_IMPORTED"
)

// Entry is one fact log row. The key is (ID, OccurredAt); EventID exists only
// for the idempotency check and is shared by every row a fan-out event produces
type Entry struct {
	ID           uuid.UUID
	OccurredAt   time.Time
	EventID      uuid.UUID
	TenantID     string
	UserID       *uuid.UUID
	ActivityType ActivityType
	TargetID     *uuid.UUID
	Metadata     json.RawMessage
}

// UserActivityRow is one (user, tenant) activity count over a window
type UserActivityRow struct {
	UserID   uuid.UUID
	TenantID string
	Count    int64
}

// DailyActiveRow is one point of the daily-active-users series
type DailyActiveRow struct {
	Day   time.Time
	Count int64
}
