package repo

import (
	"context"

	"forumlake/internal/platform/logger"
	"forumlake/internal/platform/store"
	"forumlake/internal/services/facts/domain"
)

var archiveColumns = []string{
	"id", "occurred_at", "event_id", "tenant_id",
	"user_id", "activity_type", "target_id", "metadata",
}

// Archive mirrors fact rows into ClickHouse for long-horizon analytics.
// Writes happen after the Postgres unit commits and are best-effort only;
// a nil CH handle makes every call a no-op
type Archive struct {
	ch  store.Clickhouse
	log *logger.Logger
}

// NewArchive constructs an Archive; ch may be nil when the mirror is disabled
func NewArchive(ch store.Clickhouse) *Archive {
	return &Archive{ch: ch, log: logger.Named("facts.archive")}
}

// Enabled reports whether mirror writes will actually happen
func (a *Archive) Enabled() bool { return a != nil && a.ch != nil }

// Mirror inserts entries into the archive table, logging failures instead of
// returning them so the mirror can never fail an ingestion
func (a *Archive) Mirror(ctx context.Context, entries ...domain.Entry) {
	if !a.Enabled() || len(entries) == 0 {
		return
	}

	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		var userID, targetID string
		if e.UserID != nil {
			userID = e.UserID.String()
		}
		if e.TargetID != nil {
			targetID = e.TargetID.String()
		}
		rows = append(rows, []any{
			e.ID.String(), e.OccurredAt, e.EventID.String(), e.TenantID,
			userID, string(e.ActivityType), targetID, string(e.Metadata),
		})
	}

	if err := a.ch.Insert(ctx, "fact_activity_archive", archiveColumns, rows); err != nil {
		a.log.Warn().Err(err).Int("rows", len(rows)).Msg("archive mirror failed")
	}
}
