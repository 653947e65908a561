// Package service implements the event router: idempotency guard, per-type
// dispatch, and the atomic fact-plus-aggregate unit of work
package service

import (
	"context"
	"encoding/json"

	"forumlake/internal/core/events"
	"forumlake/internal/core/normalize"
	"forumlake/internal/modkit/repokit"
	perr "forumlake/internal/platform/errors"
	"forumlake/internal/platform/logger"
	factdom "forumlake/internal/services/facts/domain"
	factrepo "forumlake/internal/services/facts/repo"
	thdom "forumlake/internal/services/threads/domain"
	threpo "forumlake/internal/services/threads/repo"

	"github.com/google/uuid"
)

// Service routes envelopes to handlers
// it implements domain.IngestPort
type Service struct {
	db      repokit.TxRunner
	facts   repokit.Binder[factrepo.Storage]
	threads repokit.Binder[threpo.Storage]
	archive *factrepo.Archive
	norm    *normalize.Normalizer
}

// New constructs the router service; archive may be nil
func New(
	db repokit.TxRunner,
	facts repokit.Binder[factrepo.Storage],
	threads repokit.Binder[threpo.Storage],
	archive *factrepo.Archive,
) *Service {
	return &Service{
		db:      db,
		facts:   facts,
		threads: threads,
		archive: archive,
		norm:    normalize.New(),
	}
}

// Ingest implements domain.IngestPort.
// Failure classes that return nil (message handled, ack it): malformed input,
// duplicate event, unrecognized type, idempotency race. Anything else is a
// failed unit of work and comes back as an error so the transport redelivers
func (s *Service) Ingest(ctx context.Context, raw []byte) error {
	log := logger.C(ctx)

	env, err := events.Parse(raw)
	if err != nil {
		log.Error().Err(err).Msg("malformed event dropped")
		return nil
	}

	evLog := log.With().
		Str("event_id", env.EventID.String()).
		Str("event_type", string(env.Type)).
		Str("tenant_id", env.TenantID).
		Logger()

	exists, err := s.facts.Bind(s.db).ExistsByEventID(ctx, env.EventID)
	if err != nil {
		return err
	}
	if exists {
		evLog.Info().Msg("duplicate event, skipped")
		return nil
	}

	var entries []factdom.Entry
	switch p := env.Payload.(type) {
	case events.ThreadCreated:
		entries, err = s.handleThreadCreated(ctx, env, p)
	case events.PostCreated:
		entries, err = s.handlePostCreated(ctx, &evLog, env, p)
	case events.ReactionAdded:
		entries, err = s.appendOnly(ctx, env, factdom.ActivityReaction, p.TargetID)
	case events.SubscriptionCreated:
		entries, err = s.appendOnly(ctx, env, factdom.ActivitySubscriptionCreated, p.TargetID)
	case events.ThreadImported:
		entries, err = s.handleThreadImported(ctx, env, p)
	default:
		evLog.Info().Msg("ignored event type")
		return nil
	}

	if err != nil {
		if perr.IsDuplicateKey(err) {
			// lost the race between the existence check and the write
			evLog.Warn().Msg("idempotency race, skipped")
			return nil
		}
		return err
	}

	s.archive.Mirror(ctx, entries...)
	evLog.Info().Int("facts", len(entries)).Msg("event ingested")
	return nil
}

// entry builds the 1:1 fact shape: the row id is the envelope's event id
func entry(env events.Envelope, t factdom.ActivityType, target *uuid.UUID) factdom.Entry {
	return factdom.Entry{
		ID:           env.EventID,
		OccurredAt:   env.OccurredAt,
		EventID:      env.EventID,
		TenantID:     env.TenantID,
		UserID:       env.Actor(),
		ActivityType: t,
		TargetID:     target,
		Metadata:     env.Raw,
	}
}

func (s *Service) handleThreadCreated(
	ctx context.Context, env events.Envelope, p events.ThreadCreated,
) ([]factdom.Entry, error) {
	agg := thdom.New(
		p.ThreadID, env.TenantID, p.CategoryID, p.AuthorID,
		p.Title, s.norm.Tags(p.Tags), p.CreatedAt,
	)
	threadID := p.ThreadID
	e := entry(env, factdom.ActivityThreadCreated, &threadID)

	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		if err := s.threads.Bind(q).Create(ctx, agg); err != nil {
			return err
		}
		return s.facts.Bind(q).Append(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	return []factdom.Entry{e}, nil
}

func (s *Service) handlePostCreated(
	ctx context.Context, log *logger.Logger, env events.Envelope, p events.PostCreated,
) ([]factdom.Entry, error) {
	threadID := p.ThreadID
	e := entry(env, factdom.ActivityPostCreated, &threadID)

	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		th := s.threads.Bind(q)

		agg, err := th.GetForUpdate(ctx, p.ThreadID)
		switch {
		case perr.IsNotFound(err):
			// out-of-order reply; record the fact, skip the aggregate
			log.Warn().Str("thread_id", p.ThreadID.String()).Msg("reply for unknown thread, aggregate skipped")
		case err != nil:
			return err
		default:
			agg.ApplyReply(env.OccurredAt)
			if err := th.Save(ctx, *agg); err != nil {
				return err
			}
		}

		return s.facts.Bind(q).Append(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	return []factdom.Entry{e}, nil
}

func (s *Service) appendOnly(
	ctx context.Context, env events.Envelope, t factdom.ActivityType, targetID uuid.UUID,
) ([]factdom.Entry, error) {
	e := entry(env, t, &targetID)
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		return s.facts.Bind(q).Append(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	return []factdom.Entry{e}, nil
}

// handleThreadImported fans one envelope out to N aggregates and N fact rows.
// Each row gets a fresh synthetic id so the per-entry key cannot collide, but
// all rows carry the envelope's event id so a redelivered batch is rejected
// as a whole by the existence check
func (s *Service) handleThreadImported(
	ctx context.Context, env events.Envelope, p events.ThreadImported,
) ([]factdom.Entry, error) {
	entries := make([]factdom.Entry, 0, len(p.Threads))

	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		th := s.threads.Bind(q)
		fa := s.facts.Bind(q)

		for _, d := range p.Threads {
			agg := thdom.New(
				d.ThreadID, env.TenantID, d.CategoryID, d.AuthorID,
				d.Title, s.norm.Tags(d.Tags), d.CreatedAt,
			)
			if err := th.Create(ctx, agg); err != nil {
				return err
			}

			meta, err := json.Marshal(d)
			if err != nil {
				return perr.Wrapf(err, perr.ErrorCodeJSON, "marshal import descriptor")
			}
			threadID := d.ThreadID
			e := factdom.Entry{
				ID:           uuid.New(),
				OccurredAt:   env.OccurredAt,
				EventID:      env.EventID,
				TenantID:     env.TenantID,
				ActivityType: factdom.ActivityThreadImported,
				TargetID:     &threadID,
				Metadata:     meta,
			}
			if err := fa.Append(ctx, e); err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
