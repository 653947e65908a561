package events

import (
	"encoding/json"
	"time"

	perr "forumlake/internal/platform/errors"

	"github.com/google/uuid"
)

// Payload is the tagged union of per-type event bodies
// exactly one concrete struct exists per recognized Type
type Payload interface {
	actor() *uuid.UUID
}

// ThreadDescriptor is the thread shape shared by ThreadCreated and each
// ThreadImported batch item
type ThreadDescriptor struct {
	ThreadID   uuid.UUID  `json:"threadId"`
	CategoryID *uuid.UUID `json:"categoryId,omitempty"`
	AuthorID   uuid.UUID  `json:"authorId"`
	Title      string     `json:"title"`
	Tags       []string   `json:"tags,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (d ThreadDescriptor) validate() error {
	if d.ThreadID == uuid.Nil {
		return perr.JSONErrf("thread payload missing threadId")
	}
	if d.AuthorID == uuid.Nil {
		return perr.JSONErrf("thread payload missing authorId")
	}
	if d.CreatedAt.IsZero() {
		return perr.JSONErrf("thread payload missing createdAt")
	}
	return nil
}

// ThreadCreated announces a new thread
type ThreadCreated struct {
	ThreadDescriptor
}

func (p ThreadCreated) actor() *uuid.UUID { return &p.AuthorID }

// PostCreated announces a reply on an existing thread
type PostCreated struct {
	ThreadID  uuid.UUID `json:"threadId"`
	PostID    uuid.UUID `json:"postId"`
	AuthorID  uuid.UUID `json:"authorId"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p PostCreated) actor() *uuid.UUID { return &p.AuthorID }

// ReactionAdded announces a reaction on a post or thread
type ReactionAdded struct {
	ReactionID uuid.UUID `json:"reactionId"`
	TargetID   uuid.UUID `json:"targetId"`
	ReactorID  uuid.UUID `json:"reactorId"`
	Kind       string    `json:"type,omitempty"`
}

func (p ReactionAdded) actor() *uuid.UUID {
	if p.ReactorID == uuid.Nil {
		return nil
	}
	return &p.ReactorID
}

// SubscriptionCreated announces a user watching a thread or category
type SubscriptionCreated struct {
	SubscriptionID uuid.UUID `json:"subscriptionId"`
	TargetID       uuid.UUID `json:"targetId"`
	SubscriberID   uuid.UUID `json:"subscriberId"`
}

func (p SubscriptionCreated) actor() *uuid.UUID {
	if p.SubscriberID == uuid.Nil {
		return nil
	}
	return &p.SubscriberID
}

// ThreadImported carries a batch of thread descriptors migrated from another system
type ThreadImported struct {
	Threads []ThreadDescriptor
}

func (p ThreadImported) actor() *uuid.UUID { return nil }

// parsePayload decodes the raw payload for recognized types
// unknown types return (nil, nil) so the router can skip them
func parsePayload(t Type, raw json.RawMessage) (Payload, error) {
	switch t {
	case TypeThreadCreated:
		var p ThreadCreated
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "parse %s payload", t)
		}
		if err := p.validate(); err != nil {
			return nil, err
		}
		return p, nil

	case TypePostCreated:
		var p PostCreated
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "parse %s payload", t)
		}
		if p.ThreadID == uuid.Nil {
			return nil, perr.JSONErrf("post payload missing threadId")
		}
		return p, nil

	case TypeReactionAdded:
		var p ReactionAdded
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "parse %s payload", t)
		}
		if p.TargetID == uuid.Nil {
			return nil, perr.JSONErrf("reaction payload missing targetId")
		}
		return p, nil

	case TypeSubscriptionCreated:
		var p SubscriptionCreated
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "parse %s payload", t)
		}
		if p.TargetID == uuid.Nil {
			return nil, perr.JSONErrf("subscription payload missing targetId")
		}
		return p, nil

	case TypeThreadImported:
		// the batch payload is a bare JSON array of descriptors
		var items []ThreadDescriptor
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "parse %s payload", t)
		}
		for _, d := range items {
			if err := d.validate(); err != nil {
				return nil, err
			}
		}
		return ThreadImported{Threads: items}, nil
	}
	return nil, nil
}
