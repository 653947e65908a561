// Package events defines the event envelope and the typed payload union
// consumed by the ingestion router
package events

import (
	"encoding/json"
	"strings"
	"time"

	perr "forumlake/internal/platform/errors"

	"github.com/google/uuid"
)

// Type names an upstream event kind. Producers own the vocabulary; unknown
// values are carried through and ignored downstream
type Type string

// Known event types
const (
	TypeThreadCreated       Type = "ThreadCreated"
	TypePostCreated         Type = "PostCreated"
	TypeReactionAdded       Type = "ReactionAdded"
	TypeSubscriptionCreated Type = "SubscriptionCreated"
	TypeThreadImported      Type = "ThreadImported"
)

// Envelope is the immutable unit of input
// Payload is nil when Type is not one we recognize
type Envelope struct {
	EventID    uuid.UUID
	TenantID   string
	Type       Type
	OccurredAt time.Time
	Payload    Payload
	Raw        json.RawMessage
}

// wire is the JSON shape produced upstream
type wire struct {
	EventID    uuid.UUID       `json:"eventId"`
	TenantID   string          `json:"tenantId"`
	Type       Type            `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Parse decodes and validates one envelope, parsing the payload exactly once.
// A recognized type with a malformed payload is an error; an unrecognized
// type yields a nil Payload and no error
func Parse(raw []byte) (Envelope, error) {
	var w wire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Envelope{}, perr.Wrapf(err, perr.ErrorCodeJSON, "parse envelope")
	}
	if w.EventID == uuid.Nil {
		return Envelope{}, perr.JSONErrf("envelope missing eventId")
	}
	if strings.TrimSpace(w.TenantID) == "" {
		return Envelope{}, perr.JSONErrf("envelope missing tenantId")
	}
	if w.Type == "" {
		return Envelope{}, perr.JSONErrf("envelope missing type")
	}
	if w.OccurredAt.IsZero() {
		return Envelope{}, perr.JSONErrf("envelope missing occurredAt")
	}

	env := Envelope{
		EventID:    w.EventID,
		TenantID:   w.TenantID,
		Type:       w.Type,
		OccurredAt: w.OccurredAt,
		Raw:        w.Payload,
	}

	p, err := parsePayload(w.Type, w.Payload)
	if err != nil {
		return Envelope{}, err
	}
	env.Payload = p
	return env, nil
}

// Actor returns the user behind the event, when the payload names one
func (e Envelope) Actor() *uuid.UUID {
	if e.Payload == nil {
		return nil
	}
	return e.Payload.actor()
}
