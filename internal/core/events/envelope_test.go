package events

import (
	"testing"
	"time"

	perr "forumlake/internal/platform/errors"

	"github.com/google/uuid"
)

func TestParse_ThreadCreated(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"eventId": "11111111-1111-1111-1111-111111111111",
		"tenantId": "acme",
		"type": "ThreadCreated",
		"occurredAt": "2026-08-01T10:00:00Z",
		"payload": {
			"threadId": "22222222-2222-2222-2222-222222222222",
			"categoryId": "33333333-3333-3333-3333-333333333333",
			"authorId": "44444444-4444-4444-4444-444444444444",
			"title": "How do I reset my password?",
			"tags": ["account", "login"],
			"createdAt": "2026-08-01T10:00:00Z"
		}
	}`)

	env, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if env.Type != TypeThreadCreated || env.TenantID != "acme" {
		t.Fatalf("envelope = %+v", env)
	}
	p, ok := env.Payload.(ThreadCreated)
	if !ok {
		t.Fatalf("payload type %T", env.Payload)
	}
	if p.Title != "How do I reset my password?" || len(p.Tags) != 2 {
		t.Fatalf("payload = %+v", p)
	}
	if a := env.Actor(); a == nil || *a != p.AuthorID {
		t.Fatalf("actor = %v", a)
	}
}

func TestParse_ThreadImportedBatch(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"eventId": "11111111-1111-1111-1111-111111111111",
		"tenantId": "acme",
		"type": "ThreadImported",
		"occurredAt": "2026-08-01T10:00:00Z",
		"payload": [
			{"threadId": "22222222-2222-2222-2222-222222222222",
			 "authorId": "44444444-4444-4444-4444-444444444444",
			 "title": "a", "createdAt": "2026-07-01T00:00:00Z"},
			{"threadId": "55555555-5555-5555-5555-555555555555",
			 "authorId": "44444444-4444-4444-4444-444444444444",
			 "title": "b", "createdAt": "2026-07-02T00:00:00Z"}
		]
	}`)

	env, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, ok := env.Payload.(ThreadImported)
	if !ok {
		t.Fatalf("payload type %T", env.Payload)
	}
	if len(p.Threads) != 2 {
		t.Fatalf("threads = %d", len(p.Threads))
	}
	if env.Actor() != nil {
		t.Fatalf("batch import has no single actor")
	}
}

func TestParse_UnknownTypeIsNotAnError(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"eventId": "11111111-1111-1111-1111-111111111111",
		"tenantId": "acme",
		"type": "PollClosed",
		"occurredAt": "2026-08-01T10:00:00Z",
		"payload": {"whatever": true}
	}`)

	env, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if env.Payload != nil {
		t.Fatalf("unknown type should carry a nil payload, got %T", env.Payload)
	}
	if env.Actor() != nil {
		t.Fatalf("nil payload has no actor")
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{{`},
		{"missing eventId", `{"tenantId":"a","type":"ThreadCreated","occurredAt":"2026-08-01T10:00:00Z","payload":{}}`},
		{"missing tenantId", `{"eventId":"11111111-1111-1111-1111-111111111111","type":"ThreadCreated","occurredAt":"2026-08-01T10:00:00Z","payload":{}}`},
		{"missing occurredAt", `{"eventId":"11111111-1111-1111-1111-111111111111","tenantId":"a","type":"ThreadCreated","payload":{}}`},
		{
			"bad payload for known type",
			`{"eventId":"11111111-1111-1111-1111-111111111111","tenantId":"a","type":"ThreadCreated",` +
				`"occurredAt":"2026-08-01T10:00:00Z","payload":{"title":"no ids"}}`,
		},
		{
			"post missing threadId",
			`{"eventId":"11111111-1111-1111-1111-111111111111","tenantId":"a","type":"PostCreated",` +
				`"occurredAt":"2026-08-01T10:00:00Z","payload":{"content":"hi"}}`,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tc.raw))
			if !perr.IsCode(err, perr.ErrorCodeJSON) {
				t.Fatalf("want json error, got %v", err)
			}
		})
	}
}

func TestActor_PerType(t *testing.T) {
	t.Parallel()

	author := uuid.New()
	reactor := uuid.New()
	sub := uuid.New()
	now := time.Now()

	cases := []struct {
		name string
		env  Envelope
		want *uuid.UUID
	}{
		{"post author", Envelope{Payload: PostCreated{AuthorID: author, ThreadID: uuid.New(), CreatedAt: now}}, &author},
		{"reactor", Envelope{Payload: ReactionAdded{ReactorID: reactor, TargetID: uuid.New()}}, &reactor},
		{"subscriber", Envelope{Payload: SubscriptionCreated{SubscriberID: sub, TargetID: uuid.New()}}, &sub},
		{"reaction without reactor", Envelope{Payload: ReactionAdded{TargetID: uuid.New()}}, nil},
	}
	for _, tc := range cases {
		got := tc.env.Actor()
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("%s: want nil actor, got %v", tc.name, got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Errorf("%s: actor = %v, want %v", tc.name, got, tc.want)
		}
	}
}
