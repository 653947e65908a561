// Package http provides the supplementary HTTP intake for the ingestor.
// The queue is the primary transport; this endpoint exists for local tooling
// and producers that cannot reach the broker
package http

import (
	"encoding/json"
	stdhttp "net/http"

	"forumlake/internal/modkit/httpkit"
	"forumlake/internal/services/ingestor/domain"
)

// IngestRequest carries a batch of raw envelopes
type IngestRequest struct {
	Events []json.RawMessage `json:"events" validate:"required,min=1,max=500"`
}

// IngestResponse reports how many envelopes were accepted
type IngestResponse struct {
	Accepted int `json:"accepted"`
}

// Register mounts the intake endpoint on the given router
func Register(r httpkit.Router, svc domain.IngestPort) {
	h := &handlers{svc: svc}
	httpkit.PostJSON[IngestRequest](r, "/events", h.ingest)
}

type handlers struct{ svc domain.IngestPort }

// @Summary Ingest a batch of event envelopes
// @Tags Ingest
// @Accept json
// @Produce json
// @Param payload body IngestRequest true "Envelope batch"
// @Success 200 {object} IngestResponse "ok"
// @Router /ingest/v1/events [post]
func (h *handlers) ingest(r *stdhttp.Request, in IngestRequest) (any, error) {
	accepted := 0
	for _, raw := range in.Events {
		if err := h.svc.Ingest(r.Context(), raw); err != nil {
			// unit-of-work failure: report what landed so the caller can resend the rest
			return IngestResponse{Accepted: accepted}, err
		}
		accepted++
	}
	return IngestResponse{Accepted: accepted}, nil
}
