// Package http provides http transport for analytics
package http

import (
	stdhttp "net/http"

	"forumlake/internal/modkit/httpkit"
	"forumlake/internal/platform/net/http/bind"
	"forumlake/internal/services/api/analytics/domain"
)

// Register mounts analytics endpoints on the given router
func Register(r httpkit.Router, s domain.QueryPort) {
	h := &handlers{svc: s}

	// community health
	httpkit.Get(r, "/activity", h.activity)
	httpkit.Get(r, "/responsiveness", h.responsiveness)

	// roi and value
	httpkit.Get(r, "/deflection-savings", h.deflectionSavings)
	httpkit.Get(r, "/champions", h.champions)
	httpkit.Get(r, "/churn-risk", h.churnRisk)

	// operational queues
	httpkit.Get(r, "/stale-threads", h.staleThreads)
	httpkit.Get(r, "/unanswered-threads", h.unansweredThreads)
}

type handlers struct{ svc domain.QueryPort }

// @Summary Daily active users over the trailing 30 days
// @Tags Analytics
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Success 200 {array} domain.ActivityPoint "ok"
// @Router /analytics/v1/activity [get]
func (h *handlers) activity(r *stdhttp.Request) (any, error) {
	return h.svc.Activity(r.Context(), httpkit.Tenant(r))
}

// @Summary Answer rate and median first-response time
// @Tags Analytics
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Success 200 {object} domain.Responsiveness "ok"
// @Router /analytics/v1/responsiveness [get]
func (h *handlers) responsiveness(r *stdhttp.Request) (any, error) {
	return h.svc.Responsiveness(r.Context(), httpkit.Tenant(r))
}

// @Summary Support cost avoided by answered threads
// @Tags Analytics
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param cost_per_ticket query number false "Cost override"
// @Success 200 {object} domain.DeflectionSavings "ok"
// @Router /analytics/v1/deflection-savings [get]
func (h *handlers) deflectionSavings(r *stdhttp.Request) (any, error) {
	in, err := bind.Query[domain.DeflectionIn](r)
	if err != nil {
		return nil, err
	}
	return h.svc.DeflectionSavings(r.Context(), httpkit.Tenant(r), in.CostPerTicket)
}

// @Summary Members at CHAMPION engagement, latest snapshot per user
// @Tags Analytics
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Success 200 {array} domain.Member "ok"
// @Router /analytics/v1/champions [get]
func (h *handlers) champions(r *stdhttp.Request) (any, error) {
	return h.svc.Champions(r.Context(), httpkit.Tenant(r))
}

// @Summary Members at the given churn tier, latest snapshot per user
// @Tags Analytics
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param threshold query string false "low, medium or high" default(high)
// @Success 200 {array} domain.Member "ok"
// @Router /analytics/v1/churn-risk [get]
func (h *handlers) churnRisk(r *stdhttp.Request) (any, error) {
	in, err := bind.Query[domain.ChurnIn](r)
	if err != nil {
		return nil, err
	}
	return h.svc.ChurnRisk(r.Context(), httpkit.Tenant(r), in.Threshold)
}

// @Summary Open threads idle past the given number of days
// @Tags Analytics
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param days query int false "Idle days" default(7)
// @Success 200 {array} domain.Thread "ok"
// @Router /analytics/v1/stale-threads [get]
func (h *handlers) staleThreads(r *stdhttp.Request) (any, error) {
	in, err := bind.Query[domain.StaleIn](r)
	if err != nil {
		return nil, err
	}
	return h.svc.StaleThreads(r.Context(), httpkit.Tenant(r), in.Days)
}

// @Summary Open zero-reply threads older than the given number of hours
// @Tags Analytics
// @Produce json
// @Param X-Tenant-ID header string true "Tenant"
// @Param hours query int false "Age hours" default(24)
// @Success 200 {array} domain.Thread "ok"
// @Router /analytics/v1/unanswered-threads [get]
func (h *handlers) unansweredThreads(r *stdhttp.Request) (any, error) {
	in, err := bind.Query[domain.UnansweredIn](r)
	if err != nil {
		return nil, err
	}
	return h.svc.UnansweredThreads(r.Context(), httpkit.Tenant(r), in.Hours)
}
