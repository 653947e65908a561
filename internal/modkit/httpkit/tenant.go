package httpkit

import (
	"net/http"

	perr "forumlake/internal/platform/errors"
	pnet "forumlake/internal/platform/net"
	phttp "forumlake/internal/platform/net/http"
)

// TenantHeader is where the upstream auth gate puts the resolved tenant
const TenantHeader = "X-Tenant-ID"

// RequireTenant reads the tenant header into the request context and rejects
// requests without one. Tenancy itself is decided upstream; this only
// propagates the result
func RequireTenant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tid := r.Header.Get(TenantHeader)
			if tid == "" {
				phttp.RespondError(w, r, perr.InvalidArgf("missing %s header", TenantHeader))
				return
			}
			ctx := pnet.WithTenant(r.Context(), tid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Tenant returns the tenant id for the current request
func Tenant(r *http.Request) string { return pnet.TenantID(r.Context()) }
