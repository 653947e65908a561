package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "forumlake/internal/platform/errors"
	phttp "forumlake/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func newTestRouter() Router { return phttp.AdaptChi(chi.NewRouter()) }

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v\n%s", err, rec.Body.String())
	}
	return env
}

func TestGet_WrapsResultInEnvelope(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	Get(r, "/ping", func(*http.Request) (any, error) {
		return map[string]string{"pong": "ok"}, nil
	})

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	data, ok := env.Data.(map[string]any)
	if !ok || data["pong"] != "ok" {
		t.Fatalf("Data = %#v", env.Data)
	}
}

func TestGet_MapsErrorsToStatus(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	Get(r, "/missing", func(*http.Request) (any, error) {
		return nil, perr.NotFoundf("no such thing")
	})

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == "" {
		t.Fatalf("envelope carries no error: %+v", env)
	}
}

func TestPostJSON_BindsAndValidates(t *testing.T) {
	t.Parallel()

	type echoIn struct {
		Name string `json:"name" validate:"required"`
	}
	r := newTestRouter()
	PostJSON(r, "/echo", func(_ *http.Request, in echoIn) (any, error) {
		return in.Name, nil
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"fern"}`))
	req.Header.Set("Content-Type", "application/json")
	r.Mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if env := decodeEnvelope(t, rec); env.Data != "fern" {
		t.Fatalf("Data = %#v", env.Data)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.Mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}
