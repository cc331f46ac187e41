package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newAuthedRouter(keys map[string]string) http.Handler {
	mux := chi.NewRouter()
	mux.Use(APIKeyAuth(keys))
	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Use(RequireValidTenant)
		rt.Get("/summary", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(GetTenantFromContext(r.Context())))
		})
	})
	return mux
}

func TestAPIKeyAuth(t *testing.T) {
	h := newAuthedRouter(map[string]string{"acme": "secret-key-1"})

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/summary", nil)
	req.Header.Set("Authorization", "Bearer secret-key-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", rec.Body.String())

	// bare key without Bearer prefix is accepted too
	req2 := httptest.NewRequest(http.MethodGet, "/v1/acme/summary", nil)
	req2.Header.Set("Authorization", "secret-key-1")
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusOK, rec2.Code)
}

func TestAPIKeyAuthRejections(t *testing.T) {
	h := newAuthedRouter(map[string]string{"acme": "secret-key-1"})

	// missing header
	req := httptest.NewRequest(http.MethodGet, "/v1/acme/summary", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// wrong key
	req2 := httptest.NewRequest(http.MethodGet, "/v1/acme/summary", nil)
	req2.Header.Set("Authorization", "Bearer wrong")
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
}

func TestRequireValidTenantMismatch(t *testing.T) {
	h := newAuthedRouter(map[string]string{"acme": "secret-key-1"})

	// valid key, but addressed to someone else's tenant
	req := httptest.NewRequest(http.MethodGet, "/v1/rival/summary", nil)
	req.Header.Set("Authorization", "Bearer secret-key-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPIKeyAuthSkipsHealth(t *testing.T) {
	mux := chi.NewRouter()
	mux.Use(APIKeyAuth(map[string]string{"acme": "secret-key-1"}))
	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
