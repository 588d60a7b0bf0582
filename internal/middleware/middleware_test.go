package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// ============================================================================
// Chain Tests
// ============================================================================

func TestChain_NoMiddlewares_ReturnsHandler(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Chain(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rr.Body.String() != "ok" {
		t.Errorf("expected body 'ok', got %q", rr.Body.String())
	}
}

func TestChain_MultipleMiddlewares_AppliesInOrder(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("H"))
	})
	tag := func(s string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(s))
				next.ServeHTTP(w, r)
			})
		}
	}

	rr := httptest.NewRecorder()
	Chain(handler, tag("1"), tag("2"), tag("3")).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Body.String() != "123H" {
		t.Errorf("expected '123H', got %q", rr.Body.String())
	}
}

// ============================================================================
// RequestID Tests
// ============================================================================

func TestRequestID_NoHeader_GeneratesUUID(t *testing.T) {
	t.Parallel()

	var ctxID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = GetRequestID(r.Context())
	})

	rr := httptest.NewRecorder()
	RequestID(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	headerID := rr.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(headerID); err != nil {
		t.Errorf("expected uuid request id, got %q", headerID)
	}
	if ctxID != headerID {
		t.Errorf("context id %q should match header id %q", ctxID, headerID)
	}
}

func TestRequestID_WithHeader_PreservesExisting(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id")

	rr := httptest.NewRecorder()
	RequestID(okHandler()).ServeHTTP(rr, req)

	if got := rr.Header().Get(RequestIDHeader); got != "client-id" {
		t.Errorf("expected 'client-id', got %q", got)
	}
}

func TestGetRequestID_Missing_ReturnsEmpty(t *testing.T) {
	t.Parallel()

	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
	ctx := context.WithValue(context.Background(), RequestIDKey, 42)
	if got := GetRequestID(ctx); got != "" {
		t.Errorf("wrong type should yield empty, got %q", got)
	}
}

// ============================================================================
// Recovery Tests
// ============================================================================

func TestRecovery_NoPanic_ProceedsNormally(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Recovery(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
}

func TestRecovery_WithPanic_ReturnsProblem(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	Recovery(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("unexpected content type %q", ct)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("body should be valid JSON: %v", err)
	}
	if body["status"] != float64(500) {
		t.Errorf("expected status 500 in body, got %v", body["status"])
	}
}

// ============================================================================
// CORS Tests
// ============================================================================

func TestCORS_AllowedOrigin_SetsHeader(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	rr := httptest.NewRecorder()
	CORS([]string{"http://localhost:3000"})(okHandler()).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("expected origin echoed, got %q", got)
	}
}

func TestCORS_DisallowedOrigin_NoHeader(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")

	rr := httptest.NewRecorder()
	CORS([]string{"http://localhost:3000"})(okHandler()).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin, got %q", got)
	}
}

func TestCORS_Wildcard_AllowsAny(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://anything.example")

	rr := httptest.NewRecorder()
	CORS([]string{"*"})(okHandler()).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://anything.example" {
		t.Errorf("expected origin echoed, got %q", got)
	}
}

func TestCORS_Preflight_Returns204(t *testing.T) {
	t.Parallel()

	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	rr := httptest.NewRecorder()
	CORS([]string{"*"})(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/v1/games", nil))

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
	if called {
		t.Error("preflight must not reach the handler")
	}
	if rr.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("expected allow-methods header")
	}
}

// ============================================================================
// Logger / responseWriter Tests
// ============================================================================

func TestLogger_PassesThrough(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	Logger(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", rr.Code)
	}
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	t.Parallel()

	rw := wrapResponseWriter(httptest.NewRecorder())
	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusCreated, rw.statusCode)
}

func TestResponseWriter_DefaultsToOK(t *testing.T) {
	t.Parallel()

	rw := wrapResponseWriter(httptest.NewRecorder())
	_, _ = rw.Write([]byte("x"))
	rw.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusOK, rw.statusCode, "status is fixed once the body starts")
}

// ============================================================================
// Metrics Tests
// ============================================================================

type observation struct {
	method string
	route  string
	status int
}

type fakeHTTPRecorder struct {
	mu  sync.Mutex
	obs []observation
}

func (f *fakeHTTPRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.obs = append(f.obs, observation{method, route, status})
}

func TestMetrics_RecordsMatchedPattern(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/games/{gameId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	rec := &fakeHTTPRecorder{}
	handler := Chain(mux, RequestID, Logger, Recovery, CORS(nil), Metrics(rec))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/games/game:abc", nil))

	require.Len(t, rec.obs, 1)
	assert.Equal(t, observation{"GET", "GET /v1/games/{gameId}", http.StatusNotFound}, rec.obs[0])
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	t.Parallel()

	rec := &fakeHTTPRecorder{}
	handler := Metrics(rec)(http.NewServeMux())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Len(t, rec.obs, 1)
	assert.Equal(t, UnmatchedRoute, rec.obs[0].route)
	assert.Equal(t, http.StatusNotFound, rec.obs[0].status)
}

func TestMetrics_NilRecorder_PassesThrough(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Metrics(nil)(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}
