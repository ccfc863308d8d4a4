package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/forgo/jobboard/internal/model"
)

// captureHandler records the request context it was called with
type captureHandler struct {
	ctx    context.Context
	called bool
}

func (h *captureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.ctx = r.Context()
	h.called = true
	w.WriteHeader(http.StatusOK)
}

// ============================================================================
// Chain Tests
// ============================================================================

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

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	Chain(handler, tag("1"), tag("2"), tag("3")).ServeHTTP(rr, req)

	if rr.Body.String() != "123H" {
		t.Errorf("expected '123H', got %q", rr.Body.String())
	}
}

func TestChain_NoMiddlewares_ReturnsHandler(t *testing.T) {
	t.Parallel()

	h := &captureHandler{}
	rr := httptest.NewRecorder()
	Chain(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if !h.called {
		t.Error("expected handler to be called")
	}
}

// ============================================================================
// RequestID Tests
// ============================================================================

func TestRequestID_NoHeader_GeneratesUUID(t *testing.T) {
	t.Parallel()

	handler := &captureHandler{}
	rr := httptest.NewRecorder()
	RequestID(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	responseID := rr.Header().Get("X-Request-ID")
	if len(responseID) != 36 || strings.Count(responseID, "-") != 4 {
		t.Errorf("expected a UUID, got %q", responseID)
	}
	if GetRequestID(handler.ctx) != responseID {
		t.Errorf("context ID (%q) should match response header (%q)", GetRequestID(handler.ctx), responseID)
	}
}

func TestRequestID_WithHeader_PreservesExisting(t *testing.T) {
	t.Parallel()

	handler := &captureHandler{}
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", "existing-request-id")
	rr := httptest.NewRecorder()

	RequestID(handler).ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-ID") != "existing-request-id" {
		t.Errorf("expected preserved ID, got %q", rr.Header().Get("X-Request-ID"))
	}
	if GetRequestID(handler.ctx) != "existing-request-id" {
		t.Errorf("expected context ID 'existing-request-id', got %q", GetRequestID(handler.ctx))
	}
}

func TestRequestID_OversizedHeader_Replaced(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 200))
	rr := httptest.NewRecorder()

	RequestID(&captureHandler{}).ServeHTTP(rr, req)

	if len(rr.Header().Get("X-Request-ID")) != 36 {
		t.Errorf("expected oversized ID to be replaced, got %q", rr.Header().Get("X-Request-ID"))
	}
}

func TestGetRequestID_WrongType_ReturnsEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), RequestIDKey, 12345)
	if got := GetRequestID(ctx); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

// ============================================================================
// Logger Tests
// ============================================================================

func TestLogger_PassesThroughStatus(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		noteUser(r.Context(), 42)
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	Logger(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/brew", nil))

	if rr.Code != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", rr.Code)
	}
}

func TestNoteUser_WithoutLogger_IsNoop(t *testing.T) {
	t.Parallel()
	noteUser(context.Background(), 1)
}

func TestResponseWriter_CapturesImplicitOK(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rr, statusCode: http.StatusOK}
	_, _ = rw.Write([]byte("x"))
	rw.WriteHeader(http.StatusInternalServerError)

	if rw.statusCode != http.StatusOK {
		t.Errorf("expected first status to stick, got %d", rw.statusCode)
	}
	if rr.Code != http.StatusOK {
		t.Errorf("expected recorder status 200, got %d", rr.Code)
	}
}

// ============================================================================
// Recovery Tests
// ============================================================================

func TestRecovery_Panic_Returns500ProblemDetails(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	Recovery(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/jobs", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected problem+json, got %q", ct)
	}

	var problem model.ProblemDetails
	if err := json.Unmarshal(rr.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if problem.Code != model.ErrCodeInternal || problem.Instance != "/v1/jobs" {
		t.Errorf("unexpected problem: %+v", problem)
	}
	if strings.Contains(rr.Body.String(), "boom") {
		t.Error("panic value must not leak into the response")
	}
}

func TestRecovery_NoPanic_PassesThrough(t *testing.T) {
	t.Parallel()

	h := &captureHandler{}
	rr := httptest.NewRecorder()
	Recovery(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if !h.called || rr.Code != http.StatusOK {
		t.Errorf("expected handler to run normally, got %d", rr.Code)
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

	CORS([]string{"http://localhost:3000"})(&captureHandler{}).ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("expected origin echoed, got %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), "PUT") {
		t.Error("expected PUT in allowed methods")
	}
}

func TestCORS_DisallowedOrigin_NoHeader(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.test")
	rr := httptest.NewRecorder()

	CORS([]string{"http://localhost:3000"})(&captureHandler{}).ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Errorf("expected no allow-origin header, got %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORS_Preflight_ShortCircuits(t *testing.T) {
	t.Parallel()

	h := &captureHandler{}
	req := httptest.NewRequest(http.MethodOptions, "/v1/jobs", nil)
	req.Header.Set("Origin", "http://a.test")
	rr := httptest.NewRecorder()

	CORS([]string{"*"})(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
	if h.called {
		t.Error("preflight should not reach the handler")
	}
}
