package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/forgo/jobboard/internal/cache"
	"github.com/forgo/jobboard/internal/model"
)

const maxIdempotentBody = 1 << 20

// ResponseCache holds completed responses
type ResponseCache interface {
	Get(key string) (any, bool)
	Set(key string, value any, p cache.Policy)
}

// IdempotencyStore tracks requests carrying an Idempotency-Key. Completed
// responses live in a cache; requests still running are tracked here so a
// retry waits for the first attempt instead of executing twice.
type IdempotencyStore struct {
	responses ResponseCache
	owned     *cache.Store
	ttl       time.Duration

	mu       sync.Mutex
	inFlight map[string]chan struct{}
}

type storedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	Cache ResponseCache // Default: a private cache.Store
	TTL   time.Duration // How long to keep results (default 24h)
}

// NewIdempotencyStore creates a new idempotency store
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}

	s := &IdempotencyStore{
		responses: cfg.Cache,
		ttl:       cfg.TTL,
		inFlight:  make(map[string]chan struct{}),
	}
	if s.responses == nil {
		s.owned = cache.New(cache.Config{MaxEntries: 10000, CleanupInterval: time.Hour})
		s.responses = s.owned
	}
	return s
}

// Stop releases the private cache, if any
func (s *IdempotencyStore) Stop() {
	if s.owned != nil {
		s.owned.Close()
	}
}

// begin returns a stored response for key, or claims the key. When another
// request holds the claim it waits for that request to finish first.
func (s *IdempotencyStore) begin(key string) (*storedResponse, bool) {
	for {
		if v, ok := s.responses.Get(key); ok {
			if resp, ok := v.(*storedResponse); ok {
				return resp, false
			}
		}

		s.mu.Lock()
		wait, busy := s.inFlight[key]
		if !busy {
			// Re-check under the lock; the holder may have finished in between
			if v, ok := s.responses.Get(key); ok {
				if resp, ok := v.(*storedResponse); ok {
					s.mu.Unlock()
					return resp, false
				}
			}
			s.inFlight[key] = make(chan struct{})
			s.mu.Unlock()
			return nil, true
		}
		s.mu.Unlock()
		<-wait
	}
}

// finish stores resp (when non-nil) and releases the claim on key
func (s *IdempotencyStore) finish(key string, resp *storedResponse) {
	if resp != nil {
		s.responses.Set(key, resp, cache.Policy{Absolute: s.ttl, Priority: cache.PriorityHigh})
	}

	s.mu.Lock()
	if ch, ok := s.inFlight[key]; ok {
		delete(s.inFlight, key)
		close(ch)
	}
	s.mu.Unlock()
}

// generateKey creates a unique key from caller, idempotency key, and request fingerprint
func generateKey(caller, idempotencyKey, method, path string, body []byte) string {
	h := sha256.New()
	for _, part := range []string{caller, idempotencyKey, method, path} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(body)
	return "idem_" + hex.EncodeToString(h.Sum(nil))
}

// idempotencyResponseWriter captures the response for caching
type idempotencyResponseWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *idempotencyResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *idempotencyResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency returns middleware that replays the stored response when a
// POST or PUT is retried with the same Idempotency-Key and body. Server
// errors are not stored so the client can retry them.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := r.Header.Get("Idempotency-Key")
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(idempotencyKey) > 255 {
				model.NewBadRequestError("Idempotency-Key must be at most 255 characters").WriteJSON(w)
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIdempotentBody))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					model.NewBadRequestError("request body is too large").WriteJSON(w)
					return
				}
				model.NewBadRequestError("failed to read request body").WriteJSON(w)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := generateKey(clientKey(r), idempotencyKey, r.Method, r.URL.Path, body)

			stored, claimed := store.begin(key)
			if !claimed {
				replay(w, stored)
				return
			}

			irw := &idempotencyResponseWriter{ResponseWriter: w, status: http.StatusOK}
			var result *storedResponse
			defer func() { store.finish(key, result) }()

			next.ServeHTTP(irw, r)

			if irw.status < http.StatusInternalServerError {
				result = &storedResponse{
					status:  irw.status,
					headers: irw.Header().Clone(),
					body:    bytes.Clone(irw.body.Bytes()),
				}
			}
		})
	}
}

func replay(w http.ResponseWriter, resp *storedResponse) {
	for k, v := range resp.headers {
		if k == "X-Request-Id" || k == "X-Ratelimit-Remaining" {
			continue
		}
		w.Header()[k] = append([]string(nil), v...)
	}
	w.Header().Set("X-Idempotency-Replayed", "true")
	w.WriteHeader(resp.status)
	_, _ = w.Write(resp.body)
}
