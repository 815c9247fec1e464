package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/auth"
	"github.com/pribylovaa/valet/internal/config"
	apierrors "github.com/pribylovaa/valet/internal/errors"
	"github.com/pribylovaa/valet/pkg/log"
	"github.com/stretchr/testify/require"
)

// capHandler — slog.Handler без I/O: копит базовые attrs из With и attrs последней записи.
type capHandler struct {
	base    []slog.Attr
	lastMsg string
	lastLvl slog.Level
	attrs   map[string]any
	count   int
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	out := make(map[string]any, len(h.base)+8)
	for _, a := range h.base {
		out[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})

	h.count++
	h.lastMsg = r.Message
	h.lastLvl = r.Level
	h.attrs = out

	return nil
}

func (h *capHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.base = append(h.base, attrs...)
	return h
}

func (h *capHandler) WithGroup(string) slog.Handler { return h }

func decodeErr(t *testing.T, rr *httptest.ResponseRecorder) apierrors.ErrorResponse {
	t.Helper()

	var env apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestChain_Order(t *testing.T) {
	order := []string{}

	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name+"-begin")
				next.ServeHTTP(w, r)
				order = append(order, name+"-end")
			})
		}
	}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	Chain(final, mw("m1"), mw("m2")).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/chain", nil))

	require.Equal(t, []string{"m1-begin", "m2-begin", "handler", "m2-end", "m1-end"}, order)
	require.Equal(t, http.StatusTeapot, rr.Code)
}

func TestRequestID_GenerateAndKeep(t *testing.T) {
	var seen string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(HeaderRequestID)
	})

	rr := httptest.NewRecorder()
	Chain(h, RequestID()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/rid", nil))

	_, err := uuid.Parse(rr.Header().Get(HeaderRequestID))
	require.NoError(t, err)
	require.Equal(t, rr.Header().Get(HeaderRequestID), seen)

	req := httptest.NewRequest(http.MethodGet, "/rid", nil)
	req.Header.Set(HeaderRequestID, "given-id")
	rr = httptest.NewRecorder()
	Chain(h, RequestID()).ServeHTTP(rr, req)

	require.Equal(t, "given-id", rr.Header().Get(HeaderRequestID))
	require.Equal(t, "given-id", seen)
}

func TestTimeout_SetsDeadline_WhenAbsent(t *testing.T) {
	var hasDeadline bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	})

	Chain(h, Timeout(50*time.Millisecond)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/t", nil))
	require.True(t, hasDeadline)

	hasDeadline = false
	Chain(h, Timeout(0)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/t", nil))
	require.False(t, hasDeadline)
}

func TestTimeout_DoesNotOverrideExistingDeadline(t *testing.T) {
	var childDL time.Time
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		childDL, _ = r.Context().Deadline()
	})

	parent, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	Chain(h, Timeout(time.Second)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/t", nil).WithContext(parent))

	parentDL, _ := parent.Deadline()
	require.WithinDuration(t, parentDL, childDL, time.Millisecond)
}

func TestRecover_ConvertsPanicTo500(t *testing.T) {
	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	Chain(panicHandler, Recover()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "internal", decodeErr(t, rr).Error.Code)
}

func TestLogging_WritesRecord(t *testing.T) {
	h := &capHandler{}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	})

	req := httptest.NewRequest(http.MethodGet, "/log", nil)
	req.Header.Set(HeaderRequestID, "rid-456")
	rr := httptest.NewRecorder()
	Chain(final, RequestID(), Logging(slog.New(h))).ServeHTTP(rr, req)

	require.Equal(t, 1, h.count)
	require.Equal(t, "http", h.lastMsg)
	require.Equal(t, slog.LevelInfo, h.lastLvl)
	require.Equal(t, "rid-456", h.attrs["request_id"])
	require.Equal(t, "/log", h.attrs["path"])
	require.EqualValues(t, 200, h.attrs["status"])
	require.EqualValues(t, 10, h.attrs["bytes"])
}

func TestLogging_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		want   slog.Level
	}{
		{http.StatusNoContent, slog.LevelInfo},
		{http.StatusNotFound, slog.LevelWarn},
		{http.StatusServiceUnavailable, slog.LevelError},
	}

	for _, tc := range tests {
		h := &capHandler{}
		final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		})

		Chain(final, Logging(slog.New(h))).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, tc.want, h.lastLvl)
	}
}

func TestAuth(t *testing.T) {
	v := auth.NewVerifier(config.AuthConfig{JWTSecret: "s3cret"})
	owner := uuid.New()

	var gotOwner uuid.UUID
	var gotLogger bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOwner, _ = auth.OwnerFrom(r.Context())
		gotLogger = log.From(r.Context()) != slog.Default()
		w.WriteHeader(http.StatusOK)
	})
	chain := Chain(h, Auth(v))

	// Без заголовка.
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/profiles", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "unauthenticated", decodeErr(t, rr).Error.Code)

	// Просроченный токен.
	expired, err := v.Issue(owner, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/profiles", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rr = httptest.NewRecorder()
	chain.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "unauthenticated", decodeErr(t, rr).Error.Code)

	// Валидный токен.
	token, err := v.Issue(owner, time.Hour, time.Now())
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/profiles", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	chain.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, owner, gotOwner)
	require.True(t, gotLogger)
}

func TestAuth_DoesNotLogToken(t *testing.T) {
	v := auth.NewVerifier(config.AuthConfig{JWTSecret: "s3cret"})
	h := &capHandler{}

	req := httptest.NewRequest(http.MethodGet, "/profiles", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	req = req.WithContext(log.Into(req.Context(), slog.New(h)))

	rr := httptest.NewRecorder()
	Chain(http.NotFoundHandler(), Auth(v)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "unauthenticated", h.lastMsg)
	require.Equal(t, "Bearer [REDACTED_TOKEN]", h.attrs["authorization"])
}
