package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type staticAuthorizer map[string]application.Principal

func (a staticAuthorizer) Authorize(_ context.Context, token string) (application.Principal, error) {
	p, ok := a[token]
	if !ok {
		return application.Principal{}, application.ErrInvalidToken
	}
	return p, nil
}

var testAuthz = staticAuthorizer{
	"customer-token": {UserID: "u-1", Role: entity.RoleCustomer, SessionID: "s-1"},
	"admin-token":    {UserID: "u-2", Role: entity.RoleAdmin, SessionID: "s-2"},
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func code(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func TestAuth(t *testing.T) {
	r := gin.New()
	r.GET("/me", Auth(testAuthz), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey)+"|"+c.GetString(CtxSessionIDKey))
	})

	t.Run("missing header", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", code(t, w))
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic customer-token")
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", code(t, w))
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "bearer customer-token")
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u-1|s-1", w.Body.String())
	})
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin", Auth(testAuthz), RequireRole(entity.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer customer-token")
	w := serve(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", code(t, w))

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	assert.Equal(t, http.StatusNoContent, serve(r, req).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestIDKey)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(HeaderRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	const incoming = "0b8e7f4e-6f55-4a43-9a39-0d5f5e0e2b11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, incoming)
	assert.Equal(t, incoming, serve(r, req).Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	assert.NotEqual(t, "<script>", serve(r, req).Header().Get(HeaderRequestID))
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, ClientIP(c)) })

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare wins", map[string]string{"CF-Connecting-IP": "41.58.1.1", "X-Forwarded-For": "8.8.8.8"}, "41.58.1.1"},
		{"left-most forwarded", map[string]string{"X-Forwarded-For": "102.89.3.4, 10.0.0.1"}, "102.89.3.4"},
		{"real ip header", map[string]string{"X-Real-IP": "197.210.5.6"}, "197.210.5.6"},
		{"garbage ignored", map[string]string{"CF-Connecting-IP": "not-an-ip", "X-Real-IP": "197.210.5.6"}, "197.210.5.6"},
		{"remote addr", nil, "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, serve(r, req).Body.String())
		})
	}
}

func TestOnlyPrivateIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/debug", Only(AllowPrivateIP()), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/debug", nil)
	req.RemoteAddr = "10.1.2.3:5000"
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/debug", nil)
	req.RemoteAddr = "41.58.1.1:5000"
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
}

// fakeScripter evaluates the limiter script in memory.
type fakeScripter struct {
	mu     sync.Mutex
	counts map[string]int64
	fail   bool
}

func (f *fakeScripter) run(keys []string) *redis.Cmd {
	if f.fail {
		return redis.NewCmdResult(nil, errors.New("connection refused"))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[keys[0]]++
	return redis.NewCmdResult([]interface{}{f.counts[keys[0]], int64(42_000)}, nil)
}

func (f *fakeScripter) Eval(_ context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.run(keys)
}

func (f *fakeScripter) EvalSha(_ context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.run(keys)
}

func (f *fakeScripter) EvalRO(_ context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.run(keys)
}

func (f *fakeScripter) EvalShaRO(_ context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.run(keys)
}

func (f *fakeScripter) ScriptExists(_ context.Context, hashes ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult(make([]bool, len(hashes)), nil)
}

func (f *fakeScripter) ScriptLoad(_ context.Context, _ string) *redis.StringCmd {
	return redis.NewStringResult("", nil)
}

func TestRateLimit(t *testing.T) {
	rdb := &fakeScripter{}
	r := gin.New()
	r.Use(RealIP())
	r.POST("/auth/login", RateLimit(rdb, 2, time.Minute, KeyByIPAndPath(), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}
	w := serve(r, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", code(t, w))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "42", w.Header().Get("Retry-After"))

	// another caller has its own budget
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "102.89.3.4")
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	for name, rdb := range map[string]redis.Scripter{
		"no redis":    nil,
		"redis error": &fakeScripter{fail: true},
	} {
		t.Run(name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", RateLimit(rdb, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
			for i := 0; i < 3; i++ {
				assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recover(helpers.NewNopLogger()))
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL", code(t, w))
	assert.NotContains(t, w.Body.String(), "kaboom")
}
