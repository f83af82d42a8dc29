package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/activity-favorites/internal/graph"
	"github.com/ignatzorin/activity-favorites/internal/pkg/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokens struct {
	valid  string
	userID uuid.UUID
}

func (s stubTokens) ParseAccess(token string) (uuid.UUID, string, error) {
	if token != s.valid {
		return uuid.Nil, "", errors.New("invalid")
	}
	return s.userID, "user", nil
}

func whoAmI(c *gin.Context) {
	id, ok := c.Get(ContextUserIDKey)
	if !ok {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, id.(uuid.UUID).String())
}

func TestTokenSources(t *testing.T) {
	tokens := stubTokens{valid: "good", userID: uuid.New()}
	r := gin.New()
	r.GET("/", OptionalAuth(tokens, "jwt"), whoAmI)

	cases := []struct {
		name  string
		setup func(*http.Request)
		want  string
	}{
		{"header", func(req *http.Request) { req.Header.Set("jwt", "good") }, tokens.userID.String()},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "jwt", Value: "good"}) }, tokens.userID.String()},
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer good") }, tokens.userID.String()},
		{"invalid is anonymous", func(req *http.Request) { req.Header.Set("jwt", "bad") }, "anonymous"},
		{"none", func(*http.Request) {}, "anonymous"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}

func TestAuthMiddleware_RejectsAnonymous(t *testing.T) {
	r := gin.New()
	r.GET("/", AuthMiddleware(stubTokens{valid: "good", userID: uuid.New()}, "jwt"), whoAmI)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), apperror.ErrUnauthorized.Message)
}

func TestRateLimitMiddleware(t *testing.T) {
	store, err := NewLimiterStore(nil)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/", RateLimitMiddleware(store, "test", 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestOperationThrottler(t *testing.T) {
	store, err := NewLimiterStore(nil)
	require.NoError(t, err)
	throttler := NewOperationThrottler(store)
	ctx := graph.WithClientIP(context.Background(), "10.0.0.1")

	for i := 0; i < int(RegisterRate.Limit); i++ {
		require.NoError(t, throttler.Throttle(ctx, "register"))
	}
	assert.ErrorIs(t, throttler.Throttle(ctx, "register"), apperror.ErrTooManyRequests)

	// другой IP и другие операции не затронуты
	assert.NoError(t, throttler.Throttle(graph.WithClientIP(context.Background(), "10.0.0.2"), "register"))
	assert.NoError(t, throttler.Throttle(ctx, "login"))
	assert.NoError(t, throttler.Throttle(ctx, "getMe"))
}

func TestErrorHandler_MasksInternal(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/internal", func(c *gin.Context) { _ = c.Error(errors.New("pq: connection refused")) })
	r.GET("/conflict", func(c *gin.Context) { _ = c.Error(apperror.ErrFavoriteExists) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/internal", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conflict", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUUIDValidator(t *testing.T) {
	r := gin.New()
	r.GET("/:a/:b", UUIDValidator("a", "b"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/"+uuid.NewString()+"/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/"+uuid.NewString()+"/nope", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
