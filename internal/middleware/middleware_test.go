package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/salon-booking/internal/config"
	"github.com/iliyamo/salon-booking/internal/utils"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func serve(e *echo.Echo, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func limiterConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

func TestTokenBucketRedis(t *testing.T) {
	e := echo.New()
	e.POST("/v1/book", func(c echo.Context) error { return c.NoContent(http.StatusCreated) },
		NewTokenBucket(limiterConfig(), newRedis(t)))

	for i := 0; i < 2; i++ {
		if rec := serve(e, http.MethodPost, "/v1/book", nil); rec.Code != http.StatusCreated {
			t.Fatalf("request %d: status %d", i, rec.Code)
		}
	}
	rec := serve(e, http.MethodPost, "/v1/book", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After")
	}
}

func TestTokenBucketLocalFallback(t *testing.T) {
	e := echo.New()
	e.POST("/v1/book", func(c echo.Context) error { return c.NoContent(http.StatusCreated) },
		NewTokenBucket(limiterConfig(), nil))

	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(e, http.MethodPost, "/v1/book", nil).Code)
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusCreated || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

func TestRedisCacheHit(t *testing.T) {
	rdb := newRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "cache", MaxBodyBytes: 1 << 20}
	calls := 0
	e := echo.New()
	e.GET("/v1/catalog", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}, NewRedisCache(cfg, rdb))

	first := serve(e, http.MethodGet, "/v1/catalog", nil)
	second := serve(e, http.MethodGet, "/v1/catalog", nil)
	if first.Header().Get("X-Cache") != "MISS" || second.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("X-Cache = %q, %q", first.Header().Get("X-Cache"), second.Header().Get("X-Cache"))
	}
	if calls != 1 || second.Body.String() != first.Body.String() {
		t.Fatalf("calls=%d body=%q", calls, second.Body.String())
	}
	if ct := second.Header().Get(echo.HeaderContentType); ct == "" {
		t.Fatal("content type not restored")
	}

	if err := PurgeCache(context.Background(), rdb, "cache"); err != nil {
		t.Fatalf("PurgeCache: %v", err)
	}
	if rec := serve(e, http.MethodGet, "/v1/catalog", nil); rec.Header().Get("X-Cache") != "MISS" || calls != 2 {
		t.Fatalf("after purge: X-Cache=%q calls=%d", rec.Header().Get("X-Cache"), calls)
	}
}

func TestJWTAuthAndRole(t *testing.T) {
	const secret = "test-secret"
	e := echo.New()
	e.GET("/v1/admin/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"id": AdminID(c)})
	}, JWTAuth(secret), RequireRole(utils.RoleAdmin))

	if rec := serve(e, http.MethodGet, "/v1/admin/me", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", rec.Code)
	}
	bad, _ := utils.NewAccessToken("other-secret", 7, 5)
	if rec := serve(e, http.MethodGet, "/v1/admin/me", map[string]string{"Authorization": "Bearer " + bad.Token}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: %d", rec.Code)
	}
	good, err := utils.NewAccessToken(secret, 7, 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec := serve(e, http.MethodGet, "/v1/admin/me", map[string]string{"Authorization": "Bearer " + good.Token})
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"id\":7}\n" {
		t.Fatalf("good token: %d %s", rec.Code, rec.Body.String())
	}
}
