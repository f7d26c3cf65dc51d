package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimitWindow(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	gin.SetMode(gin.TestMode)
	g := gin.New()
	// 1 rps over a 1s window with burst 1 => 2 allowed per window
	g.Use(RedisRateLimitMiddleware(client, 1, 1, time.Second))
	g.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	codes := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.9.0.1:1234"
		g.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	require.Equal(t, http.StatusOK, codes[0])
	require.Equal(t, http.StatusOK, codes[1])
	require.Equal(t, http.StatusTooManyRequests, codes[2])
}

func TestRedisRateLimitNilClientFallsBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.Use(RedisRateLimitMiddleware(nil, 100, 100, time.Second))
	g.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
