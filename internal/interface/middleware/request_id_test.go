package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func echoRouter(mw gin.HandlerFunc, key string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(key))
	})
	return r
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	r := echoRouter(RequestIDMiddleware(), CtxRequestIDKey)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))
}

func TestRequestIDReusesInboundHeader(t *testing.T) {
	r := echoRouter(RequestIDMiddleware(), CtxRequestIDKey)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "upstream-42", w.Body.String())
	assert.Equal(t, "upstream-42", w.Header().Get("X-Request-ID"))
}

func TestRealIPPrefersForwardingHeaders(t *testing.T) {
	r := echoRouter(RealIP(), CtxRealIPKey)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "203.0.113.7", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "198.51.100.9", w.Body.String())

	// Garbage forwarding headers fall back to the socket peer.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "not-an-ip")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not-an-ip", w.Body.String())
}
