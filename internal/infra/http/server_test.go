package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewEngine(Options{
		AllowedOrigins: []string{"http://localhost:5173"},
		Mount: func(r gin.IRouter) {
			r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
			r.GET("/boom", func(*gin.Context) { panic("boom") })
		},
	})

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/ping", http.StatusOK},
		{"/metrics", http.StatusNotFound},
		{"/boom", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("preflight Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("preflight Allow-Credentials = %q", got)
	}
}
