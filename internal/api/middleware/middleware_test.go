package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/es2/countrysync/internal/config"
	"github.com/es2/countrysync/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestLoggerReusesIncomingID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&logger.Config{Level: "info", Format: "json", Output: &buf, ServiceName: "mdm"})

	var seen string
	r := gin.New()
	r.Use(RequestLogger(log, "mdm-api"))
	r.GET("/ping", func(c *gin.Context) {
		seen = logger.GetRequestID(c.Request.Context())
		assert.Same(t, GetLogger(c), logger.FromContext(c.Request.Context()))
		c.Status(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping?x=1", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	assert.Equal(t, "req-123", entry[logger.FieldRequestID])
	assert.Equal(t, "mdm-api", entry[logger.FieldComponent])
	assert.EqualValues(t, http.StatusTeapot, entry[logger.FieldStatus])
	assert.Equal(t, "warning", entry["level"])
	assert.Contains(t, entry["message"], "/ping?x=1")
}

func TestRequestLoggerGeneratesID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(nil, "dem-api"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.CORSConfig
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{"allow all", config.CORSConfig{AllowAllOrigins: true}, http.MethodGet, "https://a.test", http.StatusOK, "*"},
		{"listed origin", config.CORSConfig{AllowedOrigins: []string{"https://A.test"}}, http.MethodGet, "https://a.test", http.StatusOK, "https://a.test"},
		{"unlisted origin", config.CORSConfig{AllowedOrigins: []string{"https://a.test"}}, http.MethodGet, "https://b.test", http.StatusOK, ""},
		{"empty list echoes", config.CORSConfig{}, http.MethodGet, "https://b.test", http.StatusOK, "https://b.test"},
		{"preflight", config.CORSConfig{AllowedOrigins: []string{"*"}}, http.MethodOptions, "https://a.test", http.StatusNoContent, "https://a.test"},
		{"no origin header", config.CORSConfig{AllowedOrigins: []string{"https://a.test"}}, http.MethodGet, "", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tt.cfg))
			r.Handle(tt.method, "/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
