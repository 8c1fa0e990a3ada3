package logs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesSeverityAndMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info")

	logger.Debug("hidden")
	logger.Warn("Post not found", "postID", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["severity"])
	assert.Equal(t, "Post not found", entry["message"])
	assert.Equal(t, float64(7), entry["postID"])
	assert.NotEmpty(t, entry["time"])
}

func TestMiddlewareLogsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer

	r := gin.New()
	r.Use(Middleware(New(&buf, "debug")))
	r.GET("/api/tweets/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tweets/3", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["severity"])
	assert.Equal(t, "/api/tweets/:id", entry["route"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
}
