package health_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thedevincicode/core/internal/config"
	"github.com/thedevincicode/core/internal/modules/health"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T, cfg *config.AppConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	r := gin.New()
	passthrough := func(c *gin.Context) { c.Next() }
	health.RegisterRoutes(r.Group("/api"), db, cfg, passthrough)
	return r
}

func TestHealth(t *testing.T) {
	r := setupRouter(t, &config.AppConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		OK  bool   `json:"ok"`
		Now string `json:"now"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.True(t, payload.OK)

	now, err := time.Parse(time.RFC3339, payload.Now)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), now, time.Minute)
}

func TestHealthDB(t *testing.T) {
	r := setupRouter(t, &config.AppConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/health/db", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestHealthEmailTest(t *testing.T) {
	t.Run("mail disabled", func(t *testing.T) {
		r := setupRouter(t, &config.AppConfig{})
		req := httptest.NewRequest(http.MethodGet, "/api/health/email/test", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "mail is not enabled")
	})

	t.Run("operator address missing", func(t *testing.T) {
		cfg := &config.AppConfig{}
		cfg.Mail.Enable = true
		r := setupRouter(t, cfg)
		req := httptest.NewRequest(http.MethodGet, "/api/health/email/test", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "operator email not set")
	})
}
