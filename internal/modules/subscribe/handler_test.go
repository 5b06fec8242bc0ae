package subscribe_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thedevincicode/core/internal/config"
	"github.com/thedevincicode/core/internal/models"
	"github.com/thedevincicode/core/internal/modules/subscribe"
	pkgmail "github.com/thedevincicode/core/internal/pkg/mail"
	"github.com/thedevincicode/core/internal/pkg/token"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubMailer struct {
	sent    []pkgmail.SubscribeConfirmData
	failure error
}

func (m *stubMailer) SendSubscribeConfirm(to string, data pkgmail.SubscribeConfirmData) error {
	if m.failure != nil {
		return m.failure
	}
	m.sent = append(m.sent, data)
	return nil
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB, *stubMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SubscriberModel{}))

	cfg := &config.AppConfig{
		AppOrigin: "http://localhost:5173",
		APIOrigin: "http://localhost:8787",
	}
	mailer := &stubMailer{}
	h := subscribe.NewHandler(subscribe.NewService(db), cfg, mailer, zap.NewNop())

	r := gin.New()
	passthrough := func(c *gin.Context) { c.Next() }
	h.RegisterRoutes(r.Group("/api"), passthrough)
	return r, db, mailer
}

func postSubscribe(r *gin.Engine, email string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"email": email})
	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getConfirm(r *gin.Engine, secret string) *httptest.ResponseRecorder {
	target := "/api/confirm"
	if secret != "" {
		target += "?token=" + url.QueryEscape(secret)
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// confirmSecret pulls the plaintext secret back out of the confirmation link
// the mailer was handed.
func confirmSecret(t *testing.T, data pkgmail.SubscribeConfirmData) string {
	t.Helper()
	u, err := url.Parse(data.ConfirmURL)
	require.NoError(t, err)
	secret := u.Query().Get("token")
	require.NotEmpty(t, secret)
	return secret
}

func TestSubscribeValidation(t *testing.T) {
	r, db, mailer := setupRouter(t)

	for _, body := range []string{``, `{}`, `{"email":""}`, `{"email":"not-an-email"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/subscribe", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}

	var count int64
	db.Model(&models.SubscriberModel{}).Count(&count)
	assert.Zero(t, count, "rejected requests must not persist anything")
	assert.Empty(t, mailer.sent)
}

func TestSubscribeIssuesPendingToken(t *testing.T) {
	r, db, mailer := setupRouter(t)

	w := postSubscribe(r, "reader@example.com")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Check your email to confirm.")

	require.Len(t, mailer.sent, 1)
	secret := confirmSecret(t, mailer.sent[0])

	var sub models.SubscriberModel
	require.NoError(t, db.Where("email = ?", "reader@example.com").First(&sub).Error)
	assert.Equal(t, models.SubscriberPending, sub.Status)
	require.NotNil(t, sub.ConfirmTokenHash)
	assert.Equal(t, token.Digest(secret), *sub.ConfirmTokenHash, "only the digest is stored")
	require.NotNil(t, sub.TokenExpiresAt)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), *sub.TokenExpiresAt, time.Minute)
	assert.True(t, sub.Active)
}

func TestConfirmFlow(t *testing.T) {
	r, db, mailer := setupRouter(t)

	postSubscribe(r, "reader@example.com")
	secret := confirmSecret(t, mailer.sent[0])

	w := getConfirm(r, secret)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://localhost:5173/?confirmed=1", w.Header().Get("Location"))

	var sub models.SubscriberModel
	require.NoError(t, db.Where("email = ?", "reader@example.com").First(&sub).Error)
	assert.Equal(t, models.SubscriberConfirmed, sub.Status)
	assert.Nil(t, sub.ConfirmTokenHash, "consumed token is cleared")
	assert.Nil(t, sub.TokenExpiresAt)
	require.NotNil(t, sub.ConfirmedAt)

	t.Run("replay is rejected", func(t *testing.T) {
		w := getConfirm(r, secret)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "http://localhost:5173/?confirm_error=invalid", w.Header().Get("Location"))
	})
}

func TestConfirmErrors(t *testing.T) {
	r, _, _ := setupRouter(t)

	t.Run("missing token", func(t *testing.T) {
		w := getConfirm(r, "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "http://localhost:5173/?confirm_error=missing", w.Header().Get("Location"))
	})

	t.Run("unknown token", func(t *testing.T) {
		w := getConfirm(r, "deadbeef")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "http://localhost:5173/?confirm_error=invalid", w.Header().Get("Location"))
	})
}

func TestConfirmExpiredTokenLeavesRecordPending(t *testing.T) {
	r, db, _ := setupRouter(t)

	pair, err := token.New()
	require.NoError(t, err)
	past := time.Now().Add(-time.Hour)
	sub := models.SubscriberModel{
		Email:            "late@example.com",
		Status:           models.SubscriberPending,
		ConfirmTokenHash: &pair.Digest,
		TokenExpiresAt:   &past,
		SubscribedAt:     time.Now().Add(-8 * 24 * time.Hour),
		Active:           true,
	}
	require.NoError(t, db.Create(&sub).Error)

	w := getConfirm(r, pair.Secret)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://localhost:5173/?confirm_error=expired", w.Header().Get("Location"))

	var reloaded models.SubscriberModel
	require.NoError(t, db.First(&reloaded, sub.ID).Error)
	assert.Equal(t, models.SubscriberPending, reloaded.Status)
	assert.NotNil(t, reloaded.ConfirmTokenHash, "a fresh subscribe replaces it, confirm does not")
}

func TestResubscribeInvalidatesPreviousToken(t *testing.T) {
	r, db, mailer := setupRouter(t)

	postSubscribe(r, "reader@example.com")
	w := postSubscribe(r, "reader@example.com")
	assert.Equal(t, http.StatusCreated, w.Code, "pending re-subscribe still reports pending")

	require.Len(t, mailer.sent, 2)
	first := confirmSecret(t, mailer.sent[0])
	second := confirmSecret(t, mailer.sent[1])
	assert.NotEqual(t, first, second)

	var count int64
	db.Model(&models.SubscriberModel{}).Count(&count)
	assert.EqualValues(t, 1, count, "upsert keeps one row per email")

	wOld := getConfirm(r, first)
	assert.Equal(t, "http://localhost:5173/?confirm_error=invalid", wOld.Header().Get("Location"))

	wNew := getConfirm(r, second)
	assert.Equal(t, "http://localhost:5173/?confirmed=1", wNew.Header().Get("Location"))
}

func TestSubscribeAlreadyConfirmed(t *testing.T) {
	r, db, mailer := setupRouter(t)

	postSubscribe(r, "reader@example.com")
	getConfirm(r, confirmSecret(t, mailer.sent[0]))

	w := postSubscribe(r, "reader@example.com")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Already subscribed")
	assert.Len(t, mailer.sent, 1, "no new confirmation email goes out")

	var sub models.SubscriberModel
	require.NoError(t, db.Where("email = ?", "reader@example.com").First(&sub).Error)
	assert.Equal(t, models.SubscriberConfirmed, sub.Status)
	assert.Nil(t, sub.ConfirmTokenHash, "confirmed record gets no new token")
}

func TestSubscribeMailFailure(t *testing.T) {
	r, db, mailer := setupRouter(t)
	mailer.failure = errors.New("relay down")

	w := postSubscribe(r, "reader@example.com")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "couldn't be sent yet")

	var sub models.SubscriberModel
	require.NoError(t, db.Where("email = ?", "reader@example.com").First(&sub).Error)
	assert.Equal(t, models.SubscriberPending, sub.Status)
	assert.NotNil(t, sub.ConfirmTokenHash, "record stays so a retry can re-issue")

	t.Run("retry succeeds after relay recovers", func(t *testing.T) {
		mailer.failure = nil
		w := postSubscribe(r, "reader@example.com")
		assert.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, mailer.sent, 1)
	})
}

func TestUnsubscribe(t *testing.T) {
	r, db, mailer := setupRouter(t)

	postSubscribe(r, "reader@example.com")
	getConfirm(r, confirmSecret(t, mailer.sent[0]))

	req := httptest.NewRequest(http.MethodGet, "/api/subscribe/cancel?email=reader%40example.com", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var sub models.SubscriberModel
	require.NoError(t, db.Where("email = ?", "reader@example.com").First(&sub).Error)
	assert.False(t, sub.Active)
	assert.Equal(t, models.SubscriberConfirmed, sub.Status, "opt-in state survives unsubscribe")

	t.Run("unknown email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/subscribe/cancel?email=ghost%40example.com", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/subscribe/cancel", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBatchUnsubscribe(t *testing.T) {
	r, db, _ := setupRouter(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		postSubscribe(r, email)
	}

	body, _ := json.Marshal(gin.H{"emails": []string{"a@example.com", "b@example.com"}})
	req := httptest.NewRequest(http.MethodDelete, "/api/subscribers/batch", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deactivatedCount":2`)

	var active int64
	db.Model(&models.SubscriberModel{}).Where("active = ?", true).Count(&active)
	assert.EqualValues(t, 1, active)

	t.Run("all", func(t *testing.T) {
		body, _ := json.Marshal(gin.H{"all": true})
		req := httptest.NewRequest(http.MethodDelete, "/api/subscribers/batch", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var active int64
		db.Model(&models.SubscriberModel{}).Where("active = ?", true).Count(&active)
		assert.Zero(t, active)
	})
}

func TestListSubscribers(t *testing.T) {
	r, _, _ := setupRouter(t)

	postSubscribe(r, "a@example.com")
	postSubscribe(r, "b@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/subscribers", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Data []models.SubscriberModel `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Len(t, payload.Data, 2)
}
