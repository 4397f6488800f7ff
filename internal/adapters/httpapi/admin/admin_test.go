package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	dbadapter "travelhub/internal/adapters/database"
	"travelhub/internal/config"
	"travelhub/internal/core/post"
	"travelhub/internal/core/reservation"
	"travelhub/internal/core/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gin.Engine, *gorm.DB, *user.User) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), config.GormConfig(zap.NewNop()))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, dbadapter.Migrate(db))

	u := &user.User{Username: "owner", Password: "x"}
	require.NoError(t, db.Create(u).Error)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	site := NewSite(db, r.Group("/admin"), zap.NewNop())
	require.NoError(t, Register[post.TravelPost](site, "travel-posts"))
	require.NoError(t, Register[reservation.PaymentTransaction](site, "payment-transactions"))
	assert.Error(t, Register[post.TravelPost](site, "travel-posts"))
	return r, db, u
}

func call(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminIndex(t *testing.T) {
	r, _, _ := setup(t)
	w := call(r, http.MethodGet, "/admin/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct{ Models []string }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"payment-transactions", "travel-posts"}, body.Models)
}

func TestAdminCRUD(t *testing.T) {
	r, _, u := setup(t)

	w := call(r, http.MethodPost, "/admin/travel-posts/", gin.H{"user_id": u.ID, "title": "Jeju", "content": "day one"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created post.TravelPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	assert.True(t, created.Public())

	path := "/admin/travel-posts/" + jsonID(created.ID)

	w = call(r, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodPatch, path, gin.H{"id": 999, "title": "Jeju, revised"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated post.TravelPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Jeju, revised", updated.Title)
	assert.Equal(t, "day one", updated.Content)

	w = call(r, http.MethodGet, "/admin/travel-posts/?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count   int64
		Results []post.TravelPost
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, int64(1), list.Count)
	require.Len(t, list.Results, 1)

	w = call(r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = call(r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = call(r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminErrors(t *testing.T) {
	r, _, u := setup(t)

	w := call(r, http.MethodPost, "/admin/travel-posts/", gin.H{"user_id": u.ID, "content": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"title"`)

	w = call(r, http.MethodPost, "/admin/payment-transactions/", gin.H{"user_id": u.ID, "order_id": "o-1", "amount": "100", "status": "PAID"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodPost, "/admin/payment-transactions/", gin.H{"user_id": u.ID, "order_id": "o-1", "amount": "100"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p reservation.PaymentTransaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, reservation.PaymentReady, p.Status)
	assert.Nil(t, p.ReservationID)

	w = call(r, http.MethodGet, "/admin/payment-transactions/"+p.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminUpdateKeepsClosedChoices(t *testing.T) {
	r, db, u := setup(t)

	w := call(r, http.MethodPost, "/admin/payment-transactions/", gin.H{"user_id": u.ID, "order_id": "o-1", "amount": "100"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p reservation.PaymentTransaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	path := "/admin/payment-transactions/" + p.ID.String()

	w = call(r, http.MethodPatch, path, gin.H{"status": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"status"`)

	w = call(r, http.MethodPatch, path, gin.H{"currency": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var stored reservation.PaymentTransaction
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	assert.Equal(t, reservation.PaymentReady, stored.Status)
	assert.Equal(t, reservation.DefaultCurrency, stored.Currency)

	w = call(r, http.MethodPatch, path, gin.H{"status": "FAILED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	assert.Equal(t, reservation.PaymentFailed, stored.Status)
}

func TestAdminUpdateNullIntoRequiredColumn(t *testing.T) {
	r, _, u := setup(t)

	w := call(r, http.MethodPost, "/admin/travel-posts/", gin.H{"user_id": u.ID, "title": "Jeju", "content": "day one"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created post.TravelPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = call(r, http.MethodPatch, "/admin/travel-posts/"+jsonID(created.ID), gin.H{"is_public": nil})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
