package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gatewise/geofence/internal/geoip"
	"github.com/gatewise/geofence/internal/models"
	"github.com/gatewise/geofence/internal/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.GeoPolicy{}, &models.GeoDecision{}, &models.NotificationProvider{}))
	return db
}

func newPolicyRouter(t *testing.T, db *gorm.DB, resolver geoip.Resolver) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewPolicyHandler(services.NewPolicyService(db), resolver)
	router := gin.New()
	router.GET("/policies", handler.List)
	router.POST("/policies", handler.Create)
	router.GET("/policies/:id", handler.Get)
	router.PUT("/policies/:id", handler.Update)
	router.DELETE("/policies/:id", handler.Delete)
	router.POST("/policies/:id/test", handler.Test)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPolicyHandler_CRUD(t *testing.T) {
	db := setupTestDB(t)
	router := newPolicyRouter(t, db, nil)

	t.Run("create valid policy", func(t *testing.T) {
		body := `{"name":"fr-only","whitelist_rules":"[{\"type\":\"COUNTRY\",\"country\":\"FR\"}]"}`
		w := doJSON(router, http.MethodPost, "/policies", body)
		require.Equal(t, http.StatusCreated, w.Code)

		var created models.GeoPolicy
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.NotZero(t, created.ID)
		assert.NotEmpty(t, created.UUID)
	})

	t.Run("create rejects bad rule type", func(t *testing.T) {
		body := `{"name":"bad","whitelist_rules":"[{\"type\":\"ASN\"}]"}`
		w := doJSON(router, http.MethodPost, "/policies", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "rule type")
	})

	t.Run("get missing policy", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/policies/999", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update and delete", func(t *testing.T) {
		body := `{"name":"fr-only","description":"updated","whitelist_rules":"[{\"type\":\"COUNTRY\",\"country\":\"FR\"}]"}`
		w := doJSON(router, http.MethodPut, "/policies/1", body)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "updated")

		w = doJSON(router, http.MethodDelete, "/policies/1", "")
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(router, http.MethodDelete, "/policies/1", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPolicyHandler_Test(t *testing.T) {
	db := setupTestDB(t)
	resolver := geoip.ResolverFunc(func(ctx context.Context, address string) (*geoip.Record, error) {
		return &geoip.Record{CountryISOCode: "DE", CountryName: "Germany"}, nil
	})
	router := newPolicyRouter(t, db, resolver)

	w := doJSON(router, http.MethodPost, "/policies", `{"name":"fr-only","whitelist_rules":"[{\"type\":\"COUNTRY\",\"country\":\"FR\"}]"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.GeoPolicy
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("dry run rejects non-matching address", func(t *testing.T) {
		path := fmt.Sprintf("/policies/%d/test", created.ID)
		w := doJSON(router, http.MethodPost, path, `{"address":"203.0.113.9"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var verdict geoip.Verdict
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verdict))
		assert.False(t, verdict.Allowed)
		assert.Equal(t, geoip.ReasonInvalid, verdict.Reason)
		assert.Equal(t, "203.0.113.9", verdict.Parameters["remote_address"])
	})

	t.Run("rejects malformed address", func(t *testing.T) {
		path := fmt.Sprintf("/policies/%d/test", created.ID)
		w := doJSON(router, http.MethodPost, path, `{"address":"not-an-ip"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown policy id", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/policies/999/test", `{"address":"203.0.113.9"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
